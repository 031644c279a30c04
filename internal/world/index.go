package world

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/lawnchairsociety/gowdata/internal/overlay"
	"github.com/lawnchairsociety/gowdata/internal/search"
)

// Result is one translated entity as returned to readers.
type Result struct {
	Kind   string          `json:"kind"`
	ID     int             `json:"id"`
	Name   string          `json:"name"`
	Locale string          `json:"locale"`
	Digest string          `json:"digest"`
	Data   json.RawMessage `json:"data"`
}

// Index is the kind-independent view of one entity collection.
type Index interface {
	Kind() string
	Len() int
	IDs() []int
	Get(id int, locale string) (Result, bool)
	Search(query, locale string) []Result
	Suggest(query, locale string, n int) []search.Suggestion
	Digest(locale string) string
	SetReleaseDate(id int, date time.Time) error
}

type index[T any, P overlay.Entity[T]] struct {
	*overlay.Collection[T, P]
}

func newIndex[T any, P overlay.Entity[T]](c *overlay.Collection[T, P]) Index {
	return index[T, P]{Collection: c}
}

func (ix index[T, P]) result(snap *overlay.Snapshot[T]) Result {
	return Result{
		Kind:   ix.Kind(),
		ID:     snap.ID,
		Name:   snap.Name(),
		Locale: snap.Locale,
		Digest: snap.DigestHex(),
		Data:   json.RawMessage(snap.JSON),
	}
}

func (ix index[T, P]) Get(id int, locale string) (Result, bool) {
	container, ok := ix.Collection.Get(id)
	if !ok {
		return Result{}, false
	}
	snap, ok := container.Snapshot(locale)
	if !ok {
		return Result{}, false
	}
	return ix.result(snap), true
}

func (ix index[T, P]) Search(query, locale string) []Result {
	snaps := ix.Collection.Search(query, locale)
	results := make([]Result, len(snaps))
	for i, snap := range snaps {
		results[i] = ix.result(snap)
	}
	return results
}

// addAll registers every entity of m in the collection.
func addAll[T any, P overlay.Entity[T]](c *overlay.Collection[T, P], m map[int]P) *overlay.Collection[T, P] {
	for id, entity := range m {
		c.Add(id, entity)
	}
	return c
}

// UnknownKindError is returned for a kind with no collection.
type UnknownKindError struct {
	Kind string
}

func (e UnknownKindError) Error() string {
	return fmt.Sprintf("unknown kind %q", e.Kind)
}
