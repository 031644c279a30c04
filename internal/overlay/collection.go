package overlay

import (
	"encoding/hex"
	"fmt"
	"slices"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/lawnchairsociety/gowdata/internal/i18n"
	"github.com/lawnchairsociety/gowdata/internal/search"
)

// Collection holds the containers of one entity kind together with the
// document fields searched for that kind. Containers are added during
// ingestion; afterwards the collection is only read.
type Collection[T any, P Entity[T]] struct {
	kind       string
	lookupKeys []string
	containers map[int]*Container[T, P]
	ids        []int
}

func NewCollection[T any, P Entity[T]](kind string, lookupKeys []string) *Collection[T, P] {
	return &Collection[T, P]{
		kind:       kind,
		lookupKeys: slices.Clone(lookupKeys),
		containers: make(map[int]*Container[T, P]),
	}
}

func (c *Collection[T, P]) Kind() string { return c.kind }

func (c *Collection[T, P]) LookupKeys() []string { return slices.Clone(c.lookupKeys) }

// Add registers a source entity. Adding an id twice replaces the container.
func (c *Collection[T, P]) Add(id int, source P) *Container[T, P] {
	if _, exists := c.containers[id]; !exists {
		i, _ := slices.BinarySearch(c.ids, id)
		c.ids = slices.Insert(c.ids, i, id)
	}
	container := NewContainer[T, P](id, source)
	c.containers[id] = container
	return container
}

func (c *Collection[T, P]) Get(id int) (*Container[T, P], bool) {
	container, ok := c.containers[id]
	return container, ok
}

// IDs returns the entity ids in ascending order.
func (c *Collection[T, P]) IDs() []int { return slices.Clone(c.ids) }

func (c *Collection[T, P]) Len() int { return len(c.ids) }

// Translate builds the snapshots of every container.
func (c *Collection[T, P]) Translate(table i18n.Table, locales []string) error {
	for _, id := range c.ids {
		if err := c.containers[id].Translate(table, locales); err != nil {
			return fmt.Errorf("%s: %w", c.kind, err)
		}
	}
	return nil
}

// SetReleaseDate updates one entity and its snapshots.
func (c *Collection[T, P]) SetReleaseDate(id int, date time.Time) error {
	container, ok := c.containers[id]
	if !ok {
		return fmt.Errorf("unknown %s %d", c.kind, id)
	}
	return container.SetReleaseDate(date)
}

// Search returns the snapshots matching the query in ascending id order. If
// any name matches precisely, only those are returned.
func (c *Collection[T, P]) Search(query, locale string) []*Snapshot[T] {
	var precise, partial []*Snapshot[T]
	for _, id := range c.ids {
		snap, ok := c.containers[id].Snapshot(locale)
		if !ok {
			continue
		}
		if !search.Matches(snap.Doc, c.lookupKeys, query) {
			continue
		}
		if search.MatchesPrecisely(snap.Doc, query) {
			precise = append(precise, snap)
		}
		partial = append(partial, snap)
	}
	if len(precise) > 0 {
		return precise
	}
	return partial
}

// Suggest proposes up to n translated names close to the query.
func (c *Collection[T, P]) Suggest(query, locale string, n int) []search.Suggestion {
	names := make([]string, 0, len(c.ids))
	for _, id := range c.ids {
		if snap, ok := c.containers[id].Snapshot(locale); ok {
			names = append(names, snap.Name())
		}
	}
	return search.Suggest(query, names, n)
}

// Digest combines the snapshot digests of one locale in id order.
func (c *Collection[T, P]) Digest(locale string) string {
	h, _ := blake2b.New256(nil)
	for _, id := range c.ids {
		if snap, ok := c.containers[id].Snapshot(locale); ok {
			h.Write(snap.Digest[:])
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
