package overlay

import (
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/lawnchairsociety/gowdata/internal/i18n"
)

// Entity is a pointer to a game entity that carries a release date.
type Entity[T any] interface {
	*T
	SetReleaseDate(time.Time)
}

// Snapshot is one immutable translated rendering of an entity.
type Snapshot[T any] struct {
	ID     int
	Locale string
	Value  *T
	Doc    map[string]any
	JSON   []byte
	Digest [blake2b.Size256]byte
}

// DigestHex returns the blake2b-256 digest of the canonical JSON as hex.
func (s *Snapshot[T]) DigestHex() string {
	return hex.EncodeToString(s.Digest[:])
}

// Name returns the snapshot's top-level name field.
func (s *Snapshot[T]) Name() string {
	name, _ := s.Doc["name"].(string)
	return name
}

func newSnapshot[T any](id int, locale string, doc map[string]any) (*Snapshot[T], error) {
	value, err := Decode[T](doc)
	if err != nil {
		return nil, err
	}
	data, err := Canonical(doc)
	if err != nil {
		return nil, err
	}
	return &Snapshot[T]{
		ID:     id,
		Locale: locale,
		Value:  value,
		Doc:    doc,
		JSON:   data,
		Digest: blake2b.Sum256(data),
	}, nil
}

// Container holds one source entity and its translated snapshots.
type Container[T any, P Entity[T]] struct {
	mu        sync.RWMutex
	id        int
	source    P
	snapshots map[string]*Snapshot[T]
}

func NewContainer[T any, P Entity[T]](id int, source P) *Container[T, P] {
	return &Container[T, P]{
		id:        id,
		source:    source,
		snapshots: make(map[string]*Snapshot[T]),
	}
}

func (c *Container[T, P]) ID() int { return c.id }

// Source returns the untranslated entity. Callers must not mutate it; use
// SetReleaseDate instead.
func (c *Container[T, P]) Source() P {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.source
}

// Translate builds one snapshot per locale, replacing any existing ones.
func (c *Container[T, P]) Translate(table i18n.Table, locales []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := ToDocument(c.source)
	if err != nil {
		return fmt.Errorf("entity %d: %w", c.id, err)
	}
	snapshots := make(map[string]*Snapshot[T], len(locales))
	for _, locale := range locales {
		snap, err := newSnapshot[T](c.id, locale, TranslateDocument(doc, table, locale))
		if err != nil {
			return fmt.Errorf("entity %d locale %s: %w", c.id, locale, err)
		}
		snapshots[locale] = snap
	}
	c.snapshots = snapshots
	return nil
}

// Snapshot returns the translated rendering for locale.
func (c *Container[T, P]) Snapshot(locale string) (*Snapshot[T], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, ok := c.snapshots[locale]
	return snap, ok
}

// Locales returns the locales with a snapshot, sorted.
func (c *Container[T, P]) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.snapshots))
	for locale := range c.snapshots {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// SetReleaseDate writes the date into the source and replaces every snapshot
// with a copy carrying it. Snapshots already handed out are left untouched.
func (c *Container[T, P]) SetReleaseDate(date time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.source.SetReleaseDate(date)

	snapshots := make(map[string]*Snapshot[T], len(c.snapshots))
	for locale, old := range c.snapshots {
		doc := make(map[string]any, len(old.Doc)+1)
		for k, v := range old.Doc {
			doc[k] = v
		}
		doc["release_date"] = date.Format(time.RFC3339Nano)

		snap, err := newSnapshot[T](c.id, locale, doc)
		if err != nil {
			return fmt.Errorf("entity %d locale %s: %w", c.id, locale, err)
		}
		snapshots[locale] = snap
	}
	c.snapshots = snapshots
	return nil
}
