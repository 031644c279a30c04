// Package world ingests a game data dump and holds the translated entity
// collections built from it.
package world

import (
	"fmt"
	"slices"
	"time"

	"github.com/lawnchairsociety/gowdata/internal/config"
	"github.com/lawnchairsociety/gowdata/internal/gamedata"
	"github.com/lawnchairsociety/gowdata/internal/i18n"
	"github.com/lawnchairsociety/gowdata/internal/logger"
	"github.com/lawnchairsociety/gowdata/internal/overlay"
)

// Kinds lists the searchable entity kinds in display order.
var Kinds = []string{
	config.KindTroop,
	config.KindKingdom,
	config.KindWeapon,
	config.KindPet,
	config.KindClass,
}

// World is the result of one ingestion run. Collections are read-only
// after Load except for release date updates.
type World struct {
	Data *gamedata.GameData

	Troops   *overlay.Collection[gamedata.Troop, *gamedata.Troop]
	Kingdoms *overlay.Collection[gamedata.Kingdom, *gamedata.Kingdom]
	Weapons  *overlay.Collection[gamedata.Weapon, *gamedata.Weapon]
	Pets     *overlay.Collection[gamedata.Pet, *gamedata.Pet]
	Classes  *overlay.Collection[gamedata.Class, *gamedata.Class]

	locales []string
	indexes map[string]Index
}

// noCampaign hides Campaign.json from the resolver.
type noCampaign struct {
	gamedata.AssetLoader
}

func (l noCampaign) Exists(name string) bool {
	if name == gamedata.CampaignAsset {
		return false
	}
	return l.AssetLoader.Exists(name)
}

// Load reads the assets, resolves the entity graph, assigns reference names
// from the reference locale and translates every collection into each
// configured locale. No world is returned when any step fails.
func Load(cfg *config.Config, loader gamedata.AssetLoader, table i18n.Table, opts ...gamedata.Option) (*World, error) {
	if !cfg.Assets.Campaign {
		loader = noCampaign{loader}
	}

	data := gamedata.New(opts...)
	if err := data.PopulateWorldData(loader); err != nil {
		return nil, fmt.Errorf("populate world data: %w", err)
	}

	reference := cfg.ReferenceLocale
	data.AssignReferenceNames(func(key string) string {
		return table.Translate(key, reference)
	})

	w := &World{
		Data:     data,
		Troops:   addAll(overlay.NewCollection[gamedata.Troop](config.KindTroop, cfg.Lookup(config.KindTroop)), data.Troops),
		Kingdoms: addAll(overlay.NewCollection[gamedata.Kingdom](config.KindKingdom, cfg.Lookup(config.KindKingdom)), data.Kingdoms),
		Weapons:  addAll(overlay.NewCollection[gamedata.Weapon](config.KindWeapon, cfg.Lookup(config.KindWeapon)), data.Weapons),
		Pets:     addAll(overlay.NewCollection[gamedata.Pet](config.KindPet, cfg.Lookup(config.KindPet)), data.Pets),
		Classes:  addAll(overlay.NewCollection[gamedata.Class](config.KindClass, cfg.Lookup(config.KindClass)), data.Classes),
		locales:  cfg.LocaleCodes(),
	}
	w.indexes = map[string]Index{
		config.KindTroop:   newIndex(w.Troops),
		config.KindKingdom: newIndex(w.Kingdoms),
		config.KindWeapon:  newIndex(w.Weapons),
		config.KindPet:     newIndex(w.Pets),
		config.KindClass:   newIndex(w.Classes),
	}

	translators := []interface {
		Kind() string
		Translate(i18n.Table, []string) error
	}{w.Troops, w.Kingdoms, w.Weapons, w.Pets, w.Classes}
	for _, c := range translators {
		start := time.Now()
		if err := c.Translate(table, w.locales); err != nil {
			return nil, fmt.Errorf("translate: %w", err)
		}
		logger.Debug("Translated collection", "kind", c.Kind(), "locales", len(w.locales), "elapsed", time.Since(start))
	}

	logger.Info("World loaded",
		"troops", w.Troops.Len(),
		"kingdoms", w.Kingdoms.Len(),
		"weapons", w.Weapons.Len(),
		"pets", w.Pets.Len(),
		"classes", w.Classes.Len(),
		"locales", len(w.locales))
	return w, nil
}

// Locales returns the locale codes every snapshot exists for.
func (w *World) Locales() []string {
	return slices.Clone(w.locales)
}

// HasLocale reports whether snapshots were built for locale.
func (w *World) HasLocale(locale string) bool {
	return slices.Contains(w.locales, locale)
}

// Index returns the collection of one kind.
func (w *World) Index(kind string) (Index, error) {
	ix, ok := w.indexes[kind]
	if !ok {
		return nil, UnknownKindError{Kind: kind}
	}
	return ix, nil
}

// Get returns one translated entity.
func (w *World) Get(kind string, id int, locale string) (Result, bool, error) {
	ix, err := w.Index(kind)
	if err != nil {
		return Result{}, false, err
	}
	res, ok := ix.Get(id, locale)
	return res, ok, nil
}

// Search searches one kind, or every kind in display order when kind is empty.
func (w *World) Search(kind, query, locale string) ([]Result, error) {
	if kind != "" {
		ix, err := w.Index(kind)
		if err != nil {
			return nil, err
		}
		return ix.Search(query, locale), nil
	}
	var results []Result
	for _, k := range Kinds {
		results = append(results, w.indexes[k].Search(query, locale)...)
	}
	return results, nil
}

// SetReleaseDate changes one entity's release date in its source and snapshots.
func (w *World) SetReleaseDate(kind string, id int, date time.Time) error {
	ix, err := w.Index(kind)
	if err != nil {
		return err
	}
	return ix.SetReleaseDate(id, date)
}

// Digests returns the per-kind digest of one locale.
func (w *World) Digests(locale string) map[string]string {
	out := make(map[string]string, len(w.indexes))
	for kind, ix := range w.indexes {
		out[kind] = ix.Digest(locale)
	}
	return out
}

// Summary describes a loaded world for logging.
type Summary struct {
	Counts    map[string]int
	Spoilers  int
	Events    int
	Soulforge int
	Campaign  int
	Gaps      []gamedata.Gap
}

func (w *World) Summary() Summary {
	s := Summary{
		Counts:    make(map[string]int, len(w.indexes)),
		Spoilers:  len(w.Data.Spoilers),
		Events:    len(w.Data.Events),
		Soulforge: len(w.Data.SoulforgeWeapons),
		Gaps:      w.Data.Gaps(),
	}
	for kind, ix := range w.indexes {
		s.Counts[kind] = ix.Len()
	}
	for _, tasks := range w.Data.CampaignTasks {
		s.Campaign += len(tasks)
	}
	return s
}
