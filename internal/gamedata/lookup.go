package gamedata

import (
	"strconv"

	"github.com/lawnchairsociety/gowdata/internal/logger"
)

// Resolution is the result of a lookup with a tolerance policy: either the
// record was found, or a default stands in for it.
type Resolution[T any] struct {
	Value     T
	Tolerated bool
}

func found[T any](v T) Resolution[T]     { return Resolution[T]{Value: v} }
func tolerated[T any](v T) Resolution[T] { return Resolution[T]{Value: v, Tolerated: true} }

// Gap is a missing optional reference absorbed during enrichment.
type Gap struct {
	Kind     string
	Key      string
	Referrer string
}

// Gaps returns the tolerated gaps recorded by the last Populate run.
func (g *GameData) Gaps() []Gap {
	return g.gaps
}

func (g *GameData) tolerate(kind, key, referrer string) {
	g.gaps = append(g.gaps, Gap{Kind: kind, Key: key, Referrer: referrer})
	logger.Warning("Tolerated data gap", "kind", kind, "key", key, "referrer", referrer)
}

// ResolveTrait looks up a troop or class trait. Unknown codes resolve to a
// placeholder trait named after the code.
func (g *GameData) ResolveTrait(code string) Resolution[Trait] {
	if trait, ok := g.Traits[code]; ok {
		return found(trait)
	}
	return tolerated(Trait{Name: code, Description: "-"})
}

// ResolveTalent looks up a talent tree trait. Unknown codes pass through as the raw code.
func (g *GameData) ResolveTalent(code string) Resolution[Talent] {
	if trait, ok := g.Traits[code]; ok {
		return found(Talent{Trait: &trait})
	}
	return tolerated(Talent{Code: code})
}

// ResolveAffix looks up a weapon affix spell. Unknown ids resolve to nil and are dropped by the caller.
func (g *GameData) ResolveAffix(id int) Resolution[*Spell] {
	if spell, ok := g.Spells[id]; ok {
		return found(spell)
	}
	return tolerated[*Spell](nil)
}

func (g *GameData) resolveTraits(codes []string, referrer string) []Trait {
	traits := make([]Trait, 0, len(codes))
	for _, code := range codes {
		res := g.ResolveTrait(code)
		if res.Tolerated {
			g.tolerate("trait", code, referrer)
		}
		traits = append(traits, res.Value)
	}
	return traits
}

func ref(kind string, id int) string {
	return kind + " " + strconv.Itoa(id)
}
