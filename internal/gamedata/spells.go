package gamedata

import "strings"

// NormalizeSpell collapses a raw step list into effects and a boost value.
//
// A step carrying both a type and a spell power multiplier opens a new effect
// only when its type differs from the previous effect's type; repeats of the
// same type are ignored. A step without a multiplier whose type starts with
// "Count" sets the boost to its amount (default 1); the last such step wins.
func NormalizeSpell(raw RawSpell) *Spell {
	effects := []Effect{}
	var boost float64
	lastType := ""

	for _, step := range raw.SpellSteps {
		if step.Type != "" && step.SpellPowerMultiplier != nil {
			if step.Type != lastType {
				effects = append(effects, Effect{*step.SpellPowerMultiplier, amountOr(step.Amount, 0)})
				lastType = step.Type
			}
		} else if strings.HasPrefix(step.Type, "Count") {
			boost = amountOr(step.Amount, 1)
		}
	}

	return &Spell{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Cost:        raw.Cost,
		Effects:     effects,
		Boost:       boost,
	}
}

func amountOr(amount *float64, fallback float64) float64 {
	if amount == nil {
		return fallback
	}
	return *amount
}

func (g *GameData) populateSpells() error {
	for _, raw := range g.world.Spells {
		g.Spells[raw.ID] = NormalizeSpell(raw)
	}
	return nil
}

func (g *GameData) populateTraits() error {
	for _, raw := range g.world.Traits {
		g.Traits[raw.Code] = Trait{Name: raw.Name, Description: raw.Description}
	}
	return nil
}
