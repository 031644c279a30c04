package gamedata

import (
	"fmt"
	"strconv"
	"strings"
)

func (g *GameData) populateTalents() error {
	for _, raw := range g.world.TalentTrees {
		talents := make([]Talent, 0, len(raw.Traits))
		for _, code := range raw.Traits {
			res := g.ResolveTalent(code)
			if res.Tolerated {
				g.tolerate("talent", code, "talent tree "+raw.Code)
			}
			talents = append(talents, res.Value)
		}
		g.TalentTrees[raw.Code] = &TalentTree{
			Code:    raw.Code,
			Name:    fmt.Sprintf("[TALENT_TREE_%s]", strings.ToUpper(raw.Code)),
			Talents: talents,
			Classes: []Class{},
		}
	}
	return nil
}

// populateClasses needs talent trees and weapons; it tags each class's
// signature weapon and registers the class on every tree it uses.
func (g *GameData) populateClasses() error {
	for _, raw := range g.world.HeroClasses {
		referrer := ref("class", raw.ID)

		talents := make([][]Talent, 0, len(raw.TalentTrees))
		for _, code := range raw.TalentTrees {
			tree, ok := g.TalentTrees[code]
			if !ok {
				return MissingReferenceError{Kind: "talent tree", Key: code, Referrer: referrer}
			}
			talents = append(talents, tree.Talents)
		}

		weapon, ok := g.Weapons[raw.ClassWeaponID]
		if !ok {
			return MissingReferenceError{Kind: "weapon", Key: strconv.Itoa(raw.ClassWeaponID), Referrer: referrer}
		}

		class := &Class{
			ID:        raw.ID,
			Name:      raw.Name,
			Code:      raw.Code,
			Talents:   talents,
			Trees:     append([]string{}, raw.TalentTrees...),
			Traits:    g.resolveTraits(raw.Traits, referrer),
			WeaponID:  raw.ClassWeaponID,
			KingdomID: raw.KingdomID,
			Type:      firstRune(raw.Augment),
		}
		g.Classes[raw.ID] = class
		weapon.Class = raw.Name

		for _, code := range raw.TalentTrees {
			tree := g.TalentTrees[code]
			tree.Classes = append(tree.Classes, *class)
		}
	}
	return nil
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
