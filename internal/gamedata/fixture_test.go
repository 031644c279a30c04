package gamedata

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }
func strp(v string) *string  { return &v }

var fixtureToday = time.Date(2024, 4, 18, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixtureToday }

func rawTask(t *testing.T, id string, reward int, extra map[string]any) json.RawMessage {
	t.Helper()
	task := map[string]any{
		"Id":        id,
		"Rewards":   []map[string]any{{"Amount": reward}},
		"Task":      "[TASK_KILL_TROOPS]",
		"TaskName":  "[TASK_NAME]",
		"TaskTitle": "[TASK_TITLE]",
		"Tag":       "Troop,Color",
	}
	for k, v := range extra {
		task[k] = v
	}
	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("failed to marshal task: %v", err)
	}
	return data
}

func fixtureWorld() RawWorld {
	return RawWorld{
		Spells: []RawSpell{
			{ID: 10, Name: "[SPELL10_NAME]", Description: "[SPELL10_DESC]", Cost: 12, SpellSteps: []RawSpellStep{
				{Type: "Damage", SpellPowerMultiplier: f64(2), Amount: f64(1)},
				{Type: "Damage", SpellPowerMultiplier: f64(9), Amount: f64(9)},
				{Type: "Heal", SpellPowerMultiplier: f64(1), Amount: f64(3)},
				{Type: "CountRed", Amount: f64(4)},
			}},
			{ID: 20, Name: "[SPELL20_NAME]", Description: "[SPELL20_DESC]", Cost: 0},
		},
		Traits: []RawTrait{
			{Code: "Trait1", Name: "[TRAIT_ONE]", Description: "[TRAIT_ONE_DESC]"},
		},
		Troops: []RawTroop{
			{ID: 6000, Name: "[TROOP_6000_NAME]", SpellID: 10, Traits: []string{"Trait1", "Missing"},
				TroopRarity: "Epic", TroopType: "Knight", TroopRoleArray: []string{"Attacker"},
				ManaColors: ManaColors{"ColorRed": true, "ColorBlue": true, "ColorGreen": false}, FileBase: "troop_6000"},
			{ID: 6001, Name: "[TROOP_6001_NAME]", SpellID: 10, TroopRarity: "Rare", TroopType: "Dragon",
				TroopType2: strp("Mystic"), ManaColors: ManaColors{"ColorYellow": true}, FileBase: "troop_6001"},
		},
		Kingdoms: []RawKingdom{
			{ID: 3000, Name: "[K3000_NAME]", ByLine: "[K3000_BYLINE]", TroopIDs: []int{6000, -1},
				KingdomTroopType: "Knight", SisterKingdomID: intp(3001),
				ManaColors: ManaColors{"ColorRed": true, "ColorBrown": true}, BannerName: "[K3000_BANNER]",
				BannerColors: []int{1, 0, 3, 0, 0, 2}, FileBase: "kingdom_3000"},
			{ID: 3001, Name: "[K3001_NAME]", MapIndex: 1, TroopIDs: []int{6001},
				ManaColors: ManaColors{"ColorPurple": true}, FileBase: "kingdom_3001"},
		},
		Weapons: []RawWeapon{
			{ID: 1300, SpellID: 31, KingdomID: 3000, Affixes: []int{}},
			{ID: 1100, SpellID: 30, WeaponRarity: "Mythic", Type: "Staff", KingdomID: 3000,
				MasteryRequirement: 100, SpellPowerIncrease: 5, Affixes: []int{20, 99},
				ManaColors: ManaColors{"ColorGreen": true}},
			{ID: 1102, SpellID: 32, KingdomID: 3000},
			{ID: 1200, SpellID: 33, KingdomID: 3001},
		},
		Pets: []RawPet{
			{ID: 5000, Name: "[PET_5000_NAME]", KingdomID: 3001, Effect: 3,
				EffectTroopType: strp("Dragon"), ManaColors: ManaColors{"ColorBlue": true}, FileBase: "pet_5000"},
		},
		TalentTrees: []RawTalentTree{
			{Code: "Bravery", Traits: []string{"Trait1", "Unknown"}},
		},
		HeroClasses: []RawHeroClass{
			{ID: 7000, Name: "[HEROCLASS_7000_NAME]", Code: "Warrior", TalentTrees: []string{"Bravery"},
				Traits: []string{"Trait1", "Nope"}, ClassWeaponID: 1100, KingdomID: 3000, Augment: "Magic"},
		},
	}
}

func fixtureUser(t *testing.T) RawUser {
	t.Helper()
	return RawUser{
		EconomyModel: RawEconomyModel{
			TroopReleaseDates: []RawRelease{
				{TroopID: 6000, Date: "03/14/2024 05:00:00 PM UTC"},
				{TroopID: 9999, Date: "03/15/2024 05:00:00 PM UTC"},
			},
			PetReleaseDates:       []RawRelease{{PetID: 5000, Date: "01/02/2024 09:00:00 AM UTC"}},
			KingdomReleaseDates:   []RawRelease{{KingdomID: 3000, Date: "02/01/2024 12:00:00 PM UTC"}},
			HeroClassReleaseDates: []RawRelease{{QuestID: 7000, Date: "05/01/2024 03:30:00 PM UTC"}},
			RoomReleaseDates:      []RawRelease{{RoomID: 12, Date: "01/01/2024 12:00:00 AM UTC"}},
			WeaponReleaseDates: []RawRelease{
				{WeaponID: 1300, Date: "04/22/2024 05:00:00 PM UTC"},
				{WeaponID: 1100, Date: "04/21/2024 05:00:00 PM UTC"},
			},
			KingdomLevelData:          map[string]RawKingdomLevel{"3000": {Color: 2, Stat: "Attack"}},
			FactionRenownRewardPetIDs: map[string]int{"3001": 5000},
		},
		TasksData: RawTasksData{CampaignTasks: map[string]map[string][]json.RawMessage{
			"3000": {
				"Bronze": {
					rawTask(t, "Campaign_3000_Bronze_3", 30, map[string]any{"CValue": "Knight"}),
					rawTask(t, "Campaign_3000_Bronze_1", 10, nil),
					rawTask(t, "Campaign_3000_Bronze_2", 20, map[string]any{"XValue": 5}),
				},
				"Silver": {rawTask(t, "Campaign_3000_Silver_1", 40, nil)},
				"Gold":   {},
			},
		}},
		LiveEvents: []RawLiveEvent{
			{StartDate: time.Date(2024, 4, 15, 17, 0, 0, 0, time.UTC).Unix(),
				EndDate: time.Date(2024, 4, 22, 17, 0, 0, 0, time.UTC).Unix(),
				Type:    11, Name: "[CAMPAIGN_WEEK]", GachaTroop: 6000, Kingdom: 3000},
			{StartDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC).Unix(),
				EndDate: time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC).Unix(),
				Type:    42, GachaTroop: 6001},
		},
	}
}

func fixtureCampaign() RawCampaign {
	return RawCampaign{
		"CampaignBronze": {
			{ID: "Campaign_3000_Bronze_1"},
			{ID: "Campaign_3000_Bronze_3"},
			{ID: "Campaign_3000_Bronze_2", Value0: "troop", Value1: 3.0},
		},
	}
}

func newFixture(t *testing.T) *GameData {
	t.Helper()
	g := New(WithClock(fixedClock))
	g.SetRawData(fixtureWorld(), fixtureUser(t), fixtureCampaign())
	return g
}

func populatedFixture(t *testing.T) *GameData {
	t.Helper()
	g := newFixture(t)
	if err := g.Populate(); err != nil {
		t.Fatalf("Populate failed: %v", err)
	}
	return g
}
