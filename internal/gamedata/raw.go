package gamedata

import (
	json "github.com/goccy/go-json"
)

// Asset names read by Load.
const (
	WorldAsset    = "World.json"
	UserAsset     = "User.json"
	CampaignAsset = "Campaign.json"
)

// ManaColors is the raw colour flag set, e.g. {"ColorBlue": true}.
type ManaColors map[string]bool

// RawWorld is the subset of World.json the resolver reads.
type RawWorld struct {
	Spells      []RawSpell      `json:"Spells"`
	Traits      []RawTrait      `json:"Traits"`
	Troops      []RawTroop      `json:"Troops"`
	Kingdoms    []RawKingdom    `json:"Kingdoms"`
	Weapons     []RawWeapon     `json:"Weapons"`
	Pets        []RawPet        `json:"Pets"`
	TalentTrees []RawTalentTree `json:"TalentTrees"`
	HeroClasses []RawHeroClass  `json:"HeroClasses"`
}

// RawSpellStep is one step of a spell definition. Every field is optional.
type RawSpellStep struct {
	Type                 string   `json:"Type,omitempty"`
	Amount               *float64 `json:"Amount,omitempty"`
	SpellPowerMultiplier *float64 `json:"SpellPowerMultiplier,omitempty"`
}

type RawSpell struct {
	ID          int            `json:"Id"`
	Name        string         `json:"Name"`
	Description string         `json:"Description"`
	Cost        int            `json:"Cost"`
	SpellSteps  []RawSpellStep `json:"SpellSteps"`
}

type RawTrait struct {
	Code        string `json:"Code"`
	Name        string `json:"Name"`
	Description string `json:"Description"`
}

type RawTroop struct {
	ID             int        `json:"Id"`
	Name           string     `json:"Name"`
	Description    string     `json:"Description"`
	SpellID        int        `json:"SpellId"`
	Traits         []string   `json:"Traits"`
	TroopRarity    string     `json:"TroopRarity"`
	TroopType      string     `json:"TroopType"`
	TroopType2     *string    `json:"TroopType2,omitempty"`
	TroopRoleArray []string   `json:"TroopRoleArray"`
	ManaColors     ManaColors `json:"ManaColors"`
	FileBase       string     `json:"FileBase"`
}

type RawKingdom struct {
	ID               int        `json:"Id"`
	Name             string     `json:"Name"`
	Description      string     `json:"Description"`
	ByLine           string     `json:"ByLine"`
	MapIndex         int        `json:"MapIndex,omitempty"`
	TroopIDs         []int      `json:"TroopIds"`
	KingdomTroopType string     `json:"KingdomTroopType"`
	SisterKingdomID  *int       `json:"SisterKingdomId,omitempty"`
	ManaColors       ManaColors `json:"ManaColors"`
	BannerName       string     `json:"BannerName"`
	BannerColors     []int      `json:"BannerColors"`
	FileBase         string     `json:"FileBase"`
}

type RawWeapon struct {
	ID                 int        `json:"Id"`
	SpellID            int        `json:"SpellId"`
	WeaponRarity       string     `json:"WeaponRarity"`
	Type               string     `json:"Type"`
	TroopRoleArray     []string   `json:"TroopRoleArray"`
	KingdomID          int        `json:"KingdomId"`
	MasteryRequirement int        `json:"MasteryRequirement"`
	ArmorIncrease      int        `json:"ArmorIncrease"`
	AttackIncrease     int        `json:"AttackIncrease"`
	HealthIncrease     int        `json:"HealthIncrease"`
	SpellPowerIncrease int        `json:"SpellPowerIncrease"`
	Affixes            []int      `json:"Affixes"`
	ManaColors         ManaColors `json:"ManaColors"`
}

type RawPet struct {
	ID              int        `json:"Id"`
	Name            string     `json:"Name"`
	KingdomID       int        `json:"KingdomId"`
	ManaColors      ManaColors `json:"ManaColors"`
	Effect          int        `json:"Effect"`
	EffectData      *int       `json:"EffectData,omitempty"`
	EffectTroopType *string    `json:"EffectTroopType,omitempty"`
	FileBase        string     `json:"FileBase"`
}

type RawTalentTree struct {
	Code   string   `json:"Code"`
	Traits []string `json:"Traits"`
}

type RawHeroClass struct {
	ID            int      `json:"Id"`
	Name          string   `json:"Name"`
	Code          string   `json:"Code"`
	TalentTrees   []string `json:"TalentTrees"`
	Traits        []string `json:"Traits"`
	ClassWeaponID int      `json:"ClassWeaponId"`
	KingdomID     int      `json:"KingdomId"`
	Augment       string   `json:"Augment"`
}

// RawUser is the subset of User.json the timeline and campaign stages read.
type RawUser struct {
	EconomyModel RawEconomyModel `json:"pEconomyModel"`
	TasksData    RawTasksData    `json:"pTasksData"`
	LiveEvents   []RawLiveEvent  `json:"BasicLiveEventArray"`
}

type RawEconomyModel struct {
	TroopReleaseDates         []RawRelease               `json:"TroopReleaseDates"`
	PetReleaseDates           []RawRelease               `json:"PetReleaseDates"`
	KingdomReleaseDates       []RawRelease               `json:"KingdomReleaseDates"`
	HeroClassReleaseDates     []RawRelease               `json:"HeroClassReleaseDates"`
	RoomReleaseDates          []RawRelease               `json:"RoomReleaseDates"`
	WeaponReleaseDates        []RawRelease               `json:"WeaponReleaseDates"`
	KingdomLevelData          map[string]RawKingdomLevel `json:"KingdomLevelData"`
	FactionRenownRewardPetIDs map[string]int             `json:"FactionRenownRewardPetIds"`
}

// RawRelease is one entry of any release-date feed; each feed fills one id field.
type RawRelease struct {
	TroopID   int    `json:"TroopId,omitempty"`
	PetID     int    `json:"PetId,omitempty"`
	KingdomID int    `json:"KingdomId,omitempty"`
	QuestID   int    `json:"QuestId,omitempty"`
	RoomID    int    `json:"RoomId,omitempty"`
	WeaponID  int    `json:"WeaponId,omitempty"`
	Date      string `json:"Date"`
}

type RawKingdomLevel struct {
	Color int    `json:"Color"`
	Stat  string `json:"Stat"`
}

type RawLiveEvent struct {
	StartDate  int64  `json:"StartDate"`
	EndDate    int64  `json:"EndDate"`
	Type       int    `json:"Type"`
	Name       string `json:"Name,omitempty"`
	GachaTroop int    `json:"GachaTroop"`
	Kingdom    int    `json:"Kingdom,omitempty"`
}

// RawTasksData holds campaign task buckets: kingdom id -> tier -> tasks.
// Tasks stay raw so the original record can be retained next to the typed view.
type RawTasksData struct {
	CampaignTasks map[string]map[string][]json.RawMessage `json:"CampaignTasks"`
}

type RawTaskReward struct {
	Amount int `json:"Amount"`
}

type RawCampaignTask struct {
	ID        string          `json:"Id"`
	Rewards   []RawTaskReward `json:"Rewards"`
	Condition any             `json:"Condition,omitempty"`
	Task      string          `json:"Task"`
	TaskName  string          `json:"TaskName"`
	TaskTitle string          `json:"TaskTitle"`
	Tag       string          `json:"Tag"`
	XValue    any             `json:"XValue,omitempty"`
	YValue    any             `json:"YValue,omitempty"`
	CValue    any             `json:"CValue,omitempty"`
	DValue    any             `json:"DValue,omitempty"`
}

// RawCampaign is Campaign.json: "Campaign<Level>" -> ordered entries.
type RawCampaign map[string][]RawCampaignEntry

type RawCampaignEntry struct {
	ID     string `json:"Id"`
	Value0 any    `json:"Value0,omitempty"`
	Value1 any    `json:"Value1,omitempty"`
}
