// Package gamedata resolves the raw game data dump into a cross-linked entity graph.
package gamedata

import (
	"time"

	json "github.com/goccy/go-json"
)

// Colors is the fixed mana colour order used for banners and kingdom primary colours.
var Colors = [...]string{"blue", "green", "red", "yellow", "purple", "brown"}

// PetEffects is indexed by the raw pet Effect value.
var PetEffects = [...]string{
	"[PETTYPE_BUFFTEAMCOLOR]",
	"[PETTYPE_BUFFGEMMASTERY]",
	"[PETTYPE_BUFFTEAMKINGDOM]",
	"[PETTYPE_BUFFTEAMTROOPTYPE]",
	"[PETTYPE_LOOTSOULS]",
	"[PETTYPE_LOOTGOLD]",
	"[PETTYPE_LOOTXP]",
	"[PETTYPE_NOEFFECT]",
}

// EventTypes maps live event type codes to their text keys.
var EventTypes = map[int]string{
	0:  "[GUILD_WARS]",
	1:  "[RAIDBOSS]",
	2:  "[INVASION]",
	3:  "[VAULT]",
	4:  "[BOUNTY]",
	5:  "[PETRESCUE]",
	6:  "[CLASS_EVENT]",
	7:  "[DELVE_EVENT]",
	8:  "[TOWER_OF_DOOM]",
	9:  "[HIJACK]",
	10: "[ADVENTURE_BOARD_SPECIAL_EVENT]",
	11: "[CAMPAIGN]",
}

// Trait is a named passive ability.
type Trait struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Effect is a collapsed spell effect: [multiplier, amount].
type Effect [2]float64

func (e Effect) Multiplier() float64 { return e[0] }
func (e Effect) Amount() float64     { return e[1] }

type Spell struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Cost        int      `json:"cost"`
	Effects     []Effect `json:"effects"`
	Boost       float64  `json:"boost"`
}

type Troop struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	ReferenceName string     `json:"reference_name,omitempty"`
	Colors        []string   `json:"colors"`
	Description   string     `json:"description"`
	SpellID       int        `json:"spell_id"`
	Traits        []Trait    `json:"traits"`
	Rarity        string     `json:"rarity"`
	Types         []string   `json:"types"`
	Roles         []string   `json:"roles"`
	Kingdom       *Kingdom   `json:"kingdom"`
	Filename      string     `json:"filename"`
	ReleaseDate   *time.Time `json:"release_date,omitempty"`
}

// KingdomName returns the owning kingdom's name, or "" while the troop is unassigned.
func (t *Troop) KingdomName() string {
	if t.Kingdom == nil {
		return ""
	}
	return t.Kingdom.Name
}

func (t *Troop) SetReleaseDate(date time.Time) { t.ReleaseDate = &date }

// BannerColor is one colour of a kingdom banner with its intensity.
type BannerColor struct {
	Color     string `json:"color"`
	Intensity int    `json:"intensity"`
}

type Banner struct {
	Name     string        `json:"name"`
	Colors   []BannerColor `json:"colors"`
	Filename string        `json:"filename"`
}

type Kingdom struct {
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	ReferenceName   string     `json:"reference_name,omitempty"`
	Description     string     `json:"description"`
	Punchline       string     `json:"punchline"`
	Underworld      bool       `json:"underworld"`
	TroopIDs        []int      `json:"troop_ids"`
	TroopType       string     `json:"troop_type"`
	LinkedKingdomID *int       `json:"linked_kingdom_id"`
	Colors          []string   `json:"colors"`
	Banner          Banner     `json:"banner"`
	Filename        string     `json:"filename"`
	PrimaryColor    string     `json:"primary_color,omitempty"`
	PrimaryStat     string     `json:"primary_stat,omitempty"`
	Pet             *Pet       `json:"pet,omitempty"`
	ReleaseDate     *time.Time `json:"release_date,omitempty"`
}

func (k *Kingdom) SetReleaseDate(date time.Time) { k.ReleaseDate = &date }

// Ref returns the summary used by entities that must not embed the full kingdom.
func (k *Kingdom) Ref() KingdomRef {
	return KingdomRef{ID: k.ID, Name: k.Name, Filename: k.Filename, Colors: k.Colors}
}

// KingdomRef is a kingdom summary. Pets carry it because kingdoms carry their pet.
type KingdomRef struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Filename string   `json:"filename"`
	Colors   []string `json:"colors"`
}

type Weapon struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	ReferenceName  string     `json:"reference_name,omitempty"`
	Description    string     `json:"description"`
	Colors         []string   `json:"colors"`
	Rarity         string     `json:"rarity"`
	Type           string     `json:"type"`
	Roles          []string   `json:"roles"`
	SpellID        int        `json:"spell_id"`
	Kingdom        *Kingdom   `json:"kingdom"`
	Requirement    int        `json:"requirement"`
	ArmorIncrease  int        `json:"armor_increase"`
	AttackIncrease int        `json:"attack_increase"`
	HealthIncrease int        `json:"health_increase"`
	MagicIncrease  int        `json:"magic_increase"`
	Affixes        []*Spell   `json:"affixes"`
	Class          string     `json:"class,omitempty"`
	ReleaseDate    *time.Time `json:"release_date,omitempty"`
}

func (w *Weapon) SetReleaseDate(date time.Time) { w.ReleaseDate = &date }

// StatIncreases returns the stat bonuses in display order.
func (w *Weapon) StatIncreases() []StatIncrease {
	return []StatIncrease{
		{Stat: "armor", Amount: w.ArmorIncrease},
		{Stat: "attack", Amount: w.AttackIncrease},
		{Stat: "health", Amount: w.HealthIncrease},
		{Stat: "magic", Amount: w.MagicIncrease},
	}
}

type StatIncrease struct {
	Stat   string
	Amount int
}

type Pet struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	ReferenceName string     `json:"reference_name,omitempty"`
	Kingdom       KingdomRef `json:"kingdom"`
	Colors        []string   `json:"colors"`
	Effect        string     `json:"effect"`
	EffectData    *int       `json:"effect_data"`
	TroopType     *string    `json:"troop_type"`
	Filename      string     `json:"filename"`
	ReleaseDate   *time.Time `json:"release_date,omitempty"`
}

func (p *Pet) SetReleaseDate(date time.Time) { p.ReleaseDate = &date }

// Talent is a talent tree entry: a resolved trait, or the raw code when the
// trait table has no entry for it.
type Talent struct {
	Code  string
	Trait *Trait
}

// Resolved reports whether the talent code matched a trait.
func (t Talent) Resolved() bool { return t.Trait != nil }

// MarshalJSON encodes a resolved talent as its trait object and an
// unresolved one as the bare code string.
func (t Talent) MarshalJSON() ([]byte, error) {
	if t.Trait != nil {
		return json.Marshal(t.Trait)
	}
	return json.Marshal(t.Code)
}

func (t *Talent) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		t.Trait = nil
		return json.Unmarshal(data, &t.Code)
	}
	var trait Trait
	if err := json.Unmarshal(data, &trait); err != nil {
		return err
	}
	t.Code = ""
	t.Trait = &trait
	return nil
}

type TalentTree struct {
	Code    string   `json:"code"`
	Name    string   `json:"name"`
	Talents []Talent `json:"talents"`
	Classes []Class  `json:"classes"`
}

type Class struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	ReferenceName string     `json:"reference_name,omitempty"`
	Code          string     `json:"code"`
	Talents       [][]Talent `json:"talents"`
	Trees         []string   `json:"trees"`
	Traits        []Trait    `json:"traits"`
	WeaponID      int        `json:"weapon_id"`
	KingdomID     int        `json:"kingdom_id"`
	Type          string     `json:"type"`
	ReleaseDate   *time.Time `json:"release_date,omitempty"`
}

func (c *Class) SetReleaseDate(date time.Time) { c.ReleaseDate = &date }

type Event struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Type      string    `json:"type"`
	Name      string    `json:"name,omitempty"`
	Gacha     int       `json:"gacha"`
	KingdomID int       `json:"kingdom_id,omitempty"`
}

// IsWeekLongKingdomEvent reports whether the event lasts exactly seven days
// and is tied to a kingdom.
func (e Event) IsWeekLongKingdomEvent() bool {
	return e.End.Sub(e.Start) == 7*24*time.Hour && e.KingdomID != 0
}

// Covers reports whether day lies within the event's date range, inclusive.
func (e Event) Covers(day time.Time) bool {
	return !day.Before(e.Start) && !day.After(e.End)
}

type SpoilerType string

const (
	SpoilerTroop   SpoilerType = "troop"
	SpoilerPet     SpoilerType = "pet"
	SpoilerKingdom SpoilerType = "kingdom"
	SpoilerClass   SpoilerType = "class"
	SpoilerRoom    SpoilerType = "room"
	SpoilerWeapon  SpoilerType = "weapon"
)

type Spoiler struct {
	Type SpoilerType `json:"type"`
	Date time.Time   `json:"date"`
	ID   int         `json:"id"`
}

// SoulforgeWindow lists the weapons craftable during one kingdom event week.
type SoulforgeWindow struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	KingdomID int       `json:"kingdom_id"`
	WeaponIDs []int     `json:"weapon_ids"`
}

type CampaignTask struct {
	ID        string         `json:"id"`
	Reward    int            `json:"reward"`
	Condition any            `json:"condition"`
	Order     int            `json:"order"`
	Task      string         `json:"task"`
	Name      string         `json:"name"`
	Title     string         `json:"title"`
	Tags      []string       `json:"tags"`
	X         any            `json:"x"`
	Y         any            `json:"y"`
	Value0    CaseText       `json:"value0"`
	Value1    CaseText       `json:"value1"`
	C         CaseText       `json:"c"`
	D         CaseText       `json:"d"`
	KingdomID int            `json:"kingdom_id"`
	Orig      map[string]any `json:"orig"`
}
