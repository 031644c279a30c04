package gamedata

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lawnchairsociety/gowdata/internal/logger"
)

// AssetLoader reads named JSON assets.
type AssetLoader interface {
	Load(name string, v any) error
	Exists(name string) bool
}

// GameData holds the resolved entity graph of one ingestion run.
type GameData struct {
	Troops      map[int]*Troop
	Spells      map[int]*Spell
	Weapons     map[int]*Weapon
	Classes     map[int]*Class
	Traits      map[string]Trait
	Kingdoms    map[int]*Kingdom
	Pets        map[int]*Pet
	TalentTrees map[string]*TalentTree

	Spoilers         []Spoiler
	Events           []Event
	SoulforgeWeapons []SoulforgeWindow
	CampaignTasks    map[string][]CampaignTask

	world    RawWorld
	user     RawUser
	campaign RawCampaign

	now  func() time.Time
	gaps []Gap
}

// Option configures a GameData.
type Option func(*GameData)

// WithClock overrides the clock used to find the current event.
func WithClock(now func() time.Time) Option {
	return func(g *GameData) {
		g.now = now
	}
}

func New(opts ...Option) *GameData {
	g := &GameData{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	g.reset()
	return g
}

func (g *GameData) reset() {
	g.Troops = make(map[int]*Troop)
	g.Spells = make(map[int]*Spell)
	g.Weapons = make(map[int]*Weapon)
	g.Classes = make(map[int]*Class)
	g.Traits = make(map[string]Trait)
	g.Kingdoms = make(map[int]*Kingdom)
	g.Pets = make(map[int]*Pet)
	g.TalentTrees = make(map[string]*TalentTree)
	g.Spoilers = nil
	g.Events = nil
	g.SoulforgeWeapons = nil
	g.CampaignTasks = make(map[string][]CampaignTask)
	g.gaps = nil
}

// ReadJSONData reads World.json, User.json and, when present, Campaign.json.
func (g *GameData) ReadJSONData(loader AssetLoader) error {
	var world RawWorld
	if err := loader.Load(WorldAsset, &world); err != nil {
		return fmt.Errorf("failed to load %s: %w", WorldAsset, err)
	}
	var user RawUser
	if err := loader.Load(UserAsset, &user); err != nil {
		return fmt.Errorf("failed to load %s: %w", UserAsset, err)
	}
	var campaign RawCampaign
	if loader.Exists(CampaignAsset) {
		if err := loader.Load(CampaignAsset, &campaign); err != nil {
			return fmt.Errorf("failed to load %s: %w", CampaignAsset, err)
		}
	}
	g.SetRawData(world, user, campaign)
	return nil
}

// SetRawData replaces the raw inputs used by Populate.
func (g *GameData) SetRawData(world RawWorld, user RawUser, campaign RawCampaign) {
	g.world = world
	g.user = user
	g.campaign = campaign
}

// PopulateWorldData reads the assets and resolves them.
func (g *GameData) PopulateWorldData(loader AssetLoader) error {
	if err := g.ReadJSONData(loader); err != nil {
		return err
	}
	return g.Populate()
}

// Populate rebuilds every entity map from the raw data. Stages run in a fixed
// order because later stages link against the maps earlier ones produce.
func (g *GameData) Populate() error {
	g.reset()

	stages := []struct {
		name string
		run  func() error
	}{
		{"spells", g.populateSpells},
		{"traits", g.populateTraits},
		{"troops", g.populateTroops},
		{"kingdoms", g.populateKingdoms},
		{"weapons", g.populateWeapons},
		{"pets", g.populatePets},
		{"talents", g.populateTalents},
		{"classes", g.populateClasses},
		{"release dates", g.populateReleaseDates},
		{"kingdom enrichment", g.enrichKingdoms},
		{"campaign tasks", g.populateCampaignTasks},
	}

	for _, stage := range stages {
		if err := stage.run(); err != nil {
			return fmt.Errorf("%s: %w", stage.name, err)
		}
		logger.Debug("Populated stage", "stage", stage.name)
	}

	logger.Info("Game data populated",
		"troops", len(g.Troops),
		"kingdoms", len(g.Kingdoms),
		"weapons", len(g.Weapons),
		"pets", len(g.Pets),
		"classes", len(g.Classes),
		"spoilers", len(g.Spoilers),
		"gaps", len(g.gaps))
	return nil
}

func (g *GameData) populateTroops() error {
	for _, raw := range g.world.Troops {
		types := []string{raw.TroopType}
		if raw.TroopType2 != nil {
			types = append(types, *raw.TroopType2)
		}
		g.Troops[raw.ID] = &Troop{
			ID:          raw.ID,
			Name:        raw.Name,
			Colors:      convertColors(raw.ManaColors),
			Description: raw.Description,
			SpellID:     raw.SpellID,
			Traits:      g.resolveTraits(raw.Traits, ref("troop", raw.ID)),
			Rarity:      raw.TroopRarity,
			Types:       types,
			Roles:       nonNil(raw.TroopRoleArray),
			Filename:    raw.FileBase,
		}
	}
	return nil
}

func (g *GameData) populateKingdoms() error {
	for _, raw := range g.world.Kingdoms {
		troopIDs := make([]int, 0, len(raw.TroopIDs))
		for _, id := range raw.TroopIDs {
			if id != -1 {
				troopIDs = append(troopIDs, id)
			}
		}

		kingdom := &Kingdom{
			ID:          raw.ID,
			Name:        raw.Name,
			Description: raw.Description,
			Punchline:   raw.ByLine,
			Underworld:  raw.MapIndex != 0,
			TroopIDs:    troopIDs,
			TroopType:   raw.KingdomTroopType,
			Colors:      convertColors(raw.ManaColors),
			Banner: Banner{
				Name:     raw.BannerName,
				Colors:   bannerColors(raw.BannerColors),
				Filename: raw.FileBase,
			},
			Filename: raw.FileBase,
		}
		if raw.SisterKingdomID != nil {
			sister := *raw.SisterKingdomID
			kingdom.LinkedKingdomID = &sister
		}
		g.Kingdoms[raw.ID] = kingdom

		for _, troopID := range troopIDs {
			troop, ok := g.Troops[troopID]
			if !ok {
				return MissingReferenceError{Kind: "troop", Key: strconv.Itoa(troopID), Referrer: ref("kingdom", raw.ID)}
			}
			troop.Kingdom = kingdom
		}
	}

	// Links are applied once every kingdom exists, so a sister listed later in
	// the feed is still found.
	for _, raw := range g.world.Kingdoms {
		if raw.SisterKingdomID == nil {
			continue
		}
		sister, ok := g.Kingdoms[*raw.SisterKingdomID]
		if !ok {
			return MissingReferenceError{Kind: "kingdom", Key: strconv.Itoa(*raw.SisterKingdomID), Referrer: ref("kingdom", raw.ID)}
		}
		id := raw.ID
		sister.LinkedKingdomID = &id
	}
	return nil
}

// bannerColors pairs the gem colour keys with their intensities, strongest first.
func bannerColors(intensities []int) []BannerColor {
	n := min(len(Colors), len(intensities))
	colors := make([]BannerColor, 0, n)
	for i := 0; i < n; i++ {
		colors = append(colors, BannerColor{
			Color:     "[GEM_" + strings.ToUpper(Colors[i]) + "]",
			Intensity: intensities[i],
		})
	}
	sort.SliceStable(colors, func(i, j int) bool {
		return colors[i].Intensity > colors[j].Intensity
	})
	return colors
}

func (g *GameData) populateWeapons() error {
	for _, raw := range g.world.Weapons {
		referrer := ref("weapon", raw.ID)
		kingdom, ok := g.Kingdoms[raw.KingdomID]
		if !ok {
			return MissingReferenceError{Kind: "kingdom", Key: strconv.Itoa(raw.KingdomID), Referrer: referrer}
		}

		affixes := make([]*Spell, 0, len(raw.Affixes))
		for _, id := range raw.Affixes {
			res := g.ResolveAffix(id)
			if res.Tolerated {
				g.tolerate("affix", strconv.Itoa(id), referrer)
				continue
			}
			affixes = append(affixes, res.Value)
		}

		g.Weapons[raw.ID] = &Weapon{
			ID:             raw.ID,
			Name:           fmt.Sprintf("[SPELL%d_NAME]", raw.SpellID),
			Description:    fmt.Sprintf("[SPELL%d_DESC]", raw.SpellID),
			Colors:         convertColors(raw.ManaColors),
			Rarity:         raw.WeaponRarity,
			Type:           raw.Type,
			Roles:          nonNil(raw.TroopRoleArray),
			SpellID:        raw.SpellID,
			Kingdom:        kingdom,
			Requirement:    raw.MasteryRequirement,
			ArmorIncrease:  raw.ArmorIncrease,
			AttackIncrease: raw.AttackIncrease,
			HealthIncrease: raw.HealthIncrease,
			MagicIncrease:  raw.SpellPowerIncrease,
			Affixes:        affixes,
		}
	}
	return nil
}

func (g *GameData) populatePets() error {
	for _, raw := range g.world.Pets {
		referrer := ref("pet", raw.ID)
		kingdom, ok := g.Kingdoms[raw.KingdomID]
		if !ok {
			return MissingReferenceError{Kind: "kingdom", Key: strconv.Itoa(raw.KingdomID), Referrer: referrer}
		}
		if raw.Effect < 0 || raw.Effect >= len(PetEffects) {
			return IndexOutOfRangeError{Table: "pet effects", Index: raw.Effect, Referrer: referrer}
		}

		g.Pets[raw.ID] = &Pet{
			ID:         raw.ID,
			Name:       raw.Name,
			Kingdom:    kingdom.Ref(),
			Colors:     convertColors(raw.ManaColors),
			Effect:     PetEffects[raw.Effect],
			EffectData: raw.EffectData,
			TroopType:  raw.EffectTroopType,
			Filename:   raw.FileBase,
		}
	}
	return nil
}

// enrichKingdoms applies primary colour, primary stat and renown pet from the economy model.
func (g *GameData) enrichKingdoms() error {
	economy := g.user.EconomyModel

	for _, key := range sortedKeys(economy.KingdomLevelData) {
		level := economy.KingdomLevelData[key]
		kingdom, err := g.kingdomByKey(key, "kingdom level data")
		if err != nil {
			return err
		}
		if level.Color < 0 || level.Color >= len(Colors) {
			return IndexOutOfRangeError{Table: "colors", Index: level.Color, Referrer: ref("kingdom", kingdom.ID)}
		}
		kingdom.PrimaryColor = Colors[level.Color]
		kingdom.PrimaryStat = level.Stat
	}

	for _, key := range sortedKeys(economy.FactionRenownRewardPetIDs) {
		petID := economy.FactionRenownRewardPetIDs[key]
		kingdom, err := g.kingdomByKey(key, "faction renown rewards")
		if err != nil {
			return err
		}
		pet, ok := g.Pets[petID]
		if !ok {
			return MissingReferenceError{Kind: "pet", Key: strconv.Itoa(petID), Referrer: ref("kingdom", kingdom.ID)}
		}
		kingdom.Pet = pet
	}
	return nil
}

func (g *GameData) kingdomByKey(key, referrer string) (*Kingdom, error) {
	id, err := strconv.Atoi(key)
	if err != nil {
		return nil, MalformedIdentifierError{ID: key}
	}
	kingdom, ok := g.Kingdoms[id]
	if !ok {
		return nil, MissingReferenceError{Kind: "kingdom", Key: key, Referrer: referrer}
	}
	return kingdom, nil
}

// AssignReferenceNames stores the reference-locale rendering of every
// translatable entity name, used as the fallback for untranslated names.
func (g *GameData) AssignReferenceNames(translate func(key string) string) {
	for _, t := range g.Troops {
		t.ReferenceName = translate(t.Name)
	}
	for _, k := range g.Kingdoms {
		k.ReferenceName = translate(k.Name)
	}
	for _, w := range g.Weapons {
		w.ReferenceName = translate(w.Name)
	}
	for _, p := range g.Pets {
		p.ReferenceName = translate(p.Name)
	}
	for _, c := range g.Classes {
		c.ReferenceName = translate(c.Name)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
