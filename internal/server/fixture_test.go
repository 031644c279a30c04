package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/lawnchairsociety/gowdata/internal/assets"
	"github.com/lawnchairsociety/gowdata/internal/config"
	"github.com/lawnchairsociety/gowdata/internal/gamedata"
	"github.com/lawnchairsociety/gowdata/internal/i18n"
	"github.com/lawnchairsociety/gowdata/internal/world"
)

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Locales = []config.LocaleConfig{
		{Code: "en", Tag: "en"},
		{Code: "de", Tag: "de"},
	}
	cfg.WebSocket.MaxResults = 25
	cfg.RateLimit = config.RateLimitConfig{MaxInvalid: 3, LockoutSeconds: 60, MaxLockoutSeconds: 600}
	return cfg
}

func testRegistry(t *testing.T) *i18n.Registry {
	t.Helper()
	var locales []i18n.Locale
	for _, l := range testConfig().Locales {
		locale, err := i18n.ParseLocale(l.Code, l.Tag, l.File)
		if err != nil {
			t.Fatal(err)
		}
		locales = append(locales, locale)
	}
	r, err := i18n.NewRegistry(locales)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

// testWorld loads a one-kingdom world: troop 6000, kingdom 3000, weapon 1100, pet 5000.
func testWorld(t *testing.T) *world.World {
	t.Helper()
	dir := t.TempDir()

	writeJSON(t, filepath.Join(dir, gamedata.WorldAsset), map[string]any{
		"Spells": []map[string]any{{"Id": 10, "Name": "[SPELL10_NAME]", "Cost": 8}},
		"Troops": []map[string]any{
			{"Id": 6000, "Name": "[TROOP_6000_NAME]", "SpellId": 10, "TroopRarity": "Epic",
				"TroopType": "Goblin", "ManaColors": map[string]bool{"ColorRed": true}},
		},
		"Kingdoms": []map[string]any{
			{"Id": 3000, "Name": "[K3000_NAME]", "TroopIds": []int{6000},
				"ManaColors": map[string]bool{"ColorRed": true}, "BannerColors": []int{0, 0, 3, 0, 0, 0}},
		},
		"Weapons": []map[string]any{{"Id": 1100, "SpellId": 10, "KingdomId": 3000}},
		"Pets":    []map[string]any{{"Id": 5000, "Name": "[PET_5000_NAME]", "KingdomId": 3000}},
	})
	writeJSON(t, filepath.Join(dir, gamedata.UserAsset), map[string]any{
		"pTasksData": map[string]any{"CampaignTasks": map[string]any{
			"3000": map[string]any{"Bronze": []any{}, "Silver": []any{}, "Gold": []any{}},
		}},
		"BasicLiveEventArray": []map[string]any{{
			"StartDate": time.Date(2024, 4, 15, 17, 0, 0, 0, time.UTC).Unix(),
			"EndDate":   time.Date(2024, 4, 22, 17, 0, 0, 0, time.UTC).Unix(),
			"Type":      11,
			"Kingdom":   3000,
		}},
	})

	catalog := i18n.NewCatalog()
	catalog.Merge("en", map[string]string{
		"[TROOP_6000_NAME]": "Goblin Rider",
		"[K3000_NAME]":      "Broken Spire",
		"[SPELL10_NAME]":    "Spiked Club",
		"[PET_5000_NAME]":   "Spire Rat",
	})
	catalog.Merge("de", map[string]string{"[TROOP_6000_NAME]": "Koboldreiter"})

	clock := gamedata.WithClock(func() time.Time {
		return time.Date(2024, 4, 18, 12, 0, 0, 0, time.UTC)
	})
	w, err := world.Load(testConfig(), assets.NewDirLoader(dir), catalog, clock)
	if err != nil {
		t.Fatalf("world.Load() error = %v", err)
	}
	return w
}
