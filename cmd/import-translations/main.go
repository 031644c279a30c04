// import-translations loads per-locale JSON catalogs into the SQLite or
// PostgreSQL translations table.
//
// Usage:
//
//	go run ./cmd/import-translations \
//	    -config data/gowdata.yaml \
//	    -dir data/translations \
//	    -locales en,de \
//	    -replace
package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/lawnchairsociety/gowdata/internal/config"
	"github.com/lawnchairsociety/gowdata/internal/i18n"
	"github.com/lawnchairsociety/gowdata/internal/world"
)

func main() {
	configFile := flag.String("config", "data/gowdata.yaml", "Path to config YAML file")
	dir := flag.String("dir", "", "Catalog directory (default: translations.dir from the config)")
	only := flag.String("locales", "", "Comma-separated locale codes to import (default: all configured)")
	source := flag.String("target", "", "Store to write: sqlite or postgres (default: translations.source, or sqlite)")
	replace := flag.Bool("replace", false, "Delete a locale's existing rows before importing it")
	dryRun := flag.Bool("dry-run", false, "Read and validate the catalogs without writing")
	flag.Parse()

	log.Println("Translation Import Tool")
	log.Println("=======================")

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dir != "" {
		cfg.Translations.Dir = *dir
	}
	switch {
	case *source != "":
		cfg.Translations.Source = *source
	case cfg.Translations.Source == config.SourceFiles:
		cfg.Translations.Source = config.SourceSQLite
	}
	if cfg.Translations.Source != config.SourceSQLite && cfg.Translations.Source != config.SourcePostgres {
		log.Fatalf("Unknown target %q: want sqlite or postgres", cfg.Translations.Source)
	}

	registry, err := world.NewRegistry(cfg)
	if err != nil {
		log.Fatalf("Invalid locale configuration: %v", err)
	}
	locales := selectLocales(registry, *only)

	// Read everything first so a bad file aborts before any write.
	catalogs := make(map[string]map[string]string, len(locales))
	for _, l := range locales {
		if l.File == "" {
			log.Printf("Skipping %s: no catalog file configured", l.Code)
			continue
		}
		path := filepath.Join(cfg.Translations.Dir, l.File)
		messages, err := i18n.ReadFile(path)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", l.Code, err)
		}
		log.Printf("Read %s: %d messages from %s", l.Code, len(messages), path)
		catalogs[l.Code] = messages
	}

	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
		return
	}

	db, err := world.OpenDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.Translations.Source, err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var total int
	for _, l := range locales {
		messages, ok := catalogs[l.Code]
		if !ok {
			continue
		}
		if *replace {
			removed, err := db.DeleteLocale(ctx, l.Code)
			if err != nil {
				log.Fatalf("Failed to clear %s: %v", l.Code, err)
			}
			log.Printf("  Cleared %d rows of %s", removed, l.Code)
		}
		n, err := db.UpsertTranslations(ctx, l.Code, messages)
		if err != nil {
			log.Fatalf("Failed to import %s: %v", l.Code, err)
		}
		log.Printf("  Imported %d rows into %s", n, l.Code)
		total += n
	}

	log.Println("=======================")
	log.Printf("Import complete! Total rows written: %d", total)
}

// selectLocales returns the configured locales named in the comma list, or
// all of them when it is empty.
func selectLocales(registry *i18n.Registry, only string) []i18n.Locale {
	if strings.TrimSpace(only) == "" {
		return registry.Locales()
	}
	var out []i18n.Locale
	for _, code := range strings.Split(only, ",") {
		code = strings.TrimSpace(code)
		l, ok := registry.Lookup(code)
		if !ok {
			log.Fatalf("Locale %q is not configured", code)
		}
		out = append(out, l)
	}
	return out
}
