package world

import (
	"context"
	"fmt"

	"github.com/lawnchairsociety/gowdata/internal/config"
	"github.com/lawnchairsociety/gowdata/internal/database"
	"github.com/lawnchairsociety/gowdata/internal/i18n"
	"github.com/lawnchairsociety/gowdata/internal/logger"
)

// NewRegistry builds the locale registry from the configured locales. The
// first configured locale is the negotiation default.
func NewRegistry(cfg *config.Config) (*i18n.Registry, error) {
	locales := make([]i18n.Locale, 0, len(cfg.Locales))
	for _, l := range cfg.Locales {
		locale, err := i18n.ParseLocale(l.Code, l.Tag, l.File)
		if err != nil {
			return nil, fmt.Errorf("locale %s: %w", l.Code, err)
		}
		locales = append(locales, locale)
	}
	return i18n.NewRegistry(locales)
}

// OpenDatabase opens the translation store selected by the translation source.
func OpenDatabase(cfg *config.Config) (*database.Database, error) {
	dbCfg := database.DefaultConfig(cfg.Database.SQLitePath)
	if cfg.Translations.Source == config.SourcePostgres {
		dbCfg.Driver = string(database.DialectPostgres)
		dbCfg.Postgres = database.PostgresConfig(cfg.Database.Postgres)
	}
	return database.OpenWithConfig(dbCfg)
}

// LoadTable reads every configured locale from the translation source.
func LoadTable(ctx context.Context, cfg *config.Config, registry *i18n.Registry) (*i18n.Catalog, error) {
	var catalog *i18n.Catalog

	switch cfg.Translations.Source {
	case config.SourceFiles:
		catalog = i18n.NewCatalog()
		if err := catalog.LoadFiles(cfg.Translations.Dir, registry.Locales()); err != nil {
			return nil, err
		}
	case config.SourceSQLite, config.SourcePostgres:
		db, err := OpenDatabase(cfg)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		catalog, err = db.LoadCatalog(ctx, registry.Codes())
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown translation source %q", cfg.Translations.Source)
	}

	for _, code := range registry.Codes() {
		n := catalog.Len(code)
		if n == 0 {
			logger.Warning("Locale has no translations", "locale", code, "source", cfg.Translations.Source)
			continue
		}
		logger.Debug("Locale loaded", "locale", code, "messages", n)
	}
	return catalog, nil
}
