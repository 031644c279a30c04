package database

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"
)

// getPostgresTestConfig returns PostgreSQL config if available, nil otherwise.
// Set these environment variables to run PostgreSQL tests:
//
//	GOWDATA_TEST_POSTGRES (any value enables the tests)
//	GOWDATA_TEST_POSTGRES_HOST (default: localhost)
//	GOWDATA_TEST_POSTGRES_PORT (default: 5432)
//	GOWDATA_TEST_POSTGRES_USER (default: gowdata)
//	GOWDATA_TEST_POSTGRES_PASSWORD (default: gowdata)
//	GOWDATA_TEST_POSTGRES_DATABASE (default: gowdata_test)
func getPostgresTestConfig() *Config {
	if os.Getenv("GOWDATA_TEST_POSTGRES") == "" {
		return nil
	}

	getenv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	port, err := strconv.Atoi(getenv("GOWDATA_TEST_POSTGRES_PORT", "5432"))
	if err != nil {
		port = 5432
	}

	pg := DefaultPostgresConfig()
	pg.Host = getenv("GOWDATA_TEST_POSTGRES_HOST", "localhost")
	pg.Port = port
	pg.User = getenv("GOWDATA_TEST_POSTGRES_USER", "gowdata")
	pg.Password = getenv("GOWDATA_TEST_POSTGRES_PASSWORD", "gowdata")
	pg.Database = getenv("GOWDATA_TEST_POSTGRES_DATABASE", "gowdata_test")
	pg.MaxOpenConns = 10
	pg.MaxIdleConns = 2
	pg.ConnMaxLifetime = time.Minute

	return &Config{Driver: string(DialectPostgres), Postgres: pg}
}

func skipIfNoPostgres(t *testing.T) *Config {
	cfg := getPostgresTestConfig()
	if cfg == nil {
		t.Skip("Skipping PostgreSQL test: GOWDATA_TEST_POSTGRES not set")
	}
	return cfg
}

func setupPostgresTestDB(t *testing.T, cfg *Config) *Database {
	t.Helper()
	db, err := OpenWithConfig(*cfg)
	if err != nil {
		t.Fatalf("Failed to open PostgreSQL: %v", err)
	}
	if _, err := db.DB().Exec("TRUNCATE translations"); err != nil {
		db.Close()
		t.Fatalf("Failed to truncate translations: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPostgres_OpenWithConfig(t *testing.T) {
	cfg := skipIfNoPostgres(t)
	db := setupPostgresTestDB(t, cfg)

	if _, ok := db.Dialect().(*PostgresDialect); !ok {
		t.Errorf("Dialect() = %T, want *PostgresDialect", db.Dialect())
	}
	if got := db.DB().Stats().MaxOpenConnections; got != 10 {
		t.Errorf("MaxOpenConnections = %d, want 10", got)
	}
}

func TestPostgres_UpsertAndLoad(t *testing.T) {
	cfg := skipIfNoPostgres(t)
	db := setupPostgresTestDB(t, cfg)
	ctx := context.Background()

	if _, err := db.UpsertTranslations(ctx, "ru", map[string]string{"[GEM_RED]": "Красный"}); err != nil {
		t.Fatalf("UpsertTranslations() error = %v", err)
	}
	if _, err := db.UpsertTranslations(ctx, "ru", map[string]string{"[GEM_RED]": "Алый"}); err != nil {
		t.Fatalf("second UpsertTranslations() error = %v", err)
	}

	catalog, err := db.LoadCatalog(ctx, []string{"ru"})
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if got := catalog.Translate("[GEM_RED]", "ru"); got != "Алый" {
		t.Errorf("Translate() = %q, want %q", got, "Алый")
	}
}

func TestPostgres_ConcurrentUpserts(t *testing.T) {
	cfg := skipIfNoPostgres(t)
	db := setupPostgresTestDB(t, cfg)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			locale := fmt.Sprintf("l%d", i)
			if _, err := db.UpsertTranslations(ctx, locale, map[string]string{"[K]": locale}); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent upsert failed: %v", err)
	}

	locales, err := db.Locales(ctx)
	if err != nil {
		t.Fatalf("Locales() error = %v", err)
	}
	if len(locales) != 8 {
		t.Errorf("Locales() = %v, want 8 entries", locales)
	}
}
