package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/lawnchairsociety/gowdata/internal/i18n"
)

// UpsertTranslations writes one locale's messages in a single transaction
// and returns the number of rows written.
func (d *Database) UpsertTranslations(ctx context.Context, locale string, messages map[string]string) (int, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, d.qb.Build(`
		INSERT INTO translations (locale, text_key, text, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (locale, text_key) DO UPDATE SET text = excluded.text, updated_at = CURRENT_TIMESTAMP`))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	keys := make([]string, 0, len(messages))
	for key := range messages {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, err := stmt.ExecContext(ctx, locale, key, messages[key]); err != nil {
			return 0, fmt.Errorf("failed to upsert %s/%s: %w", locale, key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit translations: %w", err)
	}
	return len(keys), nil
}

// Translations returns every message stored for locale.
func (d *Database) Translations(ctx context.Context, locale string) (map[string]string, error) {
	rows, err := d.db.QueryContext(ctx, d.qb.Build(`SELECT text_key, text FROM translations WHERE locale = ?`), locale)
	if err != nil {
		return nil, fmt.Errorf("failed to query translations: %w", err)
	}
	defer rows.Close()

	messages := make(map[string]string)
	for rows.Next() {
		var key, text string
		if err := rows.Scan(&key, &text); err != nil {
			return nil, fmt.Errorf("failed to scan translation: %w", err)
		}
		messages[key] = text
	}
	return messages, rows.Err()
}

// Translation returns one message. The bool is false when it is not stored.
func (d *Database) Translation(ctx context.Context, locale, key string) (string, bool, error) {
	var text string
	err := d.db.QueryRowContext(ctx,
		d.qb.Build(`SELECT text FROM translations WHERE locale = ? AND text_key = ?`), locale, key).Scan(&text)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query translation: %w", err)
	}
	return text, true, nil
}

// Locales returns the locales with stored messages, sorted.
func (d *Database) Locales(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT DISTINCT locale FROM translations ORDER BY locale`)
	if err != nil {
		return nil, fmt.Errorf("failed to query locales: %w", err)
	}
	defer rows.Close()

	var locales []string
	for rows.Next() {
		var locale string
		if err := rows.Scan(&locale); err != nil {
			return nil, fmt.Errorf("failed to scan locale: %w", err)
		}
		locales = append(locales, locale)
	}
	return locales, rows.Err()
}

// CountTranslations returns the number of messages stored for locale.
func (d *Database) CountTranslations(ctx context.Context, locale string) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx, d.qb.Build(`SELECT COUNT(*) FROM translations WHERE locale = ?`), locale).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count translations: %w", err)
	}
	return n, nil
}

// DeleteLocale removes every message of locale.
func (d *Database) DeleteLocale(ctx context.Context, locale string) (int64, error) {
	res, err := d.db.ExecContext(ctx, d.qb.Build(`DELETE FROM translations WHERE locale = ?`), locale)
	if err != nil {
		return 0, fmt.Errorf("failed to delete locale %s: %w", locale, err)
	}
	return res.RowsAffected()
}

// LoadCatalog reads the given locales into a new in-memory catalog.
func (d *Database) LoadCatalog(ctx context.Context, locales []string) (*i18n.Catalog, error) {
	catalog := i18n.NewCatalog()
	for _, locale := range locales {
		messages, err := d.Translations(ctx, locale)
		if err != nil {
			return nil, err
		}
		catalog.Merge(locale, messages)
	}
	return catalog, nil
}
