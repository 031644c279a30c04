// Package i18n provides the locale string tables used to translate game text keys.
package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
)

// Table translates a text key into a locale. Keys without a translation are
// returned unchanged.
type Table interface {
	Translate(key, locale string) string
}

// TableFunc adapts a function to a Table.
type TableFunc func(key, locale string) string

func (f TableFunc) Translate(key, locale string) string { return f(key, locale) }

// Identity is a Table that translates nothing.
var Identity Table = TableFunc(func(key, _ string) string { return key })

// IsUntranslated reports whether s is still a text key: empty, or wrapped in brackets.
func IsUntranslated(s string) bool {
	if s == "" {
		return true
	}
	return len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']'
}

// Catalog holds per-locale message maps in memory.
type Catalog struct {
	mu       sync.RWMutex
	messages map[string]map[string]string
}

func NewCatalog() *Catalog {
	return &Catalog{messages: make(map[string]map[string]string)}
}

// Translate returns the locale's message for key, or key itself.
func (c *Catalog) Translate(key, locale string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if value, ok := c.messages[locale][key]; ok {
		return value
	}
	return key
}

// Set stores one message.
func (c *Catalog) Set(locale, key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(locale, key, value)
}

func (c *Catalog) set(locale, key, value string) {
	m, ok := c.messages[locale]
	if !ok {
		m = make(map[string]string)
		c.messages[locale] = m
	}
	m[key] = value
}

// Merge stores every message of the map under locale.
func (c *Catalog) Merge(locale string, messages map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, value := range messages {
		c.set(locale, key, value)
	}
}

// Locales returns the locales with at least one message, sorted.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.messages))
	for locale := range c.messages {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Messages returns a copy of one locale's messages.
func (c *Catalog) Messages(locale string) map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.messages[locale]))
	for k, v := range c.messages[locale] {
		out[k] = v
	}
	return out
}

// Len returns the number of messages stored for locale.
func (c *Catalog) Len(locale string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages[locale])
}

// ReadFile decodes a flat JSON object of key -> text.
func ReadFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	var messages map[string]string
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	for key := range messages {
		if strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("catalog %s: message key cannot be blank", path)
		}
	}
	return messages, nil
}

// LoadFiles reads one catalog file per locale from dir. Locales without a
// file name are skipped.
func (c *Catalog) LoadFiles(dir string, locales []Locale) error {
	for _, locale := range locales {
		if locale.File == "" {
			continue
		}
		messages, err := ReadFile(filepath.Join(dir, locale.File))
		if err != nil {
			return err
		}
		c.Merge(locale.Code, messages)
	}
	return nil
}
