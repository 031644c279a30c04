// Package config loads the engine configuration: a YAML file with defaults,
// then GOWDATA_* environment overrides.
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Translation sources.
const (
	SourceFiles    = "files"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

// Entity kinds with search lookup keys.
const (
	KindTroop   = "troop"
	KindKingdom = "kingdom"
	KindWeapon  = "weapon"
	KindPet     = "pet"
	KindClass   = "class"
)

// Config holds the engine configuration.
type Config struct {
	Assets          AssetsConfig        `yaml:"assets"`
	Locales         []LocaleConfig      `yaml:"locales"`
	ReferenceLocale string              `yaml:"reference_locale" env:"GOWDATA_REFERENCE_LOCALE"`
	Translations    TranslationsConfig  `yaml:"translations"`
	Database        DatabaseConfig      `yaml:"database"`
	LookupKeys      map[string][]string `yaml:"lookup_keys"`
	WebSocket       WebSocketConfig     `yaml:"websocket"`
	Connections     ConnectionsConfig   `yaml:"connections"`
	RateLimit       RateLimitConfig     `yaml:"rate_limit"`
}

// AssetsConfig locates the raw data dump.
type AssetsConfig struct {
	Dir string `yaml:"dir" env:"GOWDATA_ASSET_DIR"`

	// Campaign controls whether Campaign.json is read when present.
	Campaign bool `yaml:"campaign" env:"GOWDATA_CAMPAIGN"`
}

// LocaleConfig is one supported locale.
type LocaleConfig struct {
	// Code is the game's locale code used as the snapshot key, e.g. "de".
	Code string `yaml:"code"`

	// Tag is the BCP 47 tag used for negotiation, e.g. "de-DE".
	Tag string `yaml:"tag"`

	// File is the catalog file name inside the translations directory.
	File string `yaml:"file"`
}

// TranslationsConfig selects where locale strings come from.
type TranslationsConfig struct {
	// Source is "files", "sqlite" or "postgres".
	Source string `yaml:"source" env:"GOWDATA_TRANSLATION_SOURCE"`

	// Dir holds the per-locale JSON catalogs for the files source.
	Dir string `yaml:"dir" env:"GOWDATA_TRANSLATION_DIR"`
}

// DatabaseConfig configures the translation store.
type DatabaseConfig struct {
	SQLitePath string         `yaml:"sqlite_path" env:"GOWDATA_SQLITE_PATH"`
	Postgres   PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host            string        `yaml:"host" env:"GOWDATA_PG_HOST"`
	Port            int           `yaml:"port" env:"GOWDATA_PG_PORT"`
	User            string        `yaml:"user" env:"GOWDATA_PG_USER"`
	Password        string        `yaml:"password" env:"GOWDATA_PG_PASSWORD"`
	Database        string        `yaml:"database" env:"GOWDATA_PG_DATABASE"`
	SSLMode         string        `yaml:"ssl_mode" env:"GOWDATA_PG_SSLMODE"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// WebSocketConfig holds query server settings.
type WebSocketConfig struct {
	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins.
	AllowedOrigins []string `yaml:"allowed_origins" env:"GOWDATA_WS_ALLOWED_ORIGINS" envSeparator:","`

	// MaxMessageSize is the maximum inbound message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size" env:"GOWDATA_WS_MAX_MESSAGE_SIZE"`

	// MaxResults caps the number of entities returned by one search.
	MaxResults int `yaml:"max_results" env:"GOWDATA_WS_MAX_RESULTS"`
}

// ConnectionsConfig holds connection limit settings.
type ConnectionsConfig struct {
	// MaxPerIP is the maximum concurrent connections allowed from a single IP address.
	// 0 means unlimited.
	MaxPerIP int `yaml:"max_per_ip" env:"GOWDATA_MAX_CONNS_PER_IP"`

	// MaxTotal is the maximum total concurrent connections to the server.
	// 0 means unlimited.
	MaxTotal int `yaml:"max_total" env:"GOWDATA_MAX_CONNS"`
}

// RateLimitConfig holds lockout settings for clients sending invalid requests.
type RateLimitConfig struct {
	// MaxInvalid is the number of invalid requests before lockout.
	MaxInvalid int `yaml:"max_invalid"`

	// LockoutSeconds is the initial lockout duration in seconds.
	LockoutSeconds int `yaml:"lockout_seconds"`

	// MaxLockoutSeconds caps the doubling lockout.
	MaxLockoutSeconds int `yaml:"max_lockout_seconds"`
}

// DefaultLocales lists the game's text locales.
func DefaultLocales() []LocaleConfig {
	return []LocaleConfig{
		{Code: "en", Tag: "en", File: "English.json"},
		{Code: "de", Tag: "de", File: "German.json"},
		{Code: "fr", Tag: "fr", File: "French.json"},
		{Code: "it", Tag: "it", File: "Italian.json"},
		{Code: "es", Tag: "es", File: "Spanish.json"},
		{Code: "ru", Tag: "ru", File: "Russian.json"},
		{Code: "zh", Tag: "zh-Hans", File: "Chinese.json"},
	}
}

// DefaultLookupKeys returns the searched document fields per entity kind.
func DefaultLookupKeys() map[string][]string {
	return map[string][]string{
		KindTroop:   {"name", "kingdom.name", "types", "roles"},
		KindKingdom: {"name"},
		KindWeapon:  {"name", "kingdom.name"},
		KindPet:     {"name", "kingdom.name"},
		KindClass:   {"name", "code"},
	}
}

// DefaultConfig returns a Config with defaults for a local run.
func DefaultConfig() *Config {
	return &Config{
		Assets: AssetsConfig{
			Dir:      "data",
			Campaign: true,
		},
		Locales:         DefaultLocales(),
		ReferenceLocale: "en",
		Translations: TranslationsConfig{
			Source: SourceFiles,
			Dir:    "data/translations",
		},
		Database: DatabaseConfig{
			SQLitePath: "data/gowdata.db",
			Postgres: PostgresConfig{
				Host:            "localhost",
				Port:            5432,
				SSLMode:         "disable",
				MaxOpenConns:    25,
				MaxIdleConns:    5,
				ConnMaxLifetime: 5 * time.Minute,
			},
		},
		LookupKeys: DefaultLookupKeys(),
		WebSocket: WebSocketConfig{
			AllowedOrigins: []string{},
			MaxMessageSize: 4096,
			MaxResults:     25,
		},
		Connections: ConnectionsConfig{
			MaxPerIP: 5,
			MaxTotal: 200,
		},
		RateLimit: RateLimitConfig{
			MaxInvalid:        10,
			LockoutSeconds:    30,
			MaxLockoutSeconds: 300,
		},
	}
}

// LoadConfig loads configuration from a YAML file, falling back to defaults
// when the file does not exist, then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that ingestion depends on.
func (c *Config) Validate() error {
	if len(c.Locales) == 0 {
		return fmt.Errorf("at least one locale is required")
	}
	codes := make([]string, 0, len(c.Locales))
	for _, l := range c.Locales {
		if l.Code == "" || l.Tag == "" {
			return fmt.Errorf("locale %q: code and tag are required", l.Code)
		}
		if slices.Contains(codes, l.Code) {
			return fmt.Errorf("duplicate locale %q", l.Code)
		}
		codes = append(codes, l.Code)
	}
	if !slices.Contains(codes, c.ReferenceLocale) {
		return fmt.Errorf("reference locale %q is not a configured locale", c.ReferenceLocale)
	}

	switch c.Translations.Source {
	case SourceFiles, SourceSQLite, SourcePostgres:
	default:
		return fmt.Errorf("unknown translation source %q", c.Translations.Source)
	}

	for kind, keys := range c.LookupKeys {
		if len(keys) == 0 {
			return fmt.Errorf("lookup keys for %s must not be empty", kind)
		}
	}
	return nil
}

// LocaleCodes returns the configured locale codes in order.
func (c *Config) LocaleCodes() []string {
	codes := make([]string, len(c.Locales))
	for i, l := range c.Locales {
		codes[i] = l.Code
	}
	return codes
}

// Lookup returns the lookup keys for a kind, falling back to the defaults.
func (c *Config) Lookup(kind string) []string {
	if keys, ok := c.LookupKeys[kind]; ok {
		return keys
	}
	return DefaultLookupKeys()[kind]
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host.
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // non-browser clients send no Origin header
	}

	// "http://localhost:3000" -> "localhost:3000"
	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
