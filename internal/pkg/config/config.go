package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	ServerAddr  string `env:"SERVER_ADDR" envDefault:":8080"`
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9091"`

	// FolderStore selects the folder list backend: file, redis or postgres.
	FolderStore     string `env:"FOLDER_STORE" envDefault:"file"`
	FolderStorePath string `env:"FOLDER_STORE_PATH" envDefault:"config/logfolders.json"`
	FolderSeedPath  string `env:"FOLDER_SEED_PATH" envDefault:"config/folders.toml"`
	RedisAddr       string `env:"REDIS_ADDR" envDefault:"redis://localhost:6379/0"`
	RedisFolderKey  string `env:"REDIS_FOLDER_KEY" envDefault:"logviewer:folders"`
	PostgresURL     string `env:"POSTGRES_URL"`

	FilePatterns    []string `env:"LOG_FILE_PATTERNS" envSeparator:"," envDefault:"*.txt,*.log,*.LOG,*.gz,*.zst"`
	TimeZone        string   `env:"LOG_TIMEZONE" envDefault:"UTC"`
	MaxRequestBytes int64    `env:"MAX_REQUEST_BYTES" envDefault:"1048576"`
	// DisplayRowLimit caps the rows sent back; 0 sends everything.
	DisplayRowLimit int `env:"DISPLAY_ROW_LIMIT" envDefault:"0"`
	// RedactPatterns are regular expressions masked in returned entries.
	RedactPatterns []string `env:"REDACT_PATTERNS" envSeparator:";"`

	SnapshotCacheSize int           `env:"SNAPSHOT_CACHE_SIZE" envDefault:"32"`
	SnapshotTTL       time.Duration `env:"SNAPSHOT_TTL" envDefault:"15m"`
	WatchFiles        bool          `env:"WATCH_FILES" envDefault:"true"`

	AdminUsername     string        `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword     string        `env:"ADMIN_PASSWORD" envDefault:"admin"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"` // bcrypt, takes precedence over ADMIN_PASSWORD
	JWTSecret         string        `env:"JWT_SECRET" envDefault:"change-me"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	AuthDisabled      bool          `env:"AUTH_DISABLED" envDefault:"false"`
	SecureCookie      bool          `env:"SECURE_COOKIE" envDefault:"false"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"100"`
}

// DefaultJWTSecret is the JWT_SECRET used when none is configured.
const DefaultJWTSecret = "change-me"

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Location resolves TimeZone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// UsesDefaultJWTSecret reports whether sessions are signed with DefaultJWTSecret.
func (c *Config) UsesDefaultJWTSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}
