// Package config loads application configuration from environment variables.
package config

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	// GitHubToken is a fallback token used when none is stored in the
	// credential store. Optional.
	GitHubToken string `env:"REVIEWDECK_GITHUB_TOKEN"`

	// SecretKey derives the AES-256 key encrypting the stored token.
	// Optional; without it tokens cannot be persisted, only read from env.
	SecretKey string `env:"REVIEWDECK_SECRET_KEY"`

	// DBPath is the credential database location. Defaults to
	// reviewdeck.db under the user config directory.
	DBPath string `env:"REVIEWDECK_DB_PATH"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"REVIEWDECK_LOG_LEVEL" envDefault:"info"`

	// HTTPTimeout bounds every GitHub API call, REST and GraphQL alike.
	HTTPTimeout time.Duration `env:"REVIEWDECK_HTTP_TIMEOUT" envDefault:"30s"`
}

// Load reads configuration from the environment, after loading an optional
// .env file from the working directory. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.DBPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolving config directory: %w", err)
		}
		cfg.DBPath = filepath.Join(dir, "reviewdeck", "reviewdeck.db")
	}

	return cfg, nil
}

// EncryptionKey derives the 32-byte AES-256 key from SecretKey, or nil when
// no secret is configured.
func (c *Config) EncryptionKey() []byte {
	if c.SecretKey == "" {
		return nil
	}
	sum := sha256.Sum256([]byte(c.SecretKey))
	return sum[:]
}

// EnsureDBDir creates the directory holding the credential database.
func (c *Config) EnsureDBDir() error {
	if err := os.MkdirAll(filepath.Dir(c.DBPath), 0o700); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	return nil
}
