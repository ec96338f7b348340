// Package config loads and finalizes the service configuration tree from
// TOML files, environment overlays, and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/givehub/givehub/internal/attachments"
	"github.com/givehub/givehub/internal/identity"
	"github.com/givehub/givehub/pkg/database"
	"github.com/givehub/givehub/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvGivehubEnv             = "GIVEHUB_ENV"
	EnvGivehubShutdownTimeout = "GIVEHUB_SHUTDOWN_TIMEOUT"
	EnvGivehubVersion         = "GIVEHUB_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "GIVEHUB_DB_HOST",
	Port:            "GIVEHUB_DB_PORT",
	Name:            "GIVEHUB_DB_NAME",
	User:            "GIVEHUB_DB_USER",
	Password:        "GIVEHUB_DB_PASSWORD",
	SSLMode:         "GIVEHUB_DB_SSL_MODE",
	MaxOpenConns:    "GIVEHUB_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "GIVEHUB_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "GIVEHUB_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "GIVEHUB_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "GIVEHUB_STORAGE_CONTAINER_NAME",
	ConnectionString: "GIVEHUB_STORAGE_CONNECTION_STRING",
	ServiceURL:       "GIVEHUB_STORAGE_SERVICE_URL",
	MaxListSize:      "GIVEHUB_STORAGE_MAX_LIST_SIZE",
}

var identityEnv = &identity.Env{
	Issuer:    "GIVEHUB_AUTH_ISSUER",
	ClientID:  "GIVEHUB_AUTH_CLIENT_ID",
	AdminRole: "GIVEHUB_AUTH_ADMIN_ROLE",
}

var uploadsEnv = &attachments.Env{
	MaxFiles:          "GIVEHUB_UPLOADS_MAX_FILES",
	MaxFileSize:       "GIVEHUB_UPLOADS_MAX_FILE_SIZE",
	AllowedTypes:      "GIVEHUB_UPLOADS_ALLOWED_TYPES",
	AllowedExtensions: "GIVEHUB_UPLOADS_ALLOWED_EXTENSIONS",
	SweepInterval:     "GIVEHUB_UPLOADS_SWEEP_INTERVAL",
}

// Config is the root configuration for the givehub service.
type Config struct {
	Server          ServerConfig       `toml:"server"`
	Database        database.Config    `toml:"database"`
	Storage         storage.Config     `toml:"storage"`
	Identity        identity.Config    `toml:"identity"`
	Uploads         attachments.Config `toml:"uploads"`
	API             APIConfig          `toml:"api"`
	ShutdownTimeout string             `toml:"shutdown_timeout"`
	Version         string             `toml:"version"`
}

// Env returns the GIVEHUB_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvGivehubEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and
// environment variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Identity.Merge(&overlay.Identity)
	c.Uploads.Merge(&overlay.Uploads)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Identity.Finalize(identityEnv); err != nil {
		return fmt.Errorf("identity: %w", err)
	}
	if err := c.Uploads.Finalize(uploadsEnv); err != nil {
		return fmt.Errorf("uploads: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvGivehubShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvGivehubVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvGivehubEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
