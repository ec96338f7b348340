package attachments

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/givehub/givehub/pkg/formatting"
)

// Config holds upload limits, the validation allow-lists, and the
// reconciliation sweep interval.
type Config struct {
	MaxFiles          int      `toml:"max_files"`
	MaxFileSize       string   `toml:"max_file_size"`
	AllowedTypes      []string `toml:"allowed_types"`
	AllowedExtensions []string `toml:"allowed_extensions"`
	SweepInterval     string   `toml:"sweep_interval"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	MaxFiles          string
	MaxFileSize       string
	AllowedTypes      string
	AllowedExtensions string
	SweepInterval     string
}

// MaxFileSizeBytes returns MaxFileSize as a byte count.
func (c *Config) MaxFileSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxFileSize)
	if err != nil {
		return 30 * 1024 * 1024
	}
	return size
}

// SweepIntervalDuration returns SweepInterval as a time.Duration. The
// interval feeds a ticker, so anything unparseable or non-positive falls
// back to the default hour.
func (c *Config) SweepIntervalDuration() time.Duration {
	d, err := time.ParseDuration(c.SweepInterval)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.MaxFiles != 0 {
		c.MaxFiles = overlay.MaxFiles
	}
	if overlay.MaxFileSize != "" {
		c.MaxFileSize = overlay.MaxFileSize
	}
	if overlay.AllowedTypes != nil {
		c.AllowedTypes = overlay.AllowedTypes
	}
	if overlay.AllowedExtensions != nil {
		c.AllowedExtensions = overlay.AllowedExtensions
	}
	if overlay.SweepInterval != "" {
		c.SweepInterval = overlay.SweepInterval
	}
}

func (c *Config) loadDefaults() {
	if c.MaxFiles == 0 {
		c.MaxFiles = 10
	}
	if c.MaxFileSize == "" {
		c.MaxFileSize = "30MB"
	}
	if len(c.AllowedTypes) == 0 {
		c.AllowedTypes = []string{
			"image/png",
			"image/jpeg",
			"image/gif",
			"image/webp",
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/vnd.ms-excel",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		}
	}
	if len(c.AllowedExtensions) == 0 {
		c.AllowedExtensions = []string{
			".png", ".jpg", ".jpeg", ".gif", ".webp",
			".pdf", ".doc", ".docx", ".xls", ".xlsx",
		}
	}
	if c.SweepInterval == "" {
		c.SweepInterval = "1h"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.MaxFiles != "" {
		if v := os.Getenv(env.MaxFiles); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.MaxFiles = n
			}
		}
	}
	if env.MaxFileSize != "" {
		if v := os.Getenv(env.MaxFileSize); v != "" {
			c.MaxFileSize = v
		}
	}
	if env.AllowedTypes != "" {
		if v := os.Getenv(env.AllowedTypes); v != "" {
			c.AllowedTypes = splitList(v)
		}
	}
	if env.AllowedExtensions != "" {
		if v := os.Getenv(env.AllowedExtensions); v != "" {
			c.AllowedExtensions = splitList(v)
		}
	}
	if env.SweepInterval != "" {
		if v := os.Getenv(env.SweepInterval); v != "" {
			c.SweepInterval = v
		}
	}
}

func (c *Config) validate() error {
	if c.MaxFiles < 1 {
		return fmt.Errorf("max_files must be positive")
	}
	if _, err := formatting.ParseBytes(c.MaxFileSize); err != nil {
		return fmt.Errorf("invalid max_file_size: %w", err)
	}
	d, err := time.ParseDuration(c.SweepInterval)
	if err != nil {
		return fmt.Errorf("invalid sweep_interval: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("sweep_interval must be positive")
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
