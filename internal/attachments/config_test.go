package attachments_test

import (
	"testing"
	"time"

	"github.com/givehub/givehub/internal/attachments"
)

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := attachments.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.MaxFiles != 10 {
		t.Errorf("max_files: got %d, want 10", cfg.MaxFiles)
	}
	if got := cfg.MaxFileSizeBytes(); got != 30*1024*1024 {
		t.Errorf("max file size: got %d, want 30MiB", got)
	}
	if cfg.SweepIntervalDuration() != time.Hour {
		t.Errorf("sweep interval: got %v, want 1h", cfg.SweepIntervalDuration())
	}
	if len(cfg.AllowedTypes) == 0 || len(cfg.AllowedExtensions) == 0 {
		t.Error("allow-lists not populated")
	}
}

func TestConfigFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_MAX_FILES", "3")
	t.Setenv("TEST_MAX_FILE_SIZE", "5MB")
	t.Setenv("TEST_ALLOWED_TYPES", "image/png, application/pdf")
	t.Setenv("TEST_SWEEP_INTERVAL", "10m")

	env := &attachments.Env{
		MaxFiles:      "TEST_MAX_FILES",
		MaxFileSize:   "TEST_MAX_FILE_SIZE",
		AllowedTypes:  "TEST_ALLOWED_TYPES",
		SweepInterval: "TEST_SWEEP_INTERVAL",
	}

	cfg := attachments.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.MaxFiles != 3 {
		t.Errorf("max_files: got %d, want 3", cfg.MaxFiles)
	}
	if got := cfg.MaxFileSizeBytes(); got != 5*1024*1024 {
		t.Errorf("max file size: got %d, want 5MiB", got)
	}
	if len(cfg.AllowedTypes) != 2 || cfg.AllowedTypes[1] != "application/pdf" {
		t.Errorf("allowed types: got %v", cfg.AllowedTypes)
	}
	if cfg.SweepIntervalDuration() != 10*time.Minute {
		t.Errorf("sweep interval: got %v, want 10m", cfg.SweepIntervalDuration())
	}
}

func TestSweepIntervalDurationFallback(t *testing.T) {
	tests := []struct {
		name     string
		interval string
	}{
		{"zero", "0s"},
		{"negative", "-1h"},
		{"unparseable", "soonish"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := attachments.Config{SweepInterval: tt.interval}
			if got := cfg.SweepIntervalDuration(); got != time.Hour {
				t.Errorf("sweep interval: got %v, want 1h fallback", got)
			}
		})
	}
}

func TestConfigFinalizeValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  attachments.Config
	}{
		{"bad size", attachments.Config{MaxFileSize: "lots"}},
		{"bad interval", attachments.Config{SweepInterval: "often"}},
		{"zero interval", attachments.Config{SweepInterval: "0s"}},
		{"negative interval", attachments.Config{SweepInterval: "-5m"}},
		{"negative files", attachments.Config{MaxFiles: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
