package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestInitAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), DefaultDir)
	if _, err := Init(dir, "Home"); err != nil {
		t.Fatalf("Init: %v", err)
	}

	cfg, err := LoadFile(dir)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Board.Name != "Home" || cfg.Storage.Backend != DefaultBackend || cfg.Dir() != dir {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.NotificationsEnabled() || !cfg.BellEnabled() || cfg.AuthTimeout().Seconds() != 10 {
		t.Errorf("defaults wrong: %+v", cfg)
	}
}

func TestLoadMissing(t *testing.T) {
	t.Parallel()
	if _, err := LoadFile(t.TempDir()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadFile = %v, want ErrNotFound", err)
	}
}

func TestMigrateV1(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	v1 := "version: 1\nboard:\n  name: Old\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(v1), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(dir)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Version != CurrentVersion || cfg.Storage.Backend != DefaultBackend || cfg.Auth.BaseURL != DefaultAuthURL {
		t.Errorf("migrated cfg = %+v", cfg)
	}

	// The migrated config is written back.
	again, err := LoadFile(dir)
	if err != nil || again.Version != CurrentVersion {
		t.Fatalf("reload = %+v, %v", again, err)
	}
}

func TestMigrateRejectsFutureVersion(t *testing.T) {
	t.Parallel()
	cfg := NewDefault("x")
	cfg.Version = CurrentVersion + 1
	if err := migrate(cfg); !errors.Is(err, ErrInvalid) {
		t.Fatalf("migrate = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty name", func(c *Config) { c.Board.Name = "" }},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "floppy" }},
		{"redis without url", func(c *Config) { c.Storage.Backend = "redis" }},
		{"negative quota", func(c *Config) { c.Storage.QuotaBytes = -1 }},
		{"bad timeout", func(c *Config) { c.Auth.Timeout = "soon" }},
		{"zero timeout", func(c *Config) { c.Auth.Timeout = "0s" }},
		{"bad output", func(c *Config) { c.Output = "xml" }},
		{"title lines", func(c *Config) { c.TUI.TitleLines = 9 }},
	}
	for _, tt := range tests {
		cfg := NewDefault("x")
		tt.mutate(cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: Validate = %v, want ErrInvalid", tt.name, err)
		}
	}
	if err := NewDefault("x").Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(dir, "Env"); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASKBOARD_STORAGE", "Redis")
	t.Setenv("TASKBOARD_REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("TASKBOARD_AUTH_URL", "http://auth.test")
	t.Setenv("TASKBOARD_OUTPUT", "json")
	t.Setenv("TASKBOARD_DEBUG", "1")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Backend != "redis" || cfg.Storage.RedisURL != "redis://localhost:6379/1" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Auth.BaseURL != "http://auth.test" || cfg.Output != "json" || !cfg.Debug {
		t.Errorf("cfg = %+v", cfg)
	}
	if EnvOutput() != "json" || !EnvDebug() {
		t.Error("env helpers disagree with Load")
	}

	// Overrides never reach the file.
	file, err := LoadFile(dir)
	if err != nil {
		t.Fatal(err)
	}
	if file.Storage.Backend != DefaultBackend || file.Output != "" {
		t.Errorf("file config picked up env: %+v", file)
	}
}

func TestFindDir(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	boardDir := filepath.Join(root, DefaultDir)
	if _, err := Init(boardDir, "Find"); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatal(err)
	}

	got, err := FindDir(nested)
	if err != nil || got != boardDir {
		t.Errorf("FindDir(nested) = %q, %v; want %q", got, err, boardDir)
	}
	got, err = FindDir(boardDir)
	if err != nil || got != boardDir {
		t.Errorf("FindDir(board) = %q, %v", got, err)
	}
}
