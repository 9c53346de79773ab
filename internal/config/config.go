package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no task board found (run 'taskboard init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the task board configuration.
type Config struct {
	Version       int                `yaml:"version"`
	Board         BoardConfig        `yaml:"board"`
	Storage       StorageConfig      `yaml:"storage"`
	Notifications NotificationConfig `yaml:"notifications"`
	Auth          AuthConfig         `yaml:"auth"`
	TUI           TUIConfig          `yaml:"tui,omitempty"`
	Output        string             `yaml:"output,omitempty"`

	// Debug is only ever set from the environment.
	Debug bool `yaml:"-"`

	// dir is the absolute path to the board directory (not serialized).
	dir string `yaml:"-"`
}

// BoardConfig holds board metadata.
type BoardConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// StorageConfig selects where the board's entries are kept.
type StorageConfig struct {
	Backend     string `yaml:"backend"`
	QuotaBytes  int64  `yaml:"quota_bytes,omitempty"`
	RedisURL    string `yaml:"redis_url,omitempty"`
	RedisPrefix string `yaml:"redis_prefix,omitempty"`
}

// NotificationConfig controls how deadline alerts are delivered.
type NotificationConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
	Bell    *bool `yaml:"bell,omitempty"`
	Desktop bool  `yaml:"desktop,omitempty"`
}

// AuthConfig points at the account service.
type AuthConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// TUIConfig holds TUI-specific display settings.
type TUIConfig struct {
	TitleLines int `yaml:"title_lines,omitempty"`
}

// Dir returns the absolute path to the board directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the board directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// NewDefault creates a Config with default values.
func NewDefault(name string) *Config {
	return &Config{
		Version: CurrentVersion,
		Board:   BoardConfig{Name: name},
		Storage: StorageConfig{Backend: DefaultBackend},
		Notifications: NotificationConfig{
			Enabled: boolPtr(true),
			Bell:    boolPtr(true),
		},
		Auth: AuthConfig{BaseURL: DefaultAuthURL, Timeout: DefaultAuthTimeout},
		TUI:  TUIConfig{TitleLines: DefaultTitleLines},
	}
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Board.Name == "" {
		return fmt.Errorf("%w: board.name is required", ErrInvalid)
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateAuth(); err != nil {
		return err
	}
	if !slices.Contains(outputFormats, c.Output) {
		return fmt.Errorf("%w: output must be one of table, compact, json", ErrInvalid)
	}
	const minTitleLines, maxTitleLines = 1, 3
	if c.TUI.TitleLines < minTitleLines || c.TUI.TitleLines > maxTitleLines {
		return fmt.Errorf("%w: tui.title_lines must be between %d and %d",
			ErrInvalid, minTitleLines, maxTitleLines)
	}
	return nil
}

func (c *Config) validateStorage() error {
	if !slices.Contains(backends, c.Storage.Backend) {
		return fmt.Errorf("%w: unknown storage.backend %q (allowed: %v)", ErrInvalid, c.Storage.Backend, backends)
	}
	if c.Storage.QuotaBytes < 0 {
		return fmt.Errorf("%w: storage.quota_bytes must be >= 0", ErrInvalid)
	}
	if c.Storage.Backend == "redis" && c.Storage.RedisURL == "" {
		return fmt.Errorf("%w: storage.redis_url is required for the redis backend", ErrInvalid)
	}
	return nil
}

func (c *Config) validateAuth() error {
	if c.Auth.Timeout == "" {
		return nil
	}
	d, err := time.ParseDuration(c.Auth.Timeout)
	if err != nil {
		return fmt.Errorf("%w: invalid auth.timeout %q: %w", ErrInvalid, c.Auth.Timeout, err)
	}
	if d <= 0 {
		return fmt.Errorf("%w: auth.timeout must be positive", ErrInvalid)
	}
	return nil
}

// AuthTimeout returns the parsed auth timeout, or 0 to use the client default.
func (c *Config) AuthTimeout() time.Duration {
	d, err := time.ParseDuration(c.Auth.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// NotificationsEnabled reports whether deadline alerts are shown at all.
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications.Enabled == nil || *c.Notifications.Enabled
}

// BellEnabled reports whether alerts ring the terminal bell.
func (c *Config) BellEnabled() bool {
	return c.Notifications.Bell == nil || *c.Notifications.Bell
}

// TitleLines returns the configured number of title lines for TUI cards.
func (c *Config) TitleLines() int {
	if c.TUI.TitleLines == 0 {
		return DefaultTitleLines
	}
	return c.TUI.TitleLines
}

// Init creates a new board in the given directory with default settings.
func Init(dir, name string) (*Config, error) {
	const dirMode = 0o750

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault(name)
	cfg.SetDir(absDir)

	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating board directory: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load is LoadFile with the TASKBOARD_* environment overrides applied. The
// result must not be saved, or the overrides would be written back.
func Load(dir string) (*Config, error) {
	cfg, err := LoadFile(dir)
	if err != nil {
		return nil, err
	}
	ApplyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}
	return cfg, nil
}

// LoadFile reads, migrates and validates a config from the given board
// directory.
func LoadFile(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	// Migrate old config versions forward before validating.
	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	// Persist migrated config so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindDir walks upward from startDir looking for a board directory
// containing config.yml. Returns the absolute path to the board directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the board directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.BoardNotFound,
				"no task board found (run 'taskboard init' to create one)")
		}
		dir = parent
	}
}

// Backends returns the accepted storage backend names.
func Backends() []string {
	return slices.Clone(backends)
}
