package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/config"
	"github.com/twiced-technology-gmbh/taskboard/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify board configuration",
	Long: `View the full configuration, get a specific key, or set a writable value.
Values shown include TASKBOARD_* environment overrides; set writes only the
config file.`,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get func(*config.Config) any
	set func(*config.Config, string) error
}

func (a configAccessor) writable() bool { return a.set != nil }

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"board.name",
		"board.description",
		"storage.backend",
		"storage.quota_bytes",
		"storage.redis_url",
		"storage.redis_prefix",
		"notifications.enabled",
		"notifications.bell",
		"notifications.desktop",
		"auth.base_url",
		"auth.timeout",
		"tui.title_lines",
		"output",
	}
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"board.name": {
			get: func(c *config.Config) any { return c.Board.Name },
			set: func(c *config.Config, v string) error { c.Board.Name = v; return nil },
		},
		"board.description": {
			get: func(c *config.Config) any { return c.Board.Description },
			set: func(c *config.Config, v string) error { c.Board.Description = v; return nil },
		},
		"storage.backend": {
			get: func(c *config.Config) any { return c.Storage.Backend },
			set: func(c *config.Config, v string) error { c.Storage.Backend = v; return nil },
		},
		"storage.quota_bytes": {
			get: func(c *config.Config) any { return c.Storage.QuotaBytes },
			set: func(c *config.Config, v string) error {
				n, err := strconv.ParseInt(v, 10, 64)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput,
						"invalid storage.quota_bytes %q: must be an integer", v)
				}
				c.Storage.QuotaBytes = n
				return nil
			},
		},
		"storage.redis_url": {
			get: func(c *config.Config) any { return c.Storage.RedisURL },
			set: func(c *config.Config, v string) error { c.Storage.RedisURL = v; return nil },
		},
		"storage.redis_prefix": {
			get: func(c *config.Config) any { return c.Storage.RedisPrefix },
			set: func(c *config.Config, v string) error { c.Storage.RedisPrefix = v; return nil },
		},
		"notifications.enabled": {
			get: func(c *config.Config) any { return c.NotificationsEnabled() },
			set: func(c *config.Config, v string) error {
				b, err := parseConfigBool("notifications.enabled", v)
				c.Notifications.Enabled = &b
				return err
			},
		},
		"notifications.bell": {
			get: func(c *config.Config) any { return c.BellEnabled() },
			set: func(c *config.Config, v string) error {
				b, err := parseConfigBool("notifications.bell", v)
				c.Notifications.Bell = &b
				return err
			},
		},
		"notifications.desktop": {
			get: func(c *config.Config) any { return c.Notifications.Desktop },
			set: func(c *config.Config, v string) error {
				b, err := parseConfigBool("notifications.desktop", v)
				c.Notifications.Desktop = b
				return err
			},
		},
		"auth.base_url": {
			get: func(c *config.Config) any { return c.Auth.BaseURL },
			set: func(c *config.Config, v string) error { c.Auth.BaseURL = v; return nil },
		},
		"auth.timeout": {
			get: func(c *config.Config) any { return c.Auth.Timeout },
			set: func(c *config.Config, v string) error {
				if _, err := time.ParseDuration(v); err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid auth.timeout %q: %v", v, err)
				}
				c.Auth.Timeout = v
				return nil
			},
		},
		"tui.title_lines": {
			get: func(c *config.Config) any { return c.TitleLines() },
			set: func(c *config.Config, v string) error {
				n, err := strconv.Atoi(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput,
						"invalid tui.title_lines %q: must be an integer", v)
				}
				c.TUI.TitleLines = n
				return nil // validation handles range check
			},
		},
		"output": {
			get: func(c *config.Config) any { return c.Output },
			set: func(c *config.Config, v string) error { c.Output = v; return nil },
		},
	}
}

func parseConfigBool(key, v string) (bool, error) {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, clierr.Newf(clierr.InvalidInput, "invalid %s %q: must be true or false", key, v)
	}
	return b, nil
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	for _, key := range allConfigKeys() {
		fmt.Fprintf(os.Stdout, "%-22s %s\n", key, formatConfigValue(accessors[key].get(cfg)))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	acc, err := lookupConfigKey(args[0])
	if err != nil {
		return err
	}
	val := acc.get(cfg)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}
	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	acc, err := lookupConfigKey(key)
	if err != nil {
		return err
	}
	if !acc.writable() {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	// The file is edited without environment overrides so they are not
	// written back.
	dir, err := resolveDir()
	if err != nil {
		return err
	}
	cfg, err := config.LoadFile(dir)
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			return clierr.Wrap(clierr.BoardNotFound, err)
		}
		return err
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return clierr.Wrap(clierr.InvalidInput, err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)})
	}
	output.Messagef(os.Stdout, "Set %s = %s", key, formatConfigValue(acc.get(cfg)))
	return nil
}

func lookupConfigKey(key string) (configAccessor, error) {
	acc, ok := configAccessors()[key]
	if !ok {
		return configAccessor{}, clierr.Newf(clierr.InvalidInput, "unknown config key %q", key).
			WithDetails(map[string]any{"key": key, "allowed": allConfigKeys()})
	}
	return acc, nil
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case string:
		if v == "" {
			return "--"
		}
		return v
	case []string:
		return strings.Join(v, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
