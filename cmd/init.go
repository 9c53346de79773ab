package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/config"
	"github.com/twiced-technology-gmbh/taskboard/internal/kv"
	"github.com/twiced-technology-gmbh/taskboard/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new task board",
	Long: `Creates a board directory with config.yml. Tasks are stored according to
--storage: files under store/ (default), a SQLite database, or Redis.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("name", "", "board name (defaults to current directory name)")
	initCmd.Flags().String("storage", config.DefaultBackend, "storage backend ("+strings.Join(config.Backends(), ", ")+")")
	initCmd.Flags().String("redis-url", "", "redis URL or host:port for the redis backend")
	initCmd.Flags().Int64("quota", 0, "storage quota in bytes for the file backend (0 = unlimited)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		dir = config.DefaultDir
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	// Check if already initialized.
	if _, err := os.Stat(filepath.Join(absDir, config.ConfigFileName)); err == nil {
		return clierr.Newf(clierr.BoardAlreadyExists, "board already initialized in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		name = filepath.Base(cwd)
	}

	cfg := config.NewDefault(name)
	cfg.SetDir(absDir)

	backend, _ := cmd.Flags().GetString("storage")
	backend = strings.ToLower(backend)
	if !slices.Contains(config.Backends(), backend) {
		return clierr.Newf(clierr.InvalidInput, "invalid storage backend %q; valid: %s",
			backend, strings.Join(config.Backends(), ", "))
	}
	cfg.Storage.Backend = backend
	cfg.Storage.RedisURL, _ = cmd.Flags().GetString("redis-url")
	cfg.Storage.QuotaBytes, _ = cmd.Flags().GetInt64("quota")
	if backend == kv.BackendRedis {
		cfg.Storage.RedisPrefix = config.DefaultRedisPrefix
	}

	if err := cfg.Validate(); err != nil {
		return clierr.Wrap(clierr.InvalidInput, err)
	}

	const dirMode = 0o750
	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return fmt.Errorf("creating board directory: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Open the store once so the file backend's directory exists and a bad
	// redis address is reported now rather than on first use.
	store, err := kv.Open(cmd.Context(), kv.Options{
		Backend:     cfg.Storage.Backend,
		Dir:         absDir,
		Quota:       cfg.Storage.QuotaBytes,
		RedisURL:    cfg.Storage.RedisURL,
		RedisPrefix: cfg.Storage.RedisPrefix,
	})
	if err != nil {
		return fmt.Errorf("opening %s storage: %w", backend, err)
	}
	_ = store.Close()

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status":  "initialized",
			"dir":     absDir,
			"name":    name,
			"config":  cfg.ConfigPath(),
			"storage": backend,
		})
	}

	output.Messagef(os.Stdout, "Initialized board %q in %s", name, absDir)
	output.Messagef(os.Stdout, "  Config:  %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Storage: %s", backend)
	output.Messagef(os.Stdout, "  Hint:    Add a task with: taskboard add \"Write report\" --deadline 2024-05-10")
	return nil
}
