// Package cmd implements the taskboard CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/config"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
	"github.com/twiced-technology-gmbh/taskboard/internal/output"
	"github.com/twiced-technology-gmbh/taskboard/internal/persist"
	"github.com/twiced-technology-gmbh/taskboard/internal/session"
	"github.com/twiced-technology-gmbh/taskboard/internal/task"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
	flagVerbose bool
)

// cfgOutput is the output format from the loaded config, if any.
var cfgOutput string

var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "Personal kanban board with deadlines",
	Long: `taskboard keeps tasks on a three-stage board (To Do, In Progress, Completed).
Run taskboard with no arguments to open the board; drag cards between columns
with the keyboard or mouse. Tasks due today or tomorrow raise an alert when the
board opens.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
		setupLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to board directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log debug output to stderr")
}

// setupLogging configures the standard logrus logger: warnings and above to
// stderr, debug when --verbose or TASKBOARD_DEBUG is set.
func setupLogging() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	log.SetLevel(log.WarnLevel)
	if flagVerbose || config.EnvDebug() {
		log.SetLevel(log.DebugLevel)
	}
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	_, err := rootCmd.ExecuteContextC(ctx)
	stop()
	if err == nil {
		return
	}

	// SilentError: exit with its code, no output.
	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	if outputFormat() == output.FormatJSON {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		// Unknown errors are reported as INTERNAL_ERROR.
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	// Non-JSON mode: print to stderr.
	fmt.Fprintln(os.Stderr, "Error:", err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// defaultHomeDir returns the path to ~/.config/taskboard.
func defaultHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", config.DefaultDir), nil
}

// resolveDir returns the absolute path to the board directory.
// Falls back to ~/.config/taskboard if no board is found in the current directory tree.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	dir, err := config.FindDir(cwd)
	if err == nil {
		return dir, nil
	}

	return defaultHomeDir()
}

// loadConfig finds and loads the board config with environment overrides.
// The home default board is created on first use.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if errors.Is(err, config.ErrNotFound) {
		homeDir, homeErr := defaultHomeDir()
		if homeErr != nil || dir != homeDir {
			return nil, clierr.Wrap(clierr.BoardNotFound, err)
		}
		if _, err = config.Init(homeDir, config.DefaultDir); err != nil {
			return nil, err
		}
		cfg, err = config.Load(homeDir)
	}
	if err != nil {
		return nil, err
	}
	cfgOutput = cfg.Output
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
	return cfg, nil
}

// openSession loads the config and opens the board it describes. Callers
// close the session when done.
func openSession(ctx context.Context) (*session.Session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	sess, err := session.Open(ctx, cfg, log.StandardLogger(), session.Options{})
	if err != nil {
		return nil, clierr.Wrap(clierr.InternalError, err)
	}
	return sess, nil
}

// outputFormat returns the detected output format from flags, config and env.
func outputFormat() output.Format {
	fallback := cfgOutput
	if fallback == "" {
		fallback = config.EnvOutput()
	}
	return output.Detect(flagJSON, flagTable, flagCompact, fallback)
}

// findEntry resolves a task reference (full ID or unique prefix) on the board.
func findEntry(sess *session.Session, ref string) (board.Entry, error) {
	t, err := task.Find(sess.Board.Flatten(), ref)
	if err != nil {
		return board.Entry{}, err
	}
	st, pos, _ := sess.Board.Locate(t.ID)
	t, _ = sess.Board.Get(t.ID)
	return board.Entry{Task: t, Stage: st, Position: pos}, nil
}

// saveBoard writes the board, reporting a rejected write as a coded error.
// The in-memory change is lost when the process exits, so the command fails.
func saveBoard(ctx context.Context, sess *session.Session) error {
	err := sess.Save(ctx)
	if errors.Is(err, persist.ErrWriteFailure) {
		return clierr.Wrap(clierr.PersistenceWriteFailure, err)
	}
	return err
}

// today returns the reference date for deadline checks.
func today() date.Date {
	return date.Today()
}

// logActivity appends an entry to the activity log. Errors are silently
// discarded because logging should never fail a command.
func logActivity(cfg *config.Config, action, taskID, detail string) {
	board.LogMutation(cfg.Dir(), action, taskID, detail)
}

// runBatch executes fn for each reference and collects results. Returns a
// SilentError with exit code 1 if any operation failed (after outputting results).
func runBatch(refs []string, fn func(string) error) error {
	results := make([]output.BatchResult, 0, len(refs))
	anyFailed := false

	for _, ref := range refs {
		err := fn(ref)
		if err != nil {
			anyFailed = true
			var cliErr *clierr.Error
			if errors.As(err, &cliErr) {
				results = append(results, output.BatchResult{ID: ref, OK: false, Error: cliErr.Message, Code: cliErr.Code})
			} else {
				results = append(results, output.BatchResult{ID: ref, OK: false, Error: err.Error()})
			}
		} else {
			results = append(results, output.BatchResult{ID: ref, OK: true})
		}
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		var succeeded int
		for _, r := range results {
			if r.OK {
				succeeded++
			} else {
				fmt.Fprintf(os.Stderr, "Error: task %s: %s\n", r.ID, r.Error)
			}
		}
		output.Messagef(os.Stdout, "Completed %d/%d operations", succeeded, len(refs))
	}

	if anyFailed {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}
