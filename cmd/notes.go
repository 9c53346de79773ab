package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/output"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Show the board's notes",
	Long: `Notes are a free-text scratchpad stored alongside the board. They are
rendered as markdown when stdout is a terminal.`,
	Args: cobra.NoArgs,
	RunE: runNotesShow,
}

var notesSetCmd = &cobra.Command{
	Use:   "set [TEXT]",
	Short: "Replace the board's notes",
	Long:  `Replaces the notes with TEXT, or with standard input when TEXT is "-" or omitted.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runNotesSet,
}

func init() {
	notesSetCmd.Flags().BoolP("append", "a", false, "append to the existing notes instead of replacing them")
	notesCmd.AddCommand(notesSetCmd)
	rootCmd.AddCommand(notesCmd)
}

func runNotesShow(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	notes := sess.Persist.LoadNotes(cmd.Context())
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{"notes": notes})
	}
	if strings.TrimSpace(notes) == "" {
		output.Messagef(os.Stderr, "No notes yet.")
		return nil
	}
	if flagNoColor || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stdout, notes)
		return nil
	}

	rendered, err := glamour.Render(notes, "dark")
	if err != nil {
		fmt.Fprintln(os.Stdout, notes)
		return nil //nolint:nilerr // fall back to plain text
	}
	fmt.Fprint(os.Stdout, rendered)
	return nil
}

func runNotesSet(cmd *cobra.Command, args []string) error {
	var text string
	if len(args) == 1 && args[0] != "-" {
		text = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading notes from stdin: %w", err)
		}
		text = string(data)
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	if appendMode, _ := cmd.Flags().GetBool("append"); appendMode {
		if existing := sess.Persist.LoadNotes(cmd.Context()); existing != "" {
			text = strings.TrimRight(existing, "\n") + "\n" + text
		}
	}

	if err := sess.Persist.SaveNotes(cmd.Context(), text); err != nil {
		return clierr.Wrap(clierr.PersistenceWriteFailure, err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"status": "saved", "bytes": len(text)})
	}
	output.Messagef(os.Stdout, "Saved notes (%d bytes)", len(text))
	return nil
}
