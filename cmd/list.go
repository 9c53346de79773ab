package cmd

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
	"github.com/twiced-technology-gmbh/taskboard/internal/output"
	"github.com/twiced-technology-gmbh/taskboard/internal/stage"
	"github.com/twiced-technology-gmbh/taskboard/internal/task"
)

const groupByDeadline = "deadline"

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long:    `Lists tasks with optional filtering, sorting, and output format control.`,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringSlice("stage", nil, "filter by stage ("+strings.Join(stage.Slugs(), ", ")+")")
	listCmd.Flags().StringP("search", "s", "", "search tasks by title (case-insensitive)")
	listCmd.Flags().String("due-before", "", "only tasks with a deadline on or before this date (YYYY-MM-DD)")
	listCmd.Flags().Bool("has-deadline", false, "only tasks with a deadline")
	listCmd.Flags().Bool("no-deadline", false, "only tasks without a deadline")
	listCmd.Flags().Bool("overdue", false, "only overdue tasks")
	listCmd.Flags().String("sort", board.SortStage, "sort field ("+strings.Join(board.SortFields(), ", ")+")")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	listCmd.Flags().String("group-by", "", "group results by field ("+groupByDeadline+")")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	opts, err := listOptions(cmd)
	if err != nil {
		return err
	}
	groupBy, _ := cmd.Flags().GetString("group-by")
	if groupBy != "" && groupBy != groupByDeadline {
		return clierr.Newf(clierr.InvalidInput, "invalid --group-by field %q; valid: %s", groupBy, groupByDeadline)
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	entries := board.List(sess.Board.Snapshot(), opts)
	if groupBy != "" {
		return outputGroupedList(entries)
	}
	return outputTaskList(entries)
}

func listOptions(cmd *cobra.Command) (board.ListOptions, error) {
	stageArgs, _ := cmd.Flags().GetStringSlice("stage")
	search, _ := cmd.Flags().GetString("search")
	dueBefore, _ := cmd.Flags().GetString("due-before")
	hasDeadline, _ := cmd.Flags().GetBool("has-deadline")
	noDeadline, _ := cmd.Flags().GetBool("no-deadline")
	overdue, _ := cmd.Flags().GetBool("overdue")
	sortBy, _ := cmd.Flags().GetString("sort")
	reverse, _ := cmd.Flags().GetBool("reverse")
	limit, _ := cmd.Flags().GetInt("limit")

	if !slices.Contains(board.SortFields(), sortBy) {
		return board.ListOptions{}, clierr.Newf(clierr.InvalidInput, "invalid --sort field %q; valid: %s",
			sortBy, strings.Join(board.SortFields(), ", "))
	}
	if hasDeadline && noDeadline {
		return board.ListOptions{}, clierr.New(clierr.InvalidInput, "--has-deadline and --no-deadline are mutually exclusive")
	}

	filter := board.FilterOptions{Search: search, Overdue: overdue, Today: today()}
	for _, arg := range stageArgs {
		st, err := stage.ParseArg(arg)
		if err != nil {
			return board.ListOptions{}, err
		}
		filter.Stages = append(filter.Stages, st)
	}
	if dueBefore != "" {
		d, err := date.Parse(dueBefore)
		if err != nil {
			return board.ListOptions{}, task.ValidateDate("due-before", dueBefore, err)
		}
		filter.DueBefore = &d
	}
	switch {
	case hasDeadline:
		v := true
		filter.HasDeadline = &v
	case noDeadline:
		v := false
		filter.HasDeadline = &v
	}

	return board.ListOptions{Filter: filter, SortBy: sortBy, Reverse: reverse, Limit: limit}, nil
}

func outputGroupedList(entries []board.Entry) error {
	grouped := board.GroupByDeadline(entries, today())
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, grouped)
	case output.FormatCompact:
		output.GroupedCompact(os.Stdout, grouped, today())
	default:
		output.GroupedTable(os.Stdout, grouped, today())
	}
	return nil
}

func outputTaskList(entries []board.Entry) error {
	switch outputFormat() {
	case output.FormatJSON:
		if entries == nil {
			entries = []board.Entry{}
		}
		return output.JSON(os.Stdout, entries)
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, entries, today())
	default:
		output.TaskTable(os.Stdout, entries, today())
	}
	return nil
}
