package cmd

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskboard/internal/calendar"
	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
	"github.com/twiced-technology-gmbh/taskboard/internal/output"
	"github.com/twiced-technology-gmbh/taskboard/internal/task"
)

var calendarCmd = &cobra.Command{
	Use:     "calendar [YYYY-MM]",
	Aliases: []string{"cal"},
	Short:   "Show a month with deadlines and events",
	Long: `Prints a month grid. Days with a task deadline are marked "!" and days with
other events "*"; the entries are listed below the grid. Defaults to the
current month.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCalendar,
}

var calendarAddCmd = &cobra.Command{
	Use:   "add DATE TITLE",
	Short: "Add an event to the calendar",
	Args:  cobra.ExactArgs(2), //nolint:mnd // date and title
	RunE:  runCalendarAdd,
}

func init() {
	calendarAddCmd.Flags().String("type", string(calendar.KindEvent), "event type (deadline, event)")
	calendarCmd.AddCommand(calendarAddCmd)
	rootCmd.AddCommand(calendarCmd)
}

func runCalendar(cmd *cobra.Command, args []string) error {
	now := today()
	year, month := now.Year(), now.Month()
	if len(args) == 1 {
		var err error
		year, month, err = parseMonth(args[0])
		if err != nil {
			return err
		}
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	events := append(calendar.Project(sess.Board.Flatten()), sess.Calendar.Events(cmd.Context())...)
	m := calendar.BuildMonth(year, month, events)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, m)
	}
	output.CalendarTable(os.Stdout, m, now)
	return nil
}

func runCalendarAdd(cmd *cobra.Command, args []string) error {
	day, err := date.Parse(args[0])
	if err != nil {
		return task.ValidateDate("event", args[0], err)
	}
	kind, _ := cmd.Flags().GetString("type")
	in, err := calendar.ValidateEvent(args[1], kind)
	if err != nil {
		return err
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	ev, err := sess.Calendar.Add(cmd.Context(), day, in)
	if err != nil {
		return clierr.Wrap(clierr.PersistenceWriteFailure, err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, ev)
	}
	output.Messagef(os.Stdout, "Added %s %q on %s", ev.Kind, ev.Title, ev.Date)
	return nil
}

// parseMonth reads YYYY-MM.
func parseMonth(s string) (int, time.Month, error) {
	parts := strings.Split(s, "-")
	bad := clierr.Newf(clierr.InvalidDate, "invalid month %q: expected YYYY-MM", s).
		WithDetails(map[string]any{"input": s})
	if len(parts) != 2 { //nolint:mnd // year and month
		return 0, 0, bad
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, bad
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return 0, 0, bad
	}
	return y, time.Month(m), nil
}
