package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskboard/internal/notify"
	"github.com/twiced-technology-gmbh/taskboard/internal/output"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Alert about tasks due today or tomorrow",
	Long: `Scans the board once and raises an alert for every task due today (urgent)
or tomorrow (warning): a colored line, the terminal bell and, with --desktop,
a desktop notification. Suitable for a login script or cron job.`,
	Args: cobra.NoArgs,
	RunE: runNotify,
}

func init() {
	notifyCmd.Flags().Bool("desktop", false, "also send desktop notifications (overrides config)")
	notifyCmd.Flags().Bool("no-bell", false, "do not ring the terminal bell")
	rootCmd.AddCommand(notifyCmd)
}

func runNotify(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	events := sess.Alerts
	if events == nil {
		events = []notify.Event{}
	}
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, events)
	}
	if len(events) == 0 {
		output.Messagef(os.Stderr, "No tasks due today or tomorrow.")
		return nil
	}

	cfg := sess.Config
	desktop, _ := cmd.Flags().GetBool("desktop")
	noBell, _ := cmd.Flags().GetBool("no-bell")
	alerter := notify.NewTerminal(os.Stdout, notify.TerminalOptions{
		Desktop: desktop || cfg.Notifications.Desktop,
		Sound:   cfg.BellEnabled() && !noBell,
		NoColor: flagNoColor,
	})
	return notify.Dispatch(events, alerter)
}
