package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/preflighthq/preflight/internal/contract"
	"github.com/preflighthq/preflight/internal/outwriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// alertsSetupWrapper runs shared setup without treating positional args as a
// source locator.
func alertsSetupWrapper(cmd *cobra.Command, _ []string) error {
	return sharedSetup(rootCtx, cmd, nil)
}

// alertsCmd groups alert history operations.
var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Inspect and acknowledge drift alerts",
	Long: `Work with the alerts raised by re-checks.

Alerts fire when a re-check detects meaningful drift: rising concurrency
risk, new outside services, new in-memory state, new background jobs, or a
workload shape the current platform handles poorly. Each category fires at
most once per week per analysis.

Subcommands:
  list - Show alert history for a user
  read - Mark one alert as read

Examples:
  # List all alerts for the configured user
  preflight alerts list

  # List alerts for one analysis
  preflight alerts list --analysis shop

  # Acknowledge an alert
  preflight alerts read 6a1f...`,
}

// alertsListCmd lists alert history.
var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show alert history, newest first",
	Long: `List alerts for the configured user (--user), newest first.

Use --analysis to narrow the listing to a single analysis ID. Output honors
the global --output flag, so alert history can be exported as JSON or CSV.

Examples:
  # All alerts for the default user
  preflight alerts list

  # One analysis, as JSON
  preflight alerts list --analysis shop --output json`,
	PreRunE: alertsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		alertStore := storeManager.GetAlertStore()
		if alertStore == nil {
			contract.LogFatal("Cannot list alerts", errors.New("history persistence is disabled"))
		}

		alerts, err := alertStore.ListAlerts(cfg.UserID, viper.GetString("analysis"))
		if err != nil {
			contract.LogFatal("Cannot list alerts", err)
		}

		ow := outwriter.NewOutWriter()
		if err := ow.WriteAlerts(alerts, cfg); err != nil {
			contract.LogFatal("Cannot write alerts", err)
		}
	},
}

// alertsReadCmd marks one alert as read.
var alertsReadCmd = &cobra.Command{
	Use:   "read <alert-id>",
	Short: "Mark an alert as read",
	Long: `Stamp an alert with a read timestamp. The timestamp is set once; reading
an already-read alert is an error.

Examples:
  # Acknowledge an alert by ID
  preflight alerts read 6a1f...`,
	Args:    cobra.ExactArgs(1),
	PreRunE: alertsSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		alertStore := storeManager.GetAlertStore()
		if alertStore == nil {
			contract.LogFatal("Cannot mark alert read", errors.New("history persistence is disabled"))
		}

		if err := alertStore.MarkRead(args[0], time.Now()); err != nil {
			contract.LogFatal("Cannot mark alert read", err)
		}
		fmt.Printf("Marked alert %s as read.\n", args[0])
	},
}
