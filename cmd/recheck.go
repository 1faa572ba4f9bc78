package cmd

import (
	"errors"
	"os"
	"time"

	"github.com/preflighthq/preflight/core"
	"github.com/preflighthq/preflight/internal/contract"
	"github.com/preflighthq/preflight/internal/fetch"
	"github.com/preflighthq/preflight/internal/outwriter"
	"github.com/preflighthq/preflight/schema"
	"github.com/spf13/cobra"
)

var errNoSource = errors.New("a GitHub URL or --zip-file is required")

// recheckCmd re-runs a stored analysis and reports drift.
var recheckCmd = &cobra.Command{
	Use:   "recheck <analysis-id>",
	Short: "Re-check a previously analyzed source and report what changed.",
	Long: `Re-fetch the source recorded for an earlier analysis, recompute the launch
verdict, and diff the new behavior profile against the stored prior one.
Meaningful changes raise alerts, at most one per category per week.

Alert evaluation is best-effort: if history lookups fail the verdict still
prints, just without alerts.

Examples:
  # Re-check an analysis by ID
  preflight recheck shop

  # Re-check with JSON output for automation
  preflight recheck shop --output json`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		// The positional arg is an analysis ID, not a source locator.
		return sharedSetup(rootCtx, cmd, nil)
	},
	Run: func(_ *cobra.Command, args []string) {
		cfg.AnalysisID = args[0]

		runStore := storeManager.GetRunStore()
		if runStore == nil {
			contract.LogFatal("Cannot run re-check", errors.New("history persistence is disabled; re-check needs a stored analysis"))
		}
		locator, userID, err := runStore.FindAnalysis(cfg.AnalysisID)
		if err != nil {
			contract.LogFatal("Cannot run re-check", err)
		}
		cfg.ApplyLocator(locator)
		cfg.UserID = userID

		fetcher, err := fetch.NewFetcher(cfg)
		if err != nil {
			contract.LogFatal("Cannot run re-check", err)
		}

		start := time.Now()
		result, err := core.ExecuteRecheck(rootCtx, cfg, fetcher, storeManager)
		if err != nil {
			contract.LogFatal("Cannot run re-check", err)
		}

		ow := outwriter.NewOutWriter()
		if err := ow.WriteVerdict(result.Verdict, result.Stack, result.FilesScanned, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write verdict", err)
		}
		if cfg.Output == schema.TextOut && cfg.OutputFile == "" {
			if err := outwriter.PrintNewAlerts(os.Stdout, result.Alerts); err != nil {
				contract.LogFatal("Cannot write alerts", err)
			}
		}
	},
}
