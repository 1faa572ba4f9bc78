package cmd

import (
	"time"

	"github.com/google/uuid"
	"github.com/preflighthq/preflight/core"
	"github.com/preflighthq/preflight/internal/contract"
	"github.com/preflighthq/preflight/internal/fetch"
	"github.com/preflighthq/preflight/internal/outwriter"
	"github.com/spf13/cobra"
)

// analyzeCmd runs a first analysis over a source tree.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [github-url]",
	Short: "Analyze a source tree and print a launch readiness verdict.",
	Long: `Fetch an application source tree, detect its stack and behavior, and print
a plain-English launch verdict: a 0-100 confidence score with explanations,
up to three ranked risks, a hosting recommendation, and one next step.

The source is a public GitHub repository URL or a local ZIP archive
(--zip-file). Results are recorded in the history store so a later
're-check' can detect drift and raise alerts.

Examples:
  # Analyze a GitHub repository
  preflight analyze https://github.com/acme/shop

  # Analyze a local ZIP export
  preflight analyze --zip-file app.zip --analysis-id shop

  # Tell preflight where the app runs today
  preflight analyze https://github.com/acme/shop --current-platform vercel

  # Machine-readable output
  preflight analyze https://github.com/acme/shop --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.SourceURL == "" && cfg.ZipPath == "" {
			contract.LogFatal("Cannot run analysis", errNoSource)
		}
		if cfg.AnalysisID == "" {
			cfg.AnalysisID = uuid.NewString()
		}

		fetcher, err := fetch.NewFetcher(cfg)
		if err != nil {
			contract.LogFatal("Cannot run analysis", err)
		}

		start := time.Now()
		result, err := core.ExecuteAnalyze(rootCtx, cfg, fetcher, storeManager)
		if err != nil {
			contract.LogFatal("Cannot run analysis", err)
		}

		ow := outwriter.NewOutWriter()
		if err := ow.WriteVerdict(result.Verdict, result.Stack, result.FilesScanned, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write verdict", err)
		}
	},
}
