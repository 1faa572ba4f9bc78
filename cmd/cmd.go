// Package cmd defines the command-line interface for preflight.
package cmd

import (
	"github.com/preflighthq/preflight/internal/contract"
	"github.com/preflighthq/preflight/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(recheckCmd)
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the alerts subcommands to the parent alerts command
	alertsCmd.AddCommand(alertsListCmd)
	alertsCmd.AddCommand(alertsReadCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyMigrateCmd)
	historyCmd.AddCommand(historyCatalogCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("zip-file", "", "Analyze a local ZIP archive instead of a GitHub URL")
	rootCmd.PersistentFlags().String("analysis-id", "", "Analysis identifier to record history under (generated when omitted)")
	rootCmd.PersistentFlags().StringP("user", "u", "local", "User identifier for alert scoping")
	rootCmd.PersistentFlags().String("current-platform", "", "Where the app is hosted today, if known (render, vercel, railway, fly)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or json or csv")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Int("fetch-workers", contract.DefaultFetchWorkers, "Number of concurrent blob downloads")
	rootCmd.PersistentFlags().String("fetch-timeout", contract.DefaultFetchTimeout.String(), "Whole-fetch timeout (e.g. 60s, 2m)")
	rootCmd.PersistentFlags().Int("max-file-kb", contract.DefaultMaxFileKB, "Skip individual files larger than this many KB")
	rootCmd.PersistentFlags().String("github-token", "", "GitHub API token for private repos and higher rate limits")
	rootCmd.PersistentFlags().String("history-backend", string(schema.SQLiteBackend), "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql backends")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of alertsListCmd to Viper
	alertsListCmd.Flags().String("analysis", "", "Narrow the listing to one analysis ID")
	if err := viper.BindPFlags(alertsListCmd.Flags()); err != nil {
		contract.LogFatal("Error binding alerts list flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
