package cmd

import (
	"fmt"

	"github.com/preflighthq/preflight/internal/contract"
	"github.com/preflighthq/preflight/internal/iostore"
	"github.com/preflighthq/preflight/internal/outwriter"
	"github.com/preflighthq/preflight/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historySetupWrapper runs shared setup without treating positional args as a
// source locator.
func historySetupWrapper(cmd *cobra.Command, _ []string) error {
	return sharedSetup(rootCtx, cmd, nil)
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("history-backend"))
	connStr := viper.GetString("history-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// historyCmd groups analysis history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage analysis run history and exports",
	Long: `Manage the stored record of analysis runs, profile snapshots and alerts.

Every analyze and recheck run is recorded: who ran it, the source locator,
the verdict, and the detected profiles. Re-checks depend on this history to
diff behavior and raise alerts.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show history store statistics
  export  - Export runs and alerts to Parquet for analytics
  clear   - Remove all stored history
  migrate - Run database schema migrations
  catalog - Show the seeded content catalog

Examples:
  # Check history status
  preflight history status

  # Export for analysis in pandas/DuckDB
  preflight history export --output-file preflight-data`,
}

// historyStatusCmd shows history store status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show detailed information about the analysis history store.

Displays:
- Backend type and connection status
- Total number of recorded runs
- Last and oldest run timestamps
- Total alerts recorded

Examples:
  # Check history status
  preflight history status`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iostore.Manager.GetRunStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iostore.PrintHistoryStatus(status)
	},
}

// historyExportCmd exports history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run and alert history to Parquet for analytics",
	Long: `Export all stored history to Parquet format for use with analytics tools.

Exports two datasets:
- Analysis runs - one row per analyze/recheck execution with its verdict
- Alerts - one row per alert raised by re-checks

Requires: --output-file parameter (used as the file prefix)

Examples:
  # Export all data
  preflight history export --output-file preflight-data

  # Query with DuckDB afterwards
  duckdb -c "SELECT * FROM read_parquet('preflight-data.runs.parquet') LIMIT 10"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ExecuteHistoryExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyClearCmd clears the history store.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored analysis history",
	Long: `Delete all stored runs, profile snapshots and alerts.

WARNING: This action cannot be undone. Consider exporting data first.
Clearing history also resets re-check diffing; the next re-check of any
analysis behaves like a first analysis.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the history tables

Examples:
  # Export before clearing
  preflight history export --output-file backup
  preflight history clear`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ClearHistory(cfg.HistoryBackend, contract.GetHistoryDBFilePath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the history store.

By default, migrates to the latest version. Use --target-version for
specific versions.

Examples:
  # Migrate to latest version (default)
  preflight history migrate

  # Migrate to specific version
  preflight history migrate --target-version 1

  # Rollback to initial state
  preflight history migrate --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iostore.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

// historyCatalogCmd shows the seeded content catalog.
var historyCatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the seeded risk/platform/next-step content catalog",
	Long: `List the read-only content templates seeded into the history store.

The catalog mirrors the copy the engine uses for risks, platforms and next
steps. The engine does not read it at judgment time; it exists so the copy
can be reviewed and exported alongside the data.

Examples:
  # Show the catalog
  preflight history catalog

  # Export it as CSV
  preflight history catalog --output csv --output-file catalog.csv`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		entries, err := iostore.ListCatalog()
		if err != nil {
			contract.LogFatal("Failed to list catalog", err)
		}

		ow := outwriter.NewOutWriter()
		if err := ow.WriteCatalog(entries, cfg); err != nil {
			contract.LogFatal("Cannot write catalog", err)
		}
	},
}
