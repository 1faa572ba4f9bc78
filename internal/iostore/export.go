package iostore

import (
	"errors"
	"fmt"

	"github.com/preflighthq/preflight/internal/parquet"
)

// ExecuteHistoryExport exports run history and alert history to Parquet files.
func ExecuteHistoryExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	runStore := Manager.GetRunStore()
	alertStore := Manager.GetAlertStore()
	if runStore == nil || alertStore == nil {
		return errors.New("history stores are not initialized")
	}

	// Check if there's any data to export
	status, err := runStore.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no analysis history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total analysis runs: %d\n", status.TotalRuns)
	fmt.Printf("Total alerts: %d\n", status.TotalAlerts)

	runs, err := runStore.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve run history: %w", err)
	}
	alerts, err := alertStore.ListAllAlerts()
	if err != nil {
		return fmt.Errorf("failed to retrieve alert history: %w", err)
	}

	// Convert to Parquet format
	parquetRuns := parquet.ConvertRunRecords(runs)
	parquetAlerts := parquet.ConvertAlertRecords(alerts)

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write run history: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	alertsFile := outputFile + ".alerts.parquet"
	if err := parquet.WriteAlertsParquet(parquetAlerts, alertsFile); err != nil {
		return fmt.Errorf("failed to write alert history: %w", err)
	}
	fmt.Printf("Exported %d alerts to: %s\n", len(parquetAlerts), alertsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
