// Package parquet provides data structures and functions for exporting
// preflight history data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/preflighthq/preflight/schema"
)

// AnalysisRun represents a single preflight analysis run with its verdict
// summary. This struct maps to the preflight_runs database table.
type AnalysisRun struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// AnalysisID is the caller-supplied analysis identifier
	AnalysisID string `parquet:"analysis_id,snappy"`

	// UserID is the caller-supplied user identifier
	UserID string `parquet:"user_id,snappy"`

	// SourceLocator is the analyzed GitHub URL or ZIP path
	SourceLocator string `parquet:"source_locator,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// FilesScanned is the number of files fetched and scanned in this run
	FilesScanned int32 `parquet:"files_scanned,snappy"`

	// ConfidenceScore is the 0-100 launch confidence from the verdict
	ConfidenceScore int32 `parquet:"confidence_score,snappy"`

	// Status is the verdict status (safe, watch or fix)
	Status string `parquet:"status,snappy"`

	// ConfigParams contains the JSON-encoded run parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// AlertRecord represents one raised alert. This struct maps to the
// preflight_alerts database table.
type AlertRecord struct {
	// AlertID is the unique alert identifier
	AlertID string `parquet:"alert_id,snappy"`

	// UserID is the alert's owner
	UserID string `parquet:"user_id,snappy"`

	// AnalysisID references the analysis the alert was raised for
	AnalysisID string `parquet:"analysis_id,snappy"`

	// Category is one of the five fixed alert categories
	Category string `parquet:"category,snappy"`

	// Severity is the alert urgency tier
	Severity string `parquet:"severity,snappy"`

	// Title is the user-facing alert title
	Title string `parquet:"title,snappy"`

	// CreatedAt is when the alert was raised
	CreatedAt time.Time `parquet:"created_at,snappy"`

	// ReadAt is when the alert was marked read (nullable)
	ReadAt *time.Time `parquet:"read_at,optional,snappy"`
}

// ConvertRunRecords converts database run records to their Parquet form.
func ConvertRunRecords(records []schema.RunRecord) []AnalysisRun {
	result := make([]AnalysisRun, 0, len(records))
	for _, rec := range records {
		result = append(result, AnalysisRun{
			RunID:           rec.RunID,
			AnalysisID:      rec.AnalysisID,
			UserID:          rec.UserID,
			SourceLocator:   rec.SourceLocator,
			StartTime:       rec.StartTime,
			EndTime:         rec.EndTime,
			RunDurationMs:   rec.RunDurationMs,
			FilesScanned:    rec.FilesScanned,
			ConfidenceScore: rec.ConfidenceScore,
			Status:          rec.Status,
			ConfigParams:    rec.ConfigParams,
		})
	}
	return result
}

// ConvertAlertRecords converts stored alerts to their Parquet form.
func ConvertAlertRecords(alerts []schema.Alert) []AlertRecord {
	result := make([]AlertRecord, 0, len(alerts))
	for _, alert := range alerts {
		result = append(result, AlertRecord{
			AlertID:    alert.ID,
			UserID:     alert.UserID,
			AnalysisID: alert.AnalysisID,
			Category:   string(alert.Category),
			Severity:   string(alert.Severity),
			Title:      alert.Title,
			CreatedAt:  alert.CreatedAt,
			ReadAt:     alert.ReadAt,
		})
	}
	return result
}

// WriteRunsParquet writes a slice of AnalysisRun structs to a Parquet file.
func WriteRunsParquet(data []AnalysisRun, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the AnalysisRun struct tags
	writer := parquet.NewGenericWriter[AnalysisRun](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// MockFetchAnalysisRuns generates sample AnalysisRun data for demonstration.
func MockFetchAnalysisRuns() []AnalysisRun {
	now := time.Now()
	startTime1 := now.Add(-2 * time.Hour)
	endTime1 := startTime1.Add(12 * time.Second)
	durationMs1 := int32(endTime1.Sub(startTime1).Milliseconds())
	configParams1 := `{"fetch_workers":8,"max_file_kb":256}`

	startTime2 := now.Add(-24 * time.Hour)
	endTime2 := startTime2.Add(45 * time.Second)
	durationMs2 := int32(endTime2.Sub(startTime2).Milliseconds())
	configParams2 := `{"fetch_workers":4,"max_file_kb":128}`

	startTime3 := now.Add(-10 * time.Minute)
	// Note: endTime3, durationMs3, configParams3 are nil to demonstrate nullable fields

	return []AnalysisRun{
		{
			RunID:           1,
			AnalysisID:      "shop-prod",
			UserID:          "alice",
			SourceLocator:   "https://github.com/acme/shop",
			StartTime:       startTime1,
			EndTime:         &endTime1,
			RunDurationMs:   &durationMs1,
			FilesScanned:    150,
			ConfidenceScore: 85,
			Status:          "safe",
			ConfigParams:    &configParams1,
		},
		{
			RunID:           2,
			AnalysisID:      "blog-mvp",
			UserID:          "bob",
			SourceLocator:   "zip:blog.zip",
			StartTime:       startTime2,
			EndTime:         &endTime2,
			RunDurationMs:   &durationMs2,
			FilesScanned:    75,
			ConfidenceScore: 60,
			Status:          "watch",
			ConfigParams:    &configParams2,
		},
		{
			RunID:         3,
			AnalysisID:    "shop-prod",
			UserID:        "alice",
			SourceLocator: "https://github.com/acme/shop",
			StartTime:     startTime3,
			EndTime:       nil, // Still running - nullable field
			RunDurationMs: nil, // Not yet calculated - nullable field
			ConfigParams:  nil, // No config stored - nullable field
		},
	}
}

// MockFetchAlerts generates sample AlertRecord data for demonstration.
func MockFetchAlerts() []AlertRecord {
	now := time.Now()
	readAt := now.Add(-30 * time.Minute)

	return []AlertRecord{
		{
			AlertID:    "al-1",
			UserID:     "alice",
			AnalysisID: "shop-prod",
			Category:   "usage_growth",
			Severity:   "heads_up",
			Title:      "Your app is doing more at once than before",
			CreatedAt:  now.Add(-2 * time.Hour),
			ReadAt:     &readAt,
		},
		{
			AlertID:    "al-2",
			UserID:     "alice",
			AnalysisID: "shop-prod",
			Category:   "architecture_drift",
			Severity:   "informational",
			Title:      "Your app now keeps state in memory",
			CreatedAt:  now.Add(-1 * time.Hour),
			ReadAt:     nil, // Unread - nullable field
		},
	}
}

// WriteAlertsParquet writes a slice of AlertRecord structs to a Parquet file.
func WriteAlertsParquet(data []AlertRecord, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[AlertRecord](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}
