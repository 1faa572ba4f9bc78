package schema

import "time"

// ProfileRecord is one stored snapshot of the detected profiles for an
// analysis. The newest record is "current"; the one before it is what a
// re-check diffs against.
type ProfileRecord struct {
	AnalysisID string
	UserID     string
	CapturedAt time.Time
	Stack      StackProfile
	Behavior   BehaviorProfile
}

// RunRecord is one row of the preflight_runs history table.
type RunRecord struct {
	RunID           int64
	AnalysisID      string
	UserID          string
	SourceLocator   string // GitHub URL or "zip:<filename>"
	StartTime       time.Time
	EndTime         *time.Time
	RunDurationMs   *int32
	FilesScanned    int32
	ConfidenceScore int32
	Status          string
	ConfigParams    *string
}

// HistoryStatus summarizes the run history store for the status command.
type HistoryStatus struct {
	Backend       string
	Connected     bool
	TotalRuns     int64
	LastRunID     int64
	LastRunTime   time.Time
	OldestRunTime time.Time
	TotalAlerts   int64
}

// CatalogEntry is one read-only seed template row. The engine embeds its own
// rule-to-template mapping and does not depend on the catalog to function;
// the catalog exists for future localization and content editing.
type CatalogEntry struct {
	Kind  string // "risk", "platform" or "next_step"
	Key   string // Rule ID, platform ID or next-step mode
	Title string
	Body  string
}
