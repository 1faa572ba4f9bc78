// Package contract provides interfaces and shared utilities for the Preflight CLI's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/preflighthq/preflight/schema"
)

// SourceFetcher retrieves a bounded snapshot of an application source tree.
// The core depends only on this contract, not on any transport detail.
type SourceFetcher interface {
	Fetch(ctx context.Context) (*schema.SourceBundle, error)
}

// ProfileStore persists detected profile snapshots per analysis.
// This allows the persistence layer to be mocked for testing.
type ProfileStore interface {
	SaveProfile(rec schema.ProfileRecord) error
	// LatestProfiles returns up to limit records for the analysis, newest
	// first. A re-check loads the prior snapshot at index 0 before saving
	// the new one and diffs the fresh profile against it.
	LatestProfiles(analysisID string, limit int) ([]schema.ProfileRecord, error)
	Close() error
}

// AlertStore persists alert history and supports the cooldown lookup.
type AlertStore interface {
	SaveAlert(alert schema.Alert) error
	// RecentCategories returns the set of categories already notified for
	// this (user, analysis) since the given time.
	RecentCategories(userID, analysisID string, since time.Time) (map[schema.AlertCategory]struct{}, error)
	// ListAlerts returns a user's alerts newest first; an empty analysisID
	// spans all of the user's analyses.
	ListAlerts(userID, analysisID string) ([]schema.Alert, error)
	ListAllAlerts() ([]schema.Alert, error)
	MarkRead(alertID string, at time.Time) error
	Close() error
}

// RunStore persists analysis run history and verdict summaries.
type RunStore interface {
	BeginRun(rec schema.RunRecord) (int64, error)
	EndRun(runID int64, endTime time.Time, filesScanned, score int, status schema.VerdictStatus) error
	// FindAnalysis returns the stored source locator and user for an
	// analysis, so a re-check can re-fetch the same source.
	FindAnalysis(analysisID string) (locator, userID string, err error)
	ListRuns() ([]schema.RunRecord, error)
	GetStatus() (schema.HistoryStatus, error)
	Close() error
}

// StoreManager bundles the persistence stores behind one handle.
type StoreManager interface {
	GetProfileStore() ProfileStore
	GetAlertStore() AlertStore
	GetRunStore() RunStore
}
