package iostore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/preflighthq/preflight/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConn(t *testing.T) *storeConn {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history_test.db")
	conn, err := openStoreConn(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.close() })
	return conn
}

// TestOpenStoreConnSQLite verifies the tables and catalog are created on open.
func TestOpenStoreConnSQLite(t *testing.T) {
	conn := newTestConn(t)
	require.NotNil(t, conn.db)

	for _, table := range []string{runsTable, profilesTable, alertsTable, catalogTable} {
		var count int64
		row := conn.db.QueryRow("SELECT COUNT(*) FROM " + quoteTableName(table, schema.SQLiteBackend))
		assert.NoError(t, row.Scan(&count), "table %s should exist", table)
	}

	// Catalog is seeded at open.
	var catalogCount int64
	row := conn.db.QueryRow("SELECT COUNT(*) FROM " + quoteTableName(catalogTable, schema.SQLiteBackend))
	require.NoError(t, row.Scan(&catalogCount))
	assert.Equal(t, int64(len(catalogSeed)), catalogCount)
}

// TestOpenStoreConnNone verifies the no-op backend.
func TestOpenStoreConnNone(t *testing.T) {
	conn, err := openStoreConn(schema.NoneBackend, "")
	require.NoError(t, err)
	assert.Nil(t, conn.db)

	profiles := &ProfileStoreImpl{conn: conn}
	assert.NoError(t, profiles.SaveProfile(schema.ProfileRecord{AnalysisID: "a1"}))
	records, err := profiles.LatestProfiles("a1", 2)
	assert.NoError(t, err)
	assert.Nil(t, records)

	runs := &RunStoreImpl{conn: conn}
	runID, err := runs.BeginRun(schema.RunRecord{AnalysisID: "a1"})
	assert.NoError(t, err)
	assert.Zero(t, runID)
	_, _, err = runs.FindAnalysis("a1")
	assert.Error(t, err)
}

// TestProfileStoreRoundTrip verifies snapshots come back newest first with
// profiles intact.
func TestProfileStoreRoundTrip(t *testing.T) {
	conn := newTestConn(t)
	store := &ProfileStoreImpl{conn: conn}

	older := schema.ProfileRecord{
		AnalysisID: "a1",
		UserID:     "u1",
		CapturedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		Stack:      schema.StackProfile{Runtime: "node", Database: "SQLite", Databases: []string{"SQLite"}},
		Behavior:   schema.BehaviorProfile{WriteHeavy: true, ConcurrencyRisk: schema.HighRisk, ExternalDependencyCount: 3},
	}
	newer := schema.ProfileRecord{
		AnalysisID: "a1",
		UserID:     "u1",
		CapturedAt: time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC),
		Stack:      schema.StackProfile{Runtime: "node", Database: "PostgreSQL", Databases: []string{"PostgreSQL"}},
		Behavior:   schema.BehaviorProfile{ConcurrencyRisk: schema.LowRisk, ExternalDependencyCount: 5},
	}
	other := schema.ProfileRecord{
		AnalysisID: "a2",
		UserID:     "u1",
		CapturedAt: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		Behavior:   schema.BehaviorProfile{ConcurrencyRisk: schema.LowRisk},
	}

	require.NoError(t, store.SaveProfile(older))
	require.NoError(t, store.SaveProfile(newer))
	require.NoError(t, store.SaveProfile(other))

	records, err := store.LatestProfiles("a1", 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, newer.Stack, records[0].Stack)
	assert.Equal(t, newer.Behavior, records[0].Behavior)
	assert.Equal(t, older.Stack, records[1].Stack)
	assert.Equal(t, older.Behavior, records[1].Behavior)
	assert.True(t, records[0].CapturedAt.After(records[1].CapturedAt))

	// Limit caps the result.
	records, err = store.LatestProfiles("a1", 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, newer.Behavior, records[0].Behavior)
}

func makeAlert(userID, analysisID string, category schema.AlertCategory, createdAt time.Time) schema.Alert {
	return schema.Alert{
		ID:          uuid.NewString(),
		UserID:      userID,
		AnalysisID:  analysisID,
		Category:    category,
		Severity:    schema.HeadsUpAlert,
		Title:       "test title",
		Body:        "test body",
		WhatChanged: "test change",
		NextStep:    "test step",
		CreatedAt:   createdAt,
	}
}

// TestAlertStoreCooldownWindow verifies the boundary behavior the cooldown
// depends on: a 3-day-old alert cools its category, an 8-day-old one does not.
func TestAlertStoreCooldownWindow(t *testing.T) {
	conn := newTestConn(t)
	store := &AlertStoreImpl{conn: conn}

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	since := now.AddDate(0, 0, -schema.AlertCooldownDays)

	threeDaysOld := makeAlert("u1", "a1", schema.UsageGrowthAlert, now.AddDate(0, 0, -3))
	eightDaysOld := makeAlert("u1", "a1", schema.CostRiskAlert, now.AddDate(0, 0, -8))
	otherUser := makeAlert("u2", "a1", schema.ArchitectureDriftAlert, now.AddDate(0, 0, -1))

	require.NoError(t, store.SaveAlert(threeDaysOld))
	require.NoError(t, store.SaveAlert(eightDaysOld))
	require.NoError(t, store.SaveAlert(otherUser))

	recent, err := store.RecentCategories("u1", "a1", since)
	require.NoError(t, err)
	assert.Contains(t, recent, schema.UsageGrowthAlert)
	assert.NotContains(t, recent, schema.CostRiskAlert)
	assert.NotContains(t, recent, schema.ArchitectureDriftAlert)
}

// TestAlertStoreListAndMarkRead verifies listing order and the read stamp.
func TestAlertStoreListAndMarkRead(t *testing.T) {
	conn := newTestConn(t)
	store := &AlertStoreImpl{conn: conn}

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	first := makeAlert("u1", "a1", schema.UsageGrowthAlert, now.Add(-2*time.Hour))
	second := makeAlert("u1", "a1", schema.CostRiskAlert, now.Add(-1*time.Hour))

	require.NoError(t, store.SaveAlert(first))
	require.NoError(t, store.SaveAlert(second))

	alerts, err := store.ListAlerts("u1", "a1")
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, second.ID, alerts[0].ID) // newest first
	assert.Nil(t, alerts[0].ReadAt)

	require.NoError(t, store.MarkRead(second.ID, now))
	alerts, err = store.ListAlerts("u1", "a1")
	require.NoError(t, err)
	require.NotNil(t, alerts[0].ReadAt)
	assert.Equal(t, now, alerts[0].ReadAt.UTC())

	// Re-marking an already-read alert fails.
	assert.Error(t, store.MarkRead(second.ID, now))
	// Unknown alert IDs fail too.
	assert.Error(t, store.MarkRead("nope", now))

	// Empty analysis ID spans all of the user's analyses.
	other := makeAlert("u1", "a2", schema.StabilityRegressionAlert, now)
	require.NoError(t, store.SaveAlert(other))
	spanning, err := store.ListAlerts("u1", "")
	require.NoError(t, err)
	assert.Len(t, spanning, 3)

	all, err := store.ListAllAlerts()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

// TestRunStoreLifecycle verifies begin, end, lookup and listing.
func TestRunStoreLifecycle(t *testing.T) {
	conn := newTestConn(t)
	store := &RunStoreImpl{conn: conn}

	params := `{"recheck":false,"fetch_workers":10}`
	start := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun(schema.RunRecord{
		AnalysisID:    "a1",
		UserID:        "u1",
		SourceLocator: "https://github.com/acme/shop",
		StartTime:     start,
		ConfigParams:  &params,
	})
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	require.NoError(t, store.EndRun(runID, start.Add(3*time.Second), 42, 65, schema.WatchStatus))

	locator, userID, err := store.FindAnalysis("a1")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/shop", locator)
	assert.Equal(t, "u1", userID)

	_, _, err = store.FindAnalysis("missing")
	assert.Error(t, err)

	runs, err := store.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	rec := runs[0]
	assert.Equal(t, runID, rec.RunID)
	assert.Equal(t, int32(42), rec.FilesScanned)
	assert.Equal(t, int32(65), rec.ConfidenceScore)
	assert.Equal(t, string(schema.WatchStatus), rec.Status)
	require.NotNil(t, rec.EndTime)
	require.NotNil(t, rec.RunDurationMs)
	assert.Equal(t, int32(3000), *rec.RunDurationMs)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, int64(1), status.TotalRuns)
	assert.Equal(t, runID, status.LastRunID)
}

// TestFindAnalysisReturnsNewestRun verifies a re-check follows the most
// recent locator for an analysis.
func TestFindAnalysisReturnsNewestRun(t *testing.T) {
	conn := newTestConn(t)
	store := &RunStoreImpl{conn: conn}

	start := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	_, err := store.BeginRun(schema.RunRecord{AnalysisID: "a1", UserID: "u1", SourceLocator: "https://github.com/acme/old", StartTime: start})
	require.NoError(t, err)
	_, err = store.BeginRun(schema.RunRecord{AnalysisID: "a1", UserID: "u1", SourceLocator: "https://github.com/acme/new", StartTime: start.Add(time.Hour)})
	require.NoError(t, err)

	locator, _, err := store.FindAnalysis("a1")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/new", locator)
}

// TestCatalogSeedIdempotent verifies reseeding does not duplicate rows.
func TestCatalogSeedIdempotent(t *testing.T) {
	conn := newTestConn(t)
	require.NoError(t, seedCatalog(conn))
	require.NoError(t, seedCatalog(conn))

	var count int64
	row := conn.db.QueryRow("SELECT COUNT(*) FROM " + quoteTableName(catalogTable, schema.SQLiteBackend))
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, int64(len(catalogSeed)), count)
}

// TestInitStoresGlobal verifies the global manager wires all three stores and
// the catalog becomes readable.
func TestInitStoresGlobal(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "global_test.db")
	require.NoError(t, InitStores(schema.SQLiteBackend, dbPath))
	defer CloseStores()

	assert.NotNil(t, Manager.GetProfileStore())
	assert.NotNil(t, Manager.GetAlertStore())
	assert.NotNil(t, Manager.GetRunStore())

	entries, err := ListCatalog()
	require.NoError(t, err)
	assert.Len(t, entries, len(catalogSeed))
}
