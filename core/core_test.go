package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/preflighthq/preflight/internal/contract"
	"github.com/preflighthq/preflight/internal/iostore"
	"github.com/preflighthq/preflight/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() *contract.Config {
	return &contract.Config{
		SourceURL:    "https://github.com/acme/shop",
		AnalysisID:   "a1",
		UserID:       "u1",
		FetchWorkers: 2,
		FetchTimeout: 5 * time.Second,
		MaxFileBytes: 1024,
	}
}

// noStoreManager returns a manager with persistence fully disabled.
func noStoreManager() *iostore.MockStoreManager {
	mgr := &iostore.MockStoreManager{}
	mgr.On("GetRunStore").Return(nil)
	mgr.On("GetProfileStore").Return(nil)
	mgr.On("GetAlertStore").Return(nil)
	return mgr
}

// TestExecuteAnalyzeWithoutPersistence verifies a clean bundle yields a safe
// verdict and that a disabled store backend never blocks the run.
func TestExecuteAnalyzeWithoutPersistence(t *testing.T) {
	fetcher := &contract.MockSourceFetcher{}
	fetcher.On("Fetch", mock.Anything).Return(&schema.SourceBundle{}, nil)

	result, err := ExecuteAnalyze(context.Background(), testConfig(), fetcher, noStoreManager())
	require.NoError(t, err)

	assert.Equal(t, "a1", result.Verdict.AnalysisID)
	assert.Equal(t, 100, result.Verdict.ConfidenceScore)
	assert.Equal(t, schema.SafeStatus, result.Verdict.Status)
	assert.Empty(t, result.Verdict.Risks)
	assert.Zero(t, result.FilesScanned)
	assert.Nil(t, result.Alerts)
	fetcher.AssertExpectations(t)
}

// TestExecuteAnalyzePersistsRunAndProfile verifies the run record and profile
// snapshot reach the stores with the verdict's numbers.
func TestExecuteAnalyzePersistsRunAndProfile(t *testing.T) {
	fetcher := &contract.MockSourceFetcher{}
	fetcher.On("Fetch", mock.Anything).Return(&schema.SourceBundle{
		Files: map[string]string{
			"src/app.js": "const app = express()",
			"src/db.js":  "db.find()",
		},
	}, nil)

	runStore := &iostore.MockRunStore{}
	runStore.On("BeginRun", mock.MatchedBy(func(rec schema.RunRecord) bool {
		return rec.AnalysisID == "a1" && rec.UserID == "u1" &&
			rec.SourceLocator == "https://github.com/acme/shop" && rec.ConfigParams != nil
	})).Return(int64(7), nil)
	runStore.On("EndRun", int64(7), mock.Anything, 2, 100, schema.SafeStatus).Return(nil)

	profileStore := &iostore.MockProfileStore{}
	profileStore.On("SaveProfile", mock.MatchedBy(func(rec schema.ProfileRecord) bool {
		return rec.AnalysisID == "a1" && rec.UserID == "u1" && !rec.Behavior.IsStateful
	})).Return(nil)

	mgr := &iostore.MockStoreManager{}
	mgr.On("GetRunStore").Return(runStore)
	mgr.On("GetProfileStore").Return(profileStore)

	result, err := ExecuteAnalyze(context.Background(), testConfig(), fetcher, mgr)
	require.NoError(t, err)
	assert.Equal(t, 2, result.FilesScanned)

	runStore.AssertExpectations(t)
	profileStore.AssertExpectations(t)
}

// TestExecuteAnalyzeSurvivesPersistenceFailures verifies store errors degrade
// to warnings instead of failing the analysis.
func TestExecuteAnalyzeSurvivesPersistenceFailures(t *testing.T) {
	fetcher := &contract.MockSourceFetcher{}
	fetcher.On("Fetch", mock.Anything).Return(&schema.SourceBundle{}, nil)

	runStore := &iostore.MockRunStore{}
	runStore.On("BeginRun", mock.Anything).Return(int64(0), errors.New("db down"))

	profileStore := &iostore.MockProfileStore{}
	profileStore.On("SaveProfile", mock.Anything).Return(errors.New("db down"))

	mgr := &iostore.MockStoreManager{}
	mgr.On("GetRunStore").Return(runStore)
	mgr.On("GetProfileStore").Return(profileStore)

	result, err := ExecuteAnalyze(context.Background(), testConfig(), fetcher, mgr)
	require.NoError(t, err)
	assert.Equal(t, schema.SafeStatus, result.Verdict.Status)
}

// TestExecuteAnalyzeFetchErrorPassthrough verifies fetch failures surface as-is.
func TestExecuteAnalyzeFetchErrorPassthrough(t *testing.T) {
	fetcher := &contract.MockSourceFetcher{}
	fetcher.On("Fetch", mock.Anything).Return(nil, contract.ErrRepoNotFound)

	_, err := ExecuteAnalyze(context.Background(), testConfig(), fetcher, noStoreManager())
	assert.ErrorIs(t, err, contract.ErrRepoNotFound)
}

// TestExecuteAnalyzeFetchTimeout verifies a deadline-expired fetch maps to the
// retryable error contract.
func TestExecuteAnalyzeFetchTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.FetchTimeout = time.Nanosecond

	fetcher := &contract.MockSourceFetcher{}
	fetcher.On("Fetch", mock.Anything).
		Run(func(_ mock.Arguments) { time.Sleep(5 * time.Millisecond) }).
		Return(nil, context.DeadlineExceeded)

	_, err := ExecuteAnalyze(context.Background(), cfg, fetcher, noStoreManager())
	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrRateLimited)
	assert.Contains(t, err.Error(), "fetch timed out")
}

// TestExecuteRecheckEmitsAlerts verifies the re-check diff path: prior profile
// loaded, cooldown consulted, drift alerts created and persisted.
func TestExecuteRecheckEmitsAlerts(t *testing.T) {
	// The new snapshot introduces in-memory state with no pooling, pushing
	// concurrency risk to high.
	fetcher := &contract.MockSourceFetcher{}
	fetcher.On("Fetch", mock.Anything).Return(&schema.SourceBundle{
		Files: map[string]string{
			"src/app.js": "global.cache = {}",
		},
	}, nil)

	prior := schema.ProfileRecord{
		AnalysisID: "a1",
		UserID:     "u1",
		Behavior:   schema.BehaviorProfile{ConcurrencyRisk: schema.LowRisk},
	}
	profileStore := &iostore.MockProfileStore{}
	profileStore.On("LatestProfiles", "a1", 1).Return([]schema.ProfileRecord{prior}, nil)
	profileStore.On("SaveProfile", mock.Anything).Return(nil)

	alertStore := &iostore.MockAlertStore{}
	alertStore.On("RecentCategories", "u1", "a1", mock.Anything).Return(map[schema.AlertCategory]struct{}{}, nil)
	alertStore.On("SaveAlert", mock.Anything).Return(nil).Times(2)

	mgr := &iostore.MockStoreManager{}
	mgr.On("GetRunStore").Return(nil)
	mgr.On("GetProfileStore").Return(profileStore)
	mgr.On("GetAlertStore").Return(alertStore)

	result, err := ExecuteRecheck(context.Background(), testConfig(), fetcher, mgr)
	require.NoError(t, err)

	require.Len(t, result.Alerts, 2)
	categories := []schema.AlertCategory{result.Alerts[0].Category, result.Alerts[1].Category}
	assert.Contains(t, categories, schema.UsageGrowthAlert)
	assert.Contains(t, categories, schema.ArchitectureDriftAlert)

	profileStore.AssertExpectations(t)
	alertStore.AssertExpectations(t)
}

// TestExecuteRecheckFirstRunSuppressesAlerts verifies a re-check with no prior
// profile behaves like a first analysis.
func TestExecuteRecheckFirstRunSuppressesAlerts(t *testing.T) {
	fetcher := &contract.MockSourceFetcher{}
	fetcher.On("Fetch", mock.Anything).Return(&schema.SourceBundle{}, nil)

	profileStore := &iostore.MockProfileStore{}
	profileStore.On("LatestProfiles", "a1", 1).Return([]schema.ProfileRecord{}, nil)
	profileStore.On("SaveProfile", mock.Anything).Return(nil)

	mgr := &iostore.MockStoreManager{}
	mgr.On("GetRunStore").Return(nil)
	mgr.On("GetProfileStore").Return(profileStore)
	mgr.On("GetAlertStore").Return(nil)

	result, err := ExecuteRecheck(context.Background(), testConfig(), fetcher, mgr)
	require.NoError(t, err)
	assert.Empty(t, result.Alerts)
}

// TestExecuteRecheckCooldownLookupFailure verifies alert evaluation is
// suppressed, not fatal, when the cooldown query fails.
func TestExecuteRecheckCooldownLookupFailure(t *testing.T) {
	fetcher := &contract.MockSourceFetcher{}
	fetcher.On("Fetch", mock.Anything).Return(&schema.SourceBundle{
		Files: map[string]string{"src/app.js": "global.cache = {}"},
	}, nil)

	prior := schema.ProfileRecord{Behavior: schema.BehaviorProfile{ConcurrencyRisk: schema.LowRisk}}
	profileStore := &iostore.MockProfileStore{}
	profileStore.On("LatestProfiles", "a1", 1).Return([]schema.ProfileRecord{prior}, nil)
	profileStore.On("SaveProfile", mock.Anything).Return(nil)

	alertStore := &iostore.MockAlertStore{}
	alertStore.On("RecentCategories", "u1", "a1", mock.Anything).Return(nil, errors.New("db down"))

	mgr := &iostore.MockStoreManager{}
	mgr.On("GetRunStore").Return(nil)
	mgr.On("GetProfileStore").Return(profileStore)
	mgr.On("GetAlertStore").Return(alertStore)

	result, err := ExecuteRecheck(context.Background(), testConfig(), fetcher, mgr)
	require.NoError(t, err)
	assert.Empty(t, result.Alerts)
	alertStore.AssertNotCalled(t, "SaveAlert", mock.Anything)
}

// TestExecuteAnalyzeThreadsCurrentPlatform verifies the configured platform
// reaches the recommendation engine.
func TestExecuteAnalyzeThreadsCurrentPlatform(t *testing.T) {
	cfg := testConfig()
	cfg.CurrentPlatform = "render"

	// A managed database on a node runtime keeps Render scoring well.
	fetcher := &contract.MockSourceFetcher{}
	fetcher.On("Fetch", mock.Anything).Return(&schema.SourceBundle{
		Manifest: &schema.Manifest{
			Name:         "shop",
			Dependencies: map[string]string{"pg": "^8.11.0"},
		},
	}, nil)

	result, err := ExecuteAnalyze(context.Background(), cfg, fetcher, noStoreManager())
	require.NoError(t, err)
	assert.Equal(t, schema.RenderPlatform, result.Verdict.Platform.PlatformID)
	assert.Equal(t, "stay where you are", result.Verdict.Platform.Badge)
}
