// Package core implements the preflight judgment pipeline: stack and behavior
// detection over a source snapshot, the deterministic confidence/risk/platform
// scoring engine, and the alert orchestration for re-checks.
//
// Everything in this package except the Execute* orchestration helpers is a
// pure function: identical input always yields identical output, and missing
// or malformed optional input degrades to conservative defaults instead of
// failing the analysis.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/preflighthq/preflight/internal/contract"
	"github.com/preflighthq/preflight/schema"
)

// AnalysisResult bundles everything one analysis run produces.
type AnalysisResult struct {
	Stack        schema.StackProfile
	Behavior     schema.BehaviorProfile
	Verdict      schema.LaunchVerdict
	Alerts       []schema.Alert
	FilesScanned int
}

// ExecuteAnalyze runs a first analysis: fetch, detect, judge, persist.
// It never emits alerts; there is no prior profile to diff against.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config, fetcher contract.SourceFetcher, mgr contract.StoreManager) (*AnalysisResult, error) {
	return runAnalysis(ctx, cfg, cfg.AnalysisID, cfg.UserID, cfg.SourceLocator(), fetcher, mgr, false)
}

// ExecuteRecheck re-runs the analysis for an existing analysis ID and diffs
// the new behavior profile against the stored prior one. Alert evaluation is
// best-effort: a failure there is logged and the verdict is still returned.
func ExecuteRecheck(ctx context.Context, cfg *contract.Config, fetcher contract.SourceFetcher, mgr contract.StoreManager) (*AnalysisResult, error) {
	return runAnalysis(ctx, cfg, cfg.AnalysisID, cfg.UserID, cfg.SourceLocator(), fetcher, mgr, true)
}

// runAnalysis is the shared fetch -> detect -> judge -> persist pipeline.
func runAnalysis(ctx context.Context, cfg *contract.Config, analysisID, userID, locator string, fetcher contract.SourceFetcher, mgr contract.StoreManager, recheck bool) (*AnalysisResult, error) {
	// --- 0. Begin run tracking (if configured) ---
	var runID int64
	runStore := mgr.GetRunStore()
	startTime := time.Now()
	if runStore != nil {
		params := fmt.Sprintf(`{"recheck":%t,"fetch_workers":%d}`, recheck, cfg.FetchWorkers)
		var err error
		runID, err = runStore.BeginRun(schema.RunRecord{
			AnalysisID:    analysisID,
			UserID:        userID,
			SourceLocator: locator,
			StartTime:     startTime,
			ConfigParams:  &params,
		})
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
		}
	}

	// --- 1. Fetch the source snapshot ---
	fetchCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()
	bundle, err := fetcher.Fetch(fetchCtx)
	if err != nil {
		if fetchCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: fetch timed out after %s", contract.ErrRateLimited, cfg.FetchTimeout)
		}
		return nil, err
	}

	// --- 2. Detection (pure, order-independent between the two) ---
	stack := DetectStack(bundle)
	behavior := AnalyzePatterns(bundle, stack)

	// --- 3. Judgment ---
	verdict := GenerateLaunchVerdictFor(analysisID, stack, behavior, cfg.CurrentPlatform)

	result := &AnalysisResult{
		Stack:        stack,
		Behavior:     behavior,
		Verdict:      verdict,
		FilesScanned: len(bundle.Files),
	}

	// --- 4. Alert orchestration (re-check only, best-effort) ---
	if recheck {
		result.Alerts = evaluateAlertsBestEffort(analysisID, userID, behavior, mgr)
	}

	// --- 5. Persist the new snapshot ---
	if profiles := mgr.GetProfileStore(); profiles != nil {
		rec := schema.ProfileRecord{
			AnalysisID: analysisID,
			UserID:     userID,
			CapturedAt: time.Now(),
			Stack:      stack,
			Behavior:   behavior,
		}
		if err := profiles.SaveProfile(rec); err != nil {
			contract.LogWarn("Failed to persist profile snapshot", err)
		}
	}

	// --- 6. End run tracking ---
	if runStore != nil && runID > 0 {
		if err := runStore.EndRun(runID, time.Now(), result.FilesScanned, verdict.ConfidenceScore, verdict.Status); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}

	return result, nil
}

// evaluateAlertsBestEffort loads the prior profile and recent alert history,
// runs the orchestrator, and persists any new alerts. All failures degrade to
// "no alerts this round" so the surrounding re-check verdict still lands.
func evaluateAlertsBestEffort(analysisID, userID string, newProfile schema.BehaviorProfile, mgr contract.StoreManager) []schema.Alert {
	profiles := mgr.GetProfileStore()
	alertStore := mgr.GetAlertStore()
	if profiles == nil {
		return nil
	}

	prior, err := profiles.LatestProfiles(analysisID, 1)
	if err != nil {
		contract.LogWarn("Alert evaluation skipped: prior profile unavailable", err)
		return nil
	}
	if len(prior) == 0 {
		// First analysis for this ID; nothing to diff against.
		return nil
	}
	prev := prior[0].Behavior

	now := time.Now()
	recent := map[schema.AlertCategory]struct{}{}
	if alertStore != nil {
		since := now.AddDate(0, 0, -schema.AlertCooldownDays)
		recent, err = alertStore.RecentCategories(userID, analysisID, since)
		if err != nil {
			contract.LogWarn("Alert cooldown lookup failed; suppressing alerts this round", err)
			return nil
		}
	}

	alerts := EvaluateAlerts(analysisID, userID, newProfile, &prev, recent, now)

	if alertStore != nil {
		for _, a := range alerts {
			if err := alertStore.SaveAlert(a); err != nil {
				contract.LogWarn("Failed to persist alert", err)
			}
		}
	}
	return alerts
}
