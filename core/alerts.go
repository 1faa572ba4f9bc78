package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/preflighthq/preflight/schema"
)

// alertRule is one trigger as a plain data record, mapped 1:1 to a category.
// fires receives (previous, new); text fields are fixed per rule.
type alertRule struct {
	category    schema.AlertCategory
	severity    schema.AlertSeverity
	fires       func(prev, curr schema.BehaviorProfile) bool
	title       string
	body        string
	whatChanged string
	nextStep    string
}

var alertRules = []alertRule{
	{
		category: schema.UsageGrowthAlert,
		severity: schema.HeadsUpAlert,
		fires: func(prev, curr schema.BehaviorProfile) bool {
			return prev.ConcurrencyRisk != schema.HighRisk && curr.ConcurrencyRisk == schema.HighRisk
		},
		title:       "Your app is getting harder to share",
		body:        "Since the last check, your app picked up patterns that get uncomfortable when many people use it at the same time.",
		whatChanged: "Handling several users at once went from comfortable to tight.",
		nextStep:    "Nothing urgent. If you are planning a launch push, run a re-check first.",
	},
	{
		category: schema.CostRiskAlert,
		severity: schema.InformationalAlert,
		fires: func(prev, curr schema.BehaviorProfile) bool {
			return curr.ExternalDependencyCount > prev.ExternalDependencyCount+2
		},
		title:       "You added a bunch of outside services",
		body:        "Your app now leans on noticeably more outside packages and services than last time. More moving parts means more places a bill or a breakage can come from.",
		whatChanged: "The number of outside dependencies jumped since the last check.",
		nextStep:    "Skim your dependency list and drop anything you are not actually using.",
	},
	{
		category: schema.ArchitectureDriftAlert,
		severity: schema.HeadsUpAlert,
		fires: func(prev, curr schema.BehaviorProfile) bool {
			return !prev.IsStateful && curr.IsStateful
		},
		title:       "Your app started remembering things in memory",
		body:        "Your app now keeps information between requests inside the running process. That works fine on one machine and quietly breaks on two.",
		whatChanged: "The app went from stateless to holding in-memory state.",
		nextStep:    "When convenient, move that state into your database or a hosted cache.",
	},
	{
		category: schema.PlatformSuitabilityAlert,
		severity: schema.HeadsUpAlert,
		fires: func(_, curr schema.BehaviorProfile) bool {
			// Current-state conjunction, deliberately not a diff.
			return curr.HasBackgroundJobs && curr.WriteHeavy
		},
		title:       "Your app may be outgrowing simple hosting",
		body:        "Your app now both runs scheduled work and writes a lot of data. That combination favors hosting with a managed database and separate workers.",
		whatChanged: "Background work and heavy writing are now happening together.",
		nextStep:    "Re-run the platform recommendation to see if a different host fits better now.",
	},
	{
		category: schema.StabilityRegressionAlert,
		severity: schema.InformationalAlert,
		fires: func(prev, curr schema.BehaviorProfile) bool {
			return !prev.HasBackgroundJobs && curr.HasBackgroundJobs
		},
		title:       "Your app started doing scheduled work",
		body:        "Background jobs showed up since the last check. They are useful, and they are also the most common source of mystery slowness in young apps.",
		whatChanged: "The app went from no background jobs to running them.",
		nextStep:    "Note when the jobs run, and check whether the app lags at those times.",
	},
}

// EvaluateAlerts diffs the new behavior profile against the previous one and
// returns the alerts that should be raised this round. Pure: the cooldown
// state arrives as an explicit set of recently notified categories, never as
// ambient state. A nil previous profile (first analysis) yields no alerts.
func EvaluateAlerts(analysisID, userID string, curr schema.BehaviorProfile, prev *schema.BehaviorProfile, recentCategories map[schema.AlertCategory]struct{}, now time.Time) []schema.Alert {
	if prev == nil {
		return []schema.Alert{}
	}

	alerts := make([]schema.Alert, 0, len(alertRules))
	for _, rule := range alertRules {
		if _, cooling := recentCategories[rule.category]; cooling {
			continue
		}
		if !rule.fires(*prev, curr) {
			continue
		}
		alerts = append(alerts, schema.Alert{
			ID:          uuid.NewString(),
			UserID:      userID,
			AnalysisID:  analysisID,
			Category:    rule.category,
			Severity:    rule.severity,
			Title:       rule.title,
			Body:        rule.body,
			WhatChanged: rule.whatChanged,
			NextStep:    rule.nextStep,
			CreatedAt:   now,
		})
	}
	return alerts
}
