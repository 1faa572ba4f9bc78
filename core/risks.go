package core

import (
	"sort"

	"github.com/preflighthq/preflight/schema"
)

// serverlessPlatforms are pay-per-invocation hosts where idle-cheap pricing
// can invert under sustained load.
var serverlessPlatforms = map[string]struct{}{
	"Vercel":             {},
	"Netlify":            {},
	"AWS Lambda":         {},
	"Cloudflare Workers": {},
}

// riskRule is one candidate risk as a plain data record. DisplayOrder is the
// rule number and doubles as the tie-break key within equal severity.
type riskRule struct {
	displayOrder int
	fires        func(stack schema.StackProfile, behavior schema.BehaviorProfile) bool
	severity     func(stack schema.StackProfile, behavior schema.BehaviorProfile) schema.Severity
	build        func(severity schema.Severity, order int) schema.RiskScenario
}

var riskRules = []riskRule{
	{
		displayOrder: 1,
		fires: func(stack schema.StackProfile, behavior schema.BehaviorProfile) bool {
			return behavior.WriteHeavy && !IsManagedDatabase(stack.Database)
		},
		severity: func(_ schema.StackProfile, behavior schema.BehaviorProfile) schema.Severity {
			if behavior.ConcurrencyRisk == schema.HighRisk {
				return schema.HighSeverity
			}
			return schema.MediumSeverity
		},
		build: func(severity schema.Severity, order int) schema.RiskScenario {
			return schema.RiskScenario{
				ID:               "db_contention",
				Title:            "Database contention",
				PlainExplanation: "Your app writes to its database a lot, and the database it uses handles one write at a time.",
				TriggerCondition: "write_heavy && !managed_database",
				UserSymptom:      "Saving starts to feel slow or fails when several people use the app at once.",
				Severity:         severity,
				DisplayOrder:     order,
			}
		},
	},
	{
		displayOrder: 2,
		fires: func(stack schema.StackProfile, _ schema.BehaviorProfile) bool {
			_, ok := serverlessPlatforms[stack.DeployPlatform]
			return ok
		},
		severity: func(_ schema.StackProfile, _ schema.BehaviorProfile) schema.Severity {
			return schema.MediumSeverity
		},
		build: func(severity schema.Severity, order int) schema.RiskScenario {
			return schema.RiskScenario{
				ID:               "cost_explosion",
				Title:            "Surprise hosting bill",
				PlainExplanation: "Your hosting charges per use, which is cheap while quiet but can jump sharply if traffic spikes.",
				TriggerCondition: "deploy_platform in serverless set",
				UserSymptom:      "A bill at the end of the month that is much bigger than expected.",
				Severity:         severity,
				DisplayOrder:     order,
			}
		},
	},
	{
		displayOrder: 3,
		fires: func(_ schema.StackProfile, behavior schema.BehaviorProfile) bool {
			return behavior.ExternalDependencyCount > 2
		},
		severity: func(_ schema.StackProfile, behavior schema.BehaviorProfile) schema.Severity {
			if behavior.ExternalDependencyCount > 5 {
				return schema.HighSeverity
			}
			return schema.MediumSeverity
		},
		build: func(severity schema.Severity, order int) schema.RiskScenario {
			return schema.RiskScenario{
				ID:               "dependency_risk",
				Title:            "Outside services can break things",
				PlainExplanation: "Your app leans on several outside packages and services. Any one of them having a bad day can affect you.",
				TriggerCondition: "external_dependency_count > 2",
				UserSymptom:      "A feature stops working even though you changed nothing.",
				Severity:         severity,
				DisplayOrder:     order,
			}
		},
	},
	{
		displayOrder: 4,
		fires: func(_ schema.StackProfile, behavior schema.BehaviorProfile) bool {
			return behavior.HasBackgroundJobs && (behavior.WriteHeavy || behavior.IsStateful)
		},
		severity: func(_ schema.StackProfile, _ schema.BehaviorProfile) schema.Severity {
			return schema.MediumSeverity
		},
		build: func(severity schema.Severity, order int) schema.RiskScenario {
			return schema.RiskScenario{
				ID:               "jobs_block_requests",
				Title:            "Background work slows the app",
				PlainExplanation: "Your app runs scheduled work in the same process that serves visitors, so heavy jobs can make pages lag.",
				TriggerCondition: "has_background_jobs && (write_heavy || is_stateful)",
				UserSymptom:      "The app feels sluggish at regular times of day.",
				Severity:         severity,
				DisplayOrder:     order,
			}
		},
	},
	{
		displayOrder: 5,
		fires: func(_ schema.StackProfile, behavior schema.BehaviorProfile) bool {
			return behavior.IsStateful || behavior.ConcurrencyRisk == schema.HighRisk
		},
		severity: func(_ schema.StackProfile, behavior schema.BehaviorProfile) schema.Severity {
			if behavior.IsStateful {
				return schema.HighSeverity
			}
			return schema.MediumSeverity
		},
		build: func(severity schema.Severity, order int) schema.RiskScenario {
			return schema.RiskScenario{
				ID:               "scaling_risk",
				Title:            "Hard to add a second server",
				PlainExplanation: "Your app keeps information in memory between requests, which stops working the moment it runs on more than one machine.",
				TriggerCondition: "is_stateful || concurrency_risk == high",
				UserSymptom:      "Users get logged out or lose data when traffic grows and you scale up.",
				Severity:         severity,
				DisplayOrder:     order,
			}
		},
	},
}

// DetectRisks evaluates every rule, ranks the firing candidates by severity
// descending then display order ascending, and returns at most
// schema.MaxRisksReturned of them. An empty result is the positive
// "no major risks" state, not an error.
func DetectRisks(stack schema.StackProfile, behavior schema.BehaviorProfile) []schema.RiskScenario {
	candidates := make([]schema.RiskScenario, 0, len(riskRules))
	for _, rule := range riskRules {
		if !rule.fires(stack, behavior) {
			continue
		}
		candidates = append(candidates, rule.build(rule.severity(stack, behavior), rule.displayOrder))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ri, rj := schema.SeverityRank(candidates[i].Severity), schema.SeverityRank(candidates[j].Severity)
		if ri != rj {
			return ri > rj
		}
		return candidates[i].DisplayOrder < candidates[j].DisplayOrder
	})

	if len(candidates) > schema.MaxRisksReturned {
		candidates = candidates[:schema.MaxRisksReturned]
	}
	return candidates
}
