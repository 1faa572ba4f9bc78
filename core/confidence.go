package core

import (
	"fmt"

	"github.com/preflighthq/preflight/schema"
)

// CalculateLaunchConfidence computes the 0-100 launch confidence score from
// four weighted factors plus non-scoring explanatory lines. Pure and
// deterministic; the factor slice order is fixed so callers and tests can
// address factors by position.
func CalculateLaunchConfidence(stack schema.StackProfile, behavior schema.BehaviorProfile) schema.ConfidenceResult {
	factors := make([]schema.ConfidenceFactor, 0, 6)

	// Factor 1: statefulness.
	if behavior.IsStateful {
		factors = append(factors, schema.ConfidenceFactor{Name: "statefulness", Points: 10, Text: "stateful (needs careful scaling)"})
	} else {
		factors = append(factors, schema.ConfidenceFactor{Name: "statefulness", Points: 30, Text: "stateless (safer)"})
	}

	// Factor 2: data handling.
	if behavior.WriteHeavy {
		factors = append(factors, schema.ConfidenceFactor{Name: "data_handling", Points: 10, Text: "write-heavy (watch for bottlenecks)"})
	} else {
		factors = append(factors, schema.ConfidenceFactor{Name: "data_handling", Points: 30, Text: "clean read-heavy access"})
	}

	// Factor 3: dependency surface.
	count := behavior.ExternalDependencyCount
	switch {
	case count < 3:
		factors = append(factors, schema.ConfidenceFactor{Name: "dependencies", Points: 20, Text: fmt.Sprintf("%d external dependencies (lean)", count)})
	case count <= 5:
		factors = append(factors, schema.ConfidenceFactor{Name: "dependencies", Points: 10, Text: fmt.Sprintf("%d external dependencies (moderate)", count)})
	default:
		factors = append(factors, schema.ConfidenceFactor{Name: "dependencies", Points: 5, Text: fmt.Sprintf("%d external dependencies (large surface)", count)})
	}

	// Factor 4: concurrency tier.
	switch behavior.ConcurrencyRisk {
	case schema.HighRisk:
		factors = append(factors, schema.ConfidenceFactor{Name: "concurrency", Points: 5, Text: "high concurrency risk (plan for scaling)"})
	case schema.MediumRisk:
		factors = append(factors, schema.ConfidenceFactor{Name: "concurrency", Points: 10, Text: "medium concurrency risk"})
	default:
		factors = append(factors, schema.ConfidenceFactor{Name: "concurrency", Points: 20, Text: "low concurrency risk"})
	}

	score := 0
	for _, f := range factors {
		score += f.Points
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	// Explanatory factors. Zero points, appended after the scoring factors.
	switch {
	case IsSQLiteFamily(stack.Database):
		factors = append(factors, schema.ConfidenceFactor{Name: "database", Text: "SQLite is fine to start, watch write volume"})
	case IsManagedDatabase(stack.Database):
		factors = append(factors, schema.ConfidenceFactor{Name: "database", Text: fmt.Sprintf("%s is a managed-friendly database", stack.Database)})
	}
	if behavior.HasBackgroundJobs {
		factors = append(factors, schema.ConfidenceFactor{Name: "background_jobs", Text: "background jobs present (worth monitoring)"})
	}

	return schema.ConfidenceResult{Score: score, Factors: factors}
}
