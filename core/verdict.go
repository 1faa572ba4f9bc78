package core

import (
	"fmt"

	"github.com/preflighthq/preflight/schema"
)

// GenerateLaunchVerdict composes the judgment sub-operations in fixed order:
// confidence, risks, platform, stage derivation, next step. Status is always
// derived from the score, never set independently.
func GenerateLaunchVerdict(analysisID string, stack schema.StackProfile, behavior schema.BehaviorProfile) schema.LaunchVerdict {
	return GenerateLaunchVerdictFor(analysisID, stack, behavior, "")
}

// GenerateLaunchVerdictFor is GenerateLaunchVerdict with the user's current
// hosting platform threaded into the platform recommendation.
func GenerateLaunchVerdictFor(analysisID string, stack schema.StackProfile, behavior schema.BehaviorProfile, currentPlatform string) schema.LaunchVerdict {
	confidence := CalculateLaunchConfidence(stack, behavior)
	risks := DetectRisks(stack, behavior)
	platform := RecommendPlatform(stack, behavior, currentPlatform)
	stage := schema.StageForScore(confidence.Score)
	nextStep := RecommendNextStep(stack, behavior, stage)
	status := schema.StatusForScore(confidence.Score)

	return schema.LaunchVerdict{
		AnalysisID:      analysisID,
		Status:          status,
		ConfidenceScore: confidence.Score,
		Summary:         buildSummary(status, risks),
		Factors:         confidence.Factors,
		Risks:           risks,
		Platform:        platform,
		NextStep:        nextStep,
	}
}

// buildSummary renders the one-line verdict from fixed templates keyed by
// status and, when present, the top-ranked risk.
func buildSummary(status schema.VerdictStatus, risks []schema.RiskScenario) string {
	switch status {
	case schema.SafeStatus:
		return "You're in good shape to launch."
	case schema.WatchStatus:
		if len(risks) > 0 {
			return fmt.Sprintf("Good to launch, but keep an eye on one thing: %s", risks[0].UserSymptom)
		}
		return "Good to launch, with light monitoring."
	default:
		if len(risks) > 0 {
			return fmt.Sprintf("Worth fixing one thing before launch: %s", risks[0].PlainExplanation)
		}
		return "Worth a little hardening before launch."
	}
}
