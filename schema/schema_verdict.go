package schema

// ConfidenceFactor is one explanatory line from the confidence calculation.
// Scoring factors carry their point contribution; explanatory factors
// (database type, background jobs) carry zero points.
type ConfidenceFactor struct {
	Name   string `json:"name"`   // Stable factor identifier
	Points int    `json:"points"` // Contribution to the score, 0 for explanatory factors
	Text   string `json:"text"`   // Plain-English factor text
}

// ConfidenceResult holds the confidence score and its factor explanations.
// Factors preserve the fixed evaluation order: statefulness, data handling,
// dependencies, concurrency, then non-scoring explanatory lines.
type ConfidenceResult struct {
	Score   int                `json:"score"` // 0-100
	Factors []ConfidenceFactor `json:"factors"`
}

// RiskScenario is one candidate or confirmed operational risk explanation.
// At most MaxRisksReturned instances are ever returned per analysis.
type RiskScenario struct {
	ID               string   `json:"id"`                // Stable identifier
	Title            string   `json:"title"`             // Short user-facing title
	PlainExplanation string   `json:"plain_explanation"` // What this means in plain English
	TriggerCondition string   `json:"trigger_condition"` // Machine-oriented, not shown to end users
	UserSymptom      string   `json:"user_symptom"`      // What the user would observe
	Severity         Severity `json:"severity"`
	DisplayOrder     int      `json:"display_order"` // Tie-break key within equal severity
}

// PlatformRecommendation is one named hosting option with justification.
type PlatformRecommendation struct {
	PlatformID      PlatformID `json:"platform_id"`
	DisplayName     string     `json:"display_name"`
	Badge           string     `json:"badge"`             // e.g. "stay where you are", "best fit"
	WhyBullets      []string   `json:"why_bullets"`       // At most 2
	WhenThisChanges string     `json:"when_this_changes"` // One caveat
	Reassurance     string     `json:"reassurance"`       // Migration is never urgent
}

// NextStepRecommendation is exactly one recommended action.
type NextStepRecommendation struct {
	Mode            NextStepMode `json:"mode"`
	Headline        string       `json:"headline"`
	Explanation     string       `json:"explanation"`
	CallToAction    string       `json:"call_to_action"`
	UpgradeRequired bool         `json:"upgrade_required"`
}

// LaunchVerdict is the aggregate judgment for one analysis. It is recomputed
// in full on every analysis and every re-check, never partially updated.
//
// Invariant: Status is derived from ConfidenceScore via StatusForScore.
type LaunchVerdict struct {
	AnalysisID      string                 `json:"analysis_id"`
	Status          VerdictStatus          `json:"status"`
	ConfidenceScore int                    `json:"confidence_score"`
	Summary         string                 `json:"summary"`
	Factors         []ConfidenceFactor     `json:"factors"`
	Risks           []RiskScenario         `json:"risks"` // Ranked, at most 3
	Platform        PlatformRecommendation `json:"platform"`
	NextStep        NextStepRecommendation `json:"next_step"`
}
