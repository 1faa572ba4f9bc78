package schema

// Custom string types for type safety.
type (
	// VerdictStatus represents the launch verdict status derived from the score.
	VerdictStatus string

	// LaunchStage represents the finer-grained readiness stage derived from the score.
	LaunchStage string

	// RiskLevel represents a coarse low/medium/high classification.
	RiskLevel string

	// Severity represents a risk scenario's severity.
	Severity string

	// AlertCategory represents one of the fixed alert categories.
	AlertCategory string

	// AlertSeverity represents an alert's urgency tier.
	AlertSeverity string

	// NextStepMode represents the kind of next-step recommendation.
	NextStepMode string

	// PlatformID identifies a hosting platform candidate.
	PlatformID string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for persistence.
	DatabaseBackend string
)

// Verdict statuses. Derived from the confidence score, never set independently:
// score >= 80 is safe, 50 <= score < 80 is watch, score < 50 is fix.
const (
	SafeStatus  VerdictStatus = "safe"
	WatchStatus VerdictStatus = "watch"
	FixStatus   VerdictStatus = "fix"
)

// Launch stages. A second enum derived from the same score with its own
// thresholds (50/65/80). The stage thresholds deliberately differ from the
// status thresholds; next-step dispatch keys off stage, not status.
const (
	MVPStage        LaunchStage = "mvp"
	WatchStage      LaunchStage = "watch"
	GrowthStage     LaunchStage = "growth"
	ProductionStage LaunchStage = "production"
)

// Concurrency risk tiers.
const (
	LowRisk    RiskLevel = "low"
	MediumRisk RiskLevel = "medium"
	HighRisk   RiskLevel = "high"
)

// Risk scenario severities.
const (
	LowSeverity    Severity = "low"
	MediumSeverity Severity = "medium"
	HighSeverity   Severity = "high"
)

// Alert categories. Each maps 1:1 to one orchestrator trigger rule.
const (
	UsageGrowthAlert         AlertCategory = "usage_growth"
	CostRiskAlert            AlertCategory = "cost_risk"
	ArchitectureDriftAlert   AlertCategory = "architecture_drift"
	PlatformSuitabilityAlert AlertCategory = "platform_suitability"
	StabilityRegressionAlert AlertCategory = "stability_regression"
)

// Alert severities.
const (
	InformationalAlert AlertSeverity = "informational"
	HeadsUpAlert       AlertSeverity = "heads_up"
	ActionSoonAlert    AlertSeverity = "action_soon"
)

// Next-step modes.
const (
	DoNothingStep     NextStepMode = "do_nothing"
	WatchOneThingStep NextStepMode = "watch_one_thing"
	SmallUpgradeStep  NextStepMode = "small_upgrade"
)

// Hosting platform candidates scored by the recommendation engine.
const (
	RenderPlatform  PlatformID = "render"  // low-ceremony generalist
	VercelPlatform  PlatformID = "vercel"  // frontend/serverless oriented
	RailwayPlatform PlatformID = "railway" // full stack with managed DB
	FlyPlatform     PlatformID = "fly"     // global distribution, stateful friendly
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	CSVOut  OutputMode = "csv"
)

// All persistence backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Verdict status score boundaries.
const (
	SafeScoreFloor  = 80
	WatchScoreFloor = 50
)

// Launch stage score boundaries.
const (
	ProductionStageFloor = 80
	GrowthStageFloor     = 65
	WatchStageFloor      = 50
)

// MaxRisksReturned caps the ranked risk list; the engine is a top-N selector,
// not an enumerator.
const MaxRisksReturned = 3

// AlertCooldown is the trailing window during which a category will not
// re-fire for the same analysis.
const AlertCooldownDays = 7

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	CSVOut:  {},
}

// ValidDatabaseBackends lists all valid persistence backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// AllAlertCategories lists every category in fixed evaluation order.
var AllAlertCategories = []AlertCategory{
	UsageGrowthAlert,
	CostRiskAlert,
	ArchitectureDriftAlert,
	PlatformSuitabilityAlert,
	StabilityRegressionAlert,
}

// StatusForScore derives the verdict status from a confidence score.
// The boundaries are exact: 49 is fix, 50 is watch, 79 is watch, 80 is safe.
func StatusForScore(score int) VerdictStatus {
	switch {
	case score >= SafeScoreFloor:
		return SafeStatus
	case score >= WatchScoreFloor:
		return WatchStatus
	default:
		return FixStatus
	}
}

// StageForScore derives the launch stage from a confidence score.
// Stage is finer-grained than status and uses its own thresholds; the two
// must not be unified.
func StageForScore(score int) LaunchStage {
	switch {
	case score >= ProductionStageFloor:
		return ProductionStage
	case score >= GrowthStageFloor:
		return GrowthStage
	case score >= WatchStageFloor:
		return WatchStage
	default:
		return MVPStage
	}
}

// SeverityRank maps severities to sortable weights (higher sorts first).
func SeverityRank(s Severity) int {
	switch s {
	case HighSeverity:
		return 3
	case MediumSeverity:
		return 2
	case LowSeverity:
		return 1
	default:
		return 0
	}
}
