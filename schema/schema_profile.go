package schema

// StackProfile is the detected technology classification for one source
// snapshot. It is computed fresh on every analysis and replaced wholesale,
// never mutated in place.
//
// Invariant: Database (if set) equals Databases[0]; if Databases is empty,
// Database is empty too.
type StackProfile struct {
	Runtime           string   `json:"runtime,omitempty"`            // e.g. "node", "python"
	Framework         string   `json:"framework,omitempty"`          // e.g. "Express", "Flask"
	Database          string   `json:"database,omitempty"`           // Primary database, first detected
	Databases         []string `json:"databases,omitempty"`          // All detected, order of first detection
	ExternalAPIs      []string `json:"external_apis,omitempty"`      // Canonical service names, deduplicated
	HasBackgroundJobs bool     `json:"has_background_jobs"`          // Job/queue dependency declared
	HasFileUploads    bool     `json:"has_file_uploads"`             // Upload middleware dependency declared
	DeployPlatform    string   `json:"deployment_platform,omitempty"` // Inferred from config file presence
}

// BehaviorProfile is the detected runtime-behavior classification for one
// snapshot. One instance per analysis; superseded, never merged. The caller
// retains the previous instance for diffing on re-check.
//
// Invariant: ConcurrencyRisk is a pure function of the other fields plus the
// stack's database classification. It is never set independently.
type BehaviorProfile struct {
	IsStateful              bool      `json:"is_stateful"`
	WriteHeavy              bool      `json:"write_heavy"`
	HasBackgroundJobs       bool      `json:"has_background_jobs"`
	HasFileUploads          bool      `json:"has_file_uploads"`
	ConcurrencyRisk         RiskLevel `json:"estimated_concurrency_risk"`
	ExternalDependencyCount int       `json:"external_dependency_count"`
}
