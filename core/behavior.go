package core

import (
	"strings"

	"github.com/preflighthq/preflight/schema"
)

// Pattern sets for behavior classification. All matching is done against the
// lowercased concatenation of every fetched file, so results are independent
// of file ordering.
var (
	statefulPatterns = []string{
		"global.",
		"globalthis.",
		"req.session",
		"express-session",
		"localstorage",
		"sessionstorage",
		"new map(",
		"new set(",
		"cache = {}",
		"cache = new",
	}

	writeMarkers = []string{
		"insert into",
		"update ",
		"delete from",
		".save(",
		".create(",
		".update(",
		".delete(",
		"writefile",
	}

	readMarkers = []string{
		"select ",
		".find(",
		".get(",
		"readfile",
	}

	jobPatterns = []string{
		"setinterval",
		"settimeout(",
		"cron",
		"bull",
		"agenda",
		"celery",
		"apscheduler",
	}

	uploadPatterns = []string{
		"multer",
		"formidable",
		"busboy",
		"multipart/form-data",
		"express-fileupload",
	}

	poolingPatterns = []string{
		"pool",
		"createpool",
		"pgbouncer",
	}
)

// AnalyzePatterns classifies runtime behavior by scanning file content for
// the pattern sets above. Pure; an empty bundle yields the all-false, low-risk
// profile. The stack profile supplies the database classification that feeds
// the concurrency tier.
func AnalyzePatterns(bundle *schema.SourceBundle, stack schema.StackProfile) schema.BehaviorProfile {
	profile := schema.BehaviorProfile{ConcurrencyRisk: schema.LowRisk}
	if bundle == nil {
		return profile
	}

	var sb strings.Builder
	for _, content := range bundle.Files {
		sb.WriteString(content)
		sb.WriteByte('\n')
	}
	corpus := strings.ToLower(sb.String())

	profile.IsStateful = containsAny(corpus, statefulPatterns)
	profile.WriteHeavy = countAll(corpus, writeMarkers) > countAll(corpus, readMarkers)
	profile.HasBackgroundJobs = containsAny(corpus, jobPatterns)
	profile.HasFileUploads = containsAny(corpus, uploadPatterns)
	profile.ExternalDependencyCount = bundle.Manifest.DependencyCount()

	profile.ConcurrencyRisk = deriveConcurrencyRisk(stack, profile, containsAny(corpus, poolingPatterns))
	return profile
}

// deriveConcurrencyRisk applies the ordered short-circuit tiering:
// high beats medium beats low, first condition wins.
func deriveConcurrencyRisk(stack schema.StackProfile, behavior schema.BehaviorProfile, hasPooling bool) schema.RiskLevel {
	if IsSQLiteFamily(stack.Database) && behavior.WriteHeavy {
		return schema.HighRisk
	}
	if behavior.IsStateful && !hasPooling {
		return schema.HighRisk
	}
	if behavior.HasBackgroundJobs || behavior.ExternalDependencyCount > 10 {
		return schema.MediumRisk
	}
	return schema.LowRisk
}

func containsAny(corpus string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(corpus, p) {
			return true
		}
	}
	return false
}

func countAll(corpus string, patterns []string) int {
	total := 0
	for _, p := range patterns {
		total += strings.Count(corpus, p)
	}
	return total
}
