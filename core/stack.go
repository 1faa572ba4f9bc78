package core

import (
	"strings"

	"github.com/preflighthq/preflight/schema"
)

// depRule maps a declared dependency name to a canonical classification.
type depRule struct {
	dep       string
	canonical string
}

// Framework rules in priority order. First match wins; Node rules are checked
// against the manifest, Python rules against the requirements lines.
var nodeFrameworkRules = []depRule{
	{"express", "Express"},
	{"next", "Next.js"},
	{"koa", "Koa"},
	{"fastify", "Fastify"},
	{"react", "React"},
}

var pythonFrameworkRules = []depRule{
	{"flask", "Flask"},
	{"django", "Django"},
	{"fastapi", "FastAPI"},
}

// Database rules in detection order. Databases accumulates every match
// (deduplicated by canonical name); Database is the first.
var nodeDatabaseRules = []depRule{
	{"pg", "PostgreSQL"},
	{"postgres", "PostgreSQL"},
	{"mongoose", "MongoDB"},
	{"mongodb", "MongoDB"},
	{"sqlite3", "SQLite"},
	{"better-sqlite3", "SQLite"},
	{"mysql", "MySQL"},
	{"mysql2", "MySQL"},
	{"redis", "Redis"},
}

var pythonDatabaseRules = []depRule{
	{"psycopg2", "PostgreSQL"},
	{"psycopg", "PostgreSQL"},
	{"pymongo", "MongoDB"},
	{"mysqlclient", "MySQL"},
	{"redis", "Redis"},
}

// External API SDK rules. Regular dependencies only; a test-only SDK is not a
// production integration.
var externalAPIRules = []depRule{
	{"stripe", "Stripe"},
	{"twilio", "Twilio"},
	{"@sendgrid/mail", "SendGrid"},
	{"sendgrid", "SendGrid"},
	{"aws-sdk", "AWS"},
	{"firebase", "Firebase"},
	{"firebase-admin", "Firebase"},
	{"openai", "OpenAI"},
	{"@supabase/supabase-js", "Supabase"},
}

// Job/queue dependency names, any manifest section or requirements line.
var jobDepNames = []string{"bull", "bullmq", "agenda", "node-cron", "node-schedule", "celery", "apscheduler"}

// Upload middleware dependency names.
var uploadDepNames = []string{"multer", "formidable", "busboy", "express-fileupload"}

// platformRule maps a config file's presence to a hosting platform.
type platformRule struct {
	file     string
	platform string
}

// Deploy platform rules, first match wins.
var deployPlatformRules = []platformRule{
	{"vercel.json", "Vercel"},
	{"netlify.toml", "Netlify"},
	{".replit", "Replit"},
	{"fly.toml", "Fly.io"},
	{"render.yaml", "Render"},
	{"Procfile", "Heroku"},
	{"railway.json", "Railway"},
	{"railway.toml", "Railway"},
}

// DetectStack classifies the technology stack of a source snapshot by
// evaluating the declarative rule tables above in fixed order. It is pure and
// never fails: a bundle with no manifest and no requirements text yields a
// zero-valued profile.
func DetectStack(bundle *schema.SourceBundle) schema.StackProfile {
	profile := schema.StackProfile{}
	if bundle == nil {
		return profile
	}

	reqs := parseRequirementNames(bundle.RequirementsText)

	// Runtime: a Node manifest wins over a requirements file when both exist.
	switch {
	case bundle.Manifest != nil:
		profile.Runtime = "node"
	case len(reqs) > 0:
		profile.Runtime = "python"
	}

	// Framework: first match across the prioritized rule lists.
	for _, rule := range nodeFrameworkRules {
		if bundle.Manifest.HasDependency(rule.dep) {
			profile.Framework = rule.canonical
			break
		}
	}
	if profile.Framework == "" {
		for _, rule := range pythonFrameworkRules {
			if _, ok := reqs[rule.dep]; ok {
				profile.Framework = rule.canonical
				break
			}
		}
	}

	// Databases: accumulate in detection order, deduplicated.
	seen := map[string]struct{}{}
	addDB := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		profile.Databases = append(profile.Databases, name)
	}
	for _, rule := range nodeDatabaseRules {
		if bundle.Manifest.HasDependency(rule.dep) {
			addDB(rule.canonical)
		}
	}
	for _, rule := range pythonDatabaseRules {
		if _, ok := reqs[rule.dep]; ok {
			addDB(rule.canonical)
		}
	}
	if len(profile.Databases) > 0 {
		profile.Database = profile.Databases[0]
	}

	// External API SDKs: dedup, keep detection order.
	seenAPI := map[string]struct{}{}
	for _, rule := range externalAPIRules {
		matched := bundle.Manifest.HasDependency(rule.dep)
		if !matched && bundle.Manifest != nil && rule.dep == "aws-sdk" {
			// Scoped v3 SDK packages all count as AWS.
			for dep := range bundle.Manifest.Dependencies {
				if strings.HasPrefix(dep, "@aws-sdk/") {
					matched = true
					break
				}
			}
		}
		if !matched {
			if _, ok := reqs[rule.dep]; ok {
				matched = true
			}
		}
		if matched {
			if _, ok := seenAPI[rule.canonical]; !ok {
				seenAPI[rule.canonical] = struct{}{}
				profile.ExternalAPIs = append(profile.ExternalAPIs, rule.canonical)
			}
		}
	}

	for _, dep := range jobDepNames {
		if bundle.Manifest.HasDependency(dep) {
			profile.HasBackgroundJobs = true
			break
		}
		if _, ok := reqs[dep]; ok {
			profile.HasBackgroundJobs = true
			break
		}
	}

	for _, dep := range uploadDepNames {
		if bundle.Manifest.HasDependency(dep) {
			profile.HasFileUploads = true
			break
		}
	}

	// Deploy platform: config file presence at the tree root, first match wins.
	for _, rule := range deployPlatformRules {
		if _, ok := bundle.Files[rule.file]; ok {
			profile.DeployPlatform = rule.platform
			break
		}
	}

	return profile
}

// parseRequirementNames extracts lowercase package names from requirements.txt
// content: one package per line, version specifiers and comments stripped.
func parseRequirementNames(text string) map[string]struct{} {
	names := map[string]struct{}{}
	if text == "" {
		return names
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		// Cut at the first version/extras/marker character.
		if idx := strings.IndexAny(line, "=<>!~[; "); idx >= 0 {
			line = line[:idx]
		}
		name := strings.ToLower(strings.TrimSpace(line))
		if name != "" {
			names[name] = struct{}{}
		}
	}
	return names
}

// IsSQLiteFamily reports whether a detected database name is a SQLite variant.
// Used by the concurrency, risk and next-step rules.
func IsSQLiteFamily(database string) bool {
	return strings.Contains(strings.ToLower(database), "sqlite")
}

// IsManagedDatabase reports whether a detected database is treated as
// managed-friendly. Classification is a denylist of SQLite-like names, so
// unknown databases default to managed. Unset means no database at all.
func IsManagedDatabase(database string) bool {
	return database != "" && !IsSQLiteFamily(database)
}
