package core

import (
	"testing"

	"github.com/preflighthq/preflight/schema"
	"github.com/stretchr/testify/assert"
)

func manifestWithDeps(deps ...string) *schema.Manifest {
	m := &schema.Manifest{Dependencies: map[string]string{}}
	for _, d := range deps {
		m.Dependencies[d] = "1.0.0"
	}
	return m
}

// TestDetectStackRuntime verifies runtime priority: manifest wins over requirements.
func TestDetectStackRuntime(t *testing.T) {
	tests := []struct {
		name     string
		bundle   *schema.SourceBundle
		expected string
	}{
		{
			name:     "node manifest only",
			bundle:   &schema.SourceBundle{Manifest: manifestWithDeps("express")},
			expected: "node",
		},
		{
			name:     "requirements only",
			bundle:   &schema.SourceBundle{RequirementsText: "flask==2.0\n"},
			expected: "python",
		},
		{
			name: "both present favors node",
			bundle: &schema.SourceBundle{
				Manifest:         manifestWithDeps("express"),
				RequirementsText: "flask==2.0\n",
			},
			expected: "node",
		},
		{
			name:     "neither present",
			bundle:   &schema.SourceBundle{Files: map[string]string{"index.js": "hi"}},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectStack(tt.bundle).Runtime)
		})
	}
}

// TestDetectStackFramework verifies the framework priority list.
func TestDetectStackFramework(t *testing.T) {
	tests := []struct {
		name     string
		bundle   *schema.SourceBundle
		expected string
	}{
		{
			name:     "express beats react",
			bundle:   &schema.SourceBundle{Manifest: manifestWithDeps("react", "express")},
			expected: "Express",
		},
		{
			name:     "next alone",
			bundle:   &schema.SourceBundle{Manifest: manifestWithDeps("next")},
			expected: "Next.js",
		},
		{
			name:     "django from requirements",
			bundle:   &schema.SourceBundle{RequirementsText: "Django>=4.0\npsycopg2==2.9\n"},
			expected: "Django",
		},
		{
			name:     "no framework",
			bundle:   &schema.SourceBundle{Manifest: manifestWithDeps("lodash")},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectStack(tt.bundle).Framework)
		})
	}
}

// TestDetectStackDatabases verifies canonical database mapping and ordering.
func TestDetectStackDatabases(t *testing.T) {
	tests := []struct {
		name      string
		bundle    *schema.SourceBundle
		databases []string
		primary   string
	}{
		{
			name:      "pg only",
			bundle:    &schema.SourceBundle{Manifest: manifestWithDeps("pg")},
			databases: []string{"PostgreSQL"},
			primary:   "PostgreSQL",
		},
		{
			name:      "pg and postgres dedupe to one",
			bundle:    &schema.SourceBundle{Manifest: manifestWithDeps("pg", "postgres")},
			databases: []string{"PostgreSQL"},
			primary:   "PostgreSQL",
		},
		{
			name:      "multiple databases keep detection order",
			bundle:    &schema.SourceBundle{Manifest: manifestWithDeps("redis", "mongoose", "pg")},
			databases: []string{"PostgreSQL", "MongoDB", "Redis"},
			primary:   "PostgreSQL",
		},
		{
			name:      "better-sqlite3 maps to SQLite",
			bundle:    &schema.SourceBundle{Manifest: manifestWithDeps("better-sqlite3")},
			databases: []string{"SQLite"},
			primary:   "SQLite",
		},
		{
			name:      "python psycopg2",
			bundle:    &schema.SourceBundle{RequirementsText: "psycopg2-binary==2.9\npsycopg2==2.9\n"},
			databases: []string{"PostgreSQL"},
			primary:   "PostgreSQL",
		},
		{
			name:    "no database",
			bundle:  &schema.SourceBundle{Manifest: manifestWithDeps("express")},
			primary: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := DetectStack(tt.bundle)
			assert.Equal(t, tt.databases, profile.Databases)
			assert.Equal(t, tt.primary, profile.Database)
		})
	}
}

// TestDetectStackExternalAPIs verifies SDK detection from regular deps only.
func TestDetectStackExternalAPIs(t *testing.T) {
	t.Run("regular deps detected", func(t *testing.T) {
		bundle := &schema.SourceBundle{Manifest: manifestWithDeps("stripe", "openai")}
		profile := DetectStack(bundle)
		assert.Equal(t, []string{"Stripe", "OpenAI"}, profile.ExternalAPIs)
	})

	t.Run("dev deps never count", func(t *testing.T) {
		bundle := &schema.SourceBundle{Manifest: &schema.Manifest{
			DevDependencies: map[string]string{"stripe": "1.0.0"},
		}}
		assert.Empty(t, DetectStack(bundle).ExternalAPIs)
	})

	t.Run("scoped aws sdk counts as AWS", func(t *testing.T) {
		bundle := &schema.SourceBundle{Manifest: manifestWithDeps("@aws-sdk/client-s3")}
		assert.Equal(t, []string{"AWS"}, DetectStack(bundle).ExternalAPIs)
	})

	t.Run("sendgrid variants dedupe", func(t *testing.T) {
		bundle := &schema.SourceBundle{Manifest: manifestWithDeps("@sendgrid/mail", "sendgrid")}
		assert.Equal(t, []string{"SendGrid"}, DetectStack(bundle).ExternalAPIs)
	})
}

// TestDetectStackDeployPlatform verifies file-presence platform rules.
func TestDetectStackDeployPlatform(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		expected string
	}{
		{"vercel", map[string]string{"vercel.json": "{}"}, "Vercel"},
		{"fly", map[string]string{"fly.toml": ""}, "Fly.io"},
		{"render", map[string]string{"render.yaml": ""}, "Render"},
		{"heroku", map[string]string{"Procfile": "web: node index.js"}, "Heroku"},
		{"railway toml", map[string]string{"railway.toml": ""}, "Railway"},
		{"vercel beats render", map[string]string{"vercel.json": "{}", "render.yaml": ""}, "Vercel"},
		{"none", map[string]string{"index.js": ""}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle := &schema.SourceBundle{Files: tt.files}
			assert.Equal(t, tt.expected, DetectStack(bundle).DeployPlatform)
		})
	}
}

// TestDetectStackFlags verifies job and upload dependency flags.
func TestDetectStackFlags(t *testing.T) {
	t.Run("bullmq sets background jobs", func(t *testing.T) {
		bundle := &schema.SourceBundle{Manifest: manifestWithDeps("bullmq")}
		assert.True(t, DetectStack(bundle).HasBackgroundJobs)
	})

	t.Run("celery from requirements sets background jobs", func(t *testing.T) {
		bundle := &schema.SourceBundle{RequirementsText: "celery==5.3\n"}
		assert.True(t, DetectStack(bundle).HasBackgroundJobs)
	})

	t.Run("multer sets file uploads", func(t *testing.T) {
		bundle := &schema.SourceBundle{Manifest: manifestWithDeps("multer")}
		assert.True(t, DetectStack(bundle).HasFileUploads)
	})
}

// TestDetectStackDegradesGracefully verifies missing input never errors.
func TestDetectStackDegradesGracefully(t *testing.T) {
	assert.Equal(t, schema.StackProfile{}, DetectStack(nil))
	assert.Equal(t, schema.StackProfile{}, DetectStack(&schema.SourceBundle{}))
}

// TestParseRequirementNames verifies requirements.txt name extraction.
func TestParseRequirementNames(t *testing.T) {
	text := "Flask==2.0\n# a comment\n\n-r other.txt\nrequests>=2.28 ; python_version > '3.8'\ncelery[redis]==5.3\n"
	names := parseRequirementNames(text)
	assert.Contains(t, names, "flask")
	assert.Contains(t, names, "requests")
	assert.Contains(t, names, "celery")
	assert.NotContains(t, names, "-r")
	assert.Len(t, names, 3)
}

// TestDatabaseClassification verifies the SQLite denylist policy.
func TestDatabaseClassification(t *testing.T) {
	assert.True(t, IsSQLiteFamily("SQLite"))
	assert.True(t, IsSQLiteFamily("better-sqlite3"))
	assert.False(t, IsSQLiteFamily("PostgreSQL"))
	assert.False(t, IsSQLiteFamily(""))

	// Permissive by default: anything non-SQLite and non-empty is managed.
	assert.True(t, IsManagedDatabase("PostgreSQL"))
	assert.True(t, IsManagedDatabase("SomeNewDB"))
	assert.False(t, IsManagedDatabase("SQLite"))
	assert.False(t, IsManagedDatabase(""))
}
