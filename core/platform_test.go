package core

import (
	"testing"

	"github.com/preflighthq/preflight/schema"
	"github.com/stretchr/testify/assert"
)

// TestRecommendPlatformStay verifies the continuity path: a current platform
// that still fits wins over a fresh recommendation.
func TestRecommendPlatformStay(t *testing.T) {
	stack := schema.StackProfile{Runtime: "node", Database: "PostgreSQL"}
	behavior := schema.BehaviorProfile{ConcurrencyRisk: schema.LowRisk}

	// Render scores 50+15+10+10 = 85 here, well above the stay threshold.
	rec := RecommendPlatform(stack, behavior, "render")
	assert.Equal(t, schema.RenderPlatform, rec.PlatformID)
	assert.Equal(t, "stay where you are", rec.Badge)
}

// TestRecommendPlatformBestFit verifies fresh recommendations without a
// current platform.
func TestRecommendPlatformBestFit(t *testing.T) {
	tests := []struct {
		name     string
		stack    schema.StackProfile
		behavior schema.BehaviorProfile
		expected schema.PlatformID
	}{
		{
			name:     "stateful app favors fly",
			behavior: schema.BehaviorProfile{IsStateful: true, ConcurrencyRisk: schema.HighRisk},
			expected: schema.FlyPlatform,
		},
		{
			name:     "write-heavy with database favors railway",
			stack:    schema.StackProfile{Database: "PostgreSQL"},
			behavior: schema.BehaviorProfile{WriteHeavy: true, HasBackgroundJobs: true, ConcurrencyRisk: schema.MediumRisk},
			expected: schema.RailwayPlatform,
		},
		{
			name:     "plain node app favors render",
			stack:    schema.StackProfile{Runtime: "node", Database: "PostgreSQL"},
			behavior: schema.BehaviorProfile{ConcurrencyRisk: schema.LowRisk},
			expected: schema.RenderPlatform,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := RecommendPlatform(tt.stack, tt.behavior, "")
			assert.Equal(t, tt.expected, rec.PlatformID)
			assert.Equal(t, "best fit", rec.Badge)
		})
	}
}

// TestRecommendPlatformNextFrontend verifies the serverless affinity rule.
func TestRecommendPlatformNextFrontend(t *testing.T) {
	stack := schema.StackProfile{Runtime: "node", Framework: "Next.js"}
	behavior := schema.BehaviorProfile{ConcurrencyRisk: schema.LowRisk}

	rec := RecommendPlatform(stack, behavior, "")
	assert.Equal(t, schema.VercelPlatform, rec.PlatformID)
}

// TestRecommendPlatformWorthALook verifies the upgrade badge when the user's
// platform no longer scores well.
func TestRecommendPlatformWorthALook(t *testing.T) {
	// Stateful apps with background jobs score Vercel at 40-20-10 = 10.
	stack := schema.StackProfile{Framework: "Express"}
	behavior := schema.BehaviorProfile{IsStateful: true, HasBackgroundJobs: true, ConcurrencyRisk: schema.HighRisk}

	rec := RecommendPlatform(stack, behavior, "vercel")
	assert.NotEqual(t, schema.VercelPlatform, rec.PlatformID)
	assert.Equal(t, "worth a look", rec.Badge)
}

// TestRecommendPlatformUnknownCurrent verifies an unrecognized current
// platform still produces a gentle recommendation.
func TestRecommendPlatformUnknownCurrent(t *testing.T) {
	rec := RecommendPlatform(schema.StackProfile{}, schema.BehaviorProfile{ConcurrencyRisk: schema.LowRisk}, "heroku")
	assert.Equal(t, "worth a look", rec.Badge)
	assert.NotEmpty(t, rec.PlatformID)
}

// TestRecommendPlatformShape verifies the fixed content contract: at most two
// bullets, one caveat, one reassurance, never urgent.
func TestRecommendPlatformShape(t *testing.T) {
	inputs := []schema.BehaviorProfile{
		{ConcurrencyRisk: schema.LowRisk},
		{IsStateful: true, ConcurrencyRisk: schema.HighRisk},
		{WriteHeavy: true, HasBackgroundJobs: true, ConcurrencyRisk: schema.MediumRisk},
	}
	for _, behavior := range inputs {
		rec := RecommendPlatform(schema.StackProfile{Database: "PostgreSQL", Framework: "Express"}, behavior, "")
		assert.LessOrEqual(t, len(rec.WhyBullets), 2)
		assert.NotEmpty(t, rec.WhyBullets)
		assert.NotEmpty(t, rec.WhenThisChanges)
		assert.NotEmpty(t, rec.Reassurance)
		assert.NotContains(t, rec.Reassurance, "urgent")
	}
}

// TestRecommendPlatformDeterministic verifies repeated calls agree.
func TestRecommendPlatformDeterministic(t *testing.T) {
	stack := schema.StackProfile{Database: "SQLite", Framework: "Express"}
	behavior := schema.BehaviorProfile{WriteHeavy: true, ConcurrencyRisk: schema.HighRisk}
	first := RecommendPlatform(stack, behavior, "fly")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, RecommendPlatform(stack, behavior, "fly"))
	}
}
