package core

import (
	"testing"

	"github.com/preflighthq/preflight/schema"
	"github.com/stretchr/testify/assert"
)

// TestRecommendNextStepStageDispatch verifies the stage-first dispatch with
// first-match-wins rules inside each stage.
func TestRecommendNextStepStageDispatch(t *testing.T) {
	sqliteWrites := schema.StackProfile{Database: "SQLite"}

	tests := []struct {
		name     string
		stack    schema.StackProfile
		behavior schema.BehaviorProfile
		stage    schema.LaunchStage
		mode     schema.NextStepMode
		upgrade  bool
	}{
		{
			name:     "production with nothing going on does nothing",
			stage:    schema.ProductionStage,
			mode:     schema.DoNothingStep,
		},
		{
			name:     "production with jobs watches jobs",
			behavior: schema.BehaviorProfile{HasBackgroundJobs: true},
			stage:    schema.ProductionStage,
			mode:     schema.WatchOneThingStep,
		},
		{
			name:     "growth sqlite writes requires the upgrade",
			stack:    sqliteWrites,
			behavior: schema.BehaviorProfile{WriteHeavy: true},
			stage:    schema.GrowthStage,
			mode:     schema.SmallUpgradeStep,
			upgrade:  true,
		},
		{
			name:     "growth stateful requires moving state out",
			behavior: schema.BehaviorProfile{IsStateful: true},
			stage:    schema.GrowthStage,
			mode:     schema.SmallUpgradeStep,
			upgrade:  true,
		},
		{
			name:     "watch sqlite writes only suggests the upgrade",
			stack:    sqliteWrites,
			behavior: schema.BehaviorProfile{WriteHeavy: true},
			stage:    schema.WatchStage,
			mode:     schema.SmallUpgradeStep,
			upgrade:  false,
		},
		{
			name:  "watch with nothing specific still watches something",
			stage: schema.WatchStage,
			mode:  schema.WatchOneThingStep,
		},
		{
			name:     "mvp sqlite writes watches database usage",
			stack:    sqliteWrites,
			behavior: schema.BehaviorProfile{WriteHeavy: true},
			stage:    schema.MVPStage,
			mode:     schema.WatchOneThingStep,
		},
		{
			name:  "mvp with nothing going on does nothing",
			stage: schema.MVPStage,
			mode:  schema.DoNothingStep,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step := RecommendNextStep(tt.stack, tt.behavior, tt.stage)
			assert.Equal(t, tt.mode, step.Mode)
			assert.Equal(t, tt.upgrade, step.UpgradeRequired)
			assert.NotEmpty(t, step.Headline)
			assert.NotEmpty(t, step.Explanation)
			assert.NotEmpty(t, step.CallToAction)
		})
	}
}

// TestRecommendNextStepFirstMatchWins verifies rule ordering inside a stage:
// the database rule outranks the jobs rule at growth.
func TestRecommendNextStepFirstMatchWins(t *testing.T) {
	stack := schema.StackProfile{Database: "SQLite"}
	behavior := schema.BehaviorProfile{WriteHeavy: true, HasBackgroundJobs: true}

	step := RecommendNextStep(stack, behavior, schema.GrowthStage)
	assert.Equal(t, schema.SmallUpgradeStep, step.Mode)
	assert.Contains(t, step.Headline, "database")
}

// TestRecommendNextStepUpgradeGating verifies the same condition is gated at
// growth but merely offered at watch.
func TestRecommendNextStepUpgradeGating(t *testing.T) {
	stack := schema.StackProfile{Database: "SQLite"}
	behavior := schema.BehaviorProfile{WriteHeavy: true}

	atGrowth := RecommendNextStep(stack, behavior, schema.GrowthStage)
	atWatch := RecommendNextStep(stack, behavior, schema.WatchStage)

	assert.True(t, atGrowth.UpgradeRequired)
	assert.False(t, atWatch.UpgradeRequired)
	assert.Equal(t, schema.SmallUpgradeStep, atGrowth.Mode)
	assert.Equal(t, schema.SmallUpgradeStep, atWatch.Mode)
}
