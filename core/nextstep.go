package core

import "github.com/preflighthq/preflight/schema"

// stepRule is one ordered condition inside a stage. First match wins.
type stepRule struct {
	fires func(stack schema.StackProfile, behavior schema.BehaviorProfile) bool
	step  schema.NextStepRecommendation
}

func sqliteUnderWrites(stack schema.StackProfile, behavior schema.BehaviorProfile) bool {
	return IsSQLiteFamily(stack.Database) && behavior.WriteHeavy
}

func hasJobs(_ schema.StackProfile, behavior schema.BehaviorProfile) bool {
	return behavior.HasBackgroundJobs
}

// Stage rule tables. Each stage has its own ordered rules; the database
// upgrade suggestion is gated (UpgradeRequired) at growth but merely offered
// at watch, matching the stage's urgency.
var stageRules = map[schema.LaunchStage][]stepRule{
	schema.ProductionStage: {
		{fires: hasJobs, step: schema.NextStepRecommendation{
			Mode:         schema.WatchOneThingStep,
			Headline:     "Keep an eye on your background jobs",
			Explanation:  "Everything looks solid. The one thing worth a glance now and then is whether scheduled work keeps finishing on time.",
			CallToAction: "Check your job logs once a week.",
		}},
	},
	schema.GrowthStage: {
		{fires: sqliteUnderWrites, step: schema.NextStepRecommendation{
			Mode:            schema.SmallUpgradeStep,
			Headline:        "Move to a managed database",
			Explanation:     "Your app writes a lot and its current database handles one write at a time. At this stage that is the first thing that will hurt.",
			CallToAction:    "Switch to a managed PostgreSQL when you have an hour free.",
			UpgradeRequired: true,
		}},
		{fires: func(_ schema.StackProfile, b schema.BehaviorProfile) bool { return b.IsStateful }, step: schema.NextStepRecommendation{
			Mode:            schema.SmallUpgradeStep,
			Headline:        "Move in-memory state out of the app",
			Explanation:     "Your app remembers things between requests in memory. Moving that into a shared store lets you add capacity later without surprises.",
			CallToAction:    "Move sessions and caches into your database or a hosted cache.",
			UpgradeRequired: true,
		}},
		{fires: hasJobs, step: schema.NextStepRecommendation{
			Mode:         schema.WatchOneThingStep,
			Headline:     "Watch your background jobs",
			Explanation:  "Scheduled work shares resources with your visitors. Worth watching as traffic grows.",
			CallToAction: "Check job run times after busy days.",
		}},
	},
	schema.WatchStage: {
		{fires: sqliteUnderWrites, step: schema.NextStepRecommendation{
			Mode:         schema.SmallUpgradeStep,
			Headline:     "Consider a managed database soon",
			Explanation:  "Your current database is fine for now, but your app writes a lot, so this is the upgrade to have in your back pocket.",
			CallToAction: "Read up on managed PostgreSQL; no need to switch yet.",
		}},
		{fires: hasJobs, step: schema.NextStepRecommendation{
			Mode:         schema.WatchOneThingStep,
			Headline:     "Watch your background jobs",
			Explanation:  "Scheduled work can slow the app down when both get busy at once.",
			CallToAction: "Glance at job logs if the app ever feels sluggish.",
		}},
		{fires: func(_ schema.StackProfile, b schema.BehaviorProfile) bool { return b.ConcurrencyRisk == schema.HighRisk }, step: schema.NextStepRecommendation{
			Mode:         schema.WatchOneThingStep,
			Headline:     "Watch how the app behaves under simultaneous use",
			Explanation:  "A few patterns in your app get harder when many people use it at once. Nothing to fix today, just something to notice early.",
			CallToAction: "Try the app with a friend or two at the same time.",
		}},
		{fires: func(schema.StackProfile, schema.BehaviorProfile) bool { return true }, step: schema.NextStepRecommendation{
			Mode:         schema.WatchOneThingStep,
			Headline:     "Watch your first real traffic",
			Explanation:  "You are close to solid. The best next signal is how the app behaves with real users.",
			CallToAction: "Launch and check back here after your first real week.",
		}},
	},
	schema.MVPStage: {
		{fires: sqliteUnderWrites, step: schema.NextStepRecommendation{
			Mode:         schema.WatchOneThingStep,
			Headline:     "Watch your database usage",
			Explanation:  "Your app writes a lot for the database it uses. That is fine at this size; just notice if saves start feeling slow.",
			CallToAction: "Launch, then watch whether saving ever lags.",
		}},
		{fires: hasJobs, step: schema.NextStepRecommendation{
			Mode:         schema.WatchOneThingStep,
			Headline:     "Watch your background jobs",
			Explanation:  "Scheduled work in a young app is the most common source of mystery slowness.",
			CallToAction: "Note when jobs run and see if the app lags then.",
		}},
	},
}

// doNothingStep is the default when no stage rule matches.
var doNothingStep = schema.NextStepRecommendation{
	Mode:         schema.DoNothingStep,
	Headline:     "You're good, do nothing",
	Explanation:  "Nothing in your app needs attention right now. Enjoy that.",
	CallToAction: "Come back after your next batch of changes.",
}

// RecommendNextStep picks exactly one next step: stage-first dispatch, then
// the stage's ordered rules, first match wins, do-nothing when none match.
func RecommendNextStep(stack schema.StackProfile, behavior schema.BehaviorProfile, stage schema.LaunchStage) schema.NextStepRecommendation {
	for _, rule := range stageRules[stage] {
		if rule.fires(stack, behavior) {
			return rule.step
		}
	}
	return doNothingStep
}
