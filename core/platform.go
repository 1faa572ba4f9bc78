package core

import (
	"fmt"

	"github.com/preflighthq/preflight/schema"
)

// StayThreshold is the fit score at or above which the user's current
// platform is still recommended over a fresh candidate.
const StayThreshold = 70

// platformCandidate pairs a fixed identity with an additive fit scorer and
// template text. Candidates are evaluated in slice order; ties keep the
// earlier candidate.
type platformCandidate struct {
	id          schema.PlatformID
	displayName string
	// aliases are the normalized names users may supply for --current-platform.
	aliases         []string
	score           func(stack schema.StackProfile, behavior schema.BehaviorProfile) int
	whyBullets      func(stack schema.StackProfile, behavior schema.BehaviorProfile) []string
	whenThisChanges string
}

var platformCandidates = []platformCandidate{
	{
		id:          schema.RenderPlatform,
		displayName: "Render",
		aliases:     []string{"render"},
		score: func(stack schema.StackProfile, behavior schema.BehaviorProfile) int {
			s := 50
			if stack.Database != "" {
				s += 15
			}
			if !behavior.IsStateful {
				s += 10
			}
			if stack.Runtime == "node" || stack.Runtime == "python" {
				s += 10
			}
			return s
		},
		whyBullets: func(stack schema.StackProfile, _ schema.BehaviorProfile) []string {
			bullets := []string{"Simple setup that grows with you, no re-architecture needed"}
			if stack.Database != "" {
				bullets = append(bullets, fmt.Sprintf("Can host your app and a %s database side by side", stack.Database))
			}
			return bullets
		},
		whenThisChanges: "If you need users close to you worldwide, a global platform becomes worth a look.",
	},
	{
		id:          schema.VercelPlatform,
		displayName: "Vercel",
		aliases:     []string{"vercel"},
		score: func(stack schema.StackProfile, behavior schema.BehaviorProfile) int {
			s := 40
			if stack.Framework == "Next.js" || stack.Framework == "React" {
				s += 30
			}
			if !behavior.IsStateful && !behavior.WriteHeavy {
				s += 10
			}
			if behavior.HasBackgroundJobs {
				s -= 20
			}
			if behavior.IsStateful {
				s -= 10
			}
			return s
		},
		whyBullets: func(stack schema.StackProfile, _ schema.BehaviorProfile) []string {
			bullets := []string{"Best-in-class for frontend-heavy apps with instant deploys"}
			if stack.Framework != "" {
				bullets = append(bullets, fmt.Sprintf("First-class %s support out of the box", stack.Framework))
			}
			return bullets
		},
		whenThisChanges: "If you add long-running background work, an always-on server platform fits better.",
	},
	{
		id:          schema.RailwayPlatform,
		displayName: "Railway",
		aliases:     []string{"railway"},
		score: func(stack schema.StackProfile, behavior schema.BehaviorProfile) int {
			s := 45
			if stack.Database != "" {
				s += 20
			}
			if behavior.WriteHeavy {
				s += 15
			}
			if behavior.HasBackgroundJobs {
				s += 10
			}
			return s
		},
		whyBullets: func(stack schema.StackProfile, behavior schema.BehaviorProfile) []string {
			bullets := []string{"Managed databases with one click, so write-heavy apps stay healthy"}
			if behavior.HasBackgroundJobs {
				bullets = append(bullets, "Background workers run as their own service without extra setup")
			}
			return bullets
		},
		whenThisChanges: "If your database outgrows the starter tiers, revisit with real usage numbers.",
	},
	{
		id:          schema.FlyPlatform,
		displayName: "Fly.io",
		aliases:     []string{"fly", "fly.io", "flyio"},
		score: func(_ schema.StackProfile, behavior schema.BehaviorProfile) int {
			s := 40
			if behavior.IsStateful {
				s += 25
			}
			if behavior.ConcurrencyRisk == schema.HighRisk {
				s += 15
			}
			if behavior.HasBackgroundJobs {
				s += 10
			}
			return s
		},
		whyBullets: func(_ schema.StackProfile, behavior schema.BehaviorProfile) []string {
			bullets := []string{"Runs full machines, so apps that keep state in memory work as-is"}
			if behavior.ConcurrencyRisk == schema.HighRisk {
				bullets = append(bullets, "Easy to add capacity in place when traffic picks up")
			}
			return bullets
		},
		whenThisChanges: "If you later make the app stateless, simpler platforms open up.",
	},
}

const platformReassurance = "No need to move anything today; this is a when-you-are-ready suggestion, not a fire drill."

// RecommendPlatform scores every candidate and returns exactly one
// recommendation. A supplied current platform that still scores at or above
// StayThreshold wins outright with a continuity badge.
func RecommendPlatform(stack schema.StackProfile, behavior schema.BehaviorProfile, currentPlatform string) schema.PlatformRecommendation {
	current := findCandidate(currentPlatform)

	if current != nil && current.score(stack, behavior) >= StayThreshold {
		return buildRecommendation(*current, stack, behavior, "stay where you are")
	}

	best := platformCandidates[0]
	bestScore := best.score(stack, behavior)
	for _, cand := range platformCandidates[1:] {
		if s := cand.score(stack, behavior); s > bestScore {
			best, bestScore = cand, s
		}
	}

	badge := "best fit"
	if currentPlatform != "" {
		// The user named a platform and it no longer scores well (or we do
		// not know it); frame the winner as an option, not a mandate.
		badge = "worth a look"
	}
	return buildRecommendation(best, stack, behavior, badge)
}

func buildRecommendation(cand platformCandidate, stack schema.StackProfile, behavior schema.BehaviorProfile, badge string) schema.PlatformRecommendation {
	bullets := cand.whyBullets(stack, behavior)
	if len(bullets) > 2 {
		bullets = bullets[:2]
	}
	return schema.PlatformRecommendation{
		PlatformID:      cand.id,
		DisplayName:     cand.displayName,
		Badge:           badge,
		WhyBullets:      bullets,
		WhenThisChanges: cand.whenThisChanges,
		Reassurance:     platformReassurance,
	}
}

func findCandidate(name string) *platformCandidate {
	if name == "" {
		return nil
	}
	for i := range platformCandidates {
		for _, alias := range platformCandidates[i].aliases {
			if alias == name {
				return &platformCandidates[i]
			}
		}
	}
	return nil
}
