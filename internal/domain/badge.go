package domain

// BadgeTier groups badges for presentation only; evaluation treats the
// catalog as flat.
type BadgeTier string

const (
	TierBronze BadgeTier = "bronze"
	TierSilver BadgeTier = "silver"
	TierGold   BadgeTier = "gold"
)

// Badge pairs display metadata with a pure unlock predicate. Predicates
// must be total (absent maps are treated as empty) and monotone: once true
// for a profile they stay true as xp, streak and counts grow. The engine
// relies on that to treat "unlocked" as a one-way transition.
type Badge struct {
	ID          string
	Name        string
	Description string
	Tier        BadgeTier
	Condition   func(p *UserProfile, history []QuizAttempt) bool
}

// BadgeCatalog returns the static badge catalog. It is versioned with the
// code: adding or removing badges is a deployment-time change.
func BadgeCatalog() []Badge {
	return []Badge{
		{
			ID: "quiz_starter", Name: "Quiz Starter", Tier: TierBronze,
			Description: "Complete your first quiz",
			Condition: func(p *UserProfile, history []QuizAttempt) bool {
				return len(history) >= 1
			},
		},
		{
			ID: "first_assignment", Name: "First Assignment", Tier: TierBronze,
			Description: "Finish your first assignment",
			Condition: func(p *UserProfile, history []QuizAttempt) bool {
				return len(p.CompletedAssignments) >= 1
			},
		},
		{
			ID: "streak_3", Name: "On a Roll", Tier: TierBronze,
			Description: "Stay active 3 days in a row",
			Condition: func(p *UserProfile, history []QuizAttempt) bool {
				return p.Streak >= 3
			},
		},
		{
			ID: "xp_100", Name: "Getting Started", Tier: TierBronze,
			Description: "Earn 100 XP",
			Condition: func(p *UserProfile, history []QuizAttempt) bool {
				return p.XP >= 100
			},
		},
		{
			ID: "keen_ear", Name: "Keen Ear", Tier: TierBronze,
			Description: "Answer 5 listening exercises correctly",
			Condition: func(p *UserProfile, history []QuizAttempt) bool {
				return countTrue(p.ListeningScores) >= 5
			},
		},
		{
			ID: "clear_speaker", Name: "Clear Speaker", Tier: TierBronze,
			Description: "Score 60 or better on 5 different sentences",
			Condition: func(p *UserProfile, history []QuizAttempt) bool {
				return countPronunciationAtLeast(p, 60) >= 5
			},
		},
		{
			ID: "quiz_enthusiast", Name: "Quiz Enthusiast", Tier: TierSilver,
			Description: "Complete 10 quizzes",
			Condition: func(p *UserProfile, history []QuizAttempt) bool {
				return len(history) >= 10
			},
		},
		{
			ID: "perfect_score", Name: "Perfect Score", Tier: TierSilver,
			Description: "Get every question right on a quiz",
			Condition: func(p *UserProfile, history []QuizAttempt) bool {
				for _, a := range history {
					if a.Percentage == 100 {
						return true
					}
				}
				return false
			},
		},
		{
			ID: "streak_7", Name: "Week Warrior", Tier: TierSilver,
			Description: "Stay active 7 days in a row",
			Condition: func(p *UserProfile, history []QuizAttempt) bool {
				return p.Streak >= 7
			},
		},
		{
			ID: "xp_1000", Name: "Rising Star", Tier: TierSilver,
			Description: "Earn 1,000 XP",
			Condition: func(p *UserProfile, history []QuizAttempt) bool {
				return p.XP >= 1000
			},
		},
		{
			ID: "diligent", Name: "Diligent", Tier: TierSilver,
			Description: "Finish 10 assignments",
			Condition: func(p *UserProfile, history []QuizAttempt) bool {
				return len(p.CompletedAssignments) >= 10
			},
		},
		{
			ID: "sharp_listener", Name: "Sharp Listener", Tier: TierSilver,
			Description: "Answer 15 listening exercises correctly",
			Condition: func(p *UserProfile, history []QuizAttempt) bool {
				return countTrue(p.ListeningScores) >= 15
			},
		},
		{
			ID: "pronunciation_pro", Name: "Pronunciation Pro", Tier: TierSilver,
			Description: "Score 80 or better on 10 different sentences",
			Condition: func(p *UserProfile, history []QuizAttempt) bool {
				return countPronunciationAtLeast(p, 80) >= 10
			},
		},
		{
			ID: "quiz_master", Name: "Quiz Master", Tier: TierGold,
			Description: "Complete 25 quizzes",
			Condition: func(p *UserProfile, history []QuizAttempt) bool {
				return len(history) >= 25
			},
		},
		{
			ID: "streak_30", Name: "Unstoppable", Tier: TierGold,
			Description: "Stay active 30 days in a row",
			Condition: func(p *UserProfile, history []QuizAttempt) bool {
				return p.Streak >= 30
			},
		},
		{
			ID: "xp_5000", Name: "Legend", Tier: TierGold,
			Description: "Earn 5,000 XP",
			Condition: func(p *UserProfile, history []QuizAttempt) bool {
				return p.XP >= 5000
			},
		},
	}
}

// EvaluateBadges returns the full set of badge ids whose predicate holds
// for the profile, not just newly unlocked ones. Recomputing from scratch
// on every update is safe because predicates are monotone, and avoids
// silent badge loss if profile fields are corrected downward elsewhere.
func EvaluateBadges(catalog []Badge, p *UserProfile, history []QuizAttempt) map[string]bool {
	unlocked := make(map[string]bool)
	for _, b := range catalog {
		if b.Condition(p, history) {
			unlocked[b.ID] = true
		}
	}
	return unlocked
}

func countTrue(m map[string]bool) int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}

func countPronunciationAtLeast(p *UserProfile, threshold int) int {
	n := 0
	for _, rec := range p.PronunciationScores {
		if rec.Score >= threshold {
			n++
		}
	}
	return n
}
