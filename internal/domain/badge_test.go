package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attemptsWithPercentages(percentages ...int) []QuizAttempt {
	attempts := make([]QuizAttempt, len(percentages))
	for i, pct := range percentages {
		attempts[i] = QuizAttempt{
			ID:         fmt.Sprintf("attempt-%d", i),
			UserID:     "user-1",
			Percentage: pct,
		}
	}
	return attempts
}

func TestBadgeCatalog_UniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for _, b := range BadgeCatalog() {
		require.NotEmpty(t, b.ID)
		require.NotNil(t, b.Condition, "badge %s has no condition", b.ID)
		assert.False(t, seen[b.ID], "duplicate badge id %s", b.ID)
		seen[b.ID] = true
	}
}

func TestEvaluateBadges(t *testing.T) {
	catalog := BadgeCatalog()

	t.Run("fresh profile earns nothing", func(t *testing.T) {
		unlocked := EvaluateBadges(catalog, NewProfile("user-1", ""), nil)
		assert.Empty(t, unlocked)
	})

	t.Run("first quiz unlocks quiz_starter", func(t *testing.T) {
		unlocked := EvaluateBadges(catalog, NewProfile("user-1", ""), attemptsWithPercentages(40))
		assert.True(t, unlocked["quiz_starter"])
		assert.False(t, unlocked["quiz_enthusiast"])
		assert.False(t, unlocked["perfect_score"])
	})

	t.Run("perfect score needs a 100 percent attempt", func(t *testing.T) {
		unlocked := EvaluateBadges(catalog, NewProfile("user-1", ""), attemptsWithPercentages(90, 100, 70))
		assert.True(t, unlocked["perfect_score"])
	})

	t.Run("tier thresholds", func(t *testing.T) {
		p := NewProfile("user-1", "")
		p.XP = 1200
		p.Streak = 8
		p.CompletedAssignments = make([]CompletedAssignment, 10)

		unlocked := EvaluateBadges(catalog, p, nil)
		assert.True(t, unlocked["xp_100"])
		assert.True(t, unlocked["xp_1000"])
		assert.False(t, unlocked["xp_5000"])
		assert.True(t, unlocked["streak_3"])
		assert.True(t, unlocked["streak_7"])
		assert.False(t, unlocked["streak_30"])
		assert.True(t, unlocked["first_assignment"])
		assert.True(t, unlocked["diligent"])
	})

	t.Run("listening and pronunciation counters", func(t *testing.T) {
		p := NewProfile("user-1", "")
		p.ListeningScores = map[string]bool{}
		for i := 0; i < 5; i++ {
			p.ListeningScores[fmt.Sprintf("ex-%d", i)] = true
		}
		p.ListeningScores["ex-wrong"] = false

		p.PronunciationScores = map[string]ScoreRecord{}
		for i := 0; i < 5; i++ {
			p.PronunciationScores[fmt.Sprintf("s-%d", i)] = ScoreRecord{Score: 65, AttemptedAt: time.Now()}
		}

		unlocked := EvaluateBadges(catalog, p, nil)
		assert.True(t, unlocked["keen_ear"])
		assert.False(t, unlocked["sharp_listener"])
		assert.True(t, unlocked["clear_speaker"])
		assert.False(t, unlocked["pronunciation_pro"], "scores below 80 do not count")
	})

	t.Run("predicates are monotone in xp", func(t *testing.T) {
		p := NewProfile("user-1", "")
		p.XP = 100
		before := EvaluateBadges(catalog, p, nil)

		p.XP = 100000
		p.Streak = 40
		after := EvaluateBadges(catalog, p, nil)

		for id := range before {
			assert.True(t, after[id], "badge %s lost as the profile grew", id)
		}
	})
}
