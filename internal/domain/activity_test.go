package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func questionsWithAnswers(answers ...string) []QuizQuestion {
	qs := make([]QuizQuestion, len(answers))
	for i, a := range answers {
		qs[i] = QuizQuestion{Text: "q", Options: []string{"a", "b", "c"}, Answer: a}
	}
	return qs
}

func TestGradeQuiz(t *testing.T) {
	tests := []struct {
		name           string
		answers        []string
		selected       []string
		wantScore      int
		wantPercentage int
	}{
		{"all correct", []string{"a", "b"}, []string{"a", "b"}, 2, 100},
		{"four of five", []string{"a", "a", "a", "a", "a"}, []string{"a", "a", "a", "a", "b"}, 4, 80},
		{"none correct", []string{"a", "b"}, []string{"b", "a"}, 0, 0},
		{"one of three rounds to 33", []string{"a", "b", "c"}, []string{"a", "x", "x"}, 1, 33},
		{"two of three rounds to 67", []string{"a", "b", "c"}, []string{"a", "b", "x"}, 2, 67},
		{"case and whitespace ignored", []string{"Paris"}, []string{"  paris "}, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, percentage := GradeQuiz(questionsWithAnswers(tt.answers...), tt.selected)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantPercentage, percentage)
		})
	}
}

func TestNewQuizEvent(t *testing.T) {
	now := time.Now()

	t.Run("grades and keys by assignment", func(t *testing.T) {
		ev, err := NewQuizEvent("user-1", "hw-1", "attempt-1", questionsWithAnswers("a", "b"), []string{"a", "b"}, now)
		require.NoError(t, err)

		assert.Equal(t, ActivityQuiz, ev.Kind)
		assert.Equal(t, "hw-1", ev.Key)
		require.NotNil(t, ev.Attempt)
		assert.Equal(t, 2, ev.Attempt.Score)
		assert.Equal(t, 100, ev.Attempt.Percentage)
	})

	t.Run("free practice keys by attempt id", func(t *testing.T) {
		ev, err := NewQuizEvent("user-1", "", "attempt-1", questionsWithAnswers("a"), []string{"a"}, now)
		require.NoError(t, err)
		assert.Equal(t, "attempt-1", ev.Key)
	})

	t.Run("rejects length mismatch", func(t *testing.T) {
		_, err := NewQuizEvent("user-1", "hw-1", "attempt-1", questionsWithAnswers("a", "b"), []string{"a"}, now)
		require.Error(t, err)

		var domainErr *DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, CodeInvalidActivity, domainErr.Code)
	})

	t.Run("rejects empty quiz", func(t *testing.T) {
		_, err := NewQuizEvent("user-1", "hw-1", "attempt-1", nil, nil, now)
		require.Error(t, err)
	})

	t.Run("rejects zero occurred_at", func(t *testing.T) {
		_, err := NewQuizEvent("user-1", "hw-1", "attempt-1", questionsWithAnswers("a"), []string{"a"}, time.Time{})
		require.Error(t, err)
	})
}

func TestNewReadingEvent(t *testing.T) {
	now := time.Now()

	t.Run("valid", func(t *testing.T) {
		ev, err := NewReadingEvent("Hello world", 85, now)
		require.NoError(t, err)
		assert.Equal(t, ActivityReading, ev.Kind)
		assert.Equal(t, 85, ev.Score)
		assert.Equal(t, SentenceKey("Hello world"), ev.Key)
	})

	t.Run("rejects blank sentence", func(t *testing.T) {
		_, err := NewReadingEvent("   ", 85, now)
		require.Error(t, err)
	})

	t.Run("rejects out-of-range score", func(t *testing.T) {
		_, err := NewReadingEvent("Hello", 101, now)
		require.Error(t, err)
		_, err = NewReadingEvent("Hello", -1, now)
		require.Error(t, err)
	})
}

func TestNewListeningEvent(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		ev, err := NewListeningEvent("ex-1", true, time.Now())
		require.NoError(t, err)
		assert.Equal(t, "ex-1", ev.Key)
		assert.True(t, ev.Correct)
	})

	t.Run("rejects blank exercise id", func(t *testing.T) {
		_, err := NewListeningEvent(" ", true, time.Now())
		require.Error(t, err)
	})
}

func TestSentenceKey(t *testing.T) {
	t.Run("stable for identical input", func(t *testing.T) {
		assert.Equal(t, SentenceKey("Wie geht's?"), SentenceKey("Wie geht's?"))
	})

	t.Run("leading and trailing whitespace ignored", func(t *testing.T) {
		assert.Equal(t, SentenceKey("hello"), SentenceKey("  hello  "))
	})

	t.Run("strips unsafe characters", func(t *testing.T) {
		key := SentenceKey("a.b#c$d[e]f/g")
		assert.False(t, strings.ContainsAny(key, ".#$[]/"), "key %q contains unsafe characters", key)
	})

	t.Run("stripped collisions stay distinct", func(t *testing.T) {
		// Both reduce to "ab" before the hash suffix.
		assert.NotEqual(t, SentenceKey("a.b"), SentenceKey("a#b"))
	})
}
