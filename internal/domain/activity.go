package domain

import (
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"time"
)

// ActivityKind discriminates the three raw activity shapes.
type ActivityKind string

const (
	ActivityQuiz      ActivityKind = "quiz"
	ActivityReading   ActivityKind = "reading"
	ActivityListening ActivityKind = "listening"
)

// ActivityEvent is the canonical form of one completed learner activity.
// It is produced by the normalizer constructors below and consumed by the
// XP/streak calculator; construction is pure and side-effect free.
type ActivityEvent struct {
	Kind         ActivityKind
	Key          string
	Score        int  // reading only, 0-100
	Correct      bool // listening only
	AssignmentID string
	Attempt      *QuizAttempt // quiz only
	OccurredAt   time.Time
}

// QuizQuestion is one question of a quiz attempt.
type QuizQuestion struct {
	Text    string
	Options []string
	Answer  string
}

// QuizAttempt is the immutable record of one quiz submission. Score and
// Percentage are derived at construction and never stored independently.
type QuizAttempt struct {
	ID              string
	UserID          string
	AssignmentID    string
	Questions       []QuizQuestion
	SelectedAnswers []string
	Score           int
	Percentage      int
	CompletedAt     time.Time
}

// answersMatch compares a selected answer against the expected one,
// case-insensitively and ignoring surrounding whitespace.
func answersMatch(selected, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(selected), strings.TrimSpace(expected))
}

// GradeQuiz counts correct positions and derives the rounded percentage.
func GradeQuiz(questions []QuizQuestion, selected []string) (score, percentage int) {
	for i, q := range questions {
		if i < len(selected) && answersMatch(selected[i], q.Answer) {
			score++
		}
	}
	if len(questions) > 0 {
		percentage = int(math.Round(100 * float64(score) / float64(len(questions))))
	}
	return score, percentage
}

// NewQuizEvent normalizes a quiz submission. attemptID becomes the event key
// when no assignment id is present (a generated session identifier).
func NewQuizEvent(userID, assignmentID, attemptID string, questions []QuizQuestion, selected []string, occurredAt time.Time) (*ActivityEvent, error) {
	if len(questions) == 0 {
		return nil, NewInvalidActivityError("quiz has no questions")
	}
	if len(selected) != len(questions) {
		return nil, NewInvalidActivityError(
			fmt.Sprintf("selected answers length %d does not match question count %d", len(selected), len(questions)))
	}
	if occurredAt.IsZero() {
		return nil, NewInvalidActivityError("occurred_at is required")
	}

	score, percentage := GradeQuiz(questions, selected)
	attempt := &QuizAttempt{
		ID:              attemptID,
		UserID:          userID,
		AssignmentID:    assignmentID,
		Questions:       questions,
		SelectedAnswers: selected,
		Score:           score,
		Percentage:      percentage,
		CompletedAt:     occurredAt,
	}

	key := assignmentID
	if key == "" {
		key = attemptID
	}

	return &ActivityEvent{
		Kind:         ActivityQuiz,
		Key:          key,
		AssignmentID: assignmentID,
		Attempt:      attempt,
		OccurredAt:   occurredAt,
	}, nil
}

// NewReadingEvent normalizes one pronunciation attempt. The sentence is
// reduced to a stable storage key so repeat attempts at the same sentence
// always target the same map entry.
func NewReadingEvent(sentence string, score int, occurredAt time.Time) (*ActivityEvent, error) {
	if strings.TrimSpace(sentence) == "" {
		return nil, NewInvalidActivityError("sentence is required")
	}
	if score < 0 || score > 100 {
		return nil, NewInvalidActivityError(fmt.Sprintf("pronunciation score %d is out of range [0, 100]", score))
	}
	if occurredAt.IsZero() {
		return nil, NewInvalidActivityError("occurred_at is required")
	}
	return &ActivityEvent{
		Kind:       ActivityReading,
		Key:        SentenceKey(sentence),
		Score:      score,
		OccurredAt: occurredAt,
	}, nil
}

// NewListeningEvent normalizes one listening-exercise attempt; the exercise
// id is the event key.
func NewListeningEvent(exerciseID string, correct bool, occurredAt time.Time) (*ActivityEvent, error) {
	if strings.TrimSpace(exerciseID) == "" {
		return nil, NewInvalidActivityError("exercise_id is required")
	}
	if occurredAt.IsZero() {
		return nil, NewInvalidActivityError("occurred_at is required")
	}
	return &ActivityEvent{
		Kind:       ActivityListening,
		Key:        exerciseID,
		Correct:    correct,
		OccurredAt: occurredAt,
	}, nil
}

// unsafeKeyChars are characters the document store rejects in map keys.
const unsafeKeyChars = ".#$[]/"

// SentenceKey derives a collision-resistant storage key from a sentence.
// Characters unsafe for map keys are stripped, and an FNV hash of the
// trimmed original is appended so sentences that differ only in stripped
// characters still map to distinct keys.
func SentenceKey(sentence string) string {
	trimmed := strings.TrimSpace(sentence)

	var b strings.Builder
	b.Grow(len(trimmed))
	for _, r := range trimmed {
		if strings.ContainsRune(unsafeKeyChars, r) {
			continue
		}
		b.WriteRune(r)
	}

	h := fnv.New32a()
	h.Write([]byte(trimmed))
	return fmt.Sprintf("%s-%08x", b.String(), h.Sum32())
}
