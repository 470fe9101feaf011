package dto

import "time"

// --- Record activity DTOs ---

// QuizQuestionPayload is one question of a submitted quiz.
type QuizQuestionPayload struct {
	Text    string   `json:"text"`
	Options []string `json:"options,omitempty"`
	Answer  string   `json:"answer"`
}

// QuizPayload carries a completed quiz submission.
type QuizPayload struct {
	AssignmentID    string                `json:"assignment_id,omitempty"`
	Questions       []QuizQuestionPayload `json:"questions"`
	SelectedAnswers []string              `json:"selected_answers"`
}

// ReadingPayload carries one pronunciation attempt.
type ReadingPayload struct {
	Sentence string `json:"sentence"`
	Score    int    `json:"score"` // 0-100
}

// ListeningPayload carries one listening-exercise attempt.
type ListeningPayload struct {
	ExerciseID string `json:"exercise_id"`
	Correct    bool   `json:"correct"`
}

// RecordActivityRequest is the raw activity envelope; exactly one of the
// kind-specific payloads must be set, matching Kind.
type RecordActivityRequest struct {
	Kind       string            `json:"kind"` // "quiz", "reading" or "listening"
	OccurredAt time.Time         `json:"occurred_at"`
	Quiz       *QuizPayload      `json:"quiz,omitempty"`
	Reading    *ReadingPayload   `json:"reading,omitempty"`
	Listening  *ListeningPayload `json:"listening,omitempty"`
}

// ProfileSummary is the profile as returned to the UI.
type ProfileSummary struct {
	UserID               string   `json:"user_id"`
	Name                 string   `json:"name,omitempty"`
	XP                   int64    `json:"xp"`
	Streak               int      `json:"streak"`
	LastActiveDate       string   `json:"last_active_date,omitempty"` // YYYY-MM-DD
	Badges               []string `json:"badges"`
	CompletedAssignments int      `json:"completed_assignments"`
}

// RecordActivityResponse tells the caller what the activity changed.
type RecordActivityResponse struct {
	XPGained       int64          `json:"xp_gained"`
	BadgesUnlocked []string       `json:"badges_unlocked"`
	Profile        ProfileSummary `json:"profile"`
}

// MessageResponse represents a generic message response.
type MessageResponse struct {
	Message string `json:"message"`
}
