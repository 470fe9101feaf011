package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

func jsonValue(v interface{}) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func jsonScan(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("json column scan: unsupported type %T", value)
	}

	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

// StringSlice stores a string array as a JSON column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return jsonValue(s)
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	*s = StringSlice{}
	return jsonScan(value, s)
}

// ScoreEntry mirrors one best-ever pronunciation result inside the JSON map.
type ScoreEntry struct {
	Score       int       `json:"score"`
	AttemptedAt time.Time `json:"attempted_at"`
}

// ScoreMap stores the per-sentence best scores as a JSON column.
type ScoreMap map[string]ScoreEntry

func (m ScoreMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return jsonValue(m)
}

func (m *ScoreMap) Scan(value interface{}) error {
	*m = ScoreMap{}
	return jsonScan(value, m)
}

// BoolMap stores listening correctness flags as a JSON column.
type BoolMap map[string]bool

func (m BoolMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return jsonValue(m)
}

func (m *BoolMap) Scan(value interface{}) error {
	*m = BoolMap{}
	return jsonScan(value, m)
}

// AssignmentEntry mirrors one completed-assignment record inside the JSON list.
type AssignmentEntry struct {
	AssignmentID string    `json:"assignment_id"`
	CompletedAt  time.Time `json:"completed_at"`
	AttemptID    string    `json:"attempt_id,omitempty"`
}

// AssignmentList stores completed assignments as a JSON column.
type AssignmentList []AssignmentEntry

func (l AssignmentList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return jsonValue(l)
}

func (l *AssignmentList) Scan(value interface{}) error {
	*l = AssignmentList{}
	return jsonScan(value, l)
}

// Profile represents a learner's progress row.
type Profile struct {
	UserID               string         `db:"USER_ID"`
	Name                 sql.NullString `db:"NAME"`
	XP                   int64          `db:"XP"`
	Streak               int            `db:"STREAK"`
	LastActiveDate       sql.NullTime   `db:"LAST_ACTIVE_DATE"`
	Badges               StringSlice    `db:"BADGES"`
	PronunciationScores  ScoreMap       `db:"PRONUNCIATION_SCORES"`
	ListeningScores      BoolMap        `db:"LISTENING_SCORES"`
	CompletedAssignments AssignmentList `db:"COMPLETED_ASSIGNMENTS"`
	Version              int64          `db:"VERSION"`
	CreatedAt            time.Time      `db:"CREATED_AT"`
	UpdatedAt            time.Time      `db:"UPDATED_AT"`
}

// QuestionEntry mirrors one quiz question inside the JSON column.
type QuestionEntry struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

// QuestionList stores quiz questions as a JSON column.
type QuestionList []QuestionEntry

func (l QuestionList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return jsonValue(l)
}

func (l *QuestionList) Scan(value interface{}) error {
	*l = QuestionList{}
	return jsonScan(value, l)
}

// QuizAttempt represents one immutable quiz submission row.
type QuizAttempt struct {
	ID              string         `db:"ID"` // ULID
	UserID          string         `db:"USER_ID"`
	AssignmentID    sql.NullString `db:"ASSIGNMENT_ID"`
	Questions       QuestionList   `db:"QUESTIONS"`
	SelectedAnswers StringSlice    `db:"SELECTED_ANSWERS"`
	Score           int            `db:"SCORE"`
	Percentage      int            `db:"PERCENTAGE"`
	CompletedAt     time.Time      `db:"COMPLETED_AT"`
	CreatedAt       time.Time      `db:"CREATED_AT"`
}

// XPEvent represents one append-only XP ledger row.
type XPEvent struct {
	ID         string    `db:"ID"` // ULID
	UserID     string    `db:"USER_ID"`
	Kind       string    `db:"KIND"`
	EventKey   string    `db:"EVENT_KEY"` // "KEY" is reserved in Oracle
	Amount     int64     `db:"AMOUNT"`
	OccurredAt time.Time `db:"OCCURRED_AT"`
	CreatedAt  time.Time `db:"CREATED_AT"`
}
