package domain

import (
	"time"
)

// ScoreRecord is the best-ever result for one pronunciation sentence key.
type ScoreRecord struct {
	Score       int       // 0-100
	AttemptedAt time.Time // when the best score was achieved
}

// CompletedAssignment links a finished assignment to the stored attempt.
type CompletedAssignment struct {
	AssignmentID string
	CompletedAt  time.Time
	AttemptID    string // quiz attempt id, empty for non-quiz assignments
}

// UserProfile is the per-learner progress record. It is created lazily on
// the first recorded activity and mutated only through the progress update
// path; XP never decreases within this engine's concern.
type UserProfile struct {
	UserID string
	Name   string
	XP     int64
	Streak int

	// LastActiveDate is the UTC calendar date (time component zeroed) of the
	// most recent activity counted toward the streak. Zero means no activity
	// has ever been recorded.
	LastActiveDate time.Time

	Badges               map[string]bool
	PronunciationScores  map[string]ScoreRecord
	ListeningScores      map[string]bool
	CompletedAssignments []CompletedAssignment

	// Version is managed by the store and used for optimistic concurrency
	// control on saves.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProfile creates a fresh profile with zeroed progress.
func NewProfile(userID, name string) *UserProfile {
	now := time.Now()
	return &UserProfile{
		UserID:              userID,
		Name:                name,
		Badges:              map[string]bool{},
		PronunciationScores: map[string]ScoreRecord{},
		ListeningScores:     map[string]bool{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// HasCompletedAssignment reports whether the assignment id was already
// recorded as completed for this profile.
func (p *UserProfile) HasCompletedAssignment(assignmentID string) bool {
	for _, ca := range p.CompletedAssignments {
		if ca.AssignmentID == assignmentID {
			return true
		}
	}
	return false
}

// HasBadge reports badge membership; nil maps are treated as empty.
func (p *UserProfile) HasBadge(badgeID string) bool {
	return p.Badges[badgeID]
}

// BadgeCount returns the number of unlocked badges.
func (p *UserProfile) BadgeCount() int {
	return len(p.Badges)
}

// BestPronunciationScore returns the recorded best for a sentence key and
// whether any attempt exists for it.
func (p *UserProfile) BestPronunciationScore(key string) (ScoreRecord, bool) {
	rec, ok := p.PronunciationScores[key]
	return rec, ok
}

// Clone returns a deep copy. The orchestrator mutates a clone so that a
// failed save never leaves a half-applied profile visible to the caller.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	out := *p
	out.Badges = make(map[string]bool, len(p.Badges))
	for k, v := range p.Badges {
		out.Badges[k] = v
	}
	out.PronunciationScores = make(map[string]ScoreRecord, len(p.PronunciationScores))
	for k, v := range p.PronunciationScores {
		out.PronunciationScores[k] = v
	}
	out.ListeningScores = make(map[string]bool, len(p.ListeningScores))
	for k, v := range p.ListeningScores {
		out.ListeningScores[k] = v
	}
	out.CompletedAssignments = make([]CompletedAssignment, len(p.CompletedAssignments))
	copy(out.CompletedAssignments, p.CompletedAssignments)
	return &out
}

// XPEvent is one append-only XP ledger row. The trailing-week leaderboard
// metric is aggregated from these.
type XPEvent struct {
	ID         string
	UserID     string
	Kind       ActivityKind
	Key        string
	Amount     int64
	OccurredAt time.Time
	CreatedAt  time.Time
}
