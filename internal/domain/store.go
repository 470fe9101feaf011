package domain

import (
	"context"
	"time"
)

// ProfileStore is the port to profile persistence. Implementations return
// (nil, nil) when no profile exists for the user.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)

	// CreateProfile inserts a brand-new profile at version 1. Two racers
	// creating the same user collide on the primary key; that surfaces as
	// CodeVersionConflict so the loser re-reads the winner's row.
	CreateProfile(ctx context.Context, profile *UserProfile) error

	// SaveProfile persists the profile if and only if the stored version
	// still equals expectedVersion, bumping the version on success. A stale
	// write is reported with CodeVersionConflict so the caller can re-read
	// and recompute.
	SaveProfile(ctx context.Context, profile *UserProfile, expectedVersion int64) error

	ListProfiles(ctx context.Context) ([]*UserProfile, error)
}

// AttemptStore persists immutable quiz attempts (append-only history).
type AttemptStore interface {
	CreateAttempt(ctx context.Context, attempt *QuizAttempt) error
	AttemptsByUser(ctx context.Context, userID string) ([]QuizAttempt, error)
}

// XPLedger records XP grants and aggregates them for the trailing-week
// leaderboard metric.
type XPLedger interface {
	AppendXPEvent(ctx context.Context, event *XPEvent) error
	WeeklyXPTotals(ctx context.Context, since time.Time) (map[string]int64, error)
}

// TransactionManager runs fn within a storage transaction; the transaction
// travels in the context so repositories can pick it up.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
