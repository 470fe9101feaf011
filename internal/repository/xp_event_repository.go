package repository

import (
	"context"
	"time"

	"lingolab/internal/domain"
	"lingolab/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxXPEventRepository implements domain.XPLedger using sqlx.
type sqlxXPEventRepository struct {
	db *sqlx.DB
}

// NewSQLXXPEventRepository creates a new instance of sqlxXPEventRepository.
func NewSQLXXPEventRepository(db *sqlx.DB) domain.XPLedger {
	return &sqlxXPEventRepository{db: db}
}

// AppendXPEvent inserts one ledger row; rows are never updated or deleted.
func (r *sqlxXPEventRepository) AppendXPEvent(ctx context.Context, event *domain.XPEvent) error {
	model := &models.XPEvent{
		ID:         event.ID,
		UserID:     event.UserID,
		Kind:       string(event.Kind),
		EventKey:   event.Key,
		Amount:     event.Amount,
		OccurredAt: event.OccurredAt,
		CreatedAt:  time.Now(),
	}

	query := `INSERT INTO xp_events (id, user_id, kind, event_key, amount, occurred_at, created_at)
	          VALUES (:1, :2, :3, :4, :5, :6, :7)`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		model.ID,
		model.UserID,
		model.Kind,
		model.EventKey,
		model.Amount,
		model.OccurredAt,
		model.CreatedAt,
	)
	if err != nil {
		return domain.NewStoreError("failed to append xp event", err)
	}
	return nil
}

// WeeklyXPTotals sums per-user XP earned since the cutoff. This backs the
// trailing-week leaderboard metric.
func (r *sqlxXPEventRepository) WeeklyXPTotals(ctx context.Context, since time.Time) (map[string]int64, error) {
	type row struct {
		UserID string `db:"USER_ID"`
		Total  int64  `db:"TOTAL"`
	}

	var rows []row
	query := `SELECT user_id, SUM(amount) AS total
	          FROM xp_events WHERE occurred_at >= :since
	          GROUP BY user_id`

	stmt, err := GetExecutor(ctx, r.db).PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, domain.NewStoreError("failed to prepare query for WeeklyXPTotals", err)
	}
	defer stmt.Close()

	args := map[string]interface{}{"since": since}
	if err := stmt.SelectContext(ctx, &rows, args); err != nil {
		return nil, domain.NewStoreError("failed to aggregate weekly xp", err)
	}

	totals := make(map[string]int64, len(rows))
	for _, r := range rows {
		totals[r.UserID] = r.Total
	}
	return totals, nil
}
