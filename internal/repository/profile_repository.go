package repository

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"lingolab/internal/domain"
	"lingolab/internal/repository/models"
	"lingolab/internal/util"

	"github.com/jmoiron/sqlx"
)

const profileColumns = `user_id, name, xp, streak, last_active_date, badges,
	pronunciation_scores, listening_scores, completed_assignments, version,
	created_at, updated_at`

// sqlxProfileRepository implements domain.ProfileStore using sqlx.
type sqlxProfileRepository struct {
	db *sqlx.DB
}

// NewSQLXProfileRepository creates a new instance of sqlxProfileRepository.
func NewSQLXProfileRepository(db *sqlx.DB) domain.ProfileStore {
	return &sqlxProfileRepository{db: db}
}

// GetProfile retrieves a profile by user id; (nil, nil) when absent.
func (r *sqlxProfileRepository) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var profile models.Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = :user_id`

	stmt, err := GetExecutor(ctx, r.db).PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, domain.NewStoreError("failed to prepare query for GetProfile", err)
	}
	defer stmt.Close()

	args := map[string]interface{}{"user_id": userID}
	if err := stmt.GetContext(ctx, &profile, args); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewStoreError("failed to get profile", err)
	}
	return toDomainProfile(&profile), nil
}

// CreateProfile inserts a profile row at version 1. A duplicate-key error
// means another request created the user first; that is reported as a
// version conflict so the caller re-reads.
func (r *sqlxProfileRepository) CreateProfile(ctx context.Context, profile *domain.UserProfile) error {
	model := fromDomainProfile(profile)
	model.Version = 1
	now := time.Now()
	model.CreatedAt = now
	model.UpdatedAt = now

	query := `INSERT INTO profiles (` + profileColumns + `) VALUES (
				:1, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11, :12)`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		model.UserID,
		model.Name,
		model.XP,
		model.Streak,
		model.LastActiveDate,
		model.Badges,
		model.PronunciationScores,
		model.ListeningScores,
		model.CompletedAssignments,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewVersionConflictError(profile.UserID)
		}
		return domain.NewStoreError("failed to create profile", err)
	}
	return nil
}

// isUniqueViolation detects Oracle's ORA-00001 unique constraint error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "ORA-00001")
}

// SaveProfile writes the profile guarded by the version column. A write
// that matches no row means a concurrent update bumped the version first;
// the caller re-reads and recomputes.
func (r *sqlxProfileRepository) SaveProfile(ctx context.Context, profile *domain.UserProfile, expectedVersion int64) error {
	model := fromDomainProfile(profile)
	model.Version = expectedVersion
	model.UpdatedAt = time.Now()

	query := `UPDATE profiles SET
				name = :1,
				xp = :2,
				streak = :3,
				last_active_date = :4,
				badges = :5,
				pronunciation_scores = :6,
				listening_scores = :7,
				completed_assignments = :8,
				version = version + 1,
				updated_at = :9
			  WHERE user_id = :10 AND version = :11`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		model.Name,
		model.XP,
		model.Streak,
		model.LastActiveDate,
		model.Badges,
		model.PronunciationScores,
		model.ListeningScores,
		model.CompletedAssignments,
		model.UpdatedAt,
		model.UserID,
		model.Version,
	)
	if err != nil {
		return domain.NewStoreError("failed to save profile", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.NewStoreError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return domain.NewVersionConflictError(profile.UserID)
	}
	return nil
}

// ListProfiles returns the full population for leaderboard builds.
func (r *sqlxProfileRepository) ListProfiles(ctx context.Context) ([]*domain.UserProfile, error) {
	var rows []models.Profile
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY user_id`

	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, domain.NewStoreError("failed to list profiles", err)
	}

	profiles := make([]*domain.UserProfile, len(rows))
	for i := range rows {
		profiles[i] = toDomainProfile(&rows[i])
	}
	return profiles, nil
}

func toDomainProfile(m *models.Profile) *domain.UserProfile {
	if m == nil {
		return nil
	}

	badges := make(map[string]bool, len(m.Badges))
	for _, id := range m.Badges {
		badges[id] = true
	}

	scores := make(map[string]domain.ScoreRecord, len(m.PronunciationScores))
	for k, v := range m.PronunciationScores {
		scores[k] = domain.ScoreRecord{Score: v.Score, AttemptedAt: v.AttemptedAt}
	}

	listening := make(map[string]bool, len(m.ListeningScores))
	for k, v := range m.ListeningScores {
		listening[k] = v
	}

	assignments := make([]domain.CompletedAssignment, len(m.CompletedAssignments))
	for i, a := range m.CompletedAssignments {
		assignments[i] = domain.CompletedAssignment{
			AssignmentID: a.AssignmentID,
			CompletedAt:  a.CompletedAt,
			AttemptID:    a.AttemptID,
		}
	}

	var lastActive time.Time
	if m.LastActiveDate.Valid {
		lastActive = domain.CalendarDate(m.LastActiveDate.Time)
	}

	return &domain.UserProfile{
		UserID:               m.UserID,
		Name:                 m.Name.String,
		XP:                   m.XP,
		Streak:               m.Streak,
		LastActiveDate:       lastActive,
		Badges:               badges,
		PronunciationScores:  scores,
		ListeningScores:      listening,
		CompletedAssignments: assignments,
		Version:              m.Version,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func fromDomainProfile(p *domain.UserProfile) *models.Profile {
	if p == nil {
		return nil
	}

	// Badge set is serialized sorted so the stored JSON is stable.
	badges := make(models.StringSlice, 0, len(p.Badges))
	for id := range p.Badges {
		badges = append(badges, id)
	}
	sort.Strings(badges)

	scores := make(models.ScoreMap, len(p.PronunciationScores))
	for k, v := range p.PronunciationScores {
		scores[k] = models.ScoreEntry{Score: v.Score, AttemptedAt: v.AttemptedAt}
	}

	listening := make(models.BoolMap, len(p.ListeningScores))
	for k, v := range p.ListeningScores {
		listening[k] = v
	}

	assignments := make(models.AssignmentList, len(p.CompletedAssignments))
	for i, a := range p.CompletedAssignments {
		assignments[i] = models.AssignmentEntry{
			AssignmentID: a.AssignmentID,
			CompletedAt:  a.CompletedAt,
			AttemptID:    a.AttemptID,
		}
	}

	return &models.Profile{
		UserID:               p.UserID,
		Name:                 util.StringToNullString(p.Name),
		XP:                   p.XP,
		Streak:               p.Streak,
		LastActiveDate:       util.TimeToNullTime(p.LastActiveDate),
		Badges:               badges,
		PronunciationScores:  scores,
		ListeningScores:      listening,
		CompletedAssignments: assignments,
		Version:              p.Version,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}
