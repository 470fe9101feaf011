package repository

import (
	"context"
	"time"

	"lingolab/internal/domain"
	"lingolab/internal/repository/models"
	"lingolab/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxAttemptRepository implements domain.AttemptStore using sqlx.
type sqlxAttemptRepository struct {
	db *sqlx.DB
}

// NewSQLXAttemptRepository creates a new instance of sqlxAttemptRepository.
func NewSQLXAttemptRepository(db *sqlx.DB) domain.AttemptStore {
	return &sqlxAttemptRepository{db: db}
}

// CreateAttempt inserts one immutable quiz attempt row.
func (r *sqlxAttemptRepository) CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	model := fromDomainAttempt(attempt)
	model.CreatedAt = time.Now()

	query := `INSERT INTO quiz_attempts (id, user_id, assignment_id, questions, selected_answers, score, percentage, completed_at, created_at)
	          VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9)`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		model.ID,
		model.UserID,
		model.AssignmentID,
		model.Questions,
		model.SelectedAnswers,
		model.Score,
		model.Percentage,
		model.CompletedAt,
		model.CreatedAt,
	)
	if err != nil {
		return domain.NewStoreError("failed to create quiz attempt", err)
	}
	return nil
}

// AttemptsByUser returns a user's full attempt history, oldest first.
func (r *sqlxAttemptRepository) AttemptsByUser(ctx context.Context, userID string) ([]domain.QuizAttempt, error) {
	var rows []models.QuizAttempt
	query := `SELECT id, user_id, assignment_id, questions, selected_answers, score, percentage, completed_at, created_at
	          FROM quiz_attempts WHERE user_id = :user_id ORDER BY completed_at`

	stmt, err := GetExecutor(ctx, r.db).PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, domain.NewStoreError("failed to prepare query for AttemptsByUser", err)
	}
	defer stmt.Close()

	args := map[string]interface{}{"user_id": userID}
	if err := stmt.SelectContext(ctx, &rows, args); err != nil {
		return nil, domain.NewStoreError("failed to list quiz attempts", err)
	}

	attempts := make([]domain.QuizAttempt, len(rows))
	for i := range rows {
		attempts[i] = *toDomainAttempt(&rows[i])
	}
	return attempts, nil
}

func toDomainAttempt(m *models.QuizAttempt) *domain.QuizAttempt {
	if m == nil {
		return nil
	}

	questions := make([]domain.QuizQuestion, len(m.Questions))
	for i, q := range m.Questions {
		questions[i] = domain.QuizQuestion{Text: q.Text, Options: q.Options, Answer: q.Answer}
	}

	return &domain.QuizAttempt{
		ID:              m.ID,
		UserID:          m.UserID,
		AssignmentID:    m.AssignmentID.String,
		Questions:       questions,
		SelectedAnswers: []string(m.SelectedAnswers),
		Score:           m.Score,
		Percentage:      m.Percentage,
		CompletedAt:     m.CompletedAt,
	}
}

func fromDomainAttempt(a *domain.QuizAttempt) *models.QuizAttempt {
	if a == nil {
		return nil
	}

	questions := make(models.QuestionList, len(a.Questions))
	for i, q := range a.Questions {
		questions[i] = models.QuestionEntry{Text: q.Text, Options: q.Options, Answer: q.Answer}
	}

	return &models.QuizAttempt{
		ID:              a.ID,
		UserID:          a.UserID,
		AssignmentID:    util.StringToNullString(a.AssignmentID),
		Questions:       questions,
		SelectedAnswers: models.StringSlice(a.SelectedAnswers),
		Score:           a.Score,
		Percentage:      a.Percentage,
		CompletedAt:     a.CompletedAt,
	}
}
