package service

import (
	"context"
	"os"
	"testing"
	"time"

	"lingolab/internal/config"
	"lingolab/internal/domain"
	"lingolab/internal/dto"
	"lingolab/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "debug", Env: "test"}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestConfig() *config.Config {
	return &config.Config{
		Progress:    config.ProgressConfig{MaxSaveRetries: 3},
		Leaderboard: config.LeaderboardConfig{CacheTTL: time.Minute, Limit: 50},
	}
}

type progressMocks struct {
	profiles *MockProfileStore
	attempts *MockAttemptStore
	ledger   *MockXPLedger
	tx       *MockTransactionManager
}

func newProgressService(cfg *config.Config) (ProgressService, *progressMocks) {
	m := &progressMocks{
		profiles: new(MockProfileStore),
		attempts: new(MockAttemptStore),
		ledger:   new(MockXPLedger),
		tx:       new(MockTransactionManager),
	}
	svc := NewProgressService(m.profiles, m.attempts, m.ledger, m.tx, cfg)
	return svc, m
}

// fourOfFiveQuiz builds a five-question quiz with four correct answers.
func fourOfFiveQuiz(assignmentID string) *dto.RecordActivityRequest {
	questions := make([]dto.QuizQuestionPayload, 5)
	selected := make([]string, 5)
	for i := range questions {
		questions[i] = dto.QuizQuestionPayload{Text: "q", Options: []string{"a", "b"}, Answer: "a"}
		selected[i] = "a"
	}
	selected[4] = "b"

	return &dto.RecordActivityRequest{
		Kind:       string(domain.ActivityQuiz),
		OccurredAt: time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC),
		Quiz: &dto.QuizPayload{
			AssignmentID:    assignmentID,
			Questions:       questions,
			SelectedAnswers: selected,
		},
	}
}

func TestRecordActivity_QuizFirstTime(t *testing.T) {
	svc, m := newProgressService(newTestConfig())
	ctx := context.Background()

	m.profiles.On("GetProfile", mock.Anything, "user-1").Return(nil, nil)
	m.attempts.On("AttemptsByUser", mock.Anything, "user-1").Return([]domain.QuizAttempt{}, nil)
	m.tx.On("WithTransaction", mock.Anything).Return(nil)
	m.profiles.On("CreateProfile", mock.Anything, mock.AnythingOfType("*domain.UserProfile")).Return(nil)
	m.attempts.On("CreateAttempt", mock.Anything, mock.AnythingOfType("*domain.QuizAttempt")).Return(nil)
	m.ledger.On("AppendXPEvent", mock.Anything, mock.AnythingOfType("*domain.XPEvent")).Return(nil)

	resp, err := svc.RecordActivity(ctx, "user-1", fourOfFiveQuiz("hw-1"))
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, int64(80), resp.XPGained)
	assert.Equal(t, 1, resp.Profile.Streak)
	assert.Equal(t, int64(80), resp.Profile.XP)
	assert.Equal(t, "2026-03-10", resp.Profile.LastActiveDate)
	assert.Equal(t, 1, resp.Profile.CompletedAssignments)
	assert.Equal(t, []string{"first_assignment", "quiz_starter"}, resp.BadgesUnlocked)

	m.profiles.AssertExpectations(t)
	m.attempts.AssertExpectations(t)
	m.ledger.AssertExpectations(t)
	m.tx.AssertExpectations(t)
}

func TestRecordActivity_DuplicateAssignmentIsNoOp(t *testing.T) {
	svc, m := newProgressService(newTestConfig())
	ctx := context.Background()

	existing := domain.NewProfile("user-1", "Mina")
	existing.XP = 80
	existing.Streak = 2
	existing.Version = 3
	existing.LastActiveDate = domain.CalendarDate(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))
	existing.Badges = map[string]bool{"quiz_starter": true, "first_assignment": true}
	existing.CompletedAssignments = []domain.CompletedAssignment{
		{AssignmentID: "hw-1", CompletedAt: time.Now(), AttemptID: "attempt-1"},
	}

	m.profiles.On("GetProfile", mock.Anything, "user-1").Return(existing, nil)

	resp, err := svc.RecordActivity(ctx, "user-1", fourOfFiveQuiz("hw-1"))
	require.NoError(t, err)

	assert.Zero(t, resp.XPGained)
	assert.Empty(t, resp.BadgesUnlocked)
	assert.Equal(t, int64(80), resp.Profile.XP)
	assert.Equal(t, 2, resp.Profile.Streak)
	assert.Equal(t, 1, resp.Profile.CompletedAssignments)

	// Nothing is written for a resubmission, not even an attempt row.
	m.tx.AssertNotCalled(t, "WithTransaction", mock.Anything)
	m.attempts.AssertNotCalled(t, "CreateAttempt", mock.Anything, mock.Anything)
	m.profiles.AssertExpectations(t)
}

func TestRecordActivity_VersionConflictRetries(t *testing.T) {
	svc, m := newProgressService(newTestConfig())
	ctx := context.Background()

	existing := domain.NewProfile("user-1", "Mina")
	existing.Version = 2

	m.profiles.On("GetProfile", mock.Anything, "user-1").Return(existing, nil)
	m.attempts.On("AttemptsByUser", mock.Anything, "user-1").Return([]domain.QuizAttempt{}, nil)
	m.tx.On("WithTransaction", mock.Anything).Return(nil)
	m.profiles.On("SaveProfile", mock.Anything, mock.AnythingOfType("*domain.UserProfile"), int64(2)).
		Return(domain.NewVersionConflictError("user-1")).Once()
	m.profiles.On("SaveProfile", mock.Anything, mock.AnythingOfType("*domain.UserProfile"), int64(2)).
		Return(nil).Once()
	m.ledger.On("AppendXPEvent", mock.Anything, mock.AnythingOfType("*domain.XPEvent")).Return(nil)

	req := &dto.RecordActivityRequest{
		Kind:       string(domain.ActivityReading),
		OccurredAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		Reading:    &dto.ReadingPayload{Sentence: "Hello there", Score: 75},
	}

	resp, err := svc.RecordActivity(ctx, "user-1", req)
	require.NoError(t, err)

	assert.Equal(t, int64(75), resp.XPGained)
	m.profiles.AssertNumberOfCalls(t, "GetProfile", 2)
	m.profiles.AssertNumberOfCalls(t, "SaveProfile", 2)
}

func TestRecordActivity_VersionConflictExhausted(t *testing.T) {
	cfg := newTestConfig()
	cfg.Progress.MaxSaveRetries = 2
	svc, m := newProgressService(cfg)
	ctx := context.Background()

	existing := domain.NewProfile("user-1", "")
	existing.Version = 1

	m.profiles.On("GetProfile", mock.Anything, "user-1").Return(existing, nil)
	m.attempts.On("AttemptsByUser", mock.Anything, "user-1").Return([]domain.QuizAttempt{}, nil)
	m.tx.On("WithTransaction", mock.Anything).Return(nil)
	m.profiles.On("SaveProfile", mock.Anything, mock.Anything, int64(1)).
		Return(domain.NewVersionConflictError("user-1"))

	req := &dto.RecordActivityRequest{
		Kind:       string(domain.ActivityListening),
		OccurredAt: time.Now(),
		Listening:  &dto.ListeningPayload{ExerciseID: "ex-9", Correct: true},
	}

	resp, err := svc.RecordActivity(ctx, "user-1", req)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, domain.IsVersionConflict(err))
	m.profiles.AssertNumberOfCalls(t, "SaveProfile", 2)
}

func TestRecordActivity_ReadingImprovementGrantsDelta(t *testing.T) {
	svc, m := newProgressService(newTestConfig())
	ctx := context.Background()

	sentence := "The quick brown fox"
	existing := domain.NewProfile("user-1", "")
	existing.Version = 4
	existing.XP = 60
	existing.PronunciationScores = map[string]domain.ScoreRecord{
		domain.SentenceKey(sentence): {Score: 60, AttemptedAt: time.Now().Add(-time.Hour)},
	}

	m.profiles.On("GetProfile", mock.Anything, "user-1").Return(existing, nil)
	m.attempts.On("AttemptsByUser", mock.Anything, "user-1").Return([]domain.QuizAttempt{}, nil)
	m.tx.On("WithTransaction", mock.Anything).Return(nil)
	m.profiles.On("SaveProfile", mock.Anything, mock.Anything, int64(4)).Return(nil)
	m.ledger.On("AppendXPEvent", mock.Anything, mock.MatchedBy(func(ev *domain.XPEvent) bool {
		return ev.Amount == 20 && ev.Kind == domain.ActivityReading
	})).Return(nil)

	req := &dto.RecordActivityRequest{
		Kind:       string(domain.ActivityReading),
		OccurredAt: time.Now(),
		Reading:    &dto.ReadingPayload{Sentence: sentence, Score: 80},
	}

	resp, err := svc.RecordActivity(ctx, "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, int64(20), resp.XPGained)
	assert.Equal(t, int64(80), resp.Profile.XP)
	m.ledger.AssertExpectations(t)
}

func TestRecordActivity_ListeningRepeatGrantsNothing(t *testing.T) {
	svc, m := newProgressService(newTestConfig())
	ctx := context.Background()

	existing := domain.NewProfile("user-1", "")
	existing.Version = 1
	existing.ListeningScores = map[string]bool{"ex-9": true}

	m.profiles.On("GetProfile", mock.Anything, "user-1").Return(existing, nil)
	m.attempts.On("AttemptsByUser", mock.Anything, "user-1").Return([]domain.QuizAttempt{}, nil)
	m.tx.On("WithTransaction", mock.Anything).Return(nil)
	m.profiles.On("SaveProfile", mock.Anything, mock.Anything, int64(1)).Return(nil)

	req := &dto.RecordActivityRequest{
		Kind:       string(domain.ActivityListening),
		OccurredAt: time.Now(),
		Listening:  &dto.ListeningPayload{ExerciseID: "ex-9", Correct: true},
	}

	resp, err := svc.RecordActivity(ctx, "user-1", req)
	require.NoError(t, err)

	// The streak still advances, so the profile is saved, but no XP row.
	assert.Zero(t, resp.XPGained)
	m.ledger.AssertNotCalled(t, "AppendXPEvent", mock.Anything, mock.Anything)
}

func TestRecordActivity_UnknownKind(t *testing.T) {
	svc, m := newProgressService(newTestConfig())

	req := &dto.RecordActivityRequest{Kind: "speaking", OccurredAt: time.Now()}
	resp, err := svc.RecordActivity(context.Background(), "user-1", req)

	require.Error(t, err)
	assert.Nil(t, resp)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInvalidActivity, domainErr.Code)
	m.profiles.AssertNotCalled(t, "GetProfile", mock.Anything, mock.Anything)
}

func TestGetProgress_Success(t *testing.T) {
	svc, m := newProgressService(newTestConfig())

	existing := domain.NewProfile("user-1", "Mina")
	existing.XP = 350
	existing.Streak = 4
	existing.LastActiveDate = domain.CalendarDate(time.Date(2026, 3, 10, 23, 50, 0, 0, time.UTC))
	existing.Badges = map[string]bool{"quiz_starter": true, "xp_100": true}

	m.profiles.On("GetProfile", mock.Anything, "user-1").Return(existing, nil)

	summary, err := svc.GetProgress(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, int64(350), summary.XP)
	assert.Equal(t, 4, summary.Streak)
	assert.Equal(t, "2026-03-10", summary.LastActiveDate)
	assert.Equal(t, []string{"quiz_starter", "xp_100"}, summary.Badges)
}

func TestGetProgress_NotFound(t *testing.T) {
	svc, m := newProgressService(newTestConfig())

	m.profiles.On("GetProfile", mock.Anything, "ghost").Return(nil, nil)

	summary, err := svc.GetProgress(context.Background(), "ghost")
	require.Error(t, err)
	assert.Nil(t, summary)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeNotFound, domainErr.Code)
}
