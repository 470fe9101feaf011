package service

import (
	"context"
	"sort"
	"time"

	"lingolab/internal/config"
	"lingolab/internal/domain"
	"lingolab/internal/dto"
	"lingolab/internal/logger"
	"lingolab/internal/util"

	"go.uber.org/zap"
)

// ProgressService orchestrates the record-activity pipeline: normalize the
// raw payload, apply XP and streak rules, re-evaluate badges, and persist
// the result atomically. Concurrent submissions for the same user are
// serialized through optimistic versioning with a bounded retry loop.
type ProgressService interface {
	RecordActivity(ctx context.Context, userID string, req *dto.RecordActivityRequest) (*dto.RecordActivityResponse, error)
	GetProgress(ctx context.Context, userID string) (*dto.ProfileSummary, error)
}

type progressServiceImpl struct {
	profileStore domain.ProfileStore
	attemptStore domain.AttemptStore
	xpLedger     domain.XPLedger
	txManager    domain.TransactionManager
	badgeCatalog []domain.Badge
	cfg          *config.Config
}

// NewProgressService creates a new instance of ProgressService.
func NewProgressService(
	profileStore domain.ProfileStore,
	attemptStore domain.AttemptStore,
	xpLedger domain.XPLedger,
	txManager domain.TransactionManager,
	cfg *config.Config,
) ProgressService {
	return &progressServiceImpl{
		profileStore: profileStore,
		attemptStore: attemptStore,
		xpLedger:     xpLedger,
		txManager:    txManager,
		badgeCatalog: domain.BadgeCatalog(),
		cfg:          cfg,
	}
}

// normalizeActivity turns the raw request into a canonical event. Quiz
// submissions are graded here so the attempt record carries its derived
// score and percentage from the start.
func (s *progressServiceImpl) normalizeActivity(userID string, req *dto.RecordActivityRequest) (*domain.ActivityEvent, error) {
	switch domain.ActivityKind(req.Kind) {
	case domain.ActivityQuiz:
		if req.Quiz == nil {
			return nil, domain.NewInvalidActivityError("quiz payload is required for kind \"quiz\"")
		}
		questions := make([]domain.QuizQuestion, len(req.Quiz.Questions))
		for i, q := range req.Quiz.Questions {
			questions[i] = domain.QuizQuestion{Text: q.Text, Options: q.Options, Answer: q.Answer}
		}
		return domain.NewQuizEvent(userID, req.Quiz.AssignmentID, util.NewULID(), questions, req.Quiz.SelectedAnswers, req.OccurredAt)

	case domain.ActivityReading:
		if req.Reading == nil {
			return nil, domain.NewInvalidActivityError("reading payload is required for kind \"reading\"")
		}
		return domain.NewReadingEvent(req.Reading.Sentence, req.Reading.Score, req.OccurredAt)

	case domain.ActivityListening:
		if req.Listening == nil {
			return nil, domain.NewInvalidActivityError("listening payload is required for kind \"listening\"")
		}
		return domain.NewListeningEvent(req.Listening.ExerciseID, req.Listening.Correct, req.OccurredAt)

	default:
		return nil, domain.NewInvalidActivityError("unknown activity kind: " + req.Kind)
	}
}

// RecordActivity applies one activity to the user's profile and reports
// what changed. A resubmission of an already-completed assignment is a
// no-op: the stored profile is returned untouched and no attempt or XP
// row is written.
func (s *progressServiceImpl) RecordActivity(ctx context.Context, userID string, req *dto.RecordActivityRequest) (*dto.RecordActivityResponse, error) {
	log := logger.Get()

	event, err := s.normalizeActivity(userID, req)
	if err != nil {
		return nil, err
	}

	maxRetries := s.cfg.Progress.MaxSaveRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		resp, err := s.recordOnce(ctx, userID, event)
		if err == nil {
			return resp, nil
		}
		if !domain.IsVersionConflict(err) {
			return nil, err
		}
		lastErr = err
		log.Warn("profile version conflict, retrying",
			zap.String("userID", userID),
			zap.String("kind", string(event.Kind)),
			zap.Int("attempt", attempt+1),
		)
	}

	return nil, lastErr
}

// recordOnce runs one load-compute-save cycle against a single observed
// profile version. A stale save surfaces as a version conflict and the
// caller retries from a fresh read.
func (s *progressServiceImpl) recordOnce(ctx context.Context, userID string, event *domain.ActivityEvent) (*dto.RecordActivityResponse, error) {
	profile, err := s.profileStore.GetProfile(ctx, userID)
	if err != nil {
		return nil, domain.NewStoreError("failed to load profile", err)
	}
	isNew := profile == nil
	if isNew {
		profile = domain.NewProfile(userID, "")
	}

	// Assignment resubmissions change nothing, not even the streak.
	if event.Kind == domain.ActivityQuiz && event.AssignmentID != "" && profile.HasCompletedAssignment(event.AssignmentID) {
		return &dto.RecordActivityResponse{
			XPGained:       0,
			BadgesUnlocked: []string{},
			Profile:        toProfileSummary(profile),
		}, nil
	}

	// All rules run against a clone so a failed save leaves no trace of
	// this event in memory either.
	working := profile.Clone()

	xpGained, err := domain.ApplyEvent(working, event)
	if err != nil {
		return nil, err
	}

	history, err := s.attemptStore.AttemptsByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewStoreError("failed to load attempt history", err)
	}
	if event.Kind == domain.ActivityQuiz {
		history = append(history, *event.Attempt)
	}

	unlocked := s.applyBadges(working, history)

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if isNew {
			if err := s.profileStore.CreateProfile(txCtx, working); err != nil {
				return err
			}
		} else if err := s.profileStore.SaveProfile(txCtx, working, profile.Version); err != nil {
			return err
		}
		if event.Kind == domain.ActivityQuiz {
			if err := s.attemptStore.CreateAttempt(txCtx, event.Attempt); err != nil {
				return err
			}
		}
		if xpGained > 0 {
			xpEvent := &domain.XPEvent{
				ID:         util.NewULID(),
				UserID:     userID,
				Kind:       event.Kind,
				Key:        event.Key,
				Amount:     xpGained,
				OccurredAt: event.OccurredAt,
			}
			if err := s.xpLedger.AppendXPEvent(txCtx, xpEvent); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.RecordActivityResponse{
		XPGained:       xpGained,
		BadgesUnlocked: unlocked,
		Profile:        toProfileSummary(working),
	}, nil
}

// applyBadges re-evaluates the full catalog against the updated profile,
// merges newly earned badges in, and returns their ids sorted. Earned
// badges never come back off even if the predicate would now fail.
func (s *progressServiceImpl) applyBadges(p *domain.UserProfile, history []domain.QuizAttempt) []string {
	evaluated := domain.EvaluateBadges(s.badgeCatalog, p, history)

	unlocked := []string{}
	if p.Badges == nil {
		p.Badges = map[string]bool{}
	}
	for id, earned := range evaluated {
		if earned && !p.Badges[id] {
			p.Badges[id] = true
			unlocked = append(unlocked, id)
		}
	}
	sort.Strings(unlocked)
	return unlocked
}

// GetProgress returns the profile summary for the given user.
func (s *progressServiceImpl) GetProgress(ctx context.Context, userID string) (*dto.ProfileSummary, error) {
	profile, err := s.profileStore.GetProfile(ctx, userID)
	if err != nil {
		return nil, domain.NewStoreError("failed to load profile", err)
	}
	if profile == nil {
		return nil, domain.NewProfileNotFoundError(userID)
	}
	summary := toProfileSummary(profile)
	return &summary, nil
}

func toProfileSummary(p *domain.UserProfile) dto.ProfileSummary {
	badges := make([]string, 0, len(p.Badges))
	for id, earned := range p.Badges {
		if earned {
			badges = append(badges, id)
		}
	}
	sort.Strings(badges)

	lastActive := ""
	if !p.LastActiveDate.IsZero() {
		lastActive = p.LastActiveDate.Format(time.DateOnly)
	}

	return dto.ProfileSummary{
		UserID:               p.UserID,
		Name:                 p.Name,
		XP:                   p.XP,
		Streak:               p.Streak,
		LastActiveDate:       lastActive,
		Badges:               badges,
		CompletedAssignments: len(p.CompletedAssignments),
	}
}
