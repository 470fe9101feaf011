package domain

import "time"

// XP awarded when a listening exercise flips from unanswered/incorrect to
// correct for the first time.
const listeningXPAward = 20

// CalendarDate truncates t to its UTC calendar date. All streak arithmetic
// happens on these values; evaluating streaks in a per-user local time zone
// would change outcomes near midnight.
func CalendarDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole-day difference between two calendar dates.
func daysBetween(earlier, later time.Time) int {
	return int(later.Sub(earlier).Hours() / 24)
}

// advanceStreak applies the consecutive-day rule: same day leaves the
// streak unchanged, the day after increments it, any larger gap (or no
// prior activity) resets it to 1. LastActiveDate always moves to the
// event's date regardless of the XP outcome.
func advanceStreak(p *UserProfile, occurredAt time.Time) {
	today := CalendarDate(occurredAt)

	switch {
	case p.LastActiveDate.IsZero():
		p.Streak = 1
	case p.LastActiveDate.Equal(today):
		// already active today
	case daysBetween(p.LastActiveDate, today) == 1:
		p.Streak++
	default:
		p.Streak = 1
	}
	p.LastActiveDate = today
}

// ApplyEvent mutates the profile with one normalized activity event and
// returns the XP granted. The caller is expected to pass a clone when it
// needs rollback on persistence failure.
//
// A quiz event tied to an already-completed assignment is rejected upstream
// by the orchestrator; ApplyEvent still guards against it and grants
// nothing in that case.
func ApplyEvent(p *UserProfile, ev *ActivityEvent) (int64, error) {
	if ev == nil {
		return 0, NewInvalidActivityError("activity event is nil")
	}

	var xpDelta int64

	switch ev.Kind {
	case ActivityQuiz:
		if ev.Attempt == nil {
			return 0, NewInvalidActivityError("quiz event carries no attempt")
		}
		if ev.AssignmentID != "" {
			if p.HasCompletedAssignment(ev.AssignmentID) {
				return 0, nil
			}
			p.CompletedAssignments = append(p.CompletedAssignments, CompletedAssignment{
				AssignmentID: ev.AssignmentID,
				CompletedAt:  ev.OccurredAt,
				AttemptID:    ev.Attempt.ID,
			})
		}
		xpDelta = int64(ev.Attempt.Percentage)

	case ActivityReading:
		if p.PronunciationScores == nil {
			p.PronunciationScores = map[string]ScoreRecord{}
		}
		prev, ok := p.PronunciationScores[ev.Key]
		if !ok {
			p.PronunciationScores[ev.Key] = ScoreRecord{Score: ev.Score, AttemptedAt: ev.OccurredAt}
			xpDelta = int64(ev.Score)
		} else if ev.Score > prev.Score {
			p.PronunciationScores[ev.Key] = ScoreRecord{Score: ev.Score, AttemptedAt: ev.OccurredAt}
			xpDelta = int64(ev.Score - prev.Score)
		}
		// Non-improvements leave the stored best untouched and grant nothing.

	case ActivityListening:
		if p.ListeningScores == nil {
			p.ListeningScores = map[string]bool{}
		}
		if ev.Correct && !p.ListeningScores[ev.Key] {
			p.ListeningScores[ev.Key] = true
			xpDelta = listeningXPAward
		}

	default:
		return 0, NewInvalidActivityError("unknown activity kind: " + string(ev.Kind))
	}

	p.XP += xpDelta
	advanceStreak(p, ev.OccurredAt)
	p.UpdatedAt = time.Now()

	return xpDelta, nil
}
