package validation

import (
	"strconv"
	"strings"

	"lingolab/internal/domain"
	"lingolab/internal/dto"
)

// ValidateRecordActivityRequest checks the raw activity envelope before it
// reaches the orchestrator. Shape errors are reported per field; semantic
// errors (answer/question mismatch, duplicate assignments) belong to the
// domain layer.
func ValidateRecordActivityRequest(req *dto.RecordActivityRequest) error {
	var errs domain.ValidationErrors

	if req == nil {
		return domain.ValidationErrors{domain.NewMissingFieldError("body")}
	}

	if strings.TrimSpace(req.Kind) == "" {
		errs = append(errs, domain.NewMissingFieldError("kind"))
	}
	if req.OccurredAt.IsZero() {
		errs = append(errs, domain.NewMissingFieldError("occurred_at"))
	}

	switch domain.ActivityKind(req.Kind) {
	case domain.ActivityQuiz:
		errs = append(errs, validateQuizPayload(req.Quiz)...)
	case domain.ActivityReading:
		errs = append(errs, validateReadingPayload(req.Reading)...)
	case domain.ActivityListening:
		errs = append(errs, validateListeningPayload(req.Listening)...)
	case "":
		// already reported above
	default:
		errs = append(errs, domain.NewInvalidFormatError("kind", req.Kind))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateQuizPayload(quiz *dto.QuizPayload) domain.ValidationErrors {
	if quiz == nil {
		return domain.ValidationErrors{domain.NewMissingFieldError("quiz")}
	}

	var errs domain.ValidationErrors
	if len(quiz.Questions) == 0 {
		errs = append(errs, domain.NewMissingFieldError("quiz.questions"))
	}
	for i, q := range quiz.Questions {
		if strings.TrimSpace(q.Answer) == "" {
			errs = append(errs, domain.ValidationError{
				Field:   "quiz.questions",
				Message: "question " + strconv.Itoa(i) + " has no answer",
			})
		}
	}
	if len(quiz.Questions) > 0 && len(quiz.SelectedAnswers) != len(quiz.Questions) {
		errs = append(errs, domain.NewInvalidFormatError("quiz.selected_answers", len(quiz.SelectedAnswers)))
	}
	return errs
}

func validateReadingPayload(reading *dto.ReadingPayload) domain.ValidationErrors {
	if reading == nil {
		return domain.ValidationErrors{domain.NewMissingFieldError("reading")}
	}

	var errs domain.ValidationErrors
	if strings.TrimSpace(reading.Sentence) == "" {
		errs = append(errs, domain.NewMissingFieldError("reading.sentence"))
	}
	if reading.Score < 0 || reading.Score > 100 {
		errs = append(errs, domain.NewOutOfRangeError("reading.score", reading.Score, 0, 100))
	}
	return errs
}

func validateListeningPayload(listening *dto.ListeningPayload) domain.ValidationErrors {
	if listening == nil {
		return domain.ValidationErrors{domain.NewMissingFieldError("listening")}
	}

	var errs domain.ValidationErrors
	if strings.TrimSpace(listening.ExerciseID) == "" {
		errs = append(errs, domain.NewMissingFieldError("listening.exercise_id"))
	}
	return errs
}
