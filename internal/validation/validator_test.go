package validation

import (
	"testing"
	"time"

	"lingolab/internal/domain"
	"lingolab/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuizRequest() *dto.RecordActivityRequest {
	return &dto.RecordActivityRequest{
		Kind:       "quiz",
		OccurredAt: time.Now(),
		Quiz: &dto.QuizPayload{
			AssignmentID: "hw-1",
			Questions: []dto.QuizQuestionPayload{
				{Text: "pick a", Options: []string{"a", "b"}, Answer: "a"},
				{Text: "pick b", Options: []string{"a", "b"}, Answer: "b"},
			},
			SelectedAnswers: []string{"a", "b"},
		},
	}
}

func TestValidateRecordActivityRequest(t *testing.T) {
	t.Run("valid quiz passes", func(t *testing.T) {
		assert.NoError(t, ValidateRecordActivityRequest(validQuizRequest()))
	})

	t.Run("nil body", func(t *testing.T) {
		err := ValidateRecordActivityRequest(nil)
		require.Error(t, err)
	})

	t.Run("missing kind and occurred_at", func(t *testing.T) {
		err := ValidateRecordActivityRequest(&dto.RecordActivityRequest{})
		require.Error(t, err)

		var errs domain.ValidationErrors
		require.ErrorAs(t, err, &errs)
		fields := make([]string, len(errs))
		for i, e := range errs {
			fields[i] = e.Field
		}
		assert.Contains(t, fields, "kind")
		assert.Contains(t, fields, "occurred_at")
	})

	t.Run("unknown kind", func(t *testing.T) {
		req := &dto.RecordActivityRequest{Kind: "speaking", OccurredAt: time.Now()}
		err := ValidateRecordActivityRequest(req)
		require.Error(t, err)
	})

	t.Run("quiz payload required", func(t *testing.T) {
		req := validQuizRequest()
		req.Quiz = nil
		err := ValidateRecordActivityRequest(req)
		require.Error(t, err)

		var errs domain.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Equal(t, "quiz", errs[0].Field)
	})

	t.Run("answer count mismatch", func(t *testing.T) {
		req := validQuizRequest()
		req.Quiz.SelectedAnswers = []string{"a"}
		err := ValidateRecordActivityRequest(req)
		require.Error(t, err)
	})

	t.Run("reading score out of range", func(t *testing.T) {
		req := &dto.RecordActivityRequest{
			Kind:       "reading",
			OccurredAt: time.Now(),
			Reading:    &dto.ReadingPayload{Sentence: "hello", Score: 120},
		}
		err := ValidateRecordActivityRequest(req)
		require.Error(t, err)

		var errs domain.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Equal(t, "reading.score", errs[0].Field)
	})

	t.Run("listening exercise id required", func(t *testing.T) {
		req := &dto.RecordActivityRequest{
			Kind:       "listening",
			OccurredAt: time.Now(),
			Listening:  &dto.ListeningPayload{ExerciseID: "  "},
		}
		err := ValidateRecordActivityRequest(req)
		require.Error(t, err)
	})
}
