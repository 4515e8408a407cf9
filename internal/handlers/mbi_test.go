package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellmed/internal/scoring"
)

func fullAnswers(value int) []scoring.Answer {
	out := make([]scoring.Answer, 0, scoring.QuestionCount)
	for q := 1; q <= scoring.QuestionCount; q++ {
		out = append(out, scoring.Answer{QuestionID: q, AnswerValue: value})
	}
	return out
}

func submitMBI(t *testing.T, answers []scoring.Answer) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(mbiSubmission{Answers: answers})
	require.NoError(t, err)
	h := NewMBIHandler(nil)
	w := httptest.NewRecorder()
	h.Submit(w, authedRequest(http.MethodPost, "/api/mbi", string(body)))
	return w
}

func TestSubmitRejectsWrongAnswerCount(t *testing.T) {
	w := submitMBI(t, fullAnswers(3)[:21])
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitRejectsOutOfRangeValue(t *testing.T) {
	answers := fullAnswers(3)
	answers[0].AnswerValue = 7
	w := submitMBI(t, answers)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	answers[0].AnswerValue = -1
	w = submitMBI(t, answers)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitRejectsDuplicateQuestion(t *testing.T) {
	answers := fullAnswers(3)
	// Two answers for question 1, none for question 2.
	answers[1].QuestionID = 1
	w := submitMBI(t, answers)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
