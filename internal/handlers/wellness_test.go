package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"wellmed/internal/middleware"
)

// authedRequest builds a request carrying an authenticated user id, the way
// RequireAuth leaves it for downstream handlers.
func authedRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, uuid.New())
	return r.WithContext(ctx)
}

func TestValidDurationBounds(t *testing.T) {
	assert.False(t, validDuration(0))
	assert.True(t, validDuration(1))
	assert.True(t, validDuration(7200))
	assert.False(t, validDuration(7201))
	assert.False(t, validDuration(-30))
}

func TestRecordRejectsOutOfRangeDuration(t *testing.T) {
	h := NewWellnessHandler(nil, nil)
	for _, body := range []string{
		`{"activity_type":"box_breathing","duration_seconds":0}`,
		`{"activity_type":"stretching","duration_seconds":7201}`,
	} {
		w := httptest.NewRecorder()
		h.Record(w, authedRequest(http.MethodPost, "/api/wellness", body))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "duration")
	}
}

func TestRecordRejectsUnknownActivityType(t *testing.T) {
	h := NewWellnessHandler(nil, nil)
	w := httptest.NewRecorder()
	h.Record(w, authedRequest(http.MethodPost, "/api/wellness", `{"activity_type":"jogging","duration_seconds":60}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "activity type")
}
