package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"wellmed/internal/middleware"
)

func TestProgressPercentage(t *testing.T) {
	assert.Equal(t, 0.0, progressPercentage(0, 4))
	assert.Equal(t, 75.0, progressPercentage(3, 4))
	assert.Equal(t, 100.0, progressPercentage(4, 4))
}

func TestProgressPercentageZeroModules(t *testing.T) {
	// An empty course reports complete rather than dividing by zero.
	assert.Equal(t, 100.0, progressPercentage(0, 0))
}

// moduleTimeRequestFor wires up the route params and auth context the router
// would normally provide.
func moduleTimeRequestFor(body string) *http.Request {
	userID := uuid.New()
	r := httptest.NewRequest(http.MethodPut, "/api/courses", strings.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("userID", userID.String())
	rctx.URLParams.Add("courseID", "stress-basics")
	rctx.URLParams.Add("moduleID", uuid.NewString())
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.UserIDKey, userID)
	return r.WithContext(ctx)
}

func TestUpdateModuleTimeRejectsNegative(t *testing.T) {
	h := NewCourseHandler(nil)
	w := httptest.NewRecorder()
	h.UpdateModuleTime(w, moduleTimeRequestFor(`{"time_spent_seconds":-5}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "negative")
}

func TestCreateCourseRequiresIDAndTitle(t *testing.T) {
	h := NewCourseHandler(nil)
	for _, body := range []string{
		`{"title":"Managing Stress"}`,
		`{"id":"stress-basics"}`,
		`{"id":"  ","title":"Managing Stress"}`,
	} {
		w := httptest.NewRecorder()
		h.Create(w, authedRequest(http.MethodPost, "/api/courses", body))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}
