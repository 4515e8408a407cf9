package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"wellmed/internal/activity"
	"wellmed/internal/middleware"
	"wellmed/internal/models"
)

type WellnessHandler struct {
	db    *sqlx.DB
	store *activity.Store
}

func NewWellnessHandler(db *sqlx.DB, store *activity.Store) *WellnessHandler {
	return &WellnessHandler{db: db, store: store}
}

// validDuration bounds a session between 1 second and 2 hours, inclusive.
func validDuration(seconds int) bool {
	return seconds >= 1 && seconds <= 7200
}

type wellnessRequest struct {
	ActivityType    string  `json:"activity_type"`
	DurationSeconds int     `json:"duration_seconds"`
	CyclesCompleted *int    `json:"cycles_completed"`
	PosesCompleted  *int    `json:"poses_completed"`
	SessionData     *string `json:"session_data"`
}

func (h *WellnessHandler) Record(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	var req wellnessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.ActivityType != "box_breathing" && req.ActivityType != "stretching" {
		http.Error(w, "invalid activity type", http.StatusBadRequest)
		return
	}
	if !validDuration(req.DurationSeconds) {
		http.Error(w, "duration must be between 1 second and 2 hours", http.StatusBadRequest)
		return
	}

	var a models.WellnessActivity
	err := h.db.QueryRowx(
		`INSERT INTO wellness_activities (id, user_id, activity_type, duration_seconds, cycles_completed, poses_completed, session_data)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, user_id, activity_type, duration_seconds, cycles_completed, poses_completed, session_data, completed_at`,
		uuid.New(), userID, req.ActivityType, req.DurationSeconds, req.CyclesCompleted, req.PosesCompleted, req.SessionData,
	).StructScan(&a)
	if err != nil {
		http.Error(w, "could not save", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *WellnessHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok || !requireSelf(w, r, userID) {
		return
	}
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	out := []models.WellnessActivity{}
	if err := h.db.Select(&out, `SELECT id, user_id, activity_type, duration_seconds, cycles_completed, poses_completed, session_data, completed_at FROM wellness_activities WHERE user_id=$1 ORDER BY completed_at DESC LIMIT $2`, userID, limit); err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *WellnessHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var a models.WellnessActivity
	err := h.db.Get(&a, `SELECT id, user_id, activity_type, duration_seconds, cycles_completed, poses_completed, session_data, completed_at FROM wellness_activities WHERE id=$1`, id)
	if err == sql.ErrNoRows {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	if !requireSelf(w, r, a.UserID) {
		return
	}
	writeJSON(w, http.StatusOK, a)
}

type wellnessStatsResponse struct {
	TotalSessions          int     `json:"total_sessions"`
	TotalDurationMinutes   float64 `json:"total_duration_minutes"`
	BoxBreathingSessions   int     `json:"box_breathing_sessions"`
	StretchingSessions     int     `json:"stretching_sessions"`
	AvgSessionDuration     float64 `json:"avg_session_duration"`
	LongestSessionDuration int     `json:"longest_session_duration"`
	CurrentStreak          int     `json:"current_streak"`
	ActivitiesThisWeek     int     `json:"activities_this_week"`
}

// Stats aggregates the user's exercise history. The streak here counts
// wellness sessions only; the cross-source streak lives under /activity.
func (h *WellnessHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok || !requireSelf(w, r, userID) {
		return
	}

	var stats wellnessStatsResponse
	err := h.db.QueryRowx(`
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(duration_seconds), 0) AS total_seconds,
			COUNT(*) FILTER (WHERE activity_type = 'box_breathing') AS box_breathing,
			COUNT(*) FILTER (WHERE activity_type = 'stretching') AS stretching,
			COALESCE(AVG(duration_seconds), 0) AS avg_seconds,
			COALESCE(MAX(duration_seconds), 0) AS longest_seconds,
			COUNT(*) FILTER (WHERE completed_at >= NOW() - INTERVAL '7 days') AS this_week
		FROM wellness_activities
		WHERE user_id = $1`, userID).Scan(
		&stats.TotalSessions,
		&stats.TotalDurationMinutes,
		&stats.BoxBreathingSessions,
		&stats.StretchingSessions,
		&stats.AvgSessionDuration,
		&stats.LongestSessionDuration,
		&stats.ActivitiesThisWeek,
	)
	if err != nil {
		http.Error(w, "could not fetch aggregates", http.StatusInternalServerError)
		return
	}
	stats.TotalDurationMinutes = stats.TotalDurationMinutes / 60

	days, err := h.store.WellnessDaily(r.Context(), userID, 365)
	if err != nil {
		http.Error(w, "could not compute streak", http.StatusInternalServerError)
		return
	}
	stats.CurrentStreak = activity.CurrentStreak(days)

	writeJSON(w, http.StatusOK, stats)
}
