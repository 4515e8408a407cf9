package handlers

import (
	"net/http"
	"strconv"

	"wellmed/internal/activity"
)

// Lookback windows, in days. The long window backs streak computation, the
// short one the recent-activity view.
const (
	streakWindowDays = 365
	dailyWindowDays  = 30
)

type ActivityHandler struct {
	store *activity.Store
}

func NewActivityHandler(store *activity.Store) *ActivityHandler {
	return &ActivityHandler{store: store}
}

// Daily returns the dense day-by-day engagement window, oldest first.
func (h *ActivityHandler) Daily(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok || !requireSelf(w, r, userID) {
		return
	}
	days := dailyWindowDays
	if s := r.URL.Query().Get("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > streakWindowDays {
			http.Error(w, "days must be between 1 and 365", http.StatusBadRequest)
			return
		}
		days = n
	}

	window, err := h.store.DailyActivity(r.Context(), userID, days)
	if err != nil {
		http.Error(w, "could not fetch activity", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, window)
}

type streaksResponse struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

// Streaks reports consecutive-day engagement across all activity sources.
func (h *ActivityHandler) Streaks(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok || !requireSelf(w, r, userID) {
		return
	}
	window, err := h.store.DailyActivity(r.Context(), userID, streakWindowDays)
	if err != nil {
		http.Error(w, "could not fetch activity", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, streaksResponse{
		CurrentStreak: activity.CurrentStreak(window),
		LongestStreak: activity.LongestStreak(window),
	})
}
