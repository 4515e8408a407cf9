package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"wellmed/internal/middleware"
	"wellmed/internal/models"
	"wellmed/internal/services"
)

type MoodHandler struct {
	db *sqlx.DB
}

func NewMoodHandler(db *sqlx.DB) *MoodHandler {
	return &MoodHandler{db: db}
}

type moodRequest struct {
	Mood      string     `json:"mood"`
	Reason    *string    `json:"reason"`
	Timestamp *time.Time `json:"timestamp"`
}

func (h *MoodHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	var req moodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if _, ok := services.MoodScore[req.Mood]; !ok {
		http.Error(w, "unknown mood", http.StatusBadRequest)
		return
	}
	ts := time.Now().UTC()
	if req.Timestamp != nil {
		ts = req.Timestamp.UTC()
	}

	var entry models.MoodEntry
	err := h.db.QueryRowx(
		`INSERT INTO mood_entries (id, user_id, mood, reason, timestamp)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, user_id, mood, reason, timestamp`,
		uuid.New(), userID, req.Mood, req.Reason, ts,
	).StructScan(&entry)
	if err != nil {
		http.Error(w, "could not save", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *MoodHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok || !requireSelf(w, r, userID) {
		return
	}
	entries := []models.MoodEntry{}
	if err := h.db.Select(&entries, `SELECT id, user_id, mood, reason, timestamp FROM mood_entries WHERE user_id=$1 ORDER BY timestamp DESC`, userID); err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
