package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"wellmed/internal/middleware"
	"wellmed/internal/models"
)

type GoalHandler struct {
	db *sqlx.DB
}

func NewGoalHandler(db *sqlx.DB) *GoalHandler {
	return &GoalHandler{db: db}
}

type goalRequest struct {
	GoalType *string `json:"goal_type"`
	GoalText string  `json:"goal_text"`
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.GoalText) == "" {
		http.Error(w, "goal_text required", http.StatusBadRequest)
		return
	}

	var goal models.Goal
	err := h.db.QueryRowx(
		`INSERT INTO goals (id, user_id, goal_type, goal_text)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, goal_type, goal_text, created_at, deleted_at`,
		uuid.New(), userID, req.GoalType, req.GoalText,
	).StructScan(&goal)
	if err != nil {
		http.Error(w, "could not save", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok || !requireSelf(w, r, userID) {
		return
	}
	out := []models.Goal{}
	if err := h.db.Select(&out, `SELECT id, user_id, goal_type, goal_text, created_at, deleted_at FROM goals WHERE user_id=$1 AND deleted_at IS NULL ORDER BY created_at DESC`, userID); err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Delete soft-deletes; the row stays for history but drops out of listings.
func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var ownerID uuid.UUID
	err := h.db.Get(&ownerID, `SELECT user_id FROM goals WHERE id=$1 AND deleted_at IS NULL`, id)
	if err == sql.ErrNoRows {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	if !requireSelf(w, r, ownerID) {
		return
	}
	if _, err := h.db.Exec(`UPDATE goals SET deleted_at=NOW() WHERE id=$1`, id); err != nil {
		http.Error(w, "could not delete", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
