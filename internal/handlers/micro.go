package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"wellmed/internal/middleware"
	"wellmed/internal/models"
)

type MicroAssessmentHandler struct {
	db *sqlx.DB
}

func NewMicroAssessmentHandler(db *sqlx.DB) *MicroAssessmentHandler {
	return &MicroAssessmentHandler{db: db}
}

type microRequest struct {
	FatigueLevel     int     `json:"fatigue_level"`
	StressLevel      int     `json:"stress_level"`
	WorkSatisfaction int     `json:"work_satisfaction"`
	SleepQuality     int     `json:"sleep_quality"`
	SupportFeeling   int     `json:"support_feeling"`
	Comments         *string `json:"comments"`
}

func (req *microRequest) valid() bool {
	for _, v := range []int{req.FatigueLevel, req.StressLevel, req.WorkSatisfaction, req.SleepQuality, req.SupportFeeling} {
		if v < 1 || v > 5 {
			return false
		}
	}
	return true
}

func (h *MicroAssessmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	var req microRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.valid() {
		http.Error(w, "all levels must be between 1 and 5", http.StatusBadRequest)
		return
	}

	var a models.MicroAssessment
	err := h.db.QueryRowx(
		`INSERT INTO micro_assessments (id, user_id, fatigue_level, stress_level, work_satisfaction, sleep_quality, support_feeling, comments)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, user_id, fatigue_level, stress_level, work_satisfaction, sleep_quality, support_feeling, comments, submitted_at`,
		uuid.New(), userID, req.FatigueLevel, req.StressLevel, req.WorkSatisfaction, req.SleepQuality, req.SupportFeeling, req.Comments,
	).StructScan(&a)
	if err != nil {
		http.Error(w, "could not save", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *MicroAssessmentHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok || !requireSelf(w, r, userID) {
		return
	}
	out := []models.MicroAssessment{}
	if err := h.db.Select(&out, `SELECT id, user_id, fatigue_level, stress_level, work_satisfaction, sleep_quality, support_feeling, comments, submitted_at FROM micro_assessments WHERE user_id=$1 ORDER BY submitted_at DESC`, userID); err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *MicroAssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var a models.MicroAssessment
	err := h.db.Get(&a, `SELECT id, user_id, fatigue_level, stress_level, work_satisfaction, sleep_quality, support_feeling, comments, submitted_at FROM micro_assessments WHERE id=$1`, id)
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
