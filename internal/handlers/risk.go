package handlers

import (
	"database/sql"
	"net/http"

	"github.com/jmoiron/sqlx"

	"wellmed/internal/services"
)

type RiskHandler struct {
	db *sqlx.DB
}

func NewRiskHandler(db *sqlx.DB) *RiskHandler {
	return &RiskHandler{db: db}
}

// Get combines the user's latest MBI assessment with thirty days of quick
// check-ins and mood entries into a weighted burnout risk.
func (h *RiskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok || !requireSelf(w, r, userID) {
		return
	}

	var in services.RiskInput

	var mbi services.MBIScores
	err := h.db.QueryRowx(
		`SELECT emotional_exhaustion, depersonalization, personal_accomplishment
		 FROM mbi_assessments WHERE user_id=$1 ORDER BY submitted_at DESC LIMIT 1`, userID,
	).Scan(&mbi.EmotionalExhaustion, &mbi.Depersonalization, &mbi.PersonalAccomplishment)
	if err == nil {
		in.MBI = &mbi
	} else if err != sql.ErrNoRows {
		http.Error(w, "could not fetch assessments", http.StatusInternalServerError)
		return
	}

	var micros []struct {
		FatigueLevel     int `db:"fatigue_level"`
		StressLevel      int `db:"stress_level"`
		WorkSatisfaction int `db:"work_satisfaction"`
	}
	if err := h.db.Select(&micros,
		`SELECT fatigue_level, stress_level, work_satisfaction
		 FROM micro_assessments WHERE user_id=$1 AND submitted_at >= NOW() - INTERVAL '30 days'`, userID); err != nil {
		http.Error(w, "could not fetch check-ins", http.StatusInternalServerError)
		return
	}
	for _, m := range micros {
		in.Micro = append(in.Micro, services.MicroSample{
			FatigueLevel:     m.FatigueLevel,
			StressLevel:      m.StressLevel,
			WorkSatisfaction: m.WorkSatisfaction,
		})
	}

	if err := h.db.Select(&in.Moods,
		`SELECT mood FROM mood_entries WHERE user_id=$1 AND timestamp >= NOW() - INTERVAL '30 days'`, userID); err != nil {
		http.Error(w, "could not fetch moods", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, services.CalculateRisk(in))
}
