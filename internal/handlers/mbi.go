package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"wellmed/internal/middleware"
	"wellmed/internal/models"
	"wellmed/internal/scoring"
)

type MBIHandler struct {
	db *sqlx.DB
}

func NewMBIHandler(db *sqlx.DB) *MBIHandler {
	return &MBIHandler{db: db}
}

type mbiSubmission struct {
	Answers []scoring.Answer `json:"answers"`
}

// Submit godoc
// @Summary Submit an MBI assessment
// @Description Scores 22 answers into the three subscales and stores the assessment with its answers
// @Tags mbi
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param data body mbiSubmission true "22 answers, values 0-6"
// @Success 201 {object} models.MBIAssessment
// @Failure 400 {string} string "Bad request"
// @Router /mbi [post]
func (h *MBIHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	var req mbiSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := scoring.Validate(req.Answers); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result := scoring.Score(req.Answers)

	// Assessment and its 22 answers land atomically; readers never observe
	// a scored assessment without its raw answers.
	tx, err := h.db.Beginx()
	if err != nil {
		http.Error(w, "could not start transaction", http.StatusInternalServerError)
		return
	}
	defer tx.Rollback()

	var assessment models.MBIAssessment
	err = tx.QueryRowx(
		`INSERT INTO mbi_assessments (id, user_id, emotional_exhaustion, depersonalization, personal_accomplishment)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, user_id, emotional_exhaustion, depersonalization, personal_accomplishment, submitted_at`,
		uuid.New(), userID, result.EmotionalExhaustion, result.Depersonalization, result.PersonalAccomplishment,
	).StructScan(&assessment)
	if err != nil {
		http.Error(w, "could not save assessment", http.StatusInternalServerError)
		return
	}

	for _, a := range req.Answers {
		if _, err := tx.Exec(
			`INSERT INTO mbi_answers (id, mbi_id, question_id, answer_value) VALUES ($1, $2, $3, $4)`,
			uuid.New(), assessment.ID, a.QuestionID, a.AnswerValue,
		); err != nil {
			http.Error(w, "could not save answers", http.StatusInternalServerError)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		http.Error(w, "could not save assessment", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, assessment)
}

func (h *MBIHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok || !requireSelf(w, r, userID) {
		return
	}
	out := []models.MBIAssessment{}
	if err := h.db.Select(&out, `SELECT id, user_id, emotional_exhaustion, depersonalization, personal_accomplishment, submitted_at FROM mbi_assessments WHERE user_id=$1 ORDER BY submitted_at DESC`, userID); err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
