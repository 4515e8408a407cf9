package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"wellmed/internal/middleware"
	"wellmed/internal/models"
	"wellmed/internal/services"
)

const analysisTimeout = 2 * time.Minute

const placeholderAnalysis = "Your entry is being analyzed..."

type JournalHandler struct {
	db        *sqlx.DB
	assistant *services.Assistant
	uploadDir string
	logger    *zap.Logger
}

func NewJournalHandler(db *sqlx.DB, assistant *services.Assistant, uploadDir string, logger *zap.Logger) *JournalHandler {
	return &JournalHandler{db: db, assistant: assistant, uploadDir: uploadDir, logger: logger}
}

// Create accepts either a JSON body or multipart form data with an optional
// audio attachment. The entry is stored immediately with a pending analysis;
// the LLM fills it in from a background goroutine.
func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var textContent string
	var audioPath *string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		textContent = r.FormValue("text_content")
		file, header, err := r.FormFile("audio")
		if err == nil {
			defer file.Close()
			saved, err := h.saveAudio(file, header.Filename)
			if err != nil {
				http.Error(w, "could not store audio", http.StatusInternalServerError)
				return
			}
			audioPath = &saved
		}
	} else {
		var body struct {
			TextContent string `json:"text_content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
		textContent = body.TextContent
	}

	if strings.TrimSpace(textContent) == "" {
		http.Error(w, "text_content required", http.StatusBadRequest)
		return
	}

	var entry models.JournalEntry
	err := h.db.QueryRowx(
		`INSERT INTO journal_entries (id, user_id, text_content, audio_path, analysis, analysis_status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, user_id, text_content, audio_path, analysis, analysis_status, created_at`,
		uuid.New(), userID, textContent, audioPath, placeholderAnalysis, models.AnalysisPending,
	).StructScan(&entry)
	if err != nil {
		http.Error(w, "could not save", http.StatusInternalServerError)
		return
	}

	go h.analyze(entry.ID, userID, textContent)

	writeJSON(w, http.StatusCreated, entry)
}

// analyze runs out of band from the request; clients poll analysis_status.
func (h *JournalHandler) analyze(entryID, userID uuid.UUID, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), analysisTimeout)
	defer cancel()

	var specialty sql.NullString
	_ = h.db.GetContext(ctx, &specialty, `SELECT specialty FROM users WHERE id=$1`, userID)
	userContext := ""
	if specialty.Valid {
		userContext = "Specialty: " + specialty.String
	}

	analysis, err := h.assistant.AnalyzeJournal(ctx, text, userContext)
	status := models.AnalysisComplete
	if err != nil {
		analysis = services.AnalysisFallback
		status = models.AnalysisFailed
	}

	if _, err := h.db.Exec(
		`UPDATE journal_entries SET analysis=$1, analysis_status=$2 WHERE id=$3`,
		analysis, status, entryID,
	); err != nil {
		h.logger.Error("could not store journal analysis", zap.String("entry_id", entryID.String()), zap.Error(err))
	}
}

func (h *JournalHandler) saveAudio(file io.Reader, original string) (string, error) {
	dir := filepath.Join(h.uploadDir, "audio")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	ext := filepath.Ext(original)
	if ext == "" {
		ext = ".m4a"
	}
	name := fmt.Sprintf("%s%s", uuid.New(), ext)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	// Returned as the static path the router serves uploads under.
	return "/uploads/audio/" + name, nil
}

func (h *JournalHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok || !requireSelf(w, r, userID) {
		return
	}
	out := []models.JournalEntry{}
	if err := h.db.Select(&out, `SELECT id, user_id, text_content, audio_path, analysis, analysis_status, created_at FROM journal_entries WHERE user_id=$1 ORDER BY created_at DESC`, userID); err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var entry models.JournalEntry
	err := h.db.Get(&entry, `SELECT id, user_id, text_content, audio_path, analysis, analysis_status, created_at FROM journal_entries WHERE id=$1`, id)
	if err == sql.ErrNoRows {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	if !requireSelf(w, r, entry.UserID) {
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
