package handlers

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"wellmed/internal/services"
)

type HealthHandler struct {
	db        *sqlx.DB
	assistant *services.Assistant
}

func NewHealthHandler(db *sqlx.DB, assistant *services.Assistant) *HealthHandler {
	return &HealthHandler{db: db, assistant: assistant}
}

// Get reports database and model availability. The service stays up in a
// degraded state when the model host is missing; AI features fall back to
// canned text.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	dbStatus := "healthy"
	if err := h.db.PingContext(r.Context()); err != nil {
		dbStatus = "unhealthy"
	}

	ollamaStatus := "unavailable"
	if h.assistant.Available(r.Context()) {
		ollamaStatus = "healthy"
	}

	status := "degraded"
	if dbStatus == "healthy" && ollamaStatus == "healthy" {
		status = "healthy"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    status,
		"database":  dbStatus,
		"ollama":    ollamaStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
