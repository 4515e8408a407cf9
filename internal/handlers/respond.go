package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"wellmed/internal/middleware"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// pathUUID parses a UUID route parameter, writing a 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// requireSelf enforces the resource-owner check: the authenticated user must
// match the user id addressed by the route.
func requireSelf(w http.ResponseWriter, r *http.Request, userID uuid.UUID) bool {
	if middleware.UserID(r) != userID {
		http.Error(w, "you can only access your own data", http.StatusForbidden)
		return false
	}
	return true
}
