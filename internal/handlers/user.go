package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"wellmed/internal/middleware"
	"wellmed/internal/models"
)

type UserHandler struct {
	db *sqlx.DB
}

func NewUserHandler(db *sqlx.DB) *UserHandler {
	return &UserHandler{db: db}
}

// GetMe returns the current user's profile
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	var u models.User
	if err := h.db.Get(&u, `SELECT id, email, name, password_hash, birthday, specialty, created_at, updated_at FROM users WHERE id=$1`, userID); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// UpdateMe updates provided fields on the current user's profile
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	var body struct {
		Name      *string `json:"name"`
		Birthday  *string `json:"birthday"` // YYYY-MM-DD
		Specialty *string `json:"specialty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	// Build dynamic update
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1
	if body.Name != nil {
		if strings.TrimSpace(*body.Name) == "" {
			http.Error(w, "name cannot be empty", http.StatusBadRequest)
			return
		}
		setClauses = append(setClauses, fmt.Sprintf("name=$%d", argIdx))
		args = append(args, strings.TrimSpace(*body.Name))
		argIdx++
	}
	if body.Birthday != nil {
		if *body.Birthday == "" {
			setClauses = append(setClauses, "birthday=NULL")
		} else {
			if _, err := time.Parse("2006-01-02", *body.Birthday); err != nil {
				http.Error(w, "invalid birthday; expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			setClauses = append(setClauses, fmt.Sprintf("birthday=$%d", argIdx))
			args = append(args, *body.Birthday)
			argIdx++
		}
	}
	if body.Specialty != nil {
		setClauses = append(setClauses, fmt.Sprintf("specialty=$%d", argIdx))
		args = append(args, *body.Specialty)
		argIdx++
	}
	if len(setClauses) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	setClauses = append(setClauses, "updated_at=NOW()")

	query := "UPDATE users SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id=$%d", argIdx)
	args = append(args, userID)
	if _, err := h.db.Exec(query, args...); err != nil {
		http.Error(w, "could not update", http.StatusInternalServerError)
		return
	}

	var u models.User
	if err := h.db.Get(&u, `SELECT id, email, name, password_hash, birthday, specialty, created_at, updated_at FROM users WHERE id=$1`, userID); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
