package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"wellmed/internal/models"
)

type CourseHandler struct {
	db *sqlx.DB
}

func NewCourseHandler(db *sqlx.DB) *CourseHandler {
	return &CourseHandler{db: db}
}

// progressPercentage computes course completion. A course with no modules
// reports 100 on any recompute so the division never degenerates.
func progressPercentage(completed, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(completed) / float64(total) * 100
}

const courseCols = `id, title, description, duration, difficulty, category, is_active, sort_order, created_at`
const moduleCols = `id, course_id, title, content, duration, sort_order, created_at`
const progressCols = `id, user_id, course_id, progress_percentage, is_completed, completion_date, started_at, last_accessed_at`

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	query := `SELECT ` + courseCols + ` FROM courses WHERE is_active ORDER BY sort_order, title`
	args := []interface{}{}
	if category := r.URL.Query().Get("category"); category != "" {
		query = `SELECT ` + courseCols + ` FROM courses WHERE is_active AND category=$1 ORDER BY sort_order, title`
		args = append(args, category)
	}
	out := []models.Course{}
	if err := h.db.Select(&out, query, args...); err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")
	var course models.Course
	err := h.db.Get(&course, `SELECT `+courseCols+` FROM courses WHERE id=$1`, courseID)
	if err == sql.ErrNoRows {
		http.Error(w, "course not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (h *CourseHandler) Modules(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")
	var exists bool
	if err := h.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM courses WHERE id=$1)`, courseID); err != nil || !exists {
		http.Error(w, "course not found", http.StatusNotFound)
		return
	}
	out := []models.CourseModule{}
	if err := h.db.Select(&out, `SELECT `+moduleCols+` FROM course_modules WHERE course_id=$1 ORDER BY sort_order`, courseID); err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type moduleInput struct {
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Duration  *string `json:"duration"`
	SortOrder int     `json:"sort_order"`
}

type courseInput struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	Duration    *string       `json:"duration"`
	Difficulty  *string       `json:"difficulty"`
	Category    *string       `json:"category"`
	SortOrder   int           `json:"sort_order"`
	Modules     []moduleInput `json:"modules"`
}

// Create stores a course together with its modules. Content management
// endpoint; there is no per-user state here. Any authenticated user can
// publish for now.
// TODO: gate behind an admin role once users carry one.
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req courseInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" || strings.TrimSpace(req.Title) == "" {
		http.Error(w, "id and title required", http.StatusBadRequest)
		return
	}

	tx, err := h.db.Beginx()
	if err != nil {
		http.Error(w, "could not start transaction", http.StatusInternalServerError)
		return
	}
	defer tx.Rollback()

	var course models.Course
	err = tx.QueryRowx(
		`INSERT INTO courses (id, title, description, duration, difficulty, category, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+courseCols,
		req.ID, req.Title, req.Description, req.Duration, req.Difficulty, req.Category, req.SortOrder,
	).StructScan(&course)
	if err != nil {
		http.Error(w, "could not create course", http.StatusBadRequest)
		return
	}
	for _, m := range req.Modules {
		if strings.TrimSpace(m.Title) == "" || strings.TrimSpace(m.Content) == "" {
			http.Error(w, "module title and content required", http.StatusBadRequest)
			return
		}
		if _, err := tx.Exec(
			`INSERT INTO course_modules (id, course_id, title, content, duration, sort_order) VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), course.ID, m.Title, m.Content, m.Duration, m.SortOrder,
		); err != nil {
			http.Error(w, "could not create modules", http.StatusInternalServerError)
			return
		}
	}
	if err := tx.Commit(); err != nil {
		http.Error(w, "could not create course", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

// Start idempotently ensures one progress row per (user, course). A repeat
// call only refreshes last_accessed_at.
func (h *CourseHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok || !requireSelf(w, r, userID) {
		return
	}
	courseID := chi.URLParam(r, "courseID")
	var exists bool
	if err := h.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM courses WHERE id=$1)`, courseID); err != nil || !exists {
		http.Error(w, "course not found", http.StatusNotFound)
		return
	}

	var progress models.UserCourseProgress
	err := h.db.QueryRowx(
		`INSERT INTO user_course_progress (id, user_id, course_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, course_id) DO UPDATE SET last_accessed_at = NOW()
		 RETURNING `+progressCols,
		uuid.New(), userID, courseID,
	).StructScan(&progress)
	if err != nil {
		http.Error(w, "could not start course", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// CompleteModule marks one module done and recomputes the course
// percentage. The module-progress upsert rides the unique constraint, so
// concurrent completions of the same module collapse into one row.
func (h *CourseHandler) CompleteModule(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok || !requireSelf(w, r, userID) {
		return
	}
	courseID := chi.URLParam(r, "courseID")
	moduleID, ok := pathUUID(w, r, "moduleID")
	if !ok {
		return
	}

	var moduleCourse string
	err := h.db.Get(&moduleCourse, `SELECT course_id FROM course_modules WHERE id=$1`, moduleID)
	if err == sql.ErrNoRows || (err == nil && moduleCourse != courseID) {
		http.Error(w, "module not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "could not fetch module", http.StatusInternalServerError)
		return
	}

	tx, err := h.db.Beginx()
	if err != nil {
		http.Error(w, "could not start transaction", http.StatusInternalServerError)
		return
	}
	defer tx.Rollback()

	var progress models.UserCourseProgress
	err = tx.QueryRowx(
		`INSERT INTO user_course_progress (id, user_id, course_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, course_id) DO UPDATE SET last_accessed_at = NOW()
		 RETURNING `+progressCols,
		uuid.New(), userID, courseID,
	).StructScan(&progress)
	if err != nil {
		http.Error(w, "could not load progress", http.StatusInternalServerError)
		return
	}

	if _, err := tx.Exec(
		`INSERT INTO user_module_progress (id, course_progress_id, module_id, is_completed, completed_at)
		 VALUES ($1, $2, $3, true, NOW())
		 ON CONFLICT (course_progress_id, module_id)
		 DO UPDATE SET is_completed = true, completed_at = COALESCE(user_module_progress.completed_at, NOW())`,
		uuid.New(), progress.ID, moduleID,
	); err != nil {
		http.Error(w, "could not save module progress", http.StatusInternalServerError)
		return
	}

	var completed, total int
	if err := tx.QueryRowx(
		`SELECT
			(SELECT COUNT(*) FROM user_module_progress WHERE course_progress_id=$1 AND is_completed),
			(SELECT COUNT(*) FROM course_modules WHERE course_id=$2)`,
		progress.ID, courseID,
	).Scan(&completed, &total); err != nil {
		http.Error(w, "could not count modules", http.StatusInternalServerError)
		return
	}

	pct := progressPercentage(completed, total)
	// Completion is one-way: completion_date is written once and is_completed
	// never reverts, even if modules are later added or removed.
	err = tx.QueryRowx(
		`UPDATE user_course_progress
		 SET progress_percentage = $1,
		     is_completed = is_completed OR $2,
		     completion_date = CASE WHEN $2 AND completion_date IS NULL THEN NOW() ELSE completion_date END,
		     last_accessed_at = NOW()
		 WHERE id = $3
		 RETURNING `+progressCols,
		pct, pct >= 100, progress.ID,
	).StructScan(&progress)
	if err != nil {
		http.Error(w, "could not update progress", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(); err != nil {
		http.Error(w, "could not update progress", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"detail":              "module completed",
		"progress_percentage": progress.ProgressPercentage,
		"is_course_completed": progress.IsCompleted,
	})
}

type moduleTimeRequest struct {
	TimeSpentSeconds int `json:"time_spent_seconds"`
}

// UpdateModuleTime adds a reading session's duration to the module's running
// total. Clients report the time since they opened the module, so the value
// accumulates rather than overwrites.
func (h *CourseHandler) UpdateModuleTime(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok || !requireSelf(w, r, userID) {
		return
	}
	courseID := chi.URLParam(r, "courseID")
	moduleID, ok := pathUUID(w, r, "moduleID")
	if !ok {
		return
	}

	var req moduleTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.TimeSpentSeconds < 0 {
		http.Error(w, "time spent cannot be negative", http.StatusBadRequest)
		return
	}

	var moduleCourse string
	err := h.db.Get(&moduleCourse, `SELECT course_id FROM course_modules WHERE id=$1`, moduleID)
	if err == sql.ErrNoRows || (err == nil && moduleCourse != courseID) {
		http.Error(w, "module not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "could not fetch module", http.StatusInternalServerError)
		return
	}

	tx, err := h.db.Beginx()
	if err != nil {
		http.Error(w, "could not start transaction", http.StatusInternalServerError)
		return
	}
	defer tx.Rollback()

	var progressID uuid.UUID
	err = tx.QueryRowx(
		`INSERT INTO user_course_progress (id, user_id, course_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, course_id) DO UPDATE SET last_accessed_at = NOW()
		 RETURNING id`,
		uuid.New(), userID, courseID,
	).Scan(&progressID)
	if err != nil {
		http.Error(w, "could not load progress", http.StatusInternalServerError)
		return
	}

	if _, err := tx.Exec(
		`INSERT INTO user_module_progress (id, course_progress_id, module_id, time_spent_seconds)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (course_progress_id, module_id)
		 DO UPDATE SET time_spent_seconds = user_module_progress.time_spent_seconds + EXCLUDED.time_spent_seconds`,
		uuid.New(), progressID, moduleID, req.TimeSpentSeconds,
	); err != nil {
		http.Error(w, "could not save module time", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(); err != nil {
		http.Error(w, "could not save module time", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": "module time updated"})
}

type courseStatsResponse struct {
	TotalCourses              int     `json:"total_courses"`
	CompletedCourses          int     `json:"completed_courses"`
	InProgressCourses         int     `json:"in_progress_courses"`
	TotalModulesCompleted     int     `json:"total_modules_completed"`
	OverallProgressPercentage float64 `json:"overall_progress_percentage"`
	FavoriteCategory          *string `json:"favorite_category,omitempty"`
	TotalTimeSpentMinutes     float64 `json:"total_time_spent_minutes"`
}

// Stats aggregates the user's learning history across all started courses.
func (h *CourseHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok || !requireSelf(w, r, userID) {
		return
	}

	var stats courseStatsResponse
	err := h.db.QueryRowx(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_completed),
			COUNT(*) FILTER (WHERE NOT is_completed),
			COALESCE(AVG(progress_percentage), 0)
		FROM user_course_progress
		WHERE user_id = $1`, userID).Scan(
		&stats.TotalCourses,
		&stats.CompletedCourses,
		&stats.InProgressCourses,
		&stats.OverallProgressPercentage,
	)
	if err != nil {
		http.Error(w, "could not fetch aggregates", http.StatusInternalServerError)
		return
	}

	var totalSeconds int
	err = h.db.QueryRowx(`
		SELECT
			COUNT(*) FILTER (WHERE ump.is_completed),
			COALESCE(SUM(ump.time_spent_seconds), 0)
		FROM user_module_progress ump
		JOIN user_course_progress ucp ON ucp.id = ump.course_progress_id
		WHERE ucp.user_id = $1`, userID).Scan(&stats.TotalModulesCompleted, &totalSeconds)
	if err != nil {
		http.Error(w, "could not fetch aggregates", http.StatusInternalServerError)
		return
	}
	stats.TotalTimeSpentMinutes = float64(totalSeconds) / 60

	var favorite string
	err = h.db.Get(&favorite, `
		SELECT c.category
		FROM user_course_progress ucp
		JOIN courses c ON c.id = ucp.course_id
		WHERE ucp.user_id = $1 AND c.category IS NOT NULL
		GROUP BY c.category
		ORDER BY COUNT(*) DESC, c.category
		LIMIT 1`, userID)
	if err != nil && err != sql.ErrNoRows {
		http.Error(w, "could not fetch aggregates", http.StatusInternalServerError)
		return
	}
	if err == nil {
		stats.FavoriteCategory = &favorite
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *CourseHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok || !requireSelf(w, r, userID) {
		return
	}
	courseID := chi.URLParam(r, "courseID")
	var progress models.UserCourseProgress
	err := h.db.Get(&progress, `SELECT `+progressCols+` FROM user_course_progress WHERE user_id=$1 AND course_id=$2`, userID, courseID)
	if err == sql.ErrNoRows {
		http.Error(w, "course progress not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (h *CourseHandler) ListProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok || !requireSelf(w, r, userID) {
		return
	}
	out := []models.UserCourseProgress{}
	if err := h.db.Select(&out, `SELECT `+progressCols+` FROM user_course_progress WHERE user_id=$1 ORDER BY last_accessed_at DESC`, userID); err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
