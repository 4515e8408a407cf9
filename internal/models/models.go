package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	Name         string     `db:"name" json:"name"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Birthday     *time.Time `db:"birthday" json:"birthday,omitempty"`
	Specialty    *string    `db:"specialty" json:"specialty,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

type MoodEntry struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Mood      string    `db:"mood" json:"mood"`
	Reason    *string   `db:"reason" json:"reason,omitempty"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}

type MicroAssessment struct {
	ID               uuid.UUID `db:"id" json:"id"`
	UserID           uuid.UUID `db:"user_id" json:"user_id"`
	FatigueLevel     int       `db:"fatigue_level" json:"fatigue_level"`
	StressLevel      int       `db:"stress_level" json:"stress_level"`
	WorkSatisfaction int       `db:"work_satisfaction" json:"work_satisfaction"`
	SleepQuality     int       `db:"sleep_quality" json:"sleep_quality"`
	SupportFeeling   int       `db:"support_feeling" json:"support_feeling"`
	Comments         *string   `db:"comments" json:"comments,omitempty"`
	SubmittedAt      time.Time `db:"submitted_at" json:"submitted_at"`
}

type MBIAssessment struct {
	ID                     uuid.UUID `db:"id" json:"id"`
	UserID                 uuid.UUID `db:"user_id" json:"user_id"`
	EmotionalExhaustion    int       `db:"emotional_exhaustion" json:"emotional_exhaustion"`
	Depersonalization      int       `db:"depersonalization" json:"depersonalization"`
	PersonalAccomplishment int       `db:"personal_accomplishment" json:"personal_accomplishment"`
	SubmittedAt            time.Time `db:"submitted_at" json:"submitted_at"`
}

type MBIAnswer struct {
	ID          uuid.UUID `db:"id" json:"id"`
	MBIID       uuid.UUID `db:"mbi_id" json:"mbi_id"`
	QuestionID  int       `db:"question_id" json:"question_id"`
	AnswerValue int       `db:"answer_value" json:"answer_value"`
}

// Journal analysis lifecycle. The analysis column holds placeholder text
// until the background task resolves it one way or the other.
const (
	AnalysisPending  = "pending"
	AnalysisComplete = "complete"
	AnalysisFailed   = "failed"
)

type JournalEntry struct {
	ID             uuid.UUID `db:"id" json:"id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	TextContent    string    `db:"text_content" json:"text_content"`
	AudioPath      *string   `db:"audio_path" json:"audio_path,omitempty"`
	Analysis       string    `db:"analysis" json:"analysis"`
	AnalysisStatus string    `db:"analysis_status" json:"analysis_status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type Goal struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	UserID    uuid.UUID  `db:"user_id" json:"user_id"`
	GoalType  *string    `db:"goal_type" json:"goal_type,omitempty"`
	GoalText  string     `db:"goal_text" json:"goal_text"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
}

type Conversation struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Message struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ConversationID uuid.UUID `db:"conversation_id" json:"conversation_id"`
	Role           string    `db:"role" json:"role"` // "user" or "assistant"
	Content        string    `db:"content" json:"content"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type WellnessActivity struct {
	ID              uuid.UUID `db:"id" json:"id"`
	UserID          uuid.UUID `db:"user_id" json:"user_id"`
	ActivityType    string    `db:"activity_type" json:"activity_type"` // box_breathing or stretching
	DurationSeconds int       `db:"duration_seconds" json:"duration_seconds"`
	CyclesCompleted *int      `db:"cycles_completed" json:"cycles_completed,omitempty"`
	PosesCompleted  *int      `db:"poses_completed" json:"poses_completed,omitempty"`
	SessionData     *string   `db:"session_data" json:"session_data,omitempty"`
	CompletedAt     time.Time `db:"completed_at" json:"completed_at"`
}

// Courses are global content keyed by slug-style string ids like
// "burnout-basics". Modules carry the actual reading material.
type Course struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	Duration    *string   `db:"duration" json:"duration,omitempty"`
	Difficulty  *string   `db:"difficulty" json:"difficulty,omitempty"`
	Category    *string   `db:"category" json:"category,omitempty"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	SortOrder   int       `db:"sort_order" json:"sort_order"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type CourseModule struct {
	ID        uuid.UUID `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	Duration  *string   `db:"duration" json:"duration,omitempty"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type UserCourseProgress struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	UserID             uuid.UUID  `db:"user_id" json:"user_id"`
	CourseID           string     `db:"course_id" json:"course_id"`
	ProgressPercentage float64    `db:"progress_percentage" json:"progress_percentage"`
	IsCompleted        bool       `db:"is_completed" json:"is_completed"`
	CompletionDate     *time.Time `db:"completion_date" json:"completion_date,omitempty"`
	StartedAt          time.Time  `db:"started_at" json:"started_at"`
	LastAccessedAt     time.Time  `db:"last_accessed_at" json:"last_accessed_at"`
}

type UserModuleProgress struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	CourseProgressID uuid.UUID  `db:"course_progress_id" json:"course_progress_id"`
	ModuleID         uuid.UUID  `db:"module_id" json:"module_id"`
	IsCompleted      bool       `db:"is_completed" json:"is_completed"`
	CompletedAt      *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	TimeSpentSeconds int        `db:"time_spent_seconds" json:"time_spent_seconds"`
}
