package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Store builds daily activity windows from the four per-user event tables.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// DailyActivity returns a dense, oldest-to-newest window of the user's last
// `days` calendar days ending today (UTC). Each source table keeps its own
// timestamp column name, hence the four separate queries.
func (s *Store) DailyActivity(ctx context.Context, userID uuid.UUID, days int) ([]DayActivity, error) {
	now := time.Now().UTC()
	since := now.AddDate(0, 0, -(days - 1)).Truncate(24 * time.Hour)

	byDay := make(map[string]*DayActivity, days)
	keys := denseDays(now, days)
	for _, k := range keys {
		byDay[k] = &DayActivity{Date: k}
	}

	var moodTimes []time.Time
	if err := s.db.SelectContext(ctx, &moodTimes,
		`SELECT timestamp FROM mood_entries WHERE user_id=$1 AND timestamp >= $2`, userID, since); err != nil {
		return nil, err
	}
	for _, t := range moodTimes {
		if d, ok := byDay[dayKey(t)]; ok {
			d.Mood = true
		}
	}

	var microTimes []time.Time
	if err := s.db.SelectContext(ctx, &microTimes,
		`SELECT submitted_at FROM micro_assessments WHERE user_id=$1 AND submitted_at >= $2`, userID, since); err != nil {
		return nil, err
	}
	for _, t := range microTimes {
		if d, ok := byDay[dayKey(t)]; ok {
			d.MicroAssessment = true
		}
	}

	var mbiTimes []time.Time
	if err := s.db.SelectContext(ctx, &mbiTimes,
		`SELECT submitted_at FROM mbi_assessments WHERE user_id=$1 AND submitted_at >= $2`, userID, since); err != nil {
		return nil, err
	}
	for _, t := range mbiTimes {
		if d, ok := byDay[dayKey(t)]; ok {
			d.MBIAssessment = true
		}
	}

	var sessions []struct {
		ActivityType string    `db:"activity_type"`
		CompletedAt  time.Time `db:"completed_at"`
	}
	if err := s.db.SelectContext(ctx, &sessions,
		`SELECT activity_type, completed_at FROM wellness_activities WHERE user_id=$1 AND completed_at >= $2`, userID, since); err != nil {
		return nil, err
	}
	for _, sess := range sessions {
		d, ok := byDay[dayKey(sess.CompletedAt)]
		if !ok {
			continue
		}
		switch sess.ActivityType {
		case "box_breathing":
			d.Activities.BoxBreathing++
		case "stretching":
			d.Activities.Stretching++
		}
	}

	out := make([]DayActivity, 0, days)
	for _, k := range keys {
		out = append(out, *byDay[k])
	}
	return out, nil
}

// WellnessDaily is the narrow variant backing the wellness stats screen:
// the same dense window, but only exercise sessions count.
func (s *Store) WellnessDaily(ctx context.Context, userID uuid.UUID, days int) ([]DayActivity, error) {
	now := time.Now().UTC()
	since := now.AddDate(0, 0, -(days - 1)).Truncate(24 * time.Hour)

	byDay := make(map[string]*DayActivity, days)
	keys := denseDays(now, days)
	for _, k := range keys {
		byDay[k] = &DayActivity{Date: k}
	}

	var sessions []struct {
		ActivityType string    `db:"activity_type"`
		CompletedAt  time.Time `db:"completed_at"`
	}
	if err := s.db.SelectContext(ctx, &sessions,
		`SELECT activity_type, completed_at FROM wellness_activities WHERE user_id=$1 AND completed_at >= $2`, userID, since); err != nil {
		return nil, err
	}
	for _, sess := range sessions {
		d, ok := byDay[dayKey(sess.CompletedAt)]
		if !ok {
			continue
		}
		switch sess.ActivityType {
		case "box_breathing":
			d.Activities.BoxBreathing++
		case "stretching":
			d.Activities.Stretching++
		}
	}

	out := make([]DayActivity, 0, days)
	for _, k := range keys {
		out = append(out, *byDay[k])
	}
	return out, nil
}
