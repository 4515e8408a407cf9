// Package activity aggregates per-user wellness events into dense daily
// buckets and derives engagement streaks from them.
package activity

import "time"

// ActivityCounts holds per-day session counts for the two guided exercises.
type ActivityCounts struct {
	BoxBreathing int `json:"boxBreathing"`
	Stretching   int `json:"stretching"`
}

// DayActivity is one calendar day (UTC) of a user's engagement. Days with no
// events keep their zero values; the aggregator never leaves gaps.
type DayActivity struct {
	Date            string         `json:"date"` // YYYY-MM-DD
	Mood            bool           `json:"mood"`
	MicroAssessment bool           `json:"microAssessment"`
	MBIAssessment   bool           `json:"mbiAssessment"`
	Activities      ActivityCounts `json:"activities"`
}

// HasActivity reports whether the day counts toward a streak: any mood,
// assessment, or at least one exercise session.
func (d DayActivity) HasActivity() bool {
	return d.Mood || d.MicroAssessment || d.MBIAssessment ||
		d.Activities.BoxBreathing > 0 || d.Activities.Stretching > 0
}

// dayKey buckets a timestamp into its UTC calendar day.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// denseDays returns every day key from (end - days + 1) through end,
// oldest first.
func denseDays(end time.Time, days int) []string {
	out := make([]string, 0, days)
	start := end.UTC().AddDate(0, 0, -(days - 1))
	for i := 0; i < days; i++ {
		out = append(out, dayKey(start.AddDate(0, 0, i)))
	}
	return out
}

// CurrentStreak counts consecutive active days scanning backward from the
// most recent day. The scan stops at the first inactive day, so a quiet
// most-recent day means a streak of zero.
func CurrentStreak(days []DayActivity) int {
	streak := 0
	for i := len(days) - 1; i >= 0; i-- {
		if !days[i].HasActivity() {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak is the longest run of consecutive active days anywhere in
// the window.
func LongestStreak(days []DayActivity) int {
	longest, run := 0, 0
	for _, d := range days {
		if d.HasActivity() {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}
