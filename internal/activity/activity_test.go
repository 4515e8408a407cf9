package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(active bool) DayActivity {
	d := DayActivity{}
	if active {
		d.Mood = true
	}
	return d
}

func window(pattern ...bool) []DayActivity {
	out := make([]DayActivity, 0, len(pattern))
	for _, p := range pattern {
		out = append(out, day(p))
	}
	return out
}

func TestStreaksEmptyHistory(t *testing.T) {
	assert.Equal(t, 0, CurrentStreak(nil))
	assert.Equal(t, 0, LongestStreak(nil))
}

func TestStreaksAllInactive(t *testing.T) {
	days := window(false, false, false, false)
	assert.Equal(t, 0, CurrentStreak(days))
	assert.Equal(t, 0, LongestStreak(days))
}

func TestCurrentStreakOnlyMostRecentDayActive(t *testing.T) {
	days := window(false, false, false, true)
	assert.Equal(t, 1, CurrentStreak(days))
	assert.Equal(t, 1, LongestStreak(days))
}

func TestCurrentStreakBreaksOnInactiveDay(t *testing.T) {
	// oldest -> newest
	days := window(true, true, false, true, true, true)
	assert.Equal(t, 3, CurrentStreak(days))
	assert.Equal(t, 3, LongestStreak(days))
}

func TestCurrentStreakZeroWhenMostRecentInactive(t *testing.T) {
	days := window(true, true, true, false)
	assert.Equal(t, 0, CurrentStreak(days))
	assert.Equal(t, 3, LongestStreak(days))
}

func TestLongestStreakInMiddleOfWindow(t *testing.T) {
	days := window(true, false, true, true, true, true, false, true)
	assert.Equal(t, 1, CurrentStreak(days))
	assert.Equal(t, 4, LongestStreak(days))
}

func TestHasActivityPredicate(t *testing.T) {
	assert.False(t, DayActivity{}.HasActivity())
	assert.True(t, DayActivity{Mood: true}.HasActivity())
	assert.True(t, DayActivity{MicroAssessment: true}.HasActivity())
	assert.True(t, DayActivity{MBIAssessment: true}.HasActivity())
	assert.True(t, DayActivity{Activities: ActivityCounts{BoxBreathing: 1}}.HasActivity())
	assert.True(t, DayActivity{Activities: ActivityCounts{Stretching: 2}}.HasActivity())
}

func TestDenseDaysCoversWindowInOrder(t *testing.T) {
	end := time.Date(2026, 3, 3, 15, 30, 0, 0, time.UTC)
	keys := denseDays(end, 5)
	assert.Equal(t, []string{"2026-02-27", "2026-02-28", "2026-03-01", "2026-03-02", "2026-03-03"}, keys)
}

func TestDayKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	// 02:00 on May 2 in UTC+10 is still May 1 in UTC.
	local := time.Date(2026, 5, 2, 2, 0, 0, 0, loc)
	assert.Equal(t, "2026-05-01", dayKey(local))
}
