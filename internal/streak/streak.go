// Package streak computes consecutive-day streaks from session history.
package streak

import (
	"time"

	"github.com/foqos/foqos/internal/model"
)

// ConsecutiveDays calculates the current consecutive-day streak.
// If there is at least one session today, count back from today.
// Else, if there is at least one session yesterday, count back from yesterday.
// Else, the streak is 0 (the window was already missed).
//
// The result is a pure function of session start days and now; order of the
// input does not matter.
func ConsecutiveDays(sessions []*model.Session, now time.Time) int {
	if len(sessions) == 0 {
		return 0
	}

	loc := now.Location()
	today := startOfDay(now, loc)
	yesterday := today.AddDate(0, 0, -1)

	// Build the set of days that have at least one session.
	activeDays := make(map[time.Time]struct{}, len(sessions))
	for _, s := range sessions {
		activeDays[startOfDay(s.StartTime, loc)] = struct{}{}
	}

	// Choose anchor: today if active, else yesterday if active, else no streak.
	var anchor time.Time
	if _, ok := activeDays[today]; ok {
		anchor = today
	} else if _, ok := activeDays[yesterday]; ok {
		anchor = yesterday
	} else {
		return 0
	}

	// Count consecutive days backwards from the anchor.
	streak := 0
	for cursor := anchor; ; cursor = cursor.AddDate(0, 0, -1) {
		if _, ok := activeDays[cursor]; !ok {
			break
		}
		streak++
	}
	return streak
}

// Summary aggregates a session history snapshot.
type Summary struct {
	CurrentStreak int           `json:"current_streak"`
	TotalSessions int           `json:"total_sessions"`
	TotalDuration time.Duration `json:"total_duration_ns"`
}

// Summarize computes the streak alongside session totals.
func Summarize(sessions []*model.Session, now time.Time) Summary {
	var total time.Duration
	for _, s := range sessions {
		total += s.Duration()
	}
	return Summary{
		CurrentStreak: ConsecutiveDays(sessions, now),
		TotalSessions: len(sessions),
		TotalDuration: total,
	}
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
