package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/foqos/foqos/internal/model"
)

func sessionOn(t time.Time) *model.Session {
	return &model.Session{
		ProfileKey: "profile:a",
		StartTime:  t,
		EndTime:    t.Add(30 * time.Minute),
	}
}

func TestEmptyHistory(t *testing.T) {
	assert.Equal(t, 0, ConsecutiveDays(nil, time.Now()))
}

func TestTwoConsecutiveDays(t *testing.T) {
	now := time.Date(2024, 1, 11, 23, 0, 0, 0, time.Local)
	sessions := []*model.Session{
		sessionOn(time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)),
		sessionOn(time.Date(2024, 1, 11, 14, 0, 0, 0, time.Local)),
	}
	assert.Equal(t, 2, ConsecutiveDays(sessions, now))
}

func TestSingleSessionToday(t *testing.T) {
	now := time.Date(2024, 1, 11, 23, 0, 0, 0, time.Local)
	sessions := []*model.Session{
		sessionOn(time.Date(2024, 1, 11, 8, 0, 0, 0, time.Local)),
	}
	assert.Equal(t, 1, ConsecutiveDays(sessions, now))
}

func TestMissedWindowResetsStreak(t *testing.T) {
	now := time.Date(2024, 1, 11, 23, 0, 0, 0, time.Local)
	// A long run of older days, but nothing today or yesterday.
	sessions := []*model.Session{
		sessionOn(time.Date(2024, 1, 5, 9, 0, 0, 0, time.Local)),
		sessionOn(time.Date(2024, 1, 6, 9, 0, 0, 0, time.Local)),
		sessionOn(time.Date(2024, 1, 7, 9, 0, 0, 0, time.Local)),
		sessionOn(time.Date(2024, 1, 8, 9, 0, 0, 0, time.Local)),
	}
	assert.Equal(t, 0, ConsecutiveDays(sessions, now))
}

func TestYesterdayAnchors(t *testing.T) {
	now := time.Date(2024, 1, 11, 8, 0, 0, 0, time.Local)
	sessions := []*model.Session{
		sessionOn(time.Date(2024, 1, 9, 9, 0, 0, 0, time.Local)),
		sessionOn(time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)),
	}
	// No session yet today; streak counts back from yesterday.
	assert.Equal(t, 2, ConsecutiveDays(sessions, now))
}

func TestGapStopsCount(t *testing.T) {
	now := time.Date(2024, 1, 11, 23, 0, 0, 0, time.Local)
	sessions := []*model.Session{
		sessionOn(time.Date(2024, 1, 7, 9, 0, 0, 0, time.Local)),
		// Gap on the 8th.
		sessionOn(time.Date(2024, 1, 9, 9, 0, 0, 0, time.Local)),
		sessionOn(time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)),
		sessionOn(time.Date(2024, 1, 11, 9, 0, 0, 0, time.Local)),
	}
	assert.Equal(t, 3, ConsecutiveDays(sessions, now))
}

func TestMultipleSessionsSameDayCountOnce(t *testing.T) {
	now := time.Date(2024, 1, 11, 23, 0, 0, 0, time.Local)
	sessions := []*model.Session{
		sessionOn(time.Date(2024, 1, 11, 9, 0, 0, 0, time.Local)),
		sessionOn(time.Date(2024, 1, 11, 15, 0, 0, 0, time.Local)),
		sessionOn(time.Date(2024, 1, 11, 21, 0, 0, 0, time.Local)),
	}
	assert.Equal(t, 1, ConsecutiveDays(sessions, now))
}

func TestOrderDoesNotMatter(t *testing.T) {
	now := time.Date(2024, 1, 11, 23, 0, 0, 0, time.Local)
	sessions := []*model.Session{
		sessionOn(time.Date(2024, 1, 11, 9, 0, 0, 0, time.Local)),
		sessionOn(time.Date(2024, 1, 9, 9, 0, 0, 0, time.Local)),
		sessionOn(time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)),
	}
	assert.Equal(t, 3, ConsecutiveDays(sessions, now))
}

func TestSummarize(t *testing.T) {
	now := time.Date(2024, 1, 11, 23, 0, 0, 0, time.Local)
	sessions := []*model.Session{
		sessionOn(time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)),
		sessionOn(time.Date(2024, 1, 11, 9, 0, 0, 0, time.Local)),
	}
	summary := Summarize(sessions, now)
	assert.Equal(t, 2, summary.CurrentStreak)
	assert.Equal(t, 2, summary.TotalSessions)
	assert.Equal(t, time.Hour, summary.TotalDuration)
}
