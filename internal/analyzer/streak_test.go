package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/devreport/year-in-review/internal/domain"
)

// localStamp builds an RFC3339 timestamp whose local calendar date is
// exactly the given day, keeping tests independent of the machine's
// timezone.
func localStamp(year int, month time.Month, day, hour int) string {
	return time.Date(year, month, day, hour, 0, 0, 0, time.Local).Format(time.RFC3339)
}

func eventsOn(stamps ...string) []domain.ActivityEvent {
	events := make([]domain.ActivityEvent, 0, len(stamps))
	for _, s := range stamps {
		events = append(events, domain.ActivityEvent{Kind: "PushEvent", Timestamp: s})
	}
	return events
}

func TestAnalyzeStreakConsecutiveDays(t *testing.T) {
	metrics := AnalyzeStreak(eventsOn(
		localStamp(2025, 1, 1, 9),
		localStamp(2025, 1, 2, 10),
		localStamp(2025, 1, 3, 11),
	))

	assert.Equal(t, 3, metrics.MaxStreak)
	assert.Equal(t, 3, metrics.TotalActiveDays)
	assert.Equal(t, "2025-01-01", metrics.MaxStreakStart)
	assert.Equal(t, "2025-01-03", metrics.MaxStreakEnd)
}

func TestAnalyzeStreakGaps(t *testing.T) {
	metrics := AnalyzeStreak(eventsOn(
		localStamp(2025, 1, 1, 9),
		localStamp(2025, 1, 3, 9),
		localStamp(2025, 1, 5, 9),
	))

	assert.Equal(t, 1, metrics.MaxStreak)
	assert.Equal(t, 3, metrics.TotalActiveDays)
}

func TestAnalyzeStreakDuplicateDaysCollapse(t *testing.T) {
	metrics := AnalyzeStreak(eventsOn(
		localStamp(2025, 3, 10, 8),
		localStamp(2025, 3, 10, 12),
		localStamp(2025, 3, 10, 22),
		localStamp(2025, 3, 11, 7),
	))

	assert.Equal(t, 2, metrics.MaxStreak)
	assert.Equal(t, 2, metrics.TotalActiveDays)
	assert.Equal(t, "2025-03-10", metrics.MaxStreakStart)
	assert.Equal(t, "2025-03-11", metrics.MaxStreakEnd)
}

func TestAnalyzeStreakFinalRunWins(t *testing.T) {
	// Two-day run early, four-day run at the very end of the input.
	metrics := AnalyzeStreak(eventsOn(
		localStamp(2025, 2, 1, 9),
		localStamp(2025, 2, 2, 9),
		localStamp(2025, 2, 10, 9),
		localStamp(2025, 2, 11, 9),
		localStamp(2025, 2, 12, 9),
		localStamp(2025, 2, 13, 9),
	))

	assert.Equal(t, 4, metrics.MaxStreak)
	assert.Equal(t, "2025-02-10", metrics.MaxStreakStart)
	assert.Equal(t, "2025-02-13", metrics.MaxStreakEnd)
}

func TestAnalyzeStreakSingleDay(t *testing.T) {
	metrics := AnalyzeStreak(eventsOn(localStamp(2025, 5, 20, 15)))

	assert.Equal(t, 1, metrics.MaxStreak)
	assert.Equal(t, 1, metrics.TotalActiveDays)
	assert.Equal(t, "2025-05-20", metrics.MaxStreakStart)
	assert.Equal(t, "2025-05-20", metrics.MaxStreakEnd)
}

func TestAnalyzeStreakEmpty(t *testing.T) {
	metrics := AnalyzeStreak(nil)

	assert.Equal(t, 0, metrics.MaxStreak)
	assert.Equal(t, 0, metrics.TotalActiveDays)
	assert.Empty(t, metrics.MaxStreakStart)
	assert.Empty(t, metrics.MaxStreakEnd)
}

func TestAnalyzeStreakSkipsMalformedTimestamps(t *testing.T) {
	events := eventsOn(localStamp(2025, 4, 1, 9))
	events = append(events, domain.ActivityEvent{Kind: "PushEvent", Timestamp: "not-a-date"})

	metrics := AnalyzeStreak(events)

	assert.Equal(t, 1, metrics.TotalActiveDays)
	assert.Equal(t, 1, metrics.MaxStreak)
}

func TestAnalyzeStreakMaxNeverExceedsActiveDays(t *testing.T) {
	metrics := AnalyzeStreak(eventsOn(
		localStamp(2025, 1, 1, 9),
		localStamp(2025, 1, 2, 9),
		localStamp(2025, 1, 9, 9),
		localStamp(2025, 1, 10, 9),
		localStamp(2025, 1, 11, 9),
	))

	assert.LessOrEqual(t, metrics.MaxStreak, metrics.TotalActiveDays)
	assert.Equal(t, 3, metrics.MaxStreak)
}
