package analyzer

import (
	"sort"
	"time"

	"github.com/devreport/year-in-review/internal/domain"
)

// AnalyzeStreak computes the longest run of consecutive calendar days
// with at least one event. Days are calendar dates in local time;
// duplicate events on the same day collapse to one active day. A streak
// ending on the last active date is closed out like any other; there is
// no notion of a streak still "in progress".
func AnalyzeStreak(events []domain.ActivityEvent) domain.StreakMetrics {
	active := make(map[string]struct{})
	for _, ev := range events {
		t, err := parseTimestamp(ev.Timestamp)
		if err != nil {
			continue
		}
		active[dateKey(t)] = struct{}{}
	}

	metrics := domain.StreakMetrics{TotalActiveDays: len(active)}
	if len(active) == 0 {
		return metrics
	}

	dates := make([]string, 0, len(active))
	for d := range active {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	runStart := dates[0]
	runLen := 1
	best := 1
	bestStart, bestEnd := dates[0], dates[0]

	for i := 1; i < len(dates); i++ {
		if dayGap(dates[i-1], dates[i]) == 1 {
			runLen++
		} else {
			if runLen > best {
				best = runLen
				bestStart, bestEnd = runStart, dates[i-1]
			}
			runStart = dates[i]
			runLen = 1
		}
	}
	if runLen > best {
		best = runLen
		bestStart, bestEnd = runStart, dates[len(dates)-1]
	}

	metrics.MaxStreak = best
	metrics.MaxStreakStart = bestStart
	metrics.MaxStreakEnd = bestEnd
	return metrics
}

// dayGap returns the number of days between two "YYYY-MM-DD" keys.
// Keys come from dateKey and always parse.
func dayGap(prev, cur string) int {
	a, _ := time.Parse("2006-01-02", prev)
	b, _ := time.Parse("2006-01-02", cur)
	return int(b.Sub(a).Hours() / 24)
}
