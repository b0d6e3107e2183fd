package analyzer

import "github.com/devreport/year-in-review/internal/domain"

// AnalyzeTimePatterns buckets events into hour-of-day, day-of-week,
// ISO-week, and month histograms. Each parseable event increments
// exactly one bucket in each of the four mappings; events with
// malformed timestamps are skipped. Buckets are not year-qualified, so
// the caller is expected to restrict input to a single year.
func AnalyzeTimePatterns(events []domain.ActivityEvent) domain.TimeMetrics {
	metrics := domain.TimeMetrics{
		ByHour:    make(map[int]int),
		ByWeekday: make(map[int]int),
		ByWeek:    make(map[int]int),
		ByMonth:   make(map[string]int),
	}

	for _, ev := range events {
		t, err := parseTimestamp(ev.Timestamp)
		if err != nil {
			continue
		}
		metrics.ByHour[HourOfDay(t)]++
		metrics.ByWeekday[DayOfWeek(t)]++
		metrics.ByWeek[ISOWeekNumber(t)]++
		metrics.ByMonth[MonthName(t)]++
	}

	return metrics
}
