package analyzer

import "time"

// monthNames is a fixed English table so histogram keys never depend on
// the process locale.
var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// ISOWeekNumber returns the ISO-8601 week number (1-53) of t. The date
// is normalized to UTC midnight and shifted to the Thursday of its week
// before counting, so late-December dates can land in week 1 of the
// following year and early-January dates in week 52/53 of the previous
// one.
func ISOWeekNumber(t time.Time) int {
	u := t.UTC()
	d := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)

	weekday := int(d.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	thursday := d.AddDate(0, 0, 4-weekday)

	yearStart := time.Date(thursday.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	days := int(thursday.Sub(yearStart).Hours()/24) + 1
	return (days + 6) / 7
}

// MonthName returns the full English month name of t in the local
// timezone.
func MonthName(t time.Time) string {
	return monthNames[t.Local().Month()-1]
}

// HourOfDay returns t's hour (0-23) in the local timezone. Working
// patterns are deliberately reported in the user's wall-clock time, not
// UTC.
func HourOfDay(t time.Time) int {
	return t.Local().Hour()
}

// DayOfWeek returns t's weekday (0 = Sunday) in the local timezone.
func DayOfWeek(t time.Time) int {
	return int(t.Local().Weekday())
}

// parseTimestamp parses the raw RFC3339 timestamp carried on an
// ActivityEvent. Callers decide how to treat malformed values.
func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// dateKey projects t to its local calendar date as "YYYY-MM-DD".
// Lexical order of these keys is chronological order.
func dateKey(t time.Time) string {
	return t.Local().Format("2006-01-02")
}
