package valueobject

import (
	"fmt"
	"time"
)

var monthAbbreviations = map[time.Month]string{
	time.January:   "Jan",
	time.February:  "Feb",
	time.March:     "Mar",
	time.April:     "Apr",
	time.May:       "May",
	time.June:      "Jun",
	time.July:      "Jul",
	time.August:    "Aug",
	time.September: "Sep",
	time.October:   "Oct",
	time.November:  "Nov",
	time.December:  "Dec",
}

// MonthPeriod is one calendar month, [Start, End).
type MonthPeriod struct {
	Start time.Time
	End   time.Time
	Label string
}

// MonthStart returns the first instant of the month containing date, in UTC.
func MonthStart(date time.Time) time.Time {
	date = date.UTC()
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthLabel formats a month as "Mar 2025".
func MonthLabel(date time.Time) string {
	return fmt.Sprintf("%s %d", monthAbbreviations[date.Month()], date.Year())
}

// LastMonths returns the n calendar months ending with the month containing now,
// oldest first.
func LastMonths(now time.Time, n int) []MonthPeriod {
	if n <= 0 {
		return nil
	}

	current := MonthStart(now).AddDate(0, -(n - 1), 0)
	periods := make([]MonthPeriod, 0, n)
	for i := 0; i < n; i++ {
		next := current.AddDate(0, 1, 0)
		periods = append(periods, MonthPeriod{
			Start: current,
			End:   next,
			Label: MonthLabel(current),
		})
		current = next
	}
	return periods
}
