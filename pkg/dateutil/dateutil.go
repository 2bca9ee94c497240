package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// MonthsBetween returns the calendar-month difference between two dates.
// Day-of-month is ignored: 2025-01-31 to 2025-02-01 is one month.
func MonthsBetween(fromDate, toDate time.Time) int {
	return (toDate.Year()-fromDate.Year())*12 + int(toDate.Month()) - int(fromDate.Month())
}

// AddMonths adds a specified number of months to a date
func AddMonths(date time.Time, months int) time.Time {
	return date.AddDate(0, months, 0)
}

// BeginningOfMonth returns the first day of the month for a given date
func BeginningOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// DateOnly truncates a time to midnight UTC of the same calendar day.
func DateOnly(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}

// Layouts tried by ParseFlexible, in order. Day-first numeric layouts come
// before the month-first fallbacks so that 03/04/2025 reads as 3 April.
var flexibleLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006-1-2",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2.1.2006",
	"02/01/06",
	"2/1/06",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2-Jan-2006",
	"2006-01",
	"01/2006",
}

// ParseFlexible parses a date-like string using day-first ordering for
// ambiguous numeric forms. The result is normalized with DateOnly.
func ParseFlexible(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range flexibleLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
