package model

import (
	"fmt"
	"time"
)

// ParseYearMonth parses a "YYYY-MM" period identifier. The string must be
// exactly that shape: anything with trailing input (a full date, a stray
// suffix) is rejected so period strings are safe to use as cache keys and
// document IDs.
func ParseYearMonth(yearMonth string) (year int, month time.Month, err error) {
	t, parseErr := time.Parse("2006-01", yearMonth)
	if parseErr != nil {
		return 0, 0, fmt.Errorf("invalid yearMonth %q: want YYYY-MM", yearMonth)
	}
	return t.Year(), t.Month(), nil
}

// FormatYearMonth renders the period identifier for the given instant.
func FormatYearMonth(t time.Time) string {
	return t.Format("2006-01")
}

// PreviousYearMonth returns the identifier of the month immediately before
// the given period.
func PreviousYearMonth(yearMonth string) (string, error) {
	year, month, err := ParseYearMonth(yearMonth)
	if err != nil {
		return "", err
	}
	prev := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return FormatYearMonth(prev), nil
}

// MonthInterval returns the half-open interval [start, end) covering the
// period in the given location.
func MonthInterval(yearMonth string, loc *time.Location) (start, end time.Time, err error) {
	year, month, err := ParseYearMonth(yearMonth)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start = time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0), nil
}

// DaysIn returns the number of days in the period's month (28-31).
func DaysIn(yearMonth string) (int, error) {
	year, month, err := ParseYearMonth(yearMonth)
	if err != nil {
		return 0, err
	}
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day(), nil
}
