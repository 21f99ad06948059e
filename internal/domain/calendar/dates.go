package calendar

import (
	"time"
)

// Day name abbreviations in pt-BR, Monday-first.
var dayNamesShort = []string{"Seg", "Ter", "Qua", "Qui", "Sex", "Sáb", "Dom"}

// SafeDate returns d, or the current time when d is the zero value.
// Callers never need to guard against an unset current date themselves.
func SafeDate(d time.Time) time.Time {
	if d.IsZero() {
		return time.Now()
	}
	return d
}

// WeekStart returns the Monday of the week containing d, at 00:00:00.000
// in d's location. Week math is ISO (Monday-first): Sunday maps to day
// index 7 before subtraction, regardless of locale.
func WeekStart(d time.Time) time.Time {
	d = SafeDate(d)
	day := int(d.Weekday())
	if day == 0 {
		day = 7
	}
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	return start.AddDate(0, 0, -(day - 1))
}

// WeekEnd returns the Sunday of the week containing d, at 23:59:59.999.
func WeekEnd(d time.Time) time.Time {
	start := WeekStart(d)
	end := start.AddDate(0, 0, 6)
	return time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999_000_000, end.Location())
}

// SameDay reports whether a and b fall on the same local calendar day.
// Both instants are converted to b's location first so that UTC-marked
// timestamps bucket onto the wall-clock day the user sees.
func SameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DayStart returns d truncated to midnight in its location.
func DayStart(d time.Time) time.Time {
	d = SafeDate(d)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// MonthGridRange returns the first and last day shown on the month grid
// for the month containing d: the Monday on or before the 1st through the
// Sunday on or after the last day of the month.
func MonthGridRange(d time.Time) (time.Time, time.Time) {
	d = SafeDate(d)
	monthStart := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)
	return WeekStart(monthStart), WeekEnd(monthEnd)
}

// DayNameShort returns the pt-BR short weekday name for d (Seg..Dom).
func DayNameShort(d time.Time) string {
	day := int(d.Weekday())
	// Weekday() is Sunday-first; shift so Monday is index 0.
	idx := day - 1
	if day == 0 {
		idx = 6
	}
	return dayNamesShort[idx]
}

// DayNames returns the Monday-first pt-BR short weekday names.
func DayNames() []string {
	out := make([]string, len(dayNamesShort))
	copy(out, dayNamesShort)
	return out
}
