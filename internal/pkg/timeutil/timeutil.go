package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	YearMonthLayout = "2006-01"
	ClockLayout     = "15:04"
)

// TruncateToMinute zeroes the seconds and sub-second fields of t, keeping its location.
func TruncateToMinute(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
}

// MinutesBetween returns the whole minutes from a to b after truncating both to the minute.
// The result is negative when a is after b.
func MinutesBetween(a, b time.Time) int {
	return int(TruncateToMinute(b).Sub(TruncateToMinute(a)) / time.Minute)
}

// FormatSeconds renders a second count as HH:MM. Hours are not wrapped at 24.
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

// FormatClock renders t as HH:MM, or "" when t is nil.
func FormatClock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(ClockLayout)
}

// ParseClock parses an HH:MM string into hour and minute.
func ParseClock(s string) (hour int, minute int, err error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 || len(parts[1]) != 2 ||
		!isDigits(parts[0]) || !isDigits(parts[1]) {
		return 0, 0, fmt.Errorf("invalid clock value %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseClockOnDate combines an HH:MM string with the calendar day of date in loc.
func ParseClockOnDate(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, loc), nil
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DateOnly maps a calendar day onto UTC midnight, the form DATE columns round-trip as.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseYearMonth parses "YYYY-MM" and returns the first day of that month in UTC.
func ParseYearMonth(s string) (time.Time, error) {
	t, err := time.Parse(YearMonthLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year-month %q: %w", s, err)
	}
	return t, nil
}

// DaysInMonth returns the number of calendar days in the month containing t.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthRange returns the first and last calendar day of the month containing t, as UTC dates.
func MonthRange(t time.Time) (first time.Time, last time.Time) {
	first = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last = time.Date(t.Year(), t.Month(), DaysInMonth(t), 0, 0, 0, 0, time.UTC)
	return first, last
}
