package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/trackmy/internal/constants"
)

// DayKey returns the local calendar date of t as a YYYY-MM-DD key.
// Keys sort lexicographically in chronological order.
func DayKey(t time.Time) string {
	return DayKeyIn(t, time.Local)
}

// DayKeyIn returns the calendar date of t in loc as a YYYY-MM-DD key.
func DayKeyIn(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(constants.DateFormat)
}

// ParseDayKey parses a YYYY-MM-DD key into midnight UTC of that date.
func ParseDayKey(key string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q (expected YYYY-MM-DD): %w", key, err)
	}
	return t, nil
}

// ValidDayKey reports whether key is a well-formed YYYY-MM-DD date.
func ValidDayKey(key string) bool {
	_, err := ParseDayKey(key)
	return err == nil
}

// AddDays shifts a day key by n calendar days.
// The arithmetic happens on UTC dates, so DST transitions never skip or repeat a day.
func AddDays(key string, n int) (string, error) {
	t, err := ParseDayKey(key)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat), nil
}

// WeekRange returns the Sunday and Saturday keys of the week containing t in loc,
// shifted by offset weeks.
func WeekRange(t time.Time, loc *time.Location, offset int) (start, end string) {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	first := day.AddDate(0, 0, -int(day.Weekday())+offset*7)
	last := first.AddDate(0, 0, 6)
	return first.Format(constants.DateFormat), last.Format(constants.DateFormat)
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimeFormat checks if the string matches the reminder time format (HH:MM).
func ValidateTimeFormat(timeStr string) bool {
	_, err := time.Parse(constants.TimeFormat, timeStr)
	return err == nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
