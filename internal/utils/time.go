package utils

import (
	"fmt"
	"time"

	"github.com/questhacker/questhacker-cli/internal/constants"
	"github.com/questhacker/questhacker-cli/internal/models"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// DayKey returns the calendar-day key (YYYY-MM-DD) for the given instant.
// Dedup markers, completion events, and streak accounting all key on this.
func DayKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// DayKeyInTimezone returns the calendar-day key for an instant as observed
// in the given timezone. "Today" is determined by the user's configured
// timezone, not by the zone the timestamp happens to carry.
func DayKeyInTimezone(t time.Time, timezone string) (string, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return DayKey(t.In(loc)), nil
}

// TodayFromSettings returns today's day key using the timezone from settings.
func TodayFromSettings(settings models.Settings) (string, error) {
	now, err := NowInTimezone(settings.Timezone)
	if err != nil {
		return "", err
	}
	return DayKey(now), nil
}

// ParseTime parses a time string in the standard format (HH:MM).
func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(constants.TimeFormat, timeStr)
}

// ClockMinute formats an instant as its wall-clock minute (HH:MM), the
// granularity at which alert times are matched.
func ClockMinute(t time.Time) string {
	return t.Format(constants.TimeFormat)
}

// ValidateTimeFormat checks if the string matches the standard time format.
func ValidateTimeFormat(timeStr string) bool {
	_, err := ParseTime(timeStr)
	return err == nil
}
