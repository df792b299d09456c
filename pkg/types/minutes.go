package types

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// MinutesPerDay is the number of minutes in a calendar day.
const MinutesPerDay = 24 * 60

var clockRegexp = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// ErrInvalidClock is returned when a string is not a valid HH:MM value.
var ErrInvalidClock = errors.New("types: invalid clock value, expected HH:MM")

// ErrMinuteOutOfRange is returned when a minute offset does not fit in a day.
var ErrMinuteOutOfRange = errors.New("types: minute offset out of range")

// ParseClock converts an "HH:MM" string to a minute-of-day offset.
func ParseClock(s string) (int, error) {
	m := clockRegexp.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])

	return hours*60 + minutes, nil
}

// FormatClock converts a minute-of-day offset to an "HH:MM" string.
func FormatClock(minute int) string {
	if minute < 0 || minute >= MinutesPerDay {
		// Callers validate offsets before formatting; clamp instead of panicking.
		if minute < 0 {
			minute = 0
		} else {
			minute = MinutesPerDay - 1
		}
	}
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// ValidMinute reports whether a minute offset fits in a day.
func ValidMinute(minute int) bool {
	return minute >= 0 && minute < MinutesPerDay
}
