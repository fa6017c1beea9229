package timeutil

import (
	"errors"
	"fmt"
	"time"
)

const dayLayout = "02.01.2006"

var ErrInvalidClock = errors.New("invalid clock time, expected HH:MM")

// Clock is a wall-clock time with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock accepts exactly zero-padded 24-hour "HH:MM" text.
func ParseClock(value string) (Clock, error) {
	if len(value) != 5 || value[2] != ':' {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}
	hour, ok := twoDigits(value[:2])
	if !ok || hour > 23 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}
	minute, ok := twoDigits(value[3:])
	if !ok || minute > 59 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

func twoDigits(value string) (int, bool) {
	if value[0] < '0' || value[0] > '9' || value[1] < '0' || value[1] > '9' {
		return 0, false
	}
	return int(value[0]-'0')*10 + int(value[1]-'0'), true
}

func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Overlap reports whether the half-open minute intervals [aStart, aEnd)
// and [bStart, bEnd) intersect. Touching endpoints do not overlap.
func Overlap(aStart, aEnd, bStart, bEnd int) bool {
	return max(aStart, bStart) < min(aEnd, bEnd)
}

// DurationLabel renders minutes as "{h}h {mm}m" with zero-padded minutes.
func DurationLabel(minutes int) string {
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

// ParseDay parses the canonical dd.mm.yyyy day text.
func ParseDay(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(dayLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", value, err)
	}
	return parsed, nil
}

// FormatDay renders a date as the canonical dd.mm.yyyy day text.
func FormatDay(value time.Time) string {
	return value.Format(dayLayout)
}

func Today() string {
	return FormatDay(time.Now())
}

// MonthKey derives the "YYYY-MM" partition key from a canonical day string.
func MonthKey(day string) (string, error) {
	parsed, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d-%02d", parsed.Year(), int(parsed.Month())), nil
}
