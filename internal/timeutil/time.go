package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultTimezone is used when a user has no timezone configured, so that
// notification windows do not drift for fresh accounts.
const DefaultTimezone = "UTC"

var utcLike = map[string]bool{
	"utc":       true,
	"etc/utc":   true,
	"gmt":       true,
	"etc/gmt":   true,
	"etc/gmt+0": true,
	"etc/gmt-0": true,
}

// ResolveLocation loads the user's timezone, falling back to UTC on empty
// or unknown names.
func ResolveLocation(tz string) *time.Location {
	value := strings.TrimSpace(tz)
	if value == "" || utcLike[strings.ToLower(value)] {
		return time.UTC
	}
	loc, err := time.LoadLocation(value)
	if err != nil {
		return time.UTC
	}
	return loc
}

// UserNow returns the current moment in the user's timezone.
func UserNow(tz string, now time.Time) time.Time {
	return now.In(ResolveLocation(tz))
}

// MinuteOfDay returns local minutes since midnight for t.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// IsWithinWindow reports whether the local time falls in the allowed
// notification window [start, end) expressed as minutes of day. Equal
// start and end means "always on"; start > end means the window wraps
// midnight.
func IsWithinWindow(local time.Time, startMinutes, endMinutes int) bool {
	minutes := MinuteOfDay(local)
	if startMinutes == endMinutes {
		return true
	}
	if startMinutes < endMinutes {
		return minutes >= startMinutes && minutes < endMinutes
	}
	return minutes >= startMinutes || minutes < endMinutes
}

// StartOfUserDay truncates at to midnight in the user's timezone.
func StartOfUserDay(tz string, at time.Time) time.Time {
	local := at.In(ResolveLocation(tz))
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

// DiffInDays returns the whole-day difference between a and b, comparing
// calendar days in each value's own location.
func DiffInDays(a, b time.Time) int {
	aDay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bDay := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(aDay.Sub(bDay).Hours() / 24)
}

// MinutesToTimeString formats minutes-of-day as HH:MM, wrapping over
// midnight.
func MinutesToTimeString(minutes int) string {
	m := ((minutes % 1440) + 1440) % 1440
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

var timeRe = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)

// ParseTimeString parses HH:MM into minutes of day; ok is false on bad
// input.
func ParseTimeString(value string) (int, bool) {
	match := timeRe.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])
	return hours*60 + minutes, true
}

// FormatDateTime renders a timestamp in the user's timezone.
func FormatDateTime(t time.Time, tz string) string {
	return t.In(ResolveLocation(tz)).Format("2006-01-02 15:04")
}
