// Package event derives the display status of an event from its stored
// date/time fields. The derived value is authoritative; the status column is
// only a cache refreshed by the jobs package.
package event

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"clubpulse/server/internal/model"
)

type Status string

const (
	StatusUpcoming Status = "Upcoming"
	StatusLive     Status = "Live"
	StatusExpired  Status = "Expired"
)

// clockPattern accepts 24-hour HH:mm and the legacy h:mm AM/PM form older
// records were saved with.
var clockPattern = regexp.MustCompile(`(?i)^\s*(\d{1,2}):(\d{2})\s*(AM|PM)?\s*$`)

// Classify buckets now against the event window. Boundaries are half-open:
// now == start is Live, now == end is Expired. Missing startTime means
// start-of-day; missing endTime means start+1h when a start exists,
// end-of-day otherwise. An unparseable date classifies as Upcoming.
func Classify(date, startTime, endTime string, now time.Time) Status {
	start, end, ok := Window(date, startTime, endTime)
	if !ok {
		return StatusUpcoming
	}
	switch {
	case now.Before(start):
		return StatusUpcoming
	case now.Before(end):
		return StatusLive
	default:
		return StatusExpired
	}
}

// StatusOf applies the legacy single-time fallback before classifying.
func StatusOf(ev model.Event, now time.Time) Status {
	start := ev.StartTime
	if start == "" {
		start = ev.Time
	}
	return Classify(ev.Date, start, ev.EndTime, now)
}

// Window resolves the concrete [start, end) interval for an event in local
// time. ok is false when the date cannot be parsed.
func Window(date, startTime, endTime string) (start, end time.Time, ok bool) {
	year, month, day, ok := parseDate(date)
	if !ok {
		return time.Time{}, time.Time{}, false
	}

	startHour, startMinute := 0, 0
	if startTime != "" {
		startHour, startMinute = parseClock(startTime)
	}
	start = time.Date(year, time.Month(month), day, startHour, startMinute, 0, 0, time.Local)

	switch {
	case endTime != "":
		endHour, endMinute := parseClock(endTime)
		end = time.Date(year, time.Month(month), day, endHour, endMinute, 0, 0, time.Local)
	case startTime != "":
		end = start.Add(time.Hour)
	default:
		end = time.Date(year, time.Month(month), day, 23, 59, 0, 0, time.Local)
	}
	return start, end, true
}

func parseDate(date string) (year, month, day int, ok bool) {
	parts := strings.Split(strings.TrimSpace(date), "-")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, false
	}
	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, false
	}
	day, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, 0, false
	}
	return year, month, day, true
}

// parseClock falls back to midnight for values the pattern does not match,
// mirroring how existing records with free-text times are displayed.
func parseClock(value string) (hour, minute int) {
	match := clockPattern.FindStringSubmatch(value)
	if match == nil {
		return 0, 0
	}
	hour, _ = strconv.Atoi(match[1])
	minute, _ = strconv.Atoi(match[2])
	switch strings.ToUpper(match[3]) {
	case "PM":
		if hour < 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 || minute > 59 {
		return 0, 0
	}
	return hour, minute
}
