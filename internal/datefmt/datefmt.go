// Package datefmt renders provider timestamps as short display labels
// in a target timezone. Formatting never fails: bad input comes back
// unchanged so a malformed timestamp cannot sink a whole job.
package datefmt

import (
	"strings"
	"time"
)

// Provider timestamps are either plain dates or minute-resolution
// local times without a zone offset; RFC 3339 covers responses that do
// carry one.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// DayLabel formats a raw date string as a weekday/month/day label
// ("Mon Jan 2") in the given timezone. On any parse or zone failure
// the raw string is returned unchanged.
func DayLabel(raw, tz string) string {
	return format(raw, tz, "Mon Jan 2")
}

// HourLabel formats a raw date-time string as a weekday/month/day/hour
// label ("Mon Jan 2 3 PM") in the given timezone. On any parse or zone
// failure the raw string is returned unchanged.
func HourLabel(raw, tz string) string {
	return format(raw, tz, "Mon Jan 2 3 PM")
}

func format(raw, tz, layout string) string {
	loc, err := resolveZone(tz)
	if err != nil {
		return raw
	}
	t, err := parse(raw, loc)
	if err != nil {
		return raw
	}
	return t.In(loc).Format(layout)
}

// resolveZone maps "auto" and empty timezone names to UTC; anything
// else must be a loadable IANA name.
func resolveZone(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" || strings.EqualFold(tz, "auto") {
		return time.UTC, nil
	}
	return time.LoadLocation(tz)
}

// parse interprets zone-less timestamps as wall time in loc, so that
// a provider response already localized to the request timezone is not
// shifted a second time.
func parse(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	var lastErr error
	for _, layout := range naiveLayouts {
		t, err := time.ParseInLocation(layout, raw, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
