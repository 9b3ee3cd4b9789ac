// Package clock centralizes how calendar dates and wall-clock times become
// instants. Every conversion between a work date, a shift time and a punch
// timestamp goes through a LocalClock so all call sites agree on the local day.
package clock

import (
	"fmt"
	"strings"
	"time"
)

// LocalClock converts between local wall-clock values and instants.
type LocalClock interface {
	// At combines a calendar date and a time of day into an instant in the clock's location.
	At(d Date, t TimeOfDay) time.Time
	// TimeOfDay extracts the local wall-clock time of an instant.
	TimeOfDay(instant time.Time) TimeOfDay
	Location() *time.Location
}

type locationClock struct {
	loc *time.Location
}

// New returns a LocalClock bound to loc. A nil loc means UTC.
func New(loc *time.Location) LocalClock {
	if loc == nil {
		loc = time.UTC
	}
	return locationClock{loc: loc}
}

// ForZone loads an IANA zone, falling back to fallback when name is empty or unknown.
func ForZone(name string, fallback *time.Location) LocalClock {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return New(loc)
		}
	}
	return New(fallback)
}

func (c locationClock) At(d Date, t TimeOfDay) time.Time {
	return time.Date(d.Year, d.Month, d.Day, t.Hour, t.Minute, t.Second, 0, c.loc)
}

func (c locationClock) Location() *time.Location { return c.loc }

func (c locationClock) TimeOfDay(instant time.Time) TimeOfDay {
	local := instant.In(c.loc)
	return TimeOfDay{Hour: local.Hour(), Minute: local.Minute(), Second: local.Second()}
}

var localLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

// ParseInstant parses an RFC3339 timestamp as-is, or a zone-less local
// timestamp by splitting it into date and time of day and combining them on c.
func ParseInstant(c LocalClock, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}

	for _, layout := range localLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return c.At(DateOf(t), TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}), nil
	}

	return time.Time{}, fmt.Errorf("invalid timestamp %q: expected RFC3339 or YYYY-MM-DD HH:MM[:SS]", s)
}
