// Package ical reads public holiday feeds in iCalendar (RFC 5545) format.
package ical

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
)

const (
	maxFeedSize = 5 * 1024 * 1024
	maxSpanDays = 31
)

// Holiday is one calendar date taken from an all-day event.
type Holiday struct {
	Date  clock.Date
	Title string
}

// ParseHolidays returns one Holiday per date covered by an all-day VEVENT.
// Timed events and events without a summary are counted in skipped.
// Multi-day events expand to each date before their exclusive DTEND.
func ParseHolidays(r io.Reader) (holidays []Holiday, skipped int, err error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, 0, fmt.Errorf("parse calendar: %w", err)
	}

	seen := make(map[clock.Date]bool)
	for _, evt := range cal.Events() {
		title := summaryOf(evt)
		start, ok := allDayDate(evt, ics.ComponentPropertyDtStart)
		if !ok || title == "" {
			skipped++
			continue
		}

		end, ok := allDayDate(evt, ics.ComponentPropertyDtEnd)
		if !ok || !end.After(start) {
			end = start.AddDays(1)
		}

		for d, n := start, 0; d.Before(end) && n < maxSpanDays; d, n = d.AddDays(1), n+1 {
			if seen[d] {
				continue
			}
			seen[d] = true
			holidays = append(holidays, Holiday{Date: d, Title: title})
		}
	}
	return holidays, skipped, nil
}

func summaryOf(evt *ics.VEvent) string {
	p := evt.GetProperty(ics.ComponentPropertySummary)
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.Value)
}

// allDayDate reads a DATE-valued property. DATE-TIME values are rejected.
func allDayDate(evt *ics.VEvent, prop ics.ComponentProperty) (clock.Date, bool) {
	p := evt.GetProperty(prop)
	if p == nil {
		return clock.Date{}, false
	}
	value := strings.TrimSpace(p.Value)
	if len(value) != len("20060102") {
		return clock.Date{}, false
	}
	t, err := time.Parse("20060102", value)
	if err != nil {
		return clock.Date{}, false
	}
	return clock.DateOf(t), true
}

// Fetch downloads a feed. webcal:// URLs are fetched over https and the body
// is capped at 5 MiB.
func Fetch(ctx context.Context, client *http.Client, rawURL string) (io.ReadCloser, error) {
	u := rawURL
	if rest, ok := strings.CutPrefix(u, "webcal://"); ok {
		u = "https://" + rest
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/calendar")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch calendar: unexpected status %d", resp.StatusCode)
	}

	return struct {
		io.Reader
		io.Closer
	}{
		Reader: io.LimitReader(resp.Body, maxFeedSize),
		Closer: resp.Body,
	}, nil
}
