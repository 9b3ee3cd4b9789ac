package memory

import (
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
)

// dateRange parses optional filter bounds; unparsable bounds are ignored.
func dateRange(start, end *string) (from, to *clock.Date) {
	parse := func(s *string) *clock.Date {
		if s == nil || *s == "" {
			return nil
		}
		d, err := clock.ParseDate(*s)
		if err != nil {
			return nil
		}
		return &d
	}
	return parse(start), parse(end)
}

func inRange(d clock.Date, from, to *clock.Date) bool {
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}

func compareDates(a, b clock.Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func descending(order string) bool {
	return !strings.EqualFold(order, "asc")
}

// page slices items for a 1-based page; non-positive values return everything.
func page[T any](items []T, pageNum, limit int) []T {
	if pageNum <= 0 || limit <= 0 {
		return items
	}
	start := (pageNum - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := min(start+limit, len(items))
	return items[start:end]
}
