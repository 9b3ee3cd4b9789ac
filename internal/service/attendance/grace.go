package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/graceperiod"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
)

// workWindow is a work day's schedule with the effective grace applied.
// Unscheduled windows have no bounds, thresholds or overtime.
type workWindow struct {
	window    schedule.Window
	scheduled bool
	bounds    schedule.Bounds
	grace     int

	// Punches before early or after late are overtime.
	early time.Time
	late  time.Time
}

func (s *AttendanceServiceImpl) loadWorkWindow(ctx context.Context, companyID string, window schedule.Window, c clock.LocalClock, date clock.Date) (workWindow, error) {
	bounds, ok := boundsOf(window, c, date)
	if !ok {
		return workWindow{window: window}, nil
	}

	company, err := s.repos.GracePeriods.GetActive(ctx, companyID)
	if err != nil {
		return workWindow{}, fmt.Errorf("failed to get company grace period: %w", err)
	}

	ww := newWorkWindow(window, bounds, effectiveGrace(company, bounds))
	s.logger.Debug("thresholds computed",
		"date", date.String(),
		"window", window.Kind(),
		"grace_minutes", ww.grace,
		"overnight", bounds.Overnight,
		"early_threshold", ww.early,
		"late_threshold", ww.late,
	)
	return ww, nil
}

func newWorkWindow(window schedule.Window, bounds schedule.Bounds, grace int) workWindow {
	g := time.Duration(grace) * time.Minute
	return workWindow{
		window:    window,
		scheduled: true,
		bounds:    bounds,
		grace:     grace,
		early:     bounds.Start.Add(-g),
		late:      bounds.End.Add(g),
	}
}

// effectiveGrace prefers an active company policy, even one of zero minutes,
// over the grace configured on the shift day.
func effectiveGrace(company *graceperiod.CompanyGracePeriod, bounds schedule.Bounds) int {
	if company != nil && company.IsActive {
		return company.GracePeriodMinutes
	}
	return bounds.GracePeriodMinutes
}

// boundsOf returns false for windows that are never clipped or classified.
func boundsOf(window schedule.Window, c clock.LocalClock, date clock.Date) (schedule.Bounds, bool) {
	switch w := window.(type) {
	case schedule.FixedWeekly:
		if w.IsRestDay() {
			return schedule.Bounds{}, false
		}
		return w.Bounds(c, date), true
	case schedule.Rotating:
		return w.Bounds(c, date), true
	}
	return schedule.Bounds{}, false
}

func shiftIDOf(window schedule.Window) *string {
	var id string
	switch w := window.(type) {
	case schedule.FixedWeekly:
		id = w.Shift.ID
	case schedule.Rotating:
		id = w.Shift.ID
	case schedule.NoSchedule:
		id = w.Shift.ID
	}
	if id == "" {
		return nil
	}
	return &id
}
