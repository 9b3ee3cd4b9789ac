package attendance

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
)

// classifyDay decides HOLIDAY, REST_DAY or WORK_DAY for the employee on date.
// A holiday short-circuits before the shift is resolved, so the returned window
// is nil for holidays.
func (s *AttendanceServiceImpl) classifyDay(ctx context.Context, emp employee.Employee, date clock.Date) (calendar.DayKind, schedule.Window, error) {
	holiday, err := s.repos.Holidays.GetActiveByDate(ctx, emp.CompanyID, date)
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up holiday: %w", err)
	}
	if holiday != nil {
		s.logger.Debug("day classified",
			"employee_id", emp.ID,
			"date", date.String(),
			"day_kind", calendar.DayKindHoliday,
			"holiday", holiday.Title,
		)
		return calendar.DayKindHoliday, nil, nil
	}

	window, err := s.resolveWindow(ctx, emp.ID, date)
	if err != nil {
		return "", nil, err
	}

	kind := dayKindOf(window, s.opts.RotatingOffDayAsRestDay)
	s.logger.Debug("day classified",
		"employee_id", emp.ID,
		"date", date.String(),
		"day_kind", kind,
		"window", window.Kind(),
	)
	return kind, window, nil
}

func dayKindOf(window schedule.Window, rotatingOffDayAsRestDay bool) calendar.DayKind {
	switch w := window.(type) {
	case schedule.FixedWeekly:
		if w.IsRestDay() {
			return calendar.DayKindRestDay
		}
	case schedule.NoSchedule:
		if w.Reason == schedule.ReasonRotatingDayOff && rotatingOffDayAsRestDay {
			return calendar.DayKindRestDay
		}
	}
	return calendar.DayKindWorkDay
}
