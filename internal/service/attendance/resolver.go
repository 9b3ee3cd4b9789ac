package attendance

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
)

// resolveWindow finds the schedule an employee works on date. It fails with
// schedule.ErrNoActiveShiftAssigned when no shift assignment covers the date.
func (s *AttendanceServiceImpl) resolveWindow(ctx context.Context, employeeID string, date clock.Date) (schedule.Window, error) {
	assignment, err := s.repos.Shifts.GetActiveEmployeeShift(ctx, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get active employee shift: %w", err)
	}
	if assignment == nil {
		return nil, schedule.ErrNoActiveShiftAssigned
	}

	shift := assignment.Shift
	switch shift.Type {
	case schedule.ShiftTypeFixedWeekly:
		day, err := s.repos.Shifts.GetShiftDay(ctx, shift.ID, date.ISOWeekday())
		if err != nil {
			return nil, fmt.Errorf("failed to get shift day: %w", err)
		}
		if day == nil {
			return schedule.NoSchedule{Shift: shift, Reason: schedule.ReasonNoShiftDay}, nil
		}
		return schedule.FixedWeekly{Shift: shift, Day: *day}, nil

	case schedule.ShiftTypeRotating:
		ra, err := s.repos.Shifts.GetRotatingAssignment(ctx, employeeID, date)
		if err != nil {
			return nil, fmt.Errorf("failed to get rotating assignment: %w", err)
		}
		if ra == nil {
			return schedule.NoSchedule{Shift: shift, Reason: schedule.ReasonNoAssignment}, nil
		}
		if ra.IsDayOff() {
			return schedule.NoSchedule{Shift: shift, Reason: schedule.ReasonRotatingDayOff}, nil
		}
		return schedule.Rotating{Shift: shift, Assignment: *ra, Type: *ra.ShiftType}, nil
	}

	s.logger.Warn("unknown shift type", "shift_id", shift.ID, "type", shift.Type)
	return schedule.NoSchedule{Shift: shift, Reason: schedule.ReasonUnknownShiftType}, nil
}
