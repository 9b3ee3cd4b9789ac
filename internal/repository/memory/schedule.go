package memory

import (
	"context"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
)

type shiftRepo struct {
	s *Store
}

func (r shiftRepo) GetActiveEmployeeShift(_ context.Context, employeeID string, date clock.Date) (*schedule.EmployeeShift, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var found *schedule.EmployeeShift
	for _, es := range r.s.employeeShifts {
		if es.EmployeeID != employeeID || !es.Covers(date) {
			continue
		}
		if found == nil || es.StartDate.After(found.StartDate) {
			es := es
			found = &es
		}
	}
	if found == nil {
		return nil, nil
	}

	shift, ok := r.s.shifts[found.ShiftID]
	if !ok {
		return nil, schedule.ErrShiftNotFound
	}
	found.Shift = shift
	return found, nil
}

func (r shiftRepo) GetShiftDay(_ context.Context, shiftID string, dayNumber int) (*schedule.ShiftDay, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	day, ok := r.s.shiftDays[dayKey{ShiftID: shiftID, DayNumber: dayNumber}]
	if !ok {
		return nil, nil
	}
	return &day, nil
}

func (r shiftRepo) GetRotatingAssignment(_ context.Context, employeeID string, date clock.Date) (*schedule.RotatingAssignment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.rotating[dateKey{EmployeeID: employeeID, Date: date}]
	if !ok {
		return nil, nil
	}
	if a.ShiftTypeID != nil {
		t, ok := r.s.rotatingTypes[*a.ShiftTypeID]
		if !ok {
			return nil, schedule.ErrRotatingTypeNotFound
		}
		a.ShiftType = &t
	}
	return &a, nil
}
