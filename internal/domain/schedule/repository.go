package schedule

import (
	"context"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
)

// ShiftRepository is read-only: shift lifecycle is managed elsewhere.
type ShiftRepository interface {
	// GetActiveEmployeeShift returns the assignment covering date with its shift,
	// or nil when the employee has none.
	GetActiveEmployeeShift(ctx context.Context, employeeID string, date clock.Date) (*EmployeeShift, error)

	// GetShiftDay returns the pattern day for dayNumber, or nil when the pattern has no such day.
	GetShiftDay(ctx context.Context, shiftID string, dayNumber int) (*ShiftDay, error)

	// GetRotatingAssignment returns the assignment for (employee, date) with its
	// shift type loaded, or nil when none exists.
	GetRotatingAssignment(ctx context.Context, employeeID string, date clock.Date) (*RotatingAssignment, error)
}
