package schedule

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/shopspring/decimal"
)

type ShiftType string

const (
	ShiftTypeFixedWeekly ShiftType = "FIXED_WEEKLY"
	ShiftTypeRotating    ShiftType = "ROTATING"
)

type DayType string

const (
	DayTypeFullDay DayType = "FULL_DAY"
	DayTypeHalfDay DayType = "HALF_DAY"
	DayTypeRestDay DayType = "REST_DAY"
	DayTypeNight   DayType = "NIGHT"
)

type Shift struct {
	ID        string
	CompanyID string
	Name      string
	Type      ShiftType
	CycleDays int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ShiftDay is one element of a fixed weekly pattern.
type ShiftDay struct {
	ID                 string
	ShiftID            string
	DayNumber          int // 1=Monday, ..., 7=Sunday
	DayType            DayType
	StartTime          clock.TimeOfDay
	EndTime            clock.TimeOfDay
	BreakMinutes       int
	GracePeriodMinutes int
}

type RotatingShiftType struct {
	ID           string
	CompanyID    string
	Name         string
	StartTime    clock.TimeOfDay
	EndTime      clock.TimeOfDay
	BreakMinutes int
}

// RotatingAssignment places an employee on a shift type for one date.
// A nil ShiftTypeID or zero Hours means the day is off.
type RotatingAssignment struct {
	ID          string
	EmployeeID  string
	Date        clock.Date
	ShiftTypeID *string
	Hours       decimal.Decimal

	ShiftType *RotatingShiftType
}

func (a RotatingAssignment) IsDayOff() bool {
	return a.ShiftTypeID == nil || a.ShiftType == nil || a.Hours.IsZero()
}

// EmployeeShift assigns a shift to an employee for a date range. A nil EndDate is open-ended.
type EmployeeShift struct {
	ID         string
	EmployeeID string
	ShiftID    string
	StartDate  clock.Date
	EndDate    *clock.Date
	IsActive   bool

	Shift Shift
}

// Covers reports whether d falls inside the assignment's date range.
func (es EmployeeShift) Covers(d clock.Date) bool {
	if !es.IsActive || d.Before(es.StartDate) {
		return false
	}
	return es.EndDate == nil || !d.After(*es.EndDate)
}
