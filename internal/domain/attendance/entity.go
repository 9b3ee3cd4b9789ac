package attendance

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
)

const (
	SourceDevice = "device"
	SourceManual = "manual"
)

// PunchState is where an (employee, date) pair stands in the two-punch cycle.
type PunchState string

const (
	StateNoSession PunchState = "NO_SESSION"
	StatePunchedIn PunchState = "PUNCHED_IN"
	StateComplete  PunchState = "COMPLETE"
)

// WorkSession is the single attendance record of an employee on a work day.
// PunchIn and PunchOut are the displayed times, clipped to the shift window;
// the Actual fields keep what was punched.
type WorkSession struct {
	ID              string
	CompanyID       string
	EmployeeID      string
	ShiftID         *string
	Date            clock.Date
	PunchIn         time.Time
	PunchOut        *time.Time
	ActualPunchIn   time.Time
	ActualPunchOut  *time.Time
	PunchInSource   string
	PunchOutSource  *string
	DurationMinutes *int
	EarlyMinutes    int
	LateMinutes     int
	DeductedMinutes int
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Populated by reads that join the employee.
	EmployeeName *string
	Timezone     *string
}

// StateOf maps a possibly missing session to its punch state.
func StateOf(s *WorkSession) PunchState {
	switch {
	case s == nil:
		return StateNoSession
	case s.ActualPunchOut == nil:
		return StatePunchedIn
	default:
		return StateComplete
	}
}
