package overtime

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
)

type Type string

const (
	TypeUnscheduled   Type = "UNSCHEDULED"
	TypeEarlyArrival  Type = "EARLY_ARRIVAL"
	TypeLateDeparture Type = "LATE_DEPARTURE"
	TypeExtendedShift Type = "EXTENDED_SHIFT"
	TypeHolidayWork   Type = "HOLIDAY_WORK"
	TypeRestDayWork   Type = "REST_DAY_WORK"
)

var TypeValues = []string{
	string(TypeUnscheduled),
	string(TypeEarlyArrival),
	string(TypeLateDeparture),
	string(TypeExtendedShift),
	string(TypeHolidayWork),
	string(TypeRestDayWork),
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusPaid     Status = "PAID"
)

var StatusValues = []string{
	string(StatusPending),
	string(StatusApproved),
	string(StatusRejected),
	string(StatusPaid),
}

// SourceSystem marks records derived by classification, SourceManual records entered by hand.
const (
	SourceSystem = "system"
	SourceManual = "manual"
)

type Record struct {
	ID              string
	CompanyID       string
	EmployeeID      string
	WorkSessionID   *string
	Date            clock.Date
	Type            Type
	Status          Status
	PunchIn         time.Time
	PunchOut        *time.Time
	DurationMinutes *int
	Source          string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Populated by reads that join the employee.
	EmployeeName *string
	Timezone     *string
}

func (r Record) IsOpen() bool {
	return r.PunchOut == nil
}

var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected, StatusPaid},
	StatusApproved: {StatusPaid, StatusRejected},
}

// CanTransitionTo reports whether the status change is allowed. REJECTED and PAID are final.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
