package calendar

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
)

// DayKind is the classification of one (company, date) pair.
type DayKind string

const (
	DayKindWorkDay DayKind = "WORK_DAY"
	DayKindHoliday DayKind = "HOLIDAY"
	DayKindRestDay DayKind = "REST_DAY"
)

const DayTypeHoliday = "HOLIDAY"

type HolidayEntry struct {
	ID        string
	CompanyID string
	Date      clock.Date
	DayType   string
	Title     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
