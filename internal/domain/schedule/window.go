package schedule

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
)

// Window is the schedule that applies to one employee on one date. It is one
// of FixedWeekly, Rotating or NoSchedule.
type Window interface {
	Kind() WindowKind
	isWindow()
}

type WindowKind string

const (
	WindowFixedWeekly WindowKind = "FIXED_WEEKLY"
	WindowRotating    WindowKind = "ROTATING"
	WindowNone        WindowKind = "NONE"
)

type FixedWeekly struct {
	Shift Shift
	Day   ShiftDay
}

func (FixedWeekly) Kind() WindowKind { return WindowFixedWeekly }
func (FixedWeekly) isWindow()        {}

func (w FixedWeekly) IsRestDay() bool { return w.Day.DayType == DayTypeRestDay }

func (w FixedWeekly) Bounds(c clock.LocalClock, d clock.Date) Bounds {
	return newBounds(c, d, w.Day.StartTime, w.Day.EndTime, w.Day.BreakMinutes, w.Day.GracePeriodMinutes)
}

type Rotating struct {
	Shift      Shift
	Assignment RotatingAssignment
	Type       RotatingShiftType
}

func (Rotating) Kind() WindowKind { return WindowRotating }
func (Rotating) isWindow()        {}

// Bounds of a rotating day. Rotating shift types carry no grace of their own.
func (w Rotating) Bounds(c clock.LocalClock, d clock.Date) Bounds {
	return newBounds(c, d, w.Type.StartTime, w.Type.EndTime, w.Type.BreakMinutes, 0)
}

type NoScheduleReason string

const (
	ReasonNoShiftDay       NoScheduleReason = "no_shift_day"
	ReasonNoAssignment     NoScheduleReason = "no_rotating_assignment"
	ReasonRotatingDayOff   NoScheduleReason = "rotating_day_off"
	ReasonUnknownShiftType NoScheduleReason = "unknown_shift_type"
)

// NoSchedule means the employee has a shift but nothing is scheduled on the date.
type NoSchedule struct {
	Shift  Shift
	Reason NoScheduleReason
}

func (NoSchedule) Kind() WindowKind { return WindowNone }
func (NoSchedule) isWindow()        {}

// Bounds are the instants a scheduled window covers on its work date.
type Bounds struct {
	Start              time.Time
	End                time.Time
	BreakMinutes       int
	GracePeriodMinutes int
	Overnight          bool
}

func newBounds(c clock.LocalClock, d clock.Date, start, end clock.TimeOfDay, breakMinutes, grace int) Bounds {
	b := Bounds{
		Start:              c.At(d, start),
		End:                c.At(d, end),
		BreakMinutes:       breakMinutes,
		GracePeriodMinutes: grace,
	}
	// An end earlier than the start belongs to the next calendar day.
	if end.Before(start) {
		b.End = c.At(d.AddDays(1), end)
		b.Overnight = true
	}
	return b
}
