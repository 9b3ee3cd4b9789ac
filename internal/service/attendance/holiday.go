package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/events"
)

// recordDayOffWork handles punches on holidays and rest days. No work session
// is kept; the first punch opens a HOLIDAY_WORK or REST_DAY_WORK record and the
// second one closes and approves it.
func (s *AttendanceServiceImpl) recordDayOffWork(ctx context.Context, p preparedPunch, dayKind calendar.DayKind) (outcome, error) {
	otType, errCompleted := dayOffTypes(dayKind)

	existing, err := s.repos.Overtime.GetByEmployeeDateType(ctx, p.employee.ID, p.date, otType)
	if err != nil {
		return outcome{}, fmt.Errorf("failed to get %s record: %w", otType, err)
	}

	loc := p.clock.Location()
	log := s.logger.With(
		"employee_id", p.employee.ID,
		"date", p.date.String(),
		"day_kind", dayKind,
		"overtime_type", otType,
	)

	if p.manualPair {
		if existing != nil {
			if existing.IsOpen() {
				return outcome{}, attendance.ErrManualPunchOnSession
			}
			return outcome{}, errCompleted
		}
		record, err := s.createDayOffRecord(ctx, p, otType, p.in, &p.out)
		if err != nil {
			return outcome{}, err
		}
		log.Info("day off work recorded", "action", attendance.ActionManual)
		return dayOffOutcome(record, attendance.ActionManual, dayKind, loc,
			overtimeEvent(events.TypeOvertimeCreated, record, loc)), nil
	}

	switch {
	case existing == nil:
		if p.direction == attendance.DirectionOut {
			return outcome{}, attendance.ErrMustPunchInFirst
		}
		record, err := s.createDayOffRecord(ctx, p, otType, p.at, nil)
		if err != nil {
			return outcome{}, err
		}
		log.Info("day off work opened")
		return dayOffOutcome(record, attendance.ActionPunchIn, dayKind, loc,
			overtimeEvent(events.TypeOvertimeCreated, record, loc)), nil

	case existing.IsOpen():
		if p.direction == attendance.DirectionIn {
			return outcome{}, attendance.ErrAlreadyPunchedIn
		}
		if !p.at.After(existing.PunchIn) {
			return outcome{}, attendance.ErrPunchOutBeforePunchIn
		}
		record := *existing
		out := p.at
		minutes := clock.RoundMinutes(out.Sub(record.PunchIn))
		record.PunchOut = &out
		record.DurationMinutes = &minutes
		record.Status = overtime.StatusApproved

		record, err = s.repos.Overtime.Close(ctx, record)
		if errors.Is(err, overtime.ErrOvertimeClosed) {
			return outcome{}, errCompleted
		}
		if err != nil {
			return outcome{}, fmt.Errorf("failed to close %s record: %w", otType, err)
		}
		log.Info("day off work closed", "duration_minutes", minutes)
		return dayOffOutcome(record, attendance.ActionPunchOut, dayKind, loc,
			overtimeEvent(events.TypeOvertimeStatusChanged, record, loc)), nil

	default:
		return outcome{}, errCompleted
	}
}

// openDayOffKind reports the day kind of a HOLIDAY_WORK or REST_DAY_WORK
// record still waiting for its punch out, or "" when there is none.
func (s *AttendanceServiceImpl) openDayOffKind(ctx context.Context, p preparedPunch) (calendar.DayKind, error) {
	for _, kind := range []calendar.DayKind{calendar.DayKindHoliday, calendar.DayKindRestDay} {
		otType, _ := dayOffTypes(kind)
		record, err := s.repos.Overtime.GetByEmployeeDateType(ctx, p.employee.ID, p.date, otType)
		if err != nil {
			return "", fmt.Errorf("failed to get %s record: %w", otType, err)
		}
		if record != nil && record.IsOpen() {
			return kind, nil
		}
	}
	return "", nil
}

func dayOffTypes(dayKind calendar.DayKind) (overtime.Type, error) {
	if dayKind == calendar.DayKindRestDay {
		return overtime.TypeRestDayWork, attendance.ErrRestDayWorkCompleted
	}
	return overtime.TypeHolidayWork, attendance.ErrHolidayWorkCompleted
}

func (s *AttendanceServiceImpl) createDayOffRecord(ctx context.Context, p preparedPunch, otType overtime.Type, in time.Time, out *time.Time) (overtime.Record, error) {
	record := overtime.Record{
		CompanyID:  p.employee.CompanyID,
		EmployeeID: p.employee.ID,
		Date:       p.date,
		Type:       otType,
		Status:     overtime.StatusPending,
		PunchIn:    in,
		Source:     overtime.SourceSystem,
	}
	if out != nil {
		if !out.After(in) {
			return overtime.Record{}, apperror.Invariant("%s punch out is not after punch in", otType)
		}
		o := *out
		minutes := clock.RoundMinutes(o.Sub(in))
		record.PunchOut = &o
		record.DurationMinutes = &minutes
		record.Status = overtime.StatusApproved
	}

	created, err := s.repos.Overtime.Create(ctx, record)
	if err != nil {
		return overtime.Record{}, fmt.Errorf("failed to create %s record: %w", otType, err)
	}
	return created, nil
}

func dayOffOutcome(record overtime.Record, action attendance.PunchAction, dayKind calendar.DayKind, loc *time.Location, evt events.Event) outcome {
	return outcome{
		result: attendance.PunchResult{
			Kind:       attendance.ResultOvertimeOnly,
			Action:     action,
			DayKind:    dayKind,
			EmployeeID: record.EmployeeID,
			Date:       record.Date.String(),
			Overtime:   []overtime.OvertimeResponse{overtime.NewOvertimeResponse(record, loc)},
		},
		events: []events.Event{evt},
	}
}
