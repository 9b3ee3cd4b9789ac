package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/events"
)

// nextAction moves the NO_SESSION -> PUNCHED_IN -> COMPLETE machine one step.
// An explicit direction must agree with the state; DirectionAuto follows it.
func nextAction(state attendance.PunchState, dir attendance.Direction) (attendance.PunchAction, error) {
	switch state {
	case attendance.StateNoSession:
		if dir == attendance.DirectionOut {
			return "", attendance.ErrMustPunchInFirst
		}
		return attendance.ActionPunchIn, nil
	case attendance.StatePunchedIn:
		if dir == attendance.DirectionIn {
			return "", attendance.ErrAlreadyPunchedIn
		}
		return attendance.ActionPunchOut, nil
	default:
		if dir == attendance.DirectionOut {
			return "", attendance.ErrAlreadyPunchedOut
		}
		return "", attendance.ErrSessionCompleted
	}
}

// recordWorkDayPunch advances the session of the date. existing is nil when
// the date has no session yet.
func (s *AttendanceServiceImpl) recordWorkDayPunch(ctx context.Context, p preparedPunch, window schedule.Window, existing *attendance.WorkSession) (outcome, error) {
	state := attendance.StateOf(existing)

	ww, err := s.loadWorkWindow(ctx, p.employee.CompanyID, window, p.clock, p.date)
	if err != nil {
		return outcome{}, err
	}

	var (
		action  attendance.PunchAction
		session attendance.WorkSession
		spans   []overtimeSpan
	)

	if p.manualPair {
		if state != attendance.StateNoSession {
			return outcome{}, attendance.ErrManualPunchOnSession
		}
		action = attendance.ActionManual
		session = s.newSession(p, window)
		session.ActualPunchIn = p.in
		session.PunchInSource = p.inSource
		setPunchOut(&session, p.out, p.outSource)
		spans = overtimeSpans(ww, p.in, &p.out)
	} else {
		action, err = nextAction(state, p.direction)
		if err != nil {
			return outcome{}, err
		}
		switch action {
		case attendance.ActionPunchIn:
			session = s.newSession(p, window)
			session.ActualPunchIn = p.at
			session.PunchInSource = p.source
			spans = overtimeSpans(ww, p.at, nil)
		case attendance.ActionPunchOut:
			session = *existing
			if !p.at.After(session.ActualPunchIn) {
				return outcome{}, attendance.ErrPunchOutBeforePunchIn
			}
			setPunchOut(&session, p.at, p.source)
			if span, ok := departureOvertime(ww, p.at); ok {
				spans = append(spans, span)
			}
		}
	}

	recompute(&session, ww, s.opts.RotatingPenalties)
	if err := checkSessionInvariants(session); err != nil {
		return outcome{}, err
	}

	if existing == nil {
		session, err = s.repos.Sessions.Create(ctx, session)
	} else {
		session, err = s.repos.Sessions.PunchOut(ctx, session)
	}
	if err != nil {
		if errors.Is(err, attendance.ErrSessionCompleted) || errors.Is(err, attendance.ErrWorkSessionExists) {
			return outcome{}, err
		}
		return outcome{}, fmt.Errorf("failed to save work session: %w", err)
	}

	s.logger.Info("punch recorded",
		"employee_id", p.employee.ID,
		"date", p.date.String(),
		"action", action,
		"from_state", state,
		"to_state", attendance.StateOf(&session),
	)

	created, err := s.recordSpans(ctx, session, spans)
	if err != nil {
		return outcome{}, err
	}

	return s.workSessionOutcome(session, action, ww, p.clock.Location(), created), nil
}

func (s *AttendanceServiceImpl) newSession(p preparedPunch, window schedule.Window) attendance.WorkSession {
	return attendance.WorkSession{
		CompanyID:  p.employee.CompanyID,
		EmployeeID: p.employee.ID,
		ShiftID:    shiftIDOf(window),
		Date:       p.date,
	}
}

func setPunchOut(session *attendance.WorkSession, at time.Time, source string) {
	out := at
	src := source
	session.ActualPunchOut = &out
	session.PunchOutSource = &src
}

// overtimeSpans checks the arrival side and, when actualOut is known, the departure side.
func overtimeSpans(ww workWindow, actualIn time.Time, actualOut *time.Time) []overtimeSpan {
	var spans []overtimeSpan
	if span, ok := arrivalOvertime(ww, actualIn); ok {
		spans = append(spans, span)
	}
	if actualOut != nil {
		if span, ok := departureOvertime(ww, *actualOut); ok {
			spans = append(spans, span)
		}
	}
	return spans
}

func (s *AttendanceServiceImpl) recordSpans(ctx context.Context, session attendance.WorkSession, spans []overtimeSpan) ([]overtime.Record, error) {
	created := make([]overtime.Record, 0, len(spans))
	for _, span := range spans {
		record, err := s.recordOvertime(ctx, session, span)
		if err != nil {
			return nil, err
		}
		if record != nil {
			created = append(created, *record)
		}
	}
	return created, nil
}

func (s *AttendanceServiceImpl) workSessionOutcome(session attendance.WorkSession, action attendance.PunchAction, ww workWindow, loc *time.Location, created []overtime.Record) outcome {
	resp := mapSessionToResponse(session, loc)
	evts := make([]events.Event, 0, len(created))
	for _, r := range created {
		evts = append(evts, overtimeEvent(events.TypeOvertimeCreated, r, loc))
	}
	return outcome{
		result: attendance.PunchResult{
			Kind:        attendance.ResultWorkSession,
			Action:      action,
			DayKind:     calendar.DayKindWorkDay,
			EmployeeID:  session.EmployeeID,
			Date:        session.Date.String(),
			Overnight:   ww.bounds.Overnight,
			WorkSession: &resp,
			Overtime:    mapOvertimeRecords(created, loc),
		},
		events: evts,
	}
}

// recompute derives every stored figure of a session from its actual punches.
func recompute(session *attendance.WorkSession, ww workWindow, rotatingPenalties bool) {
	session.PunchIn, session.PunchOut = normalizeForDisplay(session.ActualPunchIn, session.ActualPunchOut, ww)
	session.EarlyMinutes = 0
	session.LateMinutes = 0
	session.DeductedMinutes = 0
	session.DurationMinutes = nil

	if ww.scheduled {
		session.EarlyMinutes = clock.WholeMinutes(ww.bounds.Start.Sub(session.ActualPunchIn))
	}
	if session.ActualPunchOut == nil {
		return
	}

	out := *session.ActualPunchOut
	duration := clock.RoundMinutes(out.Sub(session.ActualPunchIn))
	session.DurationMinutes = &duration
	if ww.scheduled {
		session.LateMinutes = clock.WholeMinutes(out.Sub(ww.bounds.End))
	}
	session.DeductedMinutes = deductedMinutes(ww, session.ActualPunchIn, out, rotatingPenalties)
}

func checkSessionInvariants(session attendance.WorkSession) error {
	if session.ActualPunchIn.IsZero() || session.PunchIn.IsZero() {
		return apperror.Invariant("work session %s has no punch in", session.Date)
	}
	if (session.ActualPunchOut == nil) != (session.PunchOut == nil) {
		return apperror.Invariant("work session %s displayed and actual punch out disagree", session.Date)
	}
	if session.ActualPunchOut != nil {
		if !session.ActualPunchOut.After(session.ActualPunchIn) {
			return apperror.Invariant("work session %s punch out %s is not after punch in %s",
				session.Date, session.ActualPunchOut, session.ActualPunchIn)
		}
		if !session.PunchOut.After(session.PunchIn) {
			return apperror.Invariant("work session %s displayed punch out is not after punch in", session.Date)
		}
		if session.DurationMinutes == nil || *session.DurationMinutes < 0 {
			return apperror.Invariant("work session %s has no duration", session.Date)
		}
	}
	if session.EarlyMinutes < 0 || session.LateMinutes < 0 || session.DeductedMinutes < 0 {
		return apperror.Invariant("work session %s has negative minutes", session.Date)
	}
	return nil
}
