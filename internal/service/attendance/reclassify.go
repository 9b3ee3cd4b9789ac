package attendance

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
)

// ReclassifyWorkSession implements attendance.AttendanceService.
//
// The session's overtime is dropped and derived again from the new actual
// times. A side left empty in the request keeps its stored actual time.
func (s *AttendanceServiceImpl) ReclassifyWorkSession(ctx context.Context, req attendance.ReclassifyRequest) (attendance.PunchResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchResult{}, err
	}

	var out outcome
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		session, err := s.repos.Sessions.GetByID(ctx, req.ID, req.CompanyID)
		if err != nil {
			return err
		}

		emp, err := s.repos.Employees.GetByID(ctx, session.EmployeeID, req.CompanyID)
		if err != nil {
			return err
		}
		c := clock.ForZone(emp.Timezone, s.opts.DefaultLocation)

		if req.PunchIn != "" {
			in, err := parseInstant(c, "punch_in", req.PunchIn)
			if err != nil {
				return err
			}
			session.ActualPunchIn = in
			session.PunchInSource = sourceOr(req.PunchInSource)
		}
		if req.PunchOut != "" {
			o, err := parseInstant(c, "punch_out", req.PunchOut)
			if err != nil {
				return err
			}
			setPunchOut(&session, o, sourceOr(req.PunchOutSource))
		}
		if session.ActualPunchOut != nil && !session.ActualPunchOut.After(session.ActualPunchIn) {
			return attendance.ErrPunchOutBeforePunchIn
		}

		window, err := s.resolveWindow(ctx, session.EmployeeID, session.Date)
		if err != nil {
			return err
		}
		ww, err := s.loadWorkWindow(ctx, req.CompanyID, window, c, session.Date)
		if err != nil {
			return err
		}

		removed, err := s.repos.Overtime.DeleteByWorkSession(ctx, session.ID)
		if err != nil {
			return fmt.Errorf("failed to clear session overtime: %w", err)
		}

		session.ShiftID = shiftIDOf(window)
		recompute(&session, ww, s.opts.RotatingPenalties)
		if err := checkSessionInvariants(session); err != nil {
			return err
		}
		session, err = s.repos.Sessions.Update(ctx, session)
		if err != nil {
			return fmt.Errorf("failed to save work session: %w", err)
		}

		created, err := s.recordSpans(ctx, session, overtimeSpans(ww, session.ActualPunchIn, session.ActualPunchOut))
		if err != nil {
			return err
		}

		s.logger.Info("work session reclassified",
			"work_session_id", session.ID,
			"employee_id", session.EmployeeID,
			"date", session.Date.String(),
			"overtime_removed", removed,
			"overtime_created", len(created),
		)
		out = s.workSessionOutcome(session, attendance.ActionReclassify, ww, c.Location(), created)
		return nil
	})
	if err != nil {
		return attendance.PunchResult{}, err
	}

	s.publish(ctx, out.events)
	return out.result, nil
}
