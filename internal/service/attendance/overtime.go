package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
)

// overtimeSpan is a classified stretch of work outside the shift window.
type overtimeSpan struct {
	Type overtime.Type
	From time.Time
	To   time.Time
}

// arrivalOvertime checks the punch-in side: arriving before the early threshold
// is overtime from the punch until shift start.
func arrivalOvertime(ww workWindow, actualIn time.Time) (overtimeSpan, bool) {
	if !ww.scheduled || !actualIn.Before(ww.early) {
		return overtimeSpan{}, false
	}
	t := overtime.TypeUnscheduled
	if ww.window.Kind() == schedule.WindowRotating {
		t = overtime.TypeEarlyArrival
	}
	return overtimeSpan{Type: t, From: actualIn, To: ww.bounds.Start}, true
}

// departureOvertime checks the punch-out side: leaving after the late threshold
// is overtime from shift end until the punch.
func departureOvertime(ww workWindow, actualOut time.Time) (overtimeSpan, bool) {
	if !ww.scheduled || !actualOut.After(ww.late) {
		return overtimeSpan{}, false
	}
	t := overtime.TypeExtendedShift
	if ww.window.Kind() == schedule.WindowRotating {
		t = overtime.TypeLateDeparture
	}
	return overtimeSpan{Type: t, From: ww.bounds.End, To: actualOut}, true
}

// recordOvertime inserts the span for the session unless a record of the same
// type already exists for the employee and date. It returns nil when skipped.
func (s *AttendanceServiceImpl) recordOvertime(ctx context.Context, session attendance.WorkSession, span overtimeSpan) (*overtime.Record, error) {
	if !span.To.After(span.From) {
		return nil, apperror.Invariant("overtime %s ends at %s, not after %s", span.Type, span.To, span.From)
	}

	exists, err := s.repos.Overtime.ExistsByEmployeeDateType(ctx, session.EmployeeID, session.Date, span.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing overtime: %w", err)
	}
	if exists {
		s.logger.Debug("overtime skipped",
			"employee_id", session.EmployeeID,
			"date", session.Date.String(),
			"overtime_type", span.Type,
			"reason", "already recorded",
		)
		return nil, nil
	}

	out := span.To
	minutes := clock.RoundMinutes(span.To.Sub(span.From))
	sessionID := session.ID
	record, err := s.repos.Overtime.Create(ctx, overtime.Record{
		CompanyID:       session.CompanyID,
		EmployeeID:      session.EmployeeID,
		WorkSessionID:   &sessionID,
		Date:            session.Date,
		Type:            span.Type,
		Status:          overtime.StatusPending,
		PunchIn:         span.From,
		PunchOut:        &out,
		DurationMinutes: &minutes,
		Source:          overtime.SourceSystem,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create overtime: %w", err)
	}

	s.logger.Info("overtime recorded",
		"employee_id", session.EmployeeID,
		"date", session.Date.String(),
		"overtime_type", span.Type,
		"duration_minutes", minutes,
	)
	return &record, nil
}
