package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/graceperiod"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// Options holds the engine policies that are configurable per deployment.
type Options struct {
	BulkBatchSize  int
	BulkMaxRecords int

	// RotatingOffDayAsRestDay classifies an explicit rotating day off as REST_DAY.
	// When false the day is a WORK_DAY without schedule.
	RotatingOffDayAsRestDay bool

	// RotatingPenalties adds late and early departure penalties to rotating deductions.
	RotatingPenalties bool

	// DefaultLocation is used for employees without a valid time zone.
	DefaultLocation *time.Location
}

func DefaultOptions() Options {
	return Options{
		BulkBatchSize:           10,
		BulkMaxRecords:          100,
		RotatingOffDayAsRestDay: true,
		DefaultLocation:         time.UTC,
	}
}

type Repositories struct {
	Sessions     attendance.WorkSessionRepository
	Overtime     overtime.OvertimeRepository
	Employees    employee.EmployeeRepository
	Shifts       schedule.ShiftRepository
	Holidays     calendar.HolidayRepository
	GracePeriods graceperiod.GracePeriodRepository
}

type AttendanceServiceImpl struct {
	tx        database.Transactor
	repos     Repositories
	publisher events.Publisher
	logger    *slog.Logger
	opts      Options
}

func NewAttendanceService(
	tx database.Transactor,
	repos Repositories,
	publisher events.Publisher,
	logger *slog.Logger,
	opts Options,
) attendance.AttendanceService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultOptions()
	if opts.BulkBatchSize <= 0 {
		opts.BulkBatchSize = defaults.BulkBatchSize
	}
	if opts.BulkMaxRecords <= 0 {
		opts.BulkMaxRecords = defaults.BulkMaxRecords
	}
	if opts.DefaultLocation == nil {
		opts.DefaultLocation = defaults.DefaultLocation
	}
	return &AttendanceServiceImpl{
		tx:        tx,
		repos:     repos,
		publisher: publisher,
		logger:    logger.With("component", "attendance"),
		opts:      opts,
	}
}

// preparedPunch is a validated request bound to its employee and local clock.
type preparedPunch struct {
	req      attendance.PunchRequest
	employee employee.Employee
	date     clock.Date
	clock    clock.LocalClock

	// Single punch
	at        time.Time
	direction attendance.Direction
	source    string

	// Manual pair
	manualPair bool
	in, out    time.Time
	inSource   string
	outSource  string
}

// outcome is what one applied punch produced, including events to publish after commit.
type outcome struct {
	result attendance.PunchResult
	events []events.Event
}

// ClassifyAndRecordPunch implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClassifyAndRecordPunch(ctx context.Context, req attendance.PunchRequest) (attendance.PunchResult, error) {
	p, err := s.prepare(ctx, req)
	if err != nil {
		return attendance.PunchResult{}, err
	}
	return s.record(ctx, p)
}

func (s *AttendanceServiceImpl) prepare(ctx context.Context, req attendance.PunchRequest) (preparedPunch, error) {
	if err := req.Validate(); err != nil {
		return preparedPunch{}, err
	}

	date, err := clock.ParseDate(req.Date)
	if err != nil {
		return preparedPunch{}, validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}

	emp, err := s.resolveEmployee(ctx, req)
	if err != nil {
		return preparedPunch{}, err
	}

	p := preparedPunch{
		req:      req,
		employee: emp,
		date:     date,
		clock:    clock.ForZone(emp.Timezone, s.opts.DefaultLocation),
	}

	if req.IsManualPair() {
		p.manualPair = true
		if p.in, err = parseInstant(p.clock, "punch_in", req.PunchIn); err != nil {
			return preparedPunch{}, err
		}
		if p.out, err = parseInstant(p.clock, "punch_out", req.PunchOut); err != nil {
			return preparedPunch{}, err
		}
		if !p.out.After(p.in) {
			return preparedPunch{}, attendance.ErrPunchOutBeforePunchIn
		}
		p.inSource = req.SingleSource()
		p.outSource = sourceOr(req.PunchOutSource)
		return p, nil
	}

	if p.at, err = parseInstant(p.clock, "check_time", req.SingleTime()); err != nil {
		return preparedPunch{}, err
	}
	p.direction = req.Direction()
	p.source = req.SingleSource()
	return p, nil
}

func (s *AttendanceServiceImpl) resolveEmployee(ctx context.Context, req attendance.PunchRequest) (employee.Employee, error) {
	var (
		emp employee.Employee
		err error
	)
	if req.EmployeeID != "" {
		emp, err = s.repos.Employees.GetByID(ctx, req.EmployeeID, req.CompanyID)
	} else {
		emp, err = s.repos.Employees.GetByDeviceUserID(ctx, req.DeviceUserID, req.CompanyID)
	}
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to resolve employee: %w", err)
	}
	return emp, nil
}

// record applies one prepared punch in its own transaction and publishes its events after commit.
func (s *AttendanceServiceImpl) record(ctx context.Context, p preparedPunch) (attendance.PunchResult, error) {
	var out outcome
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.apply(ctx, p)
		return err
	})
	if err != nil {
		s.logger.Debug("punch rejected",
			"employee_id", p.employee.ID,
			"date", p.date.String(),
			"error", err,
		)
		return attendance.PunchResult{}, err
	}

	s.publish(ctx, out.events)
	return out.result, nil
}

// apply finishes whatever the date already holds before asking the calendar.
func (s *AttendanceServiceImpl) apply(ctx context.Context, p preparedPunch) (outcome, error) {
	existing, err := s.repos.Sessions.GetByEmployeeAndDate(ctx, p.employee.ID, p.date)
	if err != nil {
		return outcome{}, fmt.Errorf("failed to get work session: %w", err)
	}
	if existing != nil {
		window, err := s.resolveWindow(ctx, p.employee.ID, p.date)
		if err != nil {
			return outcome{}, err
		}
		return s.recordWorkDayPunch(ctx, p, window, existing)
	}

	openKind, err := s.openDayOffKind(ctx, p)
	if err != nil {
		return outcome{}, err
	}
	if openKind != "" {
		return s.recordDayOffWork(ctx, p, openKind)
	}

	dayKind, window, err := s.classifyDay(ctx, p.employee, p.date)
	if err != nil {
		return outcome{}, err
	}

	if dayKind == calendar.DayKindHoliday || dayKind == calendar.DayKindRestDay {
		return s.recordDayOffWork(ctx, p, dayKind)
	}
	return s.recordWorkDayPunch(ctx, p, window, nil)
}

func (s *AttendanceServiceImpl) publish(ctx context.Context, evts []events.Event) {
	for _, evt := range evts {
		if err := s.publisher.Publish(ctx, evt); err != nil {
			s.logger.Error("Failed to publish event", "type", evt.Type, "error", err)
		}
	}
}

func overtimeEvent(eventType string, r overtime.Record, loc *time.Location) events.Event {
	return events.Event{
		Type:       eventType,
		CompanyID:  r.CompanyID,
		EmployeeID: r.EmployeeID,
		OccurredAt: time.Now().UTC(),
		Payload:    overtime.NewOvertimeResponse(r, loc),
	}
}

// GetWorkSession implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetWorkSession(ctx context.Context, id, companyID string) (attendance.WorkSessionResponse, error) {
	session, err := s.repos.Sessions.GetByID(ctx, id, companyID)
	if err != nil {
		return attendance.WorkSessionResponse{}, err
	}
	records, err := s.repos.Overtime.ListByWorkSession(ctx, session.ID)
	if err != nil {
		return attendance.WorkSessionResponse{}, fmt.Errorf("failed to list session overtime: %w", err)
	}

	loc := s.sessionLocation(session)
	resp := mapSessionToResponse(session, loc)
	resp.Overtime = mapOvertimeRecords(records, loc)
	return resp, nil
}

// ListWorkSessions implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListWorkSessions(ctx context.Context, companyID string, filter attendance.WorkSessionFilter) (attendance.ListWorkSessionResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListWorkSessionResponse{}, err
	}

	sessions, total, err := s.repos.Sessions.List(ctx, companyID, filter)
	if err != nil {
		return attendance.ListWorkSessionResponse{}, fmt.Errorf("failed to list work sessions: %w", err)
	}

	responses := make([]attendance.WorkSessionResponse, 0, len(sessions))
	for _, ws := range sessions {
		responses = append(responses, mapSessionToResponse(ws, s.sessionLocation(ws)))
	}

	return attendance.ListWorkSessionResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Sessions:   responses,
	}, nil
}

// DeleteWorkSession implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteWorkSession(ctx context.Context, id, companyID string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repos.Sessions.GetByID(ctx, id, companyID); err != nil {
			return err
		}
		removed, err := s.repos.Overtime.DeleteByWorkSession(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to delete session overtime: %w", err)
		}
		if err := s.repos.Sessions.Delete(ctx, id, companyID); err != nil {
			return err
		}
		s.logger.Info("work session deleted", "work_session_id", id, "overtime_removed", removed)
		return nil
	})
}

func (s *AttendanceServiceImpl) sessionLocation(ws attendance.WorkSession) *time.Location {
	zone := ""
	if ws.Timezone != nil {
		zone = *ws.Timezone
	}
	return clock.ForZone(zone, s.opts.DefaultLocation).Location()
}

func parseInstant(c clock.LocalClock, field, value string) (time.Time, error) {
	t, err := clock.ParseInstant(c, value)
	if err != nil {
		return time.Time{}, validator.ValidationErrors{{
			Field:   field,
			Message: field + " must be RFC3339 or YYYY-MM-DD HH:MM[:SS]",
		}}
	}
	return t, nil
}

func sourceOr(s string) string {
	if s == "" {
		return attendance.SourceManual
	}
	return s
}

func formatTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.RFC3339)
}

func formatTimePtr(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t, loc)
	return &s
}

func mapSessionToResponse(ws attendance.WorkSession, loc *time.Location) attendance.WorkSessionResponse {
	return attendance.WorkSessionResponse{
		ID:              ws.ID,
		EmployeeID:      ws.EmployeeID,
		EmployeeName:    ws.EmployeeName,
		ShiftID:         ws.ShiftID,
		Date:            ws.Date.String(),
		State:           string(attendance.StateOf(&ws)),
		PunchIn:         formatTime(ws.PunchIn, loc),
		PunchOut:        formatTimePtr(ws.PunchOut, loc),
		ActualPunchIn:   formatTime(ws.ActualPunchIn, loc),
		ActualPunchOut:  formatTimePtr(ws.ActualPunchOut, loc),
		PunchInSource:   ws.PunchInSource,
		PunchOutSource:  ws.PunchOutSource,
		DurationMinutes: ws.DurationMinutes,
		EarlyMinutes:    ws.EarlyMinutes,
		LateMinutes:     ws.LateMinutes,
		DeductedMinutes: ws.DeductedMinutes,
		CreatedAt:       formatTime(ws.CreatedAt, loc),
		UpdatedAt:       formatTime(ws.UpdatedAt, loc),
	}
}

func mapOvertimeRecords(records []overtime.Record, loc *time.Location) []overtime.OvertimeResponse {
	out := make([]overtime.OvertimeResponse, 0, len(records))
	for _, r := range records {
		out = append(out, overtime.NewOvertimeResponse(r, loc))
	}
	return out
}
