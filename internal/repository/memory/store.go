// Package memory implements every repository and the transactor in process.
// It backs the engine tests and local runs without Postgres.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/graceperiod"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

// =============================================================================
// STORE
// =============================================================================

type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	employees      map[string]employee.Employee
	shifts         map[string]schedule.Shift
	shiftDays      map[dayKey]schedule.ShiftDay
	rotatingTypes  map[string]schedule.RotatingShiftType
	rotating       map[dateKey]schedule.RotatingAssignment
	employeeShifts []schedule.EmployeeShift
	gracePeriods   []graceperiod.CompanyGracePeriod
	holidays       map[string]calendar.HolidayEntry
	sessions       map[string]attendance.WorkSession
	overtime       map[string]overtime.Record

	now func() time.Time
}

type dayKey struct {
	ShiftID   string
	DayNumber int
}

type dateKey struct {
	EmployeeID string
	Date       clock.Date
}

func NewStore() *Store {
	return &Store{
		employees:     make(map[string]employee.Employee),
		shifts:        make(map[string]schedule.Shift),
		shiftDays:     make(map[dayKey]schedule.ShiftDay),
		rotatingTypes: make(map[string]schedule.RotatingShiftType),
		rotating:      make(map[dateKey]schedule.RotatingAssignment),
		holidays:      make(map[string]calendar.HolidayEntry),
		sessions:      make(map[string]attendance.WorkSession),
		overtime:      make(map[string]overtime.Record),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

type txMarker struct{}

type snapshot struct {
	employees      map[string]employee.Employee
	shifts         map[string]schedule.Shift
	shiftDays      map[dayKey]schedule.ShiftDay
	rotatingTypes  map[string]schedule.RotatingShiftType
	rotating       map[dateKey]schedule.RotatingAssignment
	employeeShifts []schedule.EmployeeShift
	gracePeriods   []graceperiod.CompanyGracePeriod
	holidays       map[string]calendar.HolidayEntry
	sessions       map[string]attendance.WorkSession
	overtime       map[string]overtime.Record
}

// Transactor returns a database.Transactor that serializes units of work and
// restores a snapshot when fn fails.
func (s *Store) Transactor() database.Transactor {
	return storeTransactor{s: s}
}

type storeTransactor struct {
	s *Store
}

func (t storeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if ctx.Value(txMarker{}) != nil {
		return fn(ctx)
	}

	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	snap := t.s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			t.s.restore(snap)
			panic(p)
		}
		if err != nil {
			t.s.restore(snap)
		}
	}()

	return fn(context.WithValue(ctx, txMarker{}, true))
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		employees:      maps.Clone(s.employees),
		shifts:         maps.Clone(s.shifts),
		shiftDays:      maps.Clone(s.shiftDays),
		rotatingTypes:  maps.Clone(s.rotatingTypes),
		rotating:       maps.Clone(s.rotating),
		employeeShifts: slices.Clone(s.employeeShifts),
		gracePeriods:   slices.Clone(s.gracePeriods),
		holidays:       maps.Clone(s.holidays),
		sessions:       maps.Clone(s.sessions),
		overtime:       maps.Clone(s.overtime),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees = snap.employees
	s.shifts = snap.shifts
	s.shiftDays = snap.shiftDays
	s.rotatingTypes = snap.rotatingTypes
	s.rotating = snap.rotating
	s.employeeShifts = snap.employeeShifts
	s.gracePeriods = snap.gracePeriods
	s.holidays = snap.holidays
	s.sessions = snap.sessions
	s.overtime = snap.overtime
}

// =============================================================================
// REPOSITORY VIEWS
// =============================================================================

func (s *Store) Employees() employee.EmployeeRepository          { return employeeRepo{s} }
func (s *Store) Shifts() schedule.ShiftRepository                { return shiftRepo{s} }
func (s *Store) Holidays() calendar.HolidayRepository            { return holidayRepo{s} }
func (s *Store) GracePeriods() graceperiod.GracePeriodRepository { return gracePeriodRepo{s} }
func (s *Store) Sessions() attendance.WorkSessionRepository      { return sessionRepo{s} }
func (s *Store) Overtime() overtime.OvertimeRepository           { return overtimeRepo{s} }

// =============================================================================
// SEEDING
// =============================================================================

// AddEmployee stores e, assigning an id when it has none.
func (s *Store) AddEmployee(e employee.Employee) employee.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = newID()
	}
	e.CreatedAt, e.UpdatedAt = s.now(), s.now()
	s.employees[e.ID] = e
	return e
}

// AddShift stores a shift and its pattern days.
func (s *Store) AddShift(shift schedule.Shift, days ...schedule.ShiftDay) schedule.Shift {
	s.mu.Lock()
	defer s.mu.Unlock()
	if shift.ID == "" {
		shift.ID = newID()
	}
	if shift.CycleDays == 0 {
		shift.CycleDays = 7
	}
	s.shifts[shift.ID] = shift
	for _, d := range days {
		if d.ID == "" {
			d.ID = newID()
		}
		d.ShiftID = shift.ID
		s.shiftDays[dayKey{ShiftID: shift.ID, DayNumber: d.DayNumber}] = d
	}
	return shift
}

// AssignShift links an employee to a shift from start, open-ended.
func (s *Store) AssignShift(employeeID, shiftID string, start clock.Date) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employeeShifts = append(s.employeeShifts, schedule.EmployeeShift{
		ID:         newID(),
		EmployeeID: employeeID,
		ShiftID:    shiftID,
		StartDate:  start,
		IsActive:   true,
	})
}

func (s *Store) AddRotatingType(t schedule.RotatingShiftType) schedule.RotatingShiftType {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = newID()
	}
	s.rotatingTypes[t.ID] = t
	return t
}

func (s *Store) AddRotatingAssignment(a schedule.RotatingAssignment) schedule.RotatingAssignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = newID()
	}
	a.ShiftType = nil
	s.rotating[dateKey{EmployeeID: a.EmployeeID, Date: a.Date}] = a
	return a
}
