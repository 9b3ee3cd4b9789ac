package attendance

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/graceperiod"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testCompanyID = "0192a7c4-0000-7000-8000-000000000001"

var wib = time.FixedZone("WIB", 7*3600)

// 2024-03-04 is a Monday.
var (
	monday   = clock.Date{Year: 2024, Month: time.March, Day: 4}
	saturday = clock.Date{Year: 2024, Month: time.March, Day: 9}
	sunday   = clock.Date{Year: 2024, Month: time.March, Day: 10}
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	ctx       context.Context
	store     *memory.Store
	svc       attendance.AttendanceService
	publisher *recordingPublisher
	employee  employee.Employee
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.DefaultLocation = wib
	return opts
}

func newFixtureWithOptions(t *testing.T, opts Options) *fixture {
	t.Helper()
	store := memory.NewStore()
	publisher := &recordingPublisher{}

	svc := newService(store, storeRepositories(store), publisher, opts)

	emp := store.AddEmployee(employee.Employee{
		CompanyID:    testCompanyID,
		DeviceUserID: "1001",
		FullName:     "Dewi Lestari",
	})

	return &fixture{
		ctx:       context.Background(),
		store:     store,
		svc:       svc,
		publisher: publisher,
		employee:  emp,
	}
}

func storeRepositories(store *memory.Store) Repositories {
	return Repositories{
		Sessions:     store.Sessions(),
		Overtime:     store.Overtime(),
		Employees:    store.Employees(),
		Shifts:       store.Shifts(),
		Holidays:     store.Holidays(),
		GracePeriods: store.GracePeriods(),
	}
}

func newService(store *memory.Store, repos Repositories, publisher events.Publisher, opts Options) attendance.AttendanceService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAttendanceService(store.Transactor(), repos, publisher, logger, opts)
}

// staleSessions answers the per-date lookup with a snapshot taken earlier,
// the way a second device sees the session before the first punch out lands.
type staleSessions struct {
	attendance.WorkSessionRepository
	snapshot *attendance.WorkSession
}

func (r staleSessions) GetByEmployeeAndDate(context.Context, string, clock.Date) (*attendance.WorkSession, error) {
	ws := *r.snapshot
	return &ws, nil
}

type staleOvertime struct {
	overtime.OvertimeRepository
	snapshot *overtime.Record
}

func (r staleOvertime) GetByEmployeeDateType(_ context.Context, _ string, _ clock.Date, t overtime.Type) (*overtime.Record, error) {
	if t != r.snapshot.Type {
		return nil, nil
	}
	rec := *r.snapshot
	return &rec, nil
}

// newFixture assigns the employee a fixed weekly shift: Monday to Friday
// 08:00-17:00 with a 60 minute break, Sunday a rest day, Saturday unscheduled.
func newFixture(t *testing.T) *fixture {
	f := newFixtureWithOptions(t, testOptions())
	f.assignFixedShift(0)
	return f
}

func (f *fixture) assignFixedShift(shiftGrace int) schedule.Shift {
	days := make([]schedule.ShiftDay, 0, 6)
	for d := 1; d <= 5; d++ {
		days = append(days, schedule.ShiftDay{
			DayNumber:          d,
			DayType:            schedule.DayTypeFullDay,
			StartTime:          clock.MustTimeOfDay("08:00"),
			EndTime:            clock.MustTimeOfDay("17:00"),
			BreakMinutes:       60,
			GracePeriodMinutes: shiftGrace,
		})
	}
	days = append(days, schedule.ShiftDay{
		DayNumber: 7,
		DayType:   schedule.DayTypeRestDay,
		StartTime: clock.MustTimeOfDay("00:00"),
		EndTime:   clock.MustTimeOfDay("00:00"),
	})

	shift := f.store.AddShift(schedule.Shift{
		CompanyID: testCompanyID,
		Name:      "Office Hours",
		Type:      schedule.ShiftTypeFixedWeekly,
	}, days...)
	f.store.AssignShift(f.employee.ID, shift.ID, clock.Date{Year: 2024, Month: time.January, Day: 1})
	return shift
}

// assignRotatingShift puts the employee on a rotating shift with one assignment
// per entry of hours; a zero entry is a day off.
func (f *fixture) assignRotatingShift(t schedule.RotatingShiftType, assignments map[clock.Date]int64) {
	shift := f.store.AddShift(schedule.Shift{
		CompanyID: testCompanyID,
		Name:      "Warehouse Rota",
		Type:      schedule.ShiftTypeRotating,
	})
	f.store.AssignShift(f.employee.ID, shift.ID, clock.Date{Year: 2024, Month: time.January, Day: 1})

	t.CompanyID = testCompanyID
	rt := f.store.AddRotatingType(t)
	for d, hours := range assignments {
		a := schedule.RotatingAssignment{
			EmployeeID: f.employee.ID,
			Date:       d,
			Hours:      decimal.NewFromInt(hours),
		}
		if hours > 0 {
			id := rt.ID
			a.ShiftTypeID = &id
		}
		f.store.AddRotatingAssignment(a)
	}
}

func (f *fixture) setCompanyGrace(t *testing.T, minutes int) {
	t.Helper()
	_, err := f.store.GracePeriods().Create(f.ctx, graceperiod.CompanyGracePeriod{
		CompanyID:          testCompanyID,
		GracePeriodMinutes: minutes,
		IsActive:           true,
	})
	require.NoError(t, err)
}

func (f *fixture) addHoliday(t *testing.T, d clock.Date, title string) {
	t.Helper()
	_, err := f.store.Holidays().Create(f.ctx, calendar.HolidayEntry{
		CompanyID: testCompanyID,
		Date:      d,
		Title:     title,
		IsActive:  true,
	})
	require.NoError(t, err)
}

func (f *fixture) request(d clock.Date, checkTime, checkType string) attendance.PunchRequest {
	return attendance.PunchRequest{
		CompanyID:  testCompanyID,
		EmployeeID: f.employee.ID,
		Date:       d.String(),
		CheckTime:  checkTime,
		CheckType:  checkType,
	}
}

func (f *fixture) punch(d clock.Date, checkTime string) (attendance.PunchResult, error) {
	return f.svc.ClassifyAndRecordPunch(f.ctx, f.request(d, checkTime, ""))
}

func (f *fixture) mustPunch(t *testing.T, d clock.Date, checkTime string) attendance.PunchResult {
	t.Helper()
	res, err := f.punch(d, checkTime)
	require.NoError(t, err)
	return res
}

func (f *fixture) overtimeOfType(t *testing.T, ot overtime.Type) []overtime.Record {
	t.Helper()
	typ := string(ot)
	records, _, err := f.store.Overtime().List(f.ctx, testCompanyID, overtime.OvertimeFilter{Type: &typ})
	require.NoError(t, err)
	return records
}

// at renders a WIB wall-clock time the way responses do.
func at(d clock.Date, hhmm string) string {
	return clock.New(wib).At(d, clock.MustTimeOfDay(hhmm)).Format(time.RFC3339)
}

func clockAt(d clock.Date, hhmm string) time.Time {
	return clock.New(wib).At(d, clock.MustTimeOfDay(hhmm))
}
