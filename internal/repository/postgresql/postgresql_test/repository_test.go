package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/graceperiod"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = clock.Date{Year: 2024, Month: time.March, Day: 4}

func TestEmployeeRepository(t *testing.T) {
	ctx := context.Background()
	setup := NewTestDatabase(t)
	companyID := uuid.NewString()

	id, err := setup.CreateEmployee(ctx, companyID, "1001", "Rina Wijaya", "Asia/Jakarta")
	require.NoError(t, err)

	repo := postgresql.NewEmployeeRepository(setup.DB)

	byDevice, err := repo.GetByDeviceUserID(ctx, "1001", companyID)
	require.NoError(t, err)
	assert.Equal(t, id, byDevice.ID)
	assert.Equal(t, "Asia/Jakarta", byDevice.Timezone)

	_, err = repo.GetByID(ctx, id, uuid.NewString())
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestShiftRepository(t *testing.T) {
	ctx := context.Background()
	setup := NewTestDatabase(t)
	companyID := uuid.NewString()

	employeeID, err := setup.CreateEmployee(ctx, companyID, "1001", "Rina Wijaya", "Asia/Jakarta")
	require.NoError(t, err)
	shiftID, err := setup.CreateFixedShift(ctx, companyID, employeeID, "2024-01-01")
	require.NoError(t, err)
	require.NoError(t, setup.CreateRotatingAssignment(ctx, companyID, employeeID, "2024-03-05", "22:00", "06:00", "8.00"))

	repo := postgresql.NewShiftRepository(setup.DB)

	es, err := repo.GetActiveEmployeeShift(ctx, employeeID, monday)
	require.NoError(t, err)
	require.NotNil(t, es)
	assert.Equal(t, shiftID, es.ShiftID)
	assert.Equal(t, schedule.ShiftTypeFixedWeekly, es.Shift.Type)
	assert.Nil(t, es.EndDate)

	before, err := repo.GetActiveEmployeeShift(ctx, employeeID, clock.Date{Year: 2023, Month: time.December, Day: 31})
	require.NoError(t, err)
	assert.Nil(t, before)

	day, err := repo.GetShiftDay(ctx, shiftID, 1)
	require.NoError(t, err)
	require.NotNil(t, day)
	assert.Equal(t, clock.MustTimeOfDay("08:00"), day.StartTime)
	assert.Equal(t, clock.MustTimeOfDay("17:00"), day.EndTime)
	assert.Equal(t, 60, day.BreakMinutes)
	assert.Equal(t, 15, day.GracePeriodMinutes)

	missing, err := repo.GetShiftDay(ctx, shiftID, 8)
	require.NoError(t, err)
	assert.Nil(t, missing)

	ra, err := repo.GetRotatingAssignment(ctx, employeeID, monday.AddDays(1))
	require.NoError(t, err)
	require.NotNil(t, ra)
	assert.False(t, ra.IsDayOff())
	assert.Equal(t, "8", ra.Hours.String())
	assert.Equal(t, clock.MustTimeOfDay("22:00"), ra.ShiftType.StartTime)
	assert.Equal(t, 30, ra.ShiftType.BreakMinutes)
}

func TestHolidayRepository(t *testing.T) {
	ctx := context.Background()
	setup := NewTestDatabase(t)
	companyID := uuid.NewString()
	repo := postgresql.NewHolidayRepository(setup.DB)

	created, err := repo.Create(ctx, calendar.HolidayEntry{
		CompanyID: companyID, Date: monday, DayType: calendar.DayTypeHoliday, Title: "Draft", IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, monday, created.Date)

	_, err = repo.Create(ctx, calendar.HolidayEntry{CompanyID: companyID, Date: monday, DayType: calendar.DayTypeHoliday})
	assert.ErrorIs(t, err, calendar.ErrHolidayExists)

	_, err = repo.SetActive(ctx, created.ID, companyID, false)
	require.NoError(t, err)
	active, err := repo.GetActiveByDate(ctx, companyID, monday)
	require.NoError(t, err)
	assert.Nil(t, active)

	updated, inserted, err := repo.Upsert(ctx, calendar.HolidayEntry{CompanyID: companyID, Date: monday, DayType: calendar.DayTypeHoliday, Title: "Nyepi"})
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.IsActive)

	_, inserted, err = repo.Upsert(ctx, calendar.HolidayEntry{CompanyID: companyID, Date: monday.AddDays(1), DayType: calendar.DayTypeHoliday, Title: "Extra"})
	require.NoError(t, err)
	assert.True(t, inserted)

	start := "2024-03-05"
	list, err := repo.List(ctx, companyID, calendar.HolidayFilter{StartDate: &start})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Extra", list[0].Title)

	require.NoError(t, repo.Delete(ctx, created.ID, companyID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID, companyID), calendar.ErrHolidayNotFound)
}

func TestGracePeriodRepository(t *testing.T) {
	ctx := context.Background()
	setup := NewTestDatabase(t)
	companyID := uuid.NewString()
	repo := postgresql.NewGracePeriodRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)

	for _, minutes := range []int{10, 5} {
		err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := repo.DeactivateAll(ctx, companyID); err != nil {
				return err
			}
			_, err := repo.Create(ctx, graceperiod.CompanyGracePeriod{CompanyID: companyID, GracePeriodMinutes: minutes, IsActive: true})
			return err
		})
		require.NoError(t, err)
	}

	active, err := repo.GetActive(ctx, companyID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, 5, active.GracePeriodMinutes)

	history, err := repo.List(ctx, companyID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestWorkSessionAndOvertimeRepositories(t *testing.T) {
	ctx := context.Background()
	setup := NewTestDatabase(t)
	companyID := uuid.NewString()

	employeeID, err := setup.CreateEmployee(ctx, companyID, "1001", "Rina Wijaya", "Asia/Jakarta")
	require.NoError(t, err)

	sessions := postgresql.NewWorkSessionRepository(setup.DB)
	records := postgresql.NewOvertimeRepository(setup.DB)

	in := time.Date(2024, time.March, 4, 0, 30, 0, 0, time.UTC)
	session, err := sessions.Create(ctx, attendance.WorkSession{
		CompanyID:     companyID,
		EmployeeID:    employeeID,
		Date:          monday,
		PunchIn:       in,
		ActualPunchIn: in,
		PunchInSource: attendance.SourceDevice,
	})
	require.NoError(t, err)

	_, err = sessions.Create(ctx, attendance.WorkSession{CompanyID: companyID, EmployeeID: employeeID, Date: monday, PunchIn: in, ActualPunchIn: in})
	assert.ErrorIs(t, err, attendance.ErrWorkSessionExists)

	out := in.Add(10 * time.Hour)
	duration := 540
	source := attendance.SourceDevice
	session.PunchOut, session.ActualPunchOut = &out, &out
	session.PunchOutSource = &source
	session.DurationMinutes = &duration
	session.DeductedMinutes = 60
	_, err = sessions.PunchOut(ctx, session)
	require.NoError(t, err)

	_, err = sessions.PunchOut(ctx, session)
	assert.ErrorIs(t, err, attendance.ErrSessionCompleted)

	session.EarlyMinutes = 5
	_, err = sessions.Update(ctx, session)
	require.NoError(t, err)

	got, err := sessions.GetByEmployeeAndDate(ctx, employeeID, monday)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, monday, got.Date)
	assert.Equal(t, 540, *got.DurationMinutes)
	assert.True(t, out.Equal(*got.ActualPunchOut))
	assert.Equal(t, "Rina Wijaya", *got.EmployeeName)

	minutes := 30
	otIn, otOut := in, in.Add(30*time.Minute)
	rec, err := records.Create(ctx, overtime.Record{
		CompanyID:       companyID,
		EmployeeID:      employeeID,
		WorkSessionID:   &session.ID,
		Date:            monday,
		Type:            overtime.TypeUnscheduled,
		Status:          overtime.StatusPending,
		PunchIn:         otIn,
		PunchOut:        &otOut,
		DurationMinutes: &minutes,
	})
	require.NoError(t, err)
	assert.Equal(t, overtime.SourceSystem, rec.Source)

	_, err = records.Create(ctx, overtime.Record{CompanyID: companyID, EmployeeID: employeeID, Date: monday, Type: overtime.TypeUnscheduled, Status: overtime.StatusPending, PunchIn: otIn})
	assert.ErrorIs(t, err, overtime.ErrOvertimeExists)

	exists, err := records.ExistsByEmployeeDateType(ctx, employeeID, monday, overtime.TypeUnscheduled)
	require.NoError(t, err)
	assert.True(t, exists)

	note := "approved by supervisor"
	approved, err := records.UpdateStatus(ctx, rec.ID, companyID, overtime.StatusApproved, &note)
	require.NoError(t, err)
	assert.Equal(t, overtime.StatusApproved, approved.Status)
	require.NotNil(t, approved.Notes)
	assert.Equal(t, note, *approved.Notes)

	_, err = records.Update(ctx, overtime.Record{
		ID:              rec.ID,
		CompanyID:       companyID,
		Type:            overtime.TypeUnscheduled,
		PunchIn:         otIn,
		PunchOut:        &otOut,
		DurationMinutes: &minutes,
		Notes:           approved.Notes,
	})
	require.NoError(t, err)

	summary, err := records.Summarize(ctx, companyID, overtime.OvertimeFilter{})
	require.NoError(t, err)
	assert.Equal(t, []overtime.TypeSummary{{Type: overtime.TypeUnscheduled, Status: overtime.StatusApproved, Count: 1, TotalMinutes: 30}}, summary)

	list, total, err := records.List(ctx, companyID, overtime.OvertimeFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)

	// Deleting the session takes its overtime with it.
	require.NoError(t, sessions.Delete(ctx, session.ID, companyID))
	_, err = records.GetByID(ctx, rec.ID, companyID)
	assert.ErrorIs(t, err, overtime.ErrOvertimeNotFound)

	_, total, err = sessions.List(ctx, companyID, attendance.WorkSessionFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)

	holiday, err := records.Create(ctx, overtime.Record{
		CompanyID:  companyID,
		EmployeeID: employeeID,
		Date:       monday,
		Type:       overtime.TypeHolidayWork,
		Status:     overtime.StatusPending,
		PunchIn:    in,
	})
	require.NoError(t, err)
	holidayMinutes := 240
	holidayOut := in.Add(4 * time.Hour)
	holiday.PunchOut, holiday.DurationMinutes, holiday.Status = &holidayOut, &holidayMinutes, overtime.StatusApproved
	_, err = records.Close(ctx, holiday)
	require.NoError(t, err)
	_, err = records.Close(ctx, holiday)
	assert.ErrorIs(t, err, overtime.ErrOvertimeClosed)
}
