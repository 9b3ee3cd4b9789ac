package attendance

import (
	"testing"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReclassify_RecomputesFromNewTimes(t *testing.T) {
	f := newFixture(t)
	f.mustPunch(t, monday, "2024-03-04 08:00")
	done := f.mustPunch(t, monday, "2024-03-04 17:00")
	require.Empty(t, done.Overtime)

	res, err := f.svc.ReclassifyWorkSession(f.ctx, attendance.ReclassifyRequest{
		ID:             done.WorkSession.ID,
		CompanyID:      testCompanyID,
		PunchIn:        "2024-03-04 07:15",
		PunchOut:       "2024-03-04 18:30",
		PunchOutSource: "hr_correction",
	})
	require.NoError(t, err)

	assert.Equal(t, attendance.ActionReclassify, res.Action)
	ws := res.WorkSession
	assert.Equal(t, at(monday, "07:15"), ws.ActualPunchIn)
	assert.Equal(t, at(monday, "08:00"), ws.PunchIn)
	assert.Equal(t, at(monday, "17:00"), *ws.PunchOut)
	assert.Equal(t, attendance.SourceManual, ws.PunchInSource)
	assert.Equal(t, "hr_correction", *ws.PunchOutSource)
	assert.Equal(t, 675, *ws.DurationMinutes)
	assert.Equal(t, 45, ws.EarlyMinutes)
	assert.Equal(t, 90, ws.LateMinutes)

	require.Len(t, res.Overtime, 2)
	assert.Equal(t, string(overtime.TypeUnscheduled), res.Overtime[0].Type)
	assert.Equal(t, 45, *res.Overtime[0].DurationMinutes)
	assert.Equal(t, string(overtime.TypeExtendedShift), res.Overtime[1].Type)
	assert.Equal(t, 90, *res.Overtime[1].DurationMinutes)
	assert.Equal(t, []string{events.TypeOvertimeCreated, events.TypeOvertimeCreated}, f.publisher.types())
}

func TestReclassify_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.mustPunch(t, monday, "2024-03-04 08:00")
	done := f.mustPunch(t, monday, "2024-03-04 18:00")
	require.Len(t, done.Overtime, 1)

	req := attendance.ReclassifyRequest{
		ID:        done.WorkSession.ID,
		CompanyID: testCompanyID,
		PunchOut:  "2024-03-04 18:00",
	}
	for i := 0; i < 2; i++ {
		res, err := f.svc.ReclassifyWorkSession(f.ctx, req)
		require.NoError(t, err)
		require.Len(t, res.Overtime, 1)
		assert.Equal(t, 60, *res.Overtime[0].DurationMinutes)
	}

	records := f.overtimeOfType(t, overtime.TypeExtendedShift)
	require.Len(t, records, 1)
	assert.Equal(t, done.WorkSession.ID, *records[0].WorkSessionID)
}

func TestReclassify_DropsOvertimeThatNoLongerApplies(t *testing.T) {
	f := newFixture(t)
	f.mustPunch(t, monday, "2024-03-04 07:00")
	done := f.mustPunch(t, monday, "2024-03-04 17:00")

	res, err := f.svc.ReclassifyWorkSession(f.ctx, attendance.ReclassifyRequest{
		ID:        done.WorkSession.ID,
		CompanyID: testCompanyID,
		PunchIn:   "2024-03-04 08:00",
	})
	require.NoError(t, err)

	assert.Empty(t, res.Overtime)
	assert.Empty(t, f.overtimeOfType(t, overtime.TypeUnscheduled))
}

func TestReclassify_OpenSessionKeepsOpen(t *testing.T) {
	f := newFixture(t)
	open := f.mustPunch(t, monday, "2024-03-04 08:30")

	res, err := f.svc.ReclassifyWorkSession(f.ctx, attendance.ReclassifyRequest{
		ID:        open.WorkSession.ID,
		CompanyID: testCompanyID,
		PunchIn:   "2024-03-04 08:00",
	})
	require.NoError(t, err)

	assert.Equal(t, string(attendance.StatePunchedIn), res.WorkSession.State)
	assert.Nil(t, res.WorkSession.PunchOut)
	assert.Nil(t, res.WorkSession.DurationMinutes)
}

func TestReclassify_Errors(t *testing.T) {
	f := newFixture(t)
	f.mustPunch(t, monday, "2024-03-04 08:00")
	done := f.mustPunch(t, monday, "2024-03-04 17:00")

	t.Run("out before in", func(t *testing.T) {
		_, err := f.svc.ReclassifyWorkSession(f.ctx, attendance.ReclassifyRequest{
			ID:        done.WorkSession.ID,
			CompanyID: testCompanyID,
			PunchIn:   "2024-03-04 18:00",
		})
		assert.ErrorIs(t, err, attendance.ErrPunchOutBeforePunchIn)
	})

	t.Run("nothing to change", func(t *testing.T) {
		_, err := f.svc.ReclassifyWorkSession(f.ctx, attendance.ReclassifyRequest{
			ID:        done.WorkSession.ID,
			CompanyID: testCompanyID,
		})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := f.svc.ReclassifyWorkSession(f.ctx, attendance.ReclassifyRequest{
			ID:        "0192a7c4-ffff-7000-8000-000000000000",
			CompanyID: testCompanyID,
			PunchIn:   "2024-03-04 08:00",
		})
		assert.ErrorIs(t, err, attendance.ErrWorkSessionNotFound)
	})

	got, err := f.svc.GetWorkSession(f.ctx, done.WorkSession.ID, testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, at(monday, "08:00"), got.ActualPunchIn)
}
