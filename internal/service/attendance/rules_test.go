package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/graceperiod"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
)

func fixedWindow(grace int) workWindow {
	day := schedule.ShiftDay{
		DayNumber:    1,
		DayType:      schedule.DayTypeFullDay,
		StartTime:    clock.MustTimeOfDay("08:00"),
		EndTime:      clock.MustTimeOfDay("17:00"),
		BreakMinutes: 60,
	}
	w := schedule.FixedWeekly{Day: day}
	return newWorkWindow(w, w.Bounds(clock.New(wib), monday), grace)
}

func rotatingWindow(grace int) workWindow {
	w := schedule.Rotating{Type: schedule.RotatingShiftType{
		StartTime:    clock.MustTimeOfDay("06:00"),
		EndTime:      clock.MustTimeOfDay("14:00"),
		BreakMinutes: 30,
	}}
	return newWorkWindow(w, w.Bounds(clock.New(wib), monday), grace)
}

func ptr(t time.Time) *time.Time { return &t }

func TestNextAction(t *testing.T) {
	cases := []struct {
		state   attendance.PunchState
		dir     attendance.Direction
		want    attendance.PunchAction
		wantErr error
	}{
		{attendance.StateNoSession, attendance.DirectionAuto, attendance.ActionPunchIn, nil},
		{attendance.StateNoSession, attendance.DirectionIn, attendance.ActionPunchIn, nil},
		{attendance.StateNoSession, attendance.DirectionOut, "", attendance.ErrMustPunchInFirst},
		{attendance.StatePunchedIn, attendance.DirectionAuto, attendance.ActionPunchOut, nil},
		{attendance.StatePunchedIn, attendance.DirectionOut, attendance.ActionPunchOut, nil},
		{attendance.StatePunchedIn, attendance.DirectionIn, "", attendance.ErrAlreadyPunchedIn},
		{attendance.StateComplete, attendance.DirectionAuto, "", attendance.ErrSessionCompleted},
		{attendance.StateComplete, attendance.DirectionIn, "", attendance.ErrSessionCompleted},
		{attendance.StateComplete, attendance.DirectionOut, "", attendance.ErrAlreadyPunchedOut},
	}
	for _, tc := range cases {
		t.Run(string(tc.state)+"/"+string(tc.dir), func(t *testing.T) {
			got, err := nextAction(tc.state, tc.dir)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeForDisplay(t *testing.T) {
	ww := fixedWindow(10)
	h := func(hhmm string) time.Time { return clockAt(monday, hhmm) }

	cases := []struct {
		name    string
		ww      workWindow
		in      time.Time
		out     *time.Time
		wantIn  time.Time
		wantOut *time.Time
	}{
		{"early in clipped", ww, h("07:40"), nil, h("08:00"), nil},
		{"late in kept", ww, h("08:20"), nil, h("08:20"), nil},
		{"both clipped", ww, h("07:55"), ptr(h("17:30")), h("08:00"), ptr(h("17:00"))},
		{"early out kept", ww, h("08:00"), ptr(h("16:00")), h("08:00"), ptr(h("16:00"))},
		{"inverted pair keeps actual", ww, h("06:00"), ptr(h("07:30")), h("06:00"), ptr(h("07:30"))},
		{"unscheduled never clipped", workWindow{}, h("05:00"), ptr(h("20:00")), h("05:00"), ptr(h("20:00"))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in, out := normalizeForDisplay(tc.in, tc.out, tc.ww)
			assert.True(t, tc.wantIn.Equal(in), "in = %s", in)
			if tc.wantOut == nil {
				assert.Nil(t, out)
				return
			}
			if assert.NotNil(t, out) {
				assert.True(t, tc.wantOut.Equal(*out), "out = %s", out)
			}
			if tc.out != nil {
				assert.NotSame(t, tc.out, out)
			}
		})
	}
}

func TestDeductedMinutes(t *testing.T) {
	h := func(hhmm string) time.Time { return clockAt(monday, hhmm) }

	cases := []struct {
		name      string
		ww        workWindow
		in, out   time.Time
		penalties bool
		want      int
	}{
		{"fixed on time", fixedWindow(10), h("08:00"), h("17:00"), false, 60},
		{"fixed within grace", fixedWindow(10), h("08:10"), h("16:50"), false, 60},
		{"fixed late and early", fixedWindow(10), h("08:25"), h("16:50"), false, 75},
		{"fixed zero grace", fixedWindow(0), h("08:05"), h("16:55"), false, 70},
		{"rotating break only", rotatingWindow(0), h("06:30"), h("13:00"), false, 30},
		{"rotating with penalties", rotatingWindow(0), h("06:30"), h("13:00"), true, 120},
		{"unscheduled", workWindow{}, h("06:30"), h("13:00"), true, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, deductedMinutes(tc.ww, tc.in, tc.out, tc.penalties))
		})
	}
}

func TestEffectiveGrace(t *testing.T) {
	bounds := schedule.Bounds{GracePeriodMinutes: 15}

	assert.Equal(t, 15, effectiveGrace(nil, bounds))
	assert.Equal(t, 0, effectiveGrace(&graceperiod.CompanyGracePeriod{GracePeriodMinutes: 0, IsActive: true}, bounds))
	assert.Equal(t, 5, effectiveGrace(&graceperiod.CompanyGracePeriod{GracePeriodMinutes: 5, IsActive: true}, bounds))
	assert.Equal(t, 15, effectiveGrace(&graceperiod.CompanyGracePeriod{GracePeriodMinutes: 5}, bounds))
}

func TestDayKindOf(t *testing.T) {
	rest := schedule.FixedWeekly{Day: schedule.ShiftDay{DayType: schedule.DayTypeRestDay}}
	work := schedule.FixedWeekly{Day: schedule.ShiftDay{DayType: schedule.DayTypeFullDay}}
	dayOff := schedule.NoSchedule{Reason: schedule.ReasonRotatingDayOff}
	noAssignment := schedule.NoSchedule{Reason: schedule.ReasonNoAssignment}

	assert.Equal(t, calendar.DayKindRestDay, dayKindOf(rest, true))
	assert.Equal(t, calendar.DayKindWorkDay, dayKindOf(work, true))
	assert.Equal(t, calendar.DayKindRestDay, dayKindOf(dayOff, true))
	assert.Equal(t, calendar.DayKindWorkDay, dayKindOf(dayOff, false))
	assert.Equal(t, calendar.DayKindWorkDay, dayKindOf(noAssignment, true))
	assert.Equal(t, calendar.DayKindWorkDay, dayKindOf(schedule.Rotating{}, true))
}

func TestOvertimeThresholds(t *testing.T) {
	ww := fixedWindow(10)

	_, ok := arrivalOvertime(ww, clockAt(monday, "07:50"))
	assert.False(t, ok, "punch exactly at the early threshold is not overtime")

	span, ok := arrivalOvertime(ww, clockAt(monday, "07:49"))
	assert.True(t, ok)
	assert.Equal(t, 11*time.Minute, span.To.Sub(span.From))

	_, ok = departureOvertime(ww, clockAt(monday, "17:10"))
	assert.False(t, ok, "punch exactly at the late threshold is not overtime")

	_, ok = departureOvertime(workWindow{}, clockAt(monday, "23:00"))
	assert.False(t, ok)
}
