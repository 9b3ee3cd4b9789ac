package calendar

import (
	"context"
	"strings"
	"testing"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const companyID = "0192a7c4-0000-7000-8000-000000000001"

const holidayFeed = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//Holidays//ID\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:nyepi\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20240311\r\n" +
	"SUMMARY:Hari Suci Nyepi\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:lebaran\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20240410\r\n" +
	"DTEND;VALUE=DATE:20240412\r\n" +
	"SUMMARY:Idul Fitri\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:standup\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART:20240315T090000Z\r\n" +
	"SUMMARY:Standup\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func newService() (calendar.CalendarService, *memory.Store) {
	store := memory.NewStore()
	return NewCalendarService(store.Transactor(), store.Holidays(), nil), store
}

func TestCalendar_CreateListToggleDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	created, err := svc.Create(ctx, calendar.CreateHolidayRequest{CompanyID: companyID, Date: "2024-03-11", Title: "Nyepi"})
	require.NoError(t, err)
	assert.Equal(t, calendar.DayTypeHoliday, created.DayType)
	assert.True(t, created.IsActive)

	_, err = svc.Create(ctx, calendar.CreateHolidayRequest{CompanyID: companyID, Date: "2024-03-11", Title: "Again"})
	assert.ErrorIs(t, err, calendar.ErrHolidayExists)

	_, err = svc.Create(ctx, calendar.CreateHolidayRequest{CompanyID: companyID, Date: "11-03-2024"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	toggled, err := svc.ToggleActive(ctx, created.ID, companyID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	list, err := svc.List(ctx, companyID, calendar.HolidayFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = svc.List(ctx, companyID, calendar.HolidayFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, created.ID, companyID))
	_, err = svc.ToggleActive(ctx, created.ID, companyID)
	assert.ErrorIs(t, err, calendar.ErrHolidayNotFound)
}

func TestCalendar_ImportICS(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	_, err := svc.Create(ctx, calendar.CreateHolidayRequest{CompanyID: companyID, Date: "2024-03-11", Title: "Nyepi (draft)"})
	require.NoError(t, err)

	res, err := svc.ImportICS(ctx, companyID, strings.NewReader(holidayFeed))
	require.NoError(t, err)
	assert.Equal(t, calendar.ImportResult{Created: 2, Updated: 1, Skipped: 1}, res)

	start, end := "2024-03-01", "2024-04-30"
	list, err := svc.List(ctx, companyID, calendar.HolidayFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Hari Suci Nyepi", list[0].Title)
	assert.Equal(t, "2024-04-11", list[2].Date)

	// Importing again only updates.
	res, err = svc.ImportICS(ctx, companyID, strings.NewReader(holidayFeed))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 3, res.Updated)
}

func TestCalendar_ImportICSErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	_, err := svc.ImportICS(ctx, companyID, strings.NewReader("garbage"))
	assert.ErrorIs(t, err, calendar.ErrInvalidCalendar)

	empty := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//x//x\r\nEND:VCALENDAR\r\n"
	_, err = svc.ImportICS(ctx, companyID, strings.NewReader(empty))
	assert.ErrorIs(t, err, calendar.ErrEmptyCalendar)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
