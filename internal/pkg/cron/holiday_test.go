package cron

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/memory"
	calendarService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const holidayFeed = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//Holidays//ID\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:independence\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20240817\r\n" +
	"SUMMARY:Hari Kemerdekaan\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestHolidaySync_ImportsForEveryCompany(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, holidayFeed)
	}))
	defer srv.Close()

	store := memory.NewStore()
	svc := calendarService.NewCalendarService(store.Transactor(), store.Holidays(), nil)
	companies := []string{"company-a", "company-b"}

	scheduler := NewScheduler(nil)
	NewHolidaySyncJobs(svc, srv.Client(), HolidaySyncOptions{
		FeedURL:    srv.URL + "/id.ics",
		CompanyIDs: companies,
		Interval:   time.Hour,
		Timeout:    5 * time.Second,
	}, nil).RegisterJobs(scheduler)
	require.Equal(t, 1, scheduler.Len())

	ctx := context.Background()
	require.NoError(t, scheduler.RunOnce(ctx))
	// A second run only refreshes existing entries.
	require.NoError(t, scheduler.RunOnce(ctx))

	for _, companyID := range companies {
		list, err := svc.List(ctx, companyID, calendar.HolidayFilter{})
		require.NoError(t, err)
		require.Len(t, list, 1, companyID)
		assert.Equal(t, "2024-08-17", list[0].Date)
		assert.Equal(t, "Hari Kemerdekaan", list[0].Title)
	}
}

func TestHolidaySync_FeedUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	store := memory.NewStore()
	svc := calendarService.NewCalendarService(store.Transactor(), store.Holidays(), nil)
	jobs := NewHolidaySyncJobs(svc, srv.Client(), HolidaySyncOptions{
		FeedURL:    srv.URL,
		CompanyIDs: []string{"company-a"},
		Interval:   time.Hour,
	}, nil)

	err := jobs.SyncPublicHolidays(context.Background())
	assert.ErrorContains(t, err, "unexpected status 502")
}

func TestHolidaySync_InvalidFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "not a calendar")
	}))
	defer srv.Close()

	store := memory.NewStore()
	svc := calendarService.NewCalendarService(store.Transactor(), store.Holidays(), nil)
	jobs := NewHolidaySyncJobs(svc, srv.Client(), HolidaySyncOptions{
		FeedURL:    srv.URL,
		CompanyIDs: []string{"company-a"},
	}, nil)

	err := jobs.SyncPublicHolidays(context.Background())
	assert.ErrorIs(t, err, calendar.ErrInvalidCalendar)
	assert.ErrorContains(t, err, "company company-a")
}

func TestScheduler_RunOnceJoinsErrors(t *testing.T) {
	scheduler := NewScheduler(nil)
	boom := errors.New("boom")
	var ran []string
	scheduler.AddJob(Job{Name: "first", Interval: time.Hour, Fn: func(ctx context.Context) error {
		ran = append(ran, "first")
		return boom
	}})
	scheduler.AddJob(Job{Name: "second", Interval: time.Hour, Fn: func(ctx context.Context) error {
		ran = append(ran, "second")
		return nil
	}})

	err := scheduler.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "first: boom")
	assert.Equal(t, []string{"first", "second"}, ran)
}

func TestScheduler_StartStop(t *testing.T) {
	scheduler := NewScheduler(nil)
	done := make(chan struct{}, 1)
	scheduler.AddJob(Job{Name: "tick", Interval: time.Hour, Fn: func(ctx context.Context) error {
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	}})

	scheduler.Start()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	scheduler.Stop()
}
