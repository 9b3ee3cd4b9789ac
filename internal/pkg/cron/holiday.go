package cron

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/ical"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentImports = 4

// HolidaySyncJobs imports a public holiday feed into the calendar of each
// configured company.
type HolidaySyncJobs struct {
	calendarService calendar.CalendarService
	client          *http.Client
	feedURL         string
	companyIDs      []string
	interval        time.Duration
	timeout         time.Duration
	logger          *slog.Logger
}

type HolidaySyncOptions struct {
	FeedURL    string
	CompanyIDs []string
	Interval   time.Duration
	Timeout    time.Duration
}

func NewHolidaySyncJobs(calendarService calendar.CalendarService, client *http.Client, opts HolidaySyncOptions, logger *slog.Logger) *HolidaySyncJobs {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HolidaySyncJobs{
		calendarService: calendarService,
		client:          client,
		feedURL:         opts.FeedURL,
		companyIDs:      opts.CompanyIDs,
		interval:        opts.Interval,
		timeout:         opts.Timeout,
		logger:          logger.With("job", "sync_public_holidays"),
	}
}

func (j *HolidaySyncJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{
		Name:     "sync_public_holidays",
		Interval: j.interval,
		Timeout:  j.timeout,
		Fn:       j.SyncPublicHolidays,
	})
}

// SyncPublicHolidays downloads the feed once and imports it for every
// company. One company failing does not stop the others.
func (j *HolidaySyncJobs) SyncPublicHolidays(ctx context.Context) error {
	body, err := ical.Fetch(ctx, j.client, j.feedURL)
	if err != nil {
		return err
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read holiday feed: %w", err)
	}

	results := make([]error, len(j.companyIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentImports)
	for i, companyID := range j.companyIDs {
		g.Go(func() error {
			res, err := j.calendarService.ImportICS(gctx, companyID, bytes.NewReader(raw))
			if err != nil {
				j.logger.Error("Holiday sync failed", "company_id", companyID, "error", err)
				results[i] = fmt.Errorf("company %s: %w", companyID, err)
				return nil
			}
			j.logger.Info("Holiday sync completed",
				"company_id", companyID,
				"created", res.Created,
				"updated", res.Updated,
				"skipped", res.Skipped,
			)
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range results {
		if err != nil {
			return err
		}
	}
	return nil
}
