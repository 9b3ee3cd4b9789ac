package calendar

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/ical"
)

type CalendarServiceImpl struct {
	tx     database.Transactor
	repo   calendar.HolidayRepository
	logger *slog.Logger
}

func NewCalendarService(tx database.Transactor, repo calendar.HolidayRepository, logger *slog.Logger) calendar.CalendarService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CalendarServiceImpl{
		tx:     tx,
		repo:   repo,
		logger: logger.With("component", "calendar"),
	}
}

// Create implements calendar.CalendarService.
func (s *CalendarServiceImpl) Create(ctx context.Context, req calendar.CreateHolidayRequest) (calendar.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return calendar.HolidayResponse{}, err
	}
	date, err := clock.ParseDate(req.Date)
	if err != nil {
		return calendar.HolidayResponse{}, err
	}

	entry, err := s.repo.Create(ctx, calendar.HolidayEntry{
		CompanyID: req.CompanyID,
		Date:      date,
		DayType:   calendar.DayTypeHoliday,
		Title:     req.Title,
		IsActive:  true,
	})
	if err != nil {
		return calendar.HolidayResponse{}, err
	}

	s.logger.Info("holiday created", "company_id", req.CompanyID, "date", date.String(), "title", req.Title)
	return mapHolidayToResponse(entry), nil
}

// List implements calendar.CalendarService.
func (s *CalendarServiceImpl) List(ctx context.Context, companyID string, filter calendar.HolidayFilter) ([]calendar.HolidayResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	entries, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	responses := make([]calendar.HolidayResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, mapHolidayToResponse(e))
	}
	return responses, nil
}

// ToggleActive implements calendar.CalendarService.
func (s *CalendarServiceImpl) ToggleActive(ctx context.Context, id, companyID string) (calendar.HolidayResponse, error) {
	var updated calendar.HolidayEntry
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		entry, err := s.repo.GetByID(ctx, id, companyID)
		if err != nil {
			return err
		}
		updated, err = s.repo.SetActive(ctx, id, companyID, !entry.IsActive)
		return err
	})
	if err != nil {
		return calendar.HolidayResponse{}, err
	}

	s.logger.Info("holiday toggled", "holiday_id", id, "is_active", updated.IsActive)
	return mapHolidayToResponse(updated), nil
}

// Delete implements calendar.CalendarService.
func (s *CalendarServiceImpl) Delete(ctx context.Context, id, companyID string) error {
	if err := s.repo.Delete(ctx, id, companyID); err != nil {
		return err
	}
	s.logger.Info("holiday deleted", "holiday_id", id)
	return nil
}

// ImportICS implements calendar.CalendarService.
//
// All dates are upserted in one transaction; a date already present is
// reactivated with the feed's title.
func (s *CalendarServiceImpl) ImportICS(ctx context.Context, companyID string, r io.Reader) (calendar.ImportResult, error) {
	holidays, skipped, err := ical.ParseHolidays(r)
	if err != nil {
		s.logger.Warn("calendar feed rejected", "company_id", companyID, "error", err)
		return calendar.ImportResult{}, fmt.Errorf("%w: %v", calendar.ErrInvalidCalendar, err)
	}
	if len(holidays) == 0 {
		return calendar.ImportResult{}, calendar.ErrEmptyCalendar
	}

	result := calendar.ImportResult{Skipped: skipped}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, h := range holidays {
			_, created, err := s.repo.Upsert(ctx, calendar.HolidayEntry{
				CompanyID: companyID,
				Date:      h.Date,
				DayType:   calendar.DayTypeHoliday,
				Title:     h.Title,
				IsActive:  true,
			})
			if err != nil {
				return fmt.Errorf("failed to upsert holiday %s: %w", h.Date, err)
			}
			if created {
				result.Created++
			} else {
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return calendar.ImportResult{}, err
	}

	s.logger.Info("calendar imported",
		"company_id", companyID,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
	)
	return result, nil
}

func mapHolidayToResponse(e calendar.HolidayEntry) calendar.HolidayResponse {
	return calendar.HolidayResponse{
		ID:        e.ID,
		Date:      e.Date.String(),
		DayType:   e.DayType,
		Title:     e.Title,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.Format(time.RFC3339),
	}
}
