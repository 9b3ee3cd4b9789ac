package overtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type OvertimeServiceImpl struct {
	tx          database.Transactor
	repo        overtime.OvertimeRepository
	employees   employee.EmployeeRepository
	publisher   events.Publisher
	logger      *slog.Logger
	defaultZone *time.Location
}

func NewOvertimeService(
	tx database.Transactor,
	repo overtime.OvertimeRepository,
	employees employee.EmployeeRepository,
	publisher events.Publisher,
	logger *slog.Logger,
	defaultZone *time.Location,
) overtime.OvertimeService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if defaultZone == nil {
		defaultZone = time.UTC
	}
	return &OvertimeServiceImpl{
		tx:          tx,
		repo:        repo,
		employees:   employees,
		publisher:   publisher,
		logger:      logger.With("component", "overtime"),
		defaultZone: defaultZone,
	}
}

// List implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) List(ctx context.Context, companyID string, filter overtime.OvertimeFilter) (overtime.ListOvertimeResponse, error) {
	if err := filter.Validate(); err != nil {
		return overtime.ListOvertimeResponse{}, err
	}

	records, total, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return overtime.ListOvertimeResponse{}, fmt.Errorf("failed to list overtime: %w", err)
	}

	responses := make([]overtime.OvertimeResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, s.toResponse(r))
	}

	return overtime.ListOvertimeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Records:    responses,
	}, nil
}

// Get implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) Get(ctx context.Context, id, companyID string) (overtime.OvertimeResponse, error) {
	record, err := s.repo.GetByID(ctx, id, companyID)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}
	return s.toResponse(record), nil
}

// Create implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) Create(ctx context.Context, req overtime.CreateOvertimeRequest) (overtime.OvertimeResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeResponse{}, err
	}
	date, err := clock.ParseDate(req.Date)
	if err != nil {
		return overtime.OvertimeResponse{}, validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}

	emp, err := s.employees.GetByID(ctx, req.EmployeeID, req.CompanyID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return overtime.OvertimeResponse{}, err
		}
		return overtime.OvertimeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	c := clock.ForZone(emp.Timezone, s.defaultZone)
	in, err := parseInstant(c, "punch_in", req.PunchIn)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}
	out, err := parseInstant(c, "punch_out", req.PunchOut)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}
	minutes, err := durationMinutes(in, out)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	created, err := s.repo.Create(ctx, overtime.Record{
		CompanyID:       req.CompanyID,
		EmployeeID:      emp.ID,
		Date:            date,
		Type:            overtime.Type(req.Type),
		Status:          overtime.StatusPending,
		PunchIn:         in,
		PunchOut:        &out,
		DurationMinutes: &minutes,
		Source:          overtime.SourceManual,
		Notes:           req.Notes,
	})
	if err != nil {
		if errors.Is(err, overtime.ErrOvertimeExists) {
			return overtime.OvertimeResponse{}, err
		}
		return overtime.OvertimeResponse{}, fmt.Errorf("failed to create overtime record: %w", err)
	}

	s.logger.Info("overtime entered",
		"overtime_id", created.ID,
		"employee_id", created.EmployeeID,
		"date", created.Date.String(),
		"type", created.Type,
		"duration_minutes", minutes,
	)

	resp := s.toResponse(created)
	s.publish(ctx, events.TypeOvertimeCreated, created, resp)
	return resp, nil
}

// Update implements overtime.OvertimeService. Duration follows the punches;
// a record without punch out stays open.
func (s *OvertimeServiceImpl) Update(ctx context.Context, req overtime.UpdateOvertimeRequest) (overtime.OvertimeResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeResponse{}, err
	}

	var updated overtime.Record
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		record, err := s.repo.GetByID(ctx, req.ID, req.CompanyID)
		if err != nil {
			return err
		}
		if record.Status == overtime.StatusPaid {
			return overtime.ErrOvertimePaid
		}

		c := clock.New(s.location(record))
		if req.Type != nil {
			record.Type = overtime.Type(*req.Type)
		}
		if req.PunchIn != nil {
			if record.PunchIn, err = parseInstant(c, "punch_in", *req.PunchIn); err != nil {
				return err
			}
		}
		if req.PunchOut != nil {
			out, err := parseInstant(c, "punch_out", *req.PunchOut)
			if err != nil {
				return err
			}
			record.PunchOut = &out
		}
		if req.Notes != nil {
			record.Notes = req.Notes
		}

		record.DurationMinutes = nil
		if record.PunchOut != nil {
			minutes, err := durationMinutes(record.PunchIn, *record.PunchOut)
			if err != nil {
				return err
			}
			record.DurationMinutes = &minutes
		}

		updated, err = s.repo.Update(ctx, record)
		if err != nil {
			if errors.Is(err, overtime.ErrOvertimeExists) || errors.Is(err, overtime.ErrOvertimeNotFound) {
				return err
			}
			return fmt.Errorf("failed to update overtime record: %w", err)
		}

		s.logger.Info("overtime edited",
			"overtime_id", updated.ID,
			"employee_id", updated.EmployeeID,
			"type", updated.Type,
			"open", updated.IsOpen(),
		)
		return nil
	})
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	resp := s.toResponse(updated)
	s.publish(ctx, events.TypeOvertimeUpdated, updated, resp)
	return resp, nil
}

// UpdateStatus implements overtime.OvertimeService.
//
// An open record can only be rejected; approval comes with the punch that closes it.
func (s *OvertimeServiceImpl) UpdateStatus(ctx context.Context, req overtime.UpdateStatusRequest) (overtime.OvertimeResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeResponse{}, err
	}
	next := overtime.Status(req.Status)

	var updated overtime.Record
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		record, err := s.repo.GetByID(ctx, req.ID, req.CompanyID)
		if err != nil {
			return err
		}
		if record.IsOpen() && next != overtime.StatusRejected {
			return overtime.ErrOvertimeStillOpen
		}
		if !record.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s to %s", overtime.ErrInvalidStatusTransition, record.Status, next)
		}

		updated, err = s.repo.UpdateStatus(ctx, record.ID, req.CompanyID, next, req.Notes)
		if err != nil {
			return fmt.Errorf("failed to update overtime status: %w", err)
		}

		s.logger.Info("overtime status changed",
			"overtime_id", record.ID,
			"employee_id", record.EmployeeID,
			"from", record.Status,
			"to", next,
		)
		return nil
	})
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	resp := s.toResponse(updated)
	s.publish(ctx, events.TypeOvertimeStatusChanged, updated, resp)
	return resp, nil
}

func (s *OvertimeServiceImpl) publish(ctx context.Context, eventType string, r overtime.Record, resp overtime.OvertimeResponse) {
	evt := events.Event{
		Type:       eventType,
		CompanyID:  r.CompanyID,
		EmployeeID: r.EmployeeID,
		OccurredAt: time.Now().UTC(),
		Payload:    resp,
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Error("Failed to publish event", "type", evt.Type, "error", err)
	}
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

func durationMinutes(in, out time.Time) (int, error) {
	if !out.After(in) {
		return 0, validator.ValidationErrors{{Field: "punch_out", Message: "punch_out must be after punch_in"}}
	}
	return clock.RoundMinutes(out.Sub(in)), nil
}

// Delete implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) Delete(ctx context.Context, id, companyID string) error {
	if err := s.repo.Delete(ctx, id, companyID); err != nil {
		return err
	}
	s.logger.Info("overtime deleted", "overtime_id", id)
	return nil
}

// Summary implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) Summary(ctx context.Context, companyID string, filter overtime.OvertimeFilter) (overtime.SummaryResponse, error) {
	if err := filter.Validate(); err != nil {
		return overtime.SummaryResponse{}, err
	}

	rows, err := s.repo.Summarize(ctx, companyID, filter)
	if err != nil {
		return overtime.SummaryResponse{}, fmt.Errorf("failed to summarize overtime: %w", err)
	}

	resp := overtime.SummaryResponse{
		Lines:      make([]overtime.SummaryLine, 0, len(rows)),
		TotalHours: decimal.Zero,
	}
	for _, row := range rows {
		resp.Lines = append(resp.Lines, overtime.SummaryLine{
			Type:         string(row.Type),
			Status:       string(row.Status),
			Count:        row.Count,
			TotalMinutes: row.TotalMinutes,
			TotalHours:   overtime.MinutesToHours(row.TotalMinutes),
		})
		resp.TotalMinutes += row.TotalMinutes
	}
	resp.TotalHours = overtime.MinutesToHours(resp.TotalMinutes)
	return resp, nil
}

func (s *OvertimeServiceImpl) toResponse(r overtime.Record) overtime.OvertimeResponse {
	return overtime.NewOvertimeResponse(r, s.location(r))
}

func (s *OvertimeServiceImpl) location(r overtime.Record) *time.Location {
	zone := ""
	if r.Timezone != nil {
		zone = *r.Timezone
	}
	return clock.ForZone(zone, s.defaultZone).Location()
}

// Export implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) Export(ctx context.Context, companyID string, filter overtime.OvertimeFilter) (*bytes.Buffer, string, error) {
	filter.Page = 1
	filter.Limit = exportPageSize
	if err := filter.Validate(); err != nil {
		return nil, "", err
	}

	var records []overtime.Record
	for {
		page, total, err := s.repo.List(ctx, companyID, filter)
		if err != nil {
			return nil, "", fmt.Errorf("failed to list overtime: %w", err)
		}
		records = append(records, page...)
		if len(page) == 0 || int64(len(records)) >= total {
			break
		}
		filter.Page++
	}

	buf, err := s.writeWorkbook(records)
	if err != nil {
		s.logger.Error("Failed to write overtime workbook", "error", err)
		return nil, "", fmt.Errorf("failed to generate overtime export: %w", err)
	}

	s.logger.Info("overtime exported", "company_id", companyID, "records", len(records))
	return buf, exportFilename(filter), nil
}
