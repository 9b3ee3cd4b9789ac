package calendar

import (
	"context"
	"io"
)

type CalendarService interface {
	Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	List(ctx context.Context, companyID string, filter HolidayFilter) ([]HolidayResponse, error)
	ToggleActive(ctx context.Context, id, companyID string) (HolidayResponse, error)
	Delete(ctx context.Context, id, companyID string) error

	// ImportICS upserts every all-day event of an iCalendar feed as a holiday.
	ImportICS(ctx context.Context, companyID string, r io.Reader) (ImportResult, error)
}
