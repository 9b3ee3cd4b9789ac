package calendar

import (
	"context"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
)

type HolidayRepository interface {
	// GetActiveByDate returns nil when the date has no active holiday.
	GetActiveByDate(ctx context.Context, companyID string, date clock.Date) (*HolidayEntry, error)

	Create(ctx context.Context, entry HolidayEntry) (HolidayEntry, error)

	// Upsert inserts or refreshes the title and reactivates the entry for the date.
	// The returned bool is true when a new row was inserted.
	Upsert(ctx context.Context, entry HolidayEntry) (HolidayEntry, bool, error)

	GetByID(ctx context.Context, id, companyID string) (HolidayEntry, error)
	List(ctx context.Context, companyID string, filter HolidayFilter) ([]HolidayEntry, error)
	SetActive(ctx context.Context, id, companyID string, active bool) (HolidayEntry, error)
	Delete(ctx context.Context, id, companyID string) error
}
