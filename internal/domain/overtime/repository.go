package overtime

import (
	"context"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
)

type OvertimeRepository interface {
	// ExistsByEmployeeDateType backs the one-record-per-(employee, date, type) rule.
	ExistsByEmployeeDateType(ctx context.Context, employeeID string, date clock.Date, overtimeType Type) (bool, error)

	// GetByEmployeeDateType returns nil when no record exists.
	GetByEmployeeDateType(ctx context.Context, employeeID string, date clock.Date, overtimeType Type) (*Record, error)

	// Create returns ErrOvertimeExists when the unique key is taken.
	Create(ctx context.Context, record Record) (Record, error)

	// Close fills punch out, duration and status of an open record. It returns
	// ErrOvertimeClosed when the record already has a punch out.
	Close(ctx context.Context, record Record) (Record, error)

	GetByID(ctx context.Context, id, companyID string) (Record, error)
	// Update rewrites type, punches, duration and notes. It returns
	// ErrOvertimeExists when the new type is taken for the date.
	Update(ctx context.Context, record Record) (Record, error)

	// UpdateStatus keeps the stored notes when notes is nil.
	UpdateStatus(ctx context.Context, id, companyID string, status Status, notes *string) (Record, error)
	Delete(ctx context.Context, id, companyID string) error

	// DeleteByWorkSession removes every record derived from a session and returns how many went.
	DeleteByWorkSession(ctx context.Context, workSessionID string) (int64, error)
	ListByWorkSession(ctx context.Context, workSessionID string) ([]Record, error)

	List(ctx context.Context, companyID string, filter OvertimeFilter) ([]Record, int64, error)
	Summarize(ctx context.Context, companyID string, filter OvertimeFilter) ([]TypeSummary, error)
}
