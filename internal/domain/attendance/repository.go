package attendance

import (
	"context"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
)

// WorkSessionRepository scopes every read by company except the per-employee
// lookup, whose employee id was already resolved within the company.
type WorkSessionRepository interface {
	// GetByEmployeeAndDate returns nil when the employee has no session on date.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date clock.Date) (*WorkSession, error)

	GetByID(ctx context.Context, id, companyID string) (WorkSession, error)

	// Create returns ErrWorkSessionExists when the (employee, date) key is taken.
	Create(ctx context.Context, session WorkSession) (WorkSession, error)

	Update(ctx context.Context, session WorkSession) (WorkSession, error)

	// PunchOut stores the punch out of a session that is still open. It returns
	// ErrSessionCompleted when another punch closed the session first.
	PunchOut(ctx context.Context, session WorkSession) (WorkSession, error)

	// Delete removes the session together with its overtime records.
	Delete(ctx context.Context, id, companyID string) error

	List(ctx context.Context, companyID string, filter WorkSessionFilter) ([]WorkSession, int64, error)
}
