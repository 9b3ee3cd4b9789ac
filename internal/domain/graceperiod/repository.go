package graceperiod

import "context"

type GracePeriodRepository interface {
	// GetActive returns nil when the company has no active record.
	GetActive(ctx context.Context, companyID string) (*CompanyGracePeriod, error)

	DeactivateAll(ctx context.Context, companyID string) error
	Create(ctx context.Context, gp CompanyGracePeriod) (CompanyGracePeriod, error)
	List(ctx context.Context, companyID string) ([]CompanyGracePeriod, error)
}
