package graceperiod

import "context"

type GracePeriodService interface {
	// Create deactivates the current record and stores the new one as active.
	Create(ctx context.Context, req CreateGracePeriodRequest) (GracePeriodResponse, error)
	GetActive(ctx context.Context, companyID string) (GracePeriodResponse, error)
	List(ctx context.Context, companyID string) ([]GracePeriodResponse, error)
}
