package overtime

import (
	"bytes"
	"context"
)

type OvertimeService interface {
	List(ctx context.Context, companyID string, filter OvertimeFilter) (ListOvertimeResponse, error)
	Get(ctx context.Context, id, companyID string) (OvertimeResponse, error)
	Create(ctx context.Context, req CreateOvertimeRequest) (OvertimeResponse, error)
	Update(ctx context.Context, req UpdateOvertimeRequest) (OvertimeResponse, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (OvertimeResponse, error)
	Delete(ctx context.Context, id, companyID string) error
	Summary(ctx context.Context, companyID string, filter OvertimeFilter) (SummaryResponse, error)
	Export(ctx context.Context, companyID string, filter OvertimeFilter) (*bytes.Buffer, string, error)
}
