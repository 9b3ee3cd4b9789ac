package attendance

import "context"

// AttendanceService turns punches into work sessions and overtime records.
type AttendanceService interface {
	// ClassifyAndRecordPunch applies one punch inside a single transaction.
	ClassifyAndRecordPunch(ctx context.Context, req PunchRequest) (PunchResult, error)

	// BulkClassifyAndRecordPunches applies a batch; one record failing does not stop the others.
	BulkClassifyAndRecordPunches(ctx context.Context, req BulkPunchRequest) (BulkPunchResult, error)

	// ReclassifyWorkSession replaces punch times and recomputes the session's overtime.
	ReclassifyWorkSession(ctx context.Context, req ReclassifyRequest) (PunchResult, error)

	GetWorkSession(ctx context.Context, id, companyID string) (WorkSessionResponse, error)
	ListWorkSessions(ctx context.Context, companyID string, filter WorkSessionFilter) (ListWorkSessionResponse, error)
	DeleteWorkSession(ctx context.Context, id, companyID string) error
}
