package attendance

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"golang.org/x/sync/errgroup"
)

type bulkItem struct {
	punch  preparedPunch
	result attendance.PunchResult
	err    error
}

// BulkClassifyAndRecordPunches implements attendance.AttendanceService.
//
// Records of the same employee and date are applied in arrival order by one
// worker; distinct groups run concurrently up to the configured batch size.
func (s *AttendanceServiceImpl) BulkClassifyAndRecordPunches(ctx context.Context, req attendance.BulkPunchRequest) (attendance.BulkPunchResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.BulkPunchResult{}, err
	}
	if len(req.Records) > s.opts.BulkMaxRecords {
		return attendance.BulkPunchResult{}, fmt.Errorf("%w: got %d, at most %d allowed",
			attendance.ErrTooManyRecords, len(req.Records), s.opts.BulkMaxRecords)
	}

	items := make([]bulkItem, len(req.Records))
	groups := make(map[string][]int)
	var order []string

	for i, rec := range req.Records {
		rec.CompanyID = req.CompanyID
		p, err := s.prepare(ctx, rec)
		if err != nil {
			items[i].err = err
			continue
		}
		items[i].punch = p

		key := p.employee.ID + "|" + p.date.String()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	var g errgroup.Group
	g.SetLimit(s.opts.BulkBatchSize)
	for _, key := range order {
		indexes := groups[key]
		g.Go(func() error {
			for _, i := range indexes {
				if err := ctx.Err(); err != nil {
					items[i].err = err
					continue
				}
				items[i].result, items[i].err = s.record(ctx, items[i].punch)
			}
			return nil
		})
	}
	_ = g.Wait()

	result := attendance.BulkPunchResult{
		TotalRecords: len(req.Records),
		Successes:    []attendance.BulkSuccess{},
		Failures:     []attendance.BulkFailure{},
	}
	for i, item := range items {
		if item.err != nil {
			rec := req.Records[i]
			result.Failures = append(result.Failures, attendance.BulkFailure{
				Index:        i,
				EmployeeID:   rec.EmployeeID,
				DeviceUserID: rec.DeviceUserID,
				Date:         rec.Date,
				Error:        item.err.Error(),
			})
			continue
		}
		result.Successes = append(result.Successes, attendance.BulkSuccess{Index: i, Result: item.result})
	}
	result.SuccessfulRecords = len(result.Successes)
	result.FailedRecords = len(result.Failures)

	s.logger.Info("bulk punches processed",
		"total", result.TotalRecords,
		"successful", result.SuccessfulRecords,
		"failed", result.FailedRecords,
		"groups", len(order),
	)
	return result, nil
}
