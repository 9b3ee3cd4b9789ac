package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/app"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/punchfile"
	"github.com/spf13/cobra"
)

func newImportPunchesCmd() *cobra.Command {
	var (
		companyID string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "import-punches FILE",
		Short: "Classify punches from a JSON, CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f := punchfile.Format(format)
			if f == "" {
				var err error
				if f, err = punchfile.FormatFromPath(path); err != nil {
					return err
				}
			}

			file, err := os.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()

			records, err := punchfile.Read(file, f)
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), func(ctx context.Context, a *app.App, logger *slog.Logger) error {
				res, err := importPunches(ctx, a.Services.Attendance, companyID, records, a.Config.Engine.BulkMaxRecords)
				if err != nil {
					return err
				}
				logger.Info("Punch import finished",
					"file", path,
					"total", res.TotalRecords,
					"successful", res.SuccessfulRecords,
					"failed", res.FailedRecords,
				)

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			})
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "Company ID the punches belong to")
	cmd.Flags().StringVar(&format, "format", "", "File format: json, csv or xlsx (default from extension)")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}

// importPunches feeds records to the bulk classifier in chunks of at most
// maxPerRequest and merges the results, keeping indexes relative to the file.
func importPunches(ctx context.Context, svc attendance.AttendanceService, companyID string, records []attendance.PunchRequest, maxPerRequest int) (attendance.BulkPunchResult, error) {
	total := attendance.BulkPunchResult{
		Successes: []attendance.BulkSuccess{},
		Failures:  []attendance.BulkFailure{},
	}
	if maxPerRequest <= 0 {
		maxPerRequest = len(records)
	}

	for start := 0; start < len(records); start += maxPerRequest {
		end := min(start+maxPerRequest, len(records))
		res, err := svc.BulkClassifyAndRecordPunches(ctx, attendance.BulkPunchRequest{
			CompanyID: companyID,
			Records:   records[start:end],
		})
		if err != nil {
			return total, fmt.Errorf("records %d-%d: %w", start, end-1, err)
		}

		total.TotalRecords += res.TotalRecords
		total.SuccessfulRecords += res.SuccessfulRecords
		total.FailedRecords += res.FailedRecords
		for _, s := range res.Successes {
			s.Index += start
			total.Successes = append(total.Successes, s)
		}
		for _, f := range res.Failures {
			f.Index += start
			total.Failures = append(total.Failures, f)
		}
	}
	return total, nil
}
