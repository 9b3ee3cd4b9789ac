package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/app"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/overtime"
	"github.com/spf13/cobra"
)

func newExportOvertimeCmd() *cobra.Command {
	var (
		companyID string
		output    string
		filter    overtime.OvertimeFilter
		employee  string
		status    string
		otType    string
		startDate string
		endDate   string
	)

	cmd := &cobra.Command{
		Use:   "export-overtime",
		Short: "Write overtime records to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.EmployeeID = nonEmpty(employee)
			filter.Status = nonEmpty(status)
			filter.Type = nonEmpty(otType)
			filter.StartDate = nonEmpty(startDate)
			filter.EndDate = nonEmpty(endDate)

			return withApp(cmd.Context(), func(ctx context.Context, a *app.App, logger *slog.Logger) error {
				buf, filename, err := a.Services.Overtime.Export(ctx, companyID, filter)
				if err != nil {
					return err
				}
				if output == "" {
					output = filename
				}
				if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "Company ID to export")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default is the generated file name)")
	cmd.Flags().StringVar(&employee, "employee", "", "Only this employee")
	cmd.Flags().StringVar(&status, "status", "", "Only this status")
	cmd.Flags().StringVar(&otType, "type", "", "Only this overtime type")
	cmd.Flags().StringVar(&startDate, "from", "", "First work date, YYYY-MM-DD")
	cmd.Flags().StringVar(&endDate, "to", "", "Last work date, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
