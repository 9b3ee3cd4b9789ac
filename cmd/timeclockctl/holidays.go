package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/app"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/ical"
	"github.com/spf13/cobra"
)

func newSyncHolidaysCmd() *cobra.Command {
	var (
		companyID string
		url       string
		file      string
	)

	cmd := &cobra.Command{
		Use:   "sync-holidays",
		Short: "Import an iCalendar holiday feed for a company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (url == "") == (file == "") {
				return fmt.Errorf("exactly one of --url or --file is required")
			}

			return withApp(cmd.Context(), func(ctx context.Context, a *app.App, logger *slog.Logger) error {
				var feed io.ReadCloser
				var err error
				if url != "" {
					feed, err = ical.Fetch(ctx, &http.Client{Timeout: 30 * time.Second}, url)
				} else {
					feed, err = os.Open(file)
				}
				if err != nil {
					return err
				}
				defer feed.Close()

				res, err := a.Services.Calendar.ImportICS(ctx, companyID, feed)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %d, updated %d, skipped %d\n", res.Created, res.Updated, res.Skipped)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "Company ID to import holidays into")
	cmd.Flags().StringVar(&url, "url", "", "Feed URL (http, https or webcal)")
	cmd.Flags().StringVar(&file, "file", "", "Path to a local .ics file")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}
