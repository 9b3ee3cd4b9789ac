package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/app"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/config"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "timeclockctl",
		Short:         "Time clock maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMigrateCmd(),
		newImportPunchesCmd(),
		newSyncHolidaysCmd(),
		newExportOvertimeCmd(),
		newTokenCmd(),
	)
	return root
}

// withApp loads configuration, connects and hands fn the wired services.
func withApp(ctx context.Context, fn func(ctx context.Context, a *app.App, logger *slog.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer a.Close()

	return fn(ctx, a, logger)
}
