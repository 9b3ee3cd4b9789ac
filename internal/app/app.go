// Package app wires repositories and services on top of PostgreSQL for the
// api server and the timeclockctl command.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/config"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/graceperiod"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/attendance"
	calendarService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/calendar"
	gracePeriodService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/graceperiod"
	overtimeService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/overtime"
	"github.com/go-chi/httplog/v3"
)

type Services struct {
	Attendance  attendance.AttendanceService
	Overtime    overtime.OvertimeService
	Calendar    calendar.CalendarService
	GracePeriod graceperiod.GracePeriodService
}

type App struct {
	Config   *config.Config
	DB       *database.DB
	Services Services

	closers []func() error
}

// NewLogger builds the JSON logger shared by the server and the request log.
func NewLogger(cfg *config.Config) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timeclock"),
		slog.String("env", cfg.App.Env),
	)
}

// New connects to the database, optionally migrates it and builds every service.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	dsn := cfg.DatabaseURL()

	if cfg.App.AutoMigrate {
		if err := database.Migrate(dsn); err != nil {
			return nil, err
		}
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a := &App{Config: cfg, DB: db}
	a.closers = append(a.closers, func() error { db.Close(); return nil })

	var publisher events.Publisher = events.Nop{}
	if cfg.RabbitMQ.DSN != "" {
		rmq, err := events.NewRabbitMQPublisher(cfg.RabbitMQ.DSN, cfg.RabbitMQ.Queue, cfg.RabbitMQ.PublishTimeout)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		publisher = rmq
		a.closers = append(a.closers, rmq.Close)
	} else {
		logger.Info("RabbitMQ not configured, overtime events are dropped")
	}

	transactor := postgresql.NewTransactor(db)
	overtimeRepo := postgresql.NewOvertimeRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	gracePeriodRepo := postgresql.NewGracePeriodRepository(db)

	a.Services = Services{
		Attendance: attendanceService.NewAttendanceService(
			transactor,
			attendanceService.Repositories{
				Sessions:     postgresql.NewWorkSessionRepository(db),
				Overtime:     overtimeRepo,
				Employees:    employeeRepo,
				Shifts:       postgresql.NewShiftRepository(db),
				Holidays:     holidayRepo,
				GracePeriods: gracePeriodRepo,
			},
			publisher,
			logger,
			attendanceService.Options{
				BulkBatchSize:           cfg.Engine.BulkBatchSize,
				BulkMaxRecords:          cfg.Engine.BulkMaxRecords,
				RotatingOffDayAsRestDay: cfg.Engine.RotatingOffDayAsRestDay,
				RotatingPenalties:       cfg.Engine.RotatingPenalties,
				DefaultLocation:         cfg.DefaultLocation(),
			},
		),
		Overtime:    overtimeService.NewOvertimeService(transactor, overtimeRepo, employeeRepo, publisher, logger, cfg.DefaultLocation()),
		Calendar:    calendarService.NewCalendarService(transactor, holidayRepo, logger),
		GracePeriod: gracePeriodService.NewGracePeriodService(transactor, gracePeriodRepo, logger),
	}

	return a, nil
}

// Close releases the broker connection and the pool, newest first.
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
