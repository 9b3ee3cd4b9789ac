package graceperiod

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/graceperiod"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
)

type GracePeriodServiceImpl struct {
	tx     database.Transactor
	repo   graceperiod.GracePeriodRepository
	logger *slog.Logger
}

func NewGracePeriodService(tx database.Transactor, repo graceperiod.GracePeriodRepository, logger *slog.Logger) graceperiod.GracePeriodService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GracePeriodServiceImpl{
		tx:     tx,
		repo:   repo,
		logger: logger.With("component", "grace_period"),
	}
}

// Create implements graceperiod.GracePeriodService.
func (s *GracePeriodServiceImpl) Create(ctx context.Context, req graceperiod.CreateGracePeriodRequest) (graceperiod.GracePeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return graceperiod.GracePeriodResponse{}, err
	}

	var created graceperiod.CompanyGracePeriod
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.DeactivateAll(ctx, req.CompanyID); err != nil {
			return fmt.Errorf("failed to deactivate grace periods: %w", err)
		}
		var err error
		created, err = s.repo.Create(ctx, graceperiod.CompanyGracePeriod{
			CompanyID:          req.CompanyID,
			GracePeriodMinutes: req.Minutes(),
			IsActive:           true,
		})
		if err != nil {
			return fmt.Errorf("failed to create grace period: %w", err)
		}
		return nil
	})
	if err != nil {
		return graceperiod.GracePeriodResponse{}, err
	}

	s.logger.Info("grace period set", "company_id", req.CompanyID, "minutes", created.GracePeriodMinutes)
	return mapToResponse(created), nil
}

// GetActive implements graceperiod.GracePeriodService.
func (s *GracePeriodServiceImpl) GetActive(ctx context.Context, companyID string) (graceperiod.GracePeriodResponse, error) {
	gp, err := s.repo.GetActive(ctx, companyID)
	if err != nil {
		return graceperiod.GracePeriodResponse{}, fmt.Errorf("failed to get grace period: %w", err)
	}
	if gp == nil {
		return graceperiod.GracePeriodResponse{}, graceperiod.ErrNoActiveGracePeriod
	}
	return mapToResponse(*gp), nil
}

// List implements graceperiod.GracePeriodService.
func (s *GracePeriodServiceImpl) List(ctx context.Context, companyID string) ([]graceperiod.GracePeriodResponse, error) {
	gps, err := s.repo.List(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grace periods: %w", err)
	}
	out := make([]graceperiod.GracePeriodResponse, 0, len(gps))
	for _, gp := range gps {
		out = append(out, mapToResponse(gp))
	}
	return out, nil
}

func mapToResponse(gp graceperiod.CompanyGracePeriod) graceperiod.GracePeriodResponse {
	return graceperiod.GracePeriodResponse{
		ID:                 gp.ID,
		GracePeriodMinutes: gp.GracePeriodMinutes,
		IsActive:           gp.IsActive,
		CreatedAt:          gp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          gp.UpdatedAt.Format(time.RFC3339),
	}
}
