package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/graceperiod"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type gracePeriodRepository struct {
	db *database.DB
}

func NewGracePeriodRepository(db *database.DB) graceperiod.GracePeriodRepository {
	return &gracePeriodRepository{db: db}
}

const gracePeriodColumns = `id, company_id, grace_period_minutes, is_active, created_at, updated_at`

func scanGracePeriod(row pgx.Row) (graceperiod.CompanyGracePeriod, error) {
	var gp graceperiod.CompanyGracePeriod
	err := row.Scan(&gp.ID, &gp.CompanyID, &gp.GracePeriodMinutes, &gp.IsActive, &gp.CreatedAt, &gp.UpdatedAt)
	return gp, err
}

// GetActive implements graceperiod.GracePeriodRepository.
func (r *gracePeriodRepository) GetActive(ctx context.Context, companyID string) (*graceperiod.CompanyGracePeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + gracePeriodColumns + ` FROM company_grace_periods WHERE company_id = $1 AND is_active`

	gp, err := scanGracePeriod(q.QueryRow(ctx, query, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active grace period: %w", err)
	}
	return &gp, nil
}

// DeactivateAll implements graceperiod.GracePeriodRepository.
func (r *gracePeriodRepository) DeactivateAll(ctx context.Context, companyID string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		UPDATE company_grace_periods SET is_active = FALSE, updated_at = NOW()
		WHERE company_id = $1 AND is_active
	`, companyID)
	if err != nil {
		return fmt.Errorf("failed to deactivate grace periods: %w", err)
	}
	return nil
}

// Create implements graceperiod.GracePeriodRepository.
func (r *gracePeriodRepository) Create(ctx context.Context, gp graceperiod.CompanyGracePeriod) (graceperiod.CompanyGracePeriod, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return graceperiod.CompanyGracePeriod{}, err
	}

	query := `
		INSERT INTO company_grace_periods (id, company_id, grace_period_minutes, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + gracePeriodColumns

	created, err := scanGracePeriod(q.QueryRow(ctx, query, id, gp.CompanyID, gp.GracePeriodMinutes, gp.IsActive))
	if err != nil {
		return graceperiod.CompanyGracePeriod{}, fmt.Errorf("failed to create grace period: %w", err)
	}
	return created, nil
}

// List implements graceperiod.GracePeriodRepository. Newest first.
func (r *gracePeriodRepository) List(ctx context.Context, companyID string) ([]graceperiod.CompanyGracePeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + gracePeriodColumns + ` FROM company_grace_periods WHERE company_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grace periods: %w", err)
	}
	defer rows.Close()

	var out []graceperiod.CompanyGracePeriod
	for rows.Next() {
		gp, err := scanGracePeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan grace period: %w", err)
		}
		out = append(out, gp)
	}
	return out, rows.Err()
}
