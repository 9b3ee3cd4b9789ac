package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `id, company_id, device_user_id, full_name, timezone, created_at, updated_at`

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id, companyID string) (employee.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 AND company_id = $2`
	return r.getOne(ctx, query, id, companyID)
}

// GetByDeviceUserID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByDeviceUserID(ctx context.Context, deviceUserID, companyID string) (employee.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE device_user_id = $1 AND company_id = $2`
	return r.getOne(ctx, query, deviceUserID, companyID)
}

func (r *employeeRepository) getOne(ctx context.Context, query string, args ...any) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	var e employee.Employee
	err := q.QueryRow(ctx, query, args...).Scan(
		&e.ID, &e.CompanyID, &e.DeviceUserID, &e.FullName, &e.Timezone, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}
