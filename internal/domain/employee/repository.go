package employee

import "context"

type EmployeeRepository interface {
	// GetByID returns ErrEmployeeNotFound when the employee is not in the company.
	GetByID(ctx context.Context, id, companyID string) (Employee, error)

	// GetByDeviceUserID resolves the id a time clock reports for the employee.
	GetByDeviceUserID(ctx context.Context, deviceUserID, companyID string) (Employee, error)
}
