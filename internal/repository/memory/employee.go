package memory

import (
	"context"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
)

type employeeRepo struct {
	s *Store
}

func (r employeeRepo) GetByID(_ context.Context, id, companyID string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.employees[id]
	if !ok || e.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r employeeRepo) GetByDeviceUserID(_ context.Context, deviceUserID, companyID string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, e := range r.s.employees {
		if e.CompanyID == companyID && e.DeviceUserID == deviceUserID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}
