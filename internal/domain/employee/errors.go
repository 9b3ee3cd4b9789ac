package employee

import "github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/apperror"

var (
	ErrEmployeeNotFound = apperror.New(apperror.ErrNotFound, "employee not found")
)
