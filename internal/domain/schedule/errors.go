package schedule

import "github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/apperror"

var (
	ErrShiftNotFound         = apperror.New(apperror.ErrNotFound, "shift not found")
	ErrRotatingTypeNotFound  = apperror.New(apperror.ErrNotFound, "rotating shift type not found")
	ErrNoActiveShiftAssigned = apperror.New(apperror.ErrNotFound, "no active shift assigned")
)
