package overtime

import "github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/apperror"

var (
	ErrOvertimeNotFound        = apperror.New(apperror.ErrNotFound, "overtime record not found")
	ErrOvertimeExists          = apperror.New(apperror.ErrConflict, "overtime record of this type already exists for the date")
	ErrInvalidStatusTransition = apperror.New(apperror.ErrConflict, "overtime status transition not allowed")
	ErrOvertimeStillOpen       = apperror.New(apperror.ErrConflict, "overtime record has no punch out yet")
	ErrOvertimeClosed          = apperror.New(apperror.ErrConflict, "overtime record already has a punch out")
	ErrOvertimePaid            = apperror.New(apperror.ErrConflict, "paid overtime record cannot be edited")
)
