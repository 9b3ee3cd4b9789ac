package attendance

import "github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/apperror"

var (
	// Punch state errors
	ErrAlreadyPunchedIn     = apperror.New(apperror.ErrConflict, "already punched in for this date")
	ErrAlreadyPunchedOut    = apperror.New(apperror.ErrConflict, "already punched out for this date")
	ErrMustPunchInFirst     = apperror.New(apperror.ErrConflict, "must punch in before punching out")
	ErrSessionCompleted     = apperror.New(apperror.ErrConflict, "attendance for this date is already complete")
	ErrManualPunchOnSession = apperror.New(apperror.ErrConflict, "manual punch in and out requires a date without attendance")

	// Holiday and rest day work
	ErrHolidayWorkCompleted = apperror.New(apperror.ErrConflict, "holiday work already completed for this date")
	ErrRestDayWorkCompleted = apperror.New(apperror.ErrConflict, "rest day work already completed for this date")

	// Input errors
	ErrPunchOutBeforePunchIn = apperror.New(apperror.ErrValidation, "punch out must be after punch in")
	ErrTooManyRecords        = apperror.New(apperror.ErrValidation, "too many attendance records in one batch")

	ErrWorkSessionNotFound = apperror.New(apperror.ErrNotFound, "work session not found")
	ErrWorkSessionExists   = apperror.New(apperror.ErrConflict, "work session already exists for this date")
)
