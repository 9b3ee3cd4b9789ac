package calendar

import "github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/apperror"

var (
	ErrHolidayNotFound = apperror.New(apperror.ErrNotFound, "holiday not found")
	ErrHolidayExists   = apperror.New(apperror.ErrConflict, "a holiday already exists on this date")
	ErrInvalidCalendar = apperror.New(apperror.ErrValidation, "calendar file could not be parsed")
	ErrEmptyCalendar   = apperror.New(apperror.ErrValidation, "calendar file contains no all-day events")
)
