package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses by their apperror kind.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, apperror.ErrValidation):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, apperror.ErrNotFound):
		Fail(w, http.StatusNotFound, CodeNotFound, err.Error(), nil)
	case errors.Is(err, apperror.ErrConflict):
		Fail(w, http.StatusConflict, CodeConflict, err.Error(), nil)
	case errors.Is(err, apperror.ErrInvariantViolation):
		slog.Error("Invariant violated", "error", err)
		Fail(w, http.StatusInternalServerError, CodeInternal, "An unexpected error occurred", nil)
	default:
		slog.Error("Unhandled error", "error", err)
		Fail(w, http.StatusInternalServerError, CodeInternal, "An unexpected error occurred", nil)
	}
}
