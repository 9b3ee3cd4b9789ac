package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	notFound := apperror.New(apperror.ErrNotFound, "work session not found")

	tests := []struct {
		name     string
		err      error
		status   int
		code     string
		message  string
		hasField string
	}{
		{
			name:     "field errors",
			err:      validator.ValidationErrors{{Field: "date", Message: "date is required"}},
			status:   http.StatusUnprocessableEntity,
			code:     "VALIDATION_ERROR",
			message:  "Validation failed",
			hasField: "date",
		},
		{
			name:    "validation kind",
			err:     apperror.New(apperror.ErrValidation, "punch out must be after punch in"),
			status:  http.StatusBadRequest,
			code:    "BAD_REQUEST",
			message: "punch out must be after punch in",
		},
		{
			name:    "wrapped not found",
			err:     fmt.Errorf("get: %w", notFound),
			status:  http.StatusNotFound,
			code:    "NOT_FOUND",
			message: "get: work session not found",
		},
		{
			name:    "conflict",
			err:     apperror.New(apperror.ErrConflict, "already punched in for this date"),
			status:  http.StatusConflict,
			code:    "CONFLICT",
			message: "already punched in for this date",
		},
		{
			name:    "invariant",
			err:     apperror.Invariant("duration %d is negative", -5),
			status:  http.StatusInternalServerError,
			code:    "INTERNAL_SERVER_ERROR",
			message: "An unexpected error occurred",
		},
		{
			name:    "unknown",
			err:     errors.New("connection reset"),
			status:  http.StatusInternalServerError,
			code:    "INTERNAL_SERVER_ERROR",
			message: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)

			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.message, body.Error.Message)
			if tt.hasField != "" {
				assert.Contains(t, body.Error.Details, tt.hasField)
			}
		})
	}
}
