package response

import (
	"errors"
	"net/http"

	"github.com/sowaboubacar/bearh-sub003/internal/domain/attendance"
	"github.com/sowaboubacar/bearh-sub003/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Attendance domain errors
	switch {
	case errors.Is(err, attendance.ErrInvalidEntryType):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrConcurrentUpdate):
		Conflict(w, "Attendance record was updated concurrently, please retry")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
