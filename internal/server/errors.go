package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/coach-report/internal/pipeline"
	"github.com/jonathan/coach-report/internal/schemas"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNoStore is returned by endpoints that need report storage when none is configured.
var ErrNoStore = errors.New("report storage is not configured")

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		schemaErr     *schemas.ValidationError
		inputErr      *pipeline.InputError
		serErr        *pipeline.SerializationError
		layoutErr     *pipeline.LayoutError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &schemaErr), errors.As(err, &inputErr):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrNothingToGenerate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, pipeline.ErrGenerationInFlight):
		return http.StatusConflict
	case errors.Is(err, ErrNoStore):
		return http.StatusServiceUnavailable
	case errors.As(err, &serErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &layoutErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
