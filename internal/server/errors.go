package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/fit-scorer/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var reqErr *ErrValidation
	switch {
	case errors.As(err, &reqErr), types.IsValidation(err):
		return http.StatusBadRequest
	case types.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case types.IsProvider(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
