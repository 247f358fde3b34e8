package types

import (
	"errors"
	"fmt"
)

// NotFoundError indicates a candidate or job reference could not be resolved.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ProviderError indicates an embedding or vector index call failed.
type ProviderError struct {
	Op    string
	Cause error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error during %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("provider error during %s", e.Op)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// ValidationError indicates a malformed requirement or request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// IsNotFound reports whether err wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsProvider reports whether err wraps a *ProviderError.
func IsProvider(err error) bool {
	var target *ProviderError
	return errors.As(err, &target)
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
