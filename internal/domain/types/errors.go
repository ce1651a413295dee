package types

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Error categories. Concrete errors wrap one of these so callers can map them with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("requested item not found")
	ErrStorage    = errors.New("storage unavailable")
	ErrDelivery   = errors.New("delivery failed")
	ErrProtocol   = errors.New("malformed message")
)

var (
	ErrBusNotFound   = fmt.Errorf("bus %w", ErrNotFound)
	ErrRouteNotFound = fmt.Errorf("route %w", ErrNotFound)

	ErrInvalidID = fmt.Errorf("%w: invalid id", ErrValidation)
)

// ValidationError carries field level messages keyed by the JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
