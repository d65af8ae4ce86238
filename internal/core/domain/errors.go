package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates a caller supplied bad input (k <= 0, empty query).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrParseFailure indicates model output could not be parsed into clauses.
	// It is recovered locally and never surfaced to callers.
	ErrParseFailure = errors.New("clause output unparseable")

	// ErrCapabilityUnavailable indicates a text-generation or embedding
	// capability is missing, unreachable or failed.
	ErrCapabilityUnavailable = errors.New("capability unavailable")

	// ErrMissingAPIKey indicates a provider that needs a credential has none.
	ErrMissingAPIKey = errors.New("API key is required")

	// ErrDimensionMismatch indicates an embedding length disagrees with the
	// index configuration. It is a fatal configuration error.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrIndexNotBuilt indicates a search was requested before any build.
	ErrIndexNotBuilt = errors.New("vector index not built")

	// ErrEmptyIndex indicates an index build was requested with no records.
	ErrEmptyIndex = errors.New("cannot build index from zero records")
)

// DimensionError reports the expected and actual vector length.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: want %d, got %d", ErrDimensionMismatch, e.Want, e.Got)
}

// Unwrap allows errors.Is(err, ErrDimensionMismatch).
func (e *DimensionError) Unwrap() error {
	return ErrDimensionMismatch
}

// CapabilityError is a failure of an external capability call.
// Item is the failing input position for batch calls, or -1 for the whole call.
type CapabilityError struct {
	Capability string
	Op         string
	Item       int
	Err        error
}

func (e *CapabilityError) Error() string {
	if e.Item >= 0 {
		return fmt.Sprintf("%s %s: item %d: %v", e.Capability, e.Op, e.Item, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Capability, e.Op, e.Err)
}

// Unwrap returns both the sentinel and the cause so either can be matched.
func (e *CapabilityError) Unwrap() []error {
	return []error{ErrCapabilityUnavailable, e.Err}
}

// NewDimensionError returns a DimensionError for the given lengths.
func NewDimensionError(want, got int) error {
	return &DimensionError{Want: want, Got: got}
}

// InvalidArgument wraps ErrInvalidArgument with a description.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
