package store

import "errors"

// Error kinds surfaced to the request layer. Handlers translate these
// with errors.Is; everything else is treated as an internal error.
var (
	// ErrNotFound means a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicatePlate means the unique plate constraint was violated.
	ErrDuplicatePlate = errors.New("plate already registered")

	// ErrValidation means the input was malformed or out of range,
	// e.g. a decreasing odometer reading.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidToken is returned uniformly for absent, consumed and
	// malformed submission tokens so callers cannot probe which tokens
	// exist.
	ErrInvalidToken = errors.New("invalid submission token")

	// ErrConflict means an optimistic version check on the vehicle row
	// failed. The operation left no partial state and may be retried.
	ErrConflict = errors.New("concurrent modification")
)
