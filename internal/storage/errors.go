package storage

import "errors"

// Domain-specific errors for storage operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrWriteFailed is returned when a storage write fails. The wrapped
	// error carries transport or constraint detail from the backend.
	ErrWriteFailed = errors.New("storage: write failed")

	// ErrNotConnected is returned when the backing store is unreachable.
	ErrNotConnected = errors.New("storage: not connected")

	// ErrUnknownRecord is returned by Save for a record variant with no
	// matching table. Indicates a programming error, not bad input.
	ErrUnknownRecord = errors.New("storage: unknown record type")

	// ErrUnknownDriver is returned when the configured database driver
	// is not one of the supported backends.
	ErrUnknownDriver = errors.New("storage: unknown driver")
)
