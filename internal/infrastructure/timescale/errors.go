package timescale

import "errors"

// Domain-specific errors for TimescaleDB operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrInvalidURL is returned when the connection URL cannot be parsed.
	ErrInvalidURL = errors.New("timescale: invalid connection URL")

	// ErrConnectionFailed is returned when the initial connection fails.
	ErrConnectionFailed = errors.New("timescale: connection failed")

	// ErrNotConnected is returned when the database is unreachable.
	ErrNotConnected = errors.New("timescale: not connected")
)
