package pipeline

import "errors"

// ErrShuttingDown indicates the pipeline is draining and no longer
// accepts messages.
var ErrShuttingDown = errors.New("pipeline: shutting down")
