package storage

import (
	"context"
	"fmt"

	"github.com/nerrad567/tsbridge/internal/telemetry"
)

// Repository is the persistence contract for classified telemetry.
//
// One save method per record variant; each call is an independent write.
// Records derived from the same inbound message are deliberately not
// written transactionally: a failed sensor reading must not roll back
// the raw audit record or its siblings.
//
// Implementations must be safe for concurrent use.
type Repository interface {
	SaveSensorReading(ctx context.Context, r telemetry.SensorReading) error
	SaveDeviceLog(ctx context.Context, l telemetry.DeviceLog) error
	SaveRawPayload(ctx context.Context, p telemetry.RawPayload) error
	SaveDeviceState(ctx context.Context, s telemetry.DeviceState) error
	SaveDeviceHealth(ctx context.Context, h telemetry.DeviceHealth) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connections, flushing pending writes.
	Close() error
}

// Save dispatches a record to the matching Repository method.
//
// The type switch is exhaustive over the telemetry.Record union; an
// unknown variant indicates a programming error and is reported as one.
func Save(ctx context.Context, repo Repository, rec telemetry.Record) error {
	switch r := rec.(type) {
	case telemetry.SensorReading:
		return repo.SaveSensorReading(ctx, r)
	case telemetry.DeviceLog:
		return repo.SaveDeviceLog(ctx, r)
	case telemetry.RawPayload:
		return repo.SaveRawPayload(ctx, r)
	case telemetry.DeviceState:
		return repo.SaveDeviceState(ctx, r)
	case telemetry.DeviceHealth:
		return repo.SaveDeviceHealth(ctx, r)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownRecord, rec)
	}
}
