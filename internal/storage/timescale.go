package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nerrad567/tsbridge/internal/infrastructure/timescale"
	"github.com/nerrad567/tsbridge/internal/telemetry"
)

// TimescaleRepository persists telemetry records to TimescaleDB.
//
// Each record maps to one INSERT against its hypertable; the id column
// is assigned by the database. Writes share the connection pool and are
// independent of each other.
type TimescaleRepository struct {
	client *timescale.Client
}

// NewTimescaleRepository creates a repository over an established
// TimescaleDB connection.
func NewTimescaleRepository(client *timescale.Client) *TimescaleRepository {
	return &TimescaleRepository{client: client}
}

// SaveSensorReading inserts one reading into sensor_readings.
func (r *TimescaleRepository) SaveSensorReading(ctx context.Context, rec telemetry.SensorReading) error {
	_, err := r.client.Pool().Exec(ctx, `
		INSERT INTO sensor_readings (timestamp, device_id, topic, value)
		VALUES ($1, $2, $3, $4)
	`, rec.Timestamp, rec.DeviceID, rec.Topic, rec.Value)
	if err != nil {
		return fmt.Errorf("%w: sensor_readings: %w", ErrWriteFailed, err)
	}
	return nil
}

// SaveDeviceLog inserts one log line into device_logs.
func (r *TimescaleRepository) SaveDeviceLog(ctx context.Context, rec telemetry.DeviceLog) error {
	_, err := r.client.Pool().Exec(ctx, `
		INSERT INTO device_logs (timestamp, device_id, level, message, topic)
		VALUES ($1, $2, $3, $4, $5)
	`, rec.Timestamp, rec.DeviceID, string(rec.Level), rec.Message, rec.Topic)
	if err != nil {
		return fmt.Errorf("%w: device_logs: %w", ErrWriteFailed, err)
	}
	return nil
}

// SaveRawPayload inserts the verbatim audit copy into socket_reads.
func (r *TimescaleRepository) SaveRawPayload(ctx context.Context, rec telemetry.RawPayload) error {
	_, err := r.client.Pool().Exec(ctx, `
		INSERT INTO socket_reads (timestamp, topic, payload)
		VALUES ($1, $2, $3)
	`, rec.Timestamp, rec.Topic, rec.Payload)
	if err != nil {
		return fmt.Errorf("%w: socket_reads: %w", ErrWriteFailed, err)
	}
	return nil
}

// SaveDeviceState inserts one state snapshot into device_states.
// Alerts are stored as JSONB; absent optional fields become NULL.
func (r *TimescaleRepository) SaveDeviceState(ctx context.Context, rec telemetry.DeviceState) error {
	var alerts any
	if rec.Alerts != nil {
		encoded, err := json.Marshal(rec.Alerts)
		if err != nil {
			return fmt.Errorf("%w: device_states: encoding alerts: %w", ErrWriteFailed, err)
		}
		alerts = string(encoded)
	}

	_, err := r.client.Pool().Exec(ctx, `
		INSERT INTO device_states (timestamp, device_id, topic, main_state, secondary_state, alerts, rssi)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7)
	`, rec.Timestamp, rec.DeviceID, rec.Topic, rec.MainState, rec.SecondaryState, alerts, rec.RSSI)
	if err != nil {
		return fmt.Errorf("%w: device_states: %w", ErrWriteFailed, err)
	}
	return nil
}

// SaveDeviceHealth inserts one diagnostics snapshot into device_health.
func (r *TimescaleRepository) SaveDeviceHealth(ctx context.Context, rec telemetry.DeviceHealth) error {
	_, err := r.client.Pool().Exec(ctx, `
		INSERT INTO device_health (
			timestamp, device_id, topic, wifi_ssid, free_heap_size, min_heap_size,
			unexpected_reset_counter, last_reset_reason, wifi_connect_counter,
			cloud_connect_counter, last_wifi_connection_ts, last_cloud_connection_ts
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, rec.Timestamp, rec.DeviceID, rec.Topic, rec.WiFiSSID, rec.FreeHeapSize, rec.MinHeapSize,
		rec.UnexpectedResetCounter, rec.LastResetReason, rec.WiFiConnectCounter,
		rec.CloudConnectCounter, rec.LastWiFiConnectionTS, rec.LastCloudConnectionTS)
	if err != nil {
		return fmt.Errorf("%w: device_health: %w", ErrWriteFailed, err)
	}
	return nil
}

// Ping verifies the database is reachable.
func (r *TimescaleRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

// Close releases the underlying connection pool.
func (r *TimescaleRepository) Close() error {
	r.client.Close()
	return nil
}
