package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nerrad567/tsbridge/internal/infrastructure/influxdb"
	"github.com/nerrad567/tsbridge/internal/telemetry"
)

// InfluxRepository persists telemetry records to InfluxDB v2.
//
// Tables map to measurements; identity columns (device_id, topic,
// level) become tags and data columns become fields. Writes go through
// the client's batched non-blocking API, so Save methods report enqueue
// success only; delivery failures surface through the client's async
// error callback.
type InfluxRepository struct {
	client *influxdb.Client
}

// NewInfluxRepository wraps a connected InfluxDB client.
func NewInfluxRepository(client *influxdb.Client) *InfluxRepository {
	return &InfluxRepository{client: client}
}

func (r *InfluxRepository) SaveSensorReading(_ context.Context, reading telemetry.SensorReading) error {
	if !r.client.IsConnected() {
		return fmt.Errorf("%w: sensor_readings", ErrNotConnected)
	}

	r.client.WriteSensorMetric(reading.DeviceID, reading.Topic, reading.Value, reading.Timestamp)
	return nil
}

func (r *InfluxRepository) SaveDeviceLog(_ context.Context, l telemetry.DeviceLog) error {
	if !r.client.IsConnected() {
		return fmt.Errorf("%w: device_logs", ErrNotConnected)
	}

	r.client.WritePointWithTime(
		"device_logs",
		map[string]string{
			"device_id": l.DeviceID,
			"topic":     l.Topic,
			"level":     string(l.Level),
		},
		map[string]interface{}{
			"message": l.Message,
		},
		l.Timestamp,
	)
	return nil
}

func (r *InfluxRepository) SaveRawPayload(_ context.Context, p telemetry.RawPayload) error {
	if !r.client.IsConnected() {
		return fmt.Errorf("%w: socket_reads", ErrNotConnected)
	}

	r.client.WritePointWithTime(
		"socket_reads",
		map[string]string{
			"topic": p.Topic,
		},
		map[string]interface{}{
			"payload": p.Payload,
		},
		p.Timestamp,
	)
	return nil
}

func (r *InfluxRepository) SaveDeviceState(_ context.Context, s telemetry.DeviceState) error {
	if !r.client.IsConnected() {
		return fmt.Errorf("%w: device_states", ErrNotConnected)
	}

	fields := map[string]interface{}{}
	if s.MainState != nil {
		fields["main_state"] = *s.MainState
	}
	if s.SecondaryState != nil {
		fields["secondary_state"] = *s.SecondaryState
	}
	if s.RSSI != nil {
		fields["rssi"] = *s.RSSI
	}
	if len(s.Alerts) > 0 {
		alerts, err := json.Marshal(s.Alerts)
		if err != nil {
			return fmt.Errorf("%w: device_states: encoding alerts: %w", ErrWriteFailed, err)
		}
		fields["alerts"] = string(alerts)
	}
	if len(fields) == 0 {
		// Influx rejects field-less points.
		fields["present"] = true
	}

	r.client.WritePointWithTime(
		"device_states",
		map[string]string{
			"device_id": s.DeviceID,
			"topic":     s.Topic,
		},
		fields,
		s.Timestamp,
	)
	return nil
}

func (r *InfluxRepository) SaveDeviceHealth(_ context.Context, h telemetry.DeviceHealth) error {
	if !r.client.IsConnected() {
		return fmt.Errorf("%w: device_health", ErrNotConnected)
	}

	fields := map[string]interface{}{}
	if h.WiFiSSID != nil {
		fields["wifi_ssid"] = *h.WiFiSSID
	}
	if h.FreeHeapSize != nil {
		fields["free_heap_size"] = *h.FreeHeapSize
	}
	if h.MinHeapSize != nil {
		fields["min_heap_size"] = *h.MinHeapSize
	}
	if h.UnexpectedResetCounter != nil {
		fields["unexpected_reset_counter"] = *h.UnexpectedResetCounter
	}
	if h.LastResetReason != nil {
		fields["last_reset_reason"] = *h.LastResetReason
	}
	if h.WiFiConnectCounter != nil {
		fields["wifi_connect_counter"] = *h.WiFiConnectCounter
	}
	if h.CloudConnectCounter != nil {
		fields["cloud_connect_counter"] = *h.CloudConnectCounter
	}
	if h.LastWiFiConnectionTS != nil {
		fields["last_wifi_connection_ts"] = *h.LastWiFiConnectionTS
	}
	if h.LastCloudConnectionTS != nil {
		fields["last_cloud_connection_ts"] = *h.LastCloudConnectionTS
	}
	if len(fields) == 0 {
		fields["present"] = true
	}

	r.client.WritePointWithTime(
		"device_health",
		map[string]string{
			"device_id": h.DeviceID,
			"topic":     h.Topic,
		},
		fields,
		h.Timestamp,
	)
	return nil
}

func (r *InfluxRepository) Ping(ctx context.Context) error {
	return r.client.HealthCheck(ctx)
}

func (r *InfluxRepository) Close() error {
	return r.client.Close()
}
