package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteSensorMetric writes a single sensor measurement.
//
// This is the primary method for recording classified sensor readings.
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - deviceID: Unique identifier for the device (e.g., "esp32-001")
//   - topic: The topic the reading arrived on, which names the measurand
//   - value: The numeric value to record
//   - timestamp: The reading's timestamp (payload time or receipt time)
//
// Example:
//
//	client.WriteSensorMetric("esp32-001", "telemetry/esp32-001/temperature", 21.5, t)
func (c *Client) WriteSensorMetric(deviceID string, topic string, value float64, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"sensor_readings",
		map[string]string{
			"device_id": deviceID,
			"topic":     topic,
		},
		map[string]interface{}{
			"value": value,
		},
		timestamp,
	)

	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with full control over tags,
// fields, and timestamp.
//
// Use this for measurements that don't fit the helper methods. Records
// always carry their own timestamp (payload time or receipt time), so
// there is no "now" variant.
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
