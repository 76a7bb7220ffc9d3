// Package influxdb provides InfluxDB connectivity for tsbridge.
//
// It wraps the official influxdb-client-go v2 library with tsbridge-specific
// patterns for connection management, telemetry writing, and health monitoring.
// It backs the "influxdb" database driver as an alternative to TimescaleDB.
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    URL:    "http://localhost:8086",
//	    Token:  "your-token",
//	    Org:    "tsbridge",
//	    Bucket: "telemetry",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Write classified sensor readings
//	client.WriteSensorMetric("esp32-001", "telemetry/esp32-001/temperature", 21.5, time.Now())
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are logged via a callback.
// Connection and health check errors are returned directly.
//
// # Performance
//
// Writes are batched according to config.toml settings (batch_size, flush_interval).
// This reduces network overhead for high-frequency telemetry data.
package influxdb
