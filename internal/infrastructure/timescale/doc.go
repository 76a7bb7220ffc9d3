// Package timescale provides the TimescaleDB connection layer for tsbridge.
//
// This package manages:
//   - A pgx connection pool shared across persistence calls
//   - Schema bootstrap via embedded SQL migrations (hypertables)
//   - Connection health checks
//
// The schema itself lives in the migrations directory at the repository
// root; each telemetry table is converted to a hypertable partitioned on
// its timestamp column. Row identity is (timestamp, id) with id assigned
// by the database.
package timescale
