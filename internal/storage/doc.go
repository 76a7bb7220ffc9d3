// Package storage persists classified telemetry records.
//
// The Repository interface is the persistence contract: one save method
// per record variant, plus Ping and Close. Two implementations exist:
//
//   - TimescaleRepository writes to TimescaleDB hypertables through a
//     pgx connection pool. This is the default driver.
//   - InfluxRepository writes to InfluxDB v2 measurements through the
//     batched non-blocking write API.
//
// Save dispatches a telemetry.Record union value to the matching
// repository method, so the pipeline never switches on record types
// itself.
//
// Writes are independent per record. A failed write is reported to the
// caller and the record dropped; sibling records from the same inbound
// message are unaffected.
package storage
