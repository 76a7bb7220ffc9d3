// Package telemetry defines the classified record types and the pure
// classification logic at the heart of tsbridge.
//
// Devices publish telemetry in a handful of loosely agreed shapes:
// structured JSON with a single value, a sensors array, flat numeric
// fields, state/health snapshots, structured logs, or free-form text.
// Classify maps any inbound payload onto the closed Record union,
// always accompanied by a verbatim RawPayload for the audit trail.
//
// Everything in this package is side-effect free. Classification never
// performs I/O and never fails: malformed input degrades to a raw
// record plus, where sensible, a plain-text log.
//
// # Usage
//
//	res := telemetry.Classify(topic, payload, time.Now().UTC())
//	store(res.Raw)
//	for _, rec := range res.Derived {
//	    store(rec)
//	}
package telemetry
