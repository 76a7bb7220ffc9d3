package telemetry

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Result is the outcome of classifying one inbound message.
//
// Raw is always populated with a verbatim copy of the payload; it is the
// unconditional audit trail. Derived holds zero or more typed records
// extracted from the same payload.
type Result struct {
	Raw     RawPayload
	Derived []Record
}

// reservedKeys are identity/time fields that never become sensor
// readings in the flat-format fallback.
var reservedKeys = map[string]struct{}{
	"device_id": {},
	"deviceId":  {},
	"device":    {},
	"timestamp": {},
	"ts":        {},
}

// Classify inspects a message payload and produces typed records.
//
// It is a pure function: no I/O, no mutable state, deterministic for a
// fixed (topic, payload, receivedAt) triple. Branches are evaluated in
// strict precedence order and short-circuit; only the first matching
// shape fires per message:
//
//  1. device state snapshot (main_state/secondary_state/alerts/rssi)
//  2. structured log (level/severity or message/msg/text)
//  3. single sensor value ("value")
//  4. sensors array ("sensors": [{name, value}, ...])
//  5. flat numeric fields, one reading per key
//
// Payloads that do not parse as a JSON object take the plain-text path
// and produce a single log record with a keyword-inferred level.
func Classify(topic string, payload []byte, receivedAt time.Time) Result {
	text := string(payload)

	res := Result{
		Raw: RawPayload{
			Topic:     topic,
			Payload:   text,
			Timestamp: receivedAt,
		},
	}

	var obj map[string]any
	if err := json.Unmarshal(payload, &obj); err != nil || obj == nil {
		res.Derived = append(res.Derived, plainTextLog(topic, text, receivedAt))
		return res
	}

	deviceID := extractDeviceID(topic, obj)
	ts := extractTimestamp(obj, receivedAt)

	switch {
	case hasAnyKey(obj, "main_state", "secondary_state", "alerts", "rssi"):
		state, health := extractState(topic, obj, deviceID, ts)
		res.Derived = append(res.Derived, state)
		if health != nil {
			res.Derived = append(res.Derived, *health)
		}

	case hasAnyKey(obj, "level", "severity", "message", "msg", "text"):
		res.Derived = append(res.Derived, jsonLog(topic, obj, deviceID, text, ts))

	case isNumber(obj["value"]):
		v, _ := asFloat(obj["value"])
		res.Derived = append(res.Derived, SensorReading{
			DeviceID:  deviceID,
			Topic:     topic,
			Value:     v,
			Timestamp: ts,
		})

	case hasAnyKey(obj, "sensors"):
		res.Derived = append(res.Derived, sensorArray(topic, obj, deviceID, ts)...)

	default:
		res.Derived = append(res.Derived, flatReadings(topic, obj, deviceID, ts)...)
	}

	return res
}

// plainTextLog builds the log record for non-JSON payloads.
func plainTextLog(topic, text string, receivedAt time.Time) DeviceLog {
	return DeviceLog{
		DeviceID:  deviceIDFromTopic(topic),
		Topic:     topic,
		Level:     inferLevel(text, topic),
		Message:   text,
		Timestamp: receivedAt,
	}
}

// inferLevel scans the payload text first, then the topic, for level
// keywords in severity order: ERROR, WARN, INFO, DEBUG. First match
// wins; unmatched input defaults to INFO.
func inferLevel(text, topic string) LogLevel {
	for _, s := range []string{strings.ToLower(text), strings.ToLower(topic)} {
		switch {
		case strings.Contains(s, "error"):
			return LevelError
		case strings.Contains(s, "warn"): // covers "warning"
			return LevelWarn
		case strings.Contains(s, "info"):
			return LevelInfo
		case strings.Contains(s, "debug"):
			return LevelDebug
		}
	}
	return LevelInfo
}

// jsonLog builds a log record from a structured payload. Level defaults
// to INFO when absent; message falls back to the stringified payload.
func jsonLog(topic string, obj map[string]any, deviceID, raw string, ts time.Time) DeviceLog {
	level, _ := stringField(obj, "level", "severity")
	msg, ok := stringField(obj, "message", "msg", "text")
	if !ok {
		msg = raw
	}
	return DeviceLog{
		DeviceID:  deviceID,
		Topic:     topic,
		Level:     ParseLogLevel(level),
		Message:   msg,
		Timestamp: ts,
	}
}

// sensorArray emits one reading per well-formed {name, value} element.
// Malformed elements are skipped, not fatal; the raw record already
// preserves the full payload.
func sensorArray(topic string, obj map[string]any, deviceID string, ts time.Time) []Record {
	arr, ok := obj["sensors"].([]any)
	if !ok {
		return nil
	}

	var out []Record
	for _, el := range arr {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		name, ok := m["name"].(string)
		if !ok || name == "" {
			continue
		}
		v, ok := asFloat(m["value"])
		if !ok {
			continue
		}
		out = append(out, SensorReading{
			DeviceID:  deviceID,
			Topic:     fmt.Sprintf("%s/%s", topic, name),
			Value:     v,
			Timestamp: ts,
		})
	}
	return out
}

// flatReadings emits one reading per numeric key in a flat object,
// e.g. {"temperature": 25.5, "humidity": 60.0}. Keys are visited in
// sorted order so repeated classification yields identical output.
func flatReadings(topic string, obj map[string]any, deviceID string, ts time.Time) []Record {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		if _, reserved := reservedKeys[k]; reserved {
			continue
		}
		if isNumber(obj[k]) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var out []Record
	for _, k := range keys {
		v, _ := asFloat(obj[k])
		out = append(out, SensorReading{
			DeviceID:  deviceID,
			Topic:     fmt.Sprintf("%s/%s", topic, k),
			Value:     v,
			Timestamp: ts,
		})
	}
	return out
}

// extractState builds the state record and, when the payload carries a
// "health" field, its companion health record. The health field arrives
// either as a nested object or as a JSON-encoded string, with the
// interesting fields under its "general" key.
func extractState(topic string, obj map[string]any, deviceID string, ts time.Time) (DeviceState, *DeviceHealth) {
	state := DeviceState{
		DeviceID:       deviceID,
		Topic:          topic,
		MainState:      intField(obj, "main_state"),
		SecondaryState: intField(obj, "secondary_state"),
		RSSI:           intField(obj, "rssi"),
		Timestamp:      ts,
	}
	if alerts, ok := obj["alerts"].(map[string]any); ok {
		state.Alerts = alerts
	}

	healthObj := obj["health"]
	if s, ok := healthObj.(string); ok {
		var decoded map[string]any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return state, nil
		}
		healthObj = decoded
	}
	m, ok := healthObj.(map[string]any)
	if !ok {
		return state, nil
	}
	general, ok := m["general"].(map[string]any)
	if !ok {
		return state, nil
	}

	health := &DeviceHealth{
		DeviceID:               deviceID,
		Topic:                  topic,
		WiFiSSID:               strPtrField(general, "wifiSsid"),
		FreeHeapSize:           int64Field(general, "freeHeapSize"),
		MinHeapSize:            int64Field(general, "minHeapSize"),
		UnexpectedResetCounter: intField(general, "unexpectedResetCounter"),
		LastResetReason:        strPtrField(general, "lastResetReason"),
		WiFiConnectCounter:     intField(general, "wifiConnectCounter"),
		CloudConnectCounter:    intField(general, "cloudConnectCounter"),
		LastWiFiConnectionTS:   int64Field(general, "lastWifiConnectionTs"),
		LastCloudConnectionTS:  int64Field(general, "lastCloudConnectionTs"),
		Timestamp:              ts,
	}
	return state, health
}

// extractDeviceID resolves the device identity for a JSON payload.
//
// Precedence: explicit field (device_id, deviceId, device) → second
// topic segment → "unknown".
func extractDeviceID(topic string, obj map[string]any) string {
	if id, ok := stringField(obj, "device_id", "deviceId", "device"); ok && id != "" {
		return id
	}
	return deviceIDFromTopic(topic)
}

// deviceIDFromTopic assumes the conventional <category>/<device_id>/...
// topic shape and falls back to "unknown" when it does not hold.
func deviceIDFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) >= 2 && parts[1] != "" {
		return parts[1]
	}
	return "unknown"
}

// extractTimestamp resolves the record timestamp for a JSON payload.
//
// An explicit "timestamp" (or "ts") field wins: RFC3339 strings and
// integer Unix seconds are both accepted. Anything else, including an
// unparseable value, falls back to the receipt time.
func extractTimestamp(obj map[string]any, receivedAt time.Time) time.Time {
	for _, key := range []string{"timestamp", "ts"} {
		v, ok := obj[key]
		if !ok {
			continue
		}
		if s, ok := v.(string); ok {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				return t
			}
		}
		if f, ok := asFloat(v); ok {
			return time.Unix(int64(f), 0).UTC()
		}
	}
	return receivedAt
}

// hasAnyKey reports whether any of the keys is present in the object.
func hasAnyKey(obj map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}

// stringField returns the first present string value among keys.
func stringField(obj map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok {
			return s, true
		}
	}
	return "", false
}

func isNumber(v any) bool {
	_, ok := v.(float64)
	return ok
}

func asFloat(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

func intField(obj map[string]any, key string) *int {
	if f, ok := asFloat(obj[key]); ok {
		n := int(f)
		return &n
	}
	return nil
}

func int64Field(obj map[string]any, key string) *int64 {
	if f, ok := asFloat(obj[key]); ok {
		n := int64(f)
		return &n
	}
	return nil
}

func strPtrField(obj map[string]any, key string) *string {
	if s, ok := obj[key].(string); ok {
		return &s
	}
	return nil
}
