package telemetry

import (
	"strings"
	"time"
)

// Record is the closed set of classified telemetry records.
//
// Every consumer must type-switch exhaustively over the concrete types:
// SensorReading, DeviceLog, RawPayload, DeviceState, DeviceHealth.
type Record interface {
	record()
}

// LogLevel is a normalised device log severity.
type LogLevel string

// Supported log levels, in increasing severity.
const (
	LevelDebug LogLevel = "DEBUG"
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
)

// ParseLogLevel normalises a device-supplied level string.
//
// "WARNING" is folded into WARN. Unrecognised or empty input defaults
// to INFO rather than failing; devices report levels inconsistently.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// SensorReading is a single numeric measurement from a device.
type SensorReading struct {
	DeviceID  string
	Topic     string
	Value     float64
	Timestamp time.Time
}

// DeviceLog is a log line emitted by a device, either as structured
// JSON or inferred from plain text.
type DeviceLog struct {
	DeviceID  string
	Topic     string
	Level     LogLevel
	Message   string
	Timestamp time.Time
}

// RawPayload is the verbatim audit copy of an inbound message.
// Exactly one is produced per message regardless of classification.
type RawPayload struct {
	Topic     string
	Payload   string
	Timestamp time.Time
}

// DeviceState is a device status snapshot (socket/relay style devices
// reporting operating state, alerts and signal strength).
//
// Pointer fields distinguish "absent from payload" from zero values.
type DeviceState struct {
	DeviceID       string
	Topic          string
	MainState      *int
	SecondaryState *int
	Alerts         map[string]any
	RSSI           *int
	Timestamp      time.Time
}

// DeviceHealth carries the diagnostic counters some devices embed in
// their state payloads under a "health" field.
type DeviceHealth struct {
	DeviceID               string
	Topic                  string
	WiFiSSID               *string
	FreeHeapSize           *int64
	MinHeapSize            *int64
	UnexpectedResetCounter *int
	LastResetReason        *string
	WiFiConnectCounter     *int
	CloudConnectCounter    *int
	LastWiFiConnectionTS   *int64
	LastCloudConnectionTS  *int64
	Timestamp              time.Time
}

func (SensorReading) record() {}
func (DeviceLog) record()     {}
func (RawPayload) record()    {}
func (DeviceState) record()   {}
func (DeviceHealth) record()  {}

// InboundMessage is one message as received from the broker, before
// classification. Owned by the pipeline for the duration of one dispatch.
type InboundMessage struct {
	Topic      string
	Payload    []byte
	ReceivedAt time.Time
}
