package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nerrad567/tsbridge/internal/telemetry"
)

// fakeRepository records which save method was invoked.
type fakeRepository struct {
	readings []telemetry.SensorReading
	logs     []telemetry.DeviceLog
	raws     []telemetry.RawPayload
	states   []telemetry.DeviceState
	healths  []telemetry.DeviceHealth

	err error // returned from every save method when set
}

func (f *fakeRepository) SaveSensorReading(_ context.Context, r telemetry.SensorReading) error {
	f.readings = append(f.readings, r)
	return f.err
}

func (f *fakeRepository) SaveDeviceLog(_ context.Context, l telemetry.DeviceLog) error {
	f.logs = append(f.logs, l)
	return f.err
}

func (f *fakeRepository) SaveRawPayload(_ context.Context, p telemetry.RawPayload) error {
	f.raws = append(f.raws, p)
	return f.err
}

func (f *fakeRepository) SaveDeviceState(_ context.Context, s telemetry.DeviceState) error {
	f.states = append(f.states, s)
	return f.err
}

func (f *fakeRepository) SaveDeviceHealth(_ context.Context, h telemetry.DeviceHealth) error {
	f.healths = append(f.healths, h)
	return f.err
}

func (f *fakeRepository) Ping(context.Context) error { return nil }
func (f *fakeRepository) Close() error               { return nil }

// =============================================================================
// Save Dispatch Tests
// =============================================================================

func TestSave_DispatchesSensorReading(t *testing.T) {
	repo := &fakeRepository{}
	rec := telemetry.SensorReading{
		DeviceID:  "esp32-001",
		Topic:     "telemetry/esp32-001/temperature",
		Value:     21.5,
		Timestamp: time.Now(),
	}

	if err := Save(context.Background(), repo, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(repo.readings) != 1 {
		t.Fatalf("SaveSensorReading called %d times, want 1", len(repo.readings))
	}
	if repo.readings[0].Value != 21.5 {
		t.Errorf("saved value = %v, want 21.5", repo.readings[0].Value)
	}
}

func TestSave_DispatchesDeviceLog(t *testing.T) {
	repo := &fakeRepository{}
	rec := telemetry.DeviceLog{
		DeviceID: "esp32-001",
		Topic:    "diagnostics/esp32-001/logs",
		Level:    telemetry.LevelError,
		Message:  "sensor offline",
	}

	if err := Save(context.Background(), repo, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(repo.logs) != 1 {
		t.Fatalf("SaveDeviceLog called %d times, want 1", len(repo.logs))
	}
}

func TestSave_DispatchesRawPayload(t *testing.T) {
	repo := &fakeRepository{}
	rec := telemetry.RawPayload{
		Topic:   "telemetry/esp32-001/temperature",
		Payload: `{"value":21.5}`,
	}

	if err := Save(context.Background(), repo, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(repo.raws) != 1 {
		t.Fatalf("SaveRawPayload called %d times, want 1", len(repo.raws))
	}
	if repo.raws[0].Payload != `{"value":21.5}` {
		t.Errorf("saved payload = %q, want verbatim copy", repo.raws[0].Payload)
	}
}

func TestSave_DispatchesDeviceState(t *testing.T) {
	repo := &fakeRepository{}
	main := 2
	rec := telemetry.DeviceState{
		DeviceID:  "socket-01",
		Topic:     "sockets/socket-01/state",
		MainState: &main,
	}

	if err := Save(context.Background(), repo, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(repo.states) != 1 {
		t.Fatalf("SaveDeviceState called %d times, want 1", len(repo.states))
	}
}

func TestSave_DispatchesDeviceHealth(t *testing.T) {
	repo := &fakeRepository{}
	heap := int64(48123)
	rec := telemetry.DeviceHealth{
		DeviceID:     "socket-01",
		Topic:        "sockets/socket-01/state",
		FreeHeapSize: &heap,
	}

	if err := Save(context.Background(), repo, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(repo.healths) != 1 {
		t.Fatalf("SaveDeviceHealth called %d times, want 1", len(repo.healths))
	}
}

func TestSave_PropagatesWriteError(t *testing.T) {
	repo := &fakeRepository{err: ErrWriteFailed}

	err := Save(context.Background(), repo, telemetry.SensorReading{Value: 1})
	if !errors.Is(err, ErrWriteFailed) {
		t.Errorf("Save() error = %v, want ErrWriteFailed", err)
	}
}
