package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

// loadFromFile resets viper state and loads the given TOML content.
func loadFromFile(t *testing.T, content string) (*Config, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := Init(path); err != nil {
		return nil, err
	}
	return Load()
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
[mqtt]
host = "broker.local"
port = 8883
client_id = "bridge-01"
qos = 2
topics = ["telemetry/#", "sockets/+/state"]
tls = true

[database]
driver = "timescaledb"
url = "postgres://user:pass@db:5432/telemetry"

[pipeline]
queue_size = 64
workers = 4

[logging]
level = "debug"
`
	cfg, err := loadFromFile(t, content)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MQTT.Host != "broker.local" {
		t.Errorf("MQTT.Host = %q, want broker.local", cfg.MQTT.Host)
	}
	if cfg.MQTT.Port != 8883 {
		t.Errorf("MQTT.Port = %d, want 8883", cfg.MQTT.Port)
	}
	if cfg.MQTT.QoS != 2 {
		t.Errorf("MQTT.QoS = %d, want 2", cfg.MQTT.QoS)
	}
	if len(cfg.MQTT.Topics) != 2 {
		t.Errorf("MQTT.Topics = %v, want 2 filters", cfg.MQTT.Topics)
	}
	if cfg.Database.URL != "postgres://user:pass@db:5432/telemetry" {
		t.Errorf("Database.URL = %q", cfg.Database.URL)
	}
	if cfg.Pipeline.QueueSize != 64 || cfg.Pipeline.Workers != 4 {
		t.Errorf("Pipeline = %+v", cfg.Pipeline)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadFromFile(t, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MQTT.Host != "localhost" || cfg.MQTT.Port != 1883 {
		t.Errorf("MQTT defaults = %s:%d", cfg.MQTT.Host, cfg.MQTT.Port)
	}
	if cfg.Database.Driver != "timescaledb" {
		t.Errorf("Database.Driver = %q, want timescaledb", cfg.Database.Driver)
	}
	if cfg.Pipeline.QueueSize != 256 || cfg.Pipeline.Workers != 1 {
		t.Errorf("Pipeline defaults = %+v", cfg.Pipeline)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	if err := Init("/nonexistent/path/config.toml"); err == nil {
		t.Error("Init() expected error for explicitly named missing file, got nil")
	}
}

func TestLoad_LogLevelEnvOverride(t *testing.T) {
	t.Setenv(logLevelEnv, "debug")
	cfg, err := loadFromFile(t, "[logging]\nlevel = \"error\"\n")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want env override debug", cfg.Logging.Level)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	content := `
[mqtt]
host = ""
port = 99999
client_id = ""
qos = 7
topics = []

[database]
driver = "cassandra"

[pipeline]
queue_size = 0
workers = 0

[logging]
level = "loud"
`
	_, err := loadFromFile(t, content)
	if err == nil {
		t.Fatal("Load() expected validation error, got nil")
	}

	for _, want := range []string{
		"mqtt.host", "mqtt.port", "mqtt.client_id", "mqtt.qos", "mqtt.topics",
		"database.driver", "pipeline.queue_size", "pipeline.workers", "logging.level",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}

func TestValidate_InfluxDriverRequirements(t *testing.T) {
	content := `
[database]
driver = "influxdb"

[influxdb]
url = "http://localhost:8086"
token = ""
org = ""
`
	_, err := loadFromFile(t, content)
	if err == nil {
		t.Fatal("Load() expected error for incomplete influxdb config, got nil")
	}
	if !strings.Contains(err.Error(), "influxdb.token") || !strings.Contains(err.Error(), "influxdb.org") {
		t.Errorf("error = %v, want token and org complaints", err)
	}
}

func TestSample_IsLoadable(t *testing.T) {
	cfg, err := loadFromFile(t, Sample())
	if err != nil {
		t.Fatalf("Sample() does not load: %v", err)
	}
	if cfg.MQTT.ClientID != "tsbridge" {
		t.Errorf("MQTT.ClientID = %q, want tsbridge", cfg.MQTT.ClientID)
	}
}
