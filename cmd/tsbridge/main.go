// tsbridge - MQTT to time-series database telemetry bridge
//
// tsbridge subscribes to MQTT topic filters, classifies device payloads
// into typed telemetry records, and persists them to TimescaleDB or
// InfluxDB. Every payload is also stored verbatim for audit.
package main

import (
	"github.com/nerrad567/tsbridge/internal/cli"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

func main() {
	cli.Execute(cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
}
