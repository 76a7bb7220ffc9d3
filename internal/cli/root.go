package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nerrad567/tsbridge/internal/infrastructure/config"
)

// BuildInfo carries version identifiers set at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

var (
	cfgFile string
	build   BuildInfo
)

var rootCmd = &cobra.Command{
	Use:   "tsbridge",
	Short: "MQTT to time-series database telemetry bridge",
	Long: `tsbridge subscribes to MQTT topics, classifies device payloads into
sensor readings, logs, state snapshots and health diagnostics, and
persists them to TimescaleDB or InfluxDB.

Every inbound message is also stored verbatim as an audit record, so
no payload is ever lost to a classification gap.`,
}

// Execute runs the CLI. Called once from main.
func Execute(info BuildInfo) {
	build = info
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default searches ./config.toml, ./configs, /etc/tsbridge)")

	startCmd.Flags().String("broker-host", "", "MQTT broker host")
	startCmd.Flags().Int("broker-port", 0, "MQTT broker port")
	startCmd.Flags().String("database-url", "", "PostgreSQL connection URL")
	startCmd.Flags().Int("queue-size", 0, "pipeline queue bound")
	startCmd.Flags().Int("workers", 0, "pipeline worker count")

	must(viper.BindPFlag("mqtt.host", startCmd.Flags().Lookup("broker-host")))
	must(viper.BindPFlag("mqtt.port", startCmd.Flags().Lookup("broker-port")))
	must(viper.BindPFlag("database.url", startCmd.Flags().Lookup("database-url")))
	must(viper.BindPFlag("pipeline.queue_size", startCmd.Flags().Lookup("queue-size")))
	must(viper.BindPFlag("pipeline.workers", startCmd.Flags().Lookup("workers")))

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if err := config.Init(cfgFile); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// must panics on flag binding errors, which can only be programming
// mistakes caught at startup.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
