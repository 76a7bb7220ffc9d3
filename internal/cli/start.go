package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	// Registers the embedded schema migrations.
	_ "github.com/nerrad567/tsbridge/migrations"

	"github.com/nerrad567/tsbridge/internal/infrastructure/config"
	"github.com/nerrad567/tsbridge/internal/infrastructure/influxdb"
	"github.com/nerrad567/tsbridge/internal/infrastructure/logging"
	"github.com/nerrad567/tsbridge/internal/infrastructure/mqtt"
	"github.com/nerrad567/tsbridge/internal/infrastructure/timescale"
	"github.com/nerrad567/tsbridge/internal/pipeline"
	"github.com/nerrad567/tsbridge/internal/storage"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the telemetry bridge",
	Long: `Connects to the MQTT broker and the configured database, subscribes
to the configured topic filters, and persists classified telemetry
until interrupted.

The first interrupt drains the in-process queue before exiting; a
second interrupt forces immediate exit.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return runBridge(cmd.Context(), cfg)
	},
}

// runBridge wires configuration into running components and blocks
// until shutdown completes.
func runBridge(parent context.Context, cfg *config.Config) error {
	log := logging.New(cfg.Logging, build.Version)
	log.Info("starting tsbridge",
		"version", build.Version,
		"commit", build.Commit,
		"build_date", build.Date,
	)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// First signal starts the drain, second one forces exit.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		log.Info("shutdown signal received, draining")
		cancel()
		<-sigCh
		log.Warn("second signal received, forcing exit")
		os.Exit(1)
	}()

	// Storage backend
	repo, err := openRepository(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("closing storage")
		if closeErr := repo.Close(); closeErr != nil {
			log.Error("error closing storage", "error", closeErr)
		}
	}()

	// Pipeline
	coord := pipeline.New(repo, log, cfg.Pipeline)

	// MQTT broker session
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()

	broker := fmt.Sprintf("%s:%d", cfg.MQTT.Host, cfg.MQTT.Port)
	if mqttClient.IsConnected() {
		log.Info("MQTT connected",
			"broker", broker,
			"client_id", cfg.MQTT.ClientID,
		)
	} else {
		log.Warn("MQTT broker unreachable, retrying in background",
			"broker", broker,
			"client_id", cfg.MQTT.ClientID,
		)
	}

	mqttClient.SetLogger(log)
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT session established")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	for _, topic := range cfg.MQTT.Topics {
		if err := mqttClient.Subscribe(topic, byte(cfg.MQTT.QoS), coord.Handle); err != nil {
			return fmt.Errorf("subscribing to %q: %w", topic, err)
		}
		log.Info("subscribed", "topic", topic, "qos", cfg.MQTT.QoS)
	}

	// Storage must be reachable before ingesting; an absent broker
	// session only delays ingest until the retry loop brings it up.
	if err := repo.Ping(ctx); err != nil {
		return fmt.Errorf("health check failed: storage: %w", err)
	}
	if err := mqttClient.HealthCheck(ctx); err != nil {
		log.Warn("MQTT session not yet established", "error", err)
	}
	log.Info("initialisation complete, ingesting telemetry")

	// Blocks until ctx is cancelled, then drains the queue. The
	// deferred Close calls run afterwards, MQTT first so no new
	// messages arrive into a closed pipeline.
	if err := coord.Run(ctx); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	log.Info("tsbridge stopped")
	return nil
}

// openRepository connects the backend selected by database.driver.
func openRepository(ctx context.Context, cfg *config.Config, log *logging.Logger) (storage.Repository, error) {
	switch cfg.Database.Driver {
	case "timescaledb":
		client, err := timescale.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("connecting to TimescaleDB: %w", err)
		}
		log.Info("TimescaleDB connected")

		if cfg.Database.Migrate {
			if err := client.Migrate(ctx); err != nil {
				client.Close()
				return nil, fmt.Errorf("running migrations: %w", err)
			}
			log.Info("database migrations complete")
		}
		return storage.NewTimescaleRepository(client), nil

	case "influxdb":
		client, err := influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return nil, fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		client.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		return storage.NewInfluxRepository(client), nil

	default:
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownDriver, cfg.Database.Driver)
	}
}
