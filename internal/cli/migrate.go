package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	// Registers the embedded schema migrations.
	_ "github.com/nerrad567/tsbridge/migrations"

	"github.com/nerrad567/tsbridge/internal/infrastructure/config"
	"github.com/nerrad567/tsbridge/internal/infrastructure/timescale"
)

var migrateStatus bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the TimescaleDB schema migrations",
	Long: `Applies the embedded schema migrations to the configured TimescaleDB
instance. Safe to run repeatedly; already-applied migrations are
skipped.

Only meaningful for the timescaledb driver. InfluxDB is schemaless and
needs no migration step.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.Database.Driver != "timescaledb" {
			return fmt.Errorf("migrate applies to the timescaledb driver, configured driver is %q", cfg.Database.Driver)
		}

		ctx := cmd.Context()
		client, err := timescale.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("connecting to TimescaleDB: %w", err)
		}
		defer client.Close()

		if migrateStatus {
			applied, pending, err := client.MigrationStatus(ctx)
			if err != nil {
				return fmt.Errorf("reading migration status: %w", err)
			}
			cmd.Printf("Applied: %d\n", len(applied))
			for _, m := range applied {
				cmd.Printf("  %s (at %s)\n", m.Version, m.AppliedAt.Format("2006-01-02 15:04:05"))
			}
			cmd.Printf("Pending: %d\n", len(pending))
			for _, m := range pending {
				cmd.Printf("  %s %s\n", m.Version, m.Name)
			}
			return nil
		}

		if err := client.Migrate(ctx); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		cmd.Println("migrations complete")
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "show applied and pending migrations without applying")
}
