package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fineko/fineko-api/internal/infrastructure/db/mongo"
	"github.com/fineko/fineko-api/internal/infrastructure/db/postgres"
	"github.com/fineko/fineko-api/internal/pkg/config"
	"github.com/fineko/fineko-api/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the schema of the configured store",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending Postgres migrations or create Mongo indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := config.Load(ctx)
		if err != nil {
			return err
		}
		log := initLogger(cfg)

		switch cfg.StoreDriver {
		case config.DriverPostgres:
			db, err := postgres.Open(ctx, cfg.Postgres.DSN)
			if err != nil {
				return err
			}
			defer db.Close()
			return postgres.MigrateUp(db, log)
		case config.DriverMongo:
			client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
			if err != nil {
				return err
			}
			defer func() { _ = client.Disconnect(ctx) }()
			if err := mongo.EnsureIndexes(ctx, db); err != nil {
				return err
			}
			log.Info().Str("database", cfg.Mongo.Database).Msg("mongo indexes ensured")
			return nil
		default:
			log.Info().Str("driver", cfg.StoreDriver).Msg("nothing to migrate")
			return nil
		}
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back every Postgres migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Context())
		if err != nil {
			return err
		}
		if cfg.StoreDriver != config.DriverPostgres {
			return fmt.Errorf("migrate down needs STORE_DRIVER=postgres, got %q", cfg.StoreDriver)
		}
		log := initLogger(cfg)
		db, err := postgres.Open(cmd.Context(), cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.MigrateDown(db); err != nil {
			return err
		}
		log.Info().Msg("postgres migrations rolled back")
		return nil
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied Postgres migration version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Context())
		if err != nil {
			return err
		}
		if cfg.StoreDriver != config.DriverPostgres {
			return fmt.Errorf("migrate version needs STORE_DRIVER=postgres, got %q", cfg.StoreDriver)
		}
		db, err := postgres.Open(cmd.Context(), cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		v, dirty, err := postgres.MigrationVersion(db)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version %d dirty=%v\n", v, dirty)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}

func initLogger(cfg *config.Config) zerolog.Logger {
	return logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "fineko-api",
		Version: Version,
	})
}
