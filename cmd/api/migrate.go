package main

import (
	"github.com/spf13/cobra"

	"github.com/srgjo27/charter_flights/internal/platform/config"
	"github.com/srgjo27/charter_flights/internal/platform/database"
	"github.com/srgjo27/charter_flights/internal/platform/logging"
)

func newMigrateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			logger, err := logging.New(cfg.Logging)
			if err != nil {
				return err
			}

			ctx := ctxOrBackground(cmd.Context())

			if cfg.Database.Driver == "sqlite" {
				db, err := database.NewSQLiteDB(cfg.Database.Path)
				if err != nil {
					return err
				}
				sqlDB, err := db.DB()
				if err == nil {
					defer sqlDB.Close()
				}
				logger.WithField("path", cfg.Database.Path).Info("sqlite schema up to date")
				return nil
			}

			db, err := database.NewPostgresDB(ctx, cfg.Database, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			return database.Migrate(ctx, db, logger)
		},
	}
}
