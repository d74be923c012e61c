package main

import (
	"context"
	"fmt"

	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/pkg/config"
	"github.com/anonto42/nano-social/backend/pkg/logger"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the Postgres schema and Mongo indexes, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logger.New("nano-social", cfg.LogLevel, cfg.Env)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		db, err := config.InitDB(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("failed to initialize databases: %w", err)
		}
		defer db.CloseDB()

		if err := migrate(ctx, db); err != nil {
			return err
		}
		log.Info().Msg("schema up to date")
		return nil
	},
}

func migrate(ctx context.Context, db *config.DB) error {
	if err := config.Migrate(db.Postgres); err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}
	if err := repositories.NewMongoMessageRepository(db.MongoDB).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create message indexes: %w", err)
	}
	return nil
}
