package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yukikurage/bug-journal-api/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}()

		if err := database.Migrate(db, logger); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		logger.Info("migrations complete", "db_driver", cfg.DBDriver)
		return nil
	},
}
