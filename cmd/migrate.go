package main

import (
	"github.com/spf13/cobra"

	"rubiechat/internal/app/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := db.NewPool(cmd.Context(), cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		return db.Migrate(pool)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the migration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := db.NewPool(cmd.Context(), cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		return db.MigrationStatus(pool)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)
}
