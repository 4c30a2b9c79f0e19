package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taskhive/taskhive/cmd"
	"github.com/taskhive/taskhive/pkg/db"
	"github.com/taskhive/taskhive/pkg/db/migrate"
)

var migrateCmd = &cobra.Command{
	Use:                "migrate",
	Short:              "Run database migrations",
	Args:               cobra.NoArgs,
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
	RunE: func(c *cobra.Command, _ []string) error {
		ctx := c.Context()
		if err := migrate.Migrate(ctx, db.FromContext(ctx)); err != nil {
			return fmt.Errorf("migration error: %w", err)
		}
		return nil
	},
}

var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Roll back the latest database migration",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		ctx := c.Context()
		if err := migrate.Rollback(ctx, db.FromContext(ctx)); err != nil {
			return fmt.Errorf("rollback error: %w", err)
		}
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(rollbackCmd)
}
