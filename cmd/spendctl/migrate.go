package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spendwise/spendwise/internal/repository"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database schema migrations",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if err := repository.Migrate(databaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Database schema up to date")
	return nil
}
