package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sumire/jobboard/internal/config"
	"github.com/sumire/jobboard/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := connectDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrate.Run(cmd.Context(), db.DB); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("migrations up to date")
	return nil
}
