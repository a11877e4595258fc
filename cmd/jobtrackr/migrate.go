package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobtrackr/internal/db"
)

var migrateCommand = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

var migrateDatabaseURL string

func init() {
	migrateCommand.Flags().StringVar(&migrateDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(migrateCommand)
}

// resolveDatabaseURL returns the flag value or the DATABASE_URL env var.
func resolveDatabaseURL(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url, nil
	}
	return "", fmt.Errorf("database URL required: pass --db-url or set DATABASE_URL")
}

func runMigrate(_ *cobra.Command, _ []string) error {
	url, err := resolveDatabaseURL(migrateDatabaseURL)
	if err != nil {
		return err
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Println("Migration complete")
	return nil
}
