package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobtrackr/internal/db"
	"github.com/jonathan/jobtrackr/internal/seed"
)

var seedCommand = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with sample data",
	Long: `Creates the demo user and fills its account with generated sample applications.

With --file, imports application documents from a JSON array file instead of
generating them; every document is validated against the application schema.`,
	RunE: runSeed,
}

var (
	seedDatabaseURL string
	seedCount       int
	seedRandomSeed  int64
	seedFile        string
)

func init() {
	seedCommand.Flags().StringVar(&seedDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	seedCommand.Flags().IntVarP(&seedCount, "count", "n", 50, "Number of applications to generate")
	seedCommand.Flags().Int64Var(&seedRandomSeed, "seed", 0, "Random seed for reproducible data (0 means non-deterministic)")
	seedCommand.Flags().StringVarP(&seedFile, "file", "f", "", "Import applications from a JSON file instead of generating them")

	rootCmd.AddCommand(seedCommand)
}

func runSeed(_ *cobra.Command, _ []string) error {
	url, err := resolveDatabaseURL(seedDatabaseURL)
	if err != nil {
		return err
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if seedFile != "" {
		user, err := database.GetUserByEmail(ctx, seed.DemoEmail)
		if err != nil {
			return fmt.Errorf("failed to look up demo user: %w", err)
		}
		if user == nil {
			return fmt.Errorf("demo user does not exist yet; run seed without --file first")
		}
		n, err := seed.ImportFile(ctx, database, user.ID, seedFile)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d applications\n", n)
		return nil
	}

	randomSeed := seedRandomSeed
	if randomSeed == 0 {
		randomSeed = time.Now().UnixNano()
	}
	return seed.Run(ctx, database, seedCount, randomSeed)
}
