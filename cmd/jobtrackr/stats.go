package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobtrackr/internal/analytics"
	"github.com/jonathan/jobtrackr/internal/db"
	"github.com/jonathan/jobtrackr/internal/observability"
)

var statsCommand = &cobra.Command{
	Use:   "stats",
	Short: "Print application analytics for a user",
	RunE:  runStats,
}

var (
	statsDatabaseURL string
	statsEmail       string
)

func init() {
	statsCommand.Flags().StringVar(&statsDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	statsCommand.Flags().StringVarP(&statsEmail, "email", "e", "", "Email of the user to report on (required)")
	_ = statsCommand.MarkFlagRequired("email")

	rootCmd.AddCommand(statsCommand)
}

func runStats(_ *cobra.Command, _ []string) error {
	url, err := resolveDatabaseURL(statsDatabaseURL)
	if err != nil {
		return err
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	user, err := database.GetUserByEmail(ctx, statsEmail)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("no user with email %s", statsEmail)
	}

	service := analytics.New(database)

	dashboard, err := service.Dashboard(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to compute dashboard: %w", err)
	}
	skills, err := service.SkillsDemand(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to compute skills demand: %w", err)
	}
	salary, err := service.SalaryStats(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to compute salary insights: %w", err)
	}
	response, err := service.ResponseTimeAnalysis(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to compute response times: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintDashboard(dashboard)
	printer.PrintSkills(skills)
	printer.PrintSalary(salary)
	printer.PrintResponseTime(response)

	return nil
}
