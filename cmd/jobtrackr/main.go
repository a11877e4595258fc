// Package main provides the entry point for the JobTrackr HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/jobtrackr/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "jobtrackr",
	Short: "Job application tracker API server",
	Long:  "JobTrackr tracks job applications, companies, and interview timelines, and serves owner-scoped analytics over them via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadServerConfig merges config file, environment, and flag values. Flags
// win over the file, the file wins over the environment.
func loadServerConfig(configPath, databaseURL string, port int) (*config.Config, error) {
	cfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}
	if port != 0 {
		cfg.Port = port
	}
	cfg.FromEnv()
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
