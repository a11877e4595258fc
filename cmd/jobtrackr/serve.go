package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobtrackr/internal/server"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

var (
	serveConfigPath  string
	serveDatabaseURL string
	servePort        int
)

func init() {
	serveCommand.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCommand.Flags().StringVar(&serveDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	serveCommand.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP listen port (defaults to PORT env var, then 8080)")

	rootCmd.AddCommand(serveCommand)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadServerConfig(serveConfigPath, serveDatabaseURL, servePort)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
