// Package cmd contains all CLI commands for school-admin.
package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/classpoint/school-backend/internal/backend"
	"github.com/classpoint/school-backend/internal/storage"
	"github.com/classpoint/school-backend/pkg/config"
	"github.com/classpoint/school-backend/pkg/logging"
)

var (
	// Global flags
	configFile string
	output     string
)

// openStore loads the configuration and connects to the configured
// storage backend. Callers own the returned store and must Close it.
func openStore(ctx context.Context) (storage.Store, *zap.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  "warn",
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	store, err := backend.New(connectCtx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to storage: %w", err)
	}
	return store, logger, nil
}

// printTable prints data in a simple table format
func printTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	for i, h := range headers {
		fmt.Printf("%-*s  ", widths[i], h)
	}
	fmt.Println()

	for i := range headers {
		fmt.Printf("%s  ", strings.Repeat("-", widths[i]))
	}
	fmt.Println()

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				fmt.Printf("%-*s  ", widths[i], cell)
			}
		}
		fmt.Println()
	}
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "school-admin",
	Short: "CLI tool for managing the school backend",
	Long: `school-admin is a command-line tool for managing the school backend
directly through its storage layer, without going through the HTTP API.

It provides commands for:
  - Bootstrapping the first admin account
  - Listing user accounts
  - Running the holiday calendar seeder manually

Examples:
  # Create the initial admin account
  school-admin create-admin --username admin --email admin@school.test

  # List all teachers
  school-admin list-users --role Teacher

  # Seed holidays and generate calendar events
  school-admin seed-holidays`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "configs/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format: table or json")
}
