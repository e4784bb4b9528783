package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/classpoint/school-backend/internal/service"
)

var seedHolidaysCmd = &cobra.Command{
	Use:   "seed-holidays",
	Short: "Seed the holiday calendar and generate calendar events",
	Long: `Seed the fixed holiday calendar (only when the collection is empty)
and create any missing holiday events for the previous, current and
next year. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		store, logger, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		seeder := service.NewHolidaySeeder(store, logger)
		created, err := seeder.Reconcile(ctx, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}

		fmt.Printf("Seeding complete, %d holiday events created\n", created)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedHolidaysCmd)
}
