package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sportcenter/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sportcenter",
		Short: "Sports center members, activities and reservations",
		Long: `sportcenter manages members, activities and dated reservations
with a per-activity daily capacity.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.MigrateCmd())
	rootCmd.AddCommand(cli.StatsCmd())
	rootCmd.AddCommand(cli.SeedCmd())
	rootCmd.AddCommand(cli.AdmissionCmd())
	rootCmd.AddCommand(cli.BookingsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
