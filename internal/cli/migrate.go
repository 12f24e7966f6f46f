package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// MigrateCmd returns the migrate command
func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Opening a SQL store applies the schema.
			a, cfg, err := openApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer closeStore(a)

			fmt.Fprintf(cmd.OutOrStdout(), "%s schema ready (%s)\n",
				color.New(color.FgGreen).Sprint("✓"), cfg.StoreDriver)
			return nil
		},
	}
}
