package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sportcenter/internal/client"
	"sportcenter/internal/facility"
	"sportcenter/internal/stats"
)

// StatsCmd returns the stats command
func StatsCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print member, activity and booking figures",
		Long: `Print member, activity and booking figures.

By default the configured store is read directly. With --server the
figures are fetched from a running API instead.

Examples:
  sportcenter stats
  sportcenter stats --server http://localhost:8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if server != "" {
				sum, err := client.New(server).Stats(cmd.Context())
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), sum)
				return nil
			}

			a, _, err := openApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer closeStore(a)

			sum, err := a.Stats.Recompute(cmd.Context())
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), sum)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "base URL of a running sportcenter API")
	return cmd
}

func printSummary(w io.Writer, sum stats.Summary) {
	heading := color.New(color.Bold, color.FgCyan)
	fmt.Fprintln(w, heading.Sprint("Sports center"))
	fmt.Fprintf(w, "  members:      %d\n", sum.MemberCount)
	fmt.Fprintf(w, "  activities:   %d\n", sum.ActivityCount)

	top := color.New(color.FgGreen).Sprint(sum.TopActivityName)
	if sum.TopActivityName == facility.NoReservations {
		top = color.New(color.FgYellow).Sprint(sum.TopActivityName)
	}
	fmt.Fprintf(w, "  top activity: %s\n", top)
}
