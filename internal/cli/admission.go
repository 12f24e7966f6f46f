package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sportcenter/internal/client"
	"sportcenter/internal/facility"
)

// AdmissionCmd returns the admission command
func AdmissionCmd() *cobra.Command {
	var (
		server     string
		activityID int64
		date       string
	)

	cmd := &cobra.Command{
		Use:   "admission",
		Short: "Check whether an activity has a free place on a day",
		Long: `Check whether an activity has a free place on a day, asking a running API.

Examples:
  sportcenter admission --activity 2 --date 2026-11-02
  sportcenter admission --server http://sc.internal:8080 --activity 2 --date 2026-11-02`,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := facility.ParseDay(date)
			if err != nil || day.IsZero() {
				return fmt.Errorf("--date must use the YYYY-MM-DD format")
			}

			resp, err := client.New(server).Admission(cmd.Context(), activityID, day)
			if err != nil {
				return err
			}

			verdict := color.New(color.FgGreen).Sprint("OPEN")
			if !resp.Admit {
				verdict = color.New(color.FgRed).Sprint("FULL")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s activity %d on %s: %d of %d booked, %d left\n",
				verdict, activityID, facility.FormatDay(day), resp.Booked, resp.Capacity, resp.Remaining)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:8080", "base URL of a running sportcenter API")
	cmd.Flags().Int64Var(&activityID, "activity", 0, "activity id")
	cmd.Flags().StringVar(&date, "date", "", "day to check (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("activity")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}
