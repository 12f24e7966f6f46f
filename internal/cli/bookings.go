package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sportcenter/internal/client"
	"sportcenter/internal/facility"
)

// BookingsCmd returns the bookings command
func BookingsCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "List reservations of a running API, newest day first",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := client.New(server).Bookings(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(w, "no reservations")
				return nil
			}
			for _, b := range list {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", b.ID, facility.FormatDay(b.Date), b.MemberName, b.ActivityName)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:8080", "base URL of a running sportcenter API")
	return cmd
}
