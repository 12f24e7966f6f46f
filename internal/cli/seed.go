package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sportcenter/internal/app"
	"sportcenter/internal/facility"
)

var demoMembers = []facility.Member{
	{Name: "Ana García", Email: "ana@example.com", Active: true},
	{Name: "Luis Pérez", Email: "luis@example.com", Active: true},
	{Name: "Marta Ruiz", Email: "marta@example.com", Active: false},
}

var demoActivities = []facility.Activity{
	{Name: "Pilates", Capacity: 12},
	{Name: "Spinning", Capacity: 20},
	{Name: "Yoga", Capacity: 15},
}

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo members and activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := openApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer closeStore(a)
			return seed(cmd.Context(), a, cmd.OutOrStdout())
		},
	}
}

func seed(ctx context.Context, a *app.App, w io.Writer) error {
	ok := color.New(color.FgGreen).Sprint("+")
	for _, m := range demoMembers {
		saved, err := a.Members.Save(ctx, m)
		if err != nil {
			return fmt.Errorf("failed to seed member %q: %w", m.Name, err)
		}
		fmt.Fprintf(w, "%s member %d %s\n", ok, saved.ID, saved.Name)
	}
	for _, act := range demoActivities {
		saved, err := a.Activities.Save(ctx, act)
		if err != nil {
			return fmt.Errorf("failed to seed activity %q: %w", act.Name, err)
		}
		fmt.Fprintf(w, "%s activity %d %s (capacity %d)\n", ok, saved.ID, saved.Name, saved.Capacity)
	}
	return nil
}
