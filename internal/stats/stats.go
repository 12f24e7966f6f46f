// Package stats computes the read-only summary figures of the facility.
package stats

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"sportcenter/internal/facility"
	"sportcenter/internal/store"
)

// Summary is the result of Recompute.
type Summary struct {
	MemberCount     int    `json:"member_count"`
	ActivityCount   int    `json:"activity_count"`
	TopActivityName string `json:"top_activity"`
}

// Aggregator recomputes the summary from the store on every call.
type Aggregator struct {
	store  store.Store
	tracer trace.Tracer
}

func NewAggregator(st store.Store) *Aggregator {
	return &Aggregator{
		store:  st,
		tracer: otel.Tracer("sportcenter/stats"),
	}
}

// Recompute returns the member and activity counts and the name of the
// most booked activity. Reservations are grouped by activity name; on a
// tie the group seen first in reservation id order wins. With no
// reservations the top activity is facility.NoReservations.
func (a *Aggregator) Recompute(ctx context.Context) (Summary, error) {
	ctx, span := a.tracer.Start(ctx, "stats.recompute")
	defer span.End()

	var sum Summary
	err := a.store.View(ctx, func(tx store.Tx) error {
		var err error
		if sum.MemberCount, err = tx.CountMembers(ctx); err != nil {
			return fmt.Errorf("failed to count members: %w", err)
		}
		if sum.ActivityCount, err = tx.CountActivities(ctx); err != nil {
			return fmt.Errorf("failed to count activities: %w", err)
		}
		activities, err := tx.ListActivities(ctx)
		if err != nil {
			return fmt.Errorf("failed to list activities: %w", err)
		}
		reservations, err := tx.ListReservations(ctx)
		if err != nil {
			return fmt.Errorf("failed to list reservations: %w", err)
		}
		sum.TopActivityName = TopActivity(activities, reservations)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return Summary{}, err
	}
	return sum, nil
}

// TopActivity picks the most booked activity name from reservations,
// which must be in id order.
func TopActivity(activities []facility.Activity, reservations []facility.Reservation) string {
	if len(reservations) == 0 {
		return facility.NoReservations
	}

	names := make(map[int64]string, len(activities))
	for _, act := range activities {
		names[act.ID] = act.Name
	}

	counts := make(map[string]int)
	var order []string
	for _, r := range reservations {
		name := names[r.ActivityID]
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}

	top, best := order[0], counts[order[0]]
	for _, name := range order[1:] {
		if counts[name] > best {
			top, best = name, counts[name]
		}
	}
	return top
}
