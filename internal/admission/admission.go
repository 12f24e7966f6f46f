// Package admission decides whether a reservation fits within an
// activity's daily capacity, and whether members or activities may be
// deleted given the reservations that reference them. It holds no state:
// every decision re-queries the unit of work it is handed.
package admission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sportcenter/internal/facility"
	"sportcenter/internal/store"
)

// Querier is the part of a unit of work admission control reads.
type Querier interface {
	GetActivity(ctx context.Context, id int64) (facility.Activity, error)
	CountReservations(ctx context.Context, activityID int64, day time.Time, excludeID int64) (int, error)
	ExistsReservation(ctx context.Context, ref store.ReservationRef) (bool, error)
}

// Decision is the full result of a capacity check.
type Decision struct {
	Admit    bool
	Booked   int
	Capacity int
}

// Remaining returns the number of free places left on the day.
func (d Decision) Remaining() int {
	if d.Booked >= d.Capacity {
		return 0
	}
	return d.Capacity - d.Booked
}

// Evaluate counts the reservations of activityID on day, leaving out
// excludeReservationID (> 0) so an edited reservation does not count
// against itself, and admits iff the count is below the capacity.
func Evaluate(ctx context.Context, q Querier, activityID int64, day time.Time, excludeReservationID int64) (Decision, error) {
	activity, err := q.GetActivity(ctx, activityID)
	if errors.Is(err, store.ErrNotFound) {
		return Decision{}, facility.Invalid("activity_id", fmt.Sprintf("activity %d does not exist", activityID))
	}
	if err != nil {
		return Decision{}, fmt.Errorf("failed to get activity: %w", err)
	}

	booked, err := q.CountReservations(ctx, activityID, facility.Day(day), excludeReservationID)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to count reservations: %w", err)
	}

	return Decision{
		Admit:    booked < activity.Capacity,
		Booked:   booked,
		Capacity: activity.Capacity,
	}, nil
}

// CanAdmit reports whether one more reservation fits. A full day is
// false, not an error.
func CanAdmit(ctx context.Context, q Querier, activityID int64, day time.Time, excludeReservationID int64) (bool, error) {
	d, err := Evaluate(ctx, q, activityID, day, excludeReservationID)
	if err != nil {
		return false, err
	}
	return d.Admit, nil
}

// Require is CanAdmit for the save path: a full day becomes a
// *facility.CapacityExceededError.
func Require(ctx context.Context, q Querier, r facility.Reservation) error {
	d, err := Evaluate(ctx, q, r.ActivityID, r.Date, r.ID)
	if err != nil {
		return err
	}
	if !d.Admit {
		return &facility.CapacityExceededError{
			ActivityID: r.ActivityID,
			Day:        facility.Day(r.Date),
			Capacity:   d.Capacity,
		}
	}
	return nil
}

// GuardMemberDelete returns a *facility.ConflictError when any
// reservation references the member. An unpersisted id (<= 0) is never
// referenced.
func GuardMemberDelete(ctx context.Context, q Querier, memberID int64) error {
	if memberID <= 0 {
		return nil
	}
	referenced, err := q.ExistsReservation(ctx, store.ReservationRef{MemberID: memberID})
	if err != nil {
		return fmt.Errorf("failed to check member reservations: %w", err)
	}
	if referenced {
		return &facility.ConflictError{Entity: "member", ID: memberID}
	}
	return nil
}

// GuardActivityDelete returns a *facility.ConflictError when any
// reservation references the activity.
func GuardActivityDelete(ctx context.Context, q Querier, activityID int64) error {
	if activityID <= 0 {
		return nil
	}
	referenced, err := q.ExistsReservation(ctx, store.ReservationRef{ActivityID: activityID})
	if err != nil {
		return fmt.Errorf("failed to check activity reservations: %w", err)
	}
	if referenced {
		return &facility.ConflictError{Entity: "activity", ID: activityID}
	}
	return nil
}
