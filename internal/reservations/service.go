// internal/reservations/service.go
package reservations

import (
	"context"
	"time"

	"sportcenter/internal/admission"
	"sportcenter/internal/facility"
)

// Service is the reservation lifecycle manager.
type Service interface {
	// Save validates r, checks admission and inserts (id <= 0) or updates it.
	Save(ctx context.Context, r facility.Reservation) (facility.Reservation, error)
	// Delete removes the reservation with id; a missing row is a no-op.
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (facility.Reservation, error)
	// List returns bookings newest day first, joined with member and activity names.
	List(ctx context.Context) ([]facility.Booking, error)
	// Draft returns a new reservation for today, optionally prefilled.
	Draft(memberID, activityID int64) facility.Reservation
	Admission(ctx context.Context, activityID int64, day time.Time, excludeID int64) (admission.Decision, error)
	FieldErrors(r facility.Reservation) map[string]string
}
