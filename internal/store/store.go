// Package store defines the entity store the engine runs against. Every
// operation happens inside a unit of work: lookups and mutations of one
// logical operation share the same Tx, and an Update either commits as a
// whole or leaves the store untouched.
package store

import (
	"context"
	"errors"
	"time"

	"sportcenter/internal/facility"
	"sportcenter/internal/journal"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrReadOnly   = errors.New("write attempted in a read-only unit of work")
	ErrReferenced = errors.New("row is still referenced")
	ErrDangling   = errors.New("reference to a missing row")

	// ErrWriteConflict is returned when a concurrent unit of work changed
	// what this one read. Nothing was kept.
	ErrWriteConflict = errors.New("concurrent write conflict")
)

// ReservationRef selects reservations by the entities they reference.
// Zero fields are ignored; at least one must be set.
type ReservationRef struct {
	MemberID   int64
	ActivityID int64
}

// Store hands out units of work.
type Store interface {
	// Update runs fn in a read-write unit of work. If fn returns an error
	// nothing it did is kept.
	Update(ctx context.Context, fn func(tx Tx) error) error
	// View runs fn in a read-only unit of work.
	View(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

// Tx is the set of queries and mutations available inside a unit of work.
// List methods enumerate in id order.
type Tx interface {
	ListMembers(ctx context.Context) ([]facility.Member, error)
	GetMember(ctx context.Context, id int64) (facility.Member, error)
	CountMembers(ctx context.Context) (int, error)
	InsertMember(ctx context.Context, m facility.Member) (facility.Member, error)
	UpdateMember(ctx context.Context, m facility.Member) error
	DeleteMember(ctx context.Context, id int64) error

	ListActivities(ctx context.Context) ([]facility.Activity, error)
	GetActivity(ctx context.Context, id int64) (facility.Activity, error)
	CountActivities(ctx context.Context) (int, error)
	InsertActivity(ctx context.Context, a facility.Activity) (facility.Activity, error)
	UpdateActivity(ctx context.Context, a facility.Activity) error
	DeleteActivity(ctx context.Context, id int64) error

	ListReservations(ctx context.Context) ([]facility.Reservation, error)
	GetReservation(ctx context.Context, id int64) (facility.Reservation, error)
	InsertReservation(ctx context.Context, r facility.Reservation) (facility.Reservation, error)
	UpdateReservation(ctx context.Context, r facility.Reservation) error
	DeleteReservation(ctx context.Context, id int64) error
	// CountReservations counts reservations for activityID on the calendar
	// day of day, leaving out excludeID when it is > 0.
	CountReservations(ctx context.Context, activityID int64, day time.Time, excludeID int64) (int, error)
	ExistsReservation(ctx context.Context, ref ReservationRef) (bool, error)

	AppendEvent(ctx context.Context, e journal.Event) (journal.Event, error)
	ListEvents(ctx context.Context, afterSeq int64, limit int) ([]journal.Event, error)
}
