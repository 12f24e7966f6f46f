// Package journal describes the append-only change log every committed
// mutation writes to, inside the same unit of work as the mutation.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	MemberSaved        = "MemberSaved"
	MemberDeleted      = "MemberDeleted"
	ActivitySaved      = "ActivitySaved"
	ActivityDeleted    = "ActivityDeleted"
	ReservationSaved   = "ReservationSaved"
	ReservationDeleted = "ReservationDeleted"
)

// Entity names.
const (
	EntityMember      = "member"
	EntityActivity    = "activity"
	EntityReservation = "reservation"
)

// DefaultPageSize bounds ListEvents when the caller passes no limit.
const DefaultPageSize = 100

// Event is one committed change.
type Event struct {
	Seq       int64           `json:"seq" db:"seq"`
	ID        uuid.UUID       `json:"id" db:"id"`
	Type      string          `json:"type" db:"event_type"`
	Entity    string          `json:"entity" db:"entity"`
	EntityID  int64           `json:"entity_id" db:"entity_id"`
	Payload   json.RawMessage `json:"payload" db:"payload"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// New builds an event with a fresh id, marshalling data as its payload.
// Seq is assigned by the store on append.
func New(eventType, entity string, entityID int64, data any, at time.Time) (Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal event data: %w", err)
	}
	return Event{
		ID:        uuid.New(),
		Type:      eventType,
		Entity:    entity,
		EntityID:  entityID,
		Payload:   payload,
		CreatedAt: at.UTC(),
	}, nil
}

// Limit normalises a requested page size.
func Limit(n int) int {
	if n <= 0 || n > DefaultPageSize {
		return DefaultPageSize
	}
	return n
}

// Appender is the part of a unit of work that stores events.
type Appender interface {
	AppendEvent(ctx context.Context, e Event) (Event, error)
}

// Record builds an event and appends it through a.
func Record(ctx context.Context, a Appender, eventType, entity string, entityID int64, data any, at time.Time) error {
	e, err := New(eventType, entity, entityID, data, at)
	if err != nil {
		return err
	}
	_, err = a.AppendEvent(ctx, e)
	return err
}
