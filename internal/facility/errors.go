// internal/facility/errors.go
package facility

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError reports the first rule a candidate failed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid builds a ValidationError for field.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// CapacityExceededError is returned when an activity is fully booked for a day.
type CapacityExceededError struct {
	ActivityID int64
	Day        time.Time
	Capacity   int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("no places available for activity %d on %s (capacity %d)",
		e.ActivityID, FormatDay(e.Day), e.Capacity)
}

// ConflictError is returned when a delete is blocked by existing reservations.
type ConflictError struct {
	Entity string
	ID     int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("cannot delete %s %d: it is assigned to reservations", e.Entity, e.ID)
}

// StorageError wraps a failure of the commit step.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return "failed to " + e.Op
	}
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err as a StorageError for op. A nil err stays nil, and
// errors that already carry a domain meaning pass through untouched.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		ve *ValidationError
		ce *CapacityExceededError
		fe *ConflictError
		se *StorageError
	)
	if errors.As(err, &ve) || errors.As(err, &ce) || errors.As(err, &fe) || errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// OutcomeKind classifies the result of an engine operation.
type OutcomeKind string

const (
	OutcomeSaved    OutcomeKind = "saved"
	OutcomeDeleted  OutcomeKind = "deleted"
	OutcomeInvalid  OutcomeKind = "invalid"
	OutcomeFull     OutcomeKind = "capacity_full"
	OutcomeBlocked  OutcomeKind = "conflict"
	OutcomeFailed   OutcomeKind = "storage_error"
	OutcomeInternal OutcomeKind = "error"
)

// Outcome is the explicit result a caller renders after an operation.
type Outcome struct {
	Kind   OutcomeKind `json:"kind"`
	Field  string      `json:"field,omitempty"`
	Reason string      `json:"reason,omitempty"`
}

// Describe maps the error of a mutating operation to an Outcome. success
// is the kind reported when err is nil.
func Describe(err error, success OutcomeKind) Outcome {
	if err == nil {
		return Outcome{Kind: success}
	}
	var (
		ve *ValidationError
		ce *CapacityExceededError
		fe *ConflictError
		se *StorageError
	)
	switch {
	case errors.As(err, &ve):
		return Outcome{Kind: OutcomeInvalid, Field: ve.Field, Reason: ve.Message}
	case errors.As(err, &ce):
		return Outcome{Kind: OutcomeFull, Field: "date", Reason: ce.Error()}
	case errors.As(err, &fe):
		return Outcome{Kind: OutcomeBlocked, Reason: fe.Error()}
	case errors.As(err, &se):
		return Outcome{Kind: OutcomeFailed, Reason: se.Error()}
	default:
		return Outcome{Kind: OutcomeInternal, Reason: err.Error()}
	}
}
