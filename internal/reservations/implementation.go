// internal/reservations/implementation.go
package reservations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"sportcenter/internal/admission"
	"sportcenter/internal/facility"
	"sportcenter/internal/journal"
	"sportcenter/internal/metrics"
	"sportcenter/internal/store"
	"sportcenter/internal/validation"
)

// service implements the Service interface.
type service struct {
	store   store.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	tracer  trace.Tracer
}

// NewService creates a new reservation service. now supplies "today" for
// the date rule; nil means time.Now.
func NewService(st store.Store, logger *slog.Logger, m *metrics.Metrics, now func() time.Time) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &service{
		store:   st,
		logger:  logger.With("entity", journal.EntityReservation),
		metrics: m,
		now:     now,
		tracer:  otel.Tracer("sportcenter/reservations"),
	}
}

// Save validates and stores r.
func (s *service) Save(ctx context.Context, r facility.Reservation) (facility.Reservation, error) {
	ctx, span := s.tracer.Start(ctx, "reservations.save", trace.WithAttributes(
		attribute.Int64("reservation.id", r.ID),
		attribute.Int64("activity.id", r.ActivityID),
		attribute.String("reservation.date", facility.FormatDay(r.Date)),
	))
	defer span.End()

	saved, err := s.save(ctx, r)
	s.finish(ctx, span, "save", r.ID, err, facility.OutcomeSaved)
	if err != nil {
		return facility.Reservation{}, err
	}
	return saved, nil
}

func (s *service) save(ctx context.Context, r facility.Reservation) (facility.Reservation, error) {
	if err := validation.CheckReservation(r, s.now()); err != nil {
		return facility.Reservation{}, err
	}

	candidate := facility.Reservation{
		ID:         r.ID,
		MemberID:   r.MemberID,
		ActivityID: r.ActivityID,
		Date:       facility.Day(r.Date),
	}

	var saved facility.Reservation
	err := s.store.Update(ctx, func(tx store.Tx) error {
		if _, err := tx.GetMember(ctx, candidate.MemberID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return facility.Invalid(validation.FieldMemberID, fmt.Sprintf("member %d does not exist", candidate.MemberID))
			}
			return fmt.Errorf("failed to get member: %w", err)
		}

		d, err := admission.Evaluate(ctx, tx, candidate.ActivityID, candidate.Date, candidate.ID)
		if err != nil {
			return err
		}
		s.metrics.Admission(d.Admit)
		if !d.Admit {
			return &facility.CapacityExceededError{
				ActivityID: candidate.ActivityID,
				Day:        candidate.Date,
				Capacity:   d.Capacity,
			}
		}

		if candidate.IsNew() {
			inserted, err := tx.InsertReservation(ctx, facility.Reservation{
				MemberID:   candidate.MemberID,
				ActivityID: candidate.ActivityID,
				Date:       candidate.Date,
			})
			if err != nil {
				return fmt.Errorf("failed to insert reservation: %w", err)
			}
			saved = inserted
		} else {
			current, err := tx.GetReservation(ctx, candidate.ID)
			if errors.Is(err, store.ErrNotFound) {
				s.logger.WarnContext(ctx, "update target not found, nothing saved", "id", candidate.ID)
				saved = candidate
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get reservation: %w", err)
			}
			current.MemberID = candidate.MemberID
			current.ActivityID = candidate.ActivityID
			current.Date = candidate.Date
			if err := tx.UpdateReservation(ctx, current); err != nil {
				return fmt.Errorf("failed to update reservation: %w", err)
			}
			saved = current
		}

		return journal.Record(ctx, tx, journal.ReservationSaved, journal.EntityReservation, saved.ID, saved, s.now())
	})
	if err != nil {
		return facility.Reservation{}, facility.Storage("save reservation", err)
	}
	return saved, nil
}

// Delete removes the reservation with id, if it exists.
func (s *service) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "reservations.delete", trace.WithAttributes(
		attribute.Int64("reservation.id", id),
	))
	defer span.End()

	err := s.store.Update(ctx, func(tx store.Tx) error {
		current, err := tx.GetReservation(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get reservation: %w", err)
		}
		if err := tx.DeleteReservation(ctx, id); err != nil {
			return fmt.Errorf("failed to delete reservation: %w", err)
		}
		return journal.Record(ctx, tx, journal.ReservationDeleted, journal.EntityReservation, id, current, s.now())
	})
	err = facility.Storage("delete reservation", err)
	s.finish(ctx, span, "delete", id, err, facility.OutcomeDeleted)
	return err
}

// Get returns the reservation with id, or store.ErrNotFound.
func (s *service) Get(ctx context.Context, id int64) (facility.Reservation, error) {
	var r facility.Reservation
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		r, err = tx.GetReservation(ctx, id)
		return err
	})
	if err != nil {
		return facility.Reservation{}, fmt.Errorf("failed to get reservation: %w", err)
	}
	return r, nil
}

// List returns every reservation as a booking, newest day first. Bookings
// on the same day keep id order.
func (s *service) List(ctx context.Context) ([]facility.Booking, error) {
	ctx, span := s.tracer.Start(ctx, "reservations.list")
	defer span.End()

	var bookings []facility.Booking
	err := s.store.View(ctx, func(tx store.Tx) error {
		rows, err := tx.ListReservations(ctx)
		if err != nil {
			return err
		}
		members, err := tx.ListMembers(ctx)
		if err != nil {
			return err
		}
		activities, err := tx.ListActivities(ctx)
		if err != nil {
			return err
		}

		memberNames := make(map[int64]string, len(members))
		for _, m := range members {
			memberNames[m.ID] = m.Name
		}
		activityNames := make(map[int64]string, len(activities))
		for _, a := range activities {
			activityNames[a.ID] = a.Name
		}

		bookings = make([]facility.Booking, 0, len(rows))
		for _, r := range rows {
			bookings = append(bookings, facility.Booking{
				Reservation:  r,
				MemberName:   memberNames[r.MemberID],
				ActivityName: activityNames[r.ActivityID],
			})
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].Date.After(bookings[j].Date)
	})
	return bookings, nil
}

// Draft returns a new reservation for today.
func (s *service) Draft(memberID, activityID int64) facility.Reservation {
	return facility.NewReservation(s.now(), memberID, activityID)
}

// Admission reports the capacity decision for one more reservation of
// activityID on day.
func (s *service) Admission(ctx context.Context, activityID int64, day time.Time, excludeID int64) (admission.Decision, error) {
	var d admission.Decision
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		d, err = admission.Evaluate(ctx, tx, activityID, day, excludeID)
		return err
	})
	if err != nil {
		return admission.Decision{}, err
	}
	return d, nil
}

// FieldErrors returns the per-field messages for r against today.
func (s *service) FieldErrors(r facility.Reservation) map[string]string {
	return validation.ReservationFieldErrors(r, s.now())
}

func (s *service) finish(ctx context.Context, span trace.Span, op string, id int64, err error, success facility.OutcomeKind) {
	s.metrics.Observe(journal.EntityReservation, op, err, success)
	outcome := facility.Describe(err, success)
	span.SetAttributes(attribute.String("outcome", string(outcome.Kind)))

	switch outcome.Kind {
	case facility.OutcomeSaved, facility.OutcomeDeleted:
		s.logger.DebugContext(ctx, "reservation "+op, "id", id)
	case facility.OutcomeFailed, facility.OutcomeInternal:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.ErrorContext(ctx, "reservation "+op+" failed", "id", id, "error", err)
	default:
		s.logger.InfoContext(ctx, "reservation "+op+" rejected", "id", id, "kind", outcome.Kind, "reason", outcome.Reason)
	}
}
