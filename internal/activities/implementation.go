// internal/activities/implementation.go
package activities

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
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
	tracer  trace.Tracer
	now     func() time.Time
}

// NewService creates a new activity service instance.
func NewService(st store.Store, logger *slog.Logger, m *metrics.Metrics, now func() time.Time) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &service{
		store:   st,
		logger:  logger.With("entity", journal.EntityActivity),
		metrics: m,
		tracer:  otel.Tracer("sportcenter/activities"),
		now:     now,
	}
}

// Save validates a and inserts or updates it. Only name and capacity are
// copied onto the stored row.
func (s *service) Save(ctx context.Context, a facility.Activity) (facility.Activity, error) {
	ctx, span := s.tracer.Start(ctx, "activities.save", trace.WithAttributes(
		attribute.Int64("activity.id", a.ID),
		attribute.Int("activity.capacity", a.Capacity),
	))
	defer span.End()

	saved, err := s.save(ctx, a)
	s.finish(ctx, span, "save", a.ID, err, facility.OutcomeSaved)
	if err != nil {
		return facility.Activity{}, err
	}
	return saved, nil
}

func (s *service) save(ctx context.Context, a facility.Activity) (facility.Activity, error) {
	if err := validation.CheckActivity(a); err != nil {
		return facility.Activity{}, err
	}

	var saved facility.Activity
	err := s.store.Update(ctx, func(tx store.Tx) error {
		if a.IsNew() {
			inserted, err := tx.InsertActivity(ctx, facility.Activity{
				Name:     a.Name,
				Capacity: a.Capacity,
			})
			if err != nil {
				return fmt.Errorf("failed to insert activity: %w", err)
			}
			saved = inserted
		} else {
			current, err := tx.GetActivity(ctx, a.ID)
			if errors.Is(err, store.ErrNotFound) {
				s.logger.WarnContext(ctx, "update target not found, nothing saved", "id", a.ID)
				saved = a
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get activity: %w", err)
			}
			current.Name = a.Name
			current.Capacity = a.Capacity
			if err := tx.UpdateActivity(ctx, current); err != nil {
				return fmt.Errorf("failed to update activity: %w", err)
			}
			saved = current
		}
		return journal.Record(ctx, tx, journal.ActivitySaved, journal.EntityActivity, saved.ID, saved, s.now())
	})
	if err != nil {
		return facility.Activity{}, facility.Storage("save activity", err)
	}
	return saved, nil
}

// Delete removes the activity with id. A referenced activity is a
// *facility.ConflictError; a missing one is a no-op.
func (s *service) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "activities.delete", trace.WithAttributes(
		attribute.Int64("activity.id", id),
	))
	defer span.End()

	err := s.store.Update(ctx, func(tx store.Tx) error {
		if err := admission.GuardActivityDelete(ctx, tx, id); err != nil {
			return err
		}
		current, err := tx.GetActivity(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get activity: %w", err)
		}
		if err := tx.DeleteActivity(ctx, id); err != nil {
			if errors.Is(err, store.ErrReferenced) {
				return &facility.ConflictError{Entity: journal.EntityActivity, ID: id}
			}
			return fmt.Errorf("failed to delete activity: %w", err)
		}
		return journal.Record(ctx, tx, journal.ActivityDeleted, journal.EntityActivity, id, current, s.now())
	})
	err = facility.Storage("delete activity", err)
	s.finish(ctx, span, "delete", id, err, facility.OutcomeDeleted)
	return err
}

// Get retrieves an activity by ID.
func (s *service) Get(ctx context.Context, id int64) (facility.Activity, error) {
	var a facility.Activity
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		a, err = tx.GetActivity(ctx, id)
		return err
	})
	if err != nil {
		return facility.Activity{}, fmt.Errorf("failed to get activity: %w", err)
	}
	return a, nil
}

// List returns all activities ordered by name.
func (s *service) List(ctx context.Context) ([]facility.Activity, error) {
	var list []facility.Activity
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		list, err = tx.ListActivities(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list, nil
}

// Search finds activities by name.
func (s *service) Search(ctx context.Context, query string) ([]facility.Activity, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return list, nil
	}
	matches := make([]facility.Activity, 0, len(list))
	for _, a := range list {
		if strings.Contains(strings.ToLower(a.Name), query) {
			matches = append(matches, a)
		}
	}
	return matches, nil
}

func (s *service) FieldErrors(a facility.Activity) map[string]string {
	return validation.ActivityFieldErrors(a)
}

func (s *service) finish(ctx context.Context, span trace.Span, op string, id int64, err error, success facility.OutcomeKind) {
	s.metrics.Observe(journal.EntityActivity, op, err, success)
	outcome := facility.Describe(err, success)
	span.SetAttributes(attribute.String("outcome", string(outcome.Kind)))

	switch outcome.Kind {
	case facility.OutcomeSaved, facility.OutcomeDeleted:
		s.logger.DebugContext(ctx, "activity "+op, "id", id)
	case facility.OutcomeFailed, facility.OutcomeInternal:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.ErrorContext(ctx, "activity "+op+" failed", "id", id, "error", err)
	default:
		s.logger.InfoContext(ctx, "activity "+op+" rejected", "id", id, "kind", outcome.Kind, "reason", outcome.Reason)
	}
}
