// internal/membership/implementation.go
package membership

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
	tracer  trace.Tracer
	now     func() time.Time
}

// NewService creates a new membership service instance.
func NewService(st store.Store, logger *slog.Logger, m *metrics.Metrics, now func() time.Time) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &service{
		store:   st,
		logger:  logger.With("entity", journal.EntityMember),
		metrics: m,
		tracer:  otel.Tracer("sportcenter/membership"),
		now:     now,
	}
}

// Save validates m and inserts or updates it. Updating a member that no
// longer exists saves nothing.
func (s *service) Save(ctx context.Context, m facility.Member) (facility.Member, error) {
	ctx, span := s.tracer.Start(ctx, "membership.save", trace.WithAttributes(
		attribute.Int64("member.id", m.ID),
	))
	defer span.End()

	saved, err := s.save(ctx, m)
	s.finish(ctx, span, "save", m.ID, err, facility.OutcomeSaved)
	if err != nil {
		return facility.Member{}, err
	}
	return saved, nil
}

func (s *service) save(ctx context.Context, m facility.Member) (facility.Member, error) {
	if err := validation.CheckMember(m); err != nil {
		return facility.Member{}, err
	}

	var saved facility.Member
	err := s.store.Update(ctx, func(tx store.Tx) error {
		if m.IsNew() {
			inserted, err := tx.InsertMember(ctx, facility.Member{
				Name:   m.Name,
				Email:  m.Email,
				Active: m.Active,
			})
			if err != nil {
				return fmt.Errorf("failed to insert member: %w", err)
			}
			saved = inserted
		} else {
			current, err := tx.GetMember(ctx, m.ID)
			if errors.Is(err, store.ErrNotFound) {
				s.logger.WarnContext(ctx, "update target not found, nothing saved", "id", m.ID)
				saved = m
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get member: %w", err)
			}
			current.Name = m.Name
			current.Email = m.Email
			current.Active = m.Active
			if err := tx.UpdateMember(ctx, current); err != nil {
				return fmt.Errorf("failed to update member: %w", err)
			}
			saved = current
		}
		return journal.Record(ctx, tx, journal.MemberSaved, journal.EntityMember, saved.ID, saved, s.now())
	})
	if err != nil {
		return facility.Member{}, facility.Storage("save member", err)
	}
	return saved, nil
}

// Delete removes the member with id. A referenced member is a
// *facility.ConflictError; a missing one is a no-op.
func (s *service) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "membership.delete", trace.WithAttributes(
		attribute.Int64("member.id", id),
	))
	defer span.End()

	err := s.store.Update(ctx, func(tx store.Tx) error {
		if err := admission.GuardMemberDelete(ctx, tx, id); err != nil {
			return err
		}
		current, err := tx.GetMember(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get member: %w", err)
		}
		if err := tx.DeleteMember(ctx, id); err != nil {
			if errors.Is(err, store.ErrReferenced) {
				return &facility.ConflictError{Entity: journal.EntityMember, ID: id}
			}
			return fmt.Errorf("failed to delete member: %w", err)
		}
		return journal.Record(ctx, tx, journal.MemberDeleted, journal.EntityMember, id, current, s.now())
	})
	err = facility.Storage("delete member", err)
	s.finish(ctx, span, "delete", id, err, facility.OutcomeDeleted)
	return err
}

// Get retrieves a member by ID.
func (s *service) Get(ctx context.Context, id int64) (facility.Member, error) {
	var m facility.Member
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		m, err = tx.GetMember(ctx, id)
		return err
	})
	if err != nil {
		return facility.Member{}, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// List returns all members ordered by name.
func (s *service) List(ctx context.Context) ([]facility.Member, error) {
	var members []facility.Member
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		members, err = tx.ListMembers(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Name < members[j].Name
	})
	return members, nil
}

func (s *service) Draft() facility.Member {
	return facility.NewMember()
}

func (s *service) FieldErrors(m facility.Member) map[string]string {
	return validation.MemberFieldErrors(m)
}

func (s *service) finish(ctx context.Context, span trace.Span, op string, id int64, err error, success facility.OutcomeKind) {
	s.metrics.Observe(journal.EntityMember, op, err, success)
	outcome := facility.Describe(err, success)
	span.SetAttributes(attribute.String("outcome", string(outcome.Kind)))

	switch outcome.Kind {
	case facility.OutcomeSaved, facility.OutcomeDeleted:
		s.logger.DebugContext(ctx, "member "+op, "id", id)
	case facility.OutcomeFailed, facility.OutcomeInternal:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.ErrorContext(ctx, "member "+op+" failed", "id", id, "error", err)
	default:
		s.logger.InfoContext(ctx, "member "+op+" rejected", "id", id, "kind", outcome.Kind, "reason", outcome.Reason)
	}
}
