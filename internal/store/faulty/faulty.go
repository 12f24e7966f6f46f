// Package faulty wraps a store.Store with injected latency and commit
// failures, for exercising the storage-failure paths of the engine.
package faulty

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sportcenter/internal/store"
)

// ErrInjected is returned by a unit of work chosen to fail.
var ErrInjected = errors.New("injected store failure")

// Config controls the injected faults.
type Config struct {
	// BlastRadius is the share of Updates that fail, 0.0 to 1.0.
	BlastRadius float64
	// Latency is added before every unit of work.
	Latency time.Duration
	// Seed makes the failure sequence reproducible.
	Seed uint64
}

// Store is a store.Store that fails some of its Updates after the work
// ran, so the inner store rolls them back.
type Store struct {
	store.Store
	cfg Config

	mu   sync.Mutex
	rng  *rand.Rand
	hits int
}

var _ store.Store = (*Store)(nil)

func Wrap(inner store.Store, cfg Config) *Store {
	return &Store{
		Store: inner,
		cfg:   cfg,
		rng:   rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}
}

// Injected returns how many failures were injected so far.
func (s *Store) Injected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits
}

func (s *Store) roll() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.BlastRadius <= 0 {
		return false
	}
	if s.cfg.BlastRadius >= 1 || s.rng.Float64() < s.cfg.BlastRadius {
		s.hits++
		return true
	}
	return false
}

func (s *Store) delay(ctx context.Context) error {
	if s.cfg.Latency <= 0 {
		return nil
	}
	trace.SpanFromContext(ctx).AddEvent("chaos.latency", trace.WithAttributes(
		attribute.Int64("latency.ms", s.cfg.Latency.Milliseconds()),
	))
	select {
	case <-time.After(s.cfg.Latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Update implements store.Store.
func (s *Store) Update(ctx context.Context, fn func(tx store.Tx) error) error {
	if err := s.delay(ctx); err != nil {
		return err
	}
	return s.Store.Update(ctx, func(tx store.Tx) error {
		if err := fn(tx); err != nil {
			return err
		}
		if s.roll() {
			trace.SpanFromContext(ctx).AddEvent("chaos.failure")
			return ErrInjected
		}
		return nil
	})
}

// View implements store.Store.
func (s *Store) View(ctx context.Context, fn func(tx store.Tx) error) error {
	if err := s.delay(ctx); err != nil {
		return err
	}
	return s.Store.View(ctx, fn)
}
