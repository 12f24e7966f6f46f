// Package memory provides an in-process Store. An Update works on a copy of
// the state and swaps it in only when the unit of work succeeds.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"sportcenter/internal/facility"
	"sportcenter/internal/journal"
	"sportcenter/internal/store"
)

type state struct {
	members      map[int64]facility.Member
	activities   map[int64]facility.Activity
	reservations map[int64]facility.Reservation
	events       []journal.Event

	lastMember      int64
	lastActivity    int64
	lastReservation int64
	lastSeq         int64
}

func newState() *state {
	return &state{
		members:      make(map[int64]facility.Member),
		activities:   make(map[int64]facility.Activity),
		reservations: make(map[int64]facility.Reservation),
	}
}

func (s *state) clone() *state {
	c := &state{
		members:         make(map[int64]facility.Member, len(s.members)),
		activities:      make(map[int64]facility.Activity, len(s.activities)),
		reservations:    make(map[int64]facility.Reservation, len(s.reservations)),
		events:          append([]journal.Event(nil), s.events...),
		lastMember:      s.lastMember,
		lastActivity:    s.lastActivity,
		lastReservation: s.lastReservation,
		lastSeq:         s.lastSeq,
	}
	for k, v := range s.members {
		c.members[k] = v
	}
	for k, v := range s.activities {
		c.activities[k] = v
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	return c
}

// Store is a mutex-guarded in-memory store. Writers are serialised.
type Store struct {
	mu    sync.RWMutex
	state *state
}

var _ store.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{state: newState()}
}

// Update implements store.Store.
func (s *Store) Update(ctx context.Context, fn func(tx store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	if err := fn(&tx{state: working}); err != nil {
		return err
	}
	s.state = working
	return nil
}

// View implements store.Store.
func (s *Store) View(ctx context.Context, fn func(tx store.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&tx{state: s.state, readOnly: true})
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

type tx struct {
	state    *state
	readOnly bool
}

func (t *tx) writable() error {
	if t.readOnly {
		return store.ErrReadOnly
	}
	return nil
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (t *tx) ListMembers(ctx context.Context) ([]facility.Member, error) {
	out := make([]facility.Member, 0, len(t.state.members))
	for _, id := range sortedKeys(t.state.members) {
		out = append(out, t.state.members[id])
	}
	return out, nil
}

func (t *tx) GetMember(ctx context.Context, id int64) (facility.Member, error) {
	m, ok := t.state.members[id]
	if !ok {
		return facility.Member{}, store.ErrNotFound
	}
	return m, nil
}

func (t *tx) CountMembers(ctx context.Context) (int, error) {
	return len(t.state.members), nil
}

func (t *tx) InsertMember(ctx context.Context, m facility.Member) (facility.Member, error) {
	if err := t.writable(); err != nil {
		return facility.Member{}, err
	}
	t.state.lastMember++
	m.ID = t.state.lastMember
	t.state.members[m.ID] = m
	return m, nil
}

func (t *tx) UpdateMember(ctx context.Context, m facility.Member) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := t.state.members[m.ID]; !ok {
		return store.ErrNotFound
	}
	t.state.members[m.ID] = m
	return nil
}

func (t *tx) DeleteMember(ctx context.Context, id int64) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := t.state.members[id]; !ok {
		return store.ErrNotFound
	}
	for _, r := range t.state.reservations {
		if r.MemberID == id {
			return fmt.Errorf("%w: member %d by reservation %d", store.ErrReferenced, id, r.ID)
		}
	}
	delete(t.state.members, id)
	return nil
}

func (t *tx) ListActivities(ctx context.Context) ([]facility.Activity, error) {
	out := make([]facility.Activity, 0, len(t.state.activities))
	for _, id := range sortedKeys(t.state.activities) {
		out = append(out, t.state.activities[id])
	}
	return out, nil
}

func (t *tx) GetActivity(ctx context.Context, id int64) (facility.Activity, error) {
	a, ok := t.state.activities[id]
	if !ok {
		return facility.Activity{}, store.ErrNotFound
	}
	return a, nil
}

func (t *tx) CountActivities(ctx context.Context) (int, error) {
	return len(t.state.activities), nil
}

func (t *tx) InsertActivity(ctx context.Context, a facility.Activity) (facility.Activity, error) {
	if err := t.writable(); err != nil {
		return facility.Activity{}, err
	}
	t.state.lastActivity++
	a.ID = t.state.lastActivity
	t.state.activities[a.ID] = a
	return a, nil
}

func (t *tx) UpdateActivity(ctx context.Context, a facility.Activity) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := t.state.activities[a.ID]; !ok {
		return store.ErrNotFound
	}
	t.state.activities[a.ID] = a
	return nil
}

func (t *tx) DeleteActivity(ctx context.Context, id int64) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := t.state.activities[id]; !ok {
		return store.ErrNotFound
	}
	for _, r := range t.state.reservations {
		if r.ActivityID == id {
			return fmt.Errorf("%w: activity %d by reservation %d", store.ErrReferenced, id, r.ID)
		}
	}
	delete(t.state.activities, id)
	return nil
}

func (t *tx) ListReservations(ctx context.Context) ([]facility.Reservation, error) {
	out := make([]facility.Reservation, 0, len(t.state.reservations))
	for _, id := range sortedKeys(t.state.reservations) {
		out = append(out, t.state.reservations[id])
	}
	return out, nil
}

func (t *tx) GetReservation(ctx context.Context, id int64) (facility.Reservation, error) {
	r, ok := t.state.reservations[id]
	if !ok {
		return facility.Reservation{}, store.ErrNotFound
	}
	return r, nil
}

func (t *tx) checkRefs(r facility.Reservation) error {
	if _, ok := t.state.members[r.MemberID]; !ok {
		return fmt.Errorf("%w: member %d", store.ErrDangling, r.MemberID)
	}
	if _, ok := t.state.activities[r.ActivityID]; !ok {
		return fmt.Errorf("%w: activity %d", store.ErrDangling, r.ActivityID)
	}
	return nil
}

func (t *tx) InsertReservation(ctx context.Context, r facility.Reservation) (facility.Reservation, error) {
	if err := t.writable(); err != nil {
		return facility.Reservation{}, err
	}
	if err := t.checkRefs(r); err != nil {
		return facility.Reservation{}, err
	}
	t.state.lastReservation++
	r.ID = t.state.lastReservation
	r.Date = facility.Day(r.Date)
	t.state.reservations[r.ID] = r
	return r, nil
}

func (t *tx) UpdateReservation(ctx context.Context, r facility.Reservation) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := t.state.reservations[r.ID]; !ok {
		return store.ErrNotFound
	}
	if err := t.checkRefs(r); err != nil {
		return err
	}
	r.Date = facility.Day(r.Date)
	t.state.reservations[r.ID] = r
	return nil
}

func (t *tx) DeleteReservation(ctx context.Context, id int64) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := t.state.reservations[id]; !ok {
		return store.ErrNotFound
	}
	delete(t.state.reservations, id)
	return nil
}

func (t *tx) CountReservations(ctx context.Context, activityID int64, day time.Time, excludeID int64) (int, error) {
	n := 0
	for _, r := range t.state.reservations {
		if r.ActivityID != activityID || !facility.SameDay(r.Date, day) {
			continue
		}
		if excludeID > 0 && r.ID == excludeID {
			continue
		}
		n++
	}
	return n, nil
}

func (t *tx) ExistsReservation(ctx context.Context, ref store.ReservationRef) (bool, error) {
	if ref.MemberID == 0 && ref.ActivityID == 0 {
		return false, fmt.Errorf("reservation reference without member or activity")
	}
	for _, r := range t.state.reservations {
		if ref.MemberID != 0 && r.MemberID != ref.MemberID {
			continue
		}
		if ref.ActivityID != 0 && r.ActivityID != ref.ActivityID {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (t *tx) AppendEvent(ctx context.Context, e journal.Event) (journal.Event, error) {
	if err := t.writable(); err != nil {
		return journal.Event{}, err
	}
	t.state.lastSeq++
	e.Seq = t.state.lastSeq
	t.state.events = append(t.state.events, e)
	return e, nil
}

func (t *tx) ListEvents(ctx context.Context, afterSeq int64, limit int) ([]journal.Event, error) {
	limit = journal.Limit(limit)
	out := make([]journal.Event, 0, limit)
	for _, e := range t.state.events {
		if e.Seq <= afterSeq {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
