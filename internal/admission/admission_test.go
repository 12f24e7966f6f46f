package admission

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"sportcenter/internal/facility"
	"sportcenter/internal/store"
	"sportcenter/internal/store/memory"
)

var day = time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

type fixture struct {
	st       *memory.Store
	member   facility.Member
	activity facility.Activity
}

func newFixture(t require.TestingT, capacity int) *fixture {
	f := &fixture{st: memory.New()}
	err := f.st.Update(context.Background(), func(tx store.Tx) error {
		var err error
		if f.member, err = tx.InsertMember(context.Background(), facility.Member{Name: "Ana", Email: "ana@club.es", Active: true}); err != nil {
			return err
		}
		f.activity, err = tx.InsertActivity(context.Background(), facility.Activity{Name: "Yoga", Capacity: capacity})
		return err
	})
	require.NoError(t, err)
	return f
}

// book runs the admission check and, if it passes, inserts a reservation
// in the same unit of work.
func (f *fixture) book(ctx context.Context, on time.Time) (facility.Reservation, error) {
	var saved facility.Reservation
	err := f.st.Update(ctx, func(tx store.Tx) error {
		r := facility.Reservation{MemberID: f.member.ID, ActivityID: f.activity.ID, Date: on}
		if err := Require(ctx, tx, r); err != nil {
			return err
		}
		var err error
		saved, err = tx.InsertReservation(ctx, r)
		return err
	})
	return saved, err
}

func (f *fixture) count(t require.TestingT) int {
	var n int
	require.NoError(t, f.st.View(context.Background(), func(tx store.Tx) error {
		var err error
		n, err = tx.CountReservations(context.Background(), f.activity.ID, day, 0)
		return err
	}))
	return n
}

func TestCapacityAdmitsExactlyN(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		capacity := rapid.IntRange(1, 15).Draw(t, "capacity")
		f := newFixture(t, capacity)

		for i := 0; i < capacity; i++ {
			_, err := f.book(ctx, day)
			require.NoError(t, err)
		}

		_, err := f.book(ctx, day)
		var full *facility.CapacityExceededError
		require.ErrorAs(t, err, &full)
		assert.Equal(t, capacity, full.Capacity)
		assert.Equal(t, capacity, f.count(t), "rejected attempt must not be stored")

		// Another day is unaffected.
		_, err = f.book(ctx, day.AddDate(0, 0, 1))
		assert.NoError(t, err)
	})
}

func TestEditOnFullDayDoesNotCountItself(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2)
	first, err := f.book(ctx, day)
	require.NoError(t, err)
	_, err = f.book(ctx, day)
	require.NoError(t, err)

	err = f.st.View(ctx, func(tx store.Tx) error {
		ok, err := CanAdmit(ctx, tx, f.activity.ID, day, first.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = CanAdmit(ctx, tx, f.activity.ID, day, 0)
		require.NoError(t, err)
		assert.False(t, ok)

		d, err := Evaluate(ctx, tx, f.activity.ID, day, 0)
		require.NoError(t, err)
		assert.Equal(t, Decision{Admit: false, Booked: 2, Capacity: 2}, d)
		assert.Zero(t, d.Remaining())
		return nil
	})
	require.NoError(t, err)
}

func TestEvaluateUnknownActivity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)
	err := f.st.View(ctx, func(tx store.Tx) error {
		_, err := Evaluate(ctx, tx, 999, day, 0)
		return err
	})
	var ve *facility.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "activity_id", ve.Field)
}

func TestDeleteGuards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 3)

	err := f.st.View(ctx, func(tx store.Tx) error {
		assert.NoError(t, GuardMemberDelete(ctx, tx, f.member.ID))
		assert.NoError(t, GuardActivityDelete(ctx, tx, f.activity.ID))
		return nil
	})
	require.NoError(t, err)

	_, err = f.book(ctx, day)
	require.NoError(t, err)

	err = f.st.View(ctx, func(tx store.Tx) error {
		var conflict *facility.ConflictError
		err := GuardMemberDelete(ctx, tx, f.member.ID)
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "member", conflict.Entity)

		err = GuardActivityDelete(ctx, tx, f.activity.ID)
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, f.activity.ID, conflict.ID)
		return nil
	})
	require.NoError(t, err)
}

func TestDeleteGuardsIgnoreUnpersistedIDs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)

	err := f.st.View(ctx, func(tx store.Tx) error {
		for _, id := range []int64{0, -1} {
			assert.NoError(t, GuardMemberDelete(ctx, tx, id))
			assert.NoError(t, GuardActivityDelete(ctx, tx, id))
		}
		return nil
	})
	require.NoError(t, err)
}
