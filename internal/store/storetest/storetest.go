// Package storetest runs the behaviour every store.Store must share
// against a concrete implementation.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportcenter/internal/facility"
	"sportcenter/internal/journal"
	"sportcenter/internal/store"
)

// Opener returns a fresh, empty store for one subtest.
type Opener func(t *testing.T) store.Store

var day = time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

// Run executes the shared store tests.
func Run(t *testing.T, open Opener) {
	t.Run("MembersRoundTrip", func(t *testing.T) { testMembers(t, open(t)) })
	t.Run("ActivitiesRoundTrip", func(t *testing.T) { testActivities(t, open(t)) })
	t.Run("ReservationQueries", func(t *testing.T) { testReservations(t, open(t)) })
	t.Run("FailedUpdateRollsBack", func(t *testing.T) { testRollback(t, open(t)) })
	t.Run("ViewIsReadOnly", func(t *testing.T) { testReadOnly(t, open(t)) })
	t.Run("ReferencesAreEnforced", func(t *testing.T) { testReferences(t, open(t)) })
	t.Run("Journal", func(t *testing.T) { testJournal(t, open(t)) })
}

func seed(t *testing.T, st store.Store) (facility.Member, facility.Activity) {
	t.Helper()
	ctx := context.Background()
	var m facility.Member
	var a facility.Activity
	require.NoError(t, st.Update(ctx, func(tx store.Tx) error {
		var err error
		if m, err = tx.InsertMember(ctx, facility.Member{Name: "Ana", Email: "ana@club.es", Active: true}); err != nil {
			return err
		}
		a, err = tx.InsertActivity(ctx, facility.Activity{Name: "Yoga", Capacity: 2})
		return err
	}))
	return m, a
}

func testMembers(t *testing.T, st store.Store) {
	ctx := context.Background()
	var first, second facility.Member
	require.NoError(t, st.Update(ctx, func(tx store.Tx) error {
		var err error
		if first, err = tx.InsertMember(ctx, facility.Member{Name: "Zoe", Email: "zoe@club.es", Active: true}); err != nil {
			return err
		}
		second, err = tx.InsertMember(ctx, facility.Member{Name: "Ana", Email: "ana@club.es"})
		return err
	}))
	assert.Greater(t, first.ID, int64(0))
	assert.Greater(t, second.ID, first.ID)

	require.NoError(t, st.Update(ctx, func(tx store.Tx) error {
		second.Active = true
		second.Email = "ana@gym.es"
		return tx.UpdateMember(ctx, second)
	}))

	require.NoError(t, st.View(ctx, func(tx store.Tx) error {
		got, err := tx.GetMember(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, second, got)

		list, err := tx.ListMembers(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, first.ID, list[0].ID, "lists are in id order")

		n, err := tx.CountMembers(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		_, err = tx.GetMember(ctx, 9999)
		assert.ErrorIs(t, err, store.ErrNotFound)
		return nil
	}))

	require.NoError(t, st.Update(ctx, func(tx store.Tx) error {
		assert.ErrorIs(t, tx.UpdateMember(ctx, facility.Member{ID: 9999, Name: "x", Email: "x@y.z"}), store.ErrNotFound)
		assert.ErrorIs(t, tx.DeleteMember(ctx, 9999), store.ErrNotFound)
		return tx.DeleteMember(ctx, first.ID)
	}))
	require.NoError(t, st.View(ctx, func(tx store.Tx) error {
		n, err := tx.CountMembers(ctx)
		assert.Equal(t, 1, n)
		return err
	}))
}

func testActivities(t *testing.T, st store.Store) {
	ctx := context.Background()
	var a facility.Activity
	require.NoError(t, st.Update(ctx, func(tx store.Tx) error {
		var err error
		a, err = tx.InsertActivity(ctx, facility.Activity{Name: "Spinning", Capacity: 20})
		return err
	}))

	require.NoError(t, st.Update(ctx, func(tx store.Tx) error {
		a.Capacity = 25
		return tx.UpdateActivity(ctx, a)
	}))

	require.NoError(t, st.View(ctx, func(tx store.Tx) error {
		got, err := tx.GetActivity(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, 25, got.Capacity)

		n, err := tx.CountActivities(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		return nil
	}))

	require.NoError(t, st.Update(ctx, func(tx store.Tx) error {
		return tx.DeleteActivity(ctx, a.ID)
	}))
	require.NoError(t, st.View(ctx, func(tx store.Tx) error {
		_, err := tx.GetActivity(ctx, a.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
		return nil
	}))
}

func testReservations(t *testing.T, st store.Store) {
	ctx := context.Background()
	m, a := seed(t, st)

	var first, second facility.Reservation
	require.NoError(t, st.Update(ctx, func(tx store.Tx) error {
		var err error
		// Time of day is dropped: only the calendar day is kept.
		if first, err = tx.InsertReservation(ctx, facility.Reservation{MemberID: m.ID, ActivityID: a.ID, Date: day.Add(15 * time.Hour)}); err != nil {
			return err
		}
		second, err = tx.InsertReservation(ctx, facility.Reservation{MemberID: m.ID, ActivityID: a.ID, Date: day})
		return err
	}))

	require.NoError(t, st.View(ctx, func(tx store.Tx) error {
		got, err := tx.GetReservation(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "2026-11-02", facility.FormatDay(got.Date))

		n, err := tx.CountReservations(ctx, a.ID, day.Add(20*time.Hour), 0)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = tx.CountReservations(ctx, a.ID, day, first.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		n, err = tx.CountReservations(ctx, a.ID, day.AddDate(0, 0, 1), 0)
		require.NoError(t, err)
		assert.Zero(t, n)

		ok, err := tx.ExistsReservation(ctx, store.ReservationRef{MemberID: m.ID})
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = tx.ExistsReservation(ctx, store.ReservationRef{ActivityID: a.ID + 100})
		require.NoError(t, err)
		assert.False(t, ok)

		list, err := tx.ListReservations(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, []int64{first.ID, second.ID}, []int64{list[0].ID, list[1].ID})
		return nil
	}))

	require.NoError(t, st.Update(ctx, func(tx store.Tx) error {
		second.Date = day.AddDate(0, 0, 3)
		if err := tx.UpdateReservation(ctx, second); err != nil {
			return err
		}
		return tx.DeleteReservation(ctx, first.ID)
	}))
	require.NoError(t, st.View(ctx, func(tx store.Tx) error {
		got, err := tx.GetReservation(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, "2026-11-05", facility.FormatDay(got.Date))

		_, err = tx.GetReservation(ctx, first.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
		return nil
	}))
}

func testRollback(t *testing.T, st store.Store) {
	ctx := context.Background()
	boom := errors.New("boom")
	err := st.Update(ctx, func(tx store.Tx) error {
		if _, err := tx.InsertMember(ctx, facility.Member{Name: "Ana", Email: "ana@club.es"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	require.NoError(t, st.View(ctx, func(tx store.Tx) error {
		n, err := tx.CountMembers(ctx)
		assert.Zero(t, n)
		return err
	}))
}

func testReadOnly(t *testing.T, st store.Store) {
	ctx := context.Background()
	err := st.View(ctx, func(tx store.Tx) error {
		_, err := tx.InsertMember(ctx, facility.Member{Name: "Ana", Email: "ana@club.es"})
		return err
	})
	assert.ErrorIs(t, err, store.ErrReadOnly)
}

func testReferences(t *testing.T, st store.Store) {
	ctx := context.Background()
	m, a := seed(t, st)

	err := st.Update(ctx, func(tx store.Tx) error {
		_, err := tx.InsertReservation(ctx, facility.Reservation{MemberID: m.ID + 50, ActivityID: a.ID, Date: day})
		return err
	})
	assert.ErrorIs(t, err, store.ErrDangling)

	require.NoError(t, st.Update(ctx, func(tx store.Tx) error {
		_, err := tx.InsertReservation(ctx, facility.Reservation{MemberID: m.ID, ActivityID: a.ID, Date: day})
		return err
	}))

	err = st.Update(ctx, func(tx store.Tx) error {
		return tx.DeleteActivity(ctx, a.ID)
	})
	assert.ErrorIs(t, err, store.ErrReferenced)

	require.NoError(t, st.View(ctx, func(tx store.Tx) error {
		_, err := tx.GetActivity(ctx, a.ID)
		assert.NoError(t, err, "blocked delete leaves the row")
		return nil
	}))
}

func testJournal(t *testing.T, st store.Store) {
	ctx := context.Background()
	at := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	require.NoError(t, st.Update(ctx, func(tx store.Tx) error {
		for i := int64(1); i <= 3; i++ {
			if err := journal.Record(ctx, tx, journal.MemberSaved, journal.EntityMember, i, map[string]int64{"id": i}, at); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, st.View(ctx, func(tx store.Tx) error {
		all, err := tx.ListEvents(ctx, 0, 0)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, journal.MemberSaved, all[0].Type)
		assert.Equal(t, int64(1), all[0].EntityID)
		assert.JSONEq(t, `{"id":1}`, string(all[0].Payload))
		assert.True(t, at.Equal(all[0].CreatedAt))
		assert.Less(t, all[0].Seq, all[1].Seq)

		page, err := tx.ListEvents(ctx, all[0].Seq, 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, all[1].ID, page[0].ID)
		return nil
	}))
}
