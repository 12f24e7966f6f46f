package faulty

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportcenter/internal/facility"
	"sportcenter/internal/store"
	"sportcenter/internal/store/memory"
)

func insertMember(ctx context.Context, st store.Store) error {
	return st.Update(ctx, func(tx store.Tx) error {
		_, err := tx.InsertMember(ctx, facility.Member{Name: "Ana", Email: "ana@club.es"})
		return err
	})
}

func countMembers(t *testing.T, st store.Store) int {
	t.Helper()
	var n int
	require.NoError(t, st.View(context.Background(), func(tx store.Tx) error {
		var err error
		n, err = tx.CountMembers(context.Background())
		return err
	}))
	return n
}

func TestFullBlastRadiusRollsBackEveryUpdate(t *testing.T) {
	ctx := context.Background()
	st := Wrap(memory.New(), Config{BlastRadius: 1})

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, insertMember(ctx, st), ErrInjected)
	}
	assert.Equal(t, 3, st.Injected())
	assert.Zero(t, countMembers(t, st))
}

func TestZeroBlastRadiusPassesThrough(t *testing.T) {
	ctx := context.Background()
	st := Wrap(memory.New(), Config{})

	require.NoError(t, insertMember(ctx, st))
	assert.Zero(t, st.Injected())
	assert.Equal(t, 1, countMembers(t, st))
}

func TestPartialBlastRadiusIsReproducible(t *testing.T) {
	run := func() []bool {
		st := Wrap(memory.New(), Config{BlastRadius: 0.5, Seed: 7})
		var failed []bool
		for i := 0; i < 20; i++ {
			failed = append(failed, insertMember(context.Background(), st) != nil)
		}
		return failed
	}
	first := run()
	assert.Equal(t, first, run())
	assert.Contains(t, first, true)
	assert.Contains(t, first, false)
}

func TestLatencyHonoursContext(t *testing.T) {
	st := Wrap(memory.New(), Config{Latency: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, insertMember(ctx, st), context.Canceled)
}
