package client

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportcenter/internal/app"
	"sportcenter/internal/facility"
	"sportcenter/internal/httpapi"
	"sportcenter/internal/store/memory"
)

func TestClientAgainstRouter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	a := app.New(memory.New(), slog.New(slog.NewTextHandler(io.Discard, nil)), nil, func() time.Time { return now })

	m, err := a.Members.Save(ctx, facility.Member{Name: "Ana", Email: "ana@club.es", Active: true})
	require.NoError(t, err)
	act, err := a.Activities.Save(ctx, facility.Activity{Name: "Yoga", Capacity: 2})
	require.NoError(t, err)
	_, err = a.Reservations.Save(ctx, facility.Reservation{MemberID: m.ID, ActivityID: act.ID, Date: now})
	require.NoError(t, err)

	srv := httptest.NewServer(httpapi.NewRouter(a, httpapi.Options{}))
	defer srv.Close()
	c := New(srv.URL + "/")

	sum, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Yoga", sum.TopActivityName)
	assert.Equal(t, 1, sum.MemberCount)

	adm, err := c.Admission(ctx, act.ID, now)
	require.NoError(t, err)
	assert.True(t, adm.Admit)
	assert.Equal(t, 1, adm.Remaining)

	bookings, err := c.Bookings(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "Ana", bookings[0].MemberName)

	_, err = c.Admission(ctx, 999, now)
	assert.ErrorContains(t, err, "422")
}
