package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportcenter/internal/app"
	"sportcenter/internal/facility"
	"sportcenter/internal/httpapi"
	"sportcenter/internal/stats"
	"sportcenter/internal/store/memory"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	a := app.New(memory.New(), nil, nil, nil)

	var out bytes.Buffer
	require.NoError(t, seed(ctx, a, &out))
	assert.Contains(t, out.String(), "member 1 Ana García")
	assert.Contains(t, out.String(), "activity 3 Yoga (capacity 15)")

	sum, err := a.Stats.Recompute(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.Summary{MemberCount: 3, ActivityCount: 3, TopActivityName: facility.NoReservations}, sum)
}

func TestPrintSummary(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	printSummary(&out, stats.Summary{MemberCount: 2, ActivityCount: 1, TopActivityName: "Yoga"})

	assert.Equal(t, "Sports center\n  members:      2\n  activities:   1\n  top activity: Yoga\n", out.String())
}

func TestMigrateWithMemoryStore(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	color.NoColor = true

	cmd := MigrateCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "schema ready (memory)")
}

func TestRemoteCommands(t *testing.T) {
	color.NoColor = true
	ctx := context.Background()
	now := time.Now()
	a := app.New(memory.New(), slog.New(slog.NewTextHandler(io.Discard, nil)), nil, nil)
	m, err := a.Members.Save(ctx, facility.Member{Name: "Ana", Email: "ana@club.es", Active: true})
	require.NoError(t, err)
	act, err := a.Activities.Save(ctx, facility.Activity{Name: "Yoga", Capacity: 1})
	require.NoError(t, err)
	_, err = a.Reservations.Save(ctx, facility.Reservation{MemberID: m.ID, ActivityID: act.ID, Date: now})
	require.NoError(t, err)

	srv := httptest.NewServer(httpapi.NewRouter(a, httpapi.Options{}))
	defer srv.Close()

	var out bytes.Buffer
	statsCmd := StatsCmd()
	statsCmd.SetOut(&out)
	statsCmd.SetArgs([]string{"--server", srv.URL})
	require.NoError(t, statsCmd.Execute())
	assert.Contains(t, out.String(), "top activity: Yoga")

	out.Reset()
	admissionCmd := AdmissionCmd()
	admissionCmd.SetOut(&out)
	admissionCmd.SetArgs([]string{"--server", srv.URL, "--activity", "1", "--date", facility.FormatDay(now)})
	require.NoError(t, admissionCmd.Execute())
	assert.Contains(t, out.String(), "FULL activity 1")
	assert.Contains(t, out.String(), "1 of 1 booked, 0 left")

	out.Reset()
	bookingsCmd := BookingsCmd()
	bookingsCmd.SetOut(&out)
	bookingsCmd.SetArgs([]string{"--server", srv.URL})
	require.NoError(t, bookingsCmd.Execute())
	assert.Contains(t, out.String(), "Ana\tYoga")
}
