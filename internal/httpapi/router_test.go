package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"sportcenter/internal/app"
	"sportcenter/internal/facility"
	"sportcenter/internal/httpx"
	"sportcenter/internal/journal"
	"sportcenter/internal/stats"
	"sportcenter/internal/store/memory"
)

var now = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

type testServer struct {
	t   *testing.T
	srv *httptest.Server
}

func newTestServer(t *testing.T, limiter *rate.Limiter) *testServer {
	t.Helper()
	reg := prometheus.NewRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := app.New(memory.New(), logger, reg, func() time.Time { return now })
	srv := httptest.NewServer(NewRouter(a, Options{Limiter: limiter, Gatherer: reg}))
	t.Cleanup(srv.Close)
	return &testServer{t: t, srv: srv}
}

func (s *testServer) do(method, path, body string, out any) int {
	s.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.srv.URL+path, r)
	require.NoError(s.t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	if out != nil {
		require.NoError(s.t, json.NewDecoder(bytes.NewReader(raw)).Decode(out), string(raw))
	}
	return resp.StatusCode
}

func TestReservationFlow(t *testing.T) {
	s := newTestServer(t, nil)

	var member facility.Member
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/members", `{"name":"Ana","email":"ana@club.es"}`, &member))
	assert.True(t, member.Active)

	var activity facility.Activity
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/activities", `{"name":"Yoga","capacity":"1"}`, &activity))
	assert.Equal(t, 1, activity.Capacity)

	body := `{"member_id":` + itoa(member.ID) + `,"activity_id":` + itoa(activity.ID) + `,"date":"2026-10-17"}`
	var booked facility.Reservation
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/reservations", body, &booked))
	assert.Greater(t, booked.ID, int64(0))

	var fetched json.RawMessage
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/reservations/"+itoa(booked.ID), "", &fetched))
	assert.Contains(t, string(fetched), `"date":"2026-10-17"`)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPut, "/reservations/"+itoa(booked.ID), string(fetched), nil))

	var full httpx.ErrorBody
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/reservations", body, &full))
	assert.Equal(t, facility.OutcomeFull, full.Kind)

	var admission map[string]any
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/admission?activity_id="+itoa(activity.ID)+"&date=2026-10-17", "", &admission))
	assert.Equal(t, false, admission["admit"])

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/admission?activity_id="+itoa(activity.ID)+"&date=2026-10-17&exclude_id="+itoa(booked.ID), "", &admission))
	assert.Equal(t, true, admission["admit"])

	var blocked httpx.ErrorBody
	assert.Equal(t, http.StatusConflict, s.do(http.MethodDelete, "/members/"+itoa(member.ID), "", &blocked))
	assert.Equal(t, facility.OutcomeBlocked, blocked.Kind)

	var bookings []facility.Booking
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/reservations", "", &bookings))
	require.Len(t, bookings, 1)
	assert.Equal(t, "Ana", bookings[0].MemberName)
	assert.Equal(t, "Yoga", bookings[0].ActivityName)

	var sum stats.Summary
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/stats", "", &sum))
	assert.Equal(t, stats.Summary{MemberCount: 1, ActivityCount: 1, TopActivityName: "Yoga"}, sum)

	var deleted facility.Outcome
	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/reservations/"+itoa(booked.ID), "", &deleted))
	assert.Equal(t, facility.OutcomeDeleted, deleted.Kind)
	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/members/"+itoa(member.ID), "", nil))

	var events []journal.Event
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/events?after=0", "", &events))
	require.Len(t, events, 6)
	assert.Equal(t, journal.ReservationSaved, events[3].Type)
	assert.Equal(t, journal.MemberDeleted, events[5].Type)

	var page []journal.Event
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/events?after="+itoa(events[2].Seq)+"&limit=1", "", &page))
	require.Len(t, page, 1)
	assert.Equal(t, events[3].ID, page[0].ID)
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t, nil)

	var invalid httpx.ErrorBody
	assert.Equal(t, http.StatusUnprocessableEntity, s.do(http.MethodPost, "/members", `{"name":"Ana","email":"a@b"}`, &invalid))
	assert.Equal(t, facility.OutcomeInvalid, invalid.Kind)
	assert.Equal(t, "email", invalid.Field)

	assert.Equal(t, http.StatusUnprocessableEntity, s.do(http.MethodPost, "/activities", `{"name":"Yoga","capacity":"many"}`, &invalid))
	assert.Equal(t, "capacity", invalid.Field)

	assert.Equal(t, http.StatusUnprocessableEntity, s.do(http.MethodPost, "/reservations", `{"member_id":1,"activity_id":1,"date":"2026-10-15"}`, &invalid))
	assert.Equal(t, "date", invalid.Field)

	assert.Equal(t, http.StatusUnprocessableEntity, s.do(http.MethodPost, "/reservations", `{"member_id":1,"activity_id":1,"date":"2026-10-20"}`, &invalid))
	assert.Equal(t, "member_id", invalid.Field)

	assert.Equal(t, http.StatusUnprocessableEntity, s.do(http.MethodPost, "/reservations", `{"member_id":1,"activity_id":1,"date":"20/10/2026"}`, &invalid))
	assert.Equal(t, "date", invalid.Field)

	fields := map[string]string{}
	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/reservations/validate", `{"date":"2026-10-15"}`, &fields))
	assert.Equal(t, map[string]string{
		"member_id":   "a member must be selected",
		"activity_id": "an activity must be selected",
		"date":        "the date cannot be earlier than today",
	}, fields)

	fields = map[string]string{}
	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/activities/validate", `{"name":"","capacity":"x"}`, &fields))
	assert.Equal(t, map[string]string{
		"name":     "activity name is required",
		"capacity": "maximum capacity must be an integer",
	}, fields)

	var none map[string]string
	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/members/validate", `{"name":"Ana","email":"ana@club.es"}`, &none))
	assert.Empty(t, none)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/members", `{not json`, nil))
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/members/99", "", nil))
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/members/abc", "", nil))
}

func TestUnpersistedIDs(t *testing.T) {
	s := newTestServer(t, nil)

	var bad httpx.ErrorBody
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, "/members/0", `{"name":"Ana","email":"ana@club.es"}`, &bad))
	assert.Equal(t, facility.OutcomeKind("bad_request"), bad.Kind)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, "/activities/0", `{"name":"Yoga","capacity":3}`, nil))
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, "/reservations/-3", `{"member_id":1,"activity_id":1,"date":"2026-10-20"}`, nil))

	var members []facility.Member
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/members", "", &members))
	assert.Empty(t, members, "rejected PUT created nothing")

	for _, path := range []string{"/members/0", "/members/-1", "/activities/0", "/reservations/0"} {
		var outcome facility.Outcome
		assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, path, "", &outcome), path)
		assert.Equal(t, facility.OutcomeDeleted, outcome.Kind, path)
	}
}

func TestDraftEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	var member facility.Member
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/members/draft", "", &member))
	assert.True(t, member.Active)
	assert.Zero(t, member.ID)

	var draft facility.Reservation
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/reservations/draft?activity_id=4", "", &draft))
	assert.Equal(t, int64(4), draft.ActivityID)
	assert.Zero(t, draft.MemberID)
	assert.Equal(t, "2026-10-16", facility.FormatDay(draft.Date))
}

func TestRateLimitAppliesToMutations(t *testing.T) {
	s := newTestServer(t, rate.NewLimiter(rate.Every(time.Hour), 1))

	assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/members", `{"name":"Ana","email":"ana@club.es"}`, nil))

	var limited httpx.ErrorBody
	assert.Equal(t, http.StatusTooManyRequests, s.do(http.MethodPost, "/members", `{"name":"Luis","email":"luis@club.es"}`, &limited))
	assert.Equal(t, facility.OutcomeKind("rate_limited"), limited.Kind)

	// Reads are not limited.
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/members", "", nil))
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/members", "", nil))
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)

	var health map[string]string
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/healthz", "", &health))
	assert.Equal(t, "healthy", health["status"])

	s.do(http.MethodPost, "/members", `{"name":"Ana","email":"ana@club.es"}`, nil)

	resp, err := http.Get(s.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `sportcenter_operations_total{entity="member",op="save",outcome="saved"} 1`)
}

func TestNewLimiter(t *testing.T) {
	assert.Equal(t, rate.Inf, NewLimiter(0, 5).Limit())
	l := NewLimiter(60, 0)
	assert.Equal(t, 1, l.Burst())
	assert.InDelta(t, 1.0, float64(l.Limit()), 0.0001)
}

func itoa(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
