// Package httpapi assembles the HTTP surface of the engine.
package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"sportcenter/internal/activities"
	"sportcenter/internal/app"
	"sportcenter/internal/httpx"
	"sportcenter/internal/journal"
	"sportcenter/internal/membership"
	"sportcenter/internal/reservations"
	"sportcenter/internal/store"
)

// Options tune the router.
type Options struct {
	Limiter  *rate.Limiter
	Gatherer prometheus.Gatherer
}

// NewRouter mounts every endpoint of a.
func NewRouter(a *app.App, opts Options) http.Handler {
	limiter := opts.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	limit := RateLimit(limiter)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(a.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealth(a.Store))

	reservationHandler := reservations.NewHandler(a.Reservations)
	r.Mount("/members", membership.NewHandler(a.Members).Routes(limit))
	r.Mount("/activities", activities.NewHandler(a.Activities).Routes(limit))
	r.Mount("/reservations", reservationHandler.Routes(limit))
	r.Get("/admission", reservationHandler.HandleAdmission)
	r.Get("/stats", a.Stats.HandleStats)
	r.Get("/events", handleEvents(a.Store))

	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func handleHealth(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := st.View(r.Context(), func(tx store.Tx) error {
			_, err := tx.CountMembers(r.Context())
			return err
		})
		if err != nil {
			httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}

// handleEvents answers GET /events?after=&limit= with journal events in
// sequence order.
func handleEvents(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		after, err := httpx.ParseID(q.Get("after"))
		if err != nil {
			httpx.BadRequest(w, err.Error())
			return
		}
		limit := 0
		if s := q.Get("limit"); s != "" {
			if limit, err = strconv.Atoi(s); err != nil {
				httpx.BadRequest(w, "limit must be an integer")
				return
			}
		}

		var events []journal.Event
		err = st.View(r.Context(), func(tx store.Tx) error {
			var err error
			events, err = tx.ListEvents(r.Context(), after, journal.Limit(limit))
			return err
		})
		if err != nil {
			httpx.WriteError(w, fmt.Errorf("failed to list events: %w", err))
			return
		}
		if events == nil {
			events = []journal.Event{}
		}
		httpx.WriteJSON(w, http.StatusOK, events)
	}
}
