// internal/reservations/handler.go
package reservations

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sportcenter/internal/facility"
	"sportcenter/internal/httpx"
	"sportcenter/internal/validation"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the reservation endpoints. Mutating routes are wrapped
// with limit.
func (h *Handler) Routes(limit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.handleList)
	r.Get("/draft", h.handleDraft)
	r.Post("/validate", h.handleValidate)
	r.Get("/{id}", h.handleGet)
	r.Group(func(r chi.Router) {
		r.Use(limit)
		r.Post("/", h.handleCreate)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
	})
	return r
}

// HandleAdmission answers GET /admission?activity_id=&date=&exclude_id=.
func (h *Handler) HandleAdmission(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	activityID, err := httpx.ParseID(q.Get("activity_id"))
	if err != nil {
		httpx.BadRequest(w, err.Error())
		return
	}
	excludeID, err := httpx.ParseID(q.Get("exclude_id"))
	if err != nil {
		httpx.BadRequest(w, err.Error())
		return
	}
	day, err := facility.ParseDay(q.Get("date"))
	if err != nil || day.IsZero() {
		httpx.BadRequest(w, "date must use the YYYY-MM-DD format")
		return
	}

	d, err := h.service.Admission(r.Context(), activityID, day, excludeID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, AdmissionResponse{
		Admit:     d.Admit,
		Booked:    d.Booked,
		Capacity:  d.Capacity,
		Remaining: d.Remaining(),
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.List(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, bookings)
}

func (h *Handler) handleDraft(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	memberID, err := httpx.ParseID(q.Get("member_id"))
	if err != nil {
		httpx.BadRequest(w, err.Error())
		return
	}
	activityID, err := httpx.ParseID(q.Get("activity_id"))
	if err != nil {
		httpx.BadRequest(w, err.Error())
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.service.Draft(memberID, activityID))
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ReservationRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err.Error())
		return
	}
	candidate, err := req.Reservation(0)
	if err != nil {
		errs := h.service.FieldErrors(facility.Reservation{MemberID: req.MemberID, ActivityID: req.ActivityID})
		errs[validation.FieldDate] = err.Error()
		httpx.WriteJSON(w, http.StatusOK, errs)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.service.FieldErrors(candidate))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r)
	if err != nil {
		httpx.BadRequest(w, err.Error())
		return
	}
	res, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, 0, http.StatusCreated)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ExistingIDParam(r)
	if err != nil {
		httpx.BadRequest(w, err.Error())
		return
	}
	h.save(w, r, id, http.StatusOK)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, id int64, status int) {
	var req ReservationRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err.Error())
		return
	}
	candidate, err := req.Reservation(id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	res, err := h.service.Save(r.Context(), candidate)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, status, res)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r)
	if err != nil {
		httpx.BadRequest(w, err.Error())
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, facility.Describe(nil, facility.OutcomeDeleted))
}
