// internal/activities/handler.go
package activities

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

// Routes mounts the activity endpoints. Mutating routes are wrapped with
// limit.
func (h *Handler) Routes(limit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.handleList)
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

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ActivityRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err.Error())
		return
	}
	a, err := req.Activity(0)
	if err != nil {
		errs := h.service.FieldErrors(facility.Activity{Name: req.Name, Capacity: 1})
		errs[validation.FieldCapacity] = err.Error()
		httpx.WriteJSON(w, http.StatusOK, errs)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.service.FieldErrors(a))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r)
	if err != nil {
		httpx.BadRequest(w, err.Error())
		return
	}
	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, a)
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
	var req ActivityRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err.Error())
		return
	}
	candidate, err := req.Activity(id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	a, err := h.service.Save(r.Context(), candidate)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, status, a)
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
