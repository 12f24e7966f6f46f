// Package httpx holds the JSON request and response helpers shared by the
// per-domain handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sportcenter/internal/facility"
	"sportcenter/internal/store"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Kind  facility.OutcomeKind `json:"kind"`
	Field string               `json:"field,omitempty"`
	Error string               `json:"error"`
}

// WriteJSON writes v with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Status maps an outcome kind to its HTTP status code.
func Status(kind facility.OutcomeKind) int {
	switch kind {
	case facility.OutcomeSaved, facility.OutcomeDeleted:
		return http.StatusOK
	case facility.OutcomeInvalid:
		return http.StatusUnprocessableEntity
	case facility.OutcomeFull, facility.OutcomeBlocked:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err. store.ErrNotFound becomes a 404; everything else
// goes through facility.Describe.
func WriteError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		WriteJSON(w, http.StatusNotFound, ErrorBody{Kind: "not_found", Error: err.Error()})
		return
	}
	outcome := facility.Describe(err, facility.OutcomeInternal)
	WriteJSON(w, Status(outcome.Kind), ErrorBody{
		Kind:  outcome.Kind,
		Field: outcome.Field,
		Error: outcome.Reason,
	})
}

// BadRequest writes a 400 with message.
func BadRequest(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusBadRequest, ErrorBody{Kind: "bad_request", Error: message})
}

// Decode reads a JSON body into v.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// IDParam parses the {id} route parameter.
func IDParam(r *http.Request) (int64, error) {
	return ParseID(chi.URLParam(r, "id"))
}

// ExistingIDParam is IDParam for routes that address a stored row, where
// an id <= 0 can never match.
func ExistingIDParam(r *http.Request) (int64, error) {
	id, err := IDParam(r)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid id %d: must be positive", id)
	}
	return id, nil
}

// ParseID parses a decimal id. An empty string is 0.
func ParseID(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
