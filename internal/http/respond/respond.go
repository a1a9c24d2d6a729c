// Package respond writes JSON responses and maps domain errors to HTTP
// status codes.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kongbun/internal/auth"
	"github.com/MrJamesThe3rd/kongbun/internal/broadcast"
	"github.com/MrJamesThe3rd/kongbun/internal/ledger"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes err with the status its kind maps to. Unknown errors are
// logged and reported as a bare 500.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		JSON(w, status, errorResponse{Error: "internal error"})

		return
	}

	resp := errorResponse{Error: err.Error()}

	var verr *ledger.ValidationError
	if errors.As(err, &verr) {
		resp.Field = verr.Field
	}

	JSON(w, status, resp)
}

func Status(err error) int {
	switch {
	case errors.Is(err, ledger.ErrValidation),
		errors.Is(err, broadcast.ErrInvalidScope),
		errors.Is(err, broadcast.ErrInvalidWindow),
		errors.Is(err, broadcast.ErrInvalidMessage):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrConflict), errors.Is(err, ledger.ErrIntegrity):
		return http.StatusConflict
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden
	}

	return http.StatusInternalServerError
}

// BadRequest reports a malformed request that never reached a service.
func BadRequest(w http.ResponseWriter, field, reason string) {
	JSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid %s: %s", field, reason), Field: field})
}

// Decode reads a JSON body into v, rejecting unknown fields.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		BadRequest(w, "body", err.Error())
		return false
	}

	return true
}

// URLID parses the {id} route parameter.
func URLID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	return ParseID(w, "id", chi.URLParam(r, "id"))
}

// ParseID parses a uuid taken from the named request field.
func ParseID(w http.ResponseWriter, field, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		BadRequest(w, field, "not a valid id")
		return uuid.Nil, false
	}

	return id, true
}

// OptionalID parses an optional query parameter.
func OptionalID(w http.ResponseWriter, r *http.Request, field string) (*uuid.UUID, bool) {
	raw := r.URL.Query().Get(field)
	if raw == "" {
		return nil, true
	}

	id, ok := ParseID(w, field, raw)
	if !ok {
		return nil, false
	}

	return &id, true
}
