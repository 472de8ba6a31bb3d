package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/najdeno/internal/registry"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// registryError maps the registry error taxonomy to HTTP status codes.
// Validation detail is surfaced verbatim; authorization failures are not.
func registryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrValidation):
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, registry.ErrNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, registry.ErrNotPermitted):
		jsonError(w, http.StatusForbidden, "not permitted")
	case errors.Is(err, registry.ErrConflict):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, registry.ErrInvalidTransition):
		jsonError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("internal error", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
