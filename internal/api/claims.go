package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/najdeno/internal/registry"
)

// ClaimsHandler handles claim endpoints.
type ClaimsHandler struct {
	Claims *registry.Claims
}

// Create handles POST /api/items/{id}/claims.
func (h *ClaimsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProofDetails string `json:"proof_details"`
	}
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claim, err := h.Claims.Create(r.Context(), GetPrincipal(r.Context()), chi.URLParam(r, "id"), req.ProofDetails)
	if err != nil {
		registryError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, claim)
}

// ListMine handles GET /api/claims.
func (h *ClaimsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, err := h.Claims.ListMine(r.Context(), GetPrincipal(r.Context()))
	if err != nil {
		registryError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, claims)
}

// ListAll handles GET /api/admin/claims.
func (h *ClaimsHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	claims, err := h.Claims.ListAll(r.Context(), GetPrincipal(r.Context()))
	if err != nil {
		registryError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, claims)
}

// Review handles PUT /api/claims/{id}/review.
func (h *ClaimsHandler) Review(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Decision string `json:"decision"`
	}
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claim, err := h.Claims.Review(r.Context(), GetPrincipal(r.Context()), chi.URLParam(r, "id"), req.Decision)
	if err != nil {
		registryError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, claim)
}
