package api

import (
	"net/http"

	"github.com/erazemk/najdeno/internal/registry"
)

// CategoriesHandler handles category catalog endpoints.
type CategoriesHandler struct {
	Catalog *registry.Catalog
}

// List handles GET /api/categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Catalog.List(r.Context())
	if err != nil {
		registryError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, categories)
}

// Create handles POST /api/categories (admin only).
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	}
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.Catalog.Create(r.Context(), GetPrincipal(r.Context()), req.Name, req.Description, req.Icon)
	if err != nil {
		registryError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, category)
}
