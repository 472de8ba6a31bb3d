package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/najdeno/internal/blob"
	"github.com/erazemk/najdeno/internal/imaging"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/registry"
	"github.com/erazemk/najdeno/internal/store"
)

// ItemsHandler handles item endpoints.
type ItemsHandler struct {
	Items  *registry.Items
	Claims *registry.Claims
	Blobs  *blob.Store
}

// patchableItemFields are the only keys accepted by Update. Everything else
// (identity, ownership, status, timestamps) is immutable through this route.
var patchableItemFields = map[string]bool{
	"title":          true,
	"description":    true,
	"category":       true,
	"location_found": true,
	"date_found":     true,
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ItemFilter{
		Category: q.Get("category"),
		Status:   q.Get("status"),
		Location: q.Get("location"),
		Search:   q.Get("search"),
		OwnerID:  q.Get("owner_id"),
	}
	if limit := q.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			jsonError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}
	if offset := q.Get("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			jsonError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		filter.Offset = n
	}

	// The public surface defaults to the browsable set. Admins and owners
	// looking at their own reports see every status.
	principal := GetPrincipal(r.Context())
	if filter.Status == "" && filter.OwnerID == "" && !principal.IsAdmin() {
		filter.Status = model.ItemStatusUnclaimed
	}

	items, err := h.Items.List(r.Context(), filter)
	if err != nil {
		registryError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft registry.ItemDraft
	if err := decodeJSON(r, &draft); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Items.Create(r.Context(), GetPrincipal(r.Context()), draft)
	if err != nil {
		registryError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}. Administrators also receive the item's
// claims for the review view.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.Items.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		registryError(w, err)
		return
	}

	principal := GetPrincipal(r.Context())
	if principal.IsAdmin() {
		claims, err := h.Claims.ListForItem(r.Context(), principal, item.ID)
		if err != nil {
			registryError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]any{
			"item":   item,
			"claims": claims,
		})
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	if err := decodeJSON(r, &raw); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for key := range raw {
		if !patchableItemFields[key] {
			jsonError(w, http.StatusBadRequest, "field is not updatable: "+key)
			return
		}
	}

	var patch registry.ItemPatch
	if err := remarshal(raw, &patch); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Items.UpdateFields(r.Context(), GetPrincipal(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		registryError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// UpdateStatus handles PUT /api/items/{id}/status.
func (h *ItemsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Items.UpdateStatus(r.Context(), GetPrincipal(r.Context()), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		registryError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}. Claims against the item survive as
// an audit trail; the response reports how many were orphaned.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orphans, err := h.Items.Delete(r.Context(), GetPrincipal(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		registryError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"message":         "item deleted",
		"orphaned_claims": orphans,
	})
}

// UploadImage handles POST /api/items/{id}/image. The payload is normalized
// by the imaging pipeline, handed to the blob store, and only the resulting
// URL reaches the registry.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	result, err := imaging.Normalize(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	url, err := h.Blobs.Put(result.Data, ".jpg")
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	item, err := h.Items.AttachImage(r.Context(), GetPrincipal(r.Context()), chi.URLParam(r, "id"), url)
	if err != nil {
		registryError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// remarshal re-encodes an already-decoded key set into a typed struct.
func remarshal(raw map[string]json.RawMessage, target any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}
