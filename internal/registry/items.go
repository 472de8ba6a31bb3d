package registry

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/policy"
	"github.com/erazemk/najdeno/internal/store"
)

// Items owns the item lifecycle: creation, the status state machine, field
// edits, deletion, and the filtered listing contract. All durable state lives
// in the store; each operation is one validate-then-write sequence.
type Items struct {
	DB *sql.DB
}

// ItemDraft is the caller-supplied part of a new item.
type ItemDraft struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	LocationFound string `json:"location_found"`
	DateFound     string `json:"date_found"`
}

// ItemPatch updates descriptive fields. Nil fields are left unchanged.
// Identity, ownership, status, and timestamps are not patchable.
type ItemPatch struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Category      *string `json:"category"`
	LocationFound *string `json:"location_found"`
	DateFound     *string `json:"date_found"`
}

// Create registers a found item for the reporting principal. The principal
// becomes the item's owner and the item starts out unclaimed.
func (r *Items) Create(ctx context.Context, principal *model.Principal, draft ItemDraft) (*model.Item, error) {
	if !policy.CanCreateItem(principal) {
		return nil, ErrNotPermitted
	}

	item := &model.Item{
		ID:            uuid.NewString(),
		Title:         strings.TrimSpace(draft.Title),
		Description:   strings.TrimSpace(draft.Description),
		Category:      strings.TrimSpace(draft.Category),
		LocationFound: strings.TrimSpace(draft.LocationFound),
		DateFound:     strings.TrimSpace(draft.DateFound),
		Status:        model.ItemStatusUnclaimed,
		OwnerID:       principal.ID,
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	if err := r.validateItem(ctx, item); err != nil {
		return nil, err
	}

	if err := store.InsertItem(ctx, r.DB, item); err != nil {
		return nil, err
	}

	slog.Info("item registered", "item", item.ID, "owner", item.OwnerID, "category", item.Category)
	return item, nil
}

// Get returns an item by ID.
func (r *Items) Get(ctx context.Context, id string) (*model.Item, error) {
	item, err := store.GetItem(ctx, r.DB, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %s", ErrNotFound, id)
	}
	return item, nil
}

// List returns items matching the filter, newest first. Listing is public;
// callers default the status filter to unclaimed on public surfaces.
func (r *Items) List(ctx context.Context, f store.ItemFilter) ([]model.Item, error) {
	if f.Status != "" && !model.ValidItemStatus(f.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, f.Status)
	}
	items, err := store.ListItems(ctx, r.DB, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// UpdateStatus drives the item state machine directly. Administrators only;
// claim approval is the other path into the claimed state. The underlying
// write is conditional on the status the caller observed, so a racing
// transition surfaces as a conflict instead of a silent overwrite.
func (r *Items) UpdateStatus(ctx context.Context, principal *model.Principal, itemID, newStatus string) (*model.Item, error) {
	if !policy.CanChangeItemStatus(principal) {
		return nil, ErrNotPermitted
	}
	if !model.ValidItemStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, newStatus)
	}

	item, err := r.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if !model.ItemCanTransition(item.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, item.Status, newStatus)
	}

	ok, err := store.TransitionItem(ctx, r.DB, itemID, item.Status, newStatus, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: item %s is no longer %s", ErrConflict, itemID, item.Status)
	}

	slog.Info("item status changed", "item", itemID, "from", item.Status, "to", newStatus, "by", principal.ID)
	return r.Get(ctx, itemID)
}

// UpdateFields edits an item's descriptive fields. Owner or admin only, and
// only while the item is in a non-terminal state.
func (r *Items) UpdateFields(ctx context.Context, principal *model.Principal, itemID string, patch ItemPatch) (*model.Item, error) {
	item, err := r.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !policy.CanEditItem(principal, item.OwnerID) {
		return nil, ErrNotPermitted
	}
	if model.ItemStatusTerminal(item.Status) {
		return nil, fmt.Errorf("%w: item %s is %s", ErrConflict, itemID, item.Status)
	}

	if patch.Title != nil {
		item.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		item.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Category != nil {
		item.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.LocationFound != nil {
		item.LocationFound = strings.TrimSpace(*patch.LocationFound)
	}
	if patch.DateFound != nil {
		item.DateFound = strings.TrimSpace(*patch.DateFound)
	}
	item.UpdatedAt = time.Now().UTC()

	if err := r.validateItem(ctx, item); err != nil {
		return nil, err
	}

	if err := store.UpdateItemFields(ctx, r.DB, item); err != nil {
		return nil, err
	}
	return item, nil
}

// AttachImage records the blob URL for an item's photo. The image bytes
// themselves never pass through the registry.
func (r *Items) AttachImage(ctx context.Context, principal *model.Principal, itemID, url string) (*model.Item, error) {
	item, err := r.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !policy.CanEditItem(principal, item.OwnerID) {
		return nil, ErrNotPermitted
	}
	if url == "" {
		return nil, fmt.Errorf("%w: image url is required", ErrValidation)
	}

	if err := store.SetItemImageURL(ctx, r.DB, itemID, url, time.Now().UTC()); err != nil {
		return nil, err
	}
	return r.Get(ctx, itemID)
}

// Delete hard-deletes an item. Owner or admin only. Claims against the item
// are kept as an audit trail; the returned count reports how many were
// orphaned by the deletion.
func (r *Items) Delete(ctx context.Context, principal *model.Principal, itemID string) (int, error) {
	item, err := r.Get(ctx, itemID)
	if err != nil {
		return 0, err
	}
	if !policy.CanDeleteItem(principal, item.OwnerID) {
		return 0, ErrNotPermitted
	}

	orphans, err := store.CountClaimsByItem(ctx, r.DB, itemID)
	if err != nil {
		return 0, err
	}

	deleted, err := store.DeleteItem(ctx, r.DB, itemID)
	if err != nil {
		return 0, err
	}
	if !deleted {
		return 0, fmt.Errorf("%w: item %s", ErrNotFound, itemID)
	}

	if orphans > 0 {
		slog.Warn("deleted item had claims", "item", itemID, "orphaned_claims", orphans)
	}
	slog.Info("item deleted", "item", itemID, "by", principal.ID)
	return orphans, nil
}

// ExpireStale transitions unclaimed items older than the given age to
// expired. Idempotent batch operation run under admin authority by an
// external scheduler.
func (r *Items) ExpireStale(ctx context.Context, principal *model.Principal, olderThan time.Duration) (int64, error) {
	if !policy.CanChangeItemStatus(principal) {
		return 0, ErrNotPermitted
	}

	now := time.Now().UTC()
	n, err := store.ExpireItemsBefore(ctx, r.DB, now.Add(-olderThan), now)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.Info("expired stale items", "count", n, "older_than", olderThan)
	}
	return n, nil
}

// validateItem checks the field invariants shared by create and edit.
func (r *Items) validateItem(ctx context.Context, item *model.Item) error {
	if item.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if item.LocationFound == "" {
		return fmt.Errorf("%w: location_found is required", ErrValidation)
	}
	if item.Category == "" {
		return fmt.Errorf("%w: category is required", ErrValidation)
	}

	found, err := time.Parse(model.DateFoundFormat, item.DateFound)
	if err != nil {
		return fmt.Errorf("%w: date_found must be YYYY-MM-DD", ErrValidation)
	}
	if found.After(time.Now().UTC()) {
		return fmt.Errorf("%w: date_found cannot be in the future", ErrValidation)
	}

	exists, err := store.CategoryExists(ctx, r.DB, item.Category)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: category %q", ErrNotFound, item.Category)
	}

	return nil
}
