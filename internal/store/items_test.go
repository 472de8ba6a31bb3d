package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
)

// newTestItem builds an item with sensible defaults, aged into the past so
// listing order is deterministic.
func newTestItem(title, status, owner string, age time.Duration) *model.Item {
	now := time.Now().UTC().Add(-age)
	return &model.Item{
		ID:            uuid.NewString(),
		Title:         title,
		Description:   "",
		Category:      "Bags",
		LocationFound: "Library",
		DateFound:     "2024-01-10",
		Status:        status,
		OwnerID:       owner,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestInsertAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := newTestItem("Blue Backpack", model.ItemStatusUnclaimed, "user-a", 0)
	item.Description = "Nylon, one strap torn"
	if err := InsertItem(ctx, database, item); err != nil {
		t.Fatalf("InsertItem: %v", err)
	}

	got, err := GetItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got == nil {
		t.Fatal("expected item, got nil")
	}
	if got.Title != "Blue Backpack" {
		t.Errorf("expected title 'Blue Backpack', got %q", got.Title)
	}
	if got.Description != "Nylon, one strap torn" {
		t.Errorf("unexpected description %q", got.Description)
	}
	if got.Status != model.ItemStatusUnclaimed {
		t.Errorf("expected status 'unclaimed', got %q", got.Status)
	}
	if got.OwnerID != "user-a" {
		t.Errorf("expected owner 'user-a', got %q", got.OwnerID)
	}
}

func TestGetItemMissing(t *testing.T) {
	database := db.NewTestDB(t)

	got, err := GetItem(context.Background(), database, "no-such-id")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing item, got %+v", got)
	}
}

func TestListItemsFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	backpack := newTestItem("Blue Backpack", model.ItemStatusUnclaimed, "user-a", 3*time.Second)
	backpack.Description = "Found near the phone chargers"
	phone := newTestItem("Black Phone", model.ItemStatusClaimed, "user-b", 2*time.Second)
	phone.Category = "Electronics"
	phone.LocationFound = "Cafeteria"
	umbrella := newTestItem("Umbrella", model.ItemStatusUnclaimed, "user-b", 1*time.Second)
	umbrella.Category = "Accessories"

	for _, item := range []*model.Item{backpack, phone, umbrella} {
		if err := InsertItem(ctx, database, item); err != nil {
			t.Fatalf("InsertItem: %v", err)
		}
	}

	// No filter returns everything, newest first.
	all, err := ListItems(ctx, database, ItemFilter{})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 items, got %d", len(all))
	}
	if all[0].ID != umbrella.ID || all[2].ID != backpack.ID {
		t.Error("expected items ordered by created_at descending")
	}

	// Status filter.
	unclaimed, _ := ListItems(ctx, database, ItemFilter{Status: model.ItemStatusUnclaimed})
	if len(unclaimed) != 2 {
		t.Errorf("expected 2 unclaimed items, got %d", len(unclaimed))
	}
	for _, item := range unclaimed {
		if item.Status != model.ItemStatusUnclaimed {
			t.Errorf("unclaimed filter returned status %q", item.Status)
		}
	}

	// Search is case-insensitive over title and description.
	found, _ := ListItems(ctx, database, ItemFilter{Search: "PHONE"})
	if len(found) != 2 {
		t.Errorf("expected 2 items matching 'PHONE', got %d", len(found))
	}

	// Filters are conjunctive.
	both, _ := ListItems(ctx, database, ItemFilter{Search: "phone", Status: model.ItemStatusClaimed})
	if len(both) != 1 || both[0].ID != phone.ID {
		t.Errorf("expected only the claimed phone, got %d items", len(both))
	}

	// Location and owner equality filters.
	cafeteria, _ := ListItems(ctx, database, ItemFilter{Location: "Cafeteria"})
	if len(cafeteria) != 1 {
		t.Errorf("expected 1 item in Cafeteria, got %d", len(cafeteria))
	}
	byOwner, _ := ListItems(ctx, database, ItemFilter{OwnerID: "user-b"})
	if len(byOwner) != 2 {
		t.Errorf("expected 2 items for user-b, got %d", len(byOwner))
	}
}

func TestListItemsPagination(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		item := newTestItem("Item", model.ItemStatusUnclaimed, "user-a", time.Duration(i)*time.Second)
		if err := InsertItem(ctx, database, item); err != nil {
			t.Fatalf("InsertItem: %v", err)
		}
	}

	page, err := ListItems(ctx, database, ItemFilter{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("expected page of 2, got %d", len(page))
	}
}

func TestTransitionItemConditional(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := newTestItem("Wallet", model.ItemStatusUnclaimed, "user-a", 0)
	if err := InsertItem(ctx, database, item); err != nil {
		t.Fatalf("InsertItem: %v", err)
	}

	// Matching expected status succeeds.
	ok, err := TransitionItem(ctx, database, item.ID, model.ItemStatusUnclaimed, model.ItemStatusClaimed, time.Now().UTC())
	if err != nil {
		t.Fatalf("TransitionItem: %v", err)
	}
	if !ok {
		t.Fatal("expected transition to succeed")
	}

	// A second writer that observed the old status loses.
	ok, err = TransitionItem(ctx, database, item.ID, model.ItemStatusUnclaimed, model.ItemStatusExpired, time.Now().UTC())
	if err != nil {
		t.Fatalf("TransitionItem: %v", err)
	}
	if ok {
		t.Error("expected conditional transition to fail after status changed")
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Status != model.ItemStatusClaimed {
		t.Errorf("expected status 'claimed', got %q", got.Status)
	}
}

func TestDeleteItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := newTestItem("Delete Me", model.ItemStatusUnclaimed, "user-a", 0)
	if err := InsertItem(ctx, database, item); err != nil {
		t.Fatalf("InsertItem: %v", err)
	}

	deleted, err := DeleteItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if !deleted {
		t.Error("expected delete to report a removed row")
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got != nil {
		t.Error("expected item to be gone after hard delete")
	}

	// Deleting again reports nothing removed.
	deleted, _ = DeleteItem(ctx, database, item.ID)
	if deleted {
		t.Error("expected second delete to report no rows")
	}
}

func TestExpireItemsBefore(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	stale := newTestItem("Stale", model.ItemStatusUnclaimed, "user-a", 48*time.Hour)
	fresh := newTestItem("Fresh", model.ItemStatusUnclaimed, "user-a", time.Minute)
	claimed := newTestItem("Claimed", model.ItemStatusClaimed, "user-a", 48*time.Hour)
	for _, item := range []*model.Item{stale, fresh, claimed} {
		if err := InsertItem(ctx, database, item); err != nil {
			t.Fatalf("InsertItem: %v", err)
		}
	}

	now := time.Now().UTC()
	n, err := ExpireItemsBefore(ctx, database, now.Add(-24*time.Hour), now)
	if err != nil {
		t.Fatalf("ExpireItemsBefore: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 item expired, got %d", n)
	}

	got, _ := GetItem(ctx, database, stale.ID)
	if got.Status != model.ItemStatusExpired {
		t.Errorf("expected stale item expired, got %q", got.Status)
	}
	got, _ = GetItem(ctx, database, fresh.ID)
	if got.Status != model.ItemStatusUnclaimed {
		t.Errorf("expected fresh item untouched, got %q", got.Status)
	}
	got, _ = GetItem(ctx, database, claimed.ID)
	if got.Status != model.ItemStatusClaimed {
		t.Errorf("expected claimed item untouched, got %q", got.Status)
	}

	// Idempotent: a second sweep finds nothing.
	n, _ = ExpireItemsBefore(ctx, database, now.Add(-24*time.Hour), now)
	if n != 0 {
		t.Errorf("expected second sweep to expire 0 items, got %d", n)
	}
}
