package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/najdeno/internal/model"
)

// ItemFilter is the conjunctive filter set for listing items. Zero-valued
// fields are ignored. Search matches case-insensitively against title or
// description. Limit of 0 means no limit.
type ItemFilter struct {
	Category string
	Status   string
	Location string
	Search   string
	OwnerID  string
	Limit    int
	Offset   int
}

const itemColumns = `id, title, description, category, location_found, date_found,
                     status, owner_id, image_url, created_at, updated_at`

// InsertItem persists a fully-populated item.
func InsertItem(ctx context.Context, db *sql.DB, item *model.Item) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO items (id, title, description, category, location_found, date_found,
		                    status, owner_id, image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Title, item.Description, item.Category, item.LocationFound,
		item.DateFound, item.Status, item.OwnerID, nullable(item.ImageURL),
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting item: %w", err)
	}
	return nil
}

// GetItem returns an item by ID, or nil if it doesn't exist.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns items matching the filter, newest first.
func ListItems(ctx context.Context, db *sql.DB, f ItemFilter) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE 1=1`
	var args []any

	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.Location != "" {
		query += ` AND location_found = ?`
		args = append(args, f.Location)
	}
	if f.OwnerID != "" {
		query += ` AND owner_id = ?`
		args = append(args, f.OwnerID)
	}
	if f.Search != "" {
		query += ` AND (title LIKE '%' || ? || '%' OR description LIKE '%' || ? || '%')`
		args = append(args, f.Search, f.Search)
	}

	query += ` ORDER BY created_at DESC, id`

	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateItemFields rewrites an item's descriptive fields. Identity, ownership,
// status, and created_at are never touched here.
func UpdateItemFields(ctx context.Context, db *sql.DB, item *model.Item) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET title = ?, description = ?, category = ?, location_found = ?,
		                  date_found = ?, updated_at = ?
		 WHERE id = ?`,
		item.Title, item.Description, item.Category, item.LocationFound,
		item.DateFound, item.UpdatedAt, item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// TransitionItem moves an item from an expected status to the next one.
// The write is conditional on the observed status so that two racing
// transitions cannot both succeed. Returns whether a row changed.
func TransitionItem(ctx context.Context, db *sql.DB, id, expected, next string, now time.Time) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		next, now, id, expected,
	)
	if err != nil {
		return false, fmt.Errorf("transitioning item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transitioning item: %w", err)
	}
	return n > 0, nil
}

// TransitionItemTx is TransitionItem inside an existing transaction.
func TransitionItemTx(ctx context.Context, tx *sql.Tx, id, expected, next string, now time.Time) (bool, error) {
	result, err := tx.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		next, now, id, expected,
	)
	if err != nil {
		return false, fmt.Errorf("transitioning item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transitioning item: %w", err)
	}
	return n > 0, nil
}

// SetItemImageURL records the blob URL for an item's photo.
func SetItemImageURL(ctx context.Context, db *sql.DB, id, url string, now time.Time) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET image_url = ?, updated_at = ? WHERE id = ?`,
		url, now, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image url: %w", err)
	}
	return nil
}

// DeleteItem hard-deletes an item. Returns whether a row was removed.
// Claims referencing the item are left in place.
func DeleteItem(ctx context.Context, db *sql.DB, id string) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	return n > 0, nil
}

// ExpireItemsBefore transitions every unclaimed item created before the
// cutoff to expired. Idempotent. Returns the number of items expired.
func ExpireItemsBefore(ctx context.Context, db *sql.DB, cutoff, now time.Time) (int64, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = ?
		 WHERE status = ? AND created_at < ?`,
		model.ItemStatusExpired, now, model.ItemStatusUnclaimed, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("expiring items: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expiring items: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*model.Item, error) {
	item := &model.Item{}
	var description, imageURL sql.NullString
	err := row.Scan(&item.ID, &item.Title, &description, &item.Category,
		&item.LocationFound, &item.DateFound, &item.Status, &item.OwnerID,
		&imageURL, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	item.Description = description.String
	item.ImageURL = imageURL.String
	return item, nil
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
