package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/najdeno/internal/model"
)

// CreateCategory inserts a new category.
func CreateCategory(ctx context.Context, db *sql.DB, c *model.Category) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO categories (id, name, description, icon, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, nullable(c.Description), nullable(c.Icon), c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating category: %w", err)
	}
	return nil
}

// ListCategories returns all categories sorted by name, case-insensitively.
func ListCategories(ctx context.Context, db *sql.DB) ([]model.Category, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, description, icon, created_at FROM categories
		 ORDER BY name COLLATE NOCASE`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		var description, icon sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &description, &icon, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		c.Description = description.String
		c.Icon = icon.String
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CategoryExists reports whether a category with the given name exists.
// Names compare case-insensitively.
func CategoryExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE name = ? COLLATE NOCASE`, name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking category: %w", err)
	}
	return count > 0, nil
}
