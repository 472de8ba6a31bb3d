package registry

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/policy"
	"github.com/erazemk/najdeno/internal/store"
)

// Catalog is the category reference list. Read-mostly: items validate their
// category against it, and administrators occasionally extend it.
type Catalog struct {
	DB *sql.DB
}

// List returns all categories sorted by name, case-insensitively.
func (c *Catalog) List(ctx context.Context) ([]model.Category, error) {
	return store.ListCategories(ctx, c.DB)
}

// Exists reports whether a category with the given name is in the catalog.
func (c *Catalog) Exists(ctx context.Context, name string) (bool, error) {
	return store.CategoryExists(ctx, c.DB, name)
}

// Create adds a category. Administrators only; names are unique
// case-insensitively.
func (c *Catalog) Create(ctx context.Context, principal *model.Principal, name, description, icon string) (*model.Category, error) {
	if !policy.CanManageCategories(principal) {
		return nil, ErrNotPermitted
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	exists, err := store.CategoryExists(ctx, c.DB, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, name)
	}

	category := &model.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Icon:        strings.TrimSpace(icon),
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.CreateCategory(ctx, c.DB, category); err != nil {
		return nil, err
	}
	return category, nil
}
