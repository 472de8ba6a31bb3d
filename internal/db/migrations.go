package db

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: case-insensitive uniqueness for category names.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase
	     ON categories(name COLLATE NOCASE)`,
}

// defaultCategories is the campus category set seeded on first run.
var defaultCategories = []struct {
	name        string
	description string
	icon        string
}{
	{"Electronics", "Phones, laptops, chargers, headphones", "smartphone"},
	{"Bags", "Backpacks, handbags, suitcases", "briefcase"},
	{"Clothing", "Jackets, scarves, gloves, hats", "shirt"},
	{"Books", "Textbooks, notebooks, library books", "book"},
	{"Keys", "Keys, key cards, fobs", "key"},
	{"ID Cards", "Student cards, licenses, passports", "credit-card"},
	{"Accessories", "Glasses, jewelry, watches, umbrellas", "watch"},
	{"Other", "Anything that fits nowhere else", "package"},
}

// Migrate ensures the schema, runs pending migrations, and seeds the
// category catalog.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	if err := seedCategories(db); err != nil {
		return fmt.Errorf("seeding categories: %w", err)
	}

	return nil
}

// seedCategories inserts the default category catalog. INSERT OR IGNORE makes
// the seed idempotent across restarts.
func seedCategories(db *sql.DB) error {
	for _, c := range defaultCategories {
		_, err := db.Exec(
			`INSERT OR IGNORE INTO categories (id, name, description, icon) VALUES (?, ?, ?, ?)`,
			uuid.NewString(), c.name, c.description, c.icon,
		)
		if err != nil {
			return fmt.Errorf("seeding category %q: %w", c.name, err)
		}
	}
	return nil
}
