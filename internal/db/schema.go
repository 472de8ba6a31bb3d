package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
//
// Note that claims deliberately carry no foreign key to items: items are
// hard-deletable while claims are append-only, so a claim may outlive its
// item and must stay queryable as an orphan. Item categories reference the
// catalog by name, case-insensitively, which SQLite foreign keys cannot
// express; the check lives in the registry instead.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'member' CHECK (role IN ('admin', 'member')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS categories (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    description TEXT,
    icon        TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS items (
    id             TEXT PRIMARY KEY,
    title          TEXT NOT NULL,
    description    TEXT,
    category       TEXT NOT NULL,
    location_found TEXT NOT NULL,
    date_found     TEXT NOT NULL,
    status         TEXT NOT NULL DEFAULT 'unclaimed'
                   CHECK (status IN ('unclaimed', 'claimed', 'returned', 'expired')),
    owner_id       TEXT NOT NULL,
    image_url      TEXT,
    created_at     DATETIME NOT NULL,
    updated_at     DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_status ON items(status);
CREATE INDEX IF NOT EXISTS idx_items_owner ON items(owner_id);
CREATE INDEX IF NOT EXISTS idx_items_created ON items(created_at DESC);

CREATE TABLE IF NOT EXISTS claims (
    id            TEXT PRIMARY KEY,
    item_id       TEXT NOT NULL,
    claimant_id   TEXT NOT NULL,
    claim_date    DATETIME NOT NULL,
    status        TEXT NOT NULL DEFAULT 'pending'
                  CHECK (status IN ('pending', 'approved', 'rejected')),
    proof_details TEXT NOT NULL,
    reviewed_by   TEXT,
    reviewed_at   DATETIME,
    created_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_claims_item ON claims(item_id);
CREATE INDEX IF NOT EXISTS idx_claims_claimant ON claims(claimant_id);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
