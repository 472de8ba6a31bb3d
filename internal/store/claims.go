package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/najdeno/internal/model"
)

const claimColumns = `id, item_id, claimant_id, claim_date, status, proof_details,
                      reviewed_by, reviewed_at, created_at`

// InsertClaim persists a fully-populated claim.
func InsertClaim(ctx context.Context, db *sql.DB, c *model.Claim) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO claims (id, item_id, claimant_id, claim_date, status, proof_details, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.ItemID, c.ClaimantID, c.ClaimDate, c.Status, c.ProofDetails, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting claim: %w", err)
	}
	return nil
}

// GetClaim returns a claim by ID, or nil if it doesn't exist.
func GetClaim(ctx context.Context, db *sql.DB, id string) (*model.Claim, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+claimColumns+` FROM claims WHERE id = ?`, id,
	)
	c, err := scanClaim(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting claim: %w", err)
	}
	return c, nil
}

// ListClaimsByClaimant returns a claimant's claims, newest first.
func ListClaimsByClaimant(ctx context.Context, db *sql.DB, claimantID string) ([]model.Claim, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+claimColumns+` FROM claims WHERE claimant_id = ?
		 ORDER BY created_at DESC, id`, claimantID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing claims by claimant: %w", err)
	}
	defer rows.Close()
	return scanClaims(rows)
}

// ListAllClaims returns every claim, newest first.
func ListAllClaims(ctx context.Context, db *sql.DB) ([]model.Claim, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+claimColumns+` FROM claims ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing claims: %w", err)
	}
	defer rows.Close()
	return scanClaims(rows)
}

// ListClaimsByItem returns all claims against an item, newest first.
// Works for orphaned claims whose item has been deleted.
func ListClaimsByItem(ctx context.Context, db *sql.DB, itemID string) ([]model.Claim, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+claimColumns+` FROM claims WHERE item_id = ?
		 ORDER BY created_at DESC, id`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing claims by item: %w", err)
	}
	defer rows.Close()
	return scanClaims(rows)
}

// CountClaimsByItem returns the number of claims filed against an item.
func CountClaimsByItem(ctx context.Context, db *sql.DB, itemID string) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM claims WHERE item_id = ?`, itemID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting claims: %w", err)
	}
	return count, nil
}

// SettleClaimTx records a review decision on a pending claim inside an
// existing transaction. The write is conditional on the claim still being
// pending, so exactly one of two racing reviews can succeed. Returns whether
// a row changed.
func SettleClaimTx(ctx context.Context, tx *sql.Tx, claimID, decision, reviewerID string, now time.Time) (bool, error) {
	result, err := tx.ExecContext(ctx,
		`UPDATE claims SET status = ?, reviewed_by = ?, reviewed_at = ?
		 WHERE id = ? AND status = ?`,
		decision, reviewerID, now, claimID, model.ClaimStatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("settling claim: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("settling claim: %w", err)
	}
	return n > 0, nil
}

func scanClaim(row scanner) (*model.Claim, error) {
	c := &model.Claim{}
	var reviewedBy sql.NullString
	var reviewedAt sql.NullTime
	err := row.Scan(&c.ID, &c.ItemID, &c.ClaimantID, &c.ClaimDate, &c.Status,
		&c.ProofDetails, &reviewedBy, &reviewedAt, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.ReviewedBy = reviewedBy.String
	if reviewedAt.Valid {
		t := reviewedAt.Time
		c.ReviewedAt = &t
	}
	return c, nil
}

func scanClaims(rows *sql.Rows) ([]model.Claim, error) {
	var claims []model.Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		claims = append(claims, *c)
	}
	return claims, rows.Err()
}
