package model

import "time"

// Claim is an assertion of ownership made against an item. Claims are
// append-only: they are reviewed exactly once and never deleted.
type Claim struct {
	ID           string     `json:"id"`
	ItemID       string     `json:"item_id"`
	ClaimantID   string     `json:"claimant_id"`
	ClaimDate    time.Time  `json:"claim_date"`
	Status       string     `json:"status"`
	ProofDetails string     `json:"proof_details"`
	ReviewedBy   string     `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Claim statuses. Approved and rejected are terminal.
const (
	ClaimStatusPending  = "pending"
	ClaimStatusApproved = "approved"
	ClaimStatusRejected = "rejected"
)

// ValidClaimDecision reports whether s is a valid review outcome.
func ValidClaimDecision(s string) bool {
	return s == ClaimStatusApproved || s == ClaimStatusRejected
}
