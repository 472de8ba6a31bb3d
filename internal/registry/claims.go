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

// Claims owns the claim lifecycle. Claims are append-only: created while the
// item is unclaimed, reviewed exactly once, never deleted. Item state is read
// to validate creation and transitioned as part of approval, but the item
// state machine itself belongs to the item registry.
type Claims struct {
	DB *sql.DB
}

// Create files an ownership claim against an unclaimed item. The principal
// must not be the item's reporter.
func (r *Claims) Create(ctx context.Context, principal *model.Principal, itemID, proofDetails string) (*model.Claim, error) {
	if principal == nil {
		return nil, ErrNotPermitted
	}

	proofDetails = strings.TrimSpace(proofDetails)
	if proofDetails == "" {
		return nil, fmt.Errorf("%w: proof_details is required", ErrValidation)
	}

	item, err := store.GetItem(ctx, r.DB, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %s", ErrNotFound, itemID)
	}

	if !policy.CanCreateClaim(principal, item.OwnerID) {
		return nil, ErrNotPermitted
	}

	if item.Status != model.ItemStatusUnclaimed {
		return nil, fmt.Errorf("%w: item %s is %s", ErrConflict, itemID, item.Status)
	}

	now := time.Now().UTC()
	claim := &model.Claim{
		ID:           uuid.NewString(),
		ItemID:       itemID,
		ClaimantID:   principal.ID,
		ClaimDate:    now,
		Status:       model.ClaimStatusPending,
		ProofDetails: proofDetails,
		CreatedAt:    now,
	}
	if err := store.InsertClaim(ctx, r.DB, claim); err != nil {
		return nil, err
	}

	slog.Info("claim filed", "claim", claim.ID, "item", itemID, "claimant", principal.ID)
	return claim, nil
}

// Get returns a claim by ID.
func (r *Claims) Get(ctx context.Context, id string) (*model.Claim, error) {
	claim, err := store.GetClaim(ctx, r.DB, id)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, fmt.Errorf("%w: claim %s", ErrNotFound, id)
	}
	return claim, nil
}

// ListMine returns the principal's own claims, newest first.
func (r *Claims) ListMine(ctx context.Context, principal *model.Principal) ([]model.Claim, error) {
	if principal == nil {
		return nil, ErrNotPermitted
	}
	claims, err := store.ListClaimsByClaimant(ctx, r.DB, principal.ID)
	if err != nil {
		return nil, err
	}
	if claims == nil {
		claims = []model.Claim{}
	}
	return claims, nil
}

// ListAll returns every claim for the admin review queue, newest first.
func (r *Claims) ListAll(ctx context.Context, principal *model.Principal) ([]model.Claim, error) {
	if !policy.CanListAllClaims(principal) {
		return nil, ErrNotPermitted
	}
	claims, err := store.ListAllClaims(ctx, r.DB)
	if err != nil {
		return nil, err
	}
	if claims == nil {
		claims = []model.Claim{}
	}
	return claims, nil
}

// ListForItem returns the claims filed against one item. Admin review view;
// also resolves claims orphaned by item deletion.
func (r *Claims) ListForItem(ctx context.Context, principal *model.Principal, itemID string) ([]model.Claim, error) {
	if !policy.CanListAllClaims(principal) {
		return nil, ErrNotPermitted
	}
	claims, err := store.ListClaimsByItem(ctx, r.DB, itemID)
	if err != nil {
		return nil, err
	}
	if claims == nil {
		claims = []model.Claim{}
	}
	return claims, nil
}

// Review settles a pending claim. Approval also transitions the item from
// unclaimed to claimed; both writes happen in one transaction, each
// conditional on the state the reviewer observed. Two racing reviews of the
// same claim, or two approvals racing for the same item, resolve with exactly
// one winner and a conflict for the loser.
func (r *Claims) Review(ctx context.Context, principal *model.Principal, claimID, decision string) (*model.Claim, error) {
	if !policy.CanReviewClaim(principal) {
		return nil, ErrNotPermitted
	}
	if !model.ValidClaimDecision(decision) {
		return nil, fmt.Errorf("%w: decision must be approved or rejected", ErrValidation)
	}

	claim, err := r.Get(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if claim.Status != model.ClaimStatusPending {
		return nil, fmt.Errorf("%w: claim is already %s", ErrInvalidTransition, claim.Status)
	}

	now := time.Now().UTC()

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning review transaction: %w", err)
	}
	defer tx.Rollback()

	settled, err := store.SettleClaimTx(ctx, tx, claimID, decision, principal.ID, now)
	if err != nil {
		return nil, err
	}
	if !settled {
		// Someone else reviewed it between our read and this write.
		return nil, fmt.Errorf("%w: claim %s was reviewed concurrently", ErrConflict, claimID)
	}

	if decision == model.ClaimStatusApproved {
		// At most one claim per item may be approved: the item transition is
		// conditional on it still being unclaimed, and a failure (second
		// approval, or the item was deleted) rolls the claim update back.
		moved, err := store.TransitionItemTx(ctx, tx, claim.ItemID,
			model.ItemStatusUnclaimed, model.ItemStatusClaimed, now)
		if err != nil {
			return nil, err
		}
		if !moved {
			return nil, fmt.Errorf("%w: item %s is no longer unclaimed", ErrConflict, claim.ItemID)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing review: %w", err)
	}

	slog.Info("claim reviewed", "claim", claimID, "decision", decision, "by", principal.ID)
	return r.Get(ctx, claimID)
}
