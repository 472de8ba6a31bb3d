// Package policy holds the access-control decision table. Every function is
// a pure predicate over a principal and the relevant entity state; the
// registries consult it before computing any state change. A nil principal
// means the caller is unauthenticated, and every check fails closed.
package policy

import "github.com/erazemk/najdeno/internal/model"

// CanCreateItem allows any authenticated principal to report a found item.
func CanCreateItem(p *model.Principal) bool {
	return p != nil
}

// CanEditItem allows the item's owner or an administrator.
func CanEditItem(p *model.Principal, ownerID string) bool {
	if p == nil {
		return false
	}
	return p.ID == ownerID || p.IsAdmin()
}

// CanDeleteItem follows the same rule as editing.
func CanDeleteItem(p *model.Principal, ownerID string) bool {
	return CanEditItem(p, ownerID)
}

// CanChangeItemStatus allows only administrators to drive the item state
// machine directly. Claim approval transitions items through the claim
// registry instead.
func CanChangeItemStatus(p *model.Principal) bool {
	return p.IsAdmin()
}

// CanCreateClaim allows any authenticated principal other than the item's
// owner. Whether the item is still claimable is a state concern, not an
// authorization concern, and is checked by the registry.
func CanCreateClaim(p *model.Principal, itemOwnerID string) bool {
	return p != nil && p.ID != itemOwnerID
}

// CanReviewClaim allows only administrators.
func CanReviewClaim(p *model.Principal) bool {
	return p.IsAdmin()
}

// CanListAllClaims gates the admin review queue.
func CanListAllClaims(p *model.Principal) bool {
	return p.IsAdmin()
}

// CanManageCategories gates catalog changes.
func CanManageCategories(p *model.Principal) bool {
	return p.IsAdmin()
}
