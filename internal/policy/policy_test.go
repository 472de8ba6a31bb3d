package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erazemk/najdeno/internal/model"
)

var (
	admin  = &model.Principal{ID: "admin-1", Role: model.RoleAdmin}
	member = &model.Principal{ID: "member-1", Role: model.RoleMember}
)

func TestCanCreateItem(t *testing.T) {
	assert.True(t, CanCreateItem(member))
	assert.True(t, CanCreateItem(admin))
	assert.False(t, CanCreateItem(nil))
}

func TestCanEditItem(t *testing.T) {
	tests := []struct {
		name      string
		principal *model.Principal
		ownerID   string
		want      bool
	}{
		{"owner", member, "member-1", true},
		{"non-owner member", member, "member-2", false},
		{"admin over any item", admin, "member-2", true},
		{"unauthenticated", nil, "member-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanEditItem(tt.principal, tt.ownerID))
			assert.Equal(t, tt.want, CanDeleteItem(tt.principal, tt.ownerID))
		})
	}
}

func TestCanCreateClaim(t *testing.T) {
	tests := []struct {
		name      string
		principal *model.Principal
		ownerID   string
		want      bool
	}{
		{"other member", member, "member-2", true},
		{"item owner", member, "member-1", false},
		{"admin owning the item", admin, "admin-1", false},
		{"unauthenticated", nil, "member-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanCreateClaim(tt.principal, tt.ownerID))
		})
	}
}

func TestAdminOnlyChecks(t *testing.T) {
	for _, check := range []struct {
		name string
		fn   func(*model.Principal) bool
	}{
		{"CanChangeItemStatus", CanChangeItemStatus},
		{"CanReviewClaim", CanReviewClaim},
		{"CanListAllClaims", CanListAllClaims},
		{"CanManageCategories", CanManageCategories},
	} {
		t.Run(check.name, func(t *testing.T) {
			assert.True(t, check.fn(admin))
			assert.False(t, check.fn(member))
			assert.False(t, check.fn(nil))
		})
	}
}
