package model

import (
	"fmt"
	"time"
)

// User represents a local account used to mint principals.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Roles. Anything the identity layer cannot recognize is treated as member.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// NormalizeRole collapses the role claim to one of the two recognized roles.
// Resolved once at the identity boundary, never inspected ad hoc downstream.
func NormalizeRole(role string) string {
	if role == RoleAdmin {
		return RoleAdmin
	}
	return RoleMember
}

// Principal is the authenticated actor behind a request.
type Principal struct {
	ID   string
	Role string
}

// IsAdmin reports whether the principal carries the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// ValidatePassword enforces the minimum password length for local accounts.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}
