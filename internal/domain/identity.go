package domain

import "github.com/google/uuid"

// Role is the coarse access level attached to a caller's identity.
// The service trusts the role handed to it by the identity middleware;
// it is used only for route gating, never inside business logic.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Identity is the authenticated caller as extracted from the bearer token.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}
