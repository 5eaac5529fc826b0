package auth

import "context"

// Role is the coarse capability level attached to an API key.
type Role string

const (
	// RoleCustomer may read the catalog, manage carts, and place orders.
	RoleCustomer Role = "customer"
	// RoleStaff may additionally mutate the catalog, administer customers,
	// and manage every order.
	RoleStaff Role = "staff"
)

// Identity is the authenticated caller resolved from an API key.
type Identity struct {
	// UserID is the opaque external identity the key belongs to. Customer
	// profiles are keyed on it.
	UserID string
	Name   string
	Role   Role
}

// IsStaff reports whether the identity carries staff privileges.
func (id Identity) IsStaff() bool {
	return id.Role == RoleStaff
}

// APIKeyInfo holds the stored record for a validated API key.
type APIKeyInfo struct {
	ID      string
	KeyHash string
	Name    string
	UserID  string
	Role    Role
}

// Repository provides lookup of API keys by their HMAC hash.
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*APIKeyInfo, error)
}
