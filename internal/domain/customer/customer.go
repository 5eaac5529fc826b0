// Package customer maps external caller identities onto durable customer
// profiles. Profiles are created lazily: the first order placement (or the
// first /customers/me access) for an identity creates its record.
package customer

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when no customer exists for the given key.
var ErrNotFound = errors.New("customer not found")

// Membership is the customer's loyalty tier.
type Membership string

const (
	MembershipBronze Membership = "B"
	MembershipSilver Membership = "S"
	MembershipGold   Membership = "G"
)

// Valid reports whether m is one of the known tiers.
func (m Membership) Valid() bool {
	switch m {
	case MembershipBronze, MembershipSilver, MembershipGold:
		return true
	}
	return false
}

// Customer is a durable profile linked one-to-one to an external identity.
type Customer struct {
	ID         int64
	UserID     string
	Phone      string
	BirthDate  *time.Time
	Membership Membership
}

// Repository defines persistence operations for customers.
//
// GetOrCreate must be idempotent under concurrency: implementations rely on
// the unique constraint on user_id plus insert-on-conflict, never a
// check-then-insert sequence.
type Repository interface {
	GetOrCreate(ctx context.Context, userID string) (*Customer, error)
	// GetByUserID returns ErrNotFound when the identity has no profile yet.
	GetByUserID(ctx context.Context, userID string) (*Customer, error)
	GetByID(ctx context.Context, id int64) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
	Update(ctx context.Context, c *Customer) error
}
