package identity

import (
	"context"

	"github.com/canteen/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID, with store memberships loaded
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email, with store memberships loaded
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll finds all users matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	// Save creates or updates a user and synchronizes memberships
	Save(ctx context.Context, user *User) error

	// Count counts users matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// AccessibleStoreIDs returns the IDs of stores the user may operate.
	// Head-office users get an empty slice; they are unscoped by design.
	AccessibleStoreIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	// AddMembership grants a user access to a store
	AddMembership(ctx context.Context, userID, storeID uuid.UUID) error

	// RemoveMembership revokes a user's access to a store
	RemoveMembership(ctx context.Context, userID, storeID uuid.UUID) error
}
