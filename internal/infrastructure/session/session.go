// Package session persists each user's selected store between requests.
//
// Selection state is deliberately server-side: clients never assert their
// store in a header, they only ask to select one, and every request is
// resolved against the stored selection.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNoSelection is returned when a user has no stored store selection
var ErrNoSelection = errors.New("session: no store selected")

// DefaultTTL is how long a store selection survives without activity.
// Long enough to span a school day, short enough that a stale terminal
// re-selects the next morning.
const DefaultTTL = 16 * time.Hour

// StoreSelections persists the selected store per user
type StoreSelections interface {
	// Get returns the user's selected store, or ErrNoSelection
	Get(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)

	// Set records the user's selected store, replacing any previous one
	Set(ctx context.Context, userID, storeID uuid.UUID, ttl time.Duration) error

	// Clear removes the user's selection
	Clear(ctx context.Context, userID uuid.UUID) error
}
