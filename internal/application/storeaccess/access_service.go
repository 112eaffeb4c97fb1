package storeaccess

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/canteen/backend/internal/domain/identity"
	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/domain/store"
	"github.com/canteen/backend/internal/infrastructure/session"
)

// ErrSelectionRequired is returned when a user with access to several
// stores has not yet picked one for this session
var ErrSelectionRequired = shared.NewDomainError("STORE_SELECTION_REQUIRED", "Select a store before using this endpoint")

// Scope is the resolved store scope for a request. A nil StoreID means
// head-office: queries run unscoped across all stores.
type Scope struct {
	StoreID *uuid.UUID
}

// AccessService resolves which store a user is acting in. The selection
// lives server-side in the session store, never in the token and never
// in a client-supplied header.
type AccessService struct {
	userRepo   identity.UserRepository
	storeRepo  store.Repository
	selections session.StoreSelections
}

// NewAccessService creates a new AccessService
func NewAccessService(userRepo identity.UserRepository, storeRepo store.Repository, selections session.StoreSelections) *AccessService {
	return &AccessService{
		userRepo:   userRepo,
		storeRepo:  storeRepo,
		selections: selections,
	}
}

// AccessibleStores lists the active stores the user may operate.
// Head-office users get every active store.
func (s *AccessService) AccessibleStores(ctx context.Context, userID uuid.UUID) ([]StoreResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var stores []store.Store
	if user.IsHeadOffice() {
		stores, err = s.storeRepo.FindActive(ctx)
	} else {
		stores, err = s.storeRepo.FindByIDs(ctx, user.StoreIDs)
	}
	if err != nil {
		return nil, err
	}

	items := make([]StoreResponse, 0, len(stores))
	for i := range stores {
		if !stores[i].Active {
			continue
		}
		items = append(items, *ToStoreResponse(&stores[i]))
	}
	return items, nil
}

// Select records the user's store choice for this session after checking
// the store exists, is active, and the user may operate it
func (s *AccessService) Select(ctx context.Context, userID uuid.UUID, req SelectStoreRequest) (*StoreResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	st, err := s.storeRepo.FindByID(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}
	if !st.Active {
		return nil, shared.ErrStoreAccessDenied
	}
	if !user.IsHeadOffice() && !user.HasStore(st.ID) {
		return nil, shared.ErrStoreAccessDenied
	}

	if err := s.selections.Set(ctx, userID, st.ID, session.DefaultTTL); err != nil {
		return nil, err
	}
	return ToStoreResponse(st), nil
}

// ClearSelection drops the user's selection; head-office users use this
// to return to the cross-store view
func (s *AccessService) ClearSelection(ctx context.Context, userID uuid.UUID) error {
	return s.selections.Clear(ctx, userID)
}

// Resolve determines the store scope for a request.
//
// A stored selection is revalidated on every request: a revoked
// membership or a closed store invalidates it immediately, not at TTL
// expiry. A stale selection is cleared and the request proceeds as if
// none existed, so the user lands on whatever access they still have.
// Without a selection, a user with exactly one accessible store is
// auto-selected into it; head-office users fall back to the unscoped
// cross-store view; everyone else must select first.
func (s *AccessService) Resolve(ctx context.Context, userID uuid.UUID) (*Scope, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	selected, err := s.selections.Get(ctx, userID)
	switch {
	case err == nil:
		valid, err := s.validateSelection(ctx, user, selected)
		if err != nil {
			return nil, err
		}
		if valid {
			return &Scope{StoreID: &selected}, nil
		}
		_ = s.selections.Clear(ctx, userID)
		// fall through to the defaults below
	case errors.Is(err, session.ErrNoSelection):
		// fall through to the defaults below
	default:
		return nil, err
	}

	if user.IsHeadOffice() {
		return &Scope{}, nil
	}

	accessible, err := s.activeStoreIDs(ctx, user)
	if err != nil {
		return nil, err
	}
	switch len(accessible) {
	case 0:
		return nil, shared.ErrStoreAccessDenied
	case 1:
		if err := s.selections.Set(ctx, userID, accessible[0], session.DefaultTTL); err != nil {
			return nil, err
		}
		return &Scope{StoreID: &accessible[0]}, nil
	default:
		return nil, ErrSelectionRequired
	}
}

// validateSelection reports whether a stored selection still holds: the
// store exists, is active, and the user may still operate it. A false
// result is not an error, the caller clears the selection and re-resolves.
func (s *AccessService) validateSelection(ctx context.Context, user *identity.User, storeID uuid.UUID) (bool, error) {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if !st.Active {
		return false, nil
	}
	if !user.IsHeadOffice() && !user.HasStore(storeID) {
		return false, nil
	}
	return true, nil
}

func (s *AccessService) activeStoreIDs(ctx context.Context, user *identity.User) ([]uuid.UUID, error) {
	stores, err := s.storeRepo.FindByIDs(ctx, user.StoreIDs)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(stores))
	for i := range stores {
		if stores[i].Active {
			ids = append(ids, stores[i].ID)
		}
	}
	return ids, nil
}
