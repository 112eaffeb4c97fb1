package storeaccess

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/canteen/backend/internal/domain/identity"
	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/domain/store"
	"github.com/canteen/backend/internal/infrastructure/session"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) AccessibleStoreIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockUserRepository) AddMembership(ctx context.Context, userID, storeID uuid.UUID) error {
	args := m.Called(ctx, userID, storeID)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveMembership(ctx context.Context, userID, storeID uuid.UUID) error {
	args := m.Called(ctx, userID, storeID)
	return args.Error(0)
}

// MockStoreRepository is a mock implementation of store.Repository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Store), args.Error(1)
}

func (m *MockStoreRepository) FindByCode(ctx context.Context, code string) (*store.Store, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Store), args.Error(1)
}

func (m *MockStoreRepository) FindBySlug(ctx context.Context, slug string) (*store.Store, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Store), args.Error(1)
}

func (m *MockStoreRepository) FindAll(ctx context.Context, filter shared.Filter) ([]store.Store, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Store), args.Error(1)
}

func (m *MockStoreRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]store.Store, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Store), args.Error(1)
}

func (m *MockStoreRepository) FindActive(ctx context.Context) ([]store.Store, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Store), args.Error(1)
}

func (m *MockStoreRepository) Save(ctx context.Context, s *store.Store) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStoreRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStoreRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func newTestStore(t *testing.T, code string) *store.Store {
	t.Helper()
	st, err := store.NewStore(code, "Canteen "+code)
	require.NoError(t, err)
	return st
}

func newCashier(t *testing.T, storeIDs ...uuid.UUID) *identity.User {
	t.Helper()
	u, err := identity.NewUser("cashier@canteen.cn", "Zhang Wei", "s3cret-pass", identity.RoleCashier)
	require.NoError(t, err)
	u.StoreIDs = storeIDs
	return u
}

func newHeadOffice(t *testing.T) *identity.User {
	t.Helper()
	u, err := identity.NewUser("ho@canteen.cn", "Liu Yang", "s3cret-pass", identity.RoleHeadOffice)
	require.NoError(t, err)
	return u
}

func TestAccessServiceSelect(t *testing.T) {
	t.Run("records an allowed selection", func(t *testing.T) {
		users := new(MockUserRepository)
		stores := new(MockStoreRepository)
		selections := session.NewMemoryStoreSelections()
		svc := NewAccessService(users, stores, selections)

		st := newTestStore(t, "N1")
		user := newCashier(t, st.ID)
		users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		stores.On("FindByID", mock.Anything, st.ID).Return(st, nil)

		resp, err := svc.Select(context.Background(), user.ID, SelectStoreRequest{StoreID: st.ID})
		require.NoError(t, err)
		assert.Equal(t, st.ID, resp.ID)

		got, err := selections.Get(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, st.ID, got)
	})

	t.Run("denies a store the user is not a member of", func(t *testing.T) {
		users := new(MockUserRepository)
		stores := new(MockStoreRepository)
		svc := NewAccessService(users, stores, session.NewMemoryStoreSelections())

		st := newTestStore(t, "N1")
		user := newCashier(t) // no memberships
		users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		stores.On("FindByID", mock.Anything, st.ID).Return(st, nil)

		_, err := svc.Select(context.Background(), user.ID, SelectStoreRequest{StoreID: st.ID})
		assert.ErrorIs(t, err, shared.ErrStoreAccessDenied)
	})

	t.Run("denies a closed store even for head office", func(t *testing.T) {
		users := new(MockUserRepository)
		stores := new(MockStoreRepository)
		svc := NewAccessService(users, stores, session.NewMemoryStoreSelections())

		st := newTestStore(t, "N1")
		st.Deactivate()
		user := newHeadOffice(t)
		users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		stores.On("FindByID", mock.Anything, st.ID).Return(st, nil)

		_, err := svc.Select(context.Background(), user.ID, SelectStoreRequest{StoreID: st.ID})
		assert.ErrorIs(t, err, shared.ErrStoreAccessDenied)
	})
}

func TestAccessServiceResolve(t *testing.T) {
	t.Run("returns the stored selection", func(t *testing.T) {
		users := new(MockUserRepository)
		stores := new(MockStoreRepository)
		selections := session.NewMemoryStoreSelections()
		svc := NewAccessService(users, stores, selections)

		st := newTestStore(t, "N1")
		user := newCashier(t, st.ID)
		require.NoError(t, selections.Set(context.Background(), user.ID, st.ID, session.DefaultTTL))

		users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		stores.On("FindByID", mock.Anything, st.ID).Return(st, nil)

		scope, err := svc.Resolve(context.Background(), user.ID)
		require.NoError(t, err)
		require.NotNil(t, scope.StoreID)
		assert.Equal(t, st.ID, *scope.StoreID)
	})

	t.Run("drops a selection the user lost access to", func(t *testing.T) {
		users := new(MockUserRepository)
		stores := new(MockStoreRepository)
		selections := session.NewMemoryStoreSelections()
		svc := NewAccessService(users, stores, selections)

		st := newTestStore(t, "N1")
		user := newCashier(t) // membership revoked since selecting
		require.NoError(t, selections.Set(context.Background(), user.ID, st.ID, session.DefaultTTL))

		users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		stores.On("FindByID", mock.Anything, st.ID).Return(st, nil)
		stores.On("FindByIDs", mock.Anything, user.StoreIDs).Return([]store.Store{}, nil)

		_, err := svc.Resolve(context.Background(), user.ID)
		assert.ErrorIs(t, err, shared.ErrStoreAccessDenied)

		_, err = selections.Get(context.Background(), user.ID)
		assert.ErrorIs(t, err, session.ErrNoSelection)
	})

	t.Run("revoked selection falls back to the remaining store", func(t *testing.T) {
		users := new(MockUserRepository)
		stores := new(MockStoreRepository)
		selections := session.NewMemoryStoreSelections()
		svc := NewAccessService(users, stores, selections)

		lost := newTestStore(t, "N1")
		kept := newTestStore(t, "S1")
		user := newCashier(t, kept.ID) // moved from N1 to S1, selection still points at N1
		require.NoError(t, selections.Set(context.Background(), user.ID, lost.ID, session.DefaultTTL))

		users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		stores.On("FindByID", mock.Anything, lost.ID).Return(lost, nil)
		stores.On("FindByIDs", mock.Anything, user.StoreIDs).Return([]store.Store{*kept}, nil)

		scope, err := svc.Resolve(context.Background(), user.ID)
		require.NoError(t, err)
		require.NotNil(t, scope.StoreID)
		assert.Equal(t, kept.ID, *scope.StoreID)

		// the stale selection was replaced, not just ignored
		got, err := selections.Get(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, kept.ID, got)
	})

	t.Run("revoked selection with several stores left forces re-selection", func(t *testing.T) {
		users := new(MockUserRepository)
		stores := new(MockStoreRepository)
		selections := session.NewMemoryStoreSelections()
		svc := NewAccessService(users, stores, selections)

		lost := newTestStore(t, "N1")
		a := newTestStore(t, "S1")
		b := newTestStore(t, "E1")
		user := newCashier(t, a.ID, b.ID)
		require.NoError(t, selections.Set(context.Background(), user.ID, lost.ID, session.DefaultTTL))

		users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		stores.On("FindByID", mock.Anything, lost.ID).Return(lost, nil)
		stores.On("FindByIDs", mock.Anything, user.StoreIDs).Return([]store.Store{*a, *b}, nil)

		_, err := svc.Resolve(context.Background(), user.ID)
		assert.ErrorIs(t, err, ErrSelectionRequired)

		_, err = selections.Get(context.Background(), user.ID)
		assert.ErrorIs(t, err, session.ErrNoSelection)
	})

	t.Run("drops a selection for a closed store", func(t *testing.T) {
		users := new(MockUserRepository)
		stores := new(MockStoreRepository)
		selections := session.NewMemoryStoreSelections()
		svc := NewAccessService(users, stores, selections)

		st := newTestStore(t, "N1")
		user := newCashier(t, st.ID)
		require.NoError(t, selections.Set(context.Background(), user.ID, st.ID, session.DefaultTTL))
		st.Deactivate()

		users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		stores.On("FindByID", mock.Anything, st.ID).Return(st, nil)
		stores.On("FindByIDs", mock.Anything, user.StoreIDs).Return([]store.Store{*st}, nil)

		_, err := svc.Resolve(context.Background(), user.ID)
		assert.ErrorIs(t, err, shared.ErrStoreAccessDenied)
	})

	t.Run("head office without a selection is unscoped", func(t *testing.T) {
		users := new(MockUserRepository)
		stores := new(MockStoreRepository)
		svc := NewAccessService(users, stores, session.NewMemoryStoreSelections())

		user := newHeadOffice(t)
		users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		scope, err := svc.Resolve(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Nil(t, scope.StoreID)
	})

	t.Run("auto-selects the single accessible store", func(t *testing.T) {
		users := new(MockUserRepository)
		stores := new(MockStoreRepository)
		selections := session.NewMemoryStoreSelections()
		svc := NewAccessService(users, stores, selections)

		st := newTestStore(t, "N1")
		user := newCashier(t, st.ID)
		users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		stores.On("FindByIDs", mock.Anything, user.StoreIDs).Return([]store.Store{*st}, nil)

		scope, err := svc.Resolve(context.Background(), user.ID)
		require.NoError(t, err)
		require.NotNil(t, scope.StoreID)
		assert.Equal(t, st.ID, *scope.StoreID)

		// the auto-selection is persisted for the session
		got, err := selections.Get(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, st.ID, got)
	})

	t.Run("requires a selection with several accessible stores", func(t *testing.T) {
		users := new(MockUserRepository)
		stores := new(MockStoreRepository)
		svc := NewAccessService(users, stores, session.NewMemoryStoreSelections())

		a := newTestStore(t, "N1")
		b := newTestStore(t, "S1")
		user := newCashier(t, a.ID, b.ID)
		users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		stores.On("FindByIDs", mock.Anything, user.StoreIDs).Return([]store.Store{*a, *b}, nil)

		_, err := svc.Resolve(context.Background(), user.ID)
		assert.ErrorIs(t, err, ErrSelectionRequired)
	})

	t.Run("denies a cashier with no stores at all", func(t *testing.T) {
		users := new(MockUserRepository)
		stores := new(MockStoreRepository)
		svc := NewAccessService(users, stores, session.NewMemoryStoreSelections())

		user := newCashier(t)
		users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		stores.On("FindByIDs", mock.Anything, user.StoreIDs).Return([]store.Store{}, nil)

		_, err := svc.Resolve(context.Background(), user.ID)
		assert.ErrorIs(t, err, shared.ErrStoreAccessDenied)
	})
}

func TestAccessibleStores(t *testing.T) {
	t.Run("members see their active stores only", func(t *testing.T) {
		users := new(MockUserRepository)
		stores := new(MockStoreRepository)
		svc := NewAccessService(users, stores, session.NewMemoryStoreSelections())

		open := newTestStore(t, "N1")
		closed := newTestStore(t, "S1")
		closed.Deactivate()
		user := newCashier(t, open.ID, closed.ID)

		users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		stores.On("FindByIDs", mock.Anything, user.StoreIDs).Return([]store.Store{*open, *closed}, nil)

		items, err := svc.AccessibleStores(context.Background(), user.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, open.ID, items[0].ID)
	})

	t.Run("head office sees every active store", func(t *testing.T) {
		users := new(MockUserRepository)
		stores := new(MockStoreRepository)
		svc := NewAccessService(users, stores, session.NewMemoryStoreSelections())

		user := newHeadOffice(t)
		a := newTestStore(t, "N1")
		b := newTestStore(t, "S1")

		users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		stores.On("FindActive", mock.Anything).Return([]store.Store{*a, *b}, nil)

		items, err := svc.AccessibleStores(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})
}
