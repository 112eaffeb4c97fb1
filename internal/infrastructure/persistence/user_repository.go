package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/canteen/backend/internal/domain/identity"
	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/infrastructure/persistence/storescope"
)

// GormUserRepository implements identity.UserRepository using GORM.
// Users are not store-owned; membership rows carry the store linkage.
type GormUserRepository struct {
	db *storescope.ScopedDB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *storescope.ScopedDB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID, with store memberships loaded
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var user identity.User
	if err := r.db.DB().WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	storeIDs, err := r.AccessibleStoreIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.StoreIDs = storeIDs
	return &user, nil
}

// FindByEmail finds a user by email, with store memberships loaded
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var user identity.User
	if err := r.db.DB().WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	storeIDs, err := r.AccessibleStoreIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.StoreIDs = storeIDs
	return &user, nil
}

// FindAll finds all users matching the filter
func (r *GormUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	var users []identity.User
	query := r.db.DB().WithContext(ctx).Model(&identity.User{})

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", searchPattern, searchPattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "role":
			query = query.Where("role = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, UserSortFields, "name")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Count counts users matching the filter
func (r *GormUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.DB().WithContext(ctx).Model(&identity.User{})

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", searchPattern, searchPattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "role":
			query = query.Where("role = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}
	err := query.Count(&count).Error
	return count, err
}

// Save creates or updates a user and synchronizes memberships
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return r.db.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return err
		}

		if err := tx.Delete(&identity.StoreMembership{}, "user_id = ?", user.ID).Error; err != nil {
			return err
		}
		if len(user.StoreIDs) == 0 {
			return nil
		}

		memberships := make([]identity.StoreMembership, 0, len(user.StoreIDs))
		for _, storeID := range user.StoreIDs {
			memberships = append(memberships, identity.StoreMembership{
				UserID:  user.ID,
				StoreID: storeID,
			})
		}
		return tx.Create(&memberships).Error
	})
}

// AccessibleStoreIDs returns the IDs of stores the user may operate,
// restricted to active stores
func (r *GormUserRepository) AccessibleStoreIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var storeIDs []uuid.UUID
	if err := r.db.DB().WithContext(ctx).
		Model(&identity.StoreMembership{}).
		Select("store_memberships.store_id").
		Joins("JOIN stores ON stores.id = store_memberships.store_id AND stores.active").
		Where("store_memberships.user_id = ?", userID).
		Find(&storeIDs).Error; err != nil {
		return nil, err
	}
	return storeIDs, nil
}

// AddMembership grants a user access to a store
func (r *GormUserRepository) AddMembership(ctx context.Context, userID, storeID uuid.UUID) error {
	membership := identity.StoreMembership{UserID: userID, StoreID: storeID}
	err := r.db.DB().WithContext(ctx).Create(&membership).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// RemoveMembership revokes a user's access to a store
func (r *GormUserRepository) RemoveMembership(ctx context.Context, userID, storeID uuid.UUID) error {
	return r.db.DB().WithContext(ctx).
		Delete(&identity.StoreMembership{}, "user_id = ? AND store_id = ?", userID, storeID).Error
}

// Ensure GormUserRepository implements UserRepository
var _ identity.UserRepository = (*GormUserRepository)(nil)
