// Package storescope confines queries against store-owned entities
// (products, categories, students, orders) to the active store.
//
// The active store travels in the request context, published by the store
// middleware after it has validated the acting user's access. Repositories
// opt in explicitly:
//
//	db := storescope.New(gormDB)
//	db.WithContext(ctx).Find(&products)  // WHERE store_id = ? when a store is active
//	db.ForStore(ctx, id).Find(&products) // explicit store override
//	db.AllStores(ctx).Find(&products)    // explicit cross-store read
//
// No store in the context means no predicate at all: head-office users see
// unfiltered data. That is modeled as "no context set", never as a wildcard
// store id.
package storescope

import (
	"context"
	"errors"

	"github.com/canteen/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStoreRequired is returned when an entity is created without a store
// reference and no store context is active
var ErrStoreRequired = errors.New("store_id is required but not found in context")

// ErrInvalidStoreID is returned when the store id in context is malformed
var ErrInvalidStoreID = errors.New("invalid store_id format")

// StoreScope applies store filtering to GORM queries. The column is
// qualified with the statement's current table so the predicate stays
// unambiguous when the query joins other store-owned tables.
func StoreScope(storeID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return StoreScopeString(storeID.String())
}

// StoreScopeString applies store filtering using a string store id
func StoreScopeString(storeID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: "store_id"},
			Value:  storeID,
		})
	}
}

// ScopedDB wraps a GORM DB with store scoping derived from the request
// context
type ScopedDB struct {
	db     *gorm.DB
	column string
}

// New creates a ScopedDB over the given GORM DB and registers the
// create-time backfill callback
func New(db *gorm.DB) *ScopedDB {
	RegisterCreateCallback(db, "store_id")
	return &ScopedDB{db: db, column: "store_id"}
}

// Wrap creates a ScopedDB over a handle whose callbacks are already
// registered, typically a transaction derived from a DB that went
// through New. Registering again on a transaction would hit the callback
// registry shared with the root DB on every call.
func Wrap(db *gorm.DB) *ScopedDB {
	return &ScopedDB{db: db, column: "store_id"}
}

// DB returns the underlying GORM DB without store scoping.
// Use for entities that are not store-owned (stores, users).
func (s *ScopedDB) DB() *gorm.DB {
	return s.db
}

// WithContext returns a GORM DB scoped to the store in the context.
// When no store is active the returned DB is unscoped: this is the
// head-office path, and the only implicit one.
func (s *ScopedDB) WithContext(ctx context.Context) *gorm.DB {
	storeID := logger.GetStoreID(ctx)
	if storeID == "" {
		return s.db.WithContext(ctx)
	}

	if _, err := uuid.Parse(storeID); err != nil {
		db := s.db.WithContext(ctx)
		_ = db.AddError(ErrInvalidStoreID)
		return db
	}

	return s.db.WithContext(ctx).Scopes(StoreScopeString(storeID))
}

// ForStore returns a GORM DB scoped to a specific store, bypassing the
// context. Opt-in escape hatch, visible at the call site.
func (s *ScopedDB) ForStore(ctx context.Context, storeID uuid.UUID) *gorm.DB {
	if storeID == uuid.Nil {
		db := s.db.WithContext(ctx)
		_ = db.AddError(ErrStoreRequired)
		return db
	}
	return s.db.WithContext(ctx).Scopes(StoreScope(storeID))
}

// AllStores returns a GORM DB with no store predicate regardless of the
// context. Opt-in escape hatch for cross-store views.
func (s *ScopedDB) AllStores(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Transaction executes fn within a database transaction; the transaction
// handle carries the same store scope as WithContext.
func (s *ScopedDB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	storeID := logger.GetStoreID(ctx)
	if storeID != "" {
		if _, err := uuid.Parse(storeID); err != nil {
			return ErrInvalidStoreID
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if storeID != "" {
			tx = tx.Scopes(StoreScopeString(storeID))
		}
		return fn(tx)
	})
}

// ActiveStoreID returns the store carried by the context.
// ErrStoreRequired when none is set, ErrInvalidStoreID when malformed.
func ActiveStoreID(ctx context.Context) (uuid.UUID, error) {
	raw := logger.GetStoreID(ctx)
	if raw == "" {
		return uuid.Nil, ErrStoreRequired
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidStoreID
	}
	return id, nil
}
