package storescope

import (
	"context"
	"reflect"

	"github.com/canteen/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const createCallbackName = "storescope:before_create"

// RegisterCreateCallback registers a GORM create hook that backfills the
// store reference from the request context. Entities without a store_id
// column are left untouched. Creating a store-owned entity with neither an
// explicit store id nor an active store context fails at the persistence
// boundary with ErrStoreRequired; it is never defaulted to a global store.
func RegisterCreateCallback(db *gorm.DB, column string) {
	if column == "" {
		column = "store_id"
	}
	cb := &createCallback{column: column}

	// Re-registration under the same name is an idempotent replace in GORM
	_ = db.Callback().Create().Before("gorm:create").Register(createCallbackName, cb.beforeCreate)
}

type createCallback struct {
	column string
}

func (c *createCallback) beforeCreate(db *gorm.DB) {
	if db.Statement.Schema == nil {
		return
	}
	field := db.Statement.Schema.LookUpField(c.column)
	if field == nil {
		return
	}

	ctx := db.Statement.Context

	switch db.Statement.ReflectValue.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < db.Statement.ReflectValue.Len(); i++ {
			c.backfill(db, ctx, field, db.Statement.ReflectValue.Index(i))
		}
	case reflect.Struct:
		c.backfill(db, ctx, field, db.Statement.ReflectValue)
	}
}

func (c *createCallback) backfill(db *gorm.DB, ctx context.Context, field *schema.Field, rv reflect.Value) {
	_, isZero := field.ValueOf(ctx, rv)
	if !isZero {
		return
	}

	storeID := logger.GetStoreID(ctx)
	if storeID == "" {
		_ = db.AddError(ErrStoreRequired)
		return
	}

	parsed, err := uuid.Parse(storeID)
	if err != nil {
		_ = db.AddError(ErrInvalidStoreID)
		return
	}

	if err := field.Set(ctx, rv, parsed); err != nil {
		_ = db.AddError(err)
	}
}
