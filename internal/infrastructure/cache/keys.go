package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// Family groups related cache keys under one invalidation policy
type Family string

const (
	FamilyProducts   Family = "products"
	FamilyCategories Family = "categories"
	FamilyStudents   Family = "students"
	FamilyOrders     Family = "orders"
	FamilyDashboard  Family = "dashboard"
	FamilyWallet     Family = "wallet"
)

const keySeparator = ":"

// Key builds a cache key from a family, a store and optional
// sub-dimensions. It is a pure function: equal inputs always produce the
// same string. Sub-dimensions are appended in order; omit them for a
// coarser key. Free-text sub-dimensions must go through HashSubdim first.
func Key(family Family, storeID uuid.UUID, subdims ...string) string {
	parts := make([]string, 0, 2+len(subdims))
	parts = append(parts, string(family), storeID.String())
	parts = append(parts, subdims...)
	return strings.Join(parts, keySeparator)
}

// FamilyPattern returns the glob pattern covering every key of a family,
// optionally narrowed to one store
func FamilyPattern(family Family, storeID *uuid.UUID) string {
	if storeID == nil {
		return string(family) + keySeparator + "*"
	}
	return string(family) + keySeparator + storeID.String() + keySeparator + "*"
}

// StoreKeyPattern returns the glob pattern covering one store's keys in a
// family, including the store-level key itself
func StoreKeyPattern(family Family, storeID uuid.UUID) string {
	return string(family) + keySeparator + storeID.String() + "*"
}

// HashSubdim hashes a free-text sub-dimension (search query, date-range
// expression) into a fixed-length hex token, bounding key length and
// keeping keys free of unsafe characters.
func HashSubdim(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])[:16]
}
