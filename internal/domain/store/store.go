package store

import (
	"regexp"
	"strings"
	"time"

	"github.com/canteen/backend/internal/domain/shared"
)

// Store represents a single canteen/branch, the tenant boundary of the
// system. Products, categories, students and orders all belong to exactly
// one store. Deleting a store never cascades to the entities it owns.
type Store struct {
	shared.BaseAggregateRoot
	Code   string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name   string `gorm:"type:varchar(200);not null"`
	Slug   string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Store) TableName() string {
	return "stores"
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// NewStore creates a new store
func NewStore(code, name string) (*Store, error) {
	if strings.TrimSpace(code) == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Store code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Store code cannot exceed 50 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Store name cannot be empty")
	}

	return &Store{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Slug:              Slugify(name),
		Active:            true,
	}, nil
}

// Slugify normalizes a name into a URL-safe slug
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Rename updates the store's display name and slug
func (s *Store) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Store name cannot be empty")
	}
	s.Name = name
	s.Slug = Slugify(name)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Deactivate marks the store inactive; its data is retained
func (s *Store) Deactivate() {
	s.Active = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Activate marks the store active again
func (s *Store) Activate() {
	s.Active = true
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
