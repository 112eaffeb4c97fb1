package student

import (
	"context"

	"github.com/canteen/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for student persistence, scoped by the
// store in the context.
type Repository interface {
	// FindByID finds a student by ID within the active store
	FindByID(ctx context.Context, id uuid.UUID) (*Student, error)

	// FindByNumber finds a student by student number within the active store
	FindByNumber(ctx context.Context, number string) (*Student, error)

	// FindAll finds all students matching the filter; filter.Search matches
	// name, number and class
	FindAll(ctx context.Context, filter shared.Filter) ([]Student, error)

	// Save creates or updates a student
	Save(ctx context.Context, s *Student) error

	// Count counts students matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByNumber checks if a student number is taken in the active store
	ExistsByNumber(ctx context.Context, number string) (bool, error)
}
