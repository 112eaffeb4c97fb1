package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/domain/student"
	"github.com/canteen/backend/internal/infrastructure/persistence/storescope"
)

// GormStudentRepository implements student.Repository using GORM
type GormStudentRepository struct {
	db *storescope.ScopedDB
}

// NewGormStudentRepository creates a new GormStudentRepository
func NewGormStudentRepository(db *storescope.ScopedDB) *GormStudentRepository {
	return &GormStudentRepository{db: db}
}

// FindByID finds a student by ID within the active store
func (r *GormStudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*student.Student, error) {
	var s student.Student
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByNumber finds a student by student number within the active store
func (r *GormStudentRepository) FindByNumber(ctx context.Context, number string) (*student.Student, error) {
	var s student.Student
	if err := r.db.WithContext(ctx).
		Where("number = ?", number).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindAll finds all students matching the filter
func (r *GormStudentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]student.Student, error) {
	var students []student.Student
	query := r.applyFilter(r.db.WithContext(ctx).Model(&student.Student{}), filter)

	if err := query.Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

// Save creates or updates a student
func (r *GormStudentRepository) Save(ctx context.Context, s *student.Student) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// Count counts students matching the filter
func (r *GormStudentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&student.Student{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber checks if a student number is taken in the active store
func (r *GormStudentRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&student.Student{}).
		Where("number = ?", number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormStudentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, StudentSortFields, "name")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("class ASC, name ASC")
	}

	return query
}

func (r *GormStudentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR number ILIKE ? OR class ILIKE ?", searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		case "class":
			query = query.Where("class = ?", value)
		}
	}

	return query
}

// Ensure GormStudentRepository implements Repository
var _ student.Repository = (*GormStudentRepository)(nil)
