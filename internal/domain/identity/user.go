package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/canteen/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role represents the role of a user in the system
type Role string

const (
	// RoleCashier operates the POS for the stores they are a member of
	RoleCashier Role = "cashier"
	// RoleManager manages catalog and students for their stores
	RoleManager Role = "manager"
	// RoleHeadOffice sees all stores; modeled as "no store context",
	// never as a wildcard store id
	RoleHeadOffice Role = "head_office"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusDeactivated UserStatus = "deactivated"
)

const bcryptCost = 12

// User represents an operator of the POS. Users are not store-scoped;
// their store visibility is expressed through StoreMembership rows.
type User struct {
	shared.BaseAggregateRoot
	Email        string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	Name         string     `gorm:"type:varchar(100);not null"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	Role         Role       `gorm:"type:varchar(20);not null;default:'cashier'"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt  *time.Time
	StoreIDs     []uuid.UUID `gorm:"-"` // loaded by the repository from memberships
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// StoreMembership links a user to a store they may operate
type StoreMembership struct {
	UserID    uuid.UUID `gorm:"type:uuid;not null;primaryKey"`
	StoreID   uuid.UUID `gorm:"type:uuid;not null;primaryKey"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (StoreMembership) TableName() string {
	return "store_memberships"
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// NewUser creates a new active user
func NewUser(email, name, password string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email address")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "User name cannot be empty")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		Name:              name,
		PasswordHash:      string(hash),
		Role:              role,
		Status:            UserStatusActive,
		StoreIDs:          make([]uuid.UUID, 0),
	}, nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsHeadOffice reports whether the user has cross-store visibility
func (u *User) IsHeadOffice() bool {
	return u.Role == RoleHeadOffice
}

// HasStore reports whether the user is a member of the given store
func (u *User) HasStore(storeID uuid.UUID) bool {
	for _, id := range u.StoreIDs {
		if id == storeID {
			return true
		}
	}
	return false
}

// RecordLogin stamps the last successful login time
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.UpdatedAt = at
}

// Deactivate disables the user account
func (u *User) Deactivate() {
	u.Status = UserStatusDeactivated
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}
