package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/canteen/backend/internal/domain/identity"
	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/infrastructure/auth"
	"github.com/canteen/backend/internal/infrastructure/session"
)

// ErrInvalidCredentials is returned on wrong email or password. The two
// cases are indistinguishable on purpose.
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// AuthService handles login and operator account management
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	selections session.StoreSelections
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo identity.UserRepository, jwtService *auth.JWTService, selections session.StoreSelections) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		selections: selections,
	}
}

// Login verifies credentials and issues an access token. The token never
// carries a store selection; that is a separate, server-side concern.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}
	if user.Status != identity.UserStatusActive {
		return nil, shared.NewDomainError("USER_DEACTIVATED", "User account is deactivated")
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Name, string(user.Role))
	if err != nil {
		return nil, err
	}

	user.RecordLogin(time.Now())
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:     token.Token,
		TokenType: token.TokenType,
		ExpiresAt: token.ExpiresAt,
		User:      *ToUserResponse(user),
	}, nil
}

// Logout drops the user's store selection so the next login starts clean
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if s.selections == nil {
		return nil
	}
	return s.selections.Clear(ctx, userID)
}

// Register creates a new operator account with optional store memberships
func (s *AuthService) Register(ctx context.Context, req RegisterUserRequest) (*UserResponse, error) {
	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "User with this email already exists")
	}

	user, err := identity.NewUser(req.Email, req.Name, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	user.StoreIDs = req.StoreIDs

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	return ToUserResponse(user), nil
}

// GetByID retrieves a user profile
func (s *AuthService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// List retrieves users matching the query, paginated
func (s *AuthService) List(ctx context.Context, query ListUsersQuery) (*shared.Paginated[UserResponse], error) {
	filter := shared.Filter{
		Page:     query.Page,
		PageSize: query.PageSize,
		Search:   query.Search,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if query.Role != "" {
		filter.Filters["role"] = query.Role
	}

	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, *ToUserResponse(&users[i]))
	}

	result := shared.NewPaginated(items, total, query.Page, query.PageSize)
	return &result, nil
}

// Deactivate disables a user account and drops any store selection
func (s *AuthService) Deactivate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Deactivate()

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if s.selections != nil {
		_ = s.selections.Clear(ctx, id)
	}

	return ToUserResponse(user), nil
}
