package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/app4080/eldercareserver/domain"
	"github.com/app4080/eldercareserver/domain/entities"
	"github.com/app4080/eldercareserver/domain/repositories"
	"github.com/app4080/eldercareserver/internal/auth"
)

// bcrypt only accepts passwords up to 72 bytes
const (
	minPasswordLength = 8
	maxPasswordLength = 72
)

// UserService manages staff accounts and their credentials
type UserService struct {
	users  repositories.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users repositories.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// Register creates a staff account with a bcrypt-hashed password
func (s *UserService) Register(ctx context.Context, username, fullName string, role entities.Role, password string) (*entities.User, error) {
	user := &entities.User{
		Username: strings.TrimSpace(username),
		FullName: strings.TrimSpace(fullName),
		Role:     role,
	}
	if !role.Valid() {
		return nil, domain.InvalidArgument("Invalid role")
	}
	if err := user.Validate(); err != nil {
		return nil, domain.InvalidArgument(err.Error())
	}
	if len(password) < minPasswordLength {
		return nil, domain.InvalidArgument(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	if len(password) > maxPasswordLength {
		return nil, domain.InvalidArgument(fmt.Sprintf("Password must be at most %d bytes", maxPasswordLength))
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash

	saved, err := s.users.Save(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.String("user_id", saved.ID),
		zap.String("role", string(saved.Role)))
	return saved, nil
}

// Authenticate returns the user whose credentials match
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*entities.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.InvalidArgument("Invalid credentials")
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.Warn("Failed login attempt", zap.String("user_id", user.ID))
		return nil, domain.InvalidArgument("Invalid credentials")
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*entities.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) ListByRole(ctx context.Context, role entities.Role) ([]*entities.User, error) {
	if !role.Valid() {
		return nil, domain.InvalidArgument("Invalid role")
	}
	return s.users.FindByRole(ctx, role)
}

// CheckExists reports whether the user is present in the store
func (s *UserService) CheckExists(ctx context.Context, user *entities.User) (bool, error) {
	if user == nil || user.ID == "" {
		return false, nil
	}
	return s.users.ExistsByID(ctx, user.ID)
}
