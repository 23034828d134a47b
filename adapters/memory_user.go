package adapters

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/app4080/eldercareserver/domain"
	"github.com/app4080/eldercareserver/domain/entities"
)

// MemoryUserRepository is an in-memory implementation of UserRepository
type MemoryUserRepository struct {
	mu        sync.RWMutex
	users     map[string]*entities.User // id -> user
	usernames map[string]string         // username -> id
}

// NewMemoryUserRepository creates an empty in-memory user repository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:     make(map[string]*entities.User),
		usernames: make(map[string]string),
	}
}

// Save implements UserRepository interface
func (m *MemoryUserRepository) Save(ctx context.Context, user *entities.User) (*entities.User, error) {
	if user == nil {
		return nil, errors.New("user cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id, taken := m.usernames[user.Username]; taken && id != user.ID {
		return nil, fmt.Errorf("username %q: %w", user.Username, domain.ErrAlreadyExists)
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	if existing, ok := m.users[user.ID]; ok {
		delete(m.usernames, existing.Username)
	}

	userCopy := *user
	m.users[user.ID] = &userCopy
	m.usernames[user.Username] = user.ID

	saved := userCopy
	return &saved, nil
}

// GetByID implements UserRepository interface
func (m *MemoryUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, domain.ErrNotFound
	}
	userCopy := *user
	return &userCopy, nil
}

// GetByUsername implements UserRepository interface
func (m *MemoryUserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, exists := m.usernames[username]
	if !exists {
		return nil, domain.ErrNotFound
	}
	userCopy := *m.users[id]
	return &userCopy, nil
}

// ExistsByID implements UserRepository interface
func (m *MemoryUserRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.users[id]
	return exists, nil
}

// FindByRole implements UserRepository interface
func (m *MemoryUserRepository) FindByRole(ctx context.Context, role entities.Role) ([]*entities.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []*entities.User{}
	for _, user := range m.users {
		if user.Role == role {
			userCopy := *user
			result = append(result, &userCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return result, nil
}

// DeleteByID implements UserRepository interface
func (m *MemoryUserRepository) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.users[id]
	if !exists {
		return domain.ErrNotFound
	}
	delete(m.users, id)
	delete(m.usernames, user.Username)
	return nil
}
