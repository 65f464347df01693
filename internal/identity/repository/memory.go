package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tair/lumina-storefront/internal/identity/domain"
	"github.com/tair/lumina-storefront/pkg/auth"
)

// MemoryUserRepository keeps accounts in memory. It backs USER_STORE=memory
// and the tests.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	users  []domain.User
	nextID uint
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{nextID: 1}
}

// NewSeededMemoryUserRepository returns a repository holding the demo accounts.
func NewSeededMemoryUserRepository() (*MemoryUserRepository, error) {
	r := NewMemoryUserRepository()
	for _, u := range domain.SeedUsers() {
		hashed, err := auth.HashPassword(u.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash seed password: %w", err)
		}
		u.Password = hashed
		if err := r.Create(context.Background(), &u); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrEmailTaken
		}
	}

	now := time.Now()
	user.ID = r.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	r.nextID++
	r.users = append(r.users, *user)
	return nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id uint) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *MemoryUserRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

func (r *MemoryUserRepository) CountByRole(_ context.Context, role string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}
