package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type credentials struct {
	user         User
	passwordHash string
}

// MemoryRepository keeps users for the lifetime of the process.
type MemoryRepository struct {
	mu      sync.RWMutex
	byEmail map[string]credentials
}

// NewMemoryRepository returns a repository seeded with DemoUser.
func NewMemoryRepository() (*MemoryRepository, error) {
	hash, err := HashPassword(DemoPassword)
	if err != nil {
		return nil, err
	}
	return &MemoryRepository{
		byEmail: map[string]credentials{
			DemoUser.Email: {user: DemoUser, passwordHash: hash},
		},
	}, nil
}

func (r *MemoryRepository) Authenticate(_ context.Context, email, password string) (*User, error) {
	r.mu.RLock()
	creds, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}

	match, err := VerifyPassword(password, creds.passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password for %s: %w", email, err)
	}
	if !match {
		return nil, ErrInvalidCredentials
	}
	user := creds.user
	return &user, nil
}

func (r *MemoryRepository) Create(_ context.Context, name, email, password string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[email]; exists {
		return nil, ErrUserAlreadyExists
	}
	user := User{ID: uuid.NewString(), Name: name, Email: email}
	r.byEmail[email] = credentials{user: user, passwordHash: hash}
	return &user, nil
}
