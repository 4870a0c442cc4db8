package adapters

import (
	"context"
	"errors"
	"sync"

	"unseen/internal/feature/auth/domain/entity"
	"unseen/internal/feature/auth/usecase"
)

// userMemory is an in-memory, non-durable UserRepository.
// A single RWMutex serializes signups against concurrent lookups.
type userMemory struct {
	mu      sync.RWMutex
	byID    map[string]*entity.User
	byEmail map[string]*entity.User
}

var _ usecase.UserRepository = (*userMemory)(nil)

// NewUserMemory creates an empty in-memory repository.
func NewUserMemory() *userMemory {
	return &userMemory{
		byID:    make(map[string]*entity.User),
		byEmail: make(map[string]*entity.User),
	}
}

// Create stores a copy of u. Emails are compared exactly (case-sensitive).
func (r *userMemory) Create(_ context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[u.Email]; ok {
		return usecase.ErrEmailAlreadyExists
	}
	stored := *u
	r.byID[stored.ID] = &stored
	r.byEmail[stored.Email] = &stored
	return nil
}

// FindByEmail returns a copy of the user with this exact email.
func (r *userMemory) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return nil, usecase.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

// FindByID returns a copy of the user with this id.
func (r *userMemory) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, usecase.ErrUserNotFound
	}
	out := *u
	return &out, nil
}
