// Package memory holds map-backed repositories for running the API without
// postgres. Listing mirrors the SQL semantics of the postgres store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jyotir-aditya/fullstackAssignment/internal/domain/entity"
	"github.com/jyotir-aditya/fullstackAssignment/internal/domain/repository"
)

type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]entity.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]entity.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[u.Email]; ok {
		return repository.ErrDuplicate
	}
	if u.Role == "" {
		u.Role = entity.DefaultRole
	}
	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now
	r.byID[u.ID] = *u
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *UserRepository) Ping(context.Context) error { return nil }

var _ repository.UserRepository = (*UserRepository)(nil)
