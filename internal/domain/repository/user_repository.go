package repository

import (
	"context"
	"errors"

	"github.com/jyotir-aditya/fullstackAssignment/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no row matches, including rows hidden by an ownership predicate.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate")
	// ErrInvalidValue is returned when the store rejects a value as out of range.
	ErrInvalidValue = errors.New("invalid value")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Ping(ctx context.Context) error
}
