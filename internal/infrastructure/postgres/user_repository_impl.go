package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jyotir-aditya/fullstackAssignment/internal/domain/entity"
	"github.com/jyotir-aditya/fullstackAssignment/internal/domain/repository"
)

const (
	uniqueViolation      = "23505"
	checkViolation       = "23514"
	numericValueOutRange = "22003"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func isValueRejected(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && (pgErr.Code == checkViolation || pgErr.Code == numericValueOutRange)
}

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.Role == "" {
		u.Role = entity.DefaultRole
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.Role)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `
		SELECT id, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `
		SELECT id, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg string) (*entity.User, error) {
	u := &entity.User{}
	row := r.db.QueryRow(ctx, query, arg)
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

var _ repository.UserRepository = (*UserRepository)(nil)
