package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/goalplay-inventory/internal/errs"
	"github.com/and161185/goalplay-inventory/internal/model"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user row and fills in the database timestamps.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (err error) {
	defer observe("user_create", time.Now(), &err)

	const q = `
INSERT INTO users (id, wallet, chain_type, username, email, is_active)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at, updated_at`
	err = r.db.Pool.QueryRow(ctx, q, u.ID, u.Wallet, u.ChainType, u.Username, u.Email, u.IsActive).
		Scan(&u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID selects a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (_ *model.User, err error) {
	defer observe("user_get", time.Now(), &err)

	q, args, err := psql.
		Select("id", "wallet", "chain_type", "username", "email", "is_active", "created_at", "updated_at").
		From("users").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var u model.User
	err = r.db.Pool.QueryRow(ctx, q, args...).
		Scan(&u.ID, &u.Wallet, &u.ChainType, &u.Username, &u.Email, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}
