package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/goalplay-inventory/internal/errs"
	"github.com/and161185/goalplay-inventory/internal/model"
	"github.com/and161185/goalplay-inventory/internal/repository"
)

// DefaultChain is recorded for users whose token carries no chain claim.
const DefaultChain = "evm"

// UserService maps an authenticated identity to an active user.
type UserService interface {
	// Resolve returns the caller's user ID, creating the user on first authentication.
	Resolve(ctx context.Context, id model.Identity) (uuid.UUID, error)
}

type UserServiceImpl struct {
	users repository.UserRepository
}

// NewUserService constructs UserService.
func NewUserService(users repository.UserRepository) *UserServiceImpl {
	return &UserServiceImpl{users: users}
}

// Resolve finds the user behind the token subject. Unknown users are created when the token
// carries a wallet; inactive or unresolvable users are errs.ErrUnauthorized.
func (s *UserServiceImpl) Resolve(ctx context.Context, id model.Identity) (uuid.UUID, error) {
	if id.UserID == uuid.Nil {
		return uuid.Nil, errs.ErrUnauthorized
	}

	u, err := s.users.GetByID(ctx, id.UserID)
	if errors.Is(err, errs.ErrNotFound) {
		u, err = s.create(ctx, id)
	}
	if err != nil {
		return uuid.Nil, err
	}
	if !u.IsActive {
		return uuid.Nil, fmt.Errorf("%w: user inactive", errs.ErrUnauthorized)
	}
	return u.ID, nil
}

func (s *UserServiceImpl) create(ctx context.Context, id model.Identity) (*model.User, error) {
	if id.Wallet == "" {
		return nil, fmt.Errorf("%w: unknown user", errs.ErrUnauthorized)
	}
	chain := id.Chain
	if chain == "" {
		chain = DefaultChain
	}
	u := &model.User{ID: id.UserID, Wallet: id.Wallet, ChainType: chain, IsActive: true}
	err := s.users.Create(ctx, u)
	if errors.Is(err, errs.ErrAlreadyExists) {
		// lost a race with a concurrent first request, or the wallet belongs to another user
		u, err = s.users.GetByID(ctx, id.UserID)
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("%w: wallet already registered", errs.ErrUnauthorized)
		}
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
