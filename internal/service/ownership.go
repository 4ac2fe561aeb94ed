package service

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/goalplay-inventory/internal/errs"
	"github.com/and161185/goalplay-inventory/internal/model"
	"github.com/and161185/goalplay-inventory/internal/repository"
)

// Guard checks that an owned player belongs to the caller before any per-instance work.
type Guard struct {
	owned repository.OwnedPlayerRepository
}

// NewGuard constructs an ownership guard.
func NewGuard(owned repository.OwnedPlayerRepository) *Guard {
	return &Guard{owned: owned}
}

// Verify loads the owned player by (ownedID, callerID). A missing row and a row owned by
// someone else both yield errs.ErrNotAuthorized; storage errors pass through unchanged.
func (g *Guard) Verify(ctx context.Context, ownedID, callerID uuid.UUID) (*model.OwnedPlayer, error) {
	if ownedID == uuid.Nil || callerID == uuid.Nil {
		return nil, errs.ErrNotAuthorized
	}
	p, err := g.owned.GetOwned(ctx, ownedID, callerID)
	return p, notOwned(err)
}

// VerifyWithPlayer is Verify that also loads the catalog entry.
func (g *Guard) VerifyWithPlayer(ctx context.Context, ownedID, callerID uuid.UUID) (*model.OwnedPlayer, error) {
	if ownedID == uuid.Nil || callerID == uuid.Nil {
		return nil, errs.ErrNotAuthorized
	}
	p, err := g.owned.GetOwnedWithPlayer(ctx, ownedID, callerID)
	return p, notOwned(err)
}

func notOwned(err error) error {
	if errors.Is(err, errs.ErrNotFound) {
		return errs.ErrNotAuthorized
	}
	return err
}
