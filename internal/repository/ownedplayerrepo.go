package repository

import (
	"context"

	"github.com/and161185/goalplay-inventory/internal/model"
	"github.com/gofrs/uuid/v5"
)

// ProgressFunc computes the next (level, experience) from the locked current row.
type ProgressFunc func(cur model.OwnedPlayer) (level, experience int, err error)

// OwnedPlayerRepository provides owner-scoped access to owned players.
// Every lookup is keyed by (id, userID); a row owned by someone else is reported as errs.ErrNotFound.
type OwnedPlayerRepository interface {
	// ListActiveByUser returns active owned players with their catalog entry, newest first.
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]model.OwnedPlayer, error)
	// GetOwned loads a single owned player.
	GetOwned(ctx context.Context, id, userID uuid.UUID) (*model.OwnedPlayer, error)
	// GetOwnedWithPlayer loads an owned player and its catalog entry (Player is nil if missing).
	GetOwnedWithPlayer(ctx context.Context, id, userID uuid.UUID) (*model.OwnedPlayer, error)
	// ApplyProgress locks the row, calls fn and persists the result in one transaction.
	ApplyProgress(ctx context.Context, id, userID uuid.UUID, fn ProgressFunc) (*model.OwnedPlayer, error)
}
