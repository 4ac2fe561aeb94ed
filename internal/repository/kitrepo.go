package repository

import (
	"context"

	"github.com/and161185/goalplay-inventory/internal/model"
	"github.com/gofrs/uuid/v5"
)

// KitRepository stores the versioned kit history of owned players.
// Implementations keep at most one active kit per owned player.
type KitRepository interface {
	// EnsureActive returns the active kit, inserting def as version 1 when none exists.
	EnsureActive(ctx context.Context, ownedPlayerID uuid.UUID, def model.PlayerKit) (*model.PlayerKit, error)
	// Swap deactivates the active kit (if any) and inserts next as the following version.
	Swap(ctx context.Context, ownedPlayerID uuid.UUID, next model.PlayerKit) (*model.PlayerKit, error)
	// List returns every kit version, newest first.
	List(ctx context.Context, ownedPlayerID uuid.UUID) ([]model.PlayerKit, error)
}
