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

var kitColumns = []string{
	"id", "owned_player_id", "version", "name", "primary_color", "secondary_color", "logo_url",
	"is_active", "equipped_at", "unequipped_at", "created_at", "updated_at",
}

const (
	lockOwnerSQL = `SELECT id FROM owned_players WHERE id=$1 FOR UPDATE`

	activeKitSQL = `
SELECT id, owned_player_id, version, name, primary_color, secondary_color, logo_url,
       is_active, equipped_at, unequipped_at, created_at, updated_at
FROM player_kits WHERE owned_player_id=$1 AND is_active
ORDER BY version DESC LIMIT 1`

	deactivateKitSQL = `
UPDATE player_kits SET is_active=false, unequipped_at=$2, updated_at=now()
WHERE owned_player_id=$1 AND is_active`

	// The next version is derived from the whole history so numbers are never reused.
	insertKitSQL = `
INSERT INTO player_kits (id, owned_player_id, version, name, primary_color, secondary_color, logo_url, is_active, equipped_at)
SELECT $1::uuid, $2::uuid, COALESCE(MAX(version), 0) + 1, $3::text, $4::text, $5::text, $6::text, true, $7::timestamptz
FROM player_kits WHERE owned_player_id=$2::uuid
RETURNING version, created_at, updated_at`
)

// KitRepo implements KitRepository using PostgreSQL.
type KitRepo struct{ db *DB }

// NewKitRepo constructs a kit repository.
func NewKitRepo(db *DB) *KitRepo { return &KitRepo{db: db} }

// EnsureActive returns the active kit of the owned player or inserts def as its first version.
// The owned player row is locked for the duration so concurrent callers see one kit.
func (r *KitRepo) EnsureActive(
	ctx context.Context, ownedPlayerID uuid.UUID, def model.PlayerKit,
) (out *model.PlayerKit, err error) {
	defer observe("kit_ensure_active", time.Now(), &err)

	err = r.db.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockOwner(ctx, tx, ownedPlayerID); err != nil {
			return err
		}
		cur, err := scanKit(tx.QueryRow(ctx, activeKitSQL, ownedPlayerID))
		switch {
		case err == nil:
			out = cur
			return nil
		case !errors.Is(err, pgx.ErrNoRows):
			return fmt.Errorf("select active kit: %w", err)
		}
		out, err = insertKit(ctx, tx, ownedPlayerID, def)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Swap retires the active kit (if any) and makes next the active version.
func (r *KitRepo) Swap(
	ctx context.Context, ownedPlayerID uuid.UUID, next model.PlayerKit,
) (out *model.PlayerKit, err error) {
	defer observe("kit_swap", time.Now(), &err)

	now := time.Now().UTC()
	if next.EquippedAt != nil {
		now = *next.EquippedAt
	}

	err = r.db.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockOwner(ctx, tx, ownedPlayerID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, deactivateKitSQL, ownedPlayerID, now); err != nil {
			return fmt.Errorf("deactivate kit: %w", err)
		}
		var err error
		out, err = insertKit(ctx, tx, ownedPlayerID, next)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List returns the full kit history of an owned player, newest version first.
func (r *KitRepo) List(ctx context.Context, ownedPlayerID uuid.UUID) (_ []model.PlayerKit, err error) {
	defer observe("kit_list", time.Now(), &err)

	q, args, err := psql.
		Select(kitColumns...).
		From("player_kits").
		Where("owned_player_id = ?", ownedPlayerID).
		OrderBy("version DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select kits: %w", err)
	}
	defer rows.Close()

	out := []model.PlayerKit{}
	for rows.Next() {
		k, err := scanKit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan kit: %w", err)
		}
		out = append(out, *k)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func lockOwner(ctx context.Context, tx pgx.Tx, ownedPlayerID uuid.UUID) error {
	var id uuid.UUID
	err := tx.QueryRow(ctx, lockOwnerSQL, ownedPlayerID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock owned player: %w", err)
	}
	return nil
}

func insertKit(ctx context.Context, tx pgx.Tx, ownedPlayerID uuid.UUID, k model.PlayerKit) (*model.PlayerKit, error) {
	k.OwnedPlayerID = ownedPlayerID
	k.IsActive = true
	k.UnequippedAt = nil
	err := tx.QueryRow(ctx, insertKitSQL,
		k.ID, ownedPlayerID, k.Name, k.PrimaryColor, k.SecondaryColor, k.LogoURL, k.EquippedAt,
	).Scan(&k.Version, &k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert kit: %w", err)
	}
	return &k, nil
}

func scanKit(row pgx.Row) (*model.PlayerKit, error) {
	var k model.PlayerKit
	err := row.Scan(
		&k.ID, &k.OwnedPlayerID, &k.Version, &k.Name, &k.PrimaryColor, &k.SecondaryColor, &k.LogoURL,
		&k.IsActive, &k.EquippedAt, &k.UnequippedAt, &k.CreatedAt, &k.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &k, nil
}
