package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/goalplay-inventory/internal/errs"
	"github.com/and161185/goalplay-inventory/internal/model"
	"github.com/and161185/goalplay-inventory/internal/repository"
)

const ownedColumns = `id, user_id, player_id, source_order_id, source_draw_id, acquired_at,
current_level, experience, is_active, division, created_at, updated_at`

var joinedColumns = []string{
	"op.id", "op.user_id", "op.player_id", "op.source_order_id", "op.source_draw_id", "op.acquired_at",
	"op.current_level", "op.experience", "op.is_active", "op.division", "op.created_at", "op.updated_at",
	"gp.id", "gp.name", "gp.position", "gp.rarity", "gp.division", "gp.base_stats", "gp.image_url",
	"gp.created_at", "gp.updated_at",
}

// OwnedPlayerRepo implements OwnedPlayerRepository using PostgreSQL.
type OwnedPlayerRepo struct{ db *DB }

// NewOwnedPlayerRepo constructs an owned player repository.
func NewOwnedPlayerRepo(db *DB) *OwnedPlayerRepo { return &OwnedPlayerRepo{db: db} }

// ListActiveByUser returns the user's active owned players joined with the catalog, newest first.
func (r *OwnedPlayerRepo) ListActiveByUser(ctx context.Context, userID uuid.UUID) (_ []model.OwnedPlayer, err error) {
	defer observe("owned_list", time.Now(), &err)

	q, args, err := r.joined().
		Where("op.user_id = ?", userID).
		Where(sq.Eq{"op.is_active": true}).
		OrderBy("op.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select owned players: %w", err)
	}
	defer rows.Close()

	out := []model.OwnedPlayer{}
	for rows.Next() {
		var jr joinedRow
		if err = rows.Scan(jr.dest()...); err != nil {
			return nil, fmt.Errorf("scan owned player: %w", err)
		}
		p, err := jr.build()
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOwned loads an owned player by (id, userID).
func (r *OwnedPlayerRepo) GetOwned(ctx context.Context, id, userID uuid.UUID) (_ *model.OwnedPlayer, err error) {
	defer observe("owned_get", time.Now(), &err)

	const q = `SELECT ` + ownedColumns + ` FROM owned_players WHERE id=$1 AND user_id=$2`
	p, err := scanOwned(r.db.Pool.QueryRow(ctx, q, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select owned player: %w", err)
	}
	return p, nil
}

// GetOwnedWithPlayer loads an owned player with its catalog entry. Player is nil when the
// catalog row is missing.
func (r *OwnedPlayerRepo) GetOwnedWithPlayer(ctx context.Context, id, userID uuid.UUID) (_ *model.OwnedPlayer, err error) {
	defer observe("owned_get_joined", time.Now(), &err)

	q, args, err := r.joined().
		Where("op.id = ?", id).
		Where("op.user_id = ?", userID).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var jr joinedRow
	err = r.db.Pool.QueryRow(ctx, q, args...).Scan(jr.dest()...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select owned player: %w", err)
	}
	return jr.build()
}

// ApplyProgress locks the owned player row, asks fn for the new level and experience and
// writes them back. Neither value is ever lowered.
func (r *OwnedPlayerRepo) ApplyProgress(
	ctx context.Context, id, userID uuid.UUID, fn repository.ProgressFunc,
) (out *model.OwnedPlayer, err error) {
	defer observe("owned_apply_progress", time.Now(), &err)

	const sel = `SELECT ` + ownedColumns + ` FROM owned_players WHERE id=$1 AND user_id=$2 FOR UPDATE`
	const upd = `
UPDATE owned_players
SET current_level=GREATEST(current_level, $3), experience=GREATEST(experience, $4), updated_at=now()
WHERE id=$1 AND user_id=$2
RETURNING current_level, experience, updated_at`

	err = r.db.inTx(ctx, func(tx pgx.Tx) error {
		cur, err := scanOwned(tx.QueryRow(ctx, sel, id, userID))
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock owned player: %w", err)
		}
		level, xp, err := fn(*cur)
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, upd, id, userID, level, xp).
			Scan(&cur.CurrentLevel, &cur.Experience, &cur.UpdatedAt); err != nil {
			return fmt.Errorf("update progress: %w", err)
		}
		out = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OwnedPlayerRepo) joined() sq.SelectBuilder {
	return psql.
		Select(joinedColumns...).
		From("owned_players op").
		LeftJoin("gacha_players gp ON gp.id = op.player_id")
}

func scanOwned(row pgx.Row) (*model.OwnedPlayer, error) {
	var p model.OwnedPlayer
	err := row.Scan(
		&p.ID, &p.UserID, &p.PlayerID, &p.SourceOrderID, &p.SourceDrawID, &p.AcquiredAt,
		&p.CurrentLevel, &p.Experience, &p.IsActive, &p.Division, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// joinedRow receives an owned_players row LEFT JOINed with gacha_players.
type joinedRow struct {
	p model.OwnedPlayer

	gpID        *uuid.UUID
	gpName      *string
	gpPosition  *string
	gpRarity    *string
	gpDivision  *string
	gpBaseStats *string
	gpImageURL  *string
	gpCreatedAt *time.Time
	gpUpdatedAt *time.Time
}

func (jr *joinedRow) dest() []any {
	return []any{
		&jr.p.ID, &jr.p.UserID, &jr.p.PlayerID, &jr.p.SourceOrderID, &jr.p.SourceDrawID, &jr.p.AcquiredAt,
		&jr.p.CurrentLevel, &jr.p.Experience, &jr.p.IsActive, &jr.p.Division, &jr.p.CreatedAt, &jr.p.UpdatedAt,
		&jr.gpID, &jr.gpName, &jr.gpPosition, &jr.gpRarity, &jr.gpDivision, &jr.gpBaseStats, &jr.gpImageURL,
		&jr.gpCreatedAt, &jr.gpUpdatedAt,
	}
}

func (jr *joinedRow) build() (*model.OwnedPlayer, error) {
	p := jr.p
	if jr.gpID == nil {
		return &p, nil
	}
	gp := &model.GachaPlayer{
		ID:       *jr.gpID,
		Name:     deref(jr.gpName),
		Position: deref(jr.gpPosition),
		Rarity:   deref(jr.gpRarity),
		Division: deref(jr.gpDivision),
		ImageURL: jr.gpImageURL,
	}
	if jr.gpCreatedAt != nil {
		gp.CreatedAt = *jr.gpCreatedAt
	}
	if jr.gpUpdatedAt != nil {
		gp.UpdatedAt = *jr.gpUpdatedAt
	}
	stats, err := decodeBaseStats(deref(jr.gpBaseStats))
	if err != nil {
		return nil, fmt.Errorf("catalog player %s: %w", gp.ID, err)
	}
	gp.BaseStats = stats
	p.Player = gp
	return &p, nil
}

// decodeBaseStats parses the JSON text stored in gacha_players.base_stats.
func decodeBaseStats(raw string) (model.BaseStats, error) {
	var s model.BaseStats
	if raw == "" {
		return s, nil
	}
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return model.BaseStats{}, fmt.Errorf("decode base stats: %w", err)
	}
	return s, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
