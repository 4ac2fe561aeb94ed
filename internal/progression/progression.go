// Package progression implements the experience curve and stat bonuses of owned players.
// Everything here is pure and deterministic.
package progression

import (
	"github.com/and161185/goalplay-inventory/internal/errs"
	"github.com/and161185/goalplay-inventory/internal/model"
)

// MaxLevel is the highest level LevelFromTotalXP can report.
const MaxLevel = 99

// BonusStep is the number of levels per +1 attribute bonus.
const BonusStep = 5

// RequiredXP returns the experience threshold attached to level.
func RequiredXP(level int) int {
	return level*100 + level*level*10
}

// LevelFromTotalXP walks the thresholds upward from level 1 and returns the level reached
// for the given experience total. The walk stops at MaxLevel.
func LevelFromTotalXP(totalXP int) int {
	level := 1
	for level < MaxLevel && totalXP >= RequiredXP(level) {
		level++
	}
	return level
}

// LevelBonus is the flat bonus added to every attribute at level.
func LevelBonus(level int) int {
	return level / BonusStep
}

// Bonuses returns the per-attribute bonus block for level.
func Bonuses(level int) model.BaseStats {
	b := LevelBonus(level)
	return model.BaseStats{
		Speed:       b,
		Shooting:    b,
		Passing:     b,
		Defending:   b,
		Goalkeeping: b,
		Overall:     b,
	}
}

// TotalStats adds the level bonus to base. Overall is recomputed as the floored mean of the
// five boosted attributes; the stored base overall is ignored.
func TotalStats(base model.BaseStats, level int) model.BaseStats {
	b := LevelBonus(level)
	sum := base.Speed + base.Shooting + base.Passing + base.Defending + base.Goalkeeping
	return model.BaseStats{
		Speed:       base.Speed + b,
		Shooting:    base.Shooting + b,
		Passing:     base.Passing + b,
		Defending:   base.Defending + b,
		Goalkeeping: base.Goalkeeping + b,
		Overall:     (sum + b*5) / 5,
	}
}

// Build derives the progression view of an owned player from its catalog entry.
func Build(owned model.OwnedPlayer, catalog *model.GachaPlayer) (model.Progression, error) {
	if catalog == nil {
		return model.Progression{}, errs.ErrNotFound
	}
	level := owned.CurrentLevel
	return model.Progression{
		OwnedPlayerID:      owned.ID,
		Level:              level,
		Experience:         owned.Experience,
		RequiredExperience: RequiredXP(level + 1),
		Stats:              catalog.BaseStats,
		Bonuses:            Bonuses(level),
		TotalStats:         TotalStats(catalog.BaseStats, level),
	}, nil
}
