// Package farming computes farming eligibility and session rewards for owned players.
package farming

import (
	"fmt"

	"github.com/and161185/goalplay-inventory/internal/model"
	"github.com/and161185/goalplay-inventory/internal/progression"
)

// Eligibility thresholds.
const (
	RequiredLevel      = 5
	RequiredExperience = 500
)

// TypeGeneral is the fallback farming type.
const TypeGeneral = "general"

// ReadyReason is reported when both thresholds are met.
const ReadyReason = "Player is ready to play"

// Reward is what one session of a farming type grants and costs.
type Reward struct {
	XP   int
	Cost int
}

var rewards = map[string]Reward{
	TypeGeneral:   {XP: 25, Cost: 5},
	"speed":       {XP: 30, Cost: 8},
	"shooting":    {XP: 30, Cost: 8},
	"passing":     {XP: 30, Cost: 8},
	"defense":     {XP: 30, Cost: 8},
	"goalkeeping": {XP: 30, Cost: 8},
}

// Resolve maps unknown or empty farming types to general.
func Resolve(farmingType string) string {
	if _, ok := rewards[farmingType]; ok {
		return farmingType
	}
	return TypeGeneral
}

// RewardFor returns the reward of farmingType, falling back to general for unknown types.
func RewardFor(farmingType string) Reward {
	return rewards[Resolve(farmingType)]
}

// Status reports whether p meets both thresholds and how far along it is.
// Each axis contributes up to 50 progress points.
func Status(p model.OwnedPlayer) model.FarmingStatus {
	levelMet := p.CurrentLevel >= RequiredLevel
	xpMet := p.Experience >= RequiredExperience
	canPlay := levelMet && xpMet

	// min(level/5,1)*50 == min(level,5)*10; min(xp/500,1)*50 == min(xp,500)/10 before flooring.
	progress := min(max(p.CurrentLevel, 0), RequiredLevel)*10 + min(max(p.Experience, 0), RequiredExperience)/10

	var reason string
	switch {
	case canPlay:
		reason = ReadyReason
	case !levelMet:
		reason = fmt.Sprintf("Need level %d (current: %d)", RequiredLevel, p.CurrentLevel)
	default:
		reason = fmt.Sprintf("Need %d XP (current: %d)", RequiredExperience, p.Experience)
	}

	return model.FarmingStatus{
		CanPlay:         canPlay,
		FarmingProgress: progress,
		Reason:          reason,
		Requirements: model.FarmingRequirements{
			Level:      model.Requirement{Current: p.CurrentLevel, Required: RequiredLevel, Met: levelMet},
			Experience: model.Requirement{Current: p.Experience, Required: RequiredExperience, Met: xpMet},
		},
	}
}

// Apply grants one session of farmingType to p and returns the outcome.
// Experience is always added; level never decreases. Cost is reported, not charged.
func Apply(p model.OwnedPlayer, farmingType string) model.FarmingResult {
	r := RewardFor(farmingType)
	newXP := p.Experience + r.XP
	newLevel := max(p.CurrentLevel, progression.LevelFromTotalXP(newXP))
	return model.FarmingResult{
		Success:       true,
		XPGained:      r.XP,
		NewExperience: newXP,
		NewLevel:      newLevel,
		Cost:          r.Cost,
	}
}
