// Package service contains the inventory application services: ownership checks, kits,
// progression, farming and caller identity resolution.
package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/goalplay-inventory/internal/farming"
	"github.com/and161185/goalplay-inventory/internal/metrics"
	"github.com/and161185/goalplay-inventory/internal/model"
	"github.com/and161185/goalplay-inventory/internal/progression"
	"github.com/and161185/goalplay-inventory/internal/repository"
)

// Kit defaults.
const (
	DefaultKitName        = "Default Kit"
	CustomKitName         = "Custom Kit"
	DefaultPrimaryColor   = "#FF0000"
	DefaultSecondaryColor = "#FFFFFF"
)

// InventoryService defines the per-user inventory operations.
type InventoryService interface {
	// ListOwned returns the caller's active owned players, newest first.
	ListOwned(ctx context.Context, userID uuid.UUID) ([]model.OwnedPlayer, error)
	// VerifyOwner fails with errs.ErrNotAuthorized unless the caller owns the instance.
	VerifyOwner(ctx context.Context, ownedID, userID uuid.UUID) error
	// GetKit returns the active kit, creating the default one on first access.
	GetKit(ctx context.Context, ownedID, userID uuid.UUID) (*model.PlayerKit, error)
	// UpdateKit retires the active kit and equips a new version built from patch.
	UpdateKit(ctx context.Context, ownedID, userID uuid.UUID, patch model.KitPatch) (*model.PlayerKit, error)
	// ListKits returns the kit history, newest version first.
	ListKits(ctx context.Context, ownedID, userID uuid.UUID) ([]model.PlayerKit, error)
	// GetProgression returns level, experience and derived stats.
	GetProgression(ctx context.Context, ownedID, userID uuid.UUID) (model.Progression, error)
	// GetFarmingStatus reports farming eligibility.
	GetFarmingStatus(ctx context.Context, ownedID, userID uuid.UUID) (model.FarmingStatus, error)
	// ProcessFarming runs one farming session and persists the gained experience.
	ProcessFarming(ctx context.Context, ownedID, userID uuid.UUID, farmingType string) (model.FarmingResult, error)
}

type InventoryServiceImpl struct {
	owned repository.OwnedPlayerRepository
	kits  repository.KitRepository
	guard *Guard

	now   func() time.Time
	newID func() (uuid.UUID, error)
}

// NewInventoryService constructs InventoryService over the given repositories.
func NewInventoryService(owned repository.OwnedPlayerRepository, kits repository.KitRepository) *InventoryServiceImpl {
	return &InventoryServiceImpl{
		owned: owned,
		kits:  kits,
		guard: NewGuard(owned),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewV4,
	}
}

// ListOwned returns active owned players joined with their catalog entries.
func (s *InventoryServiceImpl) ListOwned(ctx context.Context, userID uuid.UUID) ([]model.OwnedPlayer, error) {
	return s.owned.ListActiveByUser(ctx, userID)
}

// VerifyOwner runs the ownership guard alone, for callers that must check ownership
// before inspecting request input.
func (s *InventoryServiceImpl) VerifyOwner(ctx context.Context, ownedID, userID uuid.UUID) error {
	_, err := s.guard.Verify(ctx, ownedID, userID)
	return err
}

// GetKit returns the active kit of an owned player, lazily creating version 1 with defaults.
func (s *InventoryServiceImpl) GetKit(ctx context.Context, ownedID, userID uuid.UUID) (*model.PlayerKit, error) {
	if _, err := s.guard.Verify(ctx, ownedID, userID); err != nil {
		return nil, err
	}
	def, err := s.newKit(model.KitPatch{Name: DefaultKitName})
	if err != nil {
		return nil, err
	}
	k, err := s.kits.EnsureActive(ctx, ownedID, def)
	if err != nil {
		return nil, notOwned(err)
	}
	if k.ID == def.ID {
		metrics.KitVersionsCreated.WithLabelValues("default").Inc()
	}
	return k, nil
}

// UpdateKit equips a new kit version. Empty patch fields fall back to the custom defaults.
func (s *InventoryServiceImpl) UpdateKit(
	ctx context.Context, ownedID, userID uuid.UUID, patch model.KitPatch,
) (*model.PlayerKit, error) {
	if _, err := s.guard.Verify(ctx, ownedID, userID); err != nil {
		return nil, err
	}
	if patch.Name == "" {
		patch.Name = CustomKitName
	}
	next, err := s.newKit(patch)
	if err != nil {
		return nil, err
	}
	k, err := s.kits.Swap(ctx, ownedID, next)
	if err != nil {
		return nil, notOwned(err)
	}
	metrics.KitVersionsCreated.WithLabelValues("update").Inc()
	return k, nil
}

// ListKits returns every kit version of an owned player.
func (s *InventoryServiceImpl) ListKits(ctx context.Context, ownedID, userID uuid.UUID) ([]model.PlayerKit, error) {
	if _, err := s.guard.Verify(ctx, ownedID, userID); err != nil {
		return nil, err
	}
	return s.kits.List(ctx, ownedID)
}

// GetProgression derives the progression view. A missing catalog entry is errs.ErrNotFound.
func (s *InventoryServiceImpl) GetProgression(ctx context.Context, ownedID, userID uuid.UUID) (model.Progression, error) {
	p, err := s.guard.VerifyWithPlayer(ctx, ownedID, userID)
	if err != nil {
		return model.Progression{}, err
	}
	return progression.Build(*p, p.Player)
}

// GetFarmingStatus reports whether the owned player meets the farming thresholds.
func (s *InventoryServiceImpl) GetFarmingStatus(ctx context.Context, ownedID, userID uuid.UUID) (model.FarmingStatus, error) {
	p, err := s.guard.Verify(ctx, ownedID, userID)
	if err != nil {
		return model.FarmingStatus{}, err
	}
	return farming.Status(*p), nil
}

// ProcessFarming grants one session of farmingType. Eligibility is not enforced here.
func (s *InventoryServiceImpl) ProcessFarming(
	ctx context.Context, ownedID, userID uuid.UUID, farmingType string,
) (model.FarmingResult, error) {
	if _, err := s.guard.Verify(ctx, ownedID, userID); err != nil {
		return model.FarmingResult{}, err
	}

	var res model.FarmingResult
	out, err := s.owned.ApplyProgress(ctx, ownedID, userID, func(cur model.OwnedPlayer) (int, int, error) {
		res = farming.Apply(cur, farmingType)
		return res.NewLevel, res.NewExperience, nil
	})
	if err != nil {
		return model.FarmingResult{}, notOwned(err)
	}
	res.NewLevel, res.NewExperience = out.CurrentLevel, out.Experience

	metrics.FarmingSessionsTotal.WithLabelValues(farming.Resolve(farmingType)).Inc()
	metrics.FarmingXPGranted.Add(float64(res.XPGained))
	return res, nil
}

func (s *InventoryServiceImpl) newKit(patch model.KitPatch) (model.PlayerKit, error) {
	id, err := s.newID()
	if err != nil {
		return model.PlayerKit{}, err
	}
	now := s.now()
	k := model.PlayerKit{
		ID:             id,
		Name:           patch.Name,
		PrimaryColor:   orDefault(patch.PrimaryColor, DefaultPrimaryColor),
		SecondaryColor: orDefault(patch.SecondaryColor, DefaultSecondaryColor),
		IsActive:       true,
		EquippedAt:     &now,
	}
	if patch.LogoURL != "" {
		logo := patch.LogoURL
		k.LogoURL = &logo
	}
	return k, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
