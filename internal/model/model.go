// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// User is a wallet-backed account. Created on first authentication.
type User struct {
	ID        uuid.UUID `json:"id"`
	Wallet    string    `json:"wallet"` // unique, immutable once set
	ChainType string    `json:"chainType"`
	Username  *string   `json:"username"`
	Email     *string   `json:"email"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Identity is the authenticated caller as asserted by a bearer token.
type Identity struct {
	UserID uuid.UUID
	Wallet string // optional; required to create the user on first sight
	Chain  string // optional
}

// BaseStats is the attribute block of a catalog player. Also reused for bonuses and totals.
type BaseStats struct {
	Speed       int `json:"speed"`
	Shooting    int `json:"shooting"`
	Passing     int `json:"passing"`
	Defending   int `json:"defending"`
	Goalkeeping int `json:"goalkeeping"`
	Overall     int `json:"overall"`
}

// GachaPlayer is a read-only catalog template for an acquirable character.
type GachaPlayer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Position  string    `json:"position"`
	Rarity    string    `json:"rarity"`
	Division  string    `json:"division"`
	BaseStats BaseStats `json:"baseStats"` // stored as JSON text
	ImageURL  *string   `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OwnedPlayer is a user's instance of a catalog player.
type OwnedPlayer struct {
	ID            uuid.UUID    `json:"id"`
	UserID        uuid.UUID    `json:"userId"`   // FK -> users.id
	PlayerID      uuid.UUID    `json:"playerId"` // FK -> gacha_players.id
	SourceOrderID *string      `json:"sourceOrderId"`
	SourceDrawID  *string      `json:"sourceDrawId"`
	AcquiredAt    time.Time    `json:"acquiredAt"`
	CurrentLevel  int          `json:"currentLevel"` // >= 1
	Experience    int          `json:"experience"`   // >= 0, never decreases
	IsActive      bool         `json:"isActive"`     // soft delete flag
	Division      *string      `json:"division"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
	Player        *GachaPlayer `json:"player,omitempty"` // joined catalog entry, when loaded
}

// PlayerKit is one version of the cosmetic loadout of an owned player.
type PlayerKit struct {
	ID             uuid.UUID  `json:"id"`
	OwnedPlayerID  uuid.UUID  `json:"ownedPlayerId"`
	Version        int        `json:"version"` // strictly increasing per owned player, starts at 1
	Name           string     `json:"name"`
	PrimaryColor   string     `json:"primaryColor"`
	SecondaryColor string     `json:"secondaryColor"`
	LogoURL        *string    `json:"logoUrl"`
	IsActive       bool       `json:"isActive"`
	EquippedAt     *time.Time `json:"equippedAt"`
	UnequippedAt   *time.Time `json:"unequippedAt"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// KitPatch carries the optional fields of a kit update. Empty means "use the default".
type KitPatch struct {
	Name           string
	PrimaryColor   string
	SecondaryColor string
	LogoURL        string
}

// Progression reports level, experience and derived stats of an owned player.
type Progression struct {
	OwnedPlayerID      uuid.UUID `json:"ownedPlayerId"`
	Level              int       `json:"level"`
	Experience         int       `json:"experience"`
	RequiredExperience int       `json:"requiredExperience"`
	Stats              BaseStats `json:"stats"`
	Bonuses            BaseStats `json:"bonuses"`
	TotalStats         BaseStats `json:"totalStats"`
}

// Requirement is one axis of farming eligibility.
type Requirement struct {
	Current  int  `json:"current"`
	Required int  `json:"required"`
	Met      bool `json:"met"`
}

// FarmingRequirements groups the level and experience axes.
type FarmingRequirements struct {
	Level      Requirement `json:"level"`
	Experience Requirement `json:"experience"`
}

// FarmingStatus reports whether an owned player may play and how close it is.
type FarmingStatus struct {
	CanPlay         bool                `json:"canPlay"`
	FarmingProgress int                 `json:"farmingProgress"` // 0..100
	Reason          string              `json:"reason"`
	Requirements    FarmingRequirements `json:"requirements"`
}

// FarmingResult is the outcome of one farming session.
type FarmingResult struct {
	Success       bool `json:"success"`
	XPGained      int  `json:"xpGained"`
	NewExperience int  `json:"newExperience"`
	NewLevel      int  `json:"newLevel"`
	Cost          int  `json:"cost"` // reported only, never charged
}
