package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sword level bounds of the progression catalog. Levels are contiguous from
// 0 upward; level N+1 must exist before a sword at level N can be upgraded.
const (
	SwordMinLevel = 0
	SwordMaxLevel = 100
)

// SwordLevel is one catalog row of the progression ladder.
type SwordLevel struct {
	ID          int64           `db:"id" json:"id"`
	Level       int             `db:"level" json:"level"`
	Name        string          `db:"name" json:"name"`
	Power       int             `db:"power" json:"power"`
	UpgradeCost decimal.Decimal `db:"upgrade_cost" json:"upgrade_cost"`
	SellingCost decimal.Decimal `db:"selling_cost" json:"selling_cost"`
	SuccessRate int             `db:"success_rate" json:"success_rate"` // percent, (0,100]
	Image       string          `db:"image" json:"image"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// UserSword is an owned sword instance. Sold swords are soft-retired, never
// physically removed by a sell.
type UserSword struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	SwordLevelID int64     `db:"sword_level_id" json:"sword_level_id"`
	Code         string    `db:"code" json:"code"`
	IsOnAnvil    bool      `db:"is_on_anvil" json:"is_on_anvil"`
	IsSolded     bool      `db:"is_solded" json:"is_solded"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
