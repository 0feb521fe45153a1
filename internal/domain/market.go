package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketItemType discriminates which catalog reference a listing carries.
type MarketItemType string

const (
	MarketItemSword    MarketItemType = "SWORD"
	MarketItemMaterial MarketItemType = "MATERIAL"
	MarketItemShield   MarketItemType = "SHIELD"
)

func (t MarketItemType) Valid() bool {
	switch t {
	case MarketItemSword, MarketItemMaterial, MarketItemShield:
		return true
	}
	return false
}

// MarketItem is a single-buyer listing. Exactly one of the three catalog
// references is set, matching ItemType. Once any MarketPurchase references
// the item it is immutable: no price, active or delete changes.
type MarketItem struct {
	ID             int64           `db:"id" json:"id"`
	ItemType       MarketItemType  `db:"item_type" json:"item_type"`
	SwordLevelID   *int64          `db:"sword_level_id" json:"sword_level_id,omitempty"`
	MaterialTypeID *int64          `db:"material_type_id" json:"material_type_id,omitempty"`
	ShieldTypeID   *int64          `db:"shield_type_id" json:"shield_type_id,omitempty"`
	PriceGold      decimal.Decimal `db:"price_gold" json:"price_gold"`
	IsActive       bool            `db:"is_active" json:"is_active"`
	IsPurchased    bool            `db:"is_purchased" json:"is_purchased"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// MarketPurchase is the immutable audit record of a completed purchase.
type MarketPurchase struct {
	ID           int64           `db:"id" json:"id"`
	UserID       int64           `db:"user_id" json:"user_id"`
	MarketItemID int64           `db:"market_item_id" json:"market_item_id"`
	PriceGold    decimal.Decimal `db:"price_gold" json:"price_gold"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}
