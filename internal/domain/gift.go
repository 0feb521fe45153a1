package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type GiftStatus string

const (
	GiftStatusPending   GiftStatus = "PENDING"
	GiftStatusClaimed   GiftStatus = "CLAIMED"
	GiftStatusCancelled GiftStatus = "CANCELLED"
)

type GiftItemType string

const (
	GiftItemGold        GiftItemType = "GOLD"
	GiftItemTrustPoints GiftItemType = "TRUST_POINTS"
	GiftItemMaterial    GiftItemType = "MATERIAL"
	GiftItemSword       GiftItemType = "SWORD"
	GiftItemShield      GiftItemType = "SHIELD"
)

func (t GiftItemType) Valid() bool {
	switch t {
	case GiftItemGold, GiftItemTrustPoints, GiftItemMaterial, GiftItemSword, GiftItemShield:
		return true
	}
	return false
}

// UserGift is an admin-authored bundle. Nothing is granted at creation;
// granting happens on claim, the only PENDING -> CLAIMED path. CLAIMED and
// CANCELLED gifts are immutable history.
type UserGift struct {
	ID        int64      `db:"id" json:"id"`
	UserID    int64      `db:"user_id" json:"user_id"`
	Status    GiftStatus `db:"status" json:"status"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`

	Items []UserGiftItem `db:"-" json:"items,omitempty"`
}

// UserGiftItem carries the type-specific payload: an amount for
// GOLD/TRUST_POINTS, a catalog reference otherwise.
type UserGiftItem struct {
	ID             int64            `db:"id" json:"id"`
	GiftID         int64            `db:"gift_id" json:"gift_id"`
	ItemType       GiftItemType     `db:"item_type" json:"item_type"`
	Amount         *decimal.Decimal `db:"amount" json:"amount,omitempty"`
	MaterialTypeID *int64           `db:"material_type_id" json:"material_type_id,omitempty"`
	SwordLevelID   *int64           `db:"sword_level_id" json:"sword_level_id,omitempty"`
	ShieldTypeID   *int64           `db:"shield_type_id" json:"shield_type_id,omitempty"`
}
