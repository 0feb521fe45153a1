package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ShieldType struct {
	ID        int64           `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Code      string          `db:"code" json:"code"`
	Cost      decimal.Decimal `db:"cost" json:"cost"`
	Power     int             `db:"power" json:"power"`
	Rarity    Rarity          `db:"rarity" json:"rarity"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// UserShield is the per-(user, shield type) quantity row. Unlike swords,
// shields are stacked, so the anvil flag lives on the stack row.
type UserShield struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	ShieldTypeID   int64     `db:"shield_type_id" json:"shield_type_id"`
	Quantity       int64     `db:"quantity" json:"quantity"`
	SoldedQuantity int64     `db:"solded_quantity" json:"solded_quantity"`
	IsOnAnvil      bool      `db:"is_on_anvil" json:"is_on_anvil"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
