package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rarity grades shared by materials and shields.
type Rarity string

const (
	RarityCommon    Rarity = "COMMON"
	RarityRare      Rarity = "RARE"
	RarityEpic      Rarity = "EPIC"
	RarityLegendary Rarity = "LEGENDARY"
	RarityMythic    Rarity = "MYTHIC"
)

func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityEpic, RarityLegendary, RarityMythic:
		return true
	}
	return false
}

type MaterialType struct {
	ID        int64           `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Code      string          `db:"code" json:"code"`
	Cost      decimal.Decimal `db:"cost" json:"cost"`
	Power     int             `db:"power" json:"power"`
	Rarity    Rarity          `db:"rarity" json:"rarity"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// UserMaterial is the per-(user, material) quantity row. Quantity is never
// negative; decrements beyond the available quantity are rejected.
type UserMaterial struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	MaterialTypeID int64     `db:"material_type_id" json:"material_type_id"`
	Quantity       int64     `db:"quantity" json:"quantity"`
	SoldedQuantity int64     `db:"solded_quantity" json:"solded_quantity"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
