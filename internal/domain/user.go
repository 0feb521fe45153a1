package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           int64           `db:"id" json:"id"`
	Email        string          `db:"email" json:"email"`
	PasswordHash string          `db:"password_hash" json:"-"`
	Name         string          `db:"name" json:"name"`
	Gold         decimal.Decimal `db:"gold" json:"gold"`
	TrustPoints  int             `db:"trust_points" json:"trust_points"`
	IsBanned     bool            `db:"is_banned" json:"is_banned"`
	IsAdmin      bool            `db:"is_admin" json:"-"`
	SoundOn      bool            `db:"sound_on" json:"sound_on"`

	// Weak references into the user's own inventory; both sides are kept
	// consistent inside one transaction on every anvil change.
	AnvilSwordID      *int64 `db:"anvil_sword_id" json:"anvil_sword_id,omitempty"`
	AnvilShieldTypeID *int64 `db:"anvil_shield_type_id" json:"anvil_shield_type_id,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
