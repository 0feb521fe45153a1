package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdminConfigID is the fixed identity of the singleton config row. All
// reads and writes go through one accessor so the constraint is enforced at
// the access layer.
const AdminConfigID = 1

type AdminConfig struct {
	ID                int64           `db:"id" json:"id"`
	AdminEmail        string          `db:"admin_email" json:"admin_email"`
	MaxDailyAds       int             `db:"max_daily_ads" json:"max_daily_ads"`
	MaxDailyMissions  int             `db:"max_daily_missions" json:"max_daily_missions"`
	DefaultTrustPoint int             `db:"default_trust_points" json:"default_trust_points"`
	MinVoucherGold    decimal.Decimal `db:"min_voucher_gold" json:"min_voucher_gold"`
	MaxVoucherGold    decimal.Decimal `db:"max_voucher_gold" json:"max_voucher_gold"`
	VoucherExpiryDays int             `db:"voucher_expiry_days" json:"voucher_expiry_days"`
	CancelAllowed     bool            `db:"cancel_allowed" json:"cancel_allowed"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}
