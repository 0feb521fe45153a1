package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type VoucherStatus string

const (
	VoucherStatusPending   VoucherStatus = "PENDING"
	VoucherStatusRedeemed  VoucherStatus = "REDEEMED"
	VoucherStatusCancelled VoucherStatus = "CANCELLED"
	VoucherStatusExpired   VoucherStatus = "EXPIRED"
)

// UserVoucher is created by debiting the user's gold; cancelling refunds it.
// Only PENDING vouchers are cancellable. REDEEMED and EXPIRED are set by the
// external redemption flow and are terminal.
type UserVoucher struct {
	ID          int64           `db:"id" json:"id"`
	UserID      int64           `db:"user_id" json:"user_id"`
	Code        string          `db:"code" json:"code"`
	GoldAmount  decimal.Decimal `db:"gold_amount" json:"gold_amount"`
	Status      VoucherStatus   `db:"status" json:"status"`
	ExpiresAt   time.Time       `db:"expires_at" json:"expires_at"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	CancelledAt *time.Time      `db:"cancelled_at" json:"cancelled_at,omitempty"`
}
