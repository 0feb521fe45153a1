package service

import (
	"context"

	"forgecraft/internal/apperr"
	"forgecraft/internal/domain"
	"forgecraft/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrConfigBounds = apperr.Validation("CONFIG_BOUNDS", "min voucher gold must not exceed max voucher gold")

type AdminConfigService struct {
	config *repository.AdminConfigRepository
}

func NewAdminConfigService(db *pgxpool.Pool) *AdminConfigService {
	return &AdminConfigService{config: repository.NewAdminConfigRepository(db)}
}

func (s *AdminConfigService) Get(ctx context.Context) (*domain.AdminConfig, error) {
	cfg, err := s.config.Get(ctx)
	if err != nil {
		if repository.NotFound(err) {
			return nil, apperr.FatalConfig("CONFIG_MISSING", "admin config row is missing")
		}
		return nil, apperr.Internal(err)
	}
	return cfg, nil
}

type UpdateAdminConfigInput struct {
	MaxDailyAds       int             `json:"max_daily_ads"`
	MaxDailyMissions  int             `json:"max_daily_missions"`
	DefaultTrustPoint int             `json:"default_trust_points"`
	MinVoucherGold    decimal.Decimal `json:"min_voucher_gold"`
	MaxVoucherGold    decimal.Decimal `json:"max_voucher_gold"`
	VoucherExpiryDays int             `json:"voucher_expiry_days"`
	CancelAllowed     bool            `json:"cancel_allowed"`
}

// Update replaces every mutable field at once or not at all. The admin
// email never changes through this path.
func (s *AdminConfigService) Update(ctx context.Context, in UpdateAdminConfigInput) (*domain.AdminConfig, error) {
	if in.MaxDailyAds < 0 || in.MaxDailyMissions < 0 || in.DefaultTrustPoint < 0 || in.VoucherExpiryDays < 0 {
		return nil, apperr.Validation("CONFIG_NEGATIVE", "daily caps, trust points and expiry days must be non-negative")
	}
	if in.MinVoucherGold.IsNegative() || in.MaxVoucherGold.IsNegative() {
		return nil, apperr.Validation("CONFIG_NEGATIVE", "voucher bounds must be non-negative")
	}
	if in.MinVoucherGold.GreaterThan(in.MaxVoucherGold) {
		return nil, ErrConfigBounds
	}

	cfg, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	cfg.MaxDailyAds = in.MaxDailyAds
	cfg.MaxDailyMissions = in.MaxDailyMissions
	cfg.DefaultTrustPoint = in.DefaultTrustPoint
	cfg.MinVoucherGold = in.MinVoucherGold
	cfg.MaxVoucherGold = in.MaxVoucherGold
	cfg.VoucherExpiryDays = in.VoucherExpiryDays
	cfg.CancelAllowed = in.CancelAllowed

	if err := s.config.Update(ctx, cfg); err != nil {
		return nil, apperr.Internal(err)
	}
	return cfg, nil
}
