package repository

import (
	"context"

	"forgecraft/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const adminConfigColumns = `id, admin_email, max_daily_ads, max_daily_missions, default_trust_points,
	min_voucher_gold, max_voucher_gold, voucher_expiry_days, cancel_allowed, updated_at`

// AdminConfigRepository is the single accessor for the singleton config
// row; the fixed-id constraint is enforced here, not by convention.
type AdminConfigRepository struct {
	db *pgxpool.Pool
}

func NewAdminConfigRepository(db *pgxpool.Pool) *AdminConfigRepository {
	return &AdminConfigRepository{db: db}
}

func scanAdminConfig(row pgx.Row) (*domain.AdminConfig, error) {
	var c domain.AdminConfig
	if err := row.Scan(
		&c.ID, &c.AdminEmail, &c.MaxDailyAds, &c.MaxDailyMissions, &c.DefaultTrustPoint,
		&c.MinVoucherGold, &c.MaxVoucherGold, &c.VoucherExpiryDays, &c.CancelAllowed, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *AdminConfigRepository) Get(ctx context.Context) (*domain.AdminConfig, error) {
	return scanAdminConfig(r.db.QueryRow(ctx,
		`SELECT `+adminConfigColumns+` FROM admin_config WHERE id = $1`,
		domain.AdminConfigID))
}

// GetIn reads the config inside q so voucher bounds are taken from the
// same snapshot as the debit they constrain.
func (r *AdminConfigRepository) GetIn(ctx context.Context, q Querier) (*domain.AdminConfig, error) {
	return scanAdminConfig(q.QueryRow(ctx,
		`SELECT `+adminConfigColumns+` FROM admin_config WHERE id = $1`,
		domain.AdminConfigID))
}

// Update writes every mutable field at once. The admin email is immutable
// via this path.
func (r *AdminConfigRepository) Update(ctx context.Context, c *domain.AdminConfig) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE admin_config
		 SET max_daily_ads = $1, max_daily_missions = $2, default_trust_points = $3,
		     min_voucher_gold = $4, max_voucher_gold = $5, voucher_expiry_days = $6,
		     cancel_allowed = $7, updated_at = now()
		 WHERE id = $8`,
		c.MaxDailyAds, c.MaxDailyMissions, c.DefaultTrustPoint,
		c.MinVoucherGold, c.MaxVoucherGold, c.VoucherExpiryDays,
		c.CancelAllowed, domain.AdminConfigID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Ensure seeds the singleton row if it does not exist yet.
func (r *AdminConfigRepository) Ensure(ctx context.Context, c *domain.AdminConfig) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO admin_config
		   (id, admin_email, max_daily_ads, max_daily_missions, default_trust_points,
		    min_voucher_gold, max_voucher_gold, voucher_expiry_days, cancel_allowed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO NOTHING`,
		domain.AdminConfigID, c.AdminEmail, c.MaxDailyAds, c.MaxDailyMissions,
		c.DefaultTrustPoint, c.MinVoucherGold, c.MaxVoucherGold,
		c.VoucherExpiryDays, c.CancelAllowed,
	)
	return err
}
