package repository

import (
	"context"

	"forgecraft/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const voucherColumns = `id, user_id, code, gold_amount, status, expires_at, created_at, cancelled_at`

type VoucherRepository struct {
	db *pgxpool.Pool
}

func NewVoucherRepository(db *pgxpool.Pool) *VoucherRepository {
	return &VoucherRepository{db: db}
}

func scanVoucher(row pgx.Row) (*domain.UserVoucher, error) {
	var v domain.UserVoucher
	if err := row.Scan(
		&v.ID, &v.UserID, &v.Code, &v.GoldAmount, &v.Status,
		&v.ExpiresAt, &v.CreatedAt, &v.CancelledAt,
	); err != nil {
		return nil, err
	}
	return &v, nil
}

// Create inserts a voucher inside q. A unique-violation on code is
// surfaced unchanged so the caller can retry with a fresh code.
func (r *VoucherRepository) Create(ctx context.Context, q Querier, v *domain.UserVoucher) error {
	return q.QueryRow(ctx,
		`INSERT INTO user_vouchers (user_id, code, gold_amount, status, expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		v.UserID, v.Code, v.GoldAmount, v.Status, v.ExpiresAt,
	).Scan(&v.ID, &v.CreatedAt)
}

func (r *VoucherRepository) GetByID(ctx context.Context, id int64) (*domain.UserVoucher, error) {
	return scanVoucher(r.db.QueryRow(ctx,
		`SELECT `+voucherColumns+` FROM user_vouchers WHERE id = $1`, id))
}

func (r *VoucherRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*domain.UserVoucher, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+voucherColumns+` FROM user_vouchers
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 OFFSET $2 LIMIT $3`,
		userID, offset, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.UserVoucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, rows.Err()
}

// Cancel transitions PENDING -> CANCELLED inside q. The status re-check in
// the guard makes refunding an already-redeemed voucher impossible.
func (r *VoucherRepository) Cancel(ctx context.Context, q Querier, id, userID int64) (bool, error) {
	tag, err := q.Exec(ctx,
		`UPDATE user_vouchers
		 SET status = $1, cancelled_at = now()
		 WHERE id = $2 AND user_id = $3 AND status = $4`,
		domain.VoucherStatusCancelled, id, userID, domain.VoucherStatusPending,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
