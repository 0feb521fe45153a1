package service

import (
	"context"
	"time"

	"forgecraft/internal/apperr"
	"forgecraft/internal/domain"
	"forgecraft/internal/pagination"
	"forgecraft/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrVoucherNotFound    = apperr.NotFound("VOUCHER_NOT_FOUND", "voucher not found")
	ErrVoucherNotOwner    = apperr.Forbidden("VOUCHER_NOT_OWNER", "voucher belongs to another user")
	ErrVoucherNotPending  = apperr.Conflict("VOUCHER_NOT_PENDING", "voucher is no longer pending")
	ErrVoucherOutOfBounds = apperr.Validation("VOUCHER_OUT_OF_BOUNDS", "amount is outside the allowed voucher range")
	ErrCancelDisabled     = apperr.Forbidden("CANCEL_DISABLED", "voucher cancellation is disabled")
)

const voucherCodeLength = 12

type VoucherService struct {
	db       *pgxpool.Pool
	guard    *UserGuard
	users    *repository.UserRepository
	vouchers *repository.VoucherRepository
	config   *repository.AdminConfigRepository
	notifier Notifier
}

func NewVoucherService(db *pgxpool.Pool, notifier Notifier) *VoucherService {
	return &VoucherService{
		db:       db,
		guard:    NewUserGuard(db),
		users:    repository.NewUserRepository(db),
		vouchers: repository.NewVoucherRepository(db),
		config:   repository.NewAdminConfigRepository(db),
		notifier: notifier,
	}
}

// Create converts gold into a PENDING voucher. The amount is bounded by the
// current admin config, the debit carries the balance guard, and the unique
// code allocation retries on collision, all in one transaction.
func (s *VoucherService) Create(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.UserVoucher, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := s.guard.CheckIn(ctx, tx, userID); err != nil {
		return nil, err
	}

	cfg, err := s.config.GetIn(ctx, tx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if amount.LessThan(cfg.MinVoucherGold) || amount.GreaterThan(cfg.MaxVoucherGold) {
		return nil, ErrVoucherOutOfBounds
	}

	ok, err := s.users.DebitGold(ctx, tx, userID, amount)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !ok {
		return nil, ErrInsufficientGold
	}

	voucher := &domain.UserVoucher{
		UserID:     userID,
		GoldAmount: amount,
		Status:     domain.VoucherStatusPending,
		ExpiresAt:  time.Now().AddDate(0, 0, cfg.VoucherExpiryDays),
	}
	err = withUniqueCodeN(voucherCodeLength, func(code string) error {
		voucher.Code = code
		return s.vouchers.Create(ctx, tx, voucher)
	})
	if err != nil {
		return nil, apperr.From(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	notify(s.notifier, userID, "voucher.created", voucher)
	return voucher, nil
}

// Cancel refunds a PENDING voucher. The status flip is a conditional update
// inside the transaction, so an already redeemed or expired voucher can
// never be refunded even under a racing external redemption.
func (s *VoucherService) Cancel(ctx context.Context, userID, voucherID int64) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperr.Internal(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := s.guard.CheckIn(ctx, tx, userID); err != nil {
		return err
	}

	cfg, err := s.config.GetIn(ctx, tx)
	if err != nil {
		return apperr.Internal(err)
	}
	if !cfg.CancelAllowed {
		return ErrCancelDisabled
	}

	voucher, err := s.vouchers.GetByID(ctx, voucherID)
	if err != nil {
		if repository.NotFound(err) {
			return ErrVoucherNotFound
		}
		return apperr.Internal(err)
	}
	if voucher.UserID != userID {
		return ErrVoucherNotOwner
	}

	ok, err := s.vouchers.Cancel(ctx, tx, voucherID, userID)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return ErrVoucherNotPending
	}

	if err := s.users.CreditGold(ctx, tx, userID, voucher.GoldAmount); err != nil {
		return apperr.Internal(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal(err)
	}
	notify(s.notifier, userID, "voucher.cancelled", voucher)
	return nil
}

func (s *VoucherService) ListByUser(ctx context.Context, userID int64, p pagination.Page) ([]*domain.UserVoucher, error) {
	res, err := s.vouchers.ListByUser(ctx, userID, p.Offset, p.Limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return res, nil
}

func (s *VoucherService) Get(ctx context.Context, userID, voucherID int64) (*domain.UserVoucher, error) {
	voucher, err := s.vouchers.GetByID(ctx, voucherID)
	if err != nil {
		if repository.NotFound(err) {
			return nil, ErrVoucherNotFound
		}
		return nil, apperr.Internal(err)
	}
	if voucher.UserID != userID {
		return nil, ErrVoucherNotOwner
	}
	return voucher, nil
}
