package service

import (
	"context"

	"forgecraft/internal/apperr"
	"forgecraft/internal/domain"
	"forgecraft/internal/pagination"
	"forgecraft/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrGiftNotFound     = apperr.NotFound("GIFT_NOT_FOUND", "gift not found")
	ErrGiftNotPending   = apperr.Conflict("GIFT_NOT_PENDING", "gift is no longer pending")
	ErrGiftNotReceiver  = apperr.Forbidden("GIFT_NOT_RECEIVER", "gift belongs to another user")
	ErrReceiverBanned   = apperr.Forbidden("RECEIVER_BANNED", "receiver is banned")
	ErrReceiverNotFound = apperr.NotFound("RECEIVER_NOT_FOUND", "receiver not found")
	ErrEmptyGift        = apperr.Validation("EMPTY_GIFT", "gift must carry at least one item")
)

type GiftService struct {
	db          *pgxpool.Pool
	guard       *UserGuard
	users       *repository.UserRepository
	gifts       *repository.GiftRepository
	swords      *repository.UserSwordRepository
	swordLevels *repository.SwordLevelRepository
	matTypes    *repository.MaterialTypeRepository
	materials   *repository.UserMaterialRepository
	shieldTypes *repository.ShieldTypeRepository
	shields     *repository.UserShieldRepository
	notifier    Notifier
}

func NewGiftService(db *pgxpool.Pool, notifier Notifier) *GiftService {
	return &GiftService{
		db:          db,
		guard:       NewUserGuard(db),
		users:       repository.NewUserRepository(db),
		gifts:       repository.NewGiftRepository(db),
		swords:      repository.NewUserSwordRepository(db),
		swordLevels: repository.NewSwordLevelRepository(db),
		matTypes:    repository.NewMaterialTypeRepository(db),
		materials:   repository.NewUserMaterialRepository(db),
		shieldTypes: repository.NewShieldTypeRepository(db),
		shields:     repository.NewUserShieldRepository(db),
		notifier:    notifier,
	}
}

type GiftItemInput struct {
	ItemType       domain.GiftItemType `json:"item_type"`
	Amount         *decimal.Decimal    `json:"amount,omitempty"`
	MaterialTypeID *int64              `json:"material_type_id,omitempty"`
	SwordLevelID   *int64              `json:"sword_level_id,omitempty"`
	ShieldTypeID   *int64              `json:"shield_type_id,omitempty"`
}

type CreateGiftInput struct {
	ReceiverID    *int64          `json:"receiver_id,omitempty"`
	ReceiverEmail *string         `json:"receiver_email,omitempty"`
	Items         []GiftItemInput `json:"items"`
}

// Create authors a PENDING gift for a receiver addressed by id or email.
// Items are validated against the catalogs; nothing is granted here.
func (s *GiftService) Create(ctx context.Context, in CreateGiftInput) (*domain.UserGift, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyGift
	}

	receiver, err := s.resolveReceiver(ctx, in)
	if err != nil {
		return nil, err
	}
	if receiver.IsBanned {
		return nil, ErrReceiverBanned
	}

	items := make([]domain.UserGiftItem, 0, len(in.Items))
	for _, it := range in.Items {
		item, err := s.validateItem(ctx, it)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	gift := &domain.UserGift{
		UserID: receiver.ID,
		Status: domain.GiftStatusPending,
		Items:  items,
	}
	if err := s.gifts.Create(ctx, tx, gift); err != nil {
		return nil, apperr.Internal(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	notify(s.notifier, receiver.ID, "gift.received", gift)
	return gift, nil
}

func (s *GiftService) resolveReceiver(ctx context.Context, in CreateGiftInput) (*domain.User, error) {
	var (
		receiver *domain.User
		err      error
	)
	switch {
	case in.ReceiverID != nil:
		receiver, err = s.users.GetByID(ctx, *in.ReceiverID)
	case in.ReceiverEmail != nil:
		receiver, err = s.users.GetByEmail(ctx, *in.ReceiverEmail)
	default:
		return nil, apperr.Validation("MISSING_RECEIVER", "receiver id or email is required")
	}
	if err != nil {
		if repository.NotFound(err) {
			return nil, ErrReceiverNotFound
		}
		return nil, apperr.Internal(err)
	}
	return receiver, nil
}

func (s *GiftService) validateItem(ctx context.Context, in GiftItemInput) (*domain.UserGiftItem, error) {
	if !in.ItemType.Valid() {
		return nil, apperr.Validation("INVALID_GIFT_ITEM_TYPE", "unknown gift item type")
	}
	item := &domain.UserGiftItem{ItemType: in.ItemType}

	switch in.ItemType {
	case domain.GiftItemGold, domain.GiftItemTrustPoints:
		if in.Amount == nil || !in.Amount.IsPositive() {
			return nil, apperr.Validation("INVALID_GIFT_AMOUNT", "amount must be positive")
		}
		item.Amount = in.Amount
	case domain.GiftItemMaterial:
		if in.MaterialTypeID == nil {
			return nil, apperr.Validation("MISSING_GIFT_REF", "material_type_id is required")
		}
		if _, err := s.matTypes.GetByID(ctx, *in.MaterialTypeID); err != nil {
			if repository.NotFound(err) {
				return nil, apperr.NotFound("MATERIAL_TYPE_NOT_FOUND", "material type not found")
			}
			return nil, apperr.Internal(err)
		}
		item.MaterialTypeID = in.MaterialTypeID
	case domain.GiftItemSword:
		if in.SwordLevelID == nil {
			return nil, apperr.Validation("MISSING_GIFT_REF", "sword_level_id is required")
		}
		if _, err := s.swordLevels.GetByID(ctx, *in.SwordLevelID); err != nil {
			if repository.NotFound(err) {
				return nil, apperr.NotFound("SWORD_LEVEL_NOT_FOUND", "sword level not found")
			}
			return nil, apperr.Internal(err)
		}
		item.SwordLevelID = in.SwordLevelID
	case domain.GiftItemShield:
		if in.ShieldTypeID == nil {
			return nil, apperr.Validation("MISSING_GIFT_REF", "shield_type_id is required")
		}
		if _, err := s.shieldTypes.GetByID(ctx, *in.ShieldTypeID); err != nil {
			if repository.NotFound(err) {
				return nil, apperr.NotFound("SHIELD_TYPE_NOT_FOUND", "shield type not found")
			}
			return nil, apperr.Internal(err)
		}
		item.ShieldTypeID = in.ShieldTypeID
	}
	return item, nil
}

// Claim grants every item of a PENDING gift to its receiver and flips the
// status to CLAIMED, all in one transaction.
func (s *GiftService) Claim(ctx context.Context, userID, giftID int64) (*domain.UserGift, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := s.guard.CheckIn(ctx, tx, userID); err != nil {
		return nil, err
	}

	gift, err := s.gifts.GetForUpdate(ctx, tx, giftID)
	if err != nil {
		if repository.NotFound(err) {
			return nil, ErrGiftNotFound
		}
		return nil, apperr.Internal(err)
	}
	if gift.UserID != userID {
		return nil, ErrGiftNotReceiver
	}
	if gift.Status != domain.GiftStatusPending {
		return nil, ErrGiftNotPending
	}

	for _, item := range gift.Items {
		if err := s.grantItem(ctx, tx, userID, item); err != nil {
			return nil, err
		}
	}

	ok, err := s.gifts.TransitionStatus(ctx, tx, giftID, domain.GiftStatusClaimed)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !ok {
		return nil, ErrGiftNotPending
	}
	gift.Status = domain.GiftStatusClaimed

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	notify(s.notifier, userID, "gift.claimed", gift)
	return gift, nil
}

func (s *GiftService) grantItem(ctx context.Context, tx pgx.Tx, userID int64, item domain.UserGiftItem) error {
	switch item.ItemType {
	case domain.GiftItemGold:
		if err := s.users.CreditGold(ctx, tx, userID, *item.Amount); err != nil {
			return apperr.Internal(err)
		}
	case domain.GiftItemTrustPoints:
		if err := s.users.AddTrustPoints(ctx, tx, userID, int(item.Amount.IntPart())); err != nil {
			return apperr.Internal(err)
		}
	case domain.GiftItemMaterial:
		if err := s.materials.AddQuantity(ctx, tx, userID, *item.MaterialTypeID, 1); err != nil {
			return apperr.Internal(err)
		}
	case domain.GiftItemShield:
		if err := s.shields.AddQuantity(ctx, tx, userID, *item.ShieldTypeID, 1); err != nil {
			return apperr.Internal(err)
		}
	case domain.GiftItemSword:
		err := withUniqueCode(func(code string) error {
			return s.swords.Create(ctx, tx, &domain.UserSword{
				UserID:       userID,
				SwordLevelID: *item.SwordLevelID,
				Code:         code,
			})
		})
		if err != nil {
			return apperr.From(err)
		}
	}
	return nil
}

// Cancel flips a PENDING gift to CANCELLED. Claimed gifts stay claimed.
func (s *GiftService) Cancel(ctx context.Context, giftID int64) error {
	return s.transition(ctx, giftID, func(tx pgx.Tx) (bool, error) {
		return s.gifts.TransitionStatus(ctx, tx, giftID, domain.GiftStatusCancelled)
	})
}

// Delete removes a PENDING gift and its item rows.
func (s *GiftService) Delete(ctx context.Context, giftID int64) error {
	return s.transition(ctx, giftID, func(tx pgx.Tx) (bool, error) {
		return s.gifts.Delete(ctx, tx, giftID)
	})
}

func (s *GiftService) transition(ctx context.Context, giftID int64, fn func(tx pgx.Tx) (bool, error)) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperr.Internal(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := s.gifts.GetForUpdate(ctx, tx, giftID); err != nil {
		if repository.NotFound(err) {
			return ErrGiftNotFound
		}
		return apperr.Internal(err)
	}

	ok, err := fn(tx)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return ErrGiftNotPending
	}
	return commit(ctx, tx)
}

func (s *GiftService) ListByUser(ctx context.Context, userID int64, p pagination.Page) ([]*domain.UserGift, error) {
	res, err := s.gifts.ListByUser(ctx, userID, p.Offset, p.Limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return res, nil
}

func (s *GiftService) Get(ctx context.Context, giftID int64) (*domain.UserGift, error) {
	gift, err := s.gifts.GetByID(ctx, giftID)
	if err != nil {
		if repository.NotFound(err) {
			return nil, ErrGiftNotFound
		}
		return nil, apperr.Internal(err)
	}
	return gift, nil
}
