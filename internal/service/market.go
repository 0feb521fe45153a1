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
	ErrItemNotFound     = apperr.NotFound("ITEM_NOT_FOUND", "market item not found")
	ErrItemInactive     = apperr.Conflict("ITEM_INACTIVE", "market item is not active")
	ErrAlreadyPurchased = apperr.Conflict("ALREADY_PURCHASED", "market item is already purchased")
	ErrItemLocked       = apperr.Conflict("ITEM_LOCKED", "market item has a purchase and cannot change")
	ErrInsufficientGold = apperr.Insufficient("INSUFFICIENT_GOLD", "not enough gold")
	ErrInvalidPrice     = apperr.Validation("INVALID_PRICE", "price must be positive")
	ErrInvalidItemRef   = apperr.Validation("INVALID_ITEM_REF", "listing reference does not match item type")
)

type MarketService struct {
	db          *pgxpool.Pool
	guard       *UserGuard
	users       *repository.UserRepository
	market      *repository.MarketRepository
	swords      *repository.UserSwordRepository
	swordLevels *repository.SwordLevelRepository
	matTypes    *repository.MaterialTypeRepository
	materials   *repository.UserMaterialRepository
	shieldTypes *repository.ShieldTypeRepository
	shields     *repository.UserShieldRepository
	notifier    Notifier
}

func NewMarketService(db *pgxpool.Pool, notifier Notifier) *MarketService {
	return &MarketService{
		db:          db,
		guard:       NewUserGuard(db),
		users:       repository.NewUserRepository(db),
		market:      repository.NewMarketRepository(db),
		swords:      repository.NewUserSwordRepository(db),
		swordLevels: repository.NewSwordLevelRepository(db),
		matTypes:    repository.NewMaterialTypeRepository(db),
		materials:   repository.NewUserMaterialRepository(db),
		shieldTypes: repository.NewShieldTypeRepository(db),
		shields:     repository.NewUserShieldRepository(db),
		notifier:    notifier,
	}
}

type CreateMarketItemInput struct {
	ItemType       domain.MarketItemType
	SwordLevelID   *int64
	MaterialTypeID *int64
	ShieldTypeID   *int64
	PriceGold      decimal.Decimal
}

// CreateItem validates the catalog reference against the declared type and
// lists the item active.
func (s *MarketService) CreateItem(ctx context.Context, in CreateMarketItemInput) (*domain.MarketItem, error) {
	if !in.ItemType.Valid() {
		return nil, apperr.Validation("INVALID_ITEM_TYPE", "unknown market item type")
	}
	if !in.PriceGold.IsPositive() {
		return nil, ErrInvalidPrice
	}

	item := &domain.MarketItem{
		ItemType:  in.ItemType,
		PriceGold: in.PriceGold,
		IsActive:  true,
	}
	switch in.ItemType {
	case domain.MarketItemSword:
		if in.SwordLevelID == nil || in.MaterialTypeID != nil || in.ShieldTypeID != nil {
			return nil, ErrInvalidItemRef
		}
		if _, err := s.swordLevels.GetByID(ctx, *in.SwordLevelID); err != nil {
			if repository.NotFound(err) {
				return nil, apperr.NotFound("SWORD_LEVEL_NOT_FOUND", "sword level not found")
			}
			return nil, apperr.Internal(err)
		}
		item.SwordLevelID = in.SwordLevelID
	case domain.MarketItemMaterial:
		if in.MaterialTypeID == nil || in.SwordLevelID != nil || in.ShieldTypeID != nil {
			return nil, ErrInvalidItemRef
		}
		if _, err := s.matTypes.GetByID(ctx, *in.MaterialTypeID); err != nil {
			if repository.NotFound(err) {
				return nil, apperr.NotFound("MATERIAL_TYPE_NOT_FOUND", "material type not found")
			}
			return nil, apperr.Internal(err)
		}
		item.MaterialTypeID = in.MaterialTypeID
	case domain.MarketItemShield:
		if in.ShieldTypeID == nil || in.SwordLevelID != nil || in.MaterialTypeID != nil {
			return nil, ErrInvalidItemRef
		}
		if _, err := s.shieldTypes.GetByID(ctx, *in.ShieldTypeID); err != nil {
			if repository.NotFound(err) {
				return nil, apperr.NotFound("SHIELD_TYPE_NOT_FOUND", "shield type not found")
			}
			return nil, apperr.Internal(err)
		}
		item.ShieldTypeID = in.ShieldTypeID
	}

	if err := s.market.CreateItem(ctx, item); err != nil {
		return nil, apperr.Internal(err)
	}
	return item, nil
}

// SetActive toggles the listing. Toggling to the current state is a
// success without a write. Once a purchase row exists the item is frozen.
func (s *MarketService) SetActive(ctx context.Context, itemID int64, active bool) error {
	return s.mutateItem(ctx, itemID, func(tx pgx.Tx, item *domain.MarketItem) error {
		if item.IsActive == active {
			return nil
		}
		if err := s.market.SetActive(ctx, tx, itemID, active); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
}

func (s *MarketService) UpdatePrice(ctx context.Context, itemID int64, price decimal.Decimal) error {
	if !price.IsPositive() {
		return ErrInvalidPrice
	}
	return s.mutateItem(ctx, itemID, func(tx pgx.Tx, item *domain.MarketItem) error {
		if err := s.market.UpdatePrice(ctx, tx, itemID, price); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
}

func (s *MarketService) DeleteItem(ctx context.Context, itemID int64) error {
	return s.mutateItem(ctx, itemID, func(tx pgx.Tx, item *domain.MarketItem) error {
		if err := s.market.DeleteItem(ctx, tx, itemID); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
}

// mutateItem wraps an admin mutation: lock the row, verify no purchase
// references it yet, then apply. The existence query runs inside the same
// transaction so a concurrent first purchase cannot slip past it.
func (s *MarketService) mutateItem(ctx context.Context, itemID int64, fn func(tx pgx.Tx, item *domain.MarketItem) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperr.Internal(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	item, err := s.market.GetForUpdate(ctx, tx, itemID)
	if err != nil {
		if repository.NotFound(err) {
			return ErrItemNotFound
		}
		return apperr.Internal(err)
	}

	purchased, err := s.market.HasPurchase(ctx, tx, itemID)
	if err != nil {
		return apperr.Internal(err)
	}
	if purchased {
		return ErrItemLocked
	}

	if err := fn(tx, item); err != nil {
		return err
	}
	return commit(ctx, tx)
}

// Purchase is the single-buyer path. Active and unpurchased are re-checked
// under the row lock via the conditional flip in MarkPurchased; gold is
// debited with a balance guard; the won item lands in inventory and an
// immutable purchase row is written, all in one transaction.
func (s *MarketService) Purchase(ctx context.Context, userID, itemID int64) (*domain.MarketPurchase, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := s.guard.CheckIn(ctx, tx, userID); err != nil {
		return nil, err
	}

	item, err := s.market.GetForUpdate(ctx, tx, itemID)
	if err != nil {
		if repository.NotFound(err) {
			return nil, ErrItemNotFound
		}
		return nil, apperr.Internal(err)
	}
	if item.IsPurchased {
		return nil, ErrAlreadyPurchased
	}
	if !item.IsActive {
		return nil, ErrItemInactive
	}

	ok, err := s.users.DebitGold(ctx, tx, userID, item.PriceGold)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !ok {
		return nil, ErrInsufficientGold
	}

	ok, err = s.market.MarkPurchased(ctx, tx, itemID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !ok {
		return nil, ErrAlreadyPurchased
	}

	switch item.ItemType {
	case domain.MarketItemSword:
		err = withUniqueCode(func(code string) error {
			return s.swords.Create(ctx, tx, &domain.UserSword{
				UserID:       userID,
				SwordLevelID: *item.SwordLevelID,
				Code:         code,
			})
		})
	case domain.MarketItemMaterial:
		err = s.materials.AddQuantity(ctx, tx, userID, *item.MaterialTypeID, 1)
	case domain.MarketItemShield:
		err = s.shields.AddQuantity(ctx, tx, userID, *item.ShieldTypeID, 1)
	}
	if err != nil {
		return nil, apperr.From(err)
	}

	purchase := &domain.MarketPurchase{
		UserID:       userID,
		MarketItemID: itemID,
		PriceGold:    item.PriceGold,
	}
	if err := s.market.CreatePurchase(ctx, tx, purchase); err != nil {
		return nil, apperr.Internal(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	notify(s.notifier, userID, "market.purchased", purchase)
	return purchase, nil
}

func (s *MarketService) ListActive(ctx context.Context, p pagination.Page) ([]*domain.MarketItem, error) {
	items, err := s.market.ListActive(ctx, p.Offset, p.Limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return items, nil
}

func (s *MarketService) GetItem(ctx context.Context, itemID int64) (*domain.MarketItem, error) {
	item, err := s.market.GetByID(ctx, itemID)
	if err != nil {
		if repository.NotFound(err) {
			return nil, ErrItemNotFound
		}
		return nil, apperr.Internal(err)
	}
	return item, nil
}

func (s *MarketService) ListPurchases(ctx context.Context, userID int64, p pagination.Page) ([]*domain.MarketPurchase, error) {
	res, err := s.market.ListPurchasesByUser(ctx, userID, p.Offset, p.Limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return res, nil
}

func commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
