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
	ErrSwordNotFound        = apperr.NotFound("SWORD_NOT_FOUND", "sword not found")
	ErrNotSwordOwner        = apperr.Forbidden("NOT_SWORD_OWNER", "sword belongs to another user")
	ErrSwordAlreadySold     = apperr.Conflict("ALREADY_SOLD", "sword is already sold")
	ErrMaterialNotOwned     = apperr.NotFound("MATERIAL_NOT_OWNED", "user does not own this material")
	ErrShieldNotOwned       = apperr.NotFound("SHIELD_NOT_OWNED", "user does not own this shield")
	ErrInsufficientQuantity = apperr.Insufficient("INSUFFICIENT_QUANTITY", "not enough quantity owned")
	ErrAnvilSwordEmpty      = apperr.Conflict("ANVIL_SWORD_EMPTY", "no sword is on the anvil")
	ErrAnvilShieldEmpty     = apperr.Conflict("ANVIL_SHIELD_EMPTY", "no shield is on the anvil")
)

type InventoryService struct {
	db          *pgxpool.Pool
	guard       *UserGuard
	users       *repository.UserRepository
	swords      *repository.UserSwordRepository
	swordLevels *repository.SwordLevelRepository
	materials   *repository.UserMaterialRepository
	matTypes    *repository.MaterialTypeRepository
	shields     *repository.UserShieldRepository
	shieldTypes *repository.ShieldTypeRepository
	notifier    Notifier
}

func NewInventoryService(db *pgxpool.Pool, notifier Notifier) *InventoryService {
	return &InventoryService{
		db:          db,
		guard:       NewUserGuard(db),
		users:       repository.NewUserRepository(db),
		swords:      repository.NewUserSwordRepository(db),
		swordLevels: repository.NewSwordLevelRepository(db),
		materials:   repository.NewUserMaterialRepository(db),
		matTypes:    repository.NewMaterialTypeRepository(db),
		shields:     repository.NewUserShieldRepository(db),
		shieldTypes: repository.NewShieldTypeRepository(db),
		notifier:    notifier,
	}
}

// SellSword soft-retires an owned sword and credits its selling cost. If
// the sword occupied the anvil, the user's back-reference is cleared in the
// same transaction.
func (s *InventoryService) SellSword(ctx context.Context, userID, swordID int64) (decimal.Decimal, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return decimal.Zero, apperr.Internal(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	user, err := s.guard.CheckIn(ctx, tx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	sword, err := s.swords.GetForUpdate(ctx, tx, swordID)
	if err != nil {
		if repository.NotFound(err) {
			return decimal.Zero, ErrSwordNotFound
		}
		return decimal.Zero, apperr.Internal(err)
	}
	if sword.UserID != userID {
		return decimal.Zero, ErrNotSwordOwner
	}
	if sword.IsSolded {
		return decimal.Zero, ErrSwordAlreadySold
	}

	level, err := s.swordLevels.GetIn(ctx, tx, sword.SwordLevelID)
	if err != nil {
		return decimal.Zero, apperr.Internal(err)
	}

	ok, err := s.swords.MarkSold(ctx, tx, swordID)
	if err != nil {
		return decimal.Zero, apperr.Internal(err)
	}
	if !ok {
		return decimal.Zero, ErrSwordAlreadySold
	}

	if user.AnvilSwordID != nil && *user.AnvilSwordID == swordID {
		if err := s.swords.ClearAnvil(ctx, tx, userID); err != nil {
			return decimal.Zero, apperr.Internal(err)
		}
		if err := s.users.SetAnvilSword(ctx, tx, userID, nil); err != nil {
			return decimal.Zero, apperr.Internal(err)
		}
	}

	if err := s.users.CreditGold(ctx, tx, userID, level.SellingCost); err != nil {
		return decimal.Zero, apperr.Internal(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, apperr.Internal(err)
	}
	notify(s.notifier, userID, "inventory.sword_sold", map[string]any{"sword_id": swordID, "earned": level.SellingCost})
	return level.SellingCost, nil
}

// SellMaterial sells quantity units, crediting unit cost times quantity.
func (s *InventoryService) SellMaterial(ctx context.Context, userID, materialTypeID, quantity int64) (decimal.Decimal, error) {
	if quantity < 1 {
		return decimal.Zero, apperr.Validation("INVALID_QUANTITY", "quantity must be at least 1")
	}

	matType, err := s.matTypes.GetByID(ctx, materialTypeID)
	if err != nil {
		if repository.NotFound(err) {
			return decimal.Zero, apperr.NotFound("MATERIAL_TYPE_NOT_FOUND", "material type not found")
		}
		return decimal.Zero, apperr.Internal(err)
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return decimal.Zero, apperr.Internal(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := s.guard.CheckIn(ctx, tx, userID); err != nil {
		return decimal.Zero, err
	}

	ok, err := s.materials.Sell(ctx, tx, userID, materialTypeID, quantity)
	if err != nil {
		return decimal.Zero, apperr.Internal(err)
	}
	if !ok {
		if _, err := s.materials.Get(ctx, userID, materialTypeID); repository.NotFound(err) {
			return decimal.Zero, ErrMaterialNotOwned
		}
		return decimal.Zero, ErrInsufficientQuantity
	}

	earned := matType.Cost.Mul(decimal.NewFromInt(quantity))
	if err := s.users.CreditGold(ctx, tx, userID, earned); err != nil {
		return decimal.Zero, apperr.Internal(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, apperr.Internal(err)
	}
	notify(s.notifier, userID, "inventory.material_sold", map[string]any{"material_type_id": materialTypeID, "quantity": quantity, "earned": earned})
	return earned, nil
}

// SellShield sells quantity units. When the stack was on the anvil and the
// sale empties it, the anvil flag and the user's back-reference are cleared
// atomically with the decrement.
func (s *InventoryService) SellShield(ctx context.Context, userID, shieldTypeID, quantity int64) (decimal.Decimal, error) {
	if quantity < 1 {
		return decimal.Zero, apperr.Validation("INVALID_QUANTITY", "quantity must be at least 1")
	}

	shieldType, err := s.shieldTypes.GetByID(ctx, shieldTypeID)
	if err != nil {
		if repository.NotFound(err) {
			return decimal.Zero, apperr.NotFound("SHIELD_TYPE_NOT_FOUND", "shield type not found")
		}
		return decimal.Zero, apperr.Internal(err)
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return decimal.Zero, apperr.Internal(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := s.guard.CheckIn(ctx, tx, userID); err != nil {
		return decimal.Zero, err
	}

	stack, err := s.shields.GetForUpdate(ctx, tx, userID, shieldTypeID)
	if err != nil {
		if repository.NotFound(err) {
			return decimal.Zero, ErrShieldNotOwned
		}
		return decimal.Zero, apperr.Internal(err)
	}
	if stack.Quantity < quantity {
		return decimal.Zero, ErrInsufficientQuantity
	}

	ok, err := s.shields.Sell(ctx, tx, userID, shieldTypeID, quantity)
	if err != nil {
		return decimal.Zero, apperr.Internal(err)
	}
	if !ok {
		return decimal.Zero, ErrInsufficientQuantity
	}

	if stack.IsOnAnvil && stack.Quantity == quantity {
		if err := s.shields.SetOnAnvil(ctx, tx, userID, shieldTypeID, false); err != nil {
			return decimal.Zero, apperr.Internal(err)
		}
		if err := s.users.SetAnvilShieldType(ctx, tx, userID, nil); err != nil {
			return decimal.Zero, apperr.Internal(err)
		}
	}

	earned := shieldType.Cost.Mul(decimal.NewFromInt(quantity))
	if err := s.users.CreditGold(ctx, tx, userID, earned); err != nil {
		return decimal.Zero, apperr.Internal(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, apperr.Internal(err)
	}
	notify(s.notifier, userID, "inventory.shield_sold", map[string]any{"shield_type_id": shieldTypeID, "quantity": quantity, "earned": earned})
	return earned, nil
}

// SetAnvilSword puts an owned, unsold sword on the anvil. Any previous
// anvil sword is cleared first; flag and back-reference move together.
func (s *InventoryService) SetAnvilSword(ctx context.Context, userID, swordID int64) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperr.Internal(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := s.guard.CheckIn(ctx, tx, userID); err != nil {
		return err
	}

	sword, err := s.swords.GetForUpdate(ctx, tx, swordID)
	if err != nil {
		if repository.NotFound(err) {
			return ErrSwordNotFound
		}
		return apperr.Internal(err)
	}
	if sword.UserID != userID {
		return ErrNotSwordOwner
	}
	if sword.IsSolded {
		return ErrSwordAlreadySold
	}

	if err := s.swords.ClearAnvil(ctx, tx, userID); err != nil {
		return apperr.Internal(err)
	}
	if err := s.swords.SetOnAnvil(ctx, tx, swordID, true); err != nil {
		return apperr.Internal(err)
	}
	if err := s.users.SetAnvilSword(ctx, tx, userID, &swordID); err != nil {
		return apperr.Internal(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// RemoveAnvilSword takes the current sword off the anvil; an empty slot is
// a conflict, not a silent no-op.
func (s *InventoryService) RemoveAnvilSword(ctx context.Context, userID int64) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperr.Internal(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	user, err := s.guard.CheckIn(ctx, tx, userID)
	if err != nil {
		return err
	}
	if user.AnvilSwordID == nil {
		return ErrAnvilSwordEmpty
	}

	if err := s.swords.ClearAnvil(ctx, tx, userID); err != nil {
		return apperr.Internal(err)
	}
	if err := s.users.SetAnvilSword(ctx, tx, userID, nil); err != nil {
		return apperr.Internal(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// SetAnvilShield is the shield counterpart, keyed by the (user, shield
// type) composite identity; requires at least one owned unit.
func (s *InventoryService) SetAnvilShield(ctx context.Context, userID, shieldTypeID int64) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperr.Internal(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := s.guard.CheckIn(ctx, tx, userID); err != nil {
		return err
	}

	stack, err := s.shields.GetForUpdate(ctx, tx, userID, shieldTypeID)
	if err != nil {
		if repository.NotFound(err) {
			return ErrShieldNotOwned
		}
		return apperr.Internal(err)
	}
	if stack.Quantity < 1 {
		return ErrInsufficientQuantity
	}

	if err := s.shields.ClearAnvil(ctx, tx, userID); err != nil {
		return apperr.Internal(err)
	}
	if err := s.shields.SetOnAnvil(ctx, tx, userID, shieldTypeID, true); err != nil {
		return apperr.Internal(err)
	}
	if err := s.users.SetAnvilShieldType(ctx, tx, userID, &shieldTypeID); err != nil {
		return apperr.Internal(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *InventoryService) RemoveAnvilShield(ctx context.Context, userID int64) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperr.Internal(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	user, err := s.guard.CheckIn(ctx, tx, userID)
	if err != nil {
		return err
	}
	if user.AnvilShieldTypeID == nil {
		return ErrAnvilShieldEmpty
	}

	if err := s.shields.ClearAnvil(ctx, tx, userID); err != nil {
		return apperr.Internal(err)
	}
	if err := s.users.SetAnvilShieldType(ctx, tx, userID, nil); err != nil {
		return apperr.Internal(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// ListSwords returns the user's unsold swords.
func (s *InventoryService) ListSwords(ctx context.Context, userID int64, p pagination.Page) ([]*domain.UserSword, error) {
	res, err := s.swords.ListByUser(ctx, userID, p.Offset, p.Limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return res, nil
}

func (s *InventoryService) ListMaterials(ctx context.Context, userID int64, p pagination.Page) ([]*domain.UserMaterial, error) {
	res, err := s.materials.ListByUser(ctx, userID, p.Offset, p.Limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return res, nil
}

func (s *InventoryService) ListShields(ctx context.Context, userID int64, p pagination.Page) ([]*domain.UserShield, error) {
	res, err := s.shields.ListByUser(ctx, userID, p.Offset, p.Limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return res, nil
}
