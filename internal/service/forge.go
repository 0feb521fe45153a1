package service

import (
	"context"

	"forgecraft/internal/apperr"
	"forgecraft/internal/domain"
	"forgecraft/internal/random"
	"forgecraft/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrSwordNotOnAnvil  = apperr.Conflict("SWORD_NOT_ON_ANVIL", "sword must be on the anvil to upgrade")
	ErrSwordMaxLevel    = apperr.Conflict("SWORD_MAX_LEVEL", "sword is already at the maximum level")
	ErrNextLevelMissing = apperr.FatalConfig("NEXT_LEVEL_MISSING", "next sword level is not defined")
	ErrNoRewardCatalog  = apperr.FatalConfig("NO_REWARD_CATALOG", "no material or shield types to draw a reward from")
	ErrLevelZeroMissing = apperr.FatalConfig("LEVEL_ZERO_MISSING", "level zero sword is not defined")
	ErrBadSynthesisSize = apperr.Validation("INVALID_SYNTHESIS_SIZE", "synthesis takes between 1 and 4 items")
)

// SynthesisKind selects which inventory stack a synthesis entry consumes.
type SynthesisKind string

const (
	SynthesisMaterial SynthesisKind = "MATERIAL"
	SynthesisShield   SynthesisKind = "SHIELD"
)

type SynthesisEntry struct {
	Kind   SynthesisKind `json:"kind"`
	TypeID int64         `json:"type_id"`
}

// UpgradeResult reports one upgrade attempt. Reward fields are set only on
// the failure branch.
type UpgradeResult struct {
	Success          bool               `json:"success"`
	NewLevel         *domain.SwordLevel `json:"new_level,omitempty"`
	RewardMaterialID *int64             `json:"reward_material_id,omitempty"`
	RewardShieldID   *int64             `json:"reward_shield_id,omitempty"`
}

type ForgeService struct {
	db          *pgxpool.Pool
	guard       *UserGuard
	users       *repository.UserRepository
	swords      *repository.UserSwordRepository
	swordLevels *repository.SwordLevelRepository
	matTypes    *repository.MaterialTypeRepository
	materials   *repository.UserMaterialRepository
	shieldTypes *repository.ShieldTypeRepository
	shields     *repository.UserShieldRepository
	roller      random.Roller
	notifier    Notifier
}

func NewForgeService(db *pgxpool.Pool, roller random.Roller, notifier Notifier) *ForgeService {
	return &ForgeService{
		db:          db,
		guard:       NewUserGuard(db),
		users:       repository.NewUserRepository(db),
		swords:      repository.NewUserSwordRepository(db),
		swordLevels: repository.NewSwordLevelRepository(db),
		matTypes:    repository.NewMaterialTypeRepository(db),
		materials:   repository.NewUserMaterialRepository(db),
		shieldTypes: repository.NewShieldTypeRepository(db),
		shields:     repository.NewUserShieldRepository(db),
		roller:      roller,
		notifier:    notifier,
	}
}

// Upgrade runs one paid attempt on the anvil sword. Gold is debited before
// the draw. Success advances the sword to the next level definition in
// place; failure destroys the sword and grants one random material or
// shield. Either branch commits as a single transaction. The draw is not
// durable, so retrying after an ambiguous failure rolls again.
func (s *ForgeService) Upgrade(ctx context.Context, userID, swordID int64) (*UpgradeResult, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	user, err := s.guard.CheckIn(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	sword, err := s.swords.GetForUpdate(ctx, tx, swordID)
	if err != nil {
		if repository.NotFound(err) {
			return nil, ErrSwordNotFound
		}
		return nil, apperr.Internal(err)
	}
	if sword.UserID != userID {
		return nil, ErrNotSwordOwner
	}
	if sword.IsSolded {
		return nil, ErrSwordAlreadySold
	}
	if !sword.IsOnAnvil || user.AnvilSwordID == nil || *user.AnvilSwordID != swordID {
		return nil, ErrSwordNotOnAnvil
	}

	level, err := s.swordLevels.GetIn(ctx, tx, sword.SwordLevelID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if level.Level >= domain.SwordMaxLevel {
		return nil, ErrSwordMaxLevel
	}

	ok, err := s.users.DebitGold(ctx, tx, userID, level.UpgradeCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !ok {
		return nil, ErrInsufficientGold
	}

	result := &UpgradeResult{}
	if s.roller.Chance(level.SuccessRate) {
		next, err := s.swordLevels.GetByLevel(ctx, tx, level.Level+1)
		if err != nil {
			if repository.NotFound(err) {
				return nil, ErrNextLevelMissing
			}
			return nil, apperr.Internal(err)
		}
		if err := s.swords.AdvanceLevel(ctx, tx, swordID, next.ID); err != nil {
			return nil, apperr.Internal(err)
		}
		result.Success = true
		result.NewLevel = next
	} else {
		if err := s.swords.Delete(ctx, tx, swordID); err != nil {
			return nil, apperr.Internal(err)
		}
		if err := s.users.SetAnvilSword(ctx, tx, userID, nil); err != nil {
			return nil, apperr.Internal(err)
		}
		if err := s.grantRandomReward(ctx, tx, userID, result); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	notify(s.notifier, userID, "forge.upgrade", result)
	return result, nil
}

// grantRandomReward draws uniformly over the union of all material and
// shield types and upserts one unit into the user's inventory.
func (s *ForgeService) grantRandomReward(ctx context.Context, tx pgx.Tx, userID int64, result *UpgradeResult) error {
	materialIDs, err := s.matTypes.ListIDs(ctx, tx)
	if err != nil {
		return apperr.Internal(err)
	}
	shieldIDs, err := s.shieldTypes.ListIDs(ctx, tx)
	if err != nil {
		return apperr.Internal(err)
	}
	total := len(materialIDs) + len(shieldIDs)
	if total == 0 {
		return ErrNoRewardCatalog
	}

	pick := s.roller.IntN(total)
	if pick < len(materialIDs) {
		id := materialIDs[pick]
		if err := s.materials.AddQuantity(ctx, tx, userID, id, 1); err != nil {
			return apperr.Internal(err)
		}
		result.RewardMaterialID = &id
		return nil
	}
	id := shieldIDs[pick-len(materialIDs)]
	if err := s.shields.AddQuantity(ctx, tx, userID, id, 1); err != nil {
		return apperr.Internal(err)
	}
	result.RewardShieldID = &id
	return nil
}

// Synthesize consumes one unit per entry and mints a level-0 sword. The
// whole batch is pre-validated under row locks before any decrement, so a
// single short stack aborts everything.
func (s *ForgeService) Synthesize(ctx context.Context, userID int64, entries []SynthesisEntry) (*domain.UserSword, error) {
	if len(entries) < 1 || len(entries) > 4 {
		return nil, ErrBadSynthesisSize
	}

	type stackKey struct {
		kind   SynthesisKind
		typeID int64
	}
	need := make(map[stackKey]int64, len(entries))
	for _, e := range entries {
		if e.Kind != SynthesisMaterial && e.Kind != SynthesisShield {
			return nil, apperr.Validation("INVALID_SYNTHESIS_KIND", "synthesis entries must be materials or shields")
		}
		need[stackKey{e.Kind, e.TypeID}]++
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := s.guard.CheckIn(ctx, tx, userID); err != nil {
		return nil, err
	}

	for key, n := range need {
		switch key.kind {
		case SynthesisMaterial:
			stack, err := s.materials.GetForUpdate(ctx, tx, userID, key.typeID)
			if err != nil {
				if repository.NotFound(err) {
					return nil, ErrMaterialNotOwned
				}
				return nil, apperr.Internal(err)
			}
			if stack.Quantity < n {
				return nil, ErrInsufficientQuantity
			}
		case SynthesisShield:
			stack, err := s.shields.GetForUpdate(ctx, tx, userID, key.typeID)
			if err != nil {
				if repository.NotFound(err) {
					return nil, ErrShieldNotOwned
				}
				return nil, apperr.Internal(err)
			}
			if stack.Quantity < n {
				return nil, ErrInsufficientQuantity
			}
		}
	}

	for key, n := range need {
		var ok bool
		switch key.kind {
		case SynthesisMaterial:
			ok, err = s.materials.ConsumeQuantity(ctx, tx, userID, key.typeID, n)
		case SynthesisShield:
			ok, err = s.shields.ConsumeQuantity(ctx, tx, userID, key.typeID, n)
		}
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if !ok {
			return nil, ErrInsufficientQuantity
		}
	}

	levelZero, err := s.swordLevels.GetByLevel(ctx, tx, domain.SwordMinLevel)
	if err != nil {
		if repository.NotFound(err) {
			return nil, ErrLevelZeroMissing
		}
		return nil, apperr.Internal(err)
	}

	sword := &domain.UserSword{
		UserID:       userID,
		SwordLevelID: levelZero.ID,
	}
	err = withUniqueCode(func(code string) error {
		sword.Code = code
		return s.swords.Create(ctx, tx, sword)
	})
	if err != nil {
		return nil, apperr.From(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	notify(s.notifier, userID, "forge.synthesized", sword)
	return sword, nil
}

// Levels exposes the full progression catalog for the read surface.
func (s *ForgeService) Levels(ctx context.Context) ([]*domain.SwordLevel, error) {
	levels, err := s.swordLevels.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return levels, nil
}
