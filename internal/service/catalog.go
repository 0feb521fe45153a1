package service

import (
	"context"

	"forgecraft/internal/apperr"
	"forgecraft/internal/domain"
	"forgecraft/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrLevelOutOfRange  = apperr.Validation("LEVEL_OUT_OF_RANGE", "level must be between 0 and 100")
	ErrBadSuccessRate   = apperr.Validation("INVALID_SUCCESS_RATE", "success rate must be in (0, 100]")
	ErrDuplicateCatalog = apperr.Conflict("DUPLICATE_CATALOG_ENTRY", "a catalog entry with this identity already exists")
	ErrInvalidRarity    = apperr.Validation("INVALID_RARITY", "unknown rarity")
)

// CatalogService owns the admin-side catalog definitions. Material and
// shield codes are generated, not chosen.
type CatalogService struct {
	swordLevels *repository.SwordLevelRepository
	matTypes    *repository.MaterialTypeRepository
	shieldTypes *repository.ShieldTypeRepository
}

func NewCatalogService(db *pgxpool.Pool) *CatalogService {
	return &CatalogService{
		swordLevels: repository.NewSwordLevelRepository(db),
		matTypes:    repository.NewMaterialTypeRepository(db),
		shieldTypes: repository.NewShieldTypeRepository(db),
	}
}

type CreateSwordLevelInput struct {
	Level       int             `json:"level"`
	Name        string          `json:"name"`
	Power       int             `json:"power"`
	UpgradeCost decimal.Decimal `json:"upgrade_cost"`
	SellingCost decimal.Decimal `json:"selling_cost"`
	SuccessRate int             `json:"success_rate"`
	Image       string          `json:"image"`
}

func (s *CatalogService) CreateSwordLevel(ctx context.Context, in CreateSwordLevelInput) (*domain.SwordLevel, error) {
	if in.Level < domain.SwordMinLevel || in.Level > domain.SwordMaxLevel {
		return nil, ErrLevelOutOfRange
	}
	if in.SuccessRate <= 0 || in.SuccessRate > 100 {
		return nil, ErrBadSuccessRate
	}
	if in.Name == "" {
		return nil, apperr.Validation("MISSING_NAME", "name is required")
	}
	if in.UpgradeCost.IsNegative() || in.SellingCost.IsNegative() {
		return nil, apperr.Validation("NEGATIVE_COST", "costs must be non-negative")
	}

	level := &domain.SwordLevel{
		Level:       in.Level,
		Name:        in.Name,
		Power:       in.Power,
		UpgradeCost: in.UpgradeCost,
		SellingCost: in.SellingCost,
		SuccessRate: in.SuccessRate,
		Image:       in.Image,
	}
	if err := s.swordLevels.Create(ctx, level); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateCatalog
		}
		return nil, apperr.Internal(err)
	}
	return level, nil
}

type CreateCatalogTypeInput struct {
	Name   string          `json:"name"`
	Cost   decimal.Decimal `json:"cost"`
	Power  int             `json:"power"`
	Rarity domain.Rarity   `json:"rarity"`
}

func (in CreateCatalogTypeInput) validate() error {
	if in.Name == "" {
		return apperr.Validation("MISSING_NAME", "name is required")
	}
	if in.Cost.IsNegative() {
		return apperr.Validation("NEGATIVE_COST", "cost must be non-negative")
	}
	if !in.Rarity.Valid() {
		return ErrInvalidRarity
	}
	return nil
}

func (s *CatalogService) CreateMaterialType(ctx context.Context, in CreateCatalogTypeInput) (*domain.MaterialType, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	m := &domain.MaterialType{Name: in.Name, Cost: in.Cost, Power: in.Power, Rarity: in.Rarity}
	err := withUniqueCode(func(code string) error {
		m.Code = code
		return s.matTypes.Create(ctx, m)
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateCatalog
		}
		return nil, apperr.From(err)
	}
	return m, nil
}

func (s *CatalogService) CreateShieldType(ctx context.Context, in CreateCatalogTypeInput) (*domain.ShieldType, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	t := &domain.ShieldType{Name: in.Name, Cost: in.Cost, Power: in.Power, Rarity: in.Rarity}
	err := withUniqueCode(func(code string) error {
		t.Code = code
		return s.shieldTypes.Create(ctx, t)
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateCatalog
		}
		return nil, apperr.From(err)
	}
	return t, nil
}

func (s *CatalogService) ListMaterialTypes(ctx context.Context) ([]*domain.MaterialType, error) {
	res, err := s.matTypes.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return res, nil
}

func (s *CatalogService) ListShieldTypes(ctx context.Context) ([]*domain.ShieldType, error) {
	res, err := s.shieldTypes.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return res, nil
}
