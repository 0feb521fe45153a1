package repository

import (
	"context"

	"forgecraft/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const swordLevelColumns = `id, level, name, power, upgrade_cost, selling_cost, success_rate, image, created_at`

type SwordLevelRepository struct {
	db *pgxpool.Pool
}

func NewSwordLevelRepository(db *pgxpool.Pool) *SwordLevelRepository {
	return &SwordLevelRepository{db: db}
}

func scanSwordLevel(row pgx.Row) (*domain.SwordLevel, error) {
	var l domain.SwordLevel
	if err := row.Scan(
		&l.ID, &l.Level, &l.Name, &l.Power, &l.UpgradeCost, &l.SellingCost,
		&l.SuccessRate, &l.Image, &l.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *SwordLevelRepository) Create(ctx context.Context, l *domain.SwordLevel) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO sword_levels (level, name, power, upgrade_cost, selling_cost, success_rate, image)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		l.Level, l.Name, l.Power, l.UpgradeCost, l.SellingCost, l.SuccessRate, l.Image,
	).Scan(&l.ID, &l.CreatedAt)
}

func (r *SwordLevelRepository) GetByID(ctx context.Context, id int64) (*domain.SwordLevel, error) {
	return scanSwordLevel(r.db.QueryRow(ctx,
		`SELECT `+swordLevelColumns+` FROM sword_levels WHERE id = $1`, id))
}

// GetIn reads a catalog row by id inside q.
func (r *SwordLevelRepository) GetIn(ctx context.Context, q Querier, id int64) (*domain.SwordLevel, error) {
	return scanSwordLevel(q.QueryRow(ctx,
		`SELECT `+swordLevelColumns+` FROM sword_levels WHERE id = $1`, id))
}

// GetByLevel reads a catalog row inside q so progression decisions see the
// same snapshot as the rest of the transaction.
func (r *SwordLevelRepository) GetByLevel(ctx context.Context, q Querier, level int) (*domain.SwordLevel, error) {
	return scanSwordLevel(q.QueryRow(ctx,
		`SELECT `+swordLevelColumns+` FROM sword_levels WHERE level = $1`, level))
}

func (r *SwordLevelRepository) List(ctx context.Context) ([]*domain.SwordLevel, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+swordLevelColumns+` FROM sword_levels ORDER BY level`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.SwordLevel
	for rows.Next() {
		l, err := scanSwordLevel(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, l)
	}
	return res, rows.Err()
}
