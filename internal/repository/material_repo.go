package repository

import (
	"context"

	"forgecraft/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MaterialTypeRepository struct {
	db *pgxpool.Pool
}

func NewMaterialTypeRepository(db *pgxpool.Pool) *MaterialTypeRepository {
	return &MaterialTypeRepository{db: db}
}

func scanMaterialType(row pgx.Row) (*domain.MaterialType, error) {
	var m domain.MaterialType
	if err := row.Scan(&m.ID, &m.Name, &m.Code, &m.Cost, &m.Power, &m.Rarity, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MaterialTypeRepository) Create(ctx context.Context, m *domain.MaterialType) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO material_types (name, code, cost, power, rarity)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		m.Name, m.Code, m.Cost, m.Power, m.Rarity,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *MaterialTypeRepository) GetByID(ctx context.Context, id int64) (*domain.MaterialType, error) {
	return scanMaterialType(r.db.QueryRow(ctx,
		`SELECT id, name, code, cost, power, rarity, created_at
		 FROM material_types WHERE id = $1`, id))
}

func (r *MaterialTypeRepository) List(ctx context.Context) ([]*domain.MaterialType, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, code, cost, power, rarity, created_at
		 FROM material_types ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.MaterialType
	for rows.Next() {
		m, err := scanMaterialType(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

// ListIDs returns all material type ids inside q; the forge reward draw
// selects uniformly from the union of these and the shield type ids.
func (r *MaterialTypeRepository) ListIDs(ctx context.Context, q Querier) ([]int64, error) {
	rows, err := q.Query(ctx, `SELECT id FROM material_types ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type UserMaterialRepository struct {
	db *pgxpool.Pool
}

func NewUserMaterialRepository(db *pgxpool.Pool) *UserMaterialRepository {
	return &UserMaterialRepository{db: db}
}

func scanUserMaterial(row pgx.Row) (*domain.UserMaterial, error) {
	var m domain.UserMaterial
	if err := row.Scan(
		&m.ID, &m.UserID, &m.MaterialTypeID, &m.Quantity, &m.SoldedQuantity,
		&m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *UserMaterialRepository) Get(ctx context.Context, userID, materialTypeID int64) (*domain.UserMaterial, error) {
	return scanUserMaterial(r.db.QueryRow(ctx,
		`SELECT id, user_id, material_type_id, quantity, solded_quantity, created_at, updated_at
		 FROM user_materials WHERE user_id = $1 AND material_type_id = $2`,
		userID, materialTypeID))
}

func (r *UserMaterialRepository) GetForUpdate(ctx context.Context, q Querier, userID, materialTypeID int64) (*domain.UserMaterial, error) {
	return scanUserMaterial(q.QueryRow(ctx,
		`SELECT id, user_id, material_type_id, quantity, solded_quantity, created_at, updated_at
		 FROM user_materials WHERE user_id = $1 AND material_type_id = $2
		 FOR UPDATE`,
		userID, materialTypeID))
}

func (r *UserMaterialRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*domain.UserMaterial, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, material_type_id, quantity, solded_quantity, created_at, updated_at
		 FROM user_materials WHERE user_id = $1
		 ORDER BY material_type_id
		 OFFSET $2 LIMIT $3`,
		userID, offset, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.UserMaterial
	for rows.Next() {
		m, err := scanUserMaterial(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

// AddQuantity upserts the (user, material) row and adds n units.
func (r *UserMaterialRepository) AddQuantity(ctx context.Context, q Querier, userID, materialTypeID, n int64) error {
	_, err := q.Exec(ctx,
		`INSERT INTO user_materials (user_id, material_type_id, quantity)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, material_type_id)
		 DO UPDATE SET quantity = user_materials.quantity + $3, updated_at = now()`,
		userID, materialTypeID, n,
	)
	return err
}

// ConsumeQuantity decrements n units, guarded so the row's quantity can
// never underflow even under concurrent decrements.
func (r *UserMaterialRepository) ConsumeQuantity(ctx context.Context, q Querier, userID, materialTypeID, n int64) (bool, error) {
	tag, err := q.Exec(ctx,
		`UPDATE user_materials
		 SET quantity = quantity - $3, updated_at = now()
		 WHERE user_id = $1 AND material_type_id = $2 AND quantity >= $3`,
		userID, materialTypeID, n,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Sell decrements quantity and moves it into solded_quantity in one guarded
// update.
func (r *UserMaterialRepository) Sell(ctx context.Context, q Querier, userID, materialTypeID, n int64) (bool, error) {
	tag, err := q.Exec(ctx,
		`UPDATE user_materials
		 SET quantity = quantity - $3,
		     solded_quantity = solded_quantity + $3,
		     updated_at = now()
		 WHERE user_id = $1 AND material_type_id = $2 AND quantity >= $3`,
		userID, materialTypeID, n,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
