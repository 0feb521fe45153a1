package repository

import (
	"context"

	"forgecraft/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ShieldTypeRepository struct {
	db *pgxpool.Pool
}

func NewShieldTypeRepository(db *pgxpool.Pool) *ShieldTypeRepository {
	return &ShieldTypeRepository{db: db}
}

func scanShieldType(row pgx.Row) (*domain.ShieldType, error) {
	var s domain.ShieldType
	if err := row.Scan(&s.ID, &s.Name, &s.Code, &s.Cost, &s.Power, &s.Rarity, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ShieldTypeRepository) Create(ctx context.Context, s *domain.ShieldType) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO shield_types (name, code, cost, power, rarity)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		s.Name, s.Code, s.Cost, s.Power, s.Rarity,
	).Scan(&s.ID, &s.CreatedAt)
}

func (r *ShieldTypeRepository) GetByID(ctx context.Context, id int64) (*domain.ShieldType, error) {
	return scanShieldType(r.db.QueryRow(ctx,
		`SELECT id, name, code, cost, power, rarity, created_at
		 FROM shield_types WHERE id = $1`, id))
}

func (r *ShieldTypeRepository) List(ctx context.Context) ([]*domain.ShieldType, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, code, cost, power, rarity, created_at
		 FROM shield_types ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.ShieldType
	for rows.Next() {
		s, err := scanShieldType(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func (r *ShieldTypeRepository) ListIDs(ctx context.Context, q Querier) ([]int64, error) {
	rows, err := q.Query(ctx, `SELECT id FROM shield_types ORDER BY id`)
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

type UserShieldRepository struct {
	db *pgxpool.Pool
}

func NewUserShieldRepository(db *pgxpool.Pool) *UserShieldRepository {
	return &UserShieldRepository{db: db}
}

func scanUserShield(row pgx.Row) (*domain.UserShield, error) {
	var s domain.UserShield
	if err := row.Scan(
		&s.ID, &s.UserID, &s.ShieldTypeID, &s.Quantity, &s.SoldedQuantity,
		&s.IsOnAnvil, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *UserShieldRepository) Get(ctx context.Context, userID, shieldTypeID int64) (*domain.UserShield, error) {
	return scanUserShield(r.db.QueryRow(ctx,
		`SELECT id, user_id, shield_type_id, quantity, solded_quantity, is_on_anvil, created_at, updated_at
		 FROM user_shields WHERE user_id = $1 AND shield_type_id = $2`,
		userID, shieldTypeID))
}

// GetForUpdate locks the stack row so concurrent sells on the same
// composite key serialize.
func (r *UserShieldRepository) GetForUpdate(ctx context.Context, q Querier, userID, shieldTypeID int64) (*domain.UserShield, error) {
	return scanUserShield(q.QueryRow(ctx,
		`SELECT id, user_id, shield_type_id, quantity, solded_quantity, is_on_anvil, created_at, updated_at
		 FROM user_shields WHERE user_id = $1 AND shield_type_id = $2 FOR UPDATE`,
		userID, shieldTypeID))
}

func (r *UserShieldRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*domain.UserShield, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, shield_type_id, quantity, solded_quantity, is_on_anvil, created_at, updated_at
		 FROM user_shields WHERE user_id = $1
		 ORDER BY shield_type_id
		 OFFSET $2 LIMIT $3`,
		userID, offset, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.UserShield
	for rows.Next() {
		s, err := scanUserShield(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func (r *UserShieldRepository) AddQuantity(ctx context.Context, q Querier, userID, shieldTypeID, n int64) error {
	_, err := q.Exec(ctx,
		`INSERT INTO user_shields (user_id, shield_type_id, quantity)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, shield_type_id)
		 DO UPDATE SET quantity = user_shields.quantity + $3, updated_at = now()`,
		userID, shieldTypeID, n,
	)
	return err
}

func (r *UserShieldRepository) ConsumeQuantity(ctx context.Context, q Querier, userID, shieldTypeID, n int64) (bool, error) {
	tag, err := q.Exec(ctx,
		`UPDATE user_shields
		 SET quantity = quantity - $3, updated_at = now()
		 WHERE user_id = $1 AND shield_type_id = $2 AND quantity >= $3`,
		userID, shieldTypeID, n,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *UserShieldRepository) Sell(ctx context.Context, q Querier, userID, shieldTypeID, n int64) (bool, error) {
	tag, err := q.Exec(ctx,
		`UPDATE user_shields
		 SET quantity = quantity - $3,
		     solded_quantity = solded_quantity + $3,
		     updated_at = now()
		 WHERE user_id = $1 AND shield_type_id = $2 AND quantity >= $3`,
		userID, shieldTypeID, n,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ClearAnvil drops the anvil flag from whichever stack currently holds it.
func (r *UserShieldRepository) ClearAnvil(ctx context.Context, q Querier, userID int64) error {
	_, err := q.Exec(ctx,
		`UPDATE user_shields SET is_on_anvil = FALSE, updated_at = now()
		 WHERE user_id = $1 AND is_on_anvil = TRUE`,
		userID,
	)
	return err
}

func (r *UserShieldRepository) SetOnAnvil(ctx context.Context, q Querier, userID, shieldTypeID int64, on bool) error {
	tag, err := q.Exec(ctx,
		`UPDATE user_shields SET is_on_anvil = $3, updated_at = now()
		 WHERE user_id = $1 AND shield_type_id = $2`,
		userID, shieldTypeID, on,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
