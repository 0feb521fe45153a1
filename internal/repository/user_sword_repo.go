package repository

import (
	"context"

	"forgecraft/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userSwordColumns = `id, user_id, sword_level_id, code, is_on_anvil, is_solded, created_at`

type UserSwordRepository struct {
	db *pgxpool.Pool
}

func NewUserSwordRepository(db *pgxpool.Pool) *UserSwordRepository {
	return &UserSwordRepository{db: db}
}

func scanUserSword(row pgx.Row) (*domain.UserSword, error) {
	var s domain.UserSword
	if err := row.Scan(
		&s.ID, &s.UserID, &s.SwordLevelID, &s.Code, &s.IsOnAnvil, &s.IsSolded, &s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *UserSwordRepository) Create(ctx context.Context, q Querier, s *domain.UserSword) error {
	return q.QueryRow(ctx,
		`INSERT INTO user_swords (user_id, sword_level_id, code, is_on_anvil, is_solded)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		s.UserID, s.SwordLevelID, s.Code, s.IsOnAnvil, s.IsSolded,
	).Scan(&s.ID, &s.CreatedAt)
}

func (r *UserSwordRepository) GetByID(ctx context.Context, id int64) (*domain.UserSword, error) {
	return scanUserSword(r.db.QueryRow(ctx,
		`SELECT `+userSwordColumns+` FROM user_swords WHERE id = $1`, id))
}

// GetForUpdate locks the sword row for the duration of q's transaction.
func (r *UserSwordRepository) GetForUpdate(ctx context.Context, q Querier, id int64) (*domain.UserSword, error) {
	return scanUserSword(q.QueryRow(ctx,
		`SELECT `+userSwordColumns+` FROM user_swords WHERE id = $1 FOR UPDATE`, id))
}

func (r *UserSwordRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*domain.UserSword, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userSwordColumns+` FROM user_swords
		 WHERE user_id = $1 AND is_solded = FALSE
		 ORDER BY created_at DESC, id DESC
		 OFFSET $2 LIMIT $3`,
		userID, offset, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.UserSword
	for rows.Next() {
		s, err := scanUserSword(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// MarkSold soft-retires a sword, guarded against double sells.
func (r *UserSwordRepository) MarkSold(ctx context.Context, q Querier, id int64) (bool, error) {
	tag, err := q.Exec(ctx,
		`UPDATE user_swords SET is_solded = TRUE, is_on_anvil = FALSE
		 WHERE id = $1 AND is_solded = FALSE`,
		id,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ClearAnvil drops the anvil flag from whichever sword currently holds it
// for this user. At most one row is affected by the partial invariant.
func (r *UserSwordRepository) ClearAnvil(ctx context.Context, q Querier, userID int64) error {
	_, err := q.Exec(ctx,
		`UPDATE user_swords SET is_on_anvil = FALSE
		 WHERE user_id = $1 AND is_on_anvil = TRUE`,
		userID,
	)
	return err
}

func (r *UserSwordRepository) SetOnAnvil(ctx context.Context, q Querier, id int64, on bool) error {
	tag, err := q.Exec(ctx,
		`UPDATE user_swords SET is_on_anvil = $1 WHERE id = $2`,
		on, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// AdvanceLevel repoints a surviving upgrade at the next catalog row.
func (r *UserSwordRepository) AdvanceLevel(ctx context.Context, q Querier, id, newLevelID int64) error {
	tag, err := q.Exec(ctx,
		`UPDATE user_swords SET sword_level_id = $1 WHERE id = $2`,
		newLevelID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete physically removes a sword (failed upgrade destruction).
func (r *UserSwordRepository) Delete(ctx context.Context, q Querier, id int64) error {
	tag, err := q.Exec(ctx, `DELETE FROM user_swords WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CountOnAnvil is used by the invariant checks in tests.
func (r *UserSwordRepository) CountOnAnvil(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_swords WHERE user_id = $1 AND is_on_anvil = TRUE`,
		userID,
	).Scan(&n)
	return n, err
}
