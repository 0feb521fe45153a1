package repository

import (
	"context"

	"forgecraft/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GiftRepository struct {
	db *pgxpool.Pool
}

func NewGiftRepository(db *pgxpool.Pool) *GiftRepository {
	return &GiftRepository{db: db}
}

// Create inserts the gift and all its item rows as one unit inside q.
func (r *GiftRepository) Create(ctx context.Context, q Querier, g *domain.UserGift) error {
	if err := q.QueryRow(ctx,
		`INSERT INTO user_gifts (user_id, status)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		g.UserID, domain.GiftStatusPending,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return err
	}
	g.Status = domain.GiftStatusPending

	for i := range g.Items {
		item := &g.Items[i]
		item.GiftID = g.ID
		if err := q.QueryRow(ctx,
			`INSERT INTO user_gift_items (gift_id, item_type, amount, material_type_id, sword_level_id, shield_type_id)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			item.GiftID, item.ItemType, item.Amount,
			item.MaterialTypeID, item.SwordLevelID, item.ShieldTypeID,
		).Scan(&item.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *GiftRepository) GetByID(ctx context.Context, id int64) (*domain.UserGift, error) {
	g, err := r.scanGift(r.db.QueryRow(ctx,
		`SELECT id, user_id, status, created_at, updated_at
		 FROM user_gifts WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	g.Items, err = r.getItems(ctx, r.db, id)
	return g, err
}

// GetForUpdate locks the gift row; items are loaded under the same lock.
func (r *GiftRepository) GetForUpdate(ctx context.Context, q Querier, id int64) (*domain.UserGift, error) {
	g, err := r.scanGift(q.QueryRow(ctx,
		`SELECT id, user_id, status, created_at, updated_at
		 FROM user_gifts WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}
	g.Items, err = r.getItems(ctx, q, id)
	return g, err
}

func (r *GiftRepository) scanGift(row pgx.Row) (*domain.UserGift, error) {
	var g domain.UserGift
	if err := row.Scan(&g.ID, &g.UserID, &g.Status, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GiftRepository) getItems(ctx context.Context, q Querier, giftID int64) ([]domain.UserGiftItem, error) {
	rows, err := q.Query(ctx,
		`SELECT id, gift_id, item_type, amount, material_type_id, sword_level_id, shield_type_id
		 FROM user_gift_items WHERE gift_id = $1 ORDER BY id`,
		giftID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.UserGiftItem
	for rows.Next() {
		var it domain.UserGiftItem
		if err := rows.Scan(
			&it.ID, &it.GiftID, &it.ItemType, &it.Amount,
			&it.MaterialTypeID, &it.SwordLevelID, &it.ShieldTypeID,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *GiftRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*domain.UserGift, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, status, created_at, updated_at
		 FROM user_gifts WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 OFFSET $2 LIMIT $3`,
		userID, offset, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.UserGift
	for rows.Next() {
		g, err := r.scanGift(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, g := range res {
		items, err := r.getItems(ctx, r.db, g.ID)
		if err != nil {
			return nil, err
		}
		g.Items = items
	}
	return res, nil
}

// TransitionStatus moves a gift out of PENDING; only PENDING gifts are
// mutable, so the guard doubles as the transition table.
func (r *GiftRepository) TransitionStatus(ctx context.Context, q Querier, id int64, to domain.GiftStatus) (bool, error) {
	tag, err := q.Exec(ctx,
		`UPDATE user_gifts SET status = $1, updated_at = now()
		 WHERE id = $2 AND status = $3`,
		to, id, domain.GiftStatusPending,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Delete removes a PENDING gift; item rows go with it via cascade.
func (r *GiftRepository) Delete(ctx context.Context, q Querier, id int64) (bool, error) {
	tag, err := q.Exec(ctx,
		`DELETE FROM user_gifts WHERE id = $1 AND status = $2`,
		id, domain.GiftStatusPending,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
