package repository

import (
	"context"

	"forgecraft/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const marketItemColumns = `id, item_type, sword_level_id, material_type_id, shield_type_id,
	price_gold, is_active, is_purchased, created_at, updated_at`

type MarketRepository struct {
	db *pgxpool.Pool
}

func NewMarketRepository(db *pgxpool.Pool) *MarketRepository {
	return &MarketRepository{db: db}
}

func scanMarketItem(row pgx.Row) (*domain.MarketItem, error) {
	var m domain.MarketItem
	if err := row.Scan(
		&m.ID, &m.ItemType, &m.SwordLevelID, &m.MaterialTypeID, &m.ShieldTypeID,
		&m.PriceGold, &m.IsActive, &m.IsPurchased, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MarketRepository) CreateItem(ctx context.Context, m *domain.MarketItem) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO market_items (item_type, sword_level_id, material_type_id, shield_type_id, price_gold, is_active)
		 VALUES ($1, $2, $3, $4, $5, TRUE)
		 RETURNING id, is_active, is_purchased, created_at, updated_at`,
		m.ItemType, m.SwordLevelID, m.MaterialTypeID, m.ShieldTypeID, m.PriceGold,
	).Scan(&m.ID, &m.IsActive, &m.IsPurchased, &m.CreatedAt, &m.UpdatedAt)
}

func (r *MarketRepository) GetByID(ctx context.Context, id int64) (*domain.MarketItem, error) {
	return scanMarketItem(r.db.QueryRow(ctx,
		`SELECT `+marketItemColumns+` FROM market_items WHERE id = $1`, id))
}

// GetForUpdate locks the listing inside q; every mutating lifecycle path
// goes through this lock.
func (r *MarketRepository) GetForUpdate(ctx context.Context, q Querier, id int64) (*domain.MarketItem, error) {
	return scanMarketItem(q.QueryRow(ctx,
		`SELECT `+marketItemColumns+` FROM market_items WHERE id = $1 FOR UPDATE`, id))
}

func (r *MarketRepository) ListActive(ctx context.Context, offset, limit int) ([]*domain.MarketItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+marketItemColumns+` FROM market_items
		 WHERE is_active = TRUE AND is_purchased = FALSE
		 ORDER BY created_at DESC, id DESC
		 OFFSET $1 LIMIT $2`,
		offset, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.MarketItem
	for rows.Next() {
		m, err := scanMarketItem(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

// MarkPurchased flips the terminal purchase flag. The guard re-checks the
// latest committed state so at most one concurrent buyer wins.
func (r *MarketRepository) MarkPurchased(ctx context.Context, q Querier, id int64) (bool, error) {
	tag, err := q.Exec(ctx,
		`UPDATE market_items
		 SET is_purchased = TRUE, is_active = FALSE, updated_at = now()
		 WHERE id = $1 AND is_active = TRUE AND is_purchased = FALSE`,
		id,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *MarketRepository) SetActive(ctx context.Context, q Querier, id int64, active bool) error {
	tag, err := q.Exec(ctx,
		`UPDATE market_items SET is_active = $1, updated_at = now() WHERE id = $2`,
		active, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *MarketRepository) UpdatePrice(ctx context.Context, q Querier, id int64, price decimal.Decimal) error {
	tag, err := q.Exec(ctx,
		`UPDATE market_items SET price_gold = $1, updated_at = now() WHERE id = $2`,
		price, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *MarketRepository) DeleteItem(ctx context.Context, q Querier, id int64) error {
	tag, err := q.Exec(ctx, `DELETE FROM market_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// HasPurchase checks purchase existence inside q. The immutability rule is
// enforced on this query, not on a cached flag, to avoid races with a
// concurrent first purchase.
func (r *MarketRepository) HasPurchase(ctx context.Context, q Querier, itemID int64) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM market_purchases WHERE market_item_id = $1)`,
		itemID,
	).Scan(&exists)
	return exists, err
}

func (r *MarketRepository) CreatePurchase(ctx context.Context, q Querier, p *domain.MarketPurchase) error {
	return q.QueryRow(ctx,
		`INSERT INTO market_purchases (user_id, market_item_id, price_gold)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		p.UserID, p.MarketItemID, p.PriceGold,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *MarketRepository) ListPurchasesByUser(ctx context.Context, userID int64, offset, limit int) ([]*domain.MarketPurchase, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, market_item_id, price_gold, created_at
		 FROM market_purchases WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 OFFSET $2 LIMIT $3`,
		userID, offset, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.MarketPurchase
	for rows.Next() {
		var p domain.MarketPurchase
		if err := rows.Scan(&p.ID, &p.UserID, &p.MarketItemID, &p.PriceGold, &p.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &p)
	}
	return res, rows.Err()
}

// CountPurchases is used by the invariant checks in tests.
func (r *MarketRepository) CountPurchases(ctx context.Context, itemID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM market_purchases WHERE market_item_id = $1`, itemID,
	).Scan(&n)
	return n, err
}
