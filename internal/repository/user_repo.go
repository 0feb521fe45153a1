package repository

import (
	"context"

	"forgecraft/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const userColumns = `id, email, password_hash, name, gold, trust_points,
	is_banned, is_admin, sound_on, anvil_sword_id, anvil_shield_type_id,
	created_at, updated_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Gold, &u.TrustPoints,
		&u.IsBanned, &u.IsAdmin, &u.SoundOn, &u.AnvilSwordID, &u.AnvilShieldTypeID,
		&u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// GetForUpdate loads a user inside q with a row lock, serializing
// concurrent balance mutations on the same user.
func (r *UserRepository) GetForUpdate(ctx context.Context, q Querier, id int64) (*domain.User, error) {
	return scanUser(q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
}

// Create inserts a user. Runs in q so registration can create the starter
// sword in the same transaction.
func (r *UserRepository) Create(ctx context.Context, q Querier, u *domain.User) error {
	return q.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, name, gold, trust_points)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		u.Email, u.PasswordHash, u.Name, u.Gold, u.TrustPoints,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

// DebitGold conditionally deducts amount. Returns false when the balance
// guard rejects the update; gold can never go negative, even under
// concurrent debits.
func (r *UserRepository) DebitGold(ctx context.Context, q Querier, userID int64, amount decimal.Decimal) (bool, error) {
	tag, err := q.Exec(ctx,
		`UPDATE users SET gold = gold - $1, updated_at = now()
		 WHERE id = $2 AND gold >= $1`,
		amount, userID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *UserRepository) CreditGold(ctx context.Context, q Querier, userID int64, amount decimal.Decimal) error {
	tag, err := q.Exec(ctx,
		`UPDATE users SET gold = gold + $1, updated_at = now() WHERE id = $2`,
		amount, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *UserRepository) AddTrustPoints(ctx context.Context, q Querier, userID int64, points int) error {
	tag, err := q.Exec(ctx,
		`UPDATE users SET trust_points = trust_points + $1, updated_at = now() WHERE id = $2`,
		points, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetAnvilSword updates the weak back-reference; nil clears it.
func (r *UserRepository) SetAnvilSword(ctx context.Context, q Querier, userID int64, swordID *int64) error {
	_, err := q.Exec(ctx,
		`UPDATE users SET anvil_sword_id = $1, updated_at = now() WHERE id = $2`,
		swordID, userID,
	)
	return err
}

// SetAnvilShieldType updates the shield back-reference; nil clears it.
func (r *UserRepository) SetAnvilShieldType(ctx context.Context, q Querier, userID int64, shieldTypeID *int64) error {
	_, err := q.Exec(ctx,
		`UPDATE users SET anvil_shield_type_id = $1, updated_at = now() WHERE id = $2`,
		shieldTypeID, userID,
	)
	return err
}

func (r *UserRepository) SetSoundOn(ctx context.Context, userID int64, on bool) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET sound_on = $1, updated_at = now() WHERE id = $2`,
		on, userID,
	)
	return err
}

func (r *UserRepository) SetBanned(ctx context.Context, userID int64, banned bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET is_banned = $1, updated_at = now() WHERE id = $2`,
		banned, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
