package service

import (
	"context"

	"forgecraft/internal/apperr"
	"forgecraft/internal/domain"
	"forgecraft/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound = apperr.NotFound("USER_NOT_FOUND", "user not found")
	ErrUserBanned   = apperr.Forbidden("USER_BANNED", "user is banned")
)

// UserGuard is the shared precondition of every user-initiated action:
// the caller must exist and must not be banned.
type UserGuard struct {
	users *repository.UserRepository
}

func NewUserGuard(db *pgxpool.Pool) *UserGuard {
	return &UserGuard{users: repository.NewUserRepository(db)}
}

func (g *UserGuard) Check(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := g.users.GetByID(ctx, userID)
	if err != nil {
		if repository.NotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Internal(err)
	}
	if u.IsBanned {
		return nil, ErrUserBanned
	}
	return u, nil
}

// CheckIn runs the guard inside an open transaction with a row lock, for
// operations that go on to mutate the same user.
func (g *UserGuard) CheckIn(ctx context.Context, q repository.Querier, userID int64) (*domain.User, error) {
	u, err := g.users.GetForUpdate(ctx, q, userID)
	if err != nil {
		if repository.NotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Internal(err)
	}
	if u.IsBanned {
		return nil, ErrUserBanned
	}
	return u, nil
}
