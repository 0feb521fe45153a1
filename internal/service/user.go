package service

import (
	"context"

	"forgecraft/internal/apperr"
	"forgecraft/internal/domain"
	"forgecraft/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UserService struct {
	users *repository.UserRepository
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{users: repository.NewUserRepository(db)}
}

func (s *UserService) Get(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if repository.NotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

func (s *UserService) SetSoundOn(ctx context.Context, userID int64, on bool) error {
	if err := s.users.SetSoundOn(ctx, userID, on); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// SetBanned is the admin moderation switch. A banned user keeps their
// inventory and history; the guard blocks every mutating action instead.
func (s *UserService) SetBanned(ctx context.Context, userID int64, banned bool) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if repository.NotFound(err) {
			return ErrUserNotFound
		}
		return apperr.Internal(err)
	}
	if err := s.users.SetBanned(ctx, userID, banned); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
