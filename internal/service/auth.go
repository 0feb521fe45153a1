package service

import (
	"context"
	"strings"
	"time"

	"forgecraft/internal/apperr"
	"forgecraft/internal/domain"
	"forgecraft/internal/logger"
	"forgecraft/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = apperr.Conflict("EMAIL_TAKEN", "email is already registered")
	ErrInvalidCredentials = apperr.Forbidden("INVALID_CREDENTIALS", "wrong email or password")
	ErrWeakPassword       = apperr.Validation("WEAK_PASSWORD", "password must be at least 8 characters")
	ErrInvalidEmail       = apperr.Validation("INVALID_EMAIL", "email is malformed")
	ErrMissingLevelZero   = apperr.FatalConfig("LEVEL_ZERO_MISSING", "level 0 sword definition is not seeded")
)

type AuthService struct {
	db          *pgxpool.Pool
	users       *repository.UserRepository
	swords      *repository.UserSwordRepository
	swordLevels *repository.SwordLevelRepository
	config      *repository.AdminConfigRepository
	sessions    *SessionStore
	tokenTTL    time.Duration
}

func NewAuthService(db *pgxpool.Pool, sessions *SessionStore, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		db:          db,
		users:       repository.NewUserRepository(db),
		swords:      repository.NewUserSwordRepository(db),
		swordLevels: repository.NewSwordLevelRepository(db),
		config:      repository.NewAdminConfigRepository(db),
		sessions:    sessions,
		tokenTTL:    tokenTTL,
	}
}

// Register creates the user and their starter level-0 sword, already on the
// anvil, in one transaction. Default trust points come from the admin
// config singleton.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !strings.Contains(email, "@") || len(email) < 5 {
		return nil, ErrInvalidEmail
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Validation("NAME_REQUIRED", "name is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cfg, err := s.config.GetIn(ctx, tx)
	if err != nil {
		return nil, apperr.FatalConfig("ADMIN_CONFIG_MISSING", "admin config row is not seeded").Wrap(err)
	}

	levelZero, err := s.swordLevels.GetByLevel(ctx, tx, domain.SwordMinLevel)
	if err != nil {
		if repository.NotFound(err) {
			return nil, ErrMissingLevelZero
		}
		return nil, apperr.Internal(err)
	}

	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(name),
		Gold:         decimal.Zero,
		TrustPoints:  cfg.DefaultTrustPoint,
	}
	if err := s.users.Create(ctx, tx, u); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, apperr.Internal(err)
	}

	var starter *domain.UserSword
	err = withUniqueCode(func(code string) error {
		starter = &domain.UserSword{
			UserID:       u.ID,
			SwordLevelID: levelZero.ID,
			Code:         code,
			IsOnAnvil:    true,
		}
		return s.swords.Create(ctx, tx, starter)
	})
	if err != nil {
		return nil, apperr.From(err)
	}

	if err := s.users.SetAnvilSword(ctx, tx, u.ID, &starter.ID); err != nil {
		return nil, apperr.Internal(err)
	}
	u.AnvilSwordID = &starter.ID

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}

	logger.Info("user registered", "user_id", u.ID)
	return u, nil
}

// Login verifies credentials and issues a token bound to a fresh redis
// session.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if repository.NotFound(err) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, apperr.Internal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}
	if u.IsBanned {
		return "", nil, ErrUserBanned
	}

	sid, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		return "", nil, apperr.Internal(err)
	}

	token, err := GenerateJWT(u.ID, sid, s.tokenTTL)
	if err != nil {
		return "", nil, apperr.Internal(err)
	}
	return token, u, nil
}

func (s *AuthService) Logout(ctx context.Context, sid string) {
	s.sessions.Delete(ctx, sid)
}
