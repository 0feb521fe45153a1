package service

import (
	"context"
	"strconv"
	"time"

	"forgecraft/internal/random"

	redis "github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "sess:"

// SessionStore is the redis-backed session allow-list. A token is only
// accepted while its session key still exists; logout deletes the key.
// With no redis configured the store degrades to stateless JWTs.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(addr, password string, db int, ttl time.Duration) *SessionStore {
	s := &SessionStore{ttl: ttl}
	if addr == "" {
		return s
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err == nil {
		s.rdb = rdb
	}
	return s
}

// Create allocates a session id for the user with the configured TTL.
func (s *SessionStore) Create(ctx context.Context, userID int64) (string, error) {
	sid, err := random.Code(24)
	if err != nil {
		return "", err
	}
	if s.rdb == nil {
		return sid, nil
	}
	if err := s.rdb.Set(ctx, sessionKeyPrefix+sid, strconv.FormatInt(userID, 10), s.ttl).Err(); err != nil {
		return "", err
	}
	return sid, nil
}

// Valid is the synchronous per-request session check; no request proceeds
// past authentication until it resolves.
func (s *SessionStore) Valid(ctx context.Context, sid string, userID int64) bool {
	if s.rdb == nil {
		return true
	}
	val, err := s.rdb.Get(ctx, sessionKeyPrefix+sid).Result()
	if err != nil {
		return false
	}
	return val == strconv.FormatInt(userID, 10)
}

func (s *SessionStore) Delete(ctx context.Context, sid string) {
	if s.rdb == nil || sid == "" {
		return
	}
	_ = s.rdb.Del(ctx, sessionKeyPrefix+sid).Err()
}
