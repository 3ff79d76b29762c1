// internal/domain/auth/store.go
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound means the session id is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

type RedisSessionStore struct {
	redis *redis.Client
}

func NewSessionStore(redis *redis.Client) SessionStore {
	return &RedisSessionStore{
		redis: redis,
	}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func (s *RedisSessionStore) CreateSession(ctx context.Context, sess Session, duration time.Duration) (string, error) {
	sessionID := generateSessionID()
	payload, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(sessionID), payload, duration).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return sessionID, nil
}

func (s *RedisSessionStore) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	raw, err := s.redis.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	sess.ID = sessionID
	return &sess, nil
}

func (s *RedisSessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	return s.redis.Del(ctx, sessionKey(sessionID)).Err()
}

var generateSessionID = func() string {
	return uuid.New().String()
}
