// internal/domain/signup/store.go
package signup

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionMarker = "_open"

// releaseLock deletes the submit lock only while it still holds the caller's
// token, so an expired and re-taken lock is left alone.
var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisFormStore keeps form sessions in Redis: a hash of full positions under
// form:<id> and a submit lock under form:<id>:submitting.
type RedisFormStore struct {
	redis    *redis.Client
	ttl      time.Duration
	lockTTL  time.Duration
	newToken func() string
}

func NewFormStore(rdb *redis.Client, ttl, lockTTL time.Duration) *RedisFormStore {
	return &RedisFormStore{redis: rdb, ttl: ttl, lockTTL: lockTTL, newToken: uuid.NewString}
}

func formKey(sessionID string) string {
	return "form:" + sessionID
}

func lockKey(sessionID string) string {
	return "form:" + sessionID + ":submitting"
}

func (s *RedisFormStore) LoadCapacity(ctx context.Context, sessionID string) (*CapacityState, bool, error) {
	fields, err := s.redis.HGetAll(ctx, formKey(sessionID)).Result()
	if err != nil {
		return nil, false, err
	}
	if len(fields) == 0 {
		return nil, false, nil
	}
	state := NewCapacityState()
	for field := range fields {
		if pos, ok := ParsePosition(field); ok {
			state.MarkFull(pos)
		}
	}
	return state, true, nil
}

func (s *RedisFormStore) InitCapacity(ctx context.Context, sessionID string, state *CapacityState) error {
	values := []interface{}{sessionMarker, "1"}
	if state != nil {
		for _, pos := range state.Full() {
			values = append(values, string(pos), "1")
		}
	}
	if err := s.redis.HSet(ctx, formKey(sessionID), values...).Err(); err != nil {
		return err
	}
	return s.redis.Expire(ctx, formKey(sessionID), s.ttl).Err()
}

func (s *RedisFormStore) SaveFull(ctx context.Context, sessionID string, pos Position) error {
	if err := s.redis.HSet(ctx, formKey(sessionID), string(pos), "1").Err(); err != nil {
		return err
	}
	return s.redis.Expire(ctx, formKey(sessionID), s.ttl).Err()
}

// AcquireSubmit takes the session's in-flight slot and returns the token that
// owns it. The token is empty when a submission is already pending.
func (s *RedisFormStore) AcquireSubmit(ctx context.Context, sessionID string) (string, error) {
	token := s.newToken()
	ok, err := s.redis.SetNX(ctx, lockKey(sessionID), token, s.lockTTL).Result()
	if err != nil || !ok {
		return "", err
	}
	return token, nil
}

func (s *RedisFormStore) ReleaseSubmit(ctx context.Context, sessionID, token string) error {
	return releaseLock.Run(ctx, s.redis, []string{lockKey(sessionID)}, token).Err()
}

func (s *RedisFormStore) Reset(ctx context.Context, sessionID string) error {
	return s.redis.Del(ctx, formKey(sessionID), lockKey(sessionID)).Err()
}
