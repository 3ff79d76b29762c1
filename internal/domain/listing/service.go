// internal/domain/listing/service.go
package listing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"panthers-signup/internal/domain/signup"
	"panthers-signup/internal/realtime"
	apperrors "panthers-signup/pkg/errors"
)

const generationKey = "signups:generation"

// StaleNotification is broadcast whenever the sign-up listing changes.
var StaleNotification = realtime.Notification{Type: "stale", Key: "signups"}

// Backend is the privileged listing surface of the roster backend.
type Backend interface {
	GetAllSignUps(ctx context.Context, token string) ([]signup.Record, error)
	GetSignUp(ctx context.Context, token string, id signup.RecordID) (*signup.Record, error)
	IsCallerAdmin(ctx context.Context, token string) (bool, error)
}

type Broadcaster interface {
	Broadcast(n realtime.Notification)
}

// ListingService serves sign-up listings to dashboards. Listings are cached
// per caller under the current invalidation generation, so bumping the
// generation makes every cached listing stale at once. A cached listing is
// only served after the backend confirms the caller is still an admin.
type ListingService struct {
	backend Backend
	redis   *redis.Client
	ttl     time.Duration
	hub     Broadcaster
}

func NewListingService(b Backend, rdb *redis.Client, ttl time.Duration, hub Broadcaster) *ListingService {
	return &ListingService{backend: b, redis: rdb, ttl: ttl, hub: hub}
}

func (s *ListingService) List(ctx context.Context, token string) ([]signup.Record, error) {
	key, err := s.cacheKey(ctx, token)
	if err != nil {
		log.Printf("listing cache key: %v", err)
	}
	if key != "" {
		if raw, err := s.redis.Get(ctx, key).Bytes(); err == nil {
			var records []signup.Record
			if err := json.Unmarshal(raw, &records); err == nil {
				if err := s.authorize(ctx, token); err != nil {
					s.drop(ctx, key)
					return nil, err
				}
				return records, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("listing cache read: %v", err)
		}
	}

	records, err := s.backend.GetAllSignUps(ctx, token)
	if err != nil {
		return nil, err
	}
	if key != "" {
		if raw, err := json.Marshal(records); err == nil {
			if err := s.redis.Set(ctx, key, raw, s.ttl).Err(); err != nil {
				log.Printf("listing cache write: %v", err)
			}
		}
	}
	return records, nil
}

// authorize asks the backend whether token may still read every sign-up.
// Revoked tokens come back as the backend's authentication error.
func (s *ListingService) authorize(ctx context.Context, token string) error {
	admin, err := s.backend.IsCallerAdmin(ctx, token)
	if err != nil {
		return err
	}
	if !admin {
		return apperrors.NewForbiddenError("Unauthorized: Only admins can view all sign-ups")
	}
	return nil
}

func (s *ListingService) drop(ctx context.Context, key string) {
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		log.Printf("listing cache drop: %v", err)
	}
}

func (s *ListingService) Get(ctx context.Context, token string, id signup.RecordID) (*signup.Record, error) {
	return s.backend.GetSignUp(ctx, token, id)
}

// Invalidate marks every cached listing stale and tells open dashboards to
// refetch.
func (s *ListingService) Invalidate(ctx context.Context) error {
	if err := s.redis.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("bump listing generation: %w", err)
	}
	if s.hub != nil {
		s.hub.Broadcast(StaleNotification)
	}
	return nil
}

// Forget drops the caller's cached listing, used on logout.
func (s *ListingService) Forget(ctx context.Context, token string) error {
	key, err := s.cacheKey(ctx, token)
	if err != nil {
		return err
	}
	return s.redis.Del(ctx, key).Err()
}

func (s *ListingService) cacheKey(ctx context.Context, token string) (string, error) {
	gen, err := s.redis.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("signups:cache:%d:%s", gen, callerHash(token)), nil
}

func callerHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

var _ signup.Invalidator = (*ListingService)(nil)
