package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireJourneyLock attempts to acquire the reservation lock for a journey.
// The lock serializes booking creation across processes so the capacity
// check and the insert see a stable set of pending bookings.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireJourneyLock(ctx context.Context, journeyID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:journey:%s", journeyID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseJourneyLock releases the reservation lock for a journey.
func (s *LockStore) ReleaseJourneyLock(ctx context.Context, journeyID string) error {
	key := fmt.Sprintf("lock:journey:%s", journeyID)

	return s.client.Del(ctx, key).Err()
}
