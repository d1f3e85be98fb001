package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed journey locking.
type LockStoreInterface interface {
	AcquireJourneyLock(ctx context.Context, journeyID string, ttl time.Duration) (bool, error)
	ReleaseJourneyLock(ctx context.Context, journeyID string) error
}

// CacheStoreInterface defines the interface for journey caching.
type CacheStoreInterface interface {
	GetJourney(ctx context.Context, journeyID string) (*CachedJourney, error)
	SetJourney(ctx context.Context, journey *CachedJourney) error
	InvalidateJourney(ctx context.Context, journeyID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface  = (*LockStore)(nil)
	_ CacheStoreInterface = (*CacheStore)(nil)
)
