package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// JourneyCacheTTL is short because journey status flips during booking and
// cancellation; a stale PENDING entry only survives a few seconds.
const JourneyCacheTTL = 10 * time.Second

const journeyCachePrefix = "cache:journey:"

// CachedJourney represents a cached journey entity. It carries every field
// a cache hit must reproduce, so reads are identical whether they come from
// the cache or from storage.
type CachedJourney struct {
	ID             string  `json:"id"`
	DriverID       string  `json:"driver_id"`
	VehicleID      string  `json:"vehicle_id"`
	Type           string  `json:"type"`
	Status         string  `json:"status"`
	Origin         string  `json:"origin"`
	OriginLat      float64 `json:"origin_lat"`
	OriginLng      float64 `json:"origin_lng"`
	Destination    string  `json:"destination"`
	DestinationLat float64 `json:"destination_lat"`
	DestinationLng float64 `json:"destination_lng"`
	DepartureTime  string  `json:"departure_time"`
	AvailableSeats int     `json:"available_seats"`
	PricePerSeat   float64 `json:"price_per_seat"`
	CreatedAt      string  `json:"created_at"`
}

// GetJourney retrieves a journey from cache. Returns nil on a cache miss.
func (s *CacheStore) GetJourney(ctx context.Context, journeyID string) (*CachedJourney, error) {
	data, err := s.client.Get(ctx, journeyCachePrefix+journeyID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var cached CachedJourney
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}

// SetJourney stores a journey in cache.
func (s *CacheStore) SetJourney(ctx context.Context, journey *CachedJourney) error {
	data, err := json.Marshal(journey)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, journeyCachePrefix+journey.ID, data, JourneyCacheTTL).Err()
}

// InvalidateJourney removes a journey from cache.
func (s *CacheStore) InvalidateJourney(ctx context.Context, journeyID string) error {
	return s.client.Del(ctx, journeyCachePrefix+journeyID).Err()
}
