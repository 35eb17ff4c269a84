package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bikeflow.bluebikes.org/internal/models"
)

// RedisCache implements TrafficCache on Redis. Keys carry a content hash of
// the dataset, so API instances serving the same data share aggregation
// results. Entries expire after ttl.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ TrafficCache = (*RedisCache)(nil)

func NewRedisCache(addr, password string, db int, ttl time.Duration) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{client: client, ttl: ttl}
}

// Ping checks that the server is reachable.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Get(ctx context.Context, key string) (models.StationTrafficList, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.StationTrafficList{}, false, nil
	}
	if err != nil {
		return models.StationTrafficList{}, false, err
	}

	var traffic models.StationTrafficList
	if err := json.Unmarshal(data, &traffic); err != nil {
		return models.StationTrafficList{}, false, fmt.Errorf("failed to unmarshal traffic for %s: %w", key, err)
	}
	return traffic, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, traffic models.StationTrafficList) error {
	data, err := json.Marshal(traffic)
	if err != nil {
		return fmt.Errorf("failed to marshal traffic: %w", err)
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
