package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/toolhub/internal/logger"
	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL is the lifetime of a cached response
const DefaultCacheTTL = 5 * time.Minute

// Store is a response cache shared by every toolhub instance.
// Expiry is delegated to Redis: entries are written with their TTL, so an
// expired entry is simply absent.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

// NewStore creates a Redis backed response cache
func NewStore(client *redis.Client, ttl time.Duration, log logger.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Store{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Get retrieves a cached response. Redis failures are logged and reported as a miss.
func (s *Store) Get(ctx context.Context, signature string) ([]byte, bool) {
	payload, err := s.client.Get(ctx, CacheKey(signature)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("redis cache read failed",
				logger.String("key", signature),
				logger.Error(err))
		}
		return nil, false
	}
	return payload, true
}

// Set stores a response, replacing any previous one and restarting its TTL
func (s *Store) Set(ctx context.Context, signature string, payload []byte) {
	if err := s.client.Set(ctx, CacheKey(signature), payload, s.ttl).Err(); err != nil {
		s.log.Warn("redis cache write failed",
			logger.String("key", signature),
			logger.Error(err))
	}
}

// Flush removes all cached responses
func (s *Store) Flush(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefixCache+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush cache: %w", err)
	}
	return nil
}

// Keys lists the signatures currently cached
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	var out []string
	iter := s.client.Scan(ctx, 0, KeyPrefixCache+"*", 0).Iterator()
	for iter.Next(ctx) {
		out = append(out, Signature(iter.Val()))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan cache keys: %w", err)
	}
	return out, nil
}

// Ping checks the Redis connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
