// Package redisinfra is the Redis-backed challenge store. Key expiry is
// derived from the challenge's ExpiresAt, so Redis retires stale challenges
// on its own across all server instances.
package redisinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mkrfoods/storefront/internal/config"
	"github.com/mkrfoods/storefront/internal/domain"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otp:"

// NewClient creates a Redis client from the configured URL and verifies the
// connection with a ping.
func NewClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// ChallengeStore persists challenges as JSON values under otp:<key>.
type ChallengeStore struct {
	client *redis.Client
}

func NewChallengeStore(client *redis.Client) *ChallengeStore {
	return &ChallengeStore{client: client}
}

func (s *ChallengeStore) Put(ctx context.Context, c *domain.OTPChallenge) error {
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal challenge: %w", err)
	}
	ttl := time.Until(time.Unix(c.ExpiresAt, 0))
	if ttl <= 0 {
		// Already past ExpiresAt (attempt bookkeeping on a dying record);
		// keep it around for a moment so lazy expiry can observe it.
		ttl = time.Second
	}
	return s.client.Set(ctx, keyPrefix+c.Key, b, ttl).Err()
}

func (s *ChallengeStore) Get(ctx context.Context, key string) (*domain.OTPChallenge, error) {
	b, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("challenge for %s: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var c domain.OTPChallenge
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("unmarshal challenge: %w", err)
	}
	return &c, nil
}

func (s *ChallengeStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, keyPrefix+key).Err()
}
