// Copyright (c) 2026 TrustVoice. All rights reserved.

package giving

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/the-voice-ledger/trustvoice/internal/platform/apperr"
	"github.com/the-voice-ledger/trustvoice/internal/platform/constants"
)

// RedisVerdictCache implements VerdictCache using Redis.
//
// Verdicts are advisory and cheap to recompute, so a short TTL keeps donors
// from hammering the hash path on repeated dashboard refreshes without
// risking a long-lived stale verdict after a data correction.
type RedisVerdictCache struct {
	client *redis.Client
}

// NewVerdictCache creates a new Redis-backed VerdictCache.
func NewVerdictCache(client *redis.Client) *RedisVerdictCache {
	return &RedisVerdictCache{client: client}
}

/*
Get returns a cached verdict for a donation, if one is still live.

Parameters:
  - context: context.Context
  - donationID: string

Returns:
  - *Verdict: Cached verdict
  - err: apperr.NotFound on cache miss, or connectivity errors
*/
func (cache *RedisVerdictCache) Get(context context.Context, donationID string) (*Verdict, error) {

	// Use constants for key prefix
	key := constants.RedisPrefixReceiptVerdict + donationID

	payload, err := cache.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("No cached verdict")
		}
		return nil, fmt.Errorf("redis_verdict_get_failed: %w", err)
	}

	verdict := &Verdict{}
	if err := json.Unmarshal([]byte(payload), verdict); err != nil {
		// A corrupt cache entry is treated as a miss; the caller recomputes.
		return nil, apperr.NotFound("No cached verdict")
	}

	return verdict, nil
}

/*
Set stores a verdict with the given TTL.

Parameters:
  - context: context.Context
  - verdict: *Verdict
  - ttl: time.Duration

Returns:
  - err: Serialization or execution errors
*/
func (cache *RedisVerdictCache) Set(context context.Context, verdict *Verdict, ttl time.Duration) error {

	// Use constants for key prefix
	key := constants.RedisPrefixReceiptVerdict + verdict.DonationID

	payload, err := json.Marshal(verdict)
	if err != nil {
		return fmt.Errorf("redis_verdict_marshal_failed: %w", err)
	}

	if err := cache.client.Set(context, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_verdict_set_failed: %w", err)
	}

	return nil
}
