// Copyright (c) 2026 TrustVoice. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/the-voice-ledger/trustvoice/internal/platform/constants"
)

// RedisDenylistRepository implements DenylistRepository using Redis.
//
// Keys expire naturally with the token they shadow, so the denylist never
// grows past the set of not-yet-expired revoked tokens.
type RedisDenylistRepository struct {
	client *redis.Client
}

// NewDenylistRepository creates a new Redis-backed DenylistRepository.
func NewDenylistRepository(client *redis.Client) *RedisDenylistRepository {
	return &RedisDenylistRepository{client: client}
}

/*
Add records a token ID as revoked for the remainder of its lifetime.

Parameters:
  - context: context.Context
  - tokenID: string (JTI claim)
  - ttl: time.Duration (remaining token lifetime)

Returns:
  - err: Execution errors
*/
func (repository *RedisDenylistRepository) Add(context context.Context, tokenID string, ttl time.Duration) error {

	// Use constants for key prefix
	key := constants.RedisPrefixTokenDenylist + tokenID

	// Marker value; presence of the key is what matters
	if err := repository.client.Set(context, key, "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("redis_denylist_add_failed: %w", err)
	}

	// Return nil on success
	return nil
}

/*
Contains reports whether a token ID has been revoked.

Description: Fail-closed is NOT appropriate here; a Redis outage must not log
every donor out, so connectivity errors are surfaced to the caller to decide.

Parameters:
  - context: context.Context
  - tokenID: string (JTI claim)

Returns:
  - bool: true if the token is denylisted
  - err: Connectivity errors
*/
func (repository *RedisDenylistRepository) Contains(context context.Context, tokenID string) (bool, error) {

	// Use constants for key prefix
	key := constants.RedisPrefixTokenDenylist + tokenID

	// A missing key means the token was never revoked
	_, err := repository.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis_denylist_contains_failed: %w", err)
	}

	return true, nil
}
