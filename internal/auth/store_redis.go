// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avelov/remark/internal/platform/constants"
)

// RedisResetTokenRepository implements [ResetTokenRepository] using Redis.
//
// # Key Layout
//
// Two keys per outstanding token, both carrying the same TTL:
//   - auth:reset_token:<token> -> userID (the redeemable direction)
//   - auth:reset_user:<userID> -> token  (reverse index enforcing at most
//     one outstanding token per identity)
type RedisResetTokenRepository struct {
	client *redis.Client
}

// NewResetTokenRepository creates a new Redis-backed [ResetTokenRepository].
func NewResetTokenRepository(client *redis.Client) *RedisResetTokenRepository {
	return &RedisResetTokenRepository{client: client}
}

// setResetToken supersedes the identity's prior token and writes both key
// directions in one server-side step, so two concurrent requests for the same
// identity can never leave two redeemable forward keys behind.
//
// KEYS[1] = forward token key, KEYS[2] = reverse user key.
// ARGV[1] = userID, ARGV[2] = token, ARGV[3] = TTL in ms, ARGV[4] = forward
// key prefix (needed to delete the prior token's forward key).
var setResetToken = redis.NewScript(`
local prior = redis.call("GET", KEYS[2])
if prior then
	redis.call("DEL", ARGV[4] .. prior)
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[3])
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
return 1
`)

/*
Set stores a reset token with its associated userID and TTL.

Description: Any previously outstanding token for the same identity is
invalidated in the same atomic script, so issuing a new token always
supersedes the old one regardless of concurrent requests.

Parameters:
  - context: context.Context
  - token: string
  - userID: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisResetTokenRepository) Set(context context.Context, token string, userID string, ttl time.Duration) error {
	keys := []string{
		constants.RedisPrefixResetToken + token,
		constants.RedisPrefixResetUser + userID,
	}

	err := setResetToken.Run(context, repository.client, keys,
		userID, token, ttl.Milliseconds(), constants.RedisPrefixResetToken).Err()
	if err != nil {
		return fmt.Errorf("redis_reset_token_set_failed: %w", err)
	}

	return nil
}

/*
Get retrieves the userID for a given token.

Description: Expiry is handled by Redis itself; an expired token is simply
absent.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - string: Owning userID
  - error: ErrResetTokenNotFound or connectivity errors
*/
func (repository *RedisResetTokenRepository) Get(context context.Context, token string) (string, error) {
	userID, err := repository.client.Get(context, constants.RedisPrefixResetToken+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrResetTokenNotFound
		}
		return "", fmt.Errorf("redis_reset_token_get_failed: %w", err)
	}

	return userID, nil
}

/*
Delete removes a token and its reverse index entry.

Description: Idempotent — deleting an absent token is not an error.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: Execution errors
*/
func (repository *RedisResetTokenRepository) Delete(context context.Context, token string) error {
	tokenKey := constants.RedisPrefixResetToken + token

	userID, err := repository.client.Get(context, tokenKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("redis_reset_token_delete_lookup_failed: %w", err)
	}

	pipeline := repository.client.TxPipeline()
	pipeline.Del(context, tokenKey)
	pipeline.Del(context, constants.RedisPrefixResetUser+userID)

	if _, err := pipeline.Exec(context); err != nil {
		return fmt.Errorf("redis_reset_token_delete_failed: %w", err)
	}

	return nil
}
