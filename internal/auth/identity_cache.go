package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"skybook/internal/models"

	"github.com/go-redis/redis/v8"
)

// IdentityCache keeps backend-verified identities in Redis for a short TTL
// so hot tokens do not round-trip to the auth backend on every request.
type IdentityCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewIdentityCache(client *redis.Client, ttl time.Duration) *IdentityCache {
	return &IdentityCache{Client: client, TTL: ttl}
}

// cacheKey hashes the token; raw bearer tokens never land in Redis keys.
func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "identity:" + hex.EncodeToString(sum[:])
}

// Get returns the cached identity for a token, or nil on a miss.
func (c *IdentityCache) Get(ctx context.Context, token string) (*models.Identity, error) {
	if c == nil || c.Client == nil {
		return nil, nil
	}

	raw, err := c.Client.Get(ctx, cacheKey(token)).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get identity from redis: %w", err)
	}

	var identity models.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached identity: %w", err)
	}
	return &identity, nil
}

func (c *IdentityCache) Set(ctx context.Context, token string, identity *models.Identity) error {
	if c == nil || c.Client == nil {
		return nil
	}

	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}
	if err := c.Client.Set(ctx, cacheKey(token), raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store identity in redis: %w", err)
	}
	return nil
}
