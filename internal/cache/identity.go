package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shelfmark/shelfmark/internal/model"
)

const (
	// identityCachePrefix is the Redis key prefix for resolved identities.
	identityCachePrefix = "auth:identity:"
	// identityCacheTTL is the time-to-live for cached identities.
	// Short on purpose: user records never change in this system, but a
	// short TTL bounds staleness if a deletion path is ever added.
	identityCacheTTL = 60 * time.Second
)

// GetIdentity retrieves a cached identity by user ID.
// Returns nil on a cache miss.
func (c *Cache) GetIdentity(ctx context.Context, userID string) (*model.Identity, error) {
	key := identityCachePrefix + userID

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var id model.Identity
	if err := json.Unmarshal(data, &id); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &id, nil
}

// SetIdentity caches a resolved identity.
func (c *Cache) SetIdentity(ctx context.Context, id *model.Identity) error {
	key := identityCachePrefix + id.UserID

	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}

	return c.client.Set(ctx, key, data, identityCacheTTL).Err()
}

// DeleteIdentity removes a cached identity.
func (c *Cache) DeleteIdentity(ctx context.Context, userID string) error {
	key := identityCachePrefix + userID
	return c.client.Del(ctx, key).Err()
}
