// Package cacheredis backs the identity cache with Redis. Expiry is
// delegated entirely to Redis TTLs; there is no sweep loop here.
package cacheredis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"gatekeeper/internal/domain"
)

type Cache struct {
	client *redis.Client
}

func New(client *redis.Client) (*Cache, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	return &Cache{client: client}, nil
}

func (c *Cache) Get(ctx context.Context, key string) (*domain.Identity, bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var identity domain.Identity
	if err := json.Unmarshal(payload, &identity); err != nil {
		// A corrupt entry is treated as a miss; the next Put replaces it
		// wholesale.
		return nil, false, nil
	}
	return &identity, true, nil
}

func (c *Cache) Put(ctx context.Context, key string, value domain.Identity, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
