package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const contentKey = "content:merged"

// ContentCache holds the merged site content map
type ContentCache interface {
	Get(ctx context.Context) (map[string]any, error)
	Set(ctx context.Context, content map[string]any) error
	Invalidate(ctx context.Context) error
}

type contentCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewContentCache creates a new content cache
func NewContentCache(client *redis.Client) ContentCache {
	return &contentCache{
		client: client,
		ttl:    10 * time.Minute,
	}
}

// Get returns nil, nil on a miss
func (c *contentCache) Get(ctx context.Context) (map[string]any, error) {
	data, err := c.client.Get(ctx, contentKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var content map[string]any
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, err
	}
	return content, nil
}

func (c *contentCache) Set(ctx context.Context, content map[string]any) error {
	data, err := json.Marshal(content)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, contentKey, data, c.ttl).Err()
}

func (c *contentCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, contentKey).Err()
}
