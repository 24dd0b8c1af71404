package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"mattressfit/internal/model"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionCache keeps open survey sessions and their write locks
type SessionCache interface {
	Set(ctx context.Context, snap *model.SurveySnapshot) error
	Get(ctx context.Context, id string) (*model.SurveySnapshot, error)
	Delete(ctx context.Context, id string) error
	// AcquireLock takes the session's write lock for holder. When the lock is
	// already taken it returns false and the current holder.
	AcquireLock(ctx context.Context, id, holder string) (bool, string, error)
	ReleaseLock(ctx context.Context, id string) error
}

type sessionCache struct {
	client  *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

// NewSessionCache creates a new survey session cache
func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &sessionCache{
		client:  client,
		ttl:     ttl,
		lockTTL: 30 * time.Second, // longer than the notifier's retry budget
	}
}

func (c *sessionCache) key(id string) string {
	return fmt.Sprintf("survey:session:%s", id)
}

func (c *sessionCache) lockKey(id string) string {
	return fmt.Sprintf("survey:session:%s:lock", id)
}

func (c *sessionCache) Set(ctx context.Context, snap *model.SurveySnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(snap.ID), data, c.ttl).Err()
}

func (c *sessionCache) Get(ctx context.Context, id string) (*model.SurveySnapshot, error) {
	data, err := c.client.Get(ctx, c.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap model.SurveySnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *sessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id), c.lockKey(id)).Err()
}

func (c *sessionCache) AcquireLock(ctx context.Context, id, holder string) (bool, string, error) {
	ok, err := c.client.SetNX(ctx, c.lockKey(id), holder, c.lockTTL).Result()
	if err != nil || ok {
		return ok, holder, err
	}
	current, err := c.client.Get(ctx, c.lockKey(id)).Result()
	if err == redis.Nil {
		// released between the two calls
		return false, "", nil
	}
	return false, current, err
}

func (c *sessionCache) ReleaseLock(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.lockKey(id)).Err()
}
