package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	specializationsKey = "doctors:specializations"
	specializationsTTL = 10 * time.Minute
)

// SpecializationCache guarda a lista distinta de especialidades.
// Com client nil todas as operações viram miss/no-op.
type SpecializationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSpecializationCache(client *redis.Client) *SpecializationCache {
	return &SpecializationCache{client: client, ttl: specializationsTTL}
}

func (c *SpecializationCache) Get(ctx context.Context) ([]string, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, specializationsKey).Bytes()
	if err != nil {
		return nil, false
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

func (c *SpecializationCache) Set(ctx context.Context, values []string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if values == nil {
		values = []string{}
	}

	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, specializationsKey, raw, c.ttl).Err()
}

func (c *SpecializationCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, specializationsKey).Err()
}
