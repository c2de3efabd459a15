package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"agenthub/internal/model"
)

// CatalogCache keeps short-lived copies of public agent listing pages.
// Agent writes and category update/delete invalidate the whole catalog;
// pages are cheap to rebuild and the TTL is small.
type CatalogCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewCatalogCache(client *redisv9.Client, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CatalogCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *CatalogCache) GetPage(ctx context.Context, categoryID uint, limit, offset int) ([]model.Agent, bool, error) {
	raw, err := c.client.Get(ctx, c.pageKey(categoryID, limit, offset)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get catalog page failed: %w", err)
	}

	var agents []model.Agent
	if err := json.Unmarshal([]byte(raw), &agents); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached catalog page failed: %w", err)
	}
	return agents, true, nil
}

func (c *CatalogCache) SetPage(ctx context.Context, categoryID uint, limit, offset int, agents []model.Agent) error {
	payload, err := json.Marshal(agents)
	if err != nil {
		return fmt.Errorf("marshal catalog page failed: %w", err)
	}
	key := c.pageKey(categoryID, limit, offset)
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set catalog page failed: %w", err)
	}
	if err := c.client.SAdd(ctx, c.indexKey(), key).Err(); err != nil {
		return fmt.Errorf("redis track catalog page failed: %w", err)
	}
	return nil
}

// Invalidate drops every cached page.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	keys, err := c.client.SMembers(ctx, c.indexKey()).Result()
	if err != nil {
		return fmt.Errorf("redis list catalog pages failed: %w", err)
	}
	keys = append(keys, c.indexKey())
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis invalidate catalog failed: %w", err)
	}
	return nil
}

func (c *CatalogCache) pageKey(categoryID uint, limit, offset int) string {
	return fmt.Sprintf("agents:public:%d:%d:%d", categoryID, limit, offset)
}

func (c *CatalogCache) indexKey() string {
	return "agents:public:pages"
}
