package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"shop-backend/internal/models"
)

const productTTL = time.Minute

// ProductCache is a read-through cache of single-product lookups.
// A nil client disables it.
type ProductCache struct {
	rdb *redis.Client
}

func NewProductCache(addr string) *ProductCache {
	if addr == "" {
		return &ProductCache{}
	}
	return &ProductCache{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

func key(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

func (c *ProductCache) Get(ctx context.Context, id uint) (*models.Product, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key(id)).Result()
	if err != nil {
		return nil, false
	}
	var p models.Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (c *ProductCache) Set(ctx context.Context, p *models.Product) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(p.ID), data, productTTL).Err()
}

func (c *ProductCache) Invalidate(ctx context.Context, id uint) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, key(id)).Err()
}

func (c *ProductCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
