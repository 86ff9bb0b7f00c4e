// internal/adapters/out/cache/catalog_cache_redis.go
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	productdom "voltmart/internal/domain/product"
)

// Cached catalog pages live under catalog:<digest>; invalidation drops the
// whole namespace since admin writes are rare compared to reads.
const (
	catalogKeyPrefix = "catalog:"
	catalogTTL       = 60 * time.Second
)

// CatalogCacheRedis caches product list pages. It satisfies the
// usecase.CatalogCache port; every method is best-effort and returns a
// cache miss (nil, false) on any Redis failure.
type CatalogCacheRedis struct {
	Client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func NewCatalogCacheRedis(client *redis.Client) *CatalogCacheRedis {
	return &CatalogCacheRedis{Client: client}
}

func (c *CatalogCacheRedis) GetPage(ctx context.Context, filter productdom.Filter, sort productdom.Sort, page productdom.Page) (*productdom.PageResult, bool) {
	if c == nil || c.Client == nil {
		return nil, false
	}

	val, err := c.Client.Get(ctx, pageKey(filter, sort, page)).Result()
	if err != nil {
		return nil, false
	}

	var res productdom.PageResult
	if err := json.Unmarshal([]byte(val), &res); err != nil {
		return nil, false
	}
	return &res, true
}

func (c *CatalogCacheRedis) SetPage(ctx context.Context, filter productdom.Filter, sort productdom.Sort, page productdom.Page, res *productdom.PageResult) {
	if c == nil || c.Client == nil || res == nil {
		return
	}

	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	_ = c.Client.Set(ctx, pageKey(filter, sort, page), data, catalogTTL).Err()
}

// Invalidate drops every cached catalog page. Called after admin product
// writes.
func (c *CatalogCacheRedis) Invalidate(ctx context.Context) {
	if c == nil || c.Client == nil {
		return
	}

	iter := c.Client.Scan(ctx, 0, catalogKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		_ = c.Client.Del(ctx, iter.Val()).Err()
	}
}

func (c *CatalogCacheRedis) Close() error {
	if c == nil || c.Client == nil {
		return nil
	}
	return c.Client.Close()
}

func pageKey(filter productdom.Filter, sort productdom.Sort, page productdom.Page) string {
	raw, _ := json.Marshal(struct {
		F productdom.Filter
		S productdom.Sort
		P productdom.Page
	}{filter, sort, page})
	sum := sha256.Sum256(raw)
	return catalogKeyPrefix + hex.EncodeToString(sum[:16])
}
