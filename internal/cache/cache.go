// Package cache is a JSON read-through cache on Redis. A Cache built without
// an address is a no-op: every Get misses and every write is dropped, so the
// service runs unchanged when Redis is not deployed.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	applog "commerce/internal/log"
)

const (
	ListTTL       = 5 * time.Minute
	ProductTTL    = 10 * time.Minute
	CategoriesTTL = time.Hour
	BrandsTTL     = time.Hour
	StatsTTL      = time.Hour
)

const (
	KeyStats      = "product_stats"
	KeyCategories = "product_categories"
	KeyBrands     = "product_brands"
	prefixList    = "products:"
	prefixProduct = "product:"
	prefixProdSt  = "product_statistics:"
)

type Cache struct {
	rdb *redis.Client
}

// New connects to addr. An empty addr returns a disabled cache.
func New(addr, password string, db int) *Cache {
	if addr == "" {
		return &Cache{}
	}
	return &Cache{rdb: redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})}
}

// Enabled reports whether a Redis client is configured.
func (c *Cache) Enabled() bool { return c != nil && c.rdb != nil }

func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}

// Get decodes the value under key into dst and reports a hit. Redis errors
// and undecodable values count as misses.
func (c *Cache) Get(ctx context.Context, key string, dst any) bool {
	if !c.Enabled() {
		return false
	}
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			applog.Error(nil, "cache.get.fail", err, map[string]any{"key": key})
		}
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		applog.Error(nil, "cache.decode.fail", err, map[string]any{"key": key})
		return false
	}
	return true
}

func (c *Cache) Set(ctx context.Context, key string, v any, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		applog.Error(nil, "cache.encode.fail", err, map[string]any{"key": key})
		return
	}
	if err := c.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		applog.Error(nil, "cache.set.fail", err, map[string]any{"key": key})
	}
}

func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		applog.Error(nil, "cache.delete.fail", err, map[string]any{"keys": keys})
	}
}

// DeleteByPrefix drops every key starting with prefix. It walks the keyspace
// with SCAN, so it is meant for admin writes, not hot paths.
func (c *Cache) DeleteByPrefix(ctx context.Context, prefix string) int {
	if !c.Enabled() {
		return 0
	}
	var keys []string
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 200).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		applog.Error(nil, "cache.scan.fail", err, map[string]any{"prefix": prefix})
		return 0
	}
	c.Delete(ctx, keys...)
	return len(keys)
}

// InvalidateProduct drops a product's detail entry and every cached list page.
func (c *Cache) InvalidateProduct(ctx context.Context, id string) {
	c.Delete(ctx, ProductKey(id), KeyStats, KeyBrands, KeyCategories)
	c.DeleteByPrefix(ctx, prefixList)
}

func ProductKey(id string) string { return prefixProduct + id }

func ProductStatisticsKey(productNo string) string { return prefixProdSt + productNo }

// ListKey identifies one page of GET /products/ by every filter it was built from.
func ListKey(page, size int, category, brand string, minPrice, maxPrice *int64, sortBy, sortOrder string) string {
	return fmt.Sprintf("%spage:%d:size:%d:category:%s:brand:%s:min_price:%s:max_price:%s:sort_by:%s:sort_order:%s",
		prefixList, page, size, orNone(category), orNone(brand), ptr(minPrice), ptr(maxPrice), sortBy, sortOrder)
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

func ptr(v *int64) string {
	if v == nil {
		return "None"
	}
	return fmt.Sprint(*v)
}
