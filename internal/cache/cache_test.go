package cache_test

import (
	"context"
	"testing"

	"commerce/internal/cache"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	ctx := context.Background()
	c := cache.New("", "", 0)
	if c.Enabled() {
		t.Fatal("no address must disable the cache")
	}
	c.Set(ctx, "k", map[string]int{"a": 1}, cache.ListTTL)
	var out map[string]int
	if c.Get(ctx, "k", &out) {
		t.Fatal("disabled cache must always miss")
	}
	if n := c.DeleteByPrefix(ctx, "products:"); n != 0 {
		t.Fatalf("DeleteByPrefix = %d", n)
	}
	c.InvalidateProduct(ctx, "p1")
	if err := c.Ping(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	var nilCache *cache.Cache
	if nilCache.Enabled() || nilCache.Get(ctx, "k", &out) {
		t.Fatal("nil cache must behave as disabled")
	}
}

func TestKeys(t *testing.T) {
	lo := int64(1000)
	got := cache.ListKey(2, 20, "phone", "", &lo, nil, "price", "asc")
	want := "products:page:2:size:20:category:phone:brand:None:min_price:1000:max_price:None:sort_by:price:sort_order:asc"
	if got != want {
		t.Fatalf("ListKey = %q", got)
	}
	if cache.ProductKey("abc") != "product:abc" {
		t.Fatal("ProductKey")
	}
	if cache.ProductStatisticsKey("P-1") != "product_statistics:P-1" {
		t.Fatal("ProductStatisticsKey")
	}
}
