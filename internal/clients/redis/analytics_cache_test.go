package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/yungbote/wellbeing-backend/internal/platform/logger"
)

func TestNopAnalyticsCache(t *testing.T) {
	t.Parallel()

	c := NewNopAnalyticsCache()
	ctx := context.Background()
	if err := c.Set(ctx, 0, "segments", map[string]int{"bajo": 1}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	var out map[string]int
	if ok, err := c.Get(ctx, 0, "segments", &out); ok || err != nil {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
}

func TestNewAnalyticsCacheRequiresAddr(t *testing.T) {
	t.Parallel()

	if _, err := NewAnalyticsCache(logger.Nop(), Options{}); err == nil {
		t.Fatalf("NewAnalyticsCache: expected error without addr")
	}
	if _, err := NewAnalyticsCache(nil, Options{Addr: "localhost:6379"}); err == nil {
		t.Fatalf("NewAnalyticsCache: expected error without logger")
	}
}

func TestAnalyticsCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}

	prefix := fmt.Sprintf("wellbeing:test:%d:", time.Now().UnixNano())
	c, err := NewAnalyticsCache(logger.Nop(), Options{Addr: addr, TTL: time.Minute, KeyPrefix: prefix})
	if err != nil {
		t.Fatalf("NewAnalyticsCache: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	gen, err := c.Generation(ctx)
	if err != nil || gen != 0 {
		t.Fatalf("Generation: gen=%d err=%v", gen, err)
	}
	if err := c.Set(ctx, gen, "segments", map[string]int{"bajo": 2, "alto": 1}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	var got map[string]int
	ok, err := c.Get(ctx, gen, "segments", &got)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got["bajo"] != 2 || got["alto"] != 1 {
		t.Fatalf("Get: unexpected %v", got)
	}

	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	next, err := c.Generation(ctx)
	if err != nil || next != gen+1 {
		t.Fatalf("Generation after Invalidate: gen=%d err=%v", next, err)
	}
	if ok, err := c.Get(ctx, next, "segments", &got); ok || err != nil {
		t.Fatalf("Get after Invalidate: ok=%v err=%v", ok, err)
	}

	// A write computed before the invalidation lands in the old generation.
	if err := c.Set(ctx, gen, "segments", map[string]int{"bajo": 9}); err != nil {
		t.Fatalf("Set (stale): %v", err)
	}
	if ok, err := c.Get(ctx, next, "segments", &got); ok || err != nil {
		t.Fatalf("Get (stale write visible): ok=%v err=%v", ok, err)
	}
}
