package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/wellbeing-backend/internal/platform/logger"
)

const defaultKeyPrefix = "wellbeing:analytics:"

const generationKey = "generation"

// AnalyticsCache stores JSON encoded aggregate responses under a generation.
// Invalidate moves to a new generation, so an entry computed before it can
// only be written under the old one and is never read again. A miss is
// reported as ok=false with a nil error.
type AnalyticsCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, gen int64, key string, dst any) (bool, error)
	Set(ctx context.Context, gen int64, key string, v any) error
	Invalidate(ctx context.Context) error
	Close() error
}

type Options struct {
	Addr      string
	TTL       time.Duration
	KeyPrefix string
}

type analyticsCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	ttl    time.Duration
	prefix string
}

func NewAnalyticsCache(log *logger.Logger, opts Options) (AnalyticsCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &analyticsCache{
		log:    log.With("service", "RedisAnalyticsCache"),
		rdb:    rdb,
		ttl:    ttl,
		prefix: prefix,
	}, nil
}

func (c *analyticsCache) key(gen int64, k string) string {
	return fmt.Sprintf("%sv%d:%s", c.prefix, gen, k)
}

func (c *analyticsCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, c.prefix+generationKey).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *analyticsCache) Get(ctx context.Context, gen int64, key string, dst any) (bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(gen, key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn("bad cached analytics payload", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

func (c *analyticsCache) Set(ctx context.Context, gen int64, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(gen, key), raw, c.ttl).Err()
}

// Invalidate bumps the generation, then drops the cached entries. Entries of
// older generations left behind by concurrent writers expire with the TTL.
func (c *analyticsCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, c.prefix+generationKey).Err(); err != nil {
		return err
	}
	iter := c.rdb.Scan(ctx, 0, c.prefix+"v*", 100).Iterator()
	keys := make([]string, 0, 8)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *analyticsCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

type nopCache struct{}

// NewNopAnalyticsCache returns a cache that never hits.
func NewNopAnalyticsCache() AnalyticsCache { return nopCache{} }

func (nopCache) Generation(context.Context) (int64, error)             { return 0, nil }
func (nopCache) Get(context.Context, int64, string, any) (bool, error) { return false, nil }
func (nopCache) Set(context.Context, int64, string, any) error         { return nil }
func (nopCache) Invalidate(context.Context) error                      { return nil }
func (nopCache) Close() error                                          { return nil }
