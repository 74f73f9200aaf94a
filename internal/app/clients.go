package app

import (
	"fmt"

	"github.com/yungbote/wellbeing-backend/internal/clients/redis"
	"github.com/yungbote/wellbeing-backend/internal/platform/logger"
)

type Clients struct {
	AnalyticsCache redis.AnalyticsCache
}

// wireClients connects optional backing services. An unset REDIS_ADDR
// disables the analytics cache.
func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	if cfg.RedisAddr == "" {
		return Clients{AnalyticsCache: redis.NewNopAnalyticsCache()}, nil
	}
	cache, err := redis.NewAnalyticsCache(log, redis.Options{Addr: cfg.RedisAddr, TTL: cfg.AnalyticsCacheTTL})
	if err != nil {
		return Clients{}, fmt.Errorf("init analytics cache: %w", err)
	}
	return Clients{AnalyticsCache: cache}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.AnalyticsCache != nil {
		_ = c.AnalyticsCache.Close()
	}
}
