package observability

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/wellbeing-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge
	apiReqError *Counter

	ingestRows     *CounterVec
	ingestFailures *CounterVec
	ingestLatency  *HistogramVec
	submissions    *CounterVec
	cacheLookups   *CounterVec

	storeStats *GaugeVec
	redisUp    *Gauge
	redisPing  *Gauge

	scrapeInterval time.Duration
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init builds the process-wide registry once. A disabled registry is nil;
// every method is safe on a nil receiver.
func Init(enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = New()
	})
	return instance
}

func Current() *Metrics {
	return instance
}

// New returns an unshared registry.
func New() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		),
		apiInflight: NewGauge("api_inflight_requests", "In-flight API requests."),
		apiReqError: NewCounter("api_requests_error_total", "Total API requests with 5xx status."),

		ingestRows:     NewCounterVec("ingest_rows_total", "CSV rows submitted to the store by detected schema.", []string{"schema"}),
		ingestFailures: NewCounterVec("ingest_failures_total", "Rejected or failed CSV ingestions by reason.", []string{"reason"}),
		ingestLatency: NewHistogramVec(
			"ingest_duration_seconds",
			"CSV ingestion latency in seconds by status.",
			[]string{"status"},
			[]float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		),
		submissions:  NewCounterVec("students_submitted_total", "Single student submissions by outcome.", []string{"outcome"}),
		cacheLookups: NewCounterVec("analytics_cache_lookups_total", "Analytics cache lookups by result.", []string{"result"}),

		storeStats: NewGaugeVec("store_pool_stats", "database/sql pool statistics.", []string{"stat"}),
		redisUp:    NewGauge("redis_up", "Redis reachability (1 up, 0 down)."),
		redisPing:  NewGauge("redis_ping_seconds", "Last redis ping latency in seconds."),

		scrapeInterval: 10 * time.Second,
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

type promWriter interface {
	WritePrometheus(w io.Writer) error
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	all := []promWriter{
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.apiReqError,
		m.ingestRows,
		m.ingestFailures,
		m.ingestLatency,
		m.submissions,
		m.cacheLookups,
		m.storeStats,
		m.redisUp,
		m.redisPing,
	}
	for _, pw := range all {
		if err := pw.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
	if isServerErrorStatus(status) {
		m.apiReqError.Inc()
	}
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveIngest records a finished ingestion. reason is empty on success.
func (m *Metrics) ObserveIngest(schema string, rows int, reason string, dur time.Duration) {
	if m == nil {
		return
	}
	if reason != "" {
		m.ingestFailures.Inc(reason)
		m.ingestLatency.Observe(dur.Seconds(), "failed")
		return
	}
	m.ingestRows.Add(float64(rows), schema)
	m.ingestLatency.Observe(dur.Seconds(), "succeeded")
}

func (m *Metrics) IngestRows(schema string) float64 {
	if m == nil {
		return 0
	}
	return m.ingestRows.Value(schema)
}

func (m *Metrics) IngestFailures(reason string) float64 {
	if m == nil {
		return 0
	}
	return m.ingestFailures.Value(reason)
}

// IncSubmission counts single-record submissions: created, existing or invalid.
func (m *Metrics) IncSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.Inc(outcome)
}

func (m *Metrics) Submissions(outcome string) float64 {
	if m == nil {
		return 0
	}
	return m.submissions.Value(outcome)
}

func (m *Metrics) IncCacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.Inc(result)
}

func (m *Metrics) CacheLookups(result string) float64 {
	if m == nil {
		return 0
	}
	return m.cacheLookups.Value(result)
}

func (m *Metrics) APIRequests(method, route, status string) float64 {
	if m == nil {
		return 0
	}
	return m.apiRequests.Value(method, route, status)
}

func (m *Metrics) StartStoreCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: store stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.storeStats.Set(float64(stats.OpenConnections), "open_connections")
				m.storeStats.Set(float64(stats.InUse), "in_use")
				m.storeStats.Set(float64(stats.Idle), "idle")
				m.storeStats.Set(float64(stats.WaitCount), "wait_count")
				m.storeStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
				m.storeStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")
			}
		}
	}()
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	go func() {
		ticker := time.NewTicker(m.scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				_ = rdb.Close()
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

func isServerErrorStatus(status string) bool {
	code, err := strconv.Atoi(strings.TrimSpace(status))
	if err != nil {
		return false
	}
	return code >= 500 && code <= 599
}
