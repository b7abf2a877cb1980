package upstream

import (
	"context"
	"sync"
	"time"

	"github.com/riowatch/citymonitor/internal/domain"
	"github.com/riowatch/citymonitor/internal/observability"
)

// CachedSource wraps a FeedSource with per-feed TTL snapshot caching. Every
// consumer of a feed within the TTL sees the same snapshot, which keeps the
// gateway's load on the municipal endpoints bounded no matter how many
// clients poll it. On upstream failure a stale snapshot is served if one
// exists; the error surfaces only when there is nothing to fall back to.
type CachedSource struct {
	inner   domain.FeedSource
	ttl     time.Duration
	metrics *observability.Metrics

	sirens    snapshot[[]domain.SirenStation]
	rain      snapshot[[]domain.RainStation]
	current   snapshot[domain.CurrentForecast]
	extended  snapshot[domain.ExtendedForecast]
	traffic   snapshot[[]domain.TrafficAlert]
	incidents snapshot[[]domain.Incident]
}

// NewCachedSource creates a TTL cache decorator around a feed source.
func NewCachedSource(inner domain.FeedSource, ttl time.Duration, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{inner: inner, ttl: ttl, metrics: metrics}
}

func (c *CachedSource) Sirens(ctx context.Context) ([]domain.SirenStation, error) {
	return cached(ctx, c, "sirens", &c.sirens, c.inner.Sirens)
}

func (c *CachedSource) Rain(ctx context.Context) ([]domain.RainStation, error) {
	return cached(ctx, c, "rain", &c.rain, c.inner.Rain)
}

func (c *CachedSource) CurrentWeather(ctx context.Context) (domain.CurrentForecast, error) {
	return cached(ctx, c, "forecast_current", &c.current, c.inner.CurrentWeather)
}

func (c *CachedSource) ExtendedForecast(ctx context.Context) (domain.ExtendedForecast, error) {
	return cached(ctx, c, "forecast_extended", &c.extended, c.inner.ExtendedForecast)
}

func (c *CachedSource) TrafficAlerts(ctx context.Context) ([]domain.TrafficAlert, error) {
	return cached(ctx, c, "traffic", &c.traffic, c.inner.TrafficAlerts)
}

func (c *CachedSource) Incidents(ctx context.Context) ([]domain.Incident, error) {
	return cached(ctx, c, "incidents", &c.incidents, c.inner.Incidents)
}

// snapshot is one cached feed result. The mutex also serializes refreshes so
// concurrent callers past the TTL trigger a single upstream fetch.
type snapshot[T any] struct {
	mu        sync.Mutex
	value     T
	fetchedAt time.Time
	ok        bool
}

func cached[T any](ctx context.Context, c *CachedSource, feed string, s *snapshot[T], fetch func(context.Context) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := domain.Now()
	if s.ok && now.Sub(s.fetchedAt) < c.ttl {
		c.metrics.FeedCache.WithLabelValues(feed, "hit").Inc()
		return s.value, nil
	}
	c.metrics.FeedCache.WithLabelValues(feed, "miss").Inc()

	value, err := fetch(ctx)
	if err != nil {
		if s.ok {
			return s.value, nil
		}
		var zero T
		return zero, err
	}
	s.value, s.fetchedAt, s.ok = value, now, true
	return value, nil
}
