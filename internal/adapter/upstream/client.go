// Package upstream implements domain.FeedSource over the municipal HTTP
// endpoints, plus the TTL snapshot cache decorator used in front of it.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/riowatch/citymonitor/internal/domain"
	"github.com/riowatch/citymonitor/internal/observability"
)

// ErrNotConfigured is returned by feeds whose endpoint URL is unset.
var ErrNotConfigured = errors.New("feed not configured")

// Endpoints holds the upstream feed URLs and the incident API credentials.
type Endpoints struct {
	SirensURL          string
	RainURL            string
	ForecastURL        string
	CurrentForecastURL string
	TrafficURL         string

	IncidentsURL      string
	IncidentsUser     string
	IncidentsPassword string
}

// Client fetches the municipal feeds over HTTP.
type Client struct {
	endpoints  Endpoints
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an upstream feed client.
func NewClient(endpoints Endpoints, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		endpoints: endpoints,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// Sirens fetches and decodes the siren network XML export.
func (c *Client) Sirens(ctx context.Context) ([]domain.SirenStation, error) {
	body, err := c.fetch(ctx, "sirens", c.endpoints.SirensURL)
	if err != nil {
		return nil, err
	}
	return domain.DecodeSirenXML(body)
}

// Rain fetches and decodes the rainfall telemetry payload.
func (c *Client) Rain(ctx context.Context) ([]domain.RainStation, error) {
	body, err := c.fetch(ctx, "rain", c.endpoints.RainURL)
	if err != nil {
		return nil, err
	}
	stations := domain.DecodeRainPayload(body)
	if stations == nil {
		return nil, errors.New("rain feed: unrecognized payload shape")
	}
	return stations, nil
}

// CurrentWeather fetches the short-term forecast bulletin.
func (c *Client) CurrentWeather(ctx context.Context) (domain.CurrentForecast, error) {
	body, err := c.fetch(ctx, "forecast_current", c.endpoints.CurrentForecastURL)
	if err != nil {
		return domain.CurrentForecast{}, err
	}
	return domain.DecodeCurrentForecastXML(body)
}

// ExtendedForecast fetches the multi-day forecast document.
func (c *Client) ExtendedForecast(ctx context.Context) (domain.ExtendedForecast, error) {
	body, err := c.fetch(ctx, "forecast_extended", c.endpoints.ForecastURL)
	if err != nil {
		return domain.ExtendedForecast{}, err
	}
	return domain.DecodeExtendedForecastXML(body)
}

// TrafficAlerts fetches and decodes the Waze partner feed.
func (c *Client) TrafficAlerts(ctx context.Context) ([]domain.TrafficAlert, error) {
	body, err := c.fetch(ctx, "traffic", c.endpoints.TrafficURL)
	if err != nil {
		return nil, err
	}
	alerts := domain.DecodeTrafficPayload(body)
	if alerts == nil {
		return nil, errors.New("traffic feed: unrecognized payload shape")
	}
	return alerts, nil
}

// fetch GETs a feed URL and returns the body, recording request metrics.
func (c *Client) fetch(ctx context.Context, feed, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%s: %w", feed, ErrNotConfigured)
	}

	start := time.Now()
	body, err := c.get(ctx, url)
	c.metrics.FeedDuration.WithLabelValues(feed).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FeedRequests.WithLabelValues(feed, "error").Inc()
		return nil, fmt.Errorf("%s feed: %w", feed, err)
	}
	c.metrics.FeedRequests.WithLabelValues(feed, "success").Inc()
	return body, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
