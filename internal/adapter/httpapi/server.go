// Package httpapi exposes the gateway's REST surface: the feed passthrough
// routes, the filtered traffic route, the chat endpoint and the operational
// endpoints (health, readiness, metrics).
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/riowatch/citymonitor/internal/assistant"
	"github.com/riowatch/citymonitor/internal/domain"
	"github.com/riowatch/citymonitor/internal/hierarchy"
	"github.com/riowatch/citymonitor/internal/observability"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// ReadinessFunc adapts a function to the ReadinessChecker interface.
type ReadinessFunc func(ctx context.Context) error

func (f ReadinessFunc) CheckReadiness(ctx context.Context) error { return f(ctx) }

// Server exposes the gateway HTTP API.
type Server struct {
	httpServer *http.Server
	source     domain.FeedSource
	roads      *hierarchy.Index
	assistant  *assistant.Assistant
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates the HTTP server with all API and operational routes.
func NewServer(addr string, source domain.FeedSource, roads *hierarchy.Index, asst *assistant.Assistant, ready ReadinessChecker, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		source:    source,
		roads:     roads,
		assistant: asst,
		logger:    logger,
		metrics:   metrics,
	}

	mux.HandleFunc("GET /api/sirenes", s.handleSirens)
	mux.HandleFunc("GET /api/chuvas", s.handleRain)
	mux.HandleFunc("GET /api/previsao", s.handleExtendedForecast)
	mux.HandleFunc("GET /api/previsao-corrente", s.handleCurrentForecast)
	mux.HandleFunc("GET /api/transito", s.handleTraffic)
	mux.HandleFunc("GET /api/transito/filtrado", s.handleFilteredTraffic)
	mux.HandleFunc("GET /api/ocorrencias", s.handleIncidents)
	mux.HandleFunc("POST /api/chat", s.handleChat)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleSirens(w http.ResponseWriter, r *http.Request) {
	stations, err := s.source.Sirens(r.Context())
	if err != nil {
		s.feedError(w, "sirens", err)
		return
	}
	writeJSON(w, http.StatusOK, stations)
}

func (s *Server) handleRain(w http.ResponseWriter, r *http.Request) {
	stations, err := s.source.Rain(r.Context())
	if err != nil {
		s.feedError(w, "rain", err)
		return
	}
	writeJSON(w, http.StatusOK, stations)
}

func (s *Server) handleExtendedForecast(w http.ResponseWriter, r *http.Request) {
	forecast, err := s.source.ExtendedForecast(r.Context())
	if err != nil {
		s.feedError(w, "forecast_extended", err)
		return
	}
	writeJSON(w, http.StatusOK, forecast)
}

func (s *Server) handleCurrentForecast(w http.ResponseWriter, r *http.Request) {
	forecast, err := s.source.CurrentWeather(r.Context())
	if err != nil {
		s.feedError(w, "forecast_current", err)
		return
	}
	writeJSON(w, http.StatusOK, forecast)
}

func (s *Server) handleTraffic(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.source.TrafficAlerts(r.Context())
	if err != nil {
		s.feedError(w, "traffic", err)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

// filteredTrafficResponse pairs the relevance-filtered alerts with the
// filter pass metadata.
type filteredTrafficResponse struct {
	Alerts []domain.TrafficAlert `json:"alerts"`
	Meta   hierarchy.FilterMeta  `json:"meta"`
}

func (s *Server) handleFilteredTraffic(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.source.TrafficAlerts(r.Context())
	if err != nil {
		s.feedError(w, "traffic", err)
		return
	}

	filtered, meta := s.roads.FilterAlerts(alerts)
	s.metrics.AlertsSeen.Add(float64(meta.TotalOriginal))
	s.metrics.AlertsKept.Add(float64(meta.TotalFiltered))
	writeJSON(w, http.StatusOK, filteredTrafficResponse{Alerts: filtered, Meta: meta})
}

func (s *Server) handleIncidents(w http.ResponseWriter, r *http.Request) {
	incidents, err := s.source.Incidents(r.Context())
	if err != nil {
		s.feedError(w, "incidents", err)
		return
	}
	writeJSON(w, http.StatusOK, incidents)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Intent   assistant.Intent `json:"intent"`
	Response string           `json:"response"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}

	intent, answer := s.assistant.Respond(r.Context(), req.Message)
	s.metrics.ChatIntents.WithLabelValues(string(intent.Kind)).Inc()
	s.logger.Info("chat answered",
		slog.String("kind", string(intent.Kind)),
		slog.Int("messageLen", len(req.Message)),
	)
	writeJSON(w, http.StatusOK, chatResponse{Intent: intent, Response: answer})
}

// feedError maps an upstream failure to a 502. The chat endpoint degrades
// instead; the raw API routes surface the failure to their callers.
func (s *Server) feedError(w http.ResponseWriter, feed string, err error) {
	s.logger.Error("feed fetch failed", slog.String("feed", feed), slog.String("error", err.Error()))
	writeJSON(w, http.StatusBadGateway, map[string]string{
		"error": "upstream feed unavailable",
		"feed":  feed,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
