package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/riowatch/citymonitor/internal/adapter/httpapi"
	kafkaadapter "github.com/riowatch/citymonitor/internal/adapter/kafka"
	"github.com/riowatch/citymonitor/internal/adapter/upstream"
	"github.com/riowatch/citymonitor/internal/assistant"
	"github.com/riowatch/citymonitor/internal/config"
	"github.com/riowatch/citymonitor/internal/hierarchy"
	"github.com/riowatch/citymonitor/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Build the road relevance index. A missing table is not fatal: the
	// gateway runs with an empty index and the traffic filter keeps nothing.
	var roads *hierarchy.Index
	tableText, err := upstream.LoadRoadTable(cfg.RoadTablePath)
	if err != nil {
		logger.Warn("road table unavailable, traffic filter will match nothing",
			"path", cfg.RoadTablePath, "error", err)
		roads = hierarchy.BuildIndex("")
	} else {
		roads = hierarchy.BuildIndex(tableText)
		counts := roads.TierCounts()
		logger.Info("road index built", "roads", roads.Len(),
			"estrutural", counts[hierarchy.TierStructural],
			"arterialPrimaria", counts[hierarchy.TierPrimaryArterial],
			"arterialSecundaria", counts[hierarchy.TierSecondaryArterial])
	}
	metrics.RoadIndexSize.Set(float64(roads.Len()))

	client := upstream.NewClient(upstream.Endpoints{
		SirensURL:          cfg.SirensURL,
		RainURL:            cfg.RainURL,
		ForecastURL:        cfg.ForecastURL,
		CurrentForecastURL: cfg.CurrentForecastURL,
		TrafficURL:         cfg.TrafficURL,
		IncidentsURL:       cfg.IncidentsURL,
		IncidentsUser:      cfg.IncidentsUser,
		IncidentsPassword:  cfg.IncidentsPassword,
	}, cfg.UpstreamTimeout, logger, metrics)
	source := upstream.NewCachedSource(client, cfg.CacheTTL, metrics)

	asst := assistant.New(source, roads, logger)

	// Optional Kafka publishing of filtered traffic alerts.
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		logger.Info("kafka alert publishing enabled", "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka alert publishing disabled")
	}

	ready := httpapi.ReadinessFunc(func(ctx context.Context) error {
		// Feeds are fetched lazily; readiness is config plus index state.
		return nil
	})

	srv := httpapi.NewServer(cfg.HTTPAddr, source, roads, asst, ready, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	if writer != nil {
		go publishLoop(ctx, source, roads, writer, logger)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
