package main

import (
	"context"
	"log/slog"
	"time"

	kafkaadapter "github.com/riowatch/citymonitor/internal/adapter/kafka"
	"github.com/riowatch/citymonitor/internal/domain"
	"github.com/riowatch/citymonitor/internal/hierarchy"
)

const publishInterval = 2 * time.Minute

// publishLoop periodically fetches the traffic feed, filters it through the
// road index and publishes the kept alerts. Errors are logged and the loop
// keeps going; the next tick retries.
func publishLoop(ctx context.Context, source domain.FeedSource, roads *hierarchy.Index, writer *kafkaadapter.Writer, logger *slog.Logger) {
	ticker := time.NewTicker(publishInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		alerts, err := source.TrafficAlerts(ctx)
		if err != nil {
			logger.Warn("publish loop: traffic fetch failed", "error", err)
			continue
		}
		filtered, meta := roads.FilterAlerts(alerts)
		if err := writer.PublishAlerts(ctx, filtered); err != nil {
			logger.Warn("publish loop: kafka publish failed", "error", err)
			continue
		}
		logger.Info("filtered alerts published",
			"original", meta.TotalOriginal, "published", meta.TotalFiltered)
	}
}
