package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upstream municipal feed endpoints.
	SirensURL          string
	RainURL            string
	ForecastURL        string
	CurrentForecastURL string
	TrafficURL         string
	IncidentsURL       string
	IncidentsUser      string
	IncidentsPassword  string

	UpstreamTimeout time.Duration
	CacheTTL        time.Duration

	// Road hierarchy table used by the traffic relevance filter.
	RoadTablePath string

	// Optional Kafka publishing of filtered traffic alerts.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	upstreamTimeout, err := parseDuration("UPSTREAM_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("CACHE_TTL", "60s")
	if err != nil {
		return nil, err
	}

	kafkaBrokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(kafkaBrokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		SirensURL:          envOrDefault("SIRENS_URL", "http://websirene.rio.rj.gov.br/xml/websirene.xml"),
		RainURL:            envOrDefault("RAIN_URL", "https://websempre.rio.rj.gov.br/json/chuvas"),
		ForecastURL:        envOrDefault("FORECAST_URL", "http://alertario.rio.rj.gov.br/upload/xml/previsoes.xml"),
		CurrentForecastURL: envOrDefault("CURRENT_FORECAST_URL", "http://alertario.rio.rj.gov.br/upload/xml/previsao.xml"),
		TrafficURL:         os.Getenv("TRAFFIC_URL"),
		IncidentsURL:       os.Getenv("INCIDENTS_URL"),
		IncidentsUser:      os.Getenv("INCIDENTS_USER"),
		IncidentsPassword:  os.Getenv("INCIDENTS_PASSWORD"),

		UpstreamTimeout: upstreamTimeout,
		CacheTTL:        cacheTTL,

		RoadTablePath: envOrDefault("ROAD_TABLE_PATH", "data/hierarquia_viaria.txt"),

		KafkaBrokers: kafkaBrokers,
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "filtered-traffic-alerts"),
		KafkaEnabled: kafkaEnabled,
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.IncidentsURL != "" && (cfg.IncidentsUser == "" || cfg.IncidentsPassword == "") {
		return nil, errors.New("INCIDENTS_URL requires INCIDENTS_USER and INCIDENTS_PASSWORD")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
