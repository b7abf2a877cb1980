package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/riowatch/citymonitor/internal/domain"
	"github.com/riowatch/citymonitor/internal/hierarchy"
)

const helpText = `ASSISTENTE DE MONITORAMENTO - RIO DE JANEIRO

Posso responder perguntas sobre:

Sirenes: "status das sirenes", "sirenes offline", "sirenes na rocinha"
Previsão: "previsão do tempo", "vai chover amanhã?", "previsão da semana"
Chuvas: "está chovendo?", "chuva nas últimas 24h", "onde choveu mais?"
Trânsito: "como está o trânsito?", "acidentes agora", "vias interditadas"
Ocorrências: "ocorrências ativas", "ocorrências críticas"

Ou peça um "resumo geral" para a visão completa da cidade.`

// Assistant answers free-text questions from the live municipal feeds. It
// is safe for concurrent use; all state is read-only after construction.
type Assistant struct {
	source domain.FeedSource
	roads  *hierarchy.Index
	logger *slog.Logger
}

// New builds an Assistant over the given feed source. Traffic answers are
// filtered through the road index before synthesis.
func New(source domain.FeedSource, roads *hierarchy.Index, logger *slog.Logger) *Assistant {
	return &Assistant{source: source, roads: roads, logger: logger}
}

// Respond classifies the utterance and synthesizes the answer, returning
// both. Feed failures degrade to the category's fixed unavailable message;
// Respond itself never fails.
func (a *Assistant) Respond(ctx context.Context, utterance string) (Intent, string) {
	intent := Classify(utterance)

	var answer string
	switch intent.Category() {
	case "sirens":
		answer = SynthesizeSirens(intent, a.sirens(ctx))
	case "weather":
		answer = a.weather(ctx, intent)
	case "rain":
		answer = SynthesizeRain(intent, a.rain(ctx))
	case "traffic":
		answer = SynthesizeTraffic(intent, a.traffic(ctx))
	case "incidents":
		answer = SynthesizeIncidents(intent, a.incidents(ctx))
	case "help":
		answer = helpText
	default:
		answer = a.Overview(ctx)
	}
	return intent, answer
}

func (a *Assistant) sirens(ctx context.Context) []domain.SirenStation {
	stations, err := a.source.Sirens(ctx)
	if err != nil {
		a.logger.Warn("siren feed unavailable", slog.String("error", err.Error()))
		return nil
	}
	return stations
}

func (a *Assistant) rain(ctx context.Context) []domain.RainStation {
	stations, err := a.source.Rain(ctx)
	if err != nil {
		a.logger.Warn("rain feed unavailable", slog.String("error", err.Error()))
		return nil
	}
	return stations
}

func (a *Assistant) traffic(ctx context.Context) []domain.TrafficAlert {
	alerts, err := a.source.TrafficAlerts(ctx)
	if err != nil {
		a.logger.Warn("traffic feed unavailable", slog.String("error", err.Error()))
		return nil
	}
	filtered, meta := a.roads.FilterAlerts(alerts)
	a.logger.Debug("traffic alerts filtered",
		slog.Int("original", meta.TotalOriginal),
		slog.Int("filtered", meta.TotalFiltered),
	)
	return filtered
}

func (a *Assistant) incidents(ctx context.Context) []domain.Incident {
	incidents, err := a.source.Incidents(ctx)
	if err != nil {
		a.logger.Warn("incident feed unavailable", slog.String("error", err.Error()))
		return nil
	}
	return incidents
}

// weather fetches only the bulletin the sub-kind needs. Both documents come
// from the same upstream, but the current bulletin changes more often.
func (a *Assistant) weather(ctx context.Context, intent Intent) string {
	var current domain.CurrentForecast
	var extended domain.ExtendedForecast
	var err error

	switch intent.Kind {
	case KindWeatherNow, KindWeatherDayPart:
		current, err = a.source.CurrentWeather(ctx)
	default:
		extended, err = a.source.ExtendedForecast(ctx)
	}
	if err != nil {
		a.logger.Warn("forecast feed unavailable", slog.String("error", err.Error()))
		return msgWeatherUnavailable
	}
	return SynthesizeWeather(intent, current, extended)
}

// Overview fetches the four headline feeds concurrently and composes their
// summaries in fixed order. A failed fetch degrades that section to its
// unavailable message without touching the others; the answer always has
// all four sections.
func (a *Assistant) Overview(ctx context.Context) string {
	var (
		sirens   []domain.SirenStation
		extended domain.ExtendedForecast
		rain     []domain.RainStation
		traffic  []domain.TrafficAlert

		sirensErr, extendedErr, rainErr, trafficErr error
	)

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		sirens, sirensErr = a.source.Sirens(ctx)
	}()
	go func() {
		defer wg.Done()
		extended, extendedErr = a.source.ExtendedForecast(ctx)
	}()
	go func() {
		defer wg.Done()
		rain, rainErr = a.source.Rain(ctx)
	}()
	go func() {
		defer wg.Done()
		traffic, trafficErr = a.source.TrafficAlerts(ctx)
	}()
	wg.Wait()

	for feed, err := range map[string]error{
		"sirens": sirensErr, "forecast": extendedErr, "rain": rainErr, "traffic": trafficErr,
	} {
		if err != nil {
			a.logger.Warn("overview feed unavailable",
				slog.String("feed", feed), slog.String("error", err.Error()))
		}
	}

	sirensBlock := msgSirensUnavailable
	if sirensErr == nil {
		sirensBlock = SynthesizeSirens(Intent{Kind: KindSirensStatus}, sirens)
	}
	weatherBlock := msgWeatherUnavailable
	if extendedErr == nil {
		weatherBlock = SynthesizeWeather(Intent{Kind: KindWeatherGeneral}, domain.CurrentForecast{}, extended)
	}
	rainBlock := msgRainUnavailable
	if rainErr == nil {
		rainBlock = SynthesizeRain(Intent{Kind: KindRainNow}, rain)
	}
	trafficBlock := msgTrafficUnavailable
	if trafficErr == nil {
		filtered, _ := a.roads.FilterAlerts(traffic)
		trafficBlock = SynthesizeTraffic(Intent{Kind: KindTrafficStatus}, filtered)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "RESUMO GERAL - RIO DE JANEIRO\n%s\n", domain.Now().Format("02/01/2006 15:04"))
	for _, block := range []string{sirensBlock, weatherBlock, rainBlock, trafficBlock} {
		b.WriteString("\n---\n\n")
		b.WriteString(block)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
