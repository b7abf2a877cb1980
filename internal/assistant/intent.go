// Package assistant classifies free-text questions about the city's
// operational status and synthesizes natural-language reports from the
// municipal feeds.
package assistant

import (
	"regexp"
	"strings"

	"github.com/riowatch/citymonitor/internal/textnorm"
)

// Kind identifies one intent of the assistant's fixed taxonomy.
type Kind string

const (
	KindSirensStatus   Kind = "sirens_status"
	KindSirensOffline  Kind = "sirens_offline"
	KindSirensActive   Kind = "sirens_active"
	KindSirensLocation Kind = "sirens_location"

	KindWeatherNow      Kind = "weather_now"
	KindWeatherDayPart  Kind = "weather_daypart"
	KindWeatherTomorrow Kind = "weather_tomorrow"
	KindWeatherExtended Kind = "weather_extended"
	KindWeatherGeneral  Kind = "weather_general"

	KindRainNow Kind = "rain_now"
	KindRain1H  Kind = "rain_1h"
	KindRain24H Kind = "rain_24h"
	KindRainTop Kind = "rain_top"

	KindTrafficStatus    Kind = "traffic_status"
	KindTrafficAccidents Kind = "traffic_accidents"
	KindTrafficClosures  Kind = "traffic_closures"

	KindIncidentsStatus   Kind = "incidents_status"
	KindIncidentsCritical Kind = "incidents_critical"

	KindHelp     Kind = "help"
	KindOverview Kind = "overview"
)

// Intent is the classified purpose of an utterance. Parameter carries the
// single optional argument of kinds that take one (the location substring
// for sirens_location, the day-part for weather_daypart).
type Intent struct {
	Kind      Kind   `json:"kind"`
	Parameter string `json:"parameter,omitempty"`
}

// Category returns the feed category a kind belongs to ("sirens",
// "weather", "rain", "traffic", "incidents", "help" or "overview").
func (i Intent) Category() string {
	s := string(i.Kind)
	if idx := strings.IndexByte(s, '_'); idx > 0 {
		return s[:idx]
	}
	return s
}

// Category keyword sets, matched against folded (lowercased,
// accent-stripped) text.
var (
	sirensCatRe    = regexp.MustCompile(`sirene|alarme|acionad`)
	weatherCatRe   = regexp.MustCompile(`previsao|tempo\b|clima|vai chover|chuva hoje|temperatura|calor|frio`)
	rainCatRe      = regexp.MustCompile(`chuva|chove|chovendo|precipitacao|pluviometr`)
	trafficCatRe   = regexp.MustCompile(`transito|trafego|engarrafamento|congestionamento|waze|acidente|interditad|vias? fechad`)
	incidentsCatRe = regexp.MustCompile(`ocorrencia|emergencia|chamado|incidente|defesa civil`)
	helpCatRe      = regexp.MustCompile(`ajuda|help|comandos|como usar|o que voce (pode|faz)`)
	overviewCatRe  = regexp.MustCompile(`resumo|situacao|panorama|geral|tudo`)
)

// Sub-pattern expressions.
var (
	sirensOfflineRe = regexp.MustCompile(`offline|fora do ar|inoperante|desligad|sem comunicacao`)
	sirensActiveRe  = regexp.MustCompile(`tocando|acionad|disparad|soando|alerta`)

	// sirensLocationRe captures the run of letters and spaces following a
	// locative preposition ("sirenes na rocinha" -> "rocinha").
	sirensLocationRe = regexp.MustCompile(`(?:^|\s)(?:na|no|em|da|do)\s+([a-z][a-z ]+)`)

	weatherNowRe      = regexp.MustCompile(`agora|neste momento|corrente`)
	weatherDayPartRe  = regexp.MustCompile(`\b(manha|tarde|noite|madrugada)\b`)
	weatherTomorrowRe = regexp.MustCompile(`amanha`)
	weatherExtendedRe = regexp.MustCompile(`semana|proximos dias|estendida|fim de semana`)

	rain1HRe  = regexp.MustCompile(`ultima hora|1 hora|uma hora|\b1h\b`)
	rain24HRe = regexp.MustCompile(`24 horas|\b24h\b|ultimo dia`)
	rainTopRe = regexp.MustCompile(`ranking|top|maiores|onde (mais )?(chove|choveu)`)

	trafficAccidentsRe = regexp.MustCompile(`acidente|batida|colisao|atropelamento`)
	trafficClosuresRe  = regexp.MustCompile(`fechad|interditad|bloquead|\bobra`)

	incidentsCriticalRe = regexp.MustCompile(`critic|grave|urgente|prioridade alta`)
)

// classifierRule pairs a predicate with an intent builder. Rules are
// evaluated top to bottom and the first match wins, which makes the
// priority order auditable: a message containing both "sirene" and
// "offline" classifies as sirens_offline, never sirens_status.
type classifierRule struct {
	matches func(text string) bool
	build   func(text string) Intent
}

func fixed(kind Kind) func(string) Intent {
	return func(string) Intent { return Intent{Kind: kind} }
}

func both(category, sub *regexp.Regexp) func(string) bool {
	return func(text string) bool {
		return category.MatchString(text) && sub.MatchString(text)
	}
}

func category(re *regexp.Regexp) func(string) bool {
	return re.MatchString
}

var rules = []classifierRule{
	// Sirens: offline before active before location before generic status.
	{both(sirensCatRe, sirensOfflineRe), fixed(KindSirensOffline)},
	{both(sirensCatRe, sirensActiveRe), fixed(KindSirensActive)},
	{
		func(text string) bool {
			return sirensCatRe.MatchString(text) && extractLocation(text) != ""
		},
		func(text string) Intent {
			return Intent{Kind: KindSirensLocation, Parameter: extractLocation(text)}
		},
	},
	{category(sirensCatRe), fixed(KindSirensStatus)},

	// Weather before rain: "vai chover" is a forecast question, not a
	// gauge-reading one.
	{both(weatherCatRe, weatherNowRe), fixed(KindWeatherNow)},
	{
		both(weatherCatRe, weatherDayPartRe),
		func(text string) Intent {
			return Intent{Kind: KindWeatherDayPart, Parameter: weatherDayPartRe.FindString(text)}
		},
	},
	{both(weatherCatRe, weatherTomorrowRe), fixed(KindWeatherTomorrow)},
	{both(weatherCatRe, weatherExtendedRe), fixed(KindWeatherExtended)},
	{category(weatherCatRe), fixed(KindWeatherGeneral)},

	{both(rainCatRe, rain1HRe), fixed(KindRain1H)},
	{both(rainCatRe, rain24HRe), fixed(KindRain24H)},
	{both(rainCatRe, rainTopRe), fixed(KindRainTop)},
	{category(rainCatRe), fixed(KindRainNow)},

	{both(trafficCatRe, trafficAccidentsRe), fixed(KindTrafficAccidents)},
	{both(trafficCatRe, trafficClosuresRe), fixed(KindTrafficClosures)},
	{category(trafficCatRe), fixed(KindTrafficStatus)},

	{both(incidentsCatRe, incidentsCriticalRe), fixed(KindIncidentsCritical)},
	{category(incidentsCatRe), fixed(KindIncidentsStatus)},

	{category(helpCatRe), fixed(KindHelp)},
	{category(overviewCatRe), fixed(KindOverview)},
}

// Classify resolves an utterance to an intent. It never fails: input that
// matches no rule resolves to the overview intent, identical to an explicit
// "give me the full picture" request. That conflation keeps the assistant
// always helpful instead of erroring on input it cannot parse.
func Classify(utterance string) Intent {
	text := textnorm.Fold(utterance)
	for _, rule := range rules {
		if rule.matches(text) {
			return rule.build(text)
		}
	}
	return Intent{Kind: KindOverview}
}

// extractLocation pulls the location substring after a locative preposition.
// Captures shorter than 3 characters after trimming are discarded so that
// stray prepositions don't produce junk locations; classification then
// falls through to the generic status rule.
func extractLocation(text string) string {
	m := sirensLocationRe.FindStringSubmatch(text)
	if len(m) != 2 {
		return ""
	}
	loc := strings.TrimSpace(m[1])
	if len(loc) < 3 {
		return ""
	}
	return loc
}
