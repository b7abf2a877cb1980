package assistant

import (
	"fmt"
	"sort"
	"strings"

	"github.com/riowatch/citymonitor/internal/domain"
	"github.com/riowatch/citymonitor/internal/textnorm"
)

// Fixed "data unavailable" strings. Per-feed degradation is the only error
// recovery at this layer: a missing or malformed payload produces one of
// these, never a panic or an error return.
const (
	msgSirensUnavailable    = "Dados das sirenes indisponíveis no momento."
	msgWeatherUnavailable   = "Previsão do tempo temporariamente indisponível."
	msgRainUnavailable      = "Dados pluviométricos indisponíveis no momento."
	msgTrafficUnavailable   = "Dados de trânsito indisponíveis no momento."
	msgIncidentsUnavailable = "Dados de ocorrências indisponíveis no momento."
)

// Display bounds per category. These are presentation contracts callers can
// rely on for output size, not cosmetic choices.
const (
	maxSirensListed    = 15
	maxRainListed      = 10
	maxRoadsListed     = 10
	maxAlertTypeListed = 5
	maxIncidentsListed = 5
	maxForecastDays    = 5
)

// truncationSuffix appends the "... e mais N" line when a list was cut at
// the display bound.
func truncationSuffix(b *strings.Builder, total, listed int) {
	if total > listed {
		fmt.Fprintf(b, "... e mais %d\n", total-listed)
	}
}

// SynthesizeSirens formats a siren report for the given intent sub-kind.
func SynthesizeSirens(intent Intent, stations []domain.SirenStation) string {
	if len(stations) == 0 {
		return msgSirensUnavailable
	}

	var ringing, online, offline []domain.SirenStation
	for _, s := range stations {
		if s.Ringing {
			ringing = append(ringing, s)
		}
		if s.Online {
			online = append(online, s)
		} else {
			offline = append(offline, s)
		}
	}

	switch intent.Kind {
	case KindSirensOffline:
		return sirenList("SIRENES OFFLINE", offline, "Nenhuma sirene offline no momento.")
	case KindSirensActive:
		return sirenList("SIRENES ACIONADAS", ringing, "Nenhuma sirene acionada no momento.")
	case KindSirensLocation:
		return sirensByLocation(intent.Parameter, stations)
	default:
		return sirensStatus(stations, ringing, online, offline)
	}
}

func sirensStatus(all, ringing, online, offline []domain.SirenStation) string {
	var b strings.Builder
	b.WriteString("STATUS DAS SIRENES\n\n")
	fmt.Fprintf(&b, "Acionadas: %d\n", len(ringing))
	fmt.Fprintf(&b, "Online: %d\n", len(online))
	fmt.Fprintf(&b, "Offline: %d\n", len(offline))
	fmt.Fprintf(&b, "Total: %d sirenes\n", len(all))
	fmt.Fprintf(&b, "Disponibilidade: %s\n", percent(len(online), len(all)))
	if updated := all[0].UpdatedAt; updated != "" {
		fmt.Fprintf(&b, "Última atualização: %s\n", updated)
	}
	b.WriteString("\n")
	if len(ringing) > 0 {
		b.WriteString("ATENÇÃO: há sirenes acionadas no momento!")
	} else {
		b.WriteString("Sistema operando normalmente.")
	}
	return b.String()
}

func sirenList(header string, stations []domain.SirenStation, emptyMsg string) string {
	if len(stations) == 0 {
		return emptyMsg
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d)\n\n", header, len(stations))
	listed := stations
	if len(listed) > maxSirensListed {
		listed = listed[:maxSirensListed]
	}
	for _, s := range listed {
		neighborhood := s.Neighborhood
		if neighborhood == "" {
			neighborhood = "N/D"
		}
		fmt.Fprintf(&b, "- %s - %s\n", s.Name, neighborhood)
	}
	truncationSuffix(&b, len(stations), len(listed))
	return strings.TrimRight(b.String(), "\n")
}

func sirensByLocation(location string, stations []domain.SirenStation) string {
	wanted := textnorm.Fold(location)
	var matched []domain.SirenStation
	for _, s := range stations {
		if strings.Contains(textnorm.Fold(s.Name), wanted) ||
			strings.Contains(textnorm.Fold(s.Neighborhood), wanted) {
			matched = append(matched, s)
		}
	}
	if len(matched) == 0 {
		return fmt.Sprintf("Nenhuma sirene encontrada para %q.", location)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SIRENES EM %s (%d)\n\n", strings.ToUpper(location), len(matched))
	listed := matched
	if len(listed) > maxSirensListed {
		listed = listed[:maxSirensListed]
	}
	for _, s := range listed {
		state := "offline"
		switch {
		case s.Ringing:
			state = "ACIONADA"
		case s.Online:
			state = "online"
		}
		fmt.Fprintf(&b, "- %s - %s (%s)\n", s.Name, s.Neighborhood, state)
	}
	truncationSuffix(&b, len(matched), len(listed))
	return strings.TrimRight(b.String(), "\n")
}

// SynthesizeRain formats a rainfall report. The window depends on the
// intent sub-kind: 15 minutes by default, 1 hour or 24 hours when asked.
func SynthesizeRain(intent Intent, stations []domain.RainStation) string {
	if len(stations) == 0 {
		return msgRainUnavailable
	}

	window := "15 min"
	value := func(s domain.RainStation) float64 { return s.Rain15 }
	switch intent.Kind {
	case KindRain1H:
		window, value = "1h", func(s domain.RainStation) float64 { return s.Rain1H }
	case KindRain24H, KindRainTop:
		window, value = "24h", func(s domain.RainStation) float64 { return s.Rain24 }
	}

	raining := make([]domain.RainStation, 0, len(stations))
	heavy, moderate := 0, 0
	for _, s := range stations {
		v := value(s)
		if v <= 0 {
			continue
		}
		raining = append(raining, s)
		switch {
		case v >= 10:
			heavy++
		case v >= 5:
			moderate++
		}
	}

	if len(raining) == 0 {
		return fmt.Sprintf("Sem registro de chuva nas últimas %s em nenhuma das %d estações.", window, len(stations))
	}

	// Descending by the window value; ties keep upstream order.
	sort.SliceStable(raining, func(i, j int) bool {
		return value(raining[i]) > value(raining[j])
	})

	var b strings.Builder
	fmt.Fprintf(&b, "SITUAÇÃO DAS CHUVAS (%s)\n\n", window)
	fmt.Fprintf(&b, "Estações monitorando: %d\n", len(stations))
	fmt.Fprintf(&b, "Com precipitação: %d\n", len(raining))
	fmt.Fprintf(&b, "Chuva forte (>=10mm): %d\n", heavy)
	fmt.Fprintf(&b, "Chuva moderada (5-10mm): %d\n\n", moderate)

	listed := raining
	if len(listed) > maxRainListed {
		listed = listed[:maxRainListed]
	}
	b.WriteString("Estações com maior acumulado:\n")
	for _, s := range listed {
		fmt.Fprintf(&b, "- %s: %.1fmm\n", s.Name, value(s))
	}
	truncationSuffix(&b, len(raining), len(listed))
	return strings.TrimRight(b.String(), "\n")
}

// SynthesizeWeather formats a forecast report. The current bulletin backs
// the "now"/day-part kinds; the extended document backs the rest.
func SynthesizeWeather(intent Intent, current domain.CurrentForecast, extended domain.ExtendedForecast) string {
	switch intent.Kind {
	case KindWeatherNow, KindWeatherDayPart:
		return currentWeather(intent, current)
	case KindWeatherTomorrow:
		return tomorrowWeather(extended)
	case KindWeatherExtended:
		return extendedWeather(extended)
	default:
		return generalWeather(extended)
	}
}

func tomorrowWeather(extended domain.ExtendedForecast) string {
	// Mirrors generalWeather's indexing: nearest day last, "amanhã" before it.
	if len(extended.Days) < 2 {
		return generalWeather(extended)
	}
	tomorrow := extended.Days[len(extended.Days)-2]

	var b strings.Builder
	b.WriteString("PREVISÃO PARA AMANHÃ\n\n")
	writeForecastDay(&b, tomorrow, "Amanhã")
	if extended.CreatedAt != "" {
		fmt.Fprintf(&b, "\nAtualizado: %s", extended.CreatedAt)
	}
	return strings.TrimRight(b.String(), "\n")
}

func currentWeather(intent Intent, current domain.CurrentForecast) string {
	if len(current.DayParts) == 0 {
		return msgWeatherUnavailable
	}

	parts := current.DayParts
	if intent.Kind == KindWeatherDayPart && intent.Parameter != "" {
		wanted := textnorm.Fold(intent.Parameter)
		for _, p := range parts {
			if strings.Contains(textnorm.Fold(p.Period), wanted) {
				parts = []domain.DayPartForecast{p}
				break
			}
		}
	}

	var b strings.Builder
	b.WriteString("PREVISÃO PARA O RIO DE JANEIRO\n\n")
	for _, p := range parts {
		fmt.Fprintf(&b, "%s: %s, %s\n", p.Period, p.SkyCondition, p.Precipitation)
	}
	if len(current.Zones) > 0 {
		b.WriteString("\nTemperaturas por zona:\n")
		for _, z := range current.Zones {
			fmt.Fprintf(&b, "- %s: %.0f°C - %.0f°C\n", z.Zone, z.TempMin, z.TempMax)
		}
	}
	if len(current.Tides) > 0 {
		b.WriteString("\nTábua de marés:\n")
		for _, t := range current.Tides {
			fmt.Fprintf(&b, "- %s: %.1fm\n", t.Time, t.Height)
		}
	}
	if current.IssuedAt != "" {
		fmt.Fprintf(&b, "\nEmitido: %s", current.IssuedAt)
	}
	return strings.TrimRight(b.String(), "\n")
}

func generalWeather(extended domain.ExtendedForecast) string {
	if len(extended.Days) == 0 {
		return msgWeatherUnavailable
	}

	// The export lists days with today last; "amanhã" precedes it.
	today := extended.Days[len(extended.Days)-1]

	var b strings.Builder
	b.WriteString("PREVISÃO DO TEMPO - RIO DE JANEIRO\n\n")
	writeForecastDay(&b, today, "Hoje")
	if len(extended.Days) > 1 {
		tomorrow := extended.Days[len(extended.Days)-2]
		b.WriteString("\n")
		writeForecastDay(&b, tomorrow, "Amanhã")
	}
	if extended.CreatedAt != "" {
		fmt.Fprintf(&b, "\nAtualizado: %s", extended.CreatedAt)
	}
	return strings.TrimRight(b.String(), "\n")
}

func extendedWeather(extended domain.ExtendedForecast) string {
	if len(extended.Days) == 0 {
		return msgWeatherUnavailable
	}

	var b strings.Builder
	b.WriteString("PREVISÃO ESTENDIDA - RIO DE JANEIRO\n\n")
	days := extended.Days
	if len(days) > maxForecastDays {
		days = days[len(days)-maxForecastDays:]
	}
	// Walk backwards: the export puts the nearest day last.
	for i := len(days) - 1; i >= 0; i-- {
		writeForecastDay(&b, days[i], days[i].Date)
		b.WriteString("\n")
	}
	if extended.CreatedAt != "" {
		fmt.Fprintf(&b, "Atualizado: %s", extended.CreatedAt)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeForecastDay(b *strings.Builder, day domain.ForecastDay, label string) {
	if label == "" {
		label = day.Date
	}
	fmt.Fprintf(b, "%s (%s)\n", label, day.Date)
	fmt.Fprintf(b, "Temperatura: %.0f°C - %.0f°C\n", day.TempMin, day.TempMax)
	fmt.Fprintf(b, "Céu: %s\n", day.SkyCondition)
	fmt.Fprintf(b, "Precipitação: %s\n", day.Precipitation)
	if day.WindDir != "" {
		fmt.Fprintf(b, "Vento: %s (%s)\n", day.WindDir, day.WindSpeed)
	}
}

// roadSummary aggregates alerts per named road for the traffic report.
type roadSummary struct {
	road     string
	city     string
	roadType int
	count    int
	gravity  int
	problems map[string]int
}

// SynthesizeTraffic formats a traffic analysis for the given intent
// sub-kind from an already-filtered alert list.
func SynthesizeTraffic(intent Intent, alerts []domain.TrafficAlert) string {
	if alerts == nil {
		return msgTrafficUnavailable
	}
	if len(alerts) == 0 {
		return "SITUAÇÃO DO TRÂNSITO\n\nNenhum alerta de trânsito no momento. Trânsito fluindo normalmente."
	}

	switch intent.Kind {
	case KindTrafficAccidents:
		return trafficAccidents(alerts)
	case KindTrafficClosures:
		return trafficClosures(alerts)
	default:
		return trafficStatus(alerts)
	}
}

func isAccident(a domain.TrafficAlert) bool {
	return strings.Contains(a.Type, "ACCIDENT") || strings.Contains(a.Subtype, "ACCIDENT")
}

func isClosure(a domain.TrafficAlert) bool {
	return strings.Contains(a.Type, "ROAD_CLOSED") || strings.Contains(a.Subtype, "ROAD_CLOSED") ||
		strings.Contains(a.Subtype, "LANE_CLOSED")
}

func trafficStatus(alerts []domain.TrafficAlert) string {
	byRoad := make(map[string]*roadSummary)
	var roadOrder []string
	typeCounts := make(map[string]int)
	var typeOrder []string
	accidents := 0

	for _, a := range alerts {
		typeName := domain.AlertTypeName(a)
		if typeCounts[typeName] == 0 {
			typeOrder = append(typeOrder, typeName)
		}
		typeCounts[typeName]++
		if isAccident(a) {
			accidents++
		}
		if a.Street == "" {
			continue
		}

		key := a.Street + "|" + a.City
		summary, ok := byRoad[key]
		if !ok {
			summary = &roadSummary{road: a.Street, city: a.City, roadType: a.RoadType, problems: make(map[string]int)}
			byRoad[key] = summary
			roadOrder = append(roadOrder, key)
		}
		summary.count++
		summary.gravity++
		summary.problems[typeName]++
		if isAccident(a) {
			summary.gravity += 10
		}
		if a.Type == "JAM" {
			summary.gravity += 5
		}
		if isClosure(a) {
			summary.gravity += 7
		}
	}

	roads := make([]*roadSummary, 0, len(roadOrder))
	for _, key := range roadOrder {
		roads = append(roads, byRoad[key])
	}
	sort.SliceStable(roads, func(i, j int) bool {
		if roads[i].gravity != roads[j].gravity {
			return roads[i].gravity > roads[j].gravity
		}
		return roads[i].count > roads[j].count
	})

	var b strings.Builder
	b.WriteString("ANÁLISE DE TRÂNSITO - RIO DE JANEIRO\n\n")
	fmt.Fprintf(&b, "Total de alertas ativos: %d\n", len(alerts))
	fmt.Fprintf(&b, "Acidentes reportados: %d\n", accidents)
	fmt.Fprintf(&b, "Vias com problemas: %d\n\n", len(roads))

	level, advice := trafficLevel(len(alerts), accidents)
	fmt.Fprintf(&b, "Nível de criticidade: %s\n%s\n\n", level, advice)

	listed := roads
	if len(listed) > maxRoadsListed {
		listed = listed[:maxRoadsListed]
	}
	b.WriteString("Principais vias afetadas:\n")
	for i, r := range listed {
		fmt.Fprintf(&b, "%d. %s (%s) - %d alerta(s)\n", i+1, r.road, domain.RoadTypeName(r.roadType), r.count)
		for _, problem := range sortedProblemNames(r.problems) {
			fmt.Fprintf(&b, "   %dx %s\n", r.problems[problem], problem)
		}
	}
	truncationSuffix(&b, len(roads), len(listed))

	b.WriteString("\nTipos de incidente mais comuns:\n")
	sort.SliceStable(typeOrder, func(i, j int) bool {
		return typeCounts[typeOrder[i]] > typeCounts[typeOrder[j]]
	})
	listedTypes := typeOrder
	if len(listedTypes) > maxAlertTypeListed {
		listedTypes = listedTypes[:maxAlertTypeListed]
	}
	for i, name := range listedTypes {
		fmt.Fprintf(&b, "%d. %s: %dx (%s)\n", i+1, name, typeCounts[name], percent(typeCounts[name], len(alerts)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func sortedProblemNames(problems map[string]int) []string {
	names := make([]string, 0, len(problems))
	for name := range problems {
		names = append(names, name)
	}
	sort.Strings(names)
	sort.SliceStable(names, func(i, j int) bool {
		return problems[names[i]] > problems[names[j]]
	})
	if len(names) > 3 {
		names = names[:3]
	}
	return names
}

func trafficLevel(totalAlerts, accidents int) (string, string) {
	switch {
	case totalAlerts > 80 || accidents > 3:
		return "CRÍTICO", "Evite deslocamentos não essenciais."
	case totalAlerts > 50 || accidents > 1:
		return "ALTO", "Planeje rotas alternativas."
	case totalAlerts > 30:
		return "MODERADO", "Atenção em pontos específicos."
	default:
		return "NORMAL", "Trânsito dentro da normalidade."
	}
}

func trafficAccidents(alerts []domain.TrafficAlert) string {
	return trafficSubset("ACIDENTES REPORTADOS", alerts, isAccident, "Nenhum acidente reportado no momento.")
}

func trafficClosures(alerts []domain.TrafficAlert) string {
	return trafficSubset("VIAS FECHADAS OU INTERDITADAS", alerts, isClosure, "Nenhuma interdição reportada no momento.")
}

func trafficSubset(header string, alerts []domain.TrafficAlert, keep func(domain.TrafficAlert) bool, emptyMsg string) string {
	var matched []domain.TrafficAlert
	for _, a := range alerts {
		if keep(a) {
			matched = append(matched, a)
		}
	}
	if len(matched) == 0 {
		return emptyMsg
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d)\n\n", header, len(matched))
	listed := matched
	if len(listed) > maxRoadsListed {
		listed = listed[:maxRoadsListed]
	}
	for i, a := range listed {
		street := a.Street
		if street == "" {
			street = "Via não identificada"
		}
		city := a.City
		if city == "" {
			city = "Rio de Janeiro"
		}
		fmt.Fprintf(&b, "%d. %s (%s) - %s\n", i+1, street, city, domain.AlertTypeName(a))
	}
	truncationSuffix(&b, len(matched), len(listed))
	return strings.TrimRight(b.String(), "\n")
}

// SynthesizeIncidents formats the incident-management report.
func SynthesizeIncidents(intent Intent, incidents []domain.Incident) string {
	if incidents == nil {
		return msgIncidentsUnavailable
	}
	if len(incidents) == 0 {
		return "OCORRÊNCIAS ATIVAS\n\nNenhuma ocorrência ativa no momento."
	}

	var critical []domain.Incident
	typeCounts := make(map[string]int)
	var typeOrder []string
	for _, inc := range incidents {
		if inc.Critical() {
			critical = append(critical, inc)
		}
		if typeCounts[inc.Type] == 0 {
			typeOrder = append(typeOrder, inc.Type)
		}
		typeCounts[inc.Type]++
	}

	if intent.Kind == KindIncidentsCritical {
		if len(critical) == 0 {
			return "Nenhuma ocorrência crítica no momento."
		}
		var b strings.Builder
		fmt.Fprintf(&b, "OCORRÊNCIAS CRÍTICAS (%d)\n\n", len(critical))
		listed := critical
		if len(listed) > maxIncidentsListed {
			listed = listed[:maxIncidentsListed]
		}
		for _, inc := range listed {
			fmt.Fprintf(&b, "- [%s] %s - %s\n", inc.Priority, inc.Type, inc.Location)
		}
		truncationSuffix(&b, len(critical), len(listed))
		return strings.TrimRight(b.String(), "\n")
	}

	var b strings.Builder
	b.WriteString("OCORRÊNCIAS ATIVAS\n\n")
	fmt.Fprintf(&b, "Total ativo: %d\n", len(incidents))
	fmt.Fprintf(&b, "Críticas: %d\n\n", len(critical))

	sort.SliceStable(typeOrder, func(i, j int) bool {
		return typeCounts[typeOrder[i]] > typeCounts[typeOrder[j]]
	})
	listedTypes := typeOrder
	if len(listedTypes) > maxIncidentsListed {
		listedTypes = listedTypes[:maxIncidentsListed]
	}
	b.WriteString("Tipos mais frequentes:\n")
	for _, name := range listedTypes {
		fmt.Fprintf(&b, "- %dx %s\n", typeCounts[name], name)
	}
	if len(critical) > 0 {
		fmt.Fprintf(&b, "\nATENÇÃO: %d ocorrência(s) crítica(s)!", len(critical))
	} else {
		b.WriteString("\nSem ocorrências críticas no momento.")
	}
	return strings.TrimRight(b.String(), "\n")
}

// percent formats n/total as a percentage with one decimal, guarding the
// zero-total case.
func percent(n, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
}
