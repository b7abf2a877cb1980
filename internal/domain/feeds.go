package domain

import "context"

// SirenStation is one station of the community siren network, decoded from
// the websirene XML feed.
type SirenStation struct {
	ID           string  `json:"id"`
	Name         string  `json:"nome"`
	Neighborhood string  `json:"bairro"`
	Lat          float64 `json:"latitude"`
	Lon          float64 `json:"longitude"`
	Online       bool    `json:"online"`
	Ringing      bool    `json:"tocando"`
	Status       string  `json:"status"`
	UpdatedAt    string  `json:"ultimaAtualizacao"`
}

// RainStation is one rain gauge with accumulated rainfall in millimeters
// over the rolling 15-minute, 1-hour and 24-hour windows.
type RainStation struct {
	Name   string  `json:"estacao"`
	Rain15 float64 `json:"chuva_15min"`
	Rain1H float64 `json:"chuva_1h"`
	Rain24 float64 `json:"chuva_24h"`
	Lat    float64 `json:"latitude,omitempty"`
	Lon    float64 `json:"longitude,omitempty"`
}

// ForecastDay is one day of the extended forecast document.
type ForecastDay struct {
	Date          string  `json:"data"`
	SkyCondition  string  `json:"ceu"`
	Precipitation string  `json:"precipitacao"`
	TempMin       float64 `json:"minTemp"`
	TempMax       float64 `json:"maxTemp"`
	WindDir       string  `json:"dirVento"`
	WindSpeed     string  `json:"velVento"`
}

// ExtendedForecast is the multi-day forecast document.
type ExtendedForecast struct {
	CreatedAt string        `json:"criadoEm"`
	Days      []ForecastDay `json:"previsoes"`
}

// DayPartForecast is a named day-part (manhã, tarde, noite) of the current
// forecast bulletin.
type DayPartForecast struct {
	Period        string `json:"periodo"`
	SkyCondition  string `json:"ceu"`
	Precipitation string `json:"precipitacao"`
}

// ZoneTemperature carries the forecast temperature range for one city zone.
type ZoneTemperature struct {
	Zone    string  `json:"zona"`
	TempMin float64 `json:"minTemp"`
	TempMax float64 `json:"maxTemp"`
}

// TideEntry is one row of the tide table in the current forecast bulletin.
type TideEntry struct {
	Time   string  `json:"hora"`
	Height float64 `json:"altura"`
}

// CurrentForecast is the short-term forecast bulletin with named day-parts,
// per-zone temperature ranges and the tide table.
type CurrentForecast struct {
	IssuedAt string            `json:"emitidoEm"`
	DayParts []DayPartForecast `json:"periodos"`
	Zones    []ZoneTemperature `json:"zonas"`
	Tides    []TideEntry       `json:"mares"`
}

// TrafficAlert is one Waze partner-feed alert. Street and Subtype are often
// empty in the live feed; consumers must not assume either is set.
type TrafficAlert struct {
	Street     string  `json:"street,omitempty"`
	RoadType   int     `json:"roadType,omitempty"`
	Type       string  `json:"type"`
	Subtype    string  `json:"subtype,omitempty"`
	City       string  `json:"city,omitempty"`
	Confidence int     `json:"confidence,omitempty"`
	Lat        float64 `json:"latitude,omitempty"`
	Lon        float64 `json:"longitude,omitempty"`
}

// Incident priorities, strongest last. These are the decoded labels of the
// upstream 1..4 priority enum.
const (
	PriorityLow      = "BAIXA"
	PriorityMedium   = "MÉDIA"
	PriorityHigh     = "ALTA"
	PriorityVeryHigh = "MUITO ALTA"
)

// Incident is one open record of the incident-management feed, with the
// coded incident type already translated to its display name.
type Incident struct {
	ID       string  `json:"id"`
	Type     string  `json:"incidente"`
	Priority string  `json:"prio"`
	Location string  `json:"location"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

// Critical reports whether the incident priority demands attention.
func (i Incident) Critical() bool {
	return i.Priority == PriorityHigh || i.Priority == PriorityVeryHigh
}

// RoadTypeName translates the Waze numeric road-type code to its Portuguese
// display name. Unknown codes fall back to "Via Local".
func RoadTypeName(code int) string {
	switch code {
	case 2:
		return "Via Secundária"
	case 3:
		return "Via Primária"
	case 4:
		return "Via Arterial"
	case 5:
		return "Via Coletora"
	case 6:
		return "Via Estrutural"
	case 7:
		return "Via Expressa"
	default:
		return "Via Local"
	}
}

// alertTypeNames translates the Waze type/subtype taxonomy to Portuguese.
var alertTypeNames = map[string]string{
	"ACCIDENT":                            "Acidente",
	"JAM":                                 "Congestionamento",
	"WEATHERHAZARD":                       "Condição Climática",
	"ROAD_CLOSED":                         "Via Fechada",
	"ROAD_CLOSED_HAZARD":                  "Via Fechada (Perigo)",
	"ROAD_CLOSED_CONSTRUCTION":            "Via Fechada (Obra)",
	"ROAD_CLOSED_EVENT":                   "Via Fechada (Evento)",
	"HAZARD":                              "Perigo na Via",
	"HAZARD_ON_ROAD":                      "Perigo na Pista",
	"HAZARD_ON_ROAD_POT_HOLE":             "Buraco na Via",
	"HAZARD_ON_ROAD_OBJECT":               "Objeto na Via",
	"HAZARD_ON_ROAD_ROAD_KILL":            "Animal Morto",
	"HAZARD_ON_ROAD_CAR_STOPPED":          "Veículo Parado",
	"HAZARD_ON_ROAD_TRAFFIC_LIGHT_FAULT":  "Semáforo com Defeito",
	"HAZARD_ON_ROAD_CONSTRUCTION":         "Obra na Via",
	"HAZARD_ON_ROAD_LANE_CLOSED":          "Faixa Fechada",
	"HAZARD_ON_SHOULDER":                  "Perigo no Acostamento",
	"HAZARD_ON_SHOULDER_CAR_STOPPED":      "Carro Parado no Acostamento",
	"HAZARD_WEATHER":                      "Condição Climática Adversa",
	"HAZARD_WEATHER_FOG":                  "Neblina",
	"HAZARD_WEATHER_HAIL":                 "Granizo",
	"HAZARD_WEATHER_HEAVY_RAIN":           "Chuva Forte",
	"HAZARD_WEATHER_FLOOD":                "Alagamento",
}

// AlertTypeName translates an alert's subtype (preferred) or type to its
// Portuguese display name, returning the raw code when untranslated.
func AlertTypeName(a TrafficAlert) string {
	code := a.Subtype
	if code == "" {
		code = a.Type
	}
	if code == "" {
		return "OUTROS"
	}
	if name, ok := alertTypeNames[code]; ok {
		return name
	}
	return code
}

// FeedSource provides the six upstream municipal feeds. Implementations are
// expected to honor context cancellation; callers inject their own timeout
// policy through the context. No retries happen behind this interface.
type FeedSource interface {
	Sirens(ctx context.Context) ([]SirenStation, error)
	Rain(ctx context.Context) ([]RainStation, error)
	CurrentWeather(ctx context.Context) (CurrentForecast, error)
	ExtendedForecast(ctx context.Context) (ExtendedForecast, error)
	TrafficAlerts(ctx context.Context) ([]TrafficAlert, error)
	Incidents(ctx context.Context) ([]Incident, error)
}
