package domain

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// ParseLocaleFloat parses a number that may arrive locale-formatted with a
// decimal comma ("12,4"). Parse failures yield 0, never an error: downstream
// formatting code always receives a number.
func ParseLocaleFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// coerceFloat extracts a float from a decoded JSON value that may be a
// number, a locale-formatted string, or absent.
func coerceFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case string:
		return ParseLocaleFloat(x)
	default:
		return 0
	}
}

func coerceString(v any) string {
	s, _ := v.(string)
	return s
}

func coerceInt(v any) int {
	switch x := v.(type) {
	case float64:
		return int(x)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// unwrapArray extracts an array-like JSON field that is known to arrive in
// two shapes across upstream mirrors: a bare array, or an object wrapping
// the array under one of the given keys. Anything else fails soft to nil.
func unwrapArray(data []byte, keys ...string) []json.RawMessage {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 {
		return nil
	}

	if data[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil
		}
		return items
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil
	}
	for _, key := range keys {
		inner, ok := wrapper[key]
		if !ok {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(inner, &items); err != nil {
			continue
		}
		return items
	}
	return nil
}

// Siren XML feed types (websirene export).

type sirenXMLDoc struct {
	XMLName xml.Name         `xml:"estacoes"`
	Time    string           `xml:"hora,attr"`
	Items   []sirenXMLRecord `xml:"estacao"`
}

type sirenXMLRecord struct {
	ID       string `xml:"id,attr"`
	Name     string `xml:"nome,attr"`
	Location struct {
		Basin string `xml:"bacia,attr"`
		Lat   string `xml:"latitude,attr"`
		Lon   string `xml:"longitude,attr"`
	} `xml:"localizacao"`
	Status struct {
		Online string `xml:"online,attr"`
		Code   string `xml:"status,attr"`
	} `xml:"status"`
}

// DecodeSirenXML decodes the siren network XML export into station records.
// The feed encodes booleans as "True"/"False" strings and the ringing state
// as status code "ac".
func DecodeSirenXML(data []byte) ([]SirenStation, error) {
	var doc sirenXMLDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode siren feed: %w", err)
	}

	stations := make([]SirenStation, 0, len(doc.Items))
	for _, item := range doc.Items {
		stations = append(stations, SirenStation{
			ID:           item.ID,
			Name:         item.Name,
			Neighborhood: item.Location.Basin,
			Lat:          ParseLocaleFloat(item.Location.Lat),
			Lon:          ParseLocaleFloat(item.Location.Lon),
			Online:       strings.EqualFold(item.Status.Online, "true"),
			Ringing:      item.Status.Code == "ac",
			Status:       item.Status.Code,
			UpdatedAt:    doc.Time,
		})
	}
	return stations, nil
}

// DecodeRainPayload decodes the rainfall telemetry payload. The feed is
// served either as a bare array of station objects or as a GeoJSON-style
// document with a "features" array whose entries nest the station under
// "properties". Field names and number formatting also vary across mirrors,
// so values are coerced rather than strictly typed.
func DecodeRainPayload(data []byte) []RainStation {
	items := unwrapArray(data, "features", "data", "estacoes")
	if items == nil {
		return nil
	}

	stations := make([]RainStation, 0, len(items))
	for _, item := range items {
		var obj map[string]any
		if err := json.Unmarshal(item, &obj); err != nil {
			continue
		}
		if props, ok := obj["properties"].(map[string]any); ok {
			obj = props
		}

		name := coerceString(obj["estacao"])
		if name == "" {
			name = coerceString(obj["nome"])
		}
		rain15 := coerceFloat(obj["chuva_15min"])
		if _, ok := obj["chuva_15min"]; !ok {
			rain15 = coerceFloat(obj["precipitacao"])
		}

		stations = append(stations, RainStation{
			Name:   name,
			Rain15: rain15,
			Rain1H: coerceFloat(obj["chuva_1h"]),
			Rain24: coerceFloat(obj["chuva_24h"]),
			Lat:    coerceFloat(obj["latitude"]),
			Lon:    coerceFloat(obj["longitude"]),
		})
	}
	return stations
}

// DecodeTrafficPayload decodes the Waze partner feed: either a bare array
// of alerts or an object wrapping them under "alerts".
func DecodeTrafficPayload(data []byte) []TrafficAlert {
	items := unwrapArray(data, "alerts")
	if items == nil {
		return nil
	}

	alerts := make([]TrafficAlert, 0, len(items))
	for _, item := range items {
		var obj map[string]any
		if err := json.Unmarshal(item, &obj); err != nil {
			continue
		}

		alert := TrafficAlert{
			Street:     coerceString(obj["street"]),
			RoadType:   coerceInt(obj["roadType"]),
			Type:       coerceString(obj["type"]),
			Subtype:    coerceString(obj["subtype"]),
			City:       coerceString(obj["city"]),
			Confidence: coerceInt(obj["confidence"]),
		}
		if loc, ok := obj["location"].(map[string]any); ok {
			alert.Lat = coerceFloat(loc["y"])
			alert.Lon = coerceFloat(loc["x"])
		}
		alerts = append(alerts, alert)
	}
	return alerts
}

// Extended forecast XML types (PrevisaoEstendida export).

type extendedForecastXMLDoc struct {
	XMLName   xml.Name                  `xml:"previsoesEstendidas"`
	CreatedAt string                    `xml:"Createdate,attr"`
	Days      []extendedForecastXMLItem `xml:"previsaoEstendida"`
}

type extendedForecastXMLItem struct {
	Date          string `xml:"data,attr"`
	Sky           string `xml:"ceu,attr"`
	Precipitation string `xml:"precipitacao,attr"`
	TempMin       string `xml:"minTemp,attr"`
	TempMax       string `xml:"maxTemp,attr"`
	WindDir       string `xml:"dirVento,attr"`
	WindSpeed     string `xml:"velVento,attr"`
}

// DecodeExtendedForecastXML decodes the multi-day forecast document. Days
// appear in the export ordered oldest-last; the order is preserved.
func DecodeExtendedForecastXML(data []byte) (ExtendedForecast, error) {
	var doc extendedForecastXMLDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return ExtendedForecast{}, fmt.Errorf("decode extended forecast: %w", err)
	}

	forecast := ExtendedForecast{CreatedAt: doc.CreatedAt}
	for _, day := range doc.Days {
		forecast.Days = append(forecast.Days, ForecastDay{
			Date:          day.Date,
			SkyCondition:  day.Sky,
			Precipitation: day.Precipitation,
			TempMin:       ParseLocaleFloat(day.TempMin),
			TempMax:       ParseLocaleFloat(day.TempMax),
			WindDir:       day.WindDir,
			WindSpeed:     day.WindSpeed,
		})
	}
	return forecast, nil
}

// Current forecast XML types (PrevisaoNew export).

type currentForecastXMLDoc struct {
	XMLName  xml.Name `xml:"previsao"`
	IssuedAt string   `xml:"hora,attr"`
	DayParts []struct {
		Name          string `xml:"nome,attr"`
		Sky           string `xml:"ceu,attr"`
		Precipitation string `xml:"precipitacao,attr"`
	} `xml:"periodo"`
	Zones []struct {
		Name    string `xml:"nome,attr"`
		TempMin string `xml:"minTemp,attr"`
		TempMax string `xml:"maxTemp,attr"`
	} `xml:"zona"`
	Tides []struct {
		Time   string `xml:"hora,attr"`
		Height string `xml:"altura,attr"`
	} `xml:"mare"`
}

// DecodeCurrentForecastXML decodes the short-term forecast bulletin with its
// named day-parts, per-zone temperature ranges and tide table.
func DecodeCurrentForecastXML(data []byte) (CurrentForecast, error) {
	var doc currentForecastXMLDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return CurrentForecast{}, fmt.Errorf("decode current forecast: %w", err)
	}

	forecast := CurrentForecast{IssuedAt: doc.IssuedAt}
	for _, p := range doc.DayParts {
		forecast.DayParts = append(forecast.DayParts, DayPartForecast{
			Period:        p.Name,
			SkyCondition:  p.Sky,
			Precipitation: p.Precipitation,
		})
	}
	for _, z := range doc.Zones {
		forecast.Zones = append(forecast.Zones, ZoneTemperature{
			Zone:    z.Name,
			TempMin: ParseLocaleFloat(z.TempMin),
			TempMax: ParseLocaleFloat(z.TempMax),
		})
	}
	for _, tide := range doc.Tides {
		forecast.Tides = append(forecast.Tides, TideEntry{
			Time:   tide.Time,
			Height: ParseLocaleFloat(tide.Height),
		})
	}
	return forecast, nil
}
