package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocaleFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12,4", 12.4},
		{"12.4", 12.4},
		{" 7,0 ", 7.0},
		{"-22,9881", -22.9881},
		{"0", 0},
		{"", 0},
		// Parse failures default to zero so formatting code always gets a number.
		{"n/a", 0},
		{"12,4,5", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLocaleFloat(tt.in), tt.in)
	}
}

const sirenFixture = `<?xml version="1.0" encoding="UTF-8"?>
<estacoes hora="05/06/2025 14:30:00">
  <estacao id="1" nome="Rocinha 1">
    <localizacao bacia="Rocinha" latitude="-22,9881" longitude="-43,2465"/>
    <status online="True" status="ok"/>
  </estacao>
  <estacao id="2" nome="Vidigal 1">
    <localizacao bacia="Vidigal" latitude="-22,9930" longitude="-43,2338"/>
    <status online="False" status="ac"/>
  </estacao>
</estacoes>`

func TestDecodeSirenXML(t *testing.T) {
	stations, err := DecodeSirenXML([]byte(sirenFixture))
	require.NoError(t, err)
	require.Len(t, stations, 2)

	first := stations[0]
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "Rocinha 1", first.Name)
	assert.Equal(t, "Rocinha", first.Neighborhood)
	assert.InDelta(t, -22.9881, first.Lat, 1e-9)
	assert.True(t, first.Online)
	assert.False(t, first.Ringing)
	assert.Equal(t, "05/06/2025 14:30:00", first.UpdatedAt)

	second := stations[1]
	assert.False(t, second.Online)
	assert.True(t, second.Ringing, "status code ac means the siren is sounding")
}

func TestDecodeSirenXMLMalformed(t *testing.T) {
	_, err := DecodeSirenXML([]byte("not xml at all"))
	assert.Error(t, err)
}

func TestDecodeRainPayloadShapes(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		data := `[{"estacao": "Rocinha", "chuva_15min": "1,2", "chuva_1h": 4, "chuva_24h": 12.5}]`
		stations := DecodeRainPayload([]byte(data))
		require.Len(t, stations, 1)
		assert.Equal(t, "Rocinha", stations[0].Name)
		assert.Equal(t, 1.2, stations[0].Rain15)
		assert.Equal(t, 4.0, stations[0].Rain1H)
	})

	t.Run("geojson features with properties", func(t *testing.T) {
		data := `{"features": [{"type": "Feature", "properties": {"nome": "Tijuca", "precipitacao": "0,6"}}]}`
		stations := DecodeRainPayload([]byte(data))
		require.Len(t, stations, 1)
		assert.Equal(t, "Tijuca", stations[0].Name)
		assert.Equal(t, 0.6, stations[0].Rain15, "precipitacao backs chuva_15min when absent")
	})

	t.Run("wrapped data key", func(t *testing.T) {
		data := `{"data": [{"estacao": "Copacabana", "chuva_15min": 0}]}`
		stations := DecodeRainPayload([]byte(data))
		require.Len(t, stations, 1)
		assert.Equal(t, "Copacabana", stations[0].Name)
	})

	t.Run("unrecognized shape", func(t *testing.T) {
		assert.Nil(t, DecodeRainPayload([]byte(`{"unexpected": true}`)))
		assert.Nil(t, DecodeRainPayload([]byte(``)))
		assert.Nil(t, DecodeRainPayload([]byte(`"just a string"`)))
	})
}

func TestDecodeTrafficPayload(t *testing.T) {
	data := `{"alerts": [
		{"street": "Avenida Brasil", "roadType": 6, "type": "JAM", "subtype": "JAM_HEAVY_TRAFFIC",
		 "city": "Rio de Janeiro", "confidence": 4, "location": {"x": -43.29, "y": -22.87}}
	]}`

	alerts := DecodeTrafficPayload([]byte(data))
	require.Len(t, alerts, 1)

	a := alerts[0]
	assert.Equal(t, "Avenida Brasil", a.Street)
	assert.Equal(t, 6, a.RoadType)
	assert.Equal(t, "JAM", a.Type)
	assert.Equal(t, 4, a.Confidence)
	assert.InDelta(t, -22.87, a.Lat, 1e-9)
	assert.InDelta(t, -43.29, a.Lon, 1e-9)
}

func TestDecodeTrafficPayloadBareArray(t *testing.T) {
	alerts := DecodeTrafficPayload([]byte(`[{"type": "ACCIDENT"}]`))
	require.Len(t, alerts, 1)
	assert.Equal(t, "ACCIDENT", alerts[0].Type)
	assert.Empty(t, alerts[0].Street)
}

const extendedFixture = `<previsoesEstendidas Createdate="05/06/2025 10:00">
  <previsaoEstendida data="06/06/2025" ceu="Nublado" precipitacao="Chuva fraca" minTemp="20" maxTemp="25" dirVento="S" velVento="Moderado"/>
  <previsaoEstendida data="05/06/2025" ceu="Encoberto" precipitacao="Chuva moderada" minTemp="19" maxTemp="23" dirVento="SW" velVento="Forte"/>
</previsoesEstendidas>`

func TestDecodeExtendedForecastXML(t *testing.T) {
	forecast, err := DecodeExtendedForecastXML([]byte(extendedFixture))
	require.NoError(t, err)

	assert.Equal(t, "05/06/2025 10:00", forecast.CreatedAt)
	require.Len(t, forecast.Days, 2)
	assert.Equal(t, "06/06/2025", forecast.Days[0].Date, "document order is preserved")
	assert.Equal(t, 20.0, forecast.Days[0].TempMin)
	assert.Equal(t, "SW", forecast.Days[1].WindDir)
}

const currentFixture = `<previsao hora="05/06/2025 12:00">
  <periodo nome="Manhã" ceu="Nublado" precipitacao="Chuva fraca isolada"/>
  <zona nome="Zona Sul" minTemp="19" maxTemp="24"/>
  <mare hora="08:12" altura="1,1"/>
</previsao>`

func TestDecodeCurrentForecastXML(t *testing.T) {
	forecast, err := DecodeCurrentForecastXML([]byte(currentFixture))
	require.NoError(t, err)

	assert.Equal(t, "05/06/2025 12:00", forecast.IssuedAt)
	require.Len(t, forecast.DayParts, 1)
	assert.Equal(t, "Manhã", forecast.DayParts[0].Period)
	require.Len(t, forecast.Zones, 1)
	assert.Equal(t, 24.0, forecast.Zones[0].TempMax)
	require.Len(t, forecast.Tides, 1)
	assert.Equal(t, 1.1, forecast.Tides[0].Height)
}

func TestRoadTypeName(t *testing.T) {
	assert.Equal(t, "Via Estrutural", RoadTypeName(6))
	assert.Equal(t, "Via Expressa", RoadTypeName(7))
	assert.Equal(t, "Via Local", RoadTypeName(0))
	assert.Equal(t, "Via Local", RoadTypeName(99))
}

func TestAlertTypeName(t *testing.T) {
	assert.Equal(t, "Buraco na Via", AlertTypeName(TrafficAlert{Type: "HAZARD", Subtype: "HAZARD_ON_ROAD_POT_HOLE"}))
	assert.Equal(t, "Congestionamento", AlertTypeName(TrafficAlert{Type: "JAM"}))
	assert.Equal(t, "UNMAPPED_CODE", AlertTypeName(TrafficAlert{Type: "UNMAPPED_CODE"}))
	assert.Equal(t, "OUTROS", AlertTypeName(TrafficAlert{}))
}

func TestIncidentCritical(t *testing.T) {
	assert.True(t, Incident{Priority: PriorityHigh}.Critical())
	assert.True(t, Incident{Priority: PriorityVeryHigh}.Critical())
	assert.False(t, Incident{Priority: PriorityMedium}.Critical())
	assert.False(t, Incident{Priority: PriorityLow}.Critical())
}
