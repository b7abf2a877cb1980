package upstream

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riowatch/citymonitor/internal/observability"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(endpoints Endpoints) *Client {
	return NewClient(endpoints, 0, testLogger(), observability.NewMetricsForTesting())
}

func TestSirens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		io.WriteString(w, `<estacoes hora="05/06/2025 14:30:00">
			<estacao id="1" nome="Rocinha 1">
				<localizacao bacia="Rocinha" latitude="-22,9881" longitude="-43,2465"/>
				<status online="True" status="ok"/>
			</estacao>
		</estacoes>`)
	}))
	defer srv.Close()

	client := newTestClient(Endpoints{SirensURL: srv.URL})
	stations, err := client.Sirens(context.Background())
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, "Rocinha 1", stations[0].Name)
	assert.True(t, stations[0].Online)
}

func TestSirensUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(Endpoints{SirensURL: srv.URL})
	_, err := client.Sirens(context.Background())
	assert.ErrorContains(t, err, "status 500")
}

func TestRain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"features": [{"properties": {"estacao": "Tijuca", "chuva_15min": "2,4"}}]}`)
	}))
	defer srv.Close()

	client := newTestClient(Endpoints{RainURL: srv.URL})
	stations, err := client.Rain(context.Background())
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, 2.4, stations[0].Rain15)
}

func TestRainUnrecognizedShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"unexpected": true}`)
	}))
	defer srv.Close()

	client := newTestClient(Endpoints{RainURL: srv.URL})
	_, err := client.Rain(context.Background())
	assert.ErrorContains(t, err, "unrecognized payload shape")
}

func TestTrafficAlerts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"alerts": [{"street": "Avenida Brasil", "type": "JAM", "roadType": 6}]}`)
	}))
	defer srv.Close()

	client := newTestClient(Endpoints{TrafficURL: srv.URL})
	alerts, err := client.TrafficAlerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Avenida Brasil", alerts[0].Street)
}

func TestTrafficNotConfigured(t *testing.T) {
	client := newTestClient(Endpoints{})
	_, err := client.TrafficAlerts(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestIncidents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Events/Login":
			var req incidentLoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "user", req.UserName)
			assert.Equal(t, "secret", req.Password)
			json.NewEncoder(w).Encode(incidentLoginResponse{AccessToken: "tok-123"})
		case "/Events/OpenedEvents":
			var req incidentEventsRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "tok-123", req.Token)
			io.WriteString(w, `[
				{"EventId": 101, "AgencyEventTypeCode": "POP26", "Priority": 4, "Location": "Praça da Bandeira", "Latitude": -22.91, "Longitude": -43.21},
				{"EventId": 102, "AgencyEventTypeCode": "POP10", "Priority": 1, "Location": "Sem coordenadas"}
			]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := newTestClient(Endpoints{
		IncidentsURL:      srv.URL,
		IncidentsUser:     "user",
		IncidentsPassword: "secret",
	})

	incidents, err := client.Incidents(context.Background())
	require.NoError(t, err)
	require.Len(t, incidents, 1, "events without coordinates are dropped")

	inc := incidents[0]
	assert.Equal(t, "101", inc.ID)
	assert.Equal(t, "ALAGAMENTO", inc.Type)
	assert.Equal(t, "MUITO ALTA", inc.Priority)
	assert.Equal(t, "Praça da Bandeira", inc.Location)
}

func TestIncidentsLoginFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(incidentLoginResponse{})
	}))
	defer srv.Close()

	client := newTestClient(Endpoints{
		IncidentsURL: srv.URL, IncidentsUser: "user", IncidentsPassword: "secret",
	})
	_, err := client.Incidents(context.Background())
	assert.ErrorContains(t, err, "no access token")
}

func TestIncidentTypeName(t *testing.T) {
	assert.Equal(t, "QUEDA DE ARVORE", incidentTypeName("POP10"))
	assert.Equal(t, "RESSACA/MARÉ ALTA", incidentTypeName("POP53"))
	assert.Equal(t, "OUTROS", incidentTypeName("POP99"))
	assert.Equal(t, "OUTROS", incidentTypeName(""))
}

func TestPriorityName(t *testing.T) {
	assert.Equal(t, "BAIXA", priorityName(1))
	assert.Equal(t, "MÉDIA", priorityName(2))
	assert.Equal(t, "ALTA", priorityName(3))
	assert.Equal(t, "MUITO ALTA", priorityName(4))
	assert.Equal(t, "BAIXA", priorityName(0))
}

func TestLoadRoadTable(t *testing.T) {
	path := t.TempDir() + "/table.txt"
	require.NoError(t, os.WriteFile(path, []byte(`1;"Avenida Brasil";Estrutural`), 0o644))

	text, err := LoadRoadTable(path)
	require.NoError(t, err)
	assert.Contains(t, text, "Avenida Brasil")

	_, err = LoadRoadTable(t.TempDir() + "/missing.txt")
	assert.Error(t, err)
}
