package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/riowatch/citymonitor/internal/domain"
)

// incidentTypeNames translates the incident-management POP codes to display
// names, per the municipal operating-procedure catalog.
var incidentTypeNames = map[string]string{
	"POP01": "ACIDENTE SEM VITIMA",
	"POP02": "ACIDENTE COM VITIMA",
	"POP03": "ACIDENTE COM OBITO",
	"POP04": "INCENDIO EM VEICULO",
	"POP05": "BOLSAO DE AGUA EM VIA",
	"POP06": "MANIFESTACAO EM LOCAL PUBLICO",
	"POP07": "INCENDIO EM IMOVEL",
	"POP08": "SINAIS DE TRANSITO COM MAU FUNCIONAMENTO",
	"POP09": "REINTEGRACAO DE POSSE",
	"POP10": "QUEDA DE ARVORE",
	"POP11": "QUEDA DE POSTE",
	"POP12": "ACIDENTE COM QUEDA DE CARGA",
	"POP13": "INCENDIO NO ENTORNO DE VIAS PUBLICAS",
	"POP14": "INCENDIO DENTRO DE TUNEIS",
	"POP15": "VAZAMENTO DE AGUA E ESGOTO",
	"POP16": "FALTA CRITICA DE ENERGIA OU APAGAO",
	"POP17": "IMPLOSAO",
	"POP18": "ESCAPAMENTO DE GAS",
	"POP19": "EVENTO NAO PROGRAMADO",
	"POP20": "ATROPELAMENTO",
	"POP21": "AFUNDAMENTO DE PISTA OU BURACO NA VIA",
	"POP22": "ABALROAMENTO",
	"POP23": "OBRA/MANUTENÇÃO EM LOCAL PUBLICO",
	"POP24": "OPERACAO POLICIAL",
	"POP25": "ACIONAMENTO DE SIRENES",
	"POP26": "ALAGAMENTO",
	"POP27": "ENCHENTE OU INUNDACAO",
	"POP28": "LAMINA DE AGUA",
	"POP29": "ACIDENTE AMBIENTAL",
	"POP30": "INCIDENTE COM BUEIRO",
	"POP31": "QUEDA DE ARVORE SOBRE FIACAO",
	"POP32": "RESIDUOS NA VIA",
	"POP33": "INCENDIO EM VEGETACAO",
	"POP34": "DESLIZAMENTO",
	"POP35": "QUEDA DE ESTRUTURA DE ALVENARIA",
	"POP36": "RESGATE OU REMOCAO DE ANIMAIS TERRESTRES E AEREOS",
	"POP37": "REMOCAO DE ANIMAIS MORTOS NA AREIA",
	"POP38": "RESGATE DE ANIMAL MARINHO PRESO EM REDE OU ENCALHADO",
	"POP39": "ANIMAL EM LOCAL PUBLICO",
	"POP40": "QUEDA DE CARGA VIVA DE GRANDE PORTE",
	"POP41": "QUEDA DE CARGA VIVA DE PEQUENO PORTE",
	"POP42": "PROTOCOLO DE VIA",
	"POP43": "PROTOCOLO DE CICLOVIA",
	"POP44": "ENGUICO NA VIA",
	"POP45": "PROTOCOLO DE CALOR - NC2",
	"POP46": "PROTOCOLO DE CALOR - NC3",
	"POP47": "PROTOCOLO DE CALOR - NC4",
	"POP48": "PROTOCOLO DE CALOR - NC5",
	"POP49": "PROTOCOLO DE PARQUES",
	"POP50": "OCORRENCIA EM PARQUE AEROPORTUARIO",
	"POP51": "INTERRUPÇÃO PARCIAL OU TOTAL DE MODAL DE TRANSPORTE",
	"POP52": "FIAÇÃO PARTIDA/ARREADA",
	"POP53": "RESSACA/MARÉ ALTA",
}

func incidentTypeName(code string) string {
	if name, ok := incidentTypeNames[code]; ok {
		return name
	}
	return "OUTROS"
}

func priorityName(p int) string {
	switch p {
	case 2:
		return domain.PriorityMedium
	case 3:
		return domain.PriorityHigh
	case 4:
		return domain.PriorityVeryHigh
	default:
		return domain.PriorityLow
	}
}

// Incident API wire types. The upstream authenticates per request and
// returns open events against the issued access token.

type incidentLoginRequest struct {
	UserName string `json:"UserName"`
	Password string `json:"Password"`
}

type incidentLoginResponse struct {
	AccessToken string `json:"AccessToken"`
}

type incidentEventsRequest struct {
	Token string `json:"token"`
}

type incidentEvent struct {
	EventID             json.Number `json:"EventId"`
	AgencyEventTypeCode string      `json:"AgencyEventTypeCode"`
	Priority            int         `json:"Priority"`
	Location            string      `json:"Location"`
	Latitude            float64     `json:"Latitude"`
	Longitude           float64     `json:"Longitude"`
}

// Incidents authenticates against the incident-management API, fetches the
// open events and translates type codes and priorities to display labels.
// Events without coordinates are dropped.
func (c *Client) Incidents(ctx context.Context) ([]domain.Incident, error) {
	if c.endpoints.IncidentsURL == "" {
		return nil, fmt.Errorf("incidents: %w", ErrNotConfigured)
	}

	start := time.Now()
	incidents, err := c.fetchIncidents(ctx)
	c.metrics.FeedDuration.WithLabelValues("incidents").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FeedRequests.WithLabelValues("incidents", "error").Inc()
		return nil, fmt.Errorf("incident feed: %w", err)
	}
	c.metrics.FeedRequests.WithLabelValues("incidents", "success").Inc()
	return incidents, nil
}

func (c *Client) fetchIncidents(ctx context.Context) ([]domain.Incident, error) {
	token, err := c.incidentLogin(ctx)
	if err != nil {
		return nil, err
	}

	var events []incidentEvent
	err = c.postJSON(ctx, c.endpoints.IncidentsURL+"/Events/OpenedEvents",
		incidentEventsRequest{Token: token}, &events)
	if err != nil {
		return nil, err
	}

	incidents := make([]domain.Incident, 0, len(events))
	for _, ev := range events {
		if ev.Latitude == 0 && ev.Longitude == 0 {
			continue
		}
		location := ev.Location
		if location == "" {
			location = "Sem descrição"
		}
		incidents = append(incidents, domain.Incident{
			ID:       ev.EventID.String(),
			Type:     incidentTypeName(ev.AgencyEventTypeCode),
			Priority: priorityName(ev.Priority),
			Location: location,
			Lat:      ev.Latitude,
			Lon:      ev.Longitude,
		})
	}
	return incidents, nil
}

func (c *Client) incidentLogin(ctx context.Context) (string, error) {
	var login incidentLoginResponse
	err := c.postJSON(ctx, c.endpoints.IncidentsURL+"/Events/Login",
		incidentLoginRequest{UserName: c.endpoints.IncidentsUser, Password: c.endpoints.IncidentsPassword},
		&login)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if login.AccessToken == "" {
		return "", errors.New("login: no access token in response")
	}
	return login.AccessToken, nil
}

func (c *Client) postJSON(ctx context.Context, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
