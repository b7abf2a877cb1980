// Command mockfeeds serves static municipal feed fixtures over HTTP so the
// gateway can run locally without reaching the real endpoints.
//
// Usage:
//
//	go run ./cmd/mockfeeds -addr :9090
//
// Then point the gateway at it:
//
//	SIRENS_URL=http://localhost:9090/sirens \
//	RAIN_URL=http://localhost:9090/rain \
//	FORECAST_URL=http://localhost:9090/forecast \
//	CURRENT_FORECAST_URL=http://localhost:9090/forecast-current \
//	TRAFFIC_URL=http://localhost:9090/traffic \
//	go run ./cmd/gateway
package main

import (
	"flag"
	"log"
	"net/http"
)

const sirensXML = `<?xml version="1.0" encoding="UTF-8"?>
<estacoes hora="05/06/2025 14:30:00">
  <estacao id="1" nome="Rocinha 1">
    <localizacao bacia="Rocinha" latitude="-22,9881" longitude="-43,2465"/>
    <status online="True" status="ok"/>
  </estacao>
  <estacao id="2" nome="Vidigal 1">
    <localizacao bacia="Vidigal" latitude="-22,9930" longitude="-43,2338"/>
    <status online="True" status="ac"/>
  </estacao>
  <estacao id="3" nome="Alemao 2">
    <localizacao bacia="Complexo do Alemão" latitude="-22,8625" longitude="-43,2741"/>
    <status online="False" status="off"/>
  </estacao>
</estacoes>`

const rainJSON = `{"features": [
  {"properties": {"estacao": "Rocinha", "chuva_15min": "1,2", "chuva_1h": 4.0, "chuva_24h": 12.5}},
  {"properties": {"estacao": "Tijuca", "chuva_15min": 0, "chuva_1h": 0, "chuva_24h": "3,4"}},
  {"properties": {"nome": "Copacabana", "precipitacao": 0.2, "chuva_1h": 0.8, "chuva_24h": 2.0}}
]}`

const forecastXML = `<?xml version="1.0" encoding="UTF-8"?>
<previsoesEstendidas Createdate="05/06/2025 10:00">
  <previsaoEstendida data="08/06/2025" ceu="Claro" precipitacao="Sem chuva" minTemp="18" maxTemp="28" dirVento="SE" velVento="Fraco"/>
  <previsaoEstendida data="07/06/2025" ceu="Parcialmente nublado" precipitacao="Chuva isolada" minTemp="19" maxTemp="27" dirVento="S" velVento="Moderado"/>
  <previsaoEstendida data="06/06/2025" ceu="Nublado" precipitacao="Chuva fraca" minTemp="20" maxTemp="25" dirVento="S" velVento="Moderado"/>
  <previsaoEstendida data="05/06/2025" ceu="Encoberto" precipitacao="Chuva moderada" minTemp="19" maxTemp="23" dirVento="SW" velVento="Forte"/>
</previsoesEstendidas>`

const currentForecastXML = `<?xml version="1.0" encoding="UTF-8"?>
<previsao hora="05/06/2025 12:00">
  <periodo nome="Manhã" ceu="Nublado" precipitacao="Chuva fraca isolada"/>
  <periodo nome="Tarde" ceu="Encoberto" precipitacao="Chuva moderada"/>
  <periodo nome="Noite" ceu="Nublado" precipitacao="Sem chuva"/>
  <zona nome="Zona Sul" minTemp="19" maxTemp="24"/>
  <zona nome="Zona Norte" minTemp="20" maxTemp="26"/>
  <mare hora="08:12" altura="1,1"/>
  <mare hora="14:47" altura="0,3"/>
</previsao>`

const trafficJSON = `{"alerts": [
  {"street": "Avenida Brasil", "roadType": 6, "type": "JAM", "subtype": "JAM_HEAVY_TRAFFIC", "city": "Rio de Janeiro", "confidence": 4, "location": {"x": -43.29, "y": -22.87}},
  {"street": "Avenida das Américas", "roadType": 3, "type": "ACCIDENT", "subtype": "ACCIDENT_MAJOR", "city": "Rio de Janeiro", "confidence": 5, "location": {"x": -43.36, "y": -23.00}},
  {"street": "Rua do Catete", "roadType": 1, "type": "HAZARD", "subtype": "HAZARD_ON_ROAD_POT_HOLE", "city": "Rio de Janeiro", "confidence": 2, "location": {"x": -43.18, "y": -22.93}}
]}`

func main() {
	addr := flag.String("addr", ":9090", "listen address")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /sirens", serve("application/xml", sirensXML))
	mux.HandleFunc("GET /rain", serve("application/json", rainJSON))
	mux.HandleFunc("GET /forecast", serve("application/xml", forecastXML))
	mux.HandleFunc("GET /forecast-current", serve("application/xml", currentForecastXML))
	mux.HandleFunc("GET /traffic", serve("application/json", trafficJSON))

	log.Printf("mock feeds listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, mux))
}

func serve(contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Write([]byte(body)) //nolint:errcheck // static fixture write
	}
}
