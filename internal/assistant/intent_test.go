package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		utterance string
		want      Intent
	}{
		// Sirens. The offline sub-pattern outranks location extraction.
		{"sirenes offline na rocinha", Intent{Kind: KindSirensOffline}},
		{"tem sirene tocando?", Intent{Kind: KindSirensActive}},
		{"sirenes na rocinha", Intent{Kind: KindSirensLocation, Parameter: "rocinha"}},
		{"status das sirenes", Intent{Kind: KindSirensStatus}},
		{"alguma sirene fora do ar?", Intent{Kind: KindSirensOffline}},

		// Weather. "hoje" is not a qualifier, so a bare rain question about
		// the future resolves to the general forecast.
		{"vai chover hoje?", Intent{Kind: KindWeatherGeneral}},
		{"previsão do tempo agora", Intent{Kind: KindWeatherNow}},
		{"previsão da tarde", Intent{Kind: KindWeatherDayPart, Parameter: "tarde"}},
		{"vai chover amanhã?", Intent{Kind: KindWeatherTomorrow}},
		{"previsão para a semana", Intent{Kind: KindWeatherExtended}},
		{"como está o tempo?", Intent{Kind: KindWeatherGeneral}},

		// Rain gauges.
		{"está chovendo?", Intent{Kind: KindRainNow}},
		{"chuva na última hora", Intent{Kind: KindRain1H}},
		{"chuva nas últimas 24 horas", Intent{Kind: KindRain24H}},
		{"onde choveu mais?", Intent{Kind: KindRainTop}},

		// Traffic.
		{"como está o trânsito?", Intent{Kind: KindTrafficStatus}},
		{"acidentes agora", Intent{Kind: KindTrafficAccidents}},
		{"vias interditadas", Intent{Kind: KindTrafficClosures}},

		// Incidents.
		{"ocorrências ativas", Intent{Kind: KindIncidentsStatus}},
		{"ocorrências críticas", Intent{Kind: KindIncidentsCritical}},

		{"ajuda", Intent{Kind: KindHelp}},
		{"resumo geral", Intent{Kind: KindOverview}},

		// Fallback: anything unclassifiable is an overview request.
		{"xyz random gibberish", Intent{Kind: KindOverview}},
		{"", Intent{Kind: KindOverview}},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.utterance))
		})
	}
}

func TestIntentCategory(t *testing.T) {
	assert.Equal(t, "sirens", Intent{Kind: KindSirensOffline}.Category())
	assert.Equal(t, "weather", Intent{Kind: KindWeatherDayPart}.Category())
	assert.Equal(t, "traffic", Intent{Kind: KindTrafficStatus}.Category())
	assert.Equal(t, "help", Intent{Kind: KindHelp}.Category())
	assert.Equal(t, "overview", Intent{Kind: KindOverview}.Category())
}

func TestExtractLocation(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"sirenes na rocinha", "rocinha"},
		{"sirene no complexo do alemao", "complexo do alemao"},
		{"sirenes em santa teresa", "santa teresa"},
		{"sirenes", ""},
		// Too short after trimming to be a plausible location.
		{"sirene da re", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractLocation(tt.text), tt.text)
	}
}
