package hierarchy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riowatch/citymonitor/internal/domain"
)

// fixtureTable mimics the flattened hierarchy export: a header line carrying
// a stray tier word (no preceding street name, must be skipped) followed by
// quoted rows where the tier label follows the road name. The last row
// repeats a road under a weaker tier to exercise dedup.
const fixtureTable = `Estrutural
OID;Nome;Hierarquia;Situacao
1;"Avenida Brasil (Pista Central)";Estrutural;ativa
2;"Avenida das Américas";Estrutural;ativa
3;"Rua Primeiro de Março";Arterial Primária;ativa
4;"Estrada Grajaú-Jacarepaguá";Arterial Secundária;ativa
5;"Avenida Brasil";Arterial Secundária;ativa
`

func TestBuildIndex(t *testing.T) {
	idx := BuildIndex(fixtureTable)

	require.Equal(t, 4, idx.Len())

	byName := make(map[string]Tier)
	for _, rec := range idx.Records() {
		byName[rec.NormalizedName] = rec.Tier
	}
	assert.Equal(t, TierStructural, byName["avenida brasil"], "first tier found wins over the later weaker one")
	assert.Equal(t, TierStructural, byName["avenida das americas"])
	assert.Equal(t, TierPrimaryArterial, byName["rua primeiro de marco"])
	assert.Equal(t, TierSecondaryArterial, byName["estrada grajau-jacarepagua"])
}

func TestBuildIndexIdempotent(t *testing.T) {
	first := BuildIndex(fixtureTable)
	second := BuildIndex(fixtureTable)

	require.Equal(t, first.Len(), second.Len())

	names := func(idx *Index) map[string]bool {
		set := make(map[string]bool)
		for _, rec := range idx.Records() {
			set[rec.NormalizedName] = true
		}
		return set
	}
	assert.Equal(t, names(first), names(second))
}

func TestBuildIndexEmptyTable(t *testing.T) {
	idx := BuildIndex("")
	assert.Equal(t, 0, idx.Len())
	assert.False(t, idx.IsRelevant("Avenida Brasil"))
}

func TestBuildIndexLabelBeyondLookback(t *testing.T) {
	// The street name sits farther than the lookback window before the
	// label, so the label has no road to attach to.
	table := "Avenida Longínqua\n" + strings.Repeat("x", 600) + "Estrutural"
	idx := BuildIndex(table)
	assert.Equal(t, 0, idx.Len())
}

func TestIsRelevant(t *testing.T) {
	idx := BuildIndex(fixtureTable)

	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"exact original name", "Avenida Brasil", true},
		{"case insensitive", "AVENIDA DAS AMÉRICAS", true},
		{"abbreviated prefix", "Av. Brasil", true},
		{"abbreviated rua prefix", "R. Primeiro de Março", true},
		{"swapped prefix variant", "Rua Brasil", true},
		{"query containing indexed name", "Avenida Brasil, altura da Penha", true},
		{"unknown road", "Rua Inexistente Qualquer", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, idx.IsRelevant(tt.query))
		})
	}
}

func TestFilterAlerts(t *testing.T) {
	idx := BuildIndex(fixtureTable)

	alerts := []domain.TrafficAlert{
		{Street: "Av. Brasil", Type: "JAM"},
		{Street: "Rua Inexistente Qualquer", Type: "HAZARD"},
		{Street: "", RoadType: 6, Type: "ACCIDENT"}, // falls back to "Via Estrutural", not indexed
	}

	filtered, meta := idx.FilterAlerts(alerts)

	require.Len(t, filtered, 1)
	assert.Equal(t, "Av. Brasil", filtered[0].Street)
	assert.Equal(t, 3, meta.TotalOriginal)
	assert.Equal(t, 1, meta.TotalFiltered)
	assert.Equal(t, []string{"Estrutural", "Arterial Primária", "Arterial Secundária"}, meta.TiersConsidered)
}

func TestTierCounts(t *testing.T) {
	idx := BuildIndex(fixtureTable)
	counts := idx.TierCounts()
	assert.Equal(t, 2, counts[TierStructural])
	assert.Equal(t, 1, counts[TierPrimaryArterial])
	assert.Equal(t, 1, counts[TierSecondaryArterial])
}
