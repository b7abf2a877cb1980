// Package hierarchy builds a road-importance index from the municipal
// street-hierarchy export and filters live traffic alerts down to the roads
// that matter operationally.
package hierarchy

import (
	"regexp"
	"strings"

	"github.com/riowatch/citymonitor/internal/domain"
	"github.com/riowatch/citymonitor/internal/textnorm"
)

// Tier is a road-importance category from the hierarchy export.
type Tier string

const (
	TierStructural        Tier = "Estrutural"
	TierPrimaryArterial   Tier = "Arterial Primária"
	TierSecondaryArterial Tier = "Arterial Secundária"
)

// tierScanOrder fixes the priority in which tier labels are scanned. A road
// appearing under several headings keeps the tier found first, so the
// strongest tier wins.
var tierScanOrder = []Tier{TierStructural, TierPrimaryArterial, TierSecondaryArterial}

// lookbackWindow bounds how far before a tier label the road name it tags
// may appear in the flattened export.
const lookbackWindow = 500

// streetNameRe matches a street-type prefix word followed by a run of
// non-comma, non-quote, non-newline characters. The export is a flattened
// table dump, so the nearest such match before a tier label is taken as the
// road that label belongs to.
var streetNameRe = regexp.MustCompile(`(?i)(Avenida|Rua|Estrada|Autoestrada|Rodovia|Via|Túnel|Tunel|Viaduto|Ponte)[^,"\n]+`)

// RoadRecord is one indexed road with its importance tier.
type RoadRecord struct {
	OriginalName   string
	NormalizedName string
	Tier           Tier
}

// Index is the immutable road-relevance index. Build once at startup with
// BuildIndex and share by reference; queries are read-only.
type Index struct {
	records  []RoadRecord
	stripped []string // NormalizedName with the road-type prefix removed, parallel to records
}

// BuildIndex scans the raw hierarchy table text tier by tier and indexes,
// for each tier label occurrence, the nearest preceding street name within
// the lookback window. Names are deduplicated by normalized form; the first
// tier found wins. An empty or absent table yields an empty index — every
// alert is then treated as non-relevant rather than failing startup.
func BuildIndex(rawTableText string) *Index {
	idx := &Index{}
	seen := make(map[string]bool)

	for _, tier := range tierScanOrder {
		label := string(tier)
		for from := 0; ; {
			rel := strings.Index(rawTableText[from:], label)
			if rel < 0 {
				break
			}
			at := from + rel
			from = at + len(label)

			name := nearestStreetName(rawTableText, at)
			if name == "" {
				continue
			}
			normalized := textnorm.RoadName(name)
			if normalized == "" || seen[normalized] {
				continue
			}
			seen[normalized] = true
			idx.records = append(idx.records, RoadRecord{
				OriginalName:   name,
				NormalizedName: normalized,
				Tier:           tier,
			})
			idx.stripped = append(idx.stripped, textnorm.StripRoadPrefix(normalized))
		}
	}
	return idx
}

// nearestStreetName returns the last street-name match inside the lookback
// window before offset, or "" when the window holds none (a label appearing
// before any qualifying name is skipped).
func nearestStreetName(text string, offset int) string {
	start := offset - lookbackWindow
	if start < 0 {
		start = 0
	}
	matches := streetNameRe.FindAllString(text[start:offset], -1)
	if len(matches) == 0 {
		return ""
	}
	return strings.TrimSpace(matches[len(matches)-1])
}

// Len returns the number of indexed roads.
func (idx *Index) Len() int { return len(idx.records) }

// Records returns a copy of the indexed roads.
func (idx *Index) Records() []RoadRecord {
	out := make([]RoadRecord, len(idx.records))
	copy(out, idx.records)
	return out
}

// IsRelevant reports whether the given free-text street name refers to one
// of the indexed roads. Matching is bidirectional substring containment
// after normalization and road-type prefix stripping on both sides: the
// live feed abbreviates canonical names and vice versa. This deliberately
// trades precision for recall on short common-word overlaps.
func (idx *Index) IsRelevant(streetName string) bool {
	if streetName == "" {
		return false
	}
	query := textnorm.StripRoadPrefix(textnorm.RoadName(streetName))
	if query == "" {
		return false
	}
	for _, indexed := range idx.stripped {
		if indexed == "" {
			continue
		}
		if strings.Contains(query, indexed) || strings.Contains(indexed, query) {
			return true
		}
	}
	return false
}

// FilterMeta describes one FilterAlerts pass.
type FilterMeta struct {
	TotalOriginal   int      `json:"totalOriginal"`
	TotalFiltered   int      `json:"totalFiltered"`
	TiersConsidered []string `json:"tiersConsidered"`
}

// FilterAlerts returns only the alerts whose street (or road-type name,
// when the street is empty) refers to an indexed road.
func (idx *Index) FilterAlerts(alerts []domain.TrafficAlert) ([]domain.TrafficAlert, FilterMeta) {
	filtered := make([]domain.TrafficAlert, 0, len(alerts))
	for _, alert := range alerts {
		name := alert.Street
		if name == "" {
			name = domain.RoadTypeName(alert.RoadType)
		}
		if idx.IsRelevant(name) {
			filtered = append(filtered, alert)
		}
	}

	tiers := make([]string, len(tierScanOrder))
	for i, t := range tierScanOrder {
		tiers[i] = string(t)
	}
	return filtered, FilterMeta{
		TotalOriginal:   len(alerts),
		TotalFiltered:   len(filtered),
		TiersConsidered: tiers,
	}
}

// TierCounts returns how many indexed roads carry each tier, in scan order.
func (idx *Index) TierCounts() map[Tier]int {
	counts := make(map[Tier]int, len(tierScanOrder))
	for _, rec := range idx.records {
		counts[rec.Tier]++
	}
	return counts
}
