// Package textnorm holds the text-normalization helpers shared by the road
// matcher and the intent router. All comparisons in both components happen
// over the normalized form.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// laneQualifierRe strips the "(pista central)" / "(pista lateral)"
	// parenthetical qualifiers the road-hierarchy export appends to some
	// carriageway entries.
	laneQualifierRe = regexp.MustCompile(`(?i)\s*\((pista central|pista lateral)\)`)

	// roadPrefixRe strips a leading road-type word so abbreviated live-feed
	// names ("R. Primeiro de Março") compare against canonical ones
	// ("Rua Primeiro de Março").
	roadPrefixRe = regexp.MustCompile(`(?i)^(rua|avenida|av\.?|r\.?) `)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// StripAccents removes diacritics via NFD decomposition and combining-mark
// removal.
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Fold lowercases, strips accents and collapses runs of whitespace. This is
// the normalization applied to user utterances before keyword matching.
func Fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = StripAccents(s)
	return whitespaceRe.ReplaceAllString(s, " ")
}

// RoadName normalizes a road name for comparison: lowercase, accents and
// lane qualifiers removed, whitespace collapsed. Applied identically at
// index build time and query time.
func RoadName(s string) string {
	s = laneQualifierRe.ReplaceAllString(s, "")
	s = StripAccents(strings.ToLower(strings.TrimSpace(s)))
	return whitespaceRe.ReplaceAllString(s, " ")
}

// StripRoadPrefix removes a leading road-type word ("rua ", "avenida ",
// "av. ", "r. ") from an already lowercased name.
func StripRoadPrefix(s string) string {
	return strings.TrimSpace(roadPrefixRe.ReplaceAllString(s, ""))
}
