// Package domain models the Rio de Janeiro municipal open-data feeds
// consumed by the gateway.
//
// # Feeds
//
// Six upstream sources, all public municipal endpoints:
//
//   - Sirens: community siren network XML (websirene). One <estacao> per
//     station with nested <localizacao> and <status> attribute elements.
//     Booleans arrive as "True"/"False" strings; a station is ringing when
//     its status code is "ac".
//   - Rainfall: per-gauge accumulated rainfall in mm for rolling 15-minute,
//     1-hour and 24-hour windows. Served either as a bare JSON array or as
//     a GeoJSON FeatureCollection depending on the mirror; numbers may be
//     locale-formatted strings with a decimal comma ("12,4").
//   - Forecast: two Alerta Rio XML documents — the short-term bulletin
//     (named day-parts, per-zone temperature, tide table) and the extended
//     multi-day forecast.
//   - Traffic: Waze partner feed JSON, a list of alerts with a
//     type/subtype taxonomy, street name, numeric road-type code and
//     confidence score. Street is frequently empty.
//   - Incidents: incident-management records with a coded incident type
//     (POP01..POP53) and a 1..4 priority enum, both translated to display
//     labels at the fetch boundary.
//
// # Decoding conventions
//
// Upstream payload shape is not fully contractual and varies across
// environments and mirrors. Decoding therefore enumerates the known shapes
// explicitly (bare array or a wrapping object, see [DecodeRainPayload] and
// [DecodeTrafficPayload]) and fails soft to empty on anything else. Numeric
// fields are coerced with [ParseLocaleFloat]; a parse failure yields 0, not
// an error — downstream report formatting always receives a number.
package domain
