// Package domain models aggregated parking-violation statistics and the pure
// algorithms that turn them into map payloads and risk rankings.
//
// # Data Source
//
// Tickets live in a relational store (tables ticket and violation). The SQL
// adapter groups them by violation_location under an optional weekday and hour
// filter, producing one [AggregateRow] per location:
//
//	violation_location  free-text street address, e.g. "100 W MICHIGAN AVE"
//	violation_count     tickets issued at that location
//	avg_fine            mean fine amount in dollars
//	violation_types     distinct violation codes seen at that location
//
// Rows read from persisted artifacts may carry numbers as JSON strings or
// nulls. Anything missing, unparseable, negative, or non-finite is coerced to
// zero rather than rejected. See [CoerceInt] and [CoerceFloat].
//
// # Synthetic Geocoding
//
// Location strings are free text with no coordinates. [SyntheticGeocoder]
// assigns each string a stable coordinate:
//
//	1. Trim and uppercase. Blank input maps to downtown Chicago (41.8781, -87.6298).
//	2. Scan the street table in declaration order. The first street name that
//	   occurs as a substring picks the base coordinate.
//	3. SHA-256 the normalized string, read the first 16 hex characters as a
//	   uint64 seed, and draw two uniform offsets from a PCG generator:
//	   ±0.005° around a matched street, ±0.1° around downtown otherwise.
//
// SHA-256 and PCG are fully specified algorithms, so a given string resolves
// to the same coordinate on every platform and every restart.
//
// # Heatmap Intensity
//
// [BuildHeatmap] normalizes each count by the maximum count in the batch
// (floored to 1), so the busiest location always renders at intensity 1.0.
//
// # Risk Ranking
//
// [RankRisk] keeps locations within a radius of the caller (haversine,
// Earth radius 3959 miles) and scores them by min-max normalized count:
//
//	score <= 0.33  Low
//	score <= 0.66  Medium
//	otherwise      High
//
// Results are sorted ascending by (riskScore, distance), so the quietest
// nearby locations come first.
package domain
