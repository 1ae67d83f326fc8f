package domain

import (
	"math"
	"sort"

	"github.com/golang/geo/s2"
)

// EarthRadiusMiles is the mean Earth radius used for distance filtering.
const EarthRadiusMiles = 3959.0

// RiskLevel buckets a relative risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskEntry is a nearby location ranked by relative violation risk.
type RiskEntry struct {
	Location       string    `json:"location"`
	Lat            float64   `json:"lat"`
	Lng            float64   `json:"lng"`
	Distance       float64   `json:"distance"` // miles, 2 dp
	ViolationCount int       `json:"violationCount"`
	AvgFine        float64   `json:"avgFine"`
	ViolationTypes int       `json:"violationTypes"`
	RiskScore      float64   `json:"riskScore"`
	RiskLevel      RiskLevel `json:"riskLevel"`
}

// HaversineMiles returns the great-circle distance between two coordinates in miles.
func HaversineMiles(a, b Coordinate) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lng)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lng)
	return p1.Distance(p2).Radians() * EarthRadiusMiles
}

// ClassifyRisk maps a percentile in [0,1] to a risk level.
func ClassifyRisk(percentile float64) RiskLevel {
	switch {
	case percentile <= 0.33:
		return RiskLow
	case percentile <= 0.66:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// RankRisk keeps rows within radiusMiles of origin, scores each by its
// min-max normalized count, and returns at most max(limit, 1) entries sorted
// ascending by (riskScore, distance). An empty result is not an error.
func RankRisk(rows []AggregateRow, geocoder Geocoder, origin Coordinate, radiusMiles float64, limit int) []RiskEntry {
	results := make([]RiskEntry, 0)
	for _, r := range rows {
		r = r.Sanitize()
		coord, ok := geocoder.Resolve(r.Location)
		if !ok {
			continue
		}
		distance := HaversineMiles(origin, coord)
		if distance > radiusMiles {
			continue
		}
		results = append(results, RiskEntry{
			Location:       r.Location,
			Lat:            coord.Lat,
			Lng:            coord.Lng,
			Distance:       round(distance, 2),
			ViolationCount: r.Count,
			AvgFine:        round(r.AvgFine, 2),
			ViolationTypes: r.ViolationTypes,
		})
	}
	if len(results) == 0 {
		return results
	}

	minCount, maxCount := results[0].ViolationCount, results[0].ViolationCount
	for _, e := range results[1:] {
		minCount = min(minCount, e.ViolationCount)
		maxCount = max(maxCount, e.ViolationCount)
	}

	for i := range results {
		percentile := 0.0
		if maxCount != minCount {
			percentile = float64(results[i].ViolationCount-minCount) / float64(maxCount-minCount)
			percentile = math.Max(0, math.Min(1, percentile))
		}
		results[i].RiskScore = round(percentile, 4)
		results[i].RiskLevel = ClassifyRisk(percentile)
	}

	// Lowest relative risk first, nearest breaking ties.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].RiskScore != results[j].RiskScore {
			return results[i].RiskScore < results[j].RiskScore
		}
		return results[i].Distance < results[j].Distance
	})

	if n := max(limit, 1); len(results) > n {
		results = results[:n]
	}
	return results
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
