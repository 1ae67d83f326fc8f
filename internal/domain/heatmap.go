package domain

import "math"

// HeatmapEntry is a renderable point with normalized intensity.
type HeatmapEntry struct {
	Location       string  `json:"location"`
	Count          int     `json:"count"`
	AvgFine        float64 `json:"avgFine"`
	ViolationTypes int     `json:"violationTypes"`
	Intensity      float64 `json:"intensity"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
}

// BuildHeatmap renders aggregate rows as heatmap entries. Intensity is the
// row count over the batch maximum (floored to 1), capped at 1.0. Rows the
// geocoder cannot place are dropped; the output otherwise follows input order.
func BuildHeatmap(rows []AggregateRow, geocoder Geocoder) []HeatmapEntry {
	if len(rows) == 0 {
		return []HeatmapEntry{}
	}

	maxCount := 0
	for _, r := range rows {
		maxCount = max(maxCount, r.Sanitize().Count)
	}
	denom := float64(max(maxCount, 1))

	entries := make([]HeatmapEntry, 0, len(rows))
	for _, r := range rows {
		r = r.Sanitize()
		coord, ok := geocoder.Resolve(r.Location)
		if !ok || !finite(coord.Lat) || !finite(coord.Lng) {
			continue
		}
		entries = append(entries, HeatmapEntry{
			Location:       r.Location,
			Count:          r.Count,
			AvgFine:        r.AvgFine,
			ViolationTypes: r.ViolationTypes,
			Intensity:      math.Min(float64(r.Count)/denom, 1.0),
			Lat:            coord.Lat,
			Lng:            coord.Lng,
		})
	}
	return entries
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
