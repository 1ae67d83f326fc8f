package http

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/couchcryptid/parkwise-risk-service/internal/domain"
	"github.com/couchcryptid/parkwise-risk-service/internal/service"
	geojson "github.com/paulmach/go.geojson"
)

type heatmapMetadata struct {
	Day            string `json:"day"`
	Hour           string `json:"hour"`
	TotalLocations int    `json:"totalLocations"`
}

type nearestMetadata struct {
	UserLat    float64 `json:"userLat"`
	UserLng    float64 `json:"userLng"`
	Radius     float64 `json:"radius"`
	Day        string  `json:"day"`
	Hour       string  `json:"hour"`
	TotalFound int     `json:"totalFound"`
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := s.svc.Heatmap(r.Context(), q.Get("day"), q.Get("hour"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeSuccess(w, res.Entries, heatmapMetadata{
		Day:            res.Day,
		Hour:           res.Hour,
		TotalLocations: len(res.Entries),
	})
}

// handleHeatmapGeoJSON renders the same heatmap as a FeatureCollection of points.
func (s *Server) handleHeatmapGeoJSON(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := s.svc.Heatmap(r.Context(), q.Get("day"), q.Get("hour"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	fc := geojson.NewFeatureCollection()
	for _, e := range res.Entries {
		f := geojson.NewPointFeature([]float64{e.Lng, e.Lat})
		f.SetProperty("location", e.Location)
		f.SetProperty("count", e.Count)
		f.SetProperty("avgFine", e.AvgFine)
		f.SetProperty("violationTypes", e.ViolationTypes)
		f.SetProperty("intensity", e.Intensity)
		fc.AddFeature(f)
	}
	body, err := fc.MarshalJSON()
	if err != nil {
		s.writeError(w, r, fmt.Errorf("encode geojson: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	w.Write(body) //nolint:errcheck // client may have gone away
}

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Geocode(r.URL.Query().Get("address"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeSuccess(w, res, nil)
}

func (s *Server) handleNearest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, latOK := parseCoordinate(q.Get("lat"))
	lng, lngOK := parseCoordinate(q.Get("lng"))
	if !latOK || !lngOK {
		s.writeError(w, r, fmt.Errorf("%w: lat and lng parameters are required", service.ErrMissingParameter))
		return
	}

	// Malformed optional parameters fall back to their defaults.
	radius := service.DefaultRadiusMiles
	if v, err := strconv.ParseFloat(q.Get("radius"), 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		radius = v
	}
	limit := service.DefaultNearestLimit
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		limit = v
	}

	res, err := s.svc.Nearest(r.Context(), service.NearestQuery{
		Origin:      domain.Coordinate{Lat: lat, Lng: lng},
		RadiusMiles: radius,
		Limit:       limit,
		Day:         q.Get("day"),
		Hour:        q.Get("hour"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeSuccess(w, res.Entries, nearestMetadata{
		UserLat:    lat,
		UserLng:    lng,
		Radius:     radius,
		Day:        res.Query.Day,
		Hour:       res.Query.Hour,
		TotalFound: len(res.Entries),
	})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Statistics(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeSuccess(w, stats, nil)
}

func (s *Server) handleLocationDetails(w http.ResponseWriter, r *http.Request) {
	details, err := s.svc.LocationDetails(r.Context(), r.PathValue("location"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeSuccess(w, details, nil)
}

func parseCoordinate(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
