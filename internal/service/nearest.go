package service

import (
	"context"
	"strings"

	"github.com/couchcryptid/parkwise-risk-service/internal/domain"
)

const (
	DefaultRadiusMiles  = 0.5
	DefaultNearestLimit = 20
)

// NearestQuery asks for ranked parking locations around an origin.
type NearestQuery struct {
	Origin      domain.Coordinate
	RadiusMiles float64
	Limit       int
	Day         string
	Hour        string
}

// NearestResult echoes the query alongside the ranked entries.
type NearestResult struct {
	Entries []domain.RiskEntry
	Query   NearestQuery
}

// Nearest ranks locations within the query radius by relative risk. Unlike
// Heatmap, a blank day or hour means "all" and results are never cached.
func (s *Service) Nearest(ctx context.Context, q NearestQuery) (NearestResult, error) {
	s.metrics.NearestRequests.Inc()

	if q.Day = strings.TrimSpace(q.Day); q.Day == "" {
		q.Day = "all"
	}
	if q.Hour = strings.TrimSpace(q.Hour); q.Hour == "" {
		q.Hour = "all"
	}

	var rows []domain.AggregateRow
	err := s.observe("all", func() error {
		var err error
		rows, err = s.source.FetchAll(ctx, domain.ParseFilter(q.Day, q.Hour))
		return err
	})
	if err != nil {
		return NearestResult{}, err
	}

	entries := domain.RankRisk(rows, s.geocoder, q.Origin, q.RadiusMiles, q.Limit)
	s.metrics.NearestResults.Observe(float64(len(entries)))
	s.recordMemo()
	return NearestResult{Entries: entries, Query: q}, nil
}
