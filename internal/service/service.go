// Package service answers heatmap, risk, geocode, and statistics queries by
// combining the aggregate source, the cache hierarchy, and the geocoder.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/parkwise-risk-service/internal/cache"
	"github.com/couchcryptid/parkwise-risk-service/internal/domain"
	"github.com/couchcryptid/parkwise-risk-service/internal/observability"
)

// DefaultQueryResultLimit caps the rows fetched for one filtered heatmap query.
const DefaultQueryResultLimit = 2000

var (
	// ErrDataAccess wraps every failure reported by the AggregateSource.
	ErrDataAccess = errors.New("data access failed")
	// ErrMissingParameter marks a request that lacks a required input.
	ErrMissingParameter = errors.New("missing parameter")
	// ErrUnresolvable is returned when an address cannot be placed on the map.
	ErrUnresolvable = errors.New("unable to resolve address")
)

// AggregateSource reads grouped violation statistics from the ticket store.
type AggregateSource interface {
	// FetchTop returns at most limit rows grouped by location, busiest first.
	FetchTop(ctx context.Context, filter domain.Filter, limit int) ([]domain.AggregateRow, error)
	// FetchAll returns every location matching filter.
	FetchAll(ctx context.Context, filter domain.Filter) ([]domain.AggregateRow, error)
	Statistics(ctx context.Context) (domain.Statistics, error)
	LocationDetails(ctx context.Context, location string) (domain.LocationDetails, error)
	Ping(ctx context.Context) error
}

// SnapshotPublisher receives the overall heatmap each time it is derived.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, entries []domain.HeatmapEntry) error
}

// Options tunes a Service. Zero values select the defaults.
type Options struct {
	QueryResultLimit int
	Publisher        SnapshotPublisher
}

// Service is the request-facing core. It is safe for concurrent use.
type Service struct {
	source     AggregateSource
	caches     *cache.Hierarchy
	geocoder   domain.Geocoder
	publisher  SnapshotPublisher
	queryLimit int
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates a Service over the given source, caches, and geocoder.
func New(source AggregateSource, caches *cache.Hierarchy, geocoder domain.Geocoder, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Service {
	limit := opts.QueryResultLimit
	if limit <= 0 {
		limit = DefaultQueryResultLimit
	}
	return &Service{
		source:     source,
		caches:     caches,
		geocoder:   geocoder,
		publisher:  opts.Publisher,
		queryLimit: limit,
		logger:     logger,
		metrics:    metrics,
	}
}

// CheckReadiness reports whether the aggregate source is reachable.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if err := s.source.Ping(ctx); err != nil {
		return fmt.Errorf("%w: ping: %w", ErrDataAccess, err)
	}
	return nil
}

// observe runs a source call with duration and error metrics, wrapping any
// failure in ErrDataAccess.
func (s *Service) observe(query string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.metrics.SourceQueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.SourceErrors.WithLabelValues(query).Inc()
		return fmt.Errorf("%w: %s: %w", ErrDataAccess, query, err)
	}
	return nil
}

func (s *Service) recordMemo() {
	if m, ok := s.geocoder.(interface{ Len() int }); ok {
		s.metrics.GeocodeMemoSize.Set(float64(m.Len()))
	}
}
