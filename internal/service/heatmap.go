package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/couchcryptid/parkwise-risk-service/internal/domain"
)

// HeatmapResult is a rendered heatmap plus the day and hour it was asked for.
type HeatmapResult struct {
	Entries []domain.HeatmapEntry
	Day     string
	Hour    string
}

// Heatmap renders the heatmap for a weekday and hour. Blank values default
// to the current day and hour; "all" leaves a dimension unconstrained. The
// fully unconstrained heatmap is served from the persisted cache tiers.
func (s *Service) Heatmap(ctx context.Context, day, hour string) (HeatmapResult, error) {
	day = strings.TrimSpace(day)
	hour = strings.TrimSpace(hour)
	if day == "" {
		day = domain.CurrentDay()
	}
	if hour == "" {
		hour = strconv.Itoa(domain.CurrentHour())
	}

	filter := domain.ParseFilter(day, hour)

	var (
		entries []domain.HeatmapEntry
		err     error
	)
	if filter.IsZero() {
		s.metrics.HeatmapRequests.WithLabelValues("overall").Inc()
		entries, err = s.overallHeatmap(ctx)
	} else {
		s.metrics.HeatmapRequests.WithLabelValues("filtered").Inc()
		entries, err = s.filteredHeatmap(ctx, filter)
	}
	if err != nil {
		return HeatmapResult{}, err
	}

	s.recordMemo()
	s.logger.Debug("heatmap served", "day", day, "hour", hour, "locations", len(entries))
	return HeatmapResult{Entries: entries, Day: day, Hour: hour}, nil
}

// overallHeatmap walks payload, summary, then source. Whatever it had to
// derive is written back to the tiers above it.
func (s *Service) overallHeatmap(ctx context.Context) ([]domain.HeatmapEntry, error) {
	if entries, ok := s.caches.Payload.Get(ctx); ok {
		return entries, nil
	}

	rows, ok := s.caches.Summary.Get(ctx)
	if !ok {
		var fetched []domain.AggregateRow
		err := s.observe("top", func() error {
			var err error
			fetched, err = s.source.FetchTop(ctx, domain.Filter{}, s.caches.Summary.Limit())
			return err
		})
		if err != nil {
			return nil, err
		}
		if err := s.caches.Summary.Put(ctx, fetched); err != nil {
			s.logger.Warn("summary cache write failed", "error", err)
		}
		rows, _ = s.caches.Summary.Get(ctx)
	}

	entries := domain.BuildHeatmap(rows, s.geocoder)
	if err := s.caches.Payload.Put(ctx, entries); err != nil {
		s.logger.Warn("payload cache write failed", "error", err)
	}
	s.publish(ctx, entries)
	return entries, nil
}

func (s *Service) filteredHeatmap(ctx context.Context, filter domain.Filter) ([]domain.HeatmapEntry, error) {
	key := filter.Key()
	rows, ok := s.caches.Queries.Get(key)
	if !ok {
		err := s.observe("top", func() error {
			var err error
			rows, err = s.source.FetchTop(ctx, filter, s.queryLimit)
			return err
		})
		if err != nil {
			return nil, err
		}
		s.caches.Queries.Put(key, rows)
	}
	return domain.BuildHeatmap(rows, s.geocoder), nil
}

func (s *Service) publish(ctx context.Context, entries []domain.HeatmapEntry) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSnapshot(ctx, entries); err != nil {
		s.metrics.SnapshotErrors.Inc()
		s.logger.Warn("publish heatmap snapshot failed", "error", err, "entries", len(entries))
		return
	}
	s.metrics.SnapshotsPublished.Inc()
}
