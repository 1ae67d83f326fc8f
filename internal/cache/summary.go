package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/couchcryptid/parkwise-risk-service/internal/domain"
	"github.com/couchcryptid/parkwise-risk-service/internal/observability"
)

// DefaultSummaryLimit is how many of the busiest locations the summary keeps.
const DefaultSummaryLimit = 1000

// SummaryCache holds the top-N unfiltered aggregate rows by count. It loads
// from the summary artifact, or derives and persists the summary from the
// full dump. A successful load is kept for the life of the process.
type SummaryCache struct {
	store   ArtifactStore
	limit   int
	logger  *slog.Logger
	metrics *observability.Metrics

	mu     sync.Mutex
	rows   []domain.AggregateRow
	loaded bool
}

// NewSummaryCache creates a summary tier over store. Non-positive limits fall
// back to DefaultSummaryLimit.
func NewSummaryCache(store ArtifactStore, limit int, logger *slog.Logger, metrics *observability.Metrics) *SummaryCache {
	if limit <= 0 {
		limit = DefaultSummaryLimit
	}
	return &SummaryCache{store: store, limit: limit, logger: logger, metrics: metrics}
}

// Limit returns N, the number of rows the summary keeps.
func (c *SummaryCache) Limit() int {
	return c.limit
}

// Get returns the summary rows, reading persisted artifacts on the first
// call. Callers must not modify the returned slice.
func (c *SummaryCache) Get(ctx context.Context) ([]domain.AggregateRow, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		c.metrics.CacheLookups.WithLabelValues("summary", "hit").Inc()
		return c.rows, true
	}

	if rows, ok := c.loadArtifact(ctx, SummaryArtifact); ok {
		c.metrics.CacheLookups.WithLabelValues("summary", "hit").Inc()
		c.set(domain.TopByCount(rows, c.limit))
		return c.rows, true
	}

	if rows, ok := c.loadArtifact(ctx, DumpArtifact); ok {
		c.metrics.CacheLookups.WithLabelValues("summary", "hit").Inc()
		c.set(domain.TopByCount(rows, c.limit))
		if err := c.persist(ctx); err != nil {
			c.logger.Warn("summary derived from dump but not persisted", "error", err)
		}
		return c.rows, true
	}

	c.metrics.CacheLookups.WithLabelValues("summary", "miss").Inc()
	return nil, false
}

// Put replaces the summary with the top-N of rows and persists it. The
// in-memory value is kept even when persisting fails; the error is returned
// for the caller to log.
func (c *SummaryCache) Put(ctx context.Context, rows []domain.AggregateRow) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.set(domain.TopByCount(rows, c.limit))
	return c.persist(ctx)
}

func (c *SummaryCache) set(rows []domain.AggregateRow) {
	c.rows = rows
	c.loaded = true
}

func (c *SummaryCache) persist(ctx context.Context) error {
	data, err := json.Marshal(c.rows)
	if err == nil {
		err = c.store.Save(ctx, SummaryArtifact, data)
	}
	if err != nil {
		c.metrics.ArtifactWriteErrors.WithLabelValues(SummaryArtifact).Inc()
		return fmt.Errorf("persist summary: %w", err)
	}
	c.logger.Info("summary artifact written", "rows", len(c.rows))
	return nil
}

func (c *SummaryCache) loadArtifact(ctx context.Context, name string) ([]domain.AggregateRow, bool) {
	data, err := c.store.Load(ctx, name)
	if errors.Is(err, ErrArtifactNotFound) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("load artifact failed, falling back", "artifact", name, "error", err)
		return nil, false
	}
	var rows []domain.AggregateRow
	if err := json.Unmarshal(data, &rows); err != nil {
		c.logger.Warn("decode artifact failed, falling back", "artifact", name, "error", err)
		return nil, false
	}
	c.logger.Info("artifact loaded", "artifact", name, "rows", len(rows))
	return rows, true
}
