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

// PayloadCache holds the rendered heatmap for the unfiltered request. It
// loads from the payload artifact once and is kept for the life of the process.
type PayloadCache struct {
	store   ArtifactStore
	logger  *slog.Logger
	metrics *observability.Metrics

	mu      sync.Mutex
	entries []domain.HeatmapEntry
	loaded  bool
}

// NewPayloadCache creates a payload tier over store.
func NewPayloadCache(store ArtifactStore, logger *slog.Logger, metrics *observability.Metrics) *PayloadCache {
	return &PayloadCache{store: store, logger: logger, metrics: metrics}
}

// Get returns the overall payload, reading the artifact on the first call.
// Callers must not modify the returned slice.
func (c *PayloadCache) Get(ctx context.Context) ([]domain.HeatmapEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		c.metrics.CacheLookups.WithLabelValues("payload", "hit").Inc()
		return c.entries, true
	}

	data, err := c.store.Load(ctx, PayloadArtifact)
	switch {
	case errors.Is(err, ErrArtifactNotFound):
		c.metrics.CacheLookups.WithLabelValues("payload", "miss").Inc()
		return nil, false
	case err != nil:
		c.logger.Warn("load payload artifact failed, recomputing", "error", err)
		c.metrics.CacheLookups.WithLabelValues("payload", "miss").Inc()
		return nil, false
	}

	var entries []domain.HeatmapEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		c.logger.Warn("decode payload artifact failed, recomputing", "error", err)
		c.metrics.CacheLookups.WithLabelValues("payload", "miss").Inc()
		return nil, false
	}
	if entries == nil {
		entries = []domain.HeatmapEntry{}
	}

	c.metrics.CacheLookups.WithLabelValues("payload", "hit").Inc()
	c.entries = entries
	c.loaded = true
	return c.entries, true
}

// Put keeps entries in memory and persists them. The in-memory value stands
// even when persisting fails; the error is returned for the caller to log.
func (c *PayloadCache) Put(ctx context.Context, entries []domain.HeatmapEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entries == nil {
		entries = []domain.HeatmapEntry{}
	}
	c.entries = entries
	c.loaded = true

	data, err := json.Marshal(entries)
	if err == nil {
		err = c.store.Save(ctx, PayloadArtifact, data)
	}
	if err != nil {
		c.metrics.ArtifactWriteErrors.WithLabelValues(PayloadArtifact).Inc()
		return fmt.Errorf("persist payload: %w", err)
	}
	c.logger.Info("payload artifact written", "entries", len(entries))
	return nil
}
