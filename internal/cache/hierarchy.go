package cache

import (
	"log/slog"

	"github.com/couchcryptid/parkwise-risk-service/internal/observability"
)

// Hierarchy groups the three cache tiers. One instance is built at startup
// and shared by every request handler; each tier locks independently.
type Hierarchy struct {
	Summary *SummaryCache
	Payload *PayloadCache
	Queries *QueryCache
}

// Options sizes the tiers. Zero values select the defaults.
type Options struct {
	SummaryLimit   int
	QueryCacheSize int
}

// NewHierarchy wires the persisted tiers to store and builds an empty query cache.
func NewHierarchy(store ArtifactStore, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Hierarchy {
	return &Hierarchy{
		Summary: NewSummaryCache(store, opts.SummaryLimit, logger, metrics),
		Payload: NewPayloadCache(store, logger, metrics),
		Queries: NewQueryCache(opts.QueryCacheSize, metrics),
	}
}
