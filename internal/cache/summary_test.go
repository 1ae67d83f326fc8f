package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/couchcryptid/parkwise-risk-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRows(t *testing.T, store *memStore, name string, rows []domain.AggregateRow) {
	t.Helper()
	data, err := json.Marshal(rows)
	require.NoError(t, err)
	store.data[name] = data
}

func manyRows(n int) []domain.AggregateRow {
	out := make([]domain.AggregateRow, n)
	for i := range out {
		out[i] = domain.AggregateRow{Location: fmt.Sprintf("%d N STATE ST", i), Count: i}
	}
	return out
}

func TestSummaryCache_LoadsExistingSummary(t *testing.T) {
	store := newMemStore()
	seedRows(t, store, SummaryArtifact, []domain.AggregateRow{{Location: "A", Count: 3}})
	c := NewSummaryCache(store, 10, discardLogger(), testMetrics())

	rows, ok := c.Get(context.Background())

	require.True(t, ok)
	assert.Equal(t, []domain.AggregateRow{{Location: "A", Count: 3}}, rows)
	assert.Zero(t, store.loads[DumpArtifact], "dump untouched when a summary exists")
	assert.Zero(t, store.saves[SummaryArtifact])
}

func TestSummaryCache_DerivesFromDumpAndPersists(t *testing.T) {
	store := newMemStore()
	seedRows(t, store, DumpArtifact, manyRows(25))
	c := NewSummaryCache(store, 10, discardLogger(), testMetrics())

	rows, ok := c.Get(context.Background())

	require.True(t, ok)
	require.Len(t, rows, 10)
	assert.Equal(t, 24, rows[0].Count)
	assert.Equal(t, 15, rows[9].Count)
	assert.Equal(t, 1, store.saves[SummaryArtifact])

	var persisted []domain.AggregateRow
	require.NoError(t, json.Unmarshal(store.data[SummaryArtifact], &persisted))
	assert.Equal(t, rows, persisted)
}

func TestSummaryCache_TruncatesOversizedSummary(t *testing.T) {
	store := newMemStore()
	seedRows(t, store, SummaryArtifact, manyRows(30))
	c := NewSummaryCache(store, 5, discardLogger(), testMetrics())

	rows, ok := c.Get(context.Background())

	require.True(t, ok)
	assert.Len(t, rows, 5)
	assert.Equal(t, 29, rows[0].Count)
}

func TestSummaryCache_LoadOnce(t *testing.T) {
	store := newMemStore()
	seedRows(t, store, SummaryArtifact, manyRows(3))
	c := NewSummaryCache(store, 10, discardLogger(), testMetrics())

	_, ok := c.Get(context.Background())
	require.True(t, ok)
	delete(store.data, SummaryArtifact)
	rows, ok := c.Get(context.Background())

	require.True(t, ok)
	assert.Len(t, rows, 3)
	assert.Equal(t, 1, store.loads[SummaryArtifact])
}

func TestSummaryCache_MissWhenNothingPersisted(t *testing.T) {
	store := newMemStore()
	c := NewSummaryCache(store, 10, discardLogger(), testMetrics())

	_, ok := c.Get(context.Background())
	assert.False(t, ok)

	// A later artifact is picked up because nothing was cached.
	seedRows(t, store, SummaryArtifact, manyRows(2))
	rows, ok := c.Get(context.Background())
	assert.True(t, ok)
	assert.Len(t, rows, 2)
}

func TestSummaryCache_CorruptSummaryFallsBackToDump(t *testing.T) {
	store := newMemStore()
	store.data[SummaryArtifact] = []byte("{not json")
	seedRows(t, store, DumpArtifact, manyRows(4))
	c := NewSummaryCache(store, 10, discardLogger(), testMetrics())

	rows, ok := c.Get(context.Background())

	require.True(t, ok)
	assert.Len(t, rows, 4)
}

func TestSummaryCache_PersistFailureKeepsValue(t *testing.T) {
	store := newMemStore()
	seedRows(t, store, DumpArtifact, manyRows(4))
	store.saveErr = errors.New("disk full")
	c := NewSummaryCache(store, 10, discardLogger(), testMetrics())

	rows, ok := c.Get(context.Background())

	require.True(t, ok)
	assert.Len(t, rows, 4)
}

func TestSummaryCache_Put(t *testing.T) {
	store := newMemStore()
	c := NewSummaryCache(store, 2, discardLogger(), testMetrics())

	err := c.Put(context.Background(), manyRows(5))
	require.NoError(t, err)

	rows, ok := c.Get(context.Background())
	require.True(t, ok)
	assert.Equal(t, []int{4, 3}, []int{rows[0].Count, rows[1].Count})
	assert.Equal(t, 1, store.saves[SummaryArtifact])

	store.saveErr = errors.New("read-only")
	err = c.Put(context.Background(), manyRows(1))
	require.Error(t, err)
	rows, _ = c.Get(context.Background())
	assert.Len(t, rows, 1, "in-memory value replaced despite write failure")
}
