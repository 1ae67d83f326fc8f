package cache

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/couchcryptid/parkwise-risk-service/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

// memStore is an in-memory ArtifactStore that counts calls and can be told to fail.
type memStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	loads   map[string]int
	saves   map[string]int
	loadErr error
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{
		data:  make(map[string][]byte),
		loads: make(map[string]int),
		saves: make(map[string]int),
	}
}

func (m *memStore) Load(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads[name]++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	d, ok := m.data[name]
	if !ok {
		return nil, ErrArtifactNotFound
	}
	return d, nil
}

func (m *memStore) Save(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves[name]++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[name] = data
	return nil
}
