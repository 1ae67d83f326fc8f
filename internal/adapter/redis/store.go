// Package redis stores persisted cache artifacts as Redis string values, so
// several service replicas can share one derived summary and payload.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/couchcryptid/parkwise-risk-service/internal/cache"
	goredis "github.com/redis/go-redis/v9"
)

// NewClient opens a Redis client. The connection is established lazily.
func NewClient(addr, password string, db int) *goredis.Client {
	return goredis.NewClient(&goredis.Options{Addr: addr, Password: password, DB: db})
}

// Store is a cache.ArtifactStore over Redis. Artifacts never expire.
type Store struct {
	client *goredis.Client
	prefix string
}

// NewStore creates a Store that namespaces every artifact key with prefix.
func NewStore(client *goredis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

// Load returns the artifact bytes, or cache.ErrArtifactNotFound for a missing key.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, cache.ErrArtifactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key(name), err)
	}
	return data, nil
}

// Save overwrites the artifact.
func (s *Store) Save(ctx context.Context, name string, data []byte) error {
	if err := s.client.Set(ctx, s.key(name), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key(name), err)
	}
	return nil
}

// Ping verifies the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client's connections.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(name string) string {
	return s.prefix + name
}
