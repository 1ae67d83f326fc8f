// Command warmcache precomputes the persisted cache artifacts for the
// unfiltered heatmap. It pulls every location's aggregate from the ticket
// database, writes the full dump, then derives the top-N summary and the
// rendered payload exactly as the server would.
//
// Usage:
//
//	go run ./cmd/warmcache -cache-dir data
//
// Database and artifact store settings come from the same environment
// variables as the server (DB_DRIVER, DATABASE_URL, CACHE_BACKEND, ...).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisadapter "github.com/couchcryptid/parkwise-risk-service/internal/adapter/redis"
	sqladapter "github.com/couchcryptid/parkwise-risk-service/internal/adapter/sql"
	"github.com/couchcryptid/parkwise-risk-service/internal/cache"
	"github.com/couchcryptid/parkwise-risk-service/internal/config"
	"github.com/couchcryptid/parkwise-risk-service/internal/domain"
	"github.com/couchcryptid/parkwise-risk-service/internal/observability"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cacheDir := flag.String("cache-dir", cfg.CacheDir, "artifact directory (file backend only)")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall deadline for the database query")
	flag.Parse()
	cfg.CacheDir = *cacheDir

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	db, err := sqladapter.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	source, err := sqladapter.NewSource(db)
	if err != nil {
		return err
	}

	store, closeStore := openStore(cfg)
	defer closeStore()

	start := time.Now()
	rows, err := source.FetchAll(ctx, domain.Filter{})
	if err != nil {
		return fmt.Errorf("fetch all locations: %w", err)
	}
	log.Printf("fetched %d locations in %s", len(rows), time.Since(start).Round(time.Millisecond))

	dump, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode dump: %w", err)
	}
	if err := store.Save(ctx, cache.DumpArtifact, dump); err != nil {
		return fmt.Errorf("write dump: %w", err)
	}
	log.Printf("wrote %s (%d bytes)", cache.DumpArtifact, len(dump))

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	caches := cache.NewHierarchy(store, cache.Options{SummaryLimit: cfg.SummaryLimit}, logger, metrics)

	if err := caches.Summary.Put(ctx, rows); err != nil {
		return err
	}
	summary, _ := caches.Summary.Get(ctx)
	log.Printf("wrote %s (%d of %d locations)", cache.SummaryArtifact, len(summary), len(rows))

	geocoder := domain.NewSyntheticGeocoder()
	payload := domain.BuildHeatmap(summary, geocoder)
	if err := caches.Payload.Put(ctx, payload); err != nil {
		return err
	}
	log.Printf("wrote %s (%d entries, %d geocoded)", cache.PayloadArtifact, len(payload), geocoder.Len())

	printStats(summary)
	return nil
}

func openStore(cfg *config.Config) (cache.ArtifactStore, func()) {
	if cfg.CacheBackend == config.BackendRedis {
		rs := redisadapter.NewStore(redisadapter.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), cfg.RedisKeyPrefix)
		return rs, func() { rs.Close() }
	}
	return cache.NewFileStore(cfg.CacheDir), func() {}
}

func printStats(rows []domain.AggregateRow) {
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "no locations found; payload is empty")
		return
	}
	total := 0
	for _, r := range rows {
		total += r.Count
	}
	fmt.Println()
	fmt.Printf("  busiest location   %s (%d tickets)\n", rows[0].Location, rows[0].Count)
	fmt.Printf("  quietest in top-N  %s (%d tickets)\n", rows[len(rows)-1].Location, rows[len(rows)-1].Count)
	fmt.Printf("  tickets in top-N   %d\n", total)
}
