package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Aggregate source.
	DBDriver    string
	DatabaseURL string

	// Persisted cache artifacts.
	CacheBackend   string
	CacheDir       string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string

	// Cache tier sizing.
	QueryCacheSize   int
	QueryResultLimit int
	SummaryLimit     int

	// Overall heatmap snapshot publishing.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSnapshotTopic string
}

const (
	defaultDatabaseURL = "postgres://postgres@localhost:5432/parking_tickets?sslmode=disable"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	BackendFile  = "file"
	BackendRedis = "redis"
)

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	queryCacheSize, err := parsePositiveInt("QUERY_CACHE_SIZE", 32)
	if err != nil {
		return nil, err
	}
	queryResultLimit, err := parsePositiveInt("QUERY_RESULT_LIMIT", 2000)
	if err != nil {
		return nil, err
	}
	summaryLimit, err := parsePositiveInt("SUMMARY_LIMIT", 1000)
	if err != nil {
		return nil, err
	}

	redisDB, err := strconv.Atoi(sharedcfg.EnvOrDefault("REDIS_DB", "0"))
	if err != nil || redisDB < 0 {
		return nil, errors.New("invalid REDIS_DB")
	}

	kafkaEnabled := os.Getenv("KAFKA_BROKERS") != ""
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":5000"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DBDriver:    sharedcfg.EnvOrDefault("DB_DRIVER", DriverPostgres),
		DatabaseURL: sharedcfg.EnvOrDefault("DATABASE_URL", defaultDatabaseURL),

		CacheBackend:   sharedcfg.EnvOrDefault("CACHE_BACKEND", BackendFile),
		CacheDir:       sharedcfg.EnvOrDefault("CACHE_DIR", "data"),
		RedisAddr:      sharedcfg.EnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        redisDB,
		RedisKeyPrefix: sharedcfg.EnvOrDefault("REDIS_KEY_PREFIX", "parkwise:"),

		QueryCacheSize:   queryCacheSize,
		QueryResultLimit: queryResultLimit,
		SummaryLimit:     summaryLimit,

		KafkaEnabled:       kafkaEnabled,
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSnapshotTopic: sharedcfg.EnvOrDefault("KAFKA_SNAPSHOT_TOPIC", "heatmap-snapshots"),
	}

	if cfg.DBDriver != DriverPostgres && cfg.DBDriver != DriverSQLite {
		return nil, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, cfg.DBDriver)
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.CacheBackend != BackendFile && cfg.CacheBackend != BackendRedis {
		return nil, fmt.Errorf("CACHE_BACKEND must be %q or %q, got %q", BackendFile, BackendRedis, cfg.CacheBackend)
	}
	if cfg.CacheBackend == BackendFile && cfg.CacheDir == "" {
		return nil, errors.New("CACHE_DIR is required for the file cache backend")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaSnapshotTopic == "" {
		return nil, errors.New("KAFKA_SNAPSHOT_TOPIC is required")
	}

	return cfg, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}
