package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, defaultDatabaseURL, cfg.DatabaseURL)
	assert.Equal(t, BackendFile, cfg.CacheBackend)
	assert.Equal(t, "data", cfg.CacheDir)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Empty(t, cfg.RedisPassword)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, "parkwise:", cfg.RedisKeyPrefix)
	assert.Equal(t, 32, cfg.QueryCacheSize)
	assert.Equal(t, 2000, cfg.QueryResultLimit)
	assert.Equal(t, 1000, cfg.SummaryLimit)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "heatmap-snapshots", cfg.KafkaSnapshotTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file:tickets.db")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_KEY_PREFIX", "pw:")
	t.Setenv("QUERY_CACHE_SIZE", "64")
	t.Setenv("QUERY_RESULT_LIMIT", "500")
	t.Setenv("SUMMARY_LIMIT", "250")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SNAPSHOT_TOPIC", "custom-snapshots")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "file:tickets.db", cfg.DatabaseURL)
	assert.Equal(t, BackendRedis, cfg.CacheBackend)
	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Equal(t, "secret", cfg.RedisPassword)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "pw:", cfg.RedisKeyPrefix)
	assert.Equal(t, 64, cfg.QueryCacheSize)
	assert.Equal(t, 500, cfg.QueryResultLimit)
	assert.Equal(t, 250, cfg.SummaryLimit)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-snapshots", cfg.KafkaSnapshotTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mssql")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}

func TestLoad_InvalidCacheBackend(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "memcached")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_BACKEND")
}

func TestLoad_InvalidQueryCacheSize(t *testing.T) {
	t.Setenv("QUERY_CACHE_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QUERY_CACHE_SIZE")
}

func TestLoad_InvalidSummaryLimit(t *testing.T) {
	t.Setenv("SUMMARY_LIMIT", "lots")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUMMARY_LIMIT")
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "-1")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_DB")
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092")
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_KafkaExplicitlyEnabledUsesDefaultBroker(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
}
