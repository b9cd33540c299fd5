package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, LockBackendRedis, cfg.LockBackend)
	assert.Equal(t, 3*time.Second, cfg.LockWait)
	assert.Equal(t, 10*time.Second, cfg.LockLease)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("LOCK_BACKEND", LockBackendLocal)
	t.Setenv("LOCK_WAIT", "500ms")
	t.Setenv("LOCK_LEASE", "2s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, LockBackendLocal, cfg.LockBackend)
	assert.Equal(t, 500*time.Millisecond, cfg.LockWait)
	assert.Equal(t, 2*time.Second, cfg.LockLease)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("LOCK_WAIT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := Config{
		PostgresDSN:      "",
		LockBackend:      "etcd",
		LockWait:         5 * time.Second,
		LockLease:        time.Second,
		RequestTimeout:   time.Second,
		IdempotencyTTL:   time.Hour,
		CountCacheTTL:    time.Minute,
		ProjectorWorkers: 0,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_DSN")
	assert.Contains(t, err.Error(), "LOCK_BACKEND")
	assert.Contains(t, err.Error(), "LOCK_LEASE")
	assert.Contains(t, err.Error(), "PROJECTOR_WORKERS")
}

func TestRedactDSN(t *testing.T) {
	assert.Equal(t, "postgres://app:redacted@db:5432/offices", redactDSN("postgres://app:secret@db:5432/offices"))
	assert.Equal(t, "postgres://db:5432/offices", redactDSN("postgres://db:5432/offices"))
}
