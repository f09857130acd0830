package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAll_Defaults(t *testing.T) {
	cfg, err := LoadAll("SI_TEST_DEFAULTS")
	require.NoError(t, err)

	assert.Equal(t, StoreBackendBolt, cfg.ContentStore.Backend)
	assert.Equal(t, "content.db", cfg.ContentStore.BoltPath)
	assert.Equal(t, "edda", cfg.Stream.ConsumerGroup)
	assert.Equal(t, 250, cfg.Stream.ReadWindowCeiling)
	assert.Equal(t, "development", cfg.Service.Environment)
}

func TestLoadAll_PostgresBackendFromEnv(t *testing.T) {
	t.Setenv("SI_TEST_PG_STORE_BACKEND", "postgres")
	t.Setenv("SI_TEST_PG_STORE_PG_HOSTNAME", "db.internal")
	t.Setenv("SI_TEST_PG_STORE_PG_PORT", "5433")
	t.Setenv("SI_TEST_PG_STORE_PG_POOL_MAX_SIZE", "25")

	cfg, err := LoadAll("SI_TEST_PG")
	require.NoError(t, err)

	assert.Equal(t, StoreBackendPostgres, cfg.ContentStore.Backend)
	assert.Equal(t, "db.internal", cfg.ContentStore.Postgres.Hostname)
	assert.Equal(t, 5433, cfg.ContentStore.Postgres.Port)
	assert.Equal(t, 25, cfg.ContentStore.Postgres.PoolMaxSize)
}

func TestLoadAll_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("SI_TEST_BAD_STORE_BACKEND", "couchdb")

	_, err := LoadAll("SI_TEST_BAD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ContentStore.Backend")
}

func TestPgPoolConfig_PoolConfig(t *testing.T) {
	pc := PgPoolConfig{
		User:                   "si",
		Password:               "secret",
		DBName:                 "si_content",
		ApplicationName:        "si-core-test",
		Hostname:               "localhost",
		Port:                   5432,
		PoolMaxSize:            7,
		PoolTimeoutWaitSecs:    5,
		PoolTimeoutCreateSecs:  3,
		PoolTimeoutRecycleSecs: 1800,
	}

	cfg, err := pc.PoolConfig()
	require.NoError(t, err)
	assert.Equal(t, int32(7), cfg.MaxConns)
	assert.Equal(t, 30*time.Minute, cfg.MaxConnLifetime)
	assert.Equal(t, "si_content", cfg.ConnConfig.Database)
	assert.Equal(t, "localhost", cfg.ConnConfig.Host)
}

func TestPgPoolConfig_LogFieldsMasksPassword(t *testing.T) {
	pc := LoadPgPoolConfig("SI_TEST_MASK")
	pc.Password = "supersecretpassword"

	fields := pc.LogFields()
	assert.NotContains(t, fields["pg_password"], "secretpass")
}

func TestStreamConfig_StreamKey(t *testing.T) {
	sc := StreamConfig{StreamPrefix: "edda.requests"}
	assert.Equal(t, "edda.requests.cs-42", sc.StreamKey("cs-42"))
}
