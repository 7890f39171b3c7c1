package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("NETWORK", "mainnet")
	t.Setenv("PROXY_ADDR", ":8080")
	t.Setenv("UPSTREAM_DNS", "svc.cluster.local")
	t.Setenv("UPSTREAM_PORT", "1442")
	t.Setenv("TIERS_PATH", "/etc/gateway/tiers.json")
	t.Setenv("POSTGRES_DSN", "host=localhost user=gw dbname=gw")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mainnet", cfg.Network)
	assert.Equal(t, "/_health", cfg.HealthEndpoint)
	assert.Equal(t, "X-API-Key", cfg.APIKeyHeader)
	assert.Equal(t, `^PUT/patterns(?:/.*)?$`, cfg.PrivateEndpoint)
	assert.Equal(t, 2*time.Second, cfg.TiersPollInterval)
	assert.Equal(t, 10*time.Second, cfg.HealthPollInterval)
	assert.Equal(t, 30*time.Second, cfg.DirectoryPollInterval)
}

func TestLoadMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("NETWORK", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NETWORK")
}

func TestLoadRejectsBadPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("UPSTREAM_PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadPrivatePattern(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PRIVATE_ENDPOINT_REGEX", "([")

	_, err := Load()
	assert.Error(t, err)
}

func TestInstance(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "indexer-mainnet.svc.cluster.local:1442", cfg.Instance(false))
	assert.Equal(t, "indexer-mainnet-pruned.svc.cluster.local:1442", cfg.Instance(true))
	assert.Equal(t, "http://indexer-mainnet.svc.cluster.local:1442/health", cfg.HealthProbeURL())
}

func TestPollIntervalFromEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TIERS_POLL_INTERVAL", "7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, cfg.TiersPollInterval)
}
