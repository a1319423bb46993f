package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 100, c.Market.SeriesDays)
	assert.Equal(t, "none", c.Activity.Backend)
	assert.Equal(t, 5*time.Second, c.Flags.Timeout)
	assert.Equal(t, []string{"*"}, c.Server.AllowOrigins)
	assert.Equal(t, -1, c.Kafka.RequiredAcks)
}

func TestLoadOverridesDefaults(t *testing.T) {
	p := writeFile(t, `
environment: production
server:
  port: 9090
market:
  series_days: 30
  seed: 7
flags:
  client_key: sdk-test
activity:
  backend: clickhouse
clickhouse:
  host: ch.local
`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "production", c.Environment)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, 30, c.Market.SeriesDays)
	assert.Equal(t, int64(7), c.Market.Seed)
	assert.Equal(t, "sdk-test", c.Flags.ClientKey)
	assert.Equal(t, 15*time.Second, c.Server.ReadTimeout, "unset keys keep defaults")
}

func TestValidate(t *testing.T) {
	_, err := Load(writeFile(t, "activity:\n  backend: kafka\n"))
	assert.ErrorContains(t, err, "kafka.brokers")

	_, err = Load(writeFile(t, "activity:\n  backend: s3\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "server:\n  port: 0\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":                              "7000",
		"KAFKA_BROKERS":                     "k1:9092,k2:9092",
		"NEXT_PUBLIC_GROWTHBOOK_CLIENT_KEY": "sdk-next",
		"REDIS_ENABLED":                     "true",
	}
	c := Default()
	c.applyEnv(func(k string) string { return env[k] })
	assert.Equal(t, 7000, c.Server.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, "sdk-next", c.Flags.ClientKey)
	assert.True(t, c.Redis.Enabled)
}
