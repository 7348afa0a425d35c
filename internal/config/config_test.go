package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/santiago072004/Tienda/pkg/config/configloader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T) (*Config, error) {
	t.Helper()
	dir := t.TempDir()
	return configloader.LoadWithOptions[*Config]("storefront", configloader.Options{
		ConfigFile: filepath.Join(dir, "missing.yaml"),
		EnvFile:    filepath.Join(dir, "missing.env"),
		Defaults:   Defaults(),
	})
}

func TestDefaultsAreValid(t *testing.T) {
	// when
	cfg, err := load(t)

	// then
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPServer.Port)
	assert.Equal(t, 2*time.Second, cfg.HTTPServer.Timeout.ReadHeader)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, time.Second, cfg.Latency.Auth)
	assert.Equal(t, 2*time.Second, cfg.Latency.Contact)
	assert.Equal(t, 10000, cfg.Session.MaxSessions)
	assert.False(t, cfg.Database.Enabled())
	assert.False(t, cfg.NATS.Enabled)
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	// given
	t.Setenv("STOREFRONT_SERVER_PORT", "9999")
	t.Setenv("STOREFRONT_SERVER_TIMEOUT_READHEADER", "7s")
	t.Setenv("STOREFRONT_STORAGE_DRIVER", "sqlite")
	t.Setenv("STOREFRONT_STORAGE_SQLITE_PATH", "/tmp/shop.db")
	t.Setenv("STOREFRONT_LATENCY_AUTH", "0s")
	t.Setenv("STOREFRONT_SESSION_MAXSESSIONS", "500")

	// when
	cfg, err := load(t)

	// then
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.HTTPServer.Port)
	assert.Equal(t, 7*time.Second, cfg.HTTPServer.Timeout.ReadHeader)
	assert.Equal(t, StorageSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/shop.db", cfg.Storage.SQLite.Path)
	assert.Zero(t, cfg.Latency.Auth)
	assert.Equal(t, 500, cfg.Session.MaxSessions)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		env    map[string]string
		errMsg string
	}{
		{name: "unknown storage driver", env: map[string]string{"STOREFRONT_STORAGE_DRIVER": "etcd"}, errMsg: "unknown storage driver"},
		{name: "redis without address", env: map[string]string{"STOREFRONT_STORAGE_DRIVER": "redis"}, errMsg: "redis address"},
		{name: "bad database url", env: map[string]string{"STOREFRONT_DATABASE_URL": "mysql://x"}, errMsg: "postgres://"},
		{name: "nats without url", env: map[string]string{"STOREFRONT_NATS_ENABLED": "true"}, errMsg: "NATS URL"},
		{name: "bad log level", env: map[string]string{"STOREFRONT_LOG_LEVEL": "loud"}, errMsg: "log level"},
		{name: "negative latency", env: map[string]string{"STOREFRONT_LATENCY_CONTACT": "-1s"}, errMsg: "latency"},
		{name: "no session capacity", env: map[string]string{"STOREFRONT_SESSION_MAXSESSIONS": "0"}, errMsg: "max sessions"},
		{name: "bad shutdown timeout", env: map[string]string{"STOREFRONT_SHUTDOWN_TIMEOUT": "0s"}, errMsg: "shutdown timeout"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			// when
			_, err := load(t)

			// then
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestString_MasksDatabaseCredentials(t *testing.T) {
	// given
	t.Setenv("STOREFRONT_DATABASE_URL", "postgres://user:secret@db:5432/shop")
	cfg, err := load(t)
	require.NoError(t, err)

	// when
	out := cfg.String()

	// then
	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, "****@db:5432/shop")
}
