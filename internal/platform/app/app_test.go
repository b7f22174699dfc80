package app_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/SscSPs/ohada_reporting_app/internal/platform/app"
	"github.com/SscSPs/ohada_reporting_app/internal/platform/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, backend string) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		CacheBackend:         backend,
		CacheDir:             filepath.Join(dir, "cache"),
		OutputDir:            filepath.Join(dir, "output"),
		TransactionsDir:      filepath.Join(dir, "ALL_TRANSACTIONS"),
		InitialBalancePrefix: filepath.Join(dir, "INITIAL BALANCE", "Initial Balance"),
		RedisKeyPrefix:       "ohada:test_cache",
		Companies:            map[string]string{"CI13": "SECO"},
	}
}

func TestNew_Backends(t *testing.T) {
	mr := miniredis.RunT(t)
	logger := app.NewLogger(&bytes.Buffer{}, "debug")

	cases := []struct {
		backend  string
		location string
	}{
		{config.CacheBackendFile, "cache_metadata.json"},
		{config.CacheBackendMemory, "memory"},
		{config.CacheBackendRedis, "ohada:test_cache"},
	}
	for _, tc := range cases {
		t.Run(tc.backend, func(t *testing.T) {
			cfg := testConfig(t, tc.backend)
			cfg.RedisURL = mr.Addr()

			a, err := app.New(context.Background(), cfg, logger)
			require.NoError(t, err)
			defer a.Close()

			require.NotNil(t, a.Services)
			require.NotNil(t, a.Services.Reporting)
			assert.Equal(t, tc.backend == config.CacheBackendRedis, a.Redis != nil)

			stats, err := a.Services.Reporting.CacheStats(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.backend, stats.Backend)
			assert.Zero(t, stats.EntryCount)
			assert.Contains(t, stats.Location, tc.location)
		})
	}
}

func TestNew_RedisUnreachable(t *testing.T) {
	cfg := testConfig(t, config.CacheBackendRedis)
	cfg.RedisURL = "127.0.0.1:1"

	_, err := app.New(context.Background(), cfg, app.NewLogger(&bytes.Buffer{}, "info"))
	assert.ErrorContains(t, err, "redis cache backend")
}

func TestNew_BadLayoutFile(t *testing.T) {
	cfg := testConfig(t, config.CacheBackendMemory)
	cfg.LayoutFile = filepath.Join(t.TempDir(), "missing.json")

	_, err := app.New(context.Background(), cfg, app.NewLogger(&bytes.Buffer{}, "info"))
	assert.ErrorContains(t, err, "failed to read layout file")
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := app.NewLogger(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	app.NewLogger(&buf, "bogus").Info("default level")
	assert.Contains(t, buf.String(), "default level")
}
