package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SscSPs/ohada_reporting_app/internal/apperrors"
	"github.com/SscSPs/ohada_reporting_app/internal/dto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the command tree against a memory cache and an empty data folder.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("OUTPUT_DIR", filepath.Join(dir, "output"))
	t.Setenv("TRANSACTIONS_DIR", filepath.Join(dir, "ALL_TRANSACTIONS"))
	t.Setenv("INITIAL_BALANCE_PREFIX", filepath.Join(dir, "INITIAL BALANCE", "Initial Balance"))
	t.Setenv("CHART_OF_ACCOUNTS_PATH", filepath.Join(dir, "Plan_Comptable_OHADA.xlsx"))
	t.Setenv("BANK_ACCOUNTS_PATH", filepath.Join(dir, "bnk_gls.txt"))
	t.Setenv("LOG_LEVEL", "error")

	c := &cli{}
	defer c.close()
	root := newRootCommand(c)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTypesCommand(t *testing.T) {
	out, err := runCLI(t, "types")
	require.NoError(t, err)
	assert.Contains(t, out, "gl_compta_gen")
	assert.Contains(t, out, "BALANCE CLIENTS")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 8)
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "cli-secret")
	out, err := runCLI(t, "token", "--operator", "ops", "--ttl", "1h")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(strings.TrimSpace(out), claims, func(*jwt.Token) (interface{}, error) {
		return []byte("cli-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ops", claims["sub"])
	assert.Equal(t, "admin", claims["role"])
}

func TestTokenCommand_NoSecret(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "")
	_, err := runCLI(t, "token", "--operator", "ops")
	assert.ErrorContains(t, err, "empty secret")
}

func TestCacheStatsCommand(t *testing.T) {
	out, err := runCLI(t, "cache", "stats")
	require.NoError(t, err)

	var stats dto.CacheStatsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 0, stats.TotalEntries)
	assert.Equal(t, "memory", stats.Backend)
}

func TestCacheListCommand(t *testing.T) {
	out, err := runCLI(t, "cache", "list")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = runCLI(t, "cache", "list", "--limit", "500")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCacheClearCommand(t *testing.T) {
	out, err := runCLI(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache cleared")

	_, err = runCLI(t, "cache", "clear", "--key", "bal_gen:CI13")
	assert.ErrorContains(t, err, "malformed cache key")
}

func TestReportCommand_MissingOpeningBalance(t *testing.T) {
	_, err := runCLI(t, "report", "--type", "bal_gen", "--company", "CI13", "--year", "2024")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMissingSourceFile)
}

func TestReportCommand_NotImplemented(t *testing.T) {
	_, err := runCLI(t, "report", "--type", "bal_aux", "--company", "CI13", "--year", "2024")
	assert.ErrorIs(t, err, apperrors.ErrNotImplemented)
}

func TestReportCommand_RequiredFlags(t *testing.T) {
	_, err := runCLI(t, "report", "--type", "bal_gen")
	assert.ErrorContains(t, err, "required flag")
}
