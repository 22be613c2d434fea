package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"ADDR", "TLS", "DEBUG", "SEARCH_QUICK", "SEARCH_WORKERS", "SEARCH_SLICES", "RATE_LIMIT", "RATE_BURST", "DATABASE_URL", "TOKEN_KEY"} {
		t.Setenv(k, "")
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ":443", cfg.Addr)
	assert.True(t, cfg.TLS)
	assert.False(t, cfg.SearchQuick)
	assert.Equal(t, 30, cfg.SearchSlices)
	assert.Greater(t, cfg.SearchWorkers, 0)
	assert.Equal(t, 3, cfg.RateBurst)
	assert.Equal(t, 1.0, cfg.RateLimit)
	assert.Contains(t, cfg.DatabaseURL, "sslmode=disable")
}

func TestLoad_FromFile(t *testing.T) {
	for _, k := range []string{"ADDR", "SEARCH_QUICK", "SEARCH_SLICES", "TOKEN_KEY"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ADDR=:8080\nSEARCH_QUICK=true\nSEARCH_SLICES=60\nTOKEN_KEY=secret\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.True(t, cfg.SearchQuick)
	assert.Equal(t, 60, cfg.SearchSlices)
	assert.Equal(t, "secret", cfg.TokenKey)
}

func TestLoad_InvalidNumber(t *testing.T) {
	t.Setenv("SEARCH_WORKERS", "many")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEARCH_WORKERS")
}

func TestDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"user=a dbname=b", "user=a dbname=b sslmode=require"},
		{"postgres://u@h/db", "postgres://u@h/db?sslmode=require"},
		{"postgres://u@h/db?connect_timeout=5", "postgres://u@h/db?connect_timeout=5&sslmode=require"},
		{"user=a sslmode=disable", "user=a sslmode=disable"},
		{MemoryDSN, MemoryDSN},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DSN(tt.in))
	}
}
