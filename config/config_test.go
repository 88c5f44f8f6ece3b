package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_MODE", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, "debug", cfg.Mode)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.Equal(t, int64(10*1024*1024), cfg.MaxUploadSize)
	require.Equal(t, 30*time.Minute, cfg.SessionTTL)
	require.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	require.Empty(t, cfg.Redis.Addr)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_MODE", "release")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("SESSION_TTL", "10m")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "release", cfg.Mode)
	require.Equal(t, ":9090", cfg.HTTPAddr)
	require.Equal(t, "redis:6379", cfg.Redis.Addr)
	require.Equal(t, 2, cfg.Redis.DB)
	require.Equal(t, 5*time.Second, cfg.RequestTimeout)
	require.Equal(t, 10*time.Minute, cfg.SessionTTL)
}

func TestLoad_InvalidMode(t *testing.T) {
	t.Setenv("APP_MODE", "verbose")

	_, err := Load()
	require.Error(t, err)
}
