package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppConfigRequiresSecrets(t *testing.T) {
	t.Setenv("DB_URL", "")
	_, err := LoadAppConfig()
	assert.Error(t, err)

	t.Setenv("DB_URL", "postgres://localhost/youthhealth")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("PASETO_KEY", "too-short")
	_, err = LoadAppConfig()
	assert.Error(t, err)
}

func TestLoadAppConfigDefaults(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/youthhealth")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("PASETO_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("CORS_ORIGINS", "https://a.example.org, https://b.example.org")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")
	t.Setenv("RT_PING_INTERVAL", "5s")

	cfg, err := LoadAppConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.org", "https://b.example.org"}, cfg.AllowedOrigins)
	assert.Equal(t, 30, cfg.RateBurst)
	assert.Equal(t, 5*time.Second, cfg.PingInterval)
	assert.Equal(t, 20*time.Second, cfg.PingTimeout)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoadAgentConfig(t *testing.T) {
	t.Setenv("API_URL", "")
	_, err := LoadAgentConfig()
	assert.Error(t, err)

	t.Setenv("API_URL", "http://localhost:8930")
	t.Setenv("RT_URL", "")
	t.Setenv("RT_COALESCE_WINDOW", "1s")
	cfg, err := LoadAgentConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8930", cfg.RealtimeURL)
	assert.Equal(t, time.Second, cfg.CoalesceWindow)
	assert.Equal(t, "@every 5m", cfg.ResyncSchedule)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("YH_TEST_FROM_FILE=yes\n"), 0o600))
	t.Setenv("YH_TEST_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("YH_TEST_FROM_FILE"))

	LoadEnv(path)
	assert.Equal(t, "yes", os.Getenv("YH_TEST_FROM_FILE"))

	LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
}

func TestNewLogger(t *testing.T) {
	l := NewLogger("debug", "production")
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)

	l = NewLogger("loud", "development")
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, l.Formatter)
}
