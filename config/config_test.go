package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  port: 9090
  read_timeout: 15s
database:
  driver: sqlite
  path: cms.db
redis:
  page_ttl: 1m
jwt:
  secret: from-file
email:
  timeout: 3s
asset:
  max_size: 1024
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	conf, err := Load(writeConfig(t))
	require.NoError(t, err)

	assert.Equal(t, 9090, conf.Server.Port)
	assert.Equal(t, 15*time.Second, conf.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, conf.Server.ShutdownTimeout)
	assert.Equal(t, "sqlite", conf.Database.Driver)
	assert.Equal(t, time.Minute, conf.Redis.PageTTL)
	assert.Equal(t, 3*time.Second, conf.Email.Timeout)
	assert.Equal(t, int64(1024), conf.Asset.MaxSize)
	assert.Equal(t, "content/guides", conf.Content.Dir)
	assert.Contains(t, conf.Asset.AllowedTypes, "image/png")
	assert.Equal(t, "seichi-cms", conf.Log.Service)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("SERVER_PORT", "7070")

	conf, err := Load(writeConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "from-env", conf.JWT.Secret)
	assert.Equal(t, 7070, conf.Server.Port)
}

func TestLoad_EnvOverridesDuration(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		got   func(*AppConfig) time.Duration
		want  time.Duration
	}{
		{"页面缓存时长", "REDIS_PAGE_TTL", "90s", func(c *AppConfig) time.Duration { return c.Redis.PageTTL }, 90 * time.Second},
		{"邮件超时", "EMAIL_TIMEOUT", "3s", func(c *AppConfig) time.Duration { return c.Email.Timeout }, 3 * time.Second},
		{"关闭超时", "SERVER_SHUTDOWN_TIMEOUT", "1m30s", func(c *AppConfig) time.Duration { return c.Server.ShutdownTimeout }, 90 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			conf, err := Load(writeConfig(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, tt.got(conf))
		})
	}
}

func TestLoad_DurationWithoutUnitFails(t *testing.T) {
	t.Setenv("REDIS_PAGE_TTL", "60")

	_, err := Load(writeConfig(t))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.port", envKey("SERVER_PORT"))
	assert.Equal(t, "database.max_open_conns", envKey("DATABASE_MAX_OPEN_CONNS"))
	assert.Equal(t, "", envKey("HOME"))
}
