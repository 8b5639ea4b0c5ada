package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
env: "dev"
storage_path: "storage/test.db"
http_server:
  address: "localhost:9000"
auth:
  secret: "s3cret"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "storage/test.db", cfg.StoragePath)
	assert.Equal(t, "localhost:9000", cfg.HTTPServer.Addr)
	assert.Equal(t, "s3cret", cfg.Auth.Secret)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "storage/uploads", cfg.Uploads.Dir)
	assert.Equal(t, int64(5242880), cfg.Uploads.MaxBytes)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, `
env: "prod"
storage_path: "storage/test.db"
http_server:
  address: "localhost:9000"
auth:
  secret: "from-file"
  token_ttl: "30m"
`)
	t.Setenv("AUTH_SECRET", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.Secret)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
