package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "chirpy", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTTL)
	assert.Equal(t, 60*24*time.Hour, cfg.Auth.RefreshTTL)
	assert.Equal(t, "dev", cfg.API.Platform)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
}

func TestLoad_MissingSecret(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chirpy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  http_addr: ":9999"
auth:
  jwt_secret: from-file
  access_ttl: 30m
api:
  platform: prod
  polka_key: k
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.HTTPAddr)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, "prod", cfg.API.Platform)
	assert.Equal(t, "k", cfg.API.PolkaKey)
}
