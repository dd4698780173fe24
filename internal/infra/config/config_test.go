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
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadFile(writeConfig(t, "{}\n"))
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.Server.Address)
		assert.Equal(t, []string{"question", "user", "document"}, cfg.Broker.AllowedApps)
		assert.Equal(t, 15*time.Minute, cfg.Broker.URLExpiry)
		assert.Equal(t, "question", cfg.Client.AppName)
		assert.Equal(t, 3, cfg.Client.Concurrency)
		assert.Equal(t, int64(10*1024*1024), cfg.Client.MaxSizeBytes)
		assert.Equal(t, "s3", cfg.Storage.Driver)
		assert.False(t, cfg.Database.Enabled)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("file_values", func(t *testing.T) {
		cfg, err := LoadFile(writeConfig(t, `
server:
  address: ":9090"
storage:
  driver: minio
  endpoint: http://localhost:9000
  bucket: uploads
broker:
  allowed_apps: [avatars]
  url_expiry: 5m
  public_base_url: https://cdn.example.com
client:
  broker_url: https://api.example.com/api
  concurrency: 5
  allowed_types: [image/png, image/jpeg]
`))
		require.NoError(t, err)

		assert.Equal(t, ":9090", cfg.Server.Address)
		assert.Equal(t, "minio", cfg.Storage.Driver)
		assert.Equal(t, "uploads", cfg.Storage.Bucket)
		assert.Equal(t, []string{"avatars"}, cfg.Broker.AllowedApps)
		assert.Equal(t, 5*time.Minute, cfg.Broker.URLExpiry)
		assert.Equal(t, "https://cdn.example.com", cfg.Broker.PublicBaseURL)
		assert.Equal(t, "https://api.example.com/api", cfg.Client.BrokerURL)
		assert.Equal(t, 5, cfg.Client.Concurrency)
		assert.Equal(t, []string{"image/png", "image/jpeg"}, cfg.Client.AllowedTypes)
	})

	t.Run("secret_overrides", func(t *testing.T) {
		t.Setenv("UPLOADER_JWT_SECRET", "jwt-secret")
		t.Setenv("UPLOADER_STORAGE_SECRET_KEY", "storage-secret")
		t.Setenv("UPLOADER_DB_PASSWORD", "db-secret")
		t.Setenv("UPLOADER_REDIS_PASSWORD", "redis-secret")
		t.Setenv("UPLOADER_TOKEN", "bearer-token")
		t.Setenv("UPLOADER_URL", "https://broker.example.com")
		t.Setenv("UPLOADER_ALLOWED_APPS", "question, avatars ,")

		cfg, err := LoadFile(writeConfig(t, "{}\n"))
		require.NoError(t, err)

		assert.Equal(t, "jwt-secret", cfg.Auth.JWTSecret)
		assert.Equal(t, "storage-secret", cfg.Storage.SecretAccessKey)
		assert.Equal(t, "db-secret", cfg.Database.Password)
		assert.Equal(t, "redis-secret", cfg.Redis.Password)
		assert.Equal(t, "bearer-token", cfg.Client.Token)
		assert.Equal(t, "https://broker.example.com", cfg.Client.BrokerURL)
		assert.Equal(t, []string{"question", "avatars"}, cfg.Broker.AllowedApps)
	})

	t.Run("nested_env", func(t *testing.T) {
		t.Setenv("UPLOADER_CLIENT_CONCURRENCY", "7")

		cfg, err := LoadFile(writeConfig(t, "{}\n"))
		require.NoError(t, err)

		assert.Equal(t, 7, cfg.Client.Concurrency)
	})

	t.Run("invalid_file", func(t *testing.T) {
		_, err := LoadFile(writeConfig(t, "server: [unterminated\n"))
		assert.Error(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := &DatabaseConfig{Host: "db", Port: 5432, User: "u", Database: "uploader", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u dbname=uploader sslmode=disable", c.DSN())

	c.Password = "p"
	assert.Equal(t, "host=db port=5432 user=u dbname=uploader sslmode=disable password=p", c.DSN())
}
