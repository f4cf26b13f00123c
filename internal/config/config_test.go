package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "blogapi.db", cfg.Database.Path)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWTTTL)
	assert.Equal(t, StorageLocal, cfg.Storage.Driver)
	assert.NotEmpty(t, cfg.Auth.JWTSecret)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "PGX")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("JWT_TTL", "2h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPgx, cfg.Database.Driver)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.Auth.JWTTTL)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("APP_ENV", "development")

	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("UPLOAD_DIR=/tmp/blog-media\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("UPLOAD_DIR") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/blog-media", cfg.Storage.UploadDir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Database.Driver = "mysql" },
			wantErr: "unsupported DB_DRIVER",
		},
		{
			name:    "missing secret in production",
			mutate:  func(c *Config) { c.AppEnv = "production"; c.Auth.JWTSecret = "" },
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "s3 without bucket",
			mutate:  func(c *Config) { c.Storage.Driver = StorageS3 },
			wantErr: "S3_BUCKET is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				AppEnv:   "development",
				Database: DatabaseConfig{Driver: DriverSQLite},
				Storage:  StorageConfig{Driver: StorageLocal},
				Auth:     AuthConfig{JWTSecret: "x", JWTTTL: time.Hour},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
