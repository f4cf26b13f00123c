package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogapi/internal/config"
	"blogapi/pkg/logger"
)

func TestDSN(t *testing.T) {
	dsn, err := DSN(config.DatabaseConfig{Driver: config.DriverSQLite, Path: "/tmp/blog.db"})
	require.NoError(t, err)
	assert.Equal(t, "file:/tmp/blog.db?_foreign_keys=on&_busy_timeout=5000", dsn)

	dsn, err = DSN(config.DatabaseConfig{
		Driver: config.DriverPgx, Host: "db", Port: "5432", User: "blog",
		Password: "pw", Name: "blog", SSLMode: "disable",
	})
	require.NoError(t, err)
	assert.Equal(t, "host=db port=5432 user=blog password=pw dbname=blog sslmode=disable", dsn)

	_, err = DSN(config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)

	_, err = DSN(config.DatabaseConfig{Driver: config.DriverSQLite})
	assert.Error(t, err)
}

func TestDialectFor(t *testing.T) {
	assert.Equal(t, DialectSQLite, DialectFor(config.DriverSQLite))
	assert.Equal(t, DialectPostgres, DialectFor(config.DriverPostgres))
	assert.Equal(t, DialectPostgres, DialectFor(config.DriverPgx))
}

func TestConnectionManagerSQLite(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "blog.db")}

	cm, err := NewConnectionManager(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { cm.Close() })

	assert.Equal(t, DialectSQLite, cm.Dialect())
	assert.NoError(t, cm.Ping(context.Background()))

	var fk int
	require.NoError(t, cm.GetDB().QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	stats := cm.GetStats()
	assert.Equal(t, config.DriverSQLite, stats["driver"])
}
