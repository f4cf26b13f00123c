package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"blogapi/internal/config"
	"blogapi/pkg/logger"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DialectFor maps a database/sql driver name to its SQL dialect.
func DialectFor(driver string) Dialect {
	if driver == config.DriverSQLite {
		return DialectSQLite
	}
	return DialectPostgres
}

type ConnectionManager struct {
	db      *sql.DB
	driver  string
	dialect Dialect
	logger  logger.Logger
}

func NewConnectionManager(ctx context.Context, cfg config.DatabaseConfig, logger logger.Logger) (*ConnectionManager, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("database connection could not be opened: %w", err)
	}

	cm := &ConnectionManager{
		db:      db,
		driver:  cfg.Driver,
		dialect: DialectFor(cfg.Driver),
		logger:  logger,
	}
	cm.configurePool(cfg)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database connection could not be verified: %w", err)
	}

	logger.InfoContext(ctx, "Database connection established", map[string]interface{}{
		"driver": cfg.Driver,
		"target": describe(cfg),
	})

	return cm, nil
}

// DSN builds the data source name for the configured driver. lib/pq and the
// pgx stdlib driver both accept the keyword/value form.
func DSN(cfg config.DatabaseConfig) (string, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		if cfg.Path == "" {
			return "", fmt.Errorf("DB_PATH is required for %s", cfg.Driver)
		}
		return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", cfg.Path), nil
	case config.DriverPostgres, config.DriverPgx:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode), nil
	}
	return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

func (cm *ConnectionManager) configurePool(cfg config.DatabaseConfig) {
	if cm.dialect == DialectSQLite {
		// SQLite serializes writers; one connection keeps transactions from
		// failing with SQLITE_BUSY.
		cm.db.SetMaxOpenConns(1)
		return
	}

	if cfg.MaxOpenConns > 0 {
		cm.db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		cm.db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		cm.db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

func describe(cfg config.DatabaseConfig) string {
	if cfg.Driver == config.DriverSQLite {
		return cfg.Path
	}
	return fmt.Sprintf("%s:%s/%s", cfg.Host, cfg.Port, cfg.Name)
}

func (cm *ConnectionManager) GetDB() *sql.DB {
	return cm.db
}

func (cm *ConnectionManager) Driver() string {
	return cm.driver
}

func (cm *ConnectionManager) Dialect() Dialect {
	return cm.dialect
}

func (cm *ConnectionManager) Ping(ctx context.Context) error {
	return cm.db.PingContext(ctx)
}

func (cm *ConnectionManager) Close() error {
	if err := cm.db.Close(); err != nil {
		cm.logger.Error("Database connection could not be closed", map[string]interface{}{"error": err.Error()})
		return err
	}
	return nil
}

func (cm *ConnectionManager) GetStats() map[string]interface{} {
	stats := cm.db.Stats()
	return map[string]interface{}{
		"driver":           cm.driver,
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"wait_count":       stats.WaitCount,
		"wait_duration":    stats.WaitDuration.String(),
	}
}
