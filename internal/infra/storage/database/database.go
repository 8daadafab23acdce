package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/itvlab/lab-scheduler/internal/config"
	"github.com/itvlab/lab-scheduler/pkg/psqlbuilder"
)

var (
	// ErrOpen ошибка подключения к базе данных
	ErrOpen = errors.New("database: failed to open")
)

// Open открывает пул соединений для драйвера из конфигурации и проверяет соединение
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, psqlbuilder.Dialect, error) {
	var (
		driverName string
		dialect    psqlbuilder.Dialect
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		driverName, dialect = "postgres", psqlbuilder.Postgres
	case config.DriverSQLite:
		driverName, dialect = "sqlite", psqlbuilder.SQLite
	default:
		return nil, "", fmt.Errorf("%w: unsupported driver %q", ErrOpen, cfg.Driver)
	}

	db, err := sql.Open(driverName, cfg.DSN())
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrOpen, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("%w: ping: %v", ErrOpen, err)
	}

	return db, dialect, nil
}
