// Package storagetest поднимает временную SQLite базу со схемой для тестов репозиториев и сервисов.
package storagetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/itvlab/lab-scheduler/internal/config"
	"github.com/itvlab/lab-scheduler/internal/infra/storage/database"
	"github.com/itvlab/lab-scheduler/internal/infra/storage/schema"
	"github.com/itvlab/lab-scheduler/pkg/dbmetrics"
	"github.com/itvlab/lab-scheduler/pkg/psqlbuilder"
	"github.com/itvlab/lab-scheduler/pkg/txmanager"
)

// DB тестовая база с менеджером транзакций
type DB struct {
	*dbmetrics.DB
	TxManager *txmanager.TransactionManager
	Dialect   psqlbuilder.Dialect
	Path      string
}

// NewSQLite создает файл SQLite во временной директории теста и применяет миграции
func NewSQLite(t *testing.T) *DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "lab.db")
	raw, dialect, err := database.Open(context.Background(), config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   path,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })

	db := dbmetrics.Wrap(raw, nil, "test")
	txm := txmanager.NewTransactionManager(db, txmanager.WithoutIsolationLevels(), txmanager.WithReadsOutsideTransaction())

	_, err = schema.NewMigrator(db, txm, dialect).Migrate(context.Background())
	require.NoError(t, err)

	return &DB{DB: db, TxManager: txm, Dialect: dialect, Path: path}
}
