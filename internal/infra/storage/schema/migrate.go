package schema

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/itvlab/lab-scheduler/pkg/dbmetrics"
	"github.com/itvlab/lab-scheduler/pkg/psqlbuilder"
)

var (
	// ErrMigration ошибка применения миграции
	ErrMigration = errors.New("schema: migration failed")
)

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Migrator применяет миграции схемы при старте сервиса
type Migrator struct {
	db        dbmetrics.DBExecutor
	txManager TransactionManager
	dialect   psqlbuilder.Dialect
}

// NewMigrator создает мигратор для указанного диалекта
func NewMigrator(db dbmetrics.DBExecutor, txManager TransactionManager, dialect psqlbuilder.Dialect) *Migrator {
	return &Migrator{db: db, txManager: txManager, dialect: dialect}
}

// Migrate применяет еще не примененные миграции и возвращает их количество
func (m *Migrator) Migrate(ctx context.Context) (int, error) {
	if _, err := m.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		name       TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return 0, fmt.Errorf("%w: create schema_migrations: %v", ErrMigration, err)
	}

	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, mg := range migrations {
		if applied[mg.version] {
			continue
		}
		if err := m.apply(ctx, mg); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[int]bool, error) {
	query, args, err := psqlbuilder.For(m.dialect).Select("version").From("schema_migrations").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build select: %v", ErrMigration, err)
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: read versions: %v", ErrMigration, err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("%w: scan version: %v", ErrMigration, err)
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", ErrMigration, err)
	}

	return applied, nil
}

func (m *Migrator) apply(ctx context.Context, mg migration) error {
	statements := mg.postgres
	if m.dialect == psqlbuilder.SQLite {
		statements = mg.sqlite
	}

	return m.txManager.Do(ctx, func(txCtx context.Context) error {
		executor := dbmetrics.GetExecutor(txCtx, m.db)

		for i, stmt := range statements {
			if _, err := executor.ExecContext(txCtx, stmt); err != nil {
				return fmt.Errorf("%w: version %d statement %d: %v", ErrMigration, mg.version, i+1, err)
			}
		}

		query, args, err := psqlbuilder.For(m.dialect).Insert("schema_migrations").
			Columns("version", "name", "applied_at").
			Values(mg.version, mg.name, time.Now().UTC().Format(time.RFC3339)).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: build insert: %v", ErrMigration, err)
		}

		if _, err := executor.ExecContext(txCtx, query, args...); err != nil {
			return fmt.Errorf("%w: record version %d: %v", ErrMigration, mg.version, err)
		}

		return nil
	})
}

// Versions возвращает номера всех известных миграций
func Versions() []int {
	versions := make([]int, 0, len(migrations))
	for _, mg := range migrations {
		versions = append(versions, mg.version)
	}
	return versions
}

