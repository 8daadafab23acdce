// Package snapshot делает согласованную копию базы для выгрузки администратором.
package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/itvlab/lab-scheduler/pkg/dbmetrics"
	"github.com/itvlab/lab-scheduler/pkg/psqlbuilder"
)

var (
	// ErrUnsupported возвращается, когда диалект не поддерживает копию файлом
	ErrUnsupported = errors.New("snapshot: file snapshot is not supported by dialect")

	// ErrExecQuery ошибка выполнения запроса
	ErrExecQuery = errors.New("snapshot: failed to execute query")
)

// Snapshotter копирует базу SQLite в отдельный файл
type Snapshotter struct {
	db      dbmetrics.DBExecutor
	dialect psqlbuilder.Dialect
}

// New создает Snapshotter
func New(db dbmetrics.DBExecutor, dialect psqlbuilder.Dialect) *Snapshotter {
	return &Snapshotter{db: db, dialect: dialect}
}

// SupportsFile сообщает, можно ли снять копию файлом
func (s *Snapshotter) SupportsFile() bool {
	return s.dialect == psqlbuilder.SQLite
}

// WriteFile записывает копию базы в path через VACUUM INTO.
// Файл path не должен существовать.
func (s *Snapshotter) WriteFile(ctx context.Context, path string) error {
	if !s.SupportsFile() {
		return ErrUnsupported
	}

	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return fmt.Errorf("%w: WriteFile - vacuum into: %v", ErrExecQuery, err)
	}
	return nil
}
