package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/itvlab/lab-scheduler/pkg/dbmetrics"
)

var (
	// ErrBeginTx ошибка начала транзакции
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx ошибка фиксации транзакции
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")
)

// TxBeginner источник транзакций (*dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager выполняет функции внутри транзакции.
// Транзакция передается репозиториям через контекст (см. dbmetrics.GetExecutor).
type TransactionManager struct {
	db           TxBeginner
	serializable *sql.TxOptions
	readOnly     *sql.TxOptions
	readsInTx    bool
}

// Option настраивает менеджер транзакций
type Option func(m *TransactionManager)

// WithoutIsolationLevels отключает явное указание уровня изоляции и режима read-only.
// Нужно для SQLite: драйвер сериализует пишущие транзакции сам (_txlock=immediate).
func WithoutIsolationLevels() Option {
	return func(m *TransactionManager) {
		m.serializable = nil
		m.readOnly = nil
	}
}

// WithReadsOutsideTransaction выполняет DoReadOnly без транзакции.
// Для SQLite с _txlock=immediate любая транзакция захватывает блокировку записи,
// а чтение вне транзакции берет только разделяемую блокировку.
func WithReadsOutsideTransaction() Option {
	return func(m *TransactionManager) {
		m.readsInTx = false
	}
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db TxBeginner, opts ...Option) *TransactionManager {
	m := &TransactionManager{
		db:           db,
		serializable: &sql.TxOptions{Isolation: sql.LevelSerializable},
		readOnly:     &sql.TxOptions{ReadOnly: true},
		readsInTx:    true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, nil, fn)
}

// DoSerializable выполняет fn в сериализуемой транзакции
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, m.serializable, fn)
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if !m.readsInTx && !dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}
	return m.run(ctx, m.readOnly, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrCommitTx, err)
	}

	return nil
}
