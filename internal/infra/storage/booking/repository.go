package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/itvlab/lab-scheduler/internal/domain"
	"github.com/itvlab/lab-scheduler/internal/infra/storage/sqlerr"
	"github.com/itvlab/lab-scheduler/pkg/dbmetrics"
	"github.com/itvlab/lab-scheduler/pkg/psqlbuilder"
	"github.com/itvlab/lab-scheduler/pkg/types"
)

var bookingColumns = []string{
	"b.id",
	"b.user_name",
	"b.user_email",
	"b.coordinator_name",
	"b.room_id",
	"b.booking_date",
	"b.period",
	"b.created_at",
	"r.name",
	"r.category",
}

const periodOrder = "CASE b.period WHEN 'Manhã' THEN 0 ELSE 1 END ASC"

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db      DBExecutor
	dialect psqlbuilder.Dialect
	sq      squirrel.StatementBuilderType
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor, dialect psqlbuilder.Dialect) *Repository {
	return &Repository{db: db, dialect: dialect, sq: psqlbuilder.For(dialect)}
}

// Create создает бронирование.
// Вызывается внутри транзакции пакетного создания (транзакция берется из контекста).
// Нарушение UNIQUE (room_id, booking_date, period) возвращается как ErrSlotConflict.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}

	query, args, err := r.sq.Insert("bookings").
		Columns(
			"user_name",
			"user_email",
			"coordinator_name",
			"room_id",
			"booking_date",
			"period",
			"created_at",
		).
		Values(
			booking.UserName,
			booking.UserEmail,
			nullString(booking.CoordinatorName),
			booking.RoomID,
			booking.BookingDate.String(),
			string(booking.Period),
			booking.CreatedAt.UTC().Format(time.RFC3339Nano),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID)
	if err != nil {
		return nil, r.classify("Create - execute insert", err)
	}

	return booking, nil
}

// GetByUserAndDates возвращает бронирования пользователя на указанные даты.
// Внутри транзакции PostgreSQL строки блокируются (FOR UPDATE) до конца транзакции.
func (r *Repository) GetByUserAndDates(ctx context.Context, filter domain.UserDayFilter) ([]*domain.Booking, error) {
	if len(filter.Dates) == 0 {
		return []*domain.Booking{}, nil
	}

	selectBuilder := r.selectBookings().
		Where(squirrel.Eq{"b.user_name": filter.UserName}).
		Where(squirrel.Eq{"b.booking_date": dateStrings(filter.Dates)}).
		OrderBy("b.booking_date ASC", periodOrder, "b.room_id ASC")

	return r.query(ctx, "GetByUserAndDates", r.lockIfInTx(ctx, selectBuilder))
}

// GetBySlots возвращает бронирования, занимающие любой из указанных слотов
func (r *Repository) GetBySlots(ctx context.Context, slots []domain.Slot) ([]*domain.Booking, error) {
	if len(slots) == 0 {
		return []*domain.Booking{}, nil
	}

	or := make(squirrel.Or, 0, len(slots))
	for _, s := range slots {
		or = append(or, squirrel.Eq{
			"b.room_id":      s.RoomID,
			"b.booking_date": s.Date.String(),
			"b.period":       string(s.Period),
		})
	}

	selectBuilder := r.selectBookings().
		Where(or).
		OrderBy("b.booking_date ASC", "b.room_id ASC", periodOrder)

	return r.query(ctx, "GetBySlots", r.lockIfInTx(ctx, selectBuilder))
}

// List возвращает бронирования по фильтру, упорядоченные по дате, комнате и периоду.
// Нулевые даты фильтра не ограничивают выборку.
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	selectBuilder := r.selectBookings()

	if !filter.StartDate.IsZero() {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"b.booking_date": filter.StartDate.String()})
	}
	if !filter.EndDate.IsZero() {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"b.booking_date": filter.EndDate.String()})
	}
	if filter.RoomID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.room_id": *filter.RoomID})
	}
	if filter.Period != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.period": string(*filter.Period)})
	}

	selectBuilder = selectBuilder.OrderBy("b.booking_date ASC", "b.room_id ASC", periodOrder)

	return r.query(ctx, "List", selectBuilder)
}

// Delete удаляет бронирования по фильтру и возвращает количество удаленных
func (r *Repository) Delete(ctx context.Context, filter domain.ClearFilter) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteBuilder := r.sq.Delete("bookings")
	if filter.StartDate != nil {
		deleteBuilder = deleteBuilder.Where(squirrel.GtOrEq{"booking_date": filter.StartDate.String()})
	}
	if filter.EndDate != nil {
		deleteBuilder = deleteBuilder.Where(squirrel.LtOrEq{"booking_date": filter.EndDate.String()})
	}
	if filter.RoomID != nil {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"room_id": *filter.RoomID})
	}
	if filter.Period != nil {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"period": string(*filter.Period)})
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, r.classify("Delete - execute delete", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	return affected, nil
}

func (r *Repository) selectBookings() squirrel.SelectBuilder {
	return r.sq.Select(bookingColumns...).
		From("bookings b").
		Join("rooms r ON r.id = b.room_id")
}

// lockIfInTx добавляет FOR UPDATE, если запрос идет внутри транзакции и диалект это поддерживает
func (r *Repository) lockIfInTx(ctx context.Context, b squirrel.SelectBuilder) squirrel.SelectBuilder {
	if dbmetrics.IsInTransaction(ctx) && r.dialect.SupportsRowLocks() {
		return b.Suffix("FOR UPDATE OF b")
	}
	return b
}

func (r *Repository) query(ctx context.Context, op string, b squirrel.SelectBuilder) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.classify(op+" - execute query", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func (r *Repository) classify(op string, err error) error {
	switch {
	case sqlerr.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s: %v", ErrSlotConflict, op, err)
	case sqlerr.IsSerializationFailure(err):
		return fmt.Errorf("%w: %s: %v", ErrConcurrentUpdate, op, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrExecQuery, op, err)
	}
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		var (
			b           domain.Booking
			coordinator sql.NullString
			createdAt   types.Timestamp
		)
		err := rows.Scan(
			&b.ID,
			&b.UserName,
			&b.UserEmail,
			&coordinator,
			&b.RoomID,
			&b.BookingDate,
			&b.Period,
			&createdAt,
			&b.RoomName,
			&b.RoomCategory,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scan booking: %v", ErrScanRow, err)
		}
		if coordinator.Valid {
			b.CoordinatorName = &coordinator.String
		}
		b.CreatedAt = createdAt.Time
		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func dateStrings(dates []types.Date) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.String()
	}
	return out
}

// nullString NULL для nil, иначе значение строки
func nullString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
