package create_bookings

import (
	"context"
	"time"

	"github.com/itvlab/lab-scheduler/internal/bookingwindow"
	"github.com/itvlab/lab-scheduler/internal/domain"
	"github.com/itvlab/lab-scheduler/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByUserAndDates(ctx context.Context, filter domain.UserDayFilter) ([]*domain.Booking, error)
	GetBySlots(ctx context.Context, slots []domain.Slot) ([]*domain.Booking, error)
}

// RoomRepository интерфейс репозитория комнат
type RoomRepository interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Room, error)
}

// WindowChecker проверка окна бронирования (bookingwindow.Calculator)
type WindowChecker interface {
	Check(candidate types.Date, now time.Time) bookingwindow.Decision
}

// Notifier отправляет подтверждение после фиксации транзакции
type Notifier interface {
	NotifyBookingConfirmed(ctx context.Context, confirmation domain.Confirmation) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчики результатов бронирования
type Metrics interface {
	BookingOutcome(outcome string)
	SlotBooked(category string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время в UTC
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
