package get_booking_status

import (
	"time"

	"github.com/itvlab/lab-scheduler/internal/bookingwindow"
)

// WindowStatus расчет состояния окна бронирования (bookingwindow.Calculator)
type WindowStatus interface {
	Status(now time.Time) bookingwindow.Status
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
