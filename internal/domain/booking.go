package domain

import (
	"time"

	"github.com/itvlab/lab-scheduler/pkg/types"
)

// Period half-day division of a weekday
type Period string

const (
	PeriodMorning   Period = "Manhã"
	PeriodAfternoon Period = "Tarde"
)

// Periods все периоды в порядке следования
var Periods = []Period{PeriodMorning, PeriodAfternoon}

// IsValid проверяет, что период известен
func (p Period) IsValid() bool {
	return p == PeriodMorning || p == PeriodAfternoon
}

// Order порядковый номер периода для сортировки (Manhã раньше Tarde)
func (p Period) Order() int {
	if p == PeriodMorning {
		return 0
	}
	return 1
}

// Booking represents a room reservation for one period of one date
type Booking struct {
	ID              int64
	UserName        string
	UserEmail       string
	CoordinatorName *string
	RoomID          int64
	BookingDate     types.Date
	Period          Period
	CreatedAt       time.Time

	// Заполняется при выборке с JOIN rooms
	RoomName     string
	RoomCategory RoomCategory
}

// Slot returns the (room, date, period) triple the booking occupies
func (b *Booking) Slot() Slot {
	return Slot{RoomID: b.RoomID, Date: b.BookingDate, Period: b.Period}
}

// BookingsFilter фильтр выборки бронирований по диапазону дат (включительно)
type BookingsFilter struct {
	StartDate types.Date
	EndDate   types.Date
	RoomID    *int64
	Period    *Period
}

// UserDayFilter бронирования пользователя на набор дат
type UserDayFilter struct {
	UserName string
	Dates    []types.Date
}
