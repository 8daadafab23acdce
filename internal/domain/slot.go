package domain

import "github.com/itvlab/lab-scheduler/pkg/types"

// Slot единица бронирования: комната, дата, период
type Slot struct {
	RoomID int64
	Date   types.Date
	Period Period
}

// DayPeriod дата и период без комнаты
type DayPeriod struct {
	Date   types.Date
	Period Period
}

// DayPeriod возвращает дату и период слота
func (s Slot) DayPeriod() DayPeriod {
	return DayPeriod{Date: s.Date, Period: s.Period}
}

// ClearFilter фильтр массового удаления бронирований. Пустые поля не ограничивают выборку.
type ClearFilter struct {
	StartDate *types.Date
	EndDate   *types.Date
	RoomID    *int64
	Period    *Period
}

// IsEmpty возвращает true, если фильтр удаляет все бронирования
func (f ClearFilter) IsEmpty() bool {
	return f.StartDate == nil && f.EndDate == nil && f.RoomID == nil && f.Period == nil
}
