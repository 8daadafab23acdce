package domain

import "github.com/itvlab/lab-scheduler/pkg/types"

// WeekSchedule расписание рабочей недели: комнаты по id и занятые слоты
type WeekSchedule struct {
	Start    types.Date   // Понедельник
	Days     []types.Date // Понедельник..пятница
	Rooms    []*Room
	Bookings map[Slot]*Booking
}

// BookingAt возвращает бронирование слота или nil
func (w *WeekSchedule) BookingAt(roomID int64, date types.Date, period Period) *Booking {
	return w.Bookings[Slot{RoomID: roomID, Date: date, Period: period}]
}

// End последний рабочий день недели
func (w *WeekSchedule) End() types.Date {
	return w.Start.AddDays(WorkDaysPerWeek - 1)
}
