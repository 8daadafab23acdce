package domain

import "github.com/itvlab/lab-scheduler/pkg/types"

// ConfirmedSlot забронированный слот с именем комнаты для уведомлений
type ConfirmedSlot struct {
	BookingID int64
	RoomID    int64
	RoomName  string
	Date      types.Date
	Period    Period
}

// Confirmation подтверждение пакета бронирований одного пользователя
type Confirmation struct {
	UserName        string
	UserEmail       string
	CoordinatorName *string
	Slots           []ConfirmedSlot
}
