package create_bookings

import (
	"github.com/itvlab/lab-scheduler/internal/domain"
	"github.com/itvlab/lab-scheduler/pkg/types"
)

// SlotRequest запрошенный слот в исходном виде
type SlotRequest struct {
	RoomID int64
	Date   string // YYYY-MM-DD
	Period string // "Manhã" | "Tarde"
}

// Request модель запроса на пакетное создание бронирований
type Request struct {
	UserName        string
	UserEmail       string
	CoordinatorName *string // Опционально
	Slots           []SlotRequest
}

// BookedSlot созданное бронирование
type BookedSlot struct {
	ID       int64
	RoomID   int64
	RoomName string
	Date     types.Date
	Period   domain.Period
}

// Response модель ответа с созданными бронированиями
type Response struct {
	Bookings         []BookedSlot
	NotificationSent bool
	Warning          string // Заполняется, если уведомление не отправлено
}

// input нормализованный запрос после структурной проверки
type input struct {
	userName    string
	userEmail   string
	coordinator *string
	slots       []domain.Slot
	dates       []types.Date // уникальные даты в порядке появления
}
