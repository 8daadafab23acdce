package create_bookings

import (
	createBookings "github.com/itvlab/lab-scheduler/internal/usecase/create_bookings"
)

// CreateBookingsRequest HTTP request model
type CreateBookingsRequest struct {
	UserName        string        `json:"user_name"`
	UserEmail       string        `json:"user_email"`
	CoordinatorName *string       `json:"coordinator_name,omitempty"`
	Slots           []SlotRequest `json:"slots"`
}

// SlotRequest запрошенный слот
type SlotRequest struct {
	RoomID      int64  `json:"room_id"`
	BookingDate string `json:"booking_date"` // "2024-05-14"
	Period      string `json:"period"`       // "Manhã" | "Tarde"
}

// BookingResponse созданное бронирование
type BookingResponse struct {
	ID          int64  `json:"id"`
	RoomID      int64  `json:"room_id"`
	RoomName    string `json:"room_name"`
	BookingDate string `json:"booking_date"`
	Period      string `json:"period"`
}

// CreateBookingsResponse HTTP response model
type CreateBookingsResponse struct {
	Message          string            `json:"message"`
	Bookings         []BookingResponse `json:"bookings"`
	NotificationSent bool              `json:"notification_sent"`
	Warning          string            `json:"warning,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Разбор дат и периодов выполняет use case, чтобы ошибки содержали номер слота.
func (r *CreateBookingsRequest) ToUseCaseRequest() *createBookings.Request {
	slots := make([]createBookings.SlotRequest, 0, len(r.Slots))
	for _, s := range r.Slots {
		slots = append(slots, createBookings.SlotRequest{
			RoomID: s.RoomID,
			Date:   s.BookingDate,
			Period: s.Period,
		})
	}
	return &createBookings.Request{
		UserName:        r.UserName,
		UserEmail:       r.UserEmail,
		CoordinatorName: r.CoordinatorName,
		Slots:           slots,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBookings.Response) *CreateBookingsResponse {
	out := &CreateBookingsResponse{
		Message:          msgCreated,
		Bookings:         make([]BookingResponse, 0, len(resp.Bookings)),
		NotificationSent: resp.NotificationSent,
		Warning:          resp.Warning,
	}
	for _, b := range resp.Bookings {
		out.Bookings = append(out.Bookings, BookingResponse{
			ID:          b.ID,
			RoomID:      b.RoomID,
			RoomName:    b.RoomName,
			BookingDate: b.Date.String(),
			Period:      string(b.Period),
		})
	}
	return out
}
