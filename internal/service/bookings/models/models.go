package models

import (
	"time"

	"github.com/itvlab/lab-scheduler/internal/domain"
)

// Request модели

// ListBookingsRequest запрос списка бронирований за период
type ListBookingsRequest struct {
	StartDate string // "2024-05-13"
	EndDate   string // "2024-05-17"
}

// ClearBookingsRequest фильтр массового удаления, пустые поля не ограничивают выборку
type ClearBookingsRequest struct {
	StartDate *string
	EndDate   *string
	RoomID    *int64
	Period    *string
}

// Response модели

// BookingResponse бронирование в публичном ответе API, без контактов пользователя
type BookingResponse struct {
	ID              int64   `json:"id"`
	UserName        string  `json:"user_name"`
	CoordinatorName *string `json:"coordinator_name"`
	RoomID          int64   `json:"room_id"`
	RoomName        string  `json:"room_name"`
	BookingDate     string  `json:"booking_date"` // "2024-05-13"
	Period          string  `json:"period"`
	CreatedAt       string  `json:"created_at"` // RFC 3339, UTC
}

// RoomDump комната в JSON-выгрузке
type RoomDump struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// BookingDump бронирование в административной выгрузке
type BookingDump struct {
	BookingResponse
	UserEmail string `json:"user_email"`
}

// Dump JSON-выгрузка базы
type Dump struct {
	GeneratedAt string        `json:"generated_at"`
	Rooms       []RoomDump    `json:"rooms"`
	Bookings    []BookingDump `json:"bookings"`
}

// Export файл выгрузки базы
type Export struct {
	FileName    string
	ContentType string
	Body        []byte
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		UserName:        b.UserName,
		CoordinatorName: b.CoordinatorName,
		RoomID:          b.RoomID,
		RoomName:        b.RoomName,
		BookingDate:     b.BookingDate.String(),
		Period:          string(b.Period),
		CreatedAt:       b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) []BookingResponse {
	resp := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp = append(resp, FromDomainBooking(b))
	}
	return resp
}

// FromDomainBookingDumpList конвертирует бронирования для выгрузки вместе с e-mail
func FromDomainBookingDumpList(bookings []*domain.Booking) []BookingDump {
	resp := make([]BookingDump, 0, len(bookings))
	for _, b := range bookings {
		resp = append(resp, BookingDump{BookingResponse: FromDomainBooking(b), UserEmail: b.UserEmail})
	}
	return resp
}

// FromDomainRooms конвертирует комнаты для выгрузки
func FromDomainRooms(rooms []*domain.Room) []RoomDump {
	resp := make([]RoomDump, 0, len(rooms))
	for _, r := range rooms {
		resp = append(resp, RoomDump{ID: r.ID, Name: r.Name, Category: string(r.Category)})
	}
	return resp
}
