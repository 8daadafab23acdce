package eventbus

import (
	"time"

	"github.com/itvlab/lab-scheduler/internal/domain"
)

// EventBookingConfirmed тип события о подтвержденном пакете бронирований
const EventBookingConfirmed = "booking.confirmed"

// BookingConfirmedEvent тело события booking.confirmed
type BookingConfirmedEvent struct {
	EventID         string      `json:"event_id"`
	Type            string      `json:"type"`
	OccurredAt      time.Time   `json:"occurred_at"`
	UserName        string      `json:"user_name"`
	UserEmail       string      `json:"user_email"`
	CoordinatorName *string     `json:"coordinator_name,omitempty"`
	Slots           []EventSlot `json:"slots"`
}

// EventSlot слот в событии
type EventSlot struct {
	BookingID   int64  `json:"booking_id"`
	RoomID      int64  `json:"room_id"`
	RoomName    string `json:"room_name"`
	BookingDate string `json:"booking_date"`
	Period      string `json:"period"`
}

// NewBookingConfirmedEvent конвертирует подтверждение в событие
func NewBookingConfirmedEvent(id string, at time.Time, c domain.Confirmation) BookingConfirmedEvent {
	e := BookingConfirmedEvent{
		EventID:         id,
		Type:            EventBookingConfirmed,
		OccurredAt:      at.UTC(),
		UserName:        c.UserName,
		UserEmail:       c.UserEmail,
		CoordinatorName: c.CoordinatorName,
		Slots:           make([]EventSlot, 0, len(c.Slots)),
	}
	for _, s := range c.Slots {
		e.Slots = append(e.Slots, EventSlot{
			BookingID:   s.BookingID,
			RoomID:      s.RoomID,
			RoomName:    s.RoomName,
			BookingDate: s.Date.String(),
			Period:      string(s.Period),
		})
	}
	return e
}
