package get_booking_status

import (
	"time"

	getBookingStatus "github.com/itvlab/lab-scheduler/internal/usecase/get_booking_status"
)

// BookingStatusResponse состояние окна бронирования
type BookingStatusResponse struct {
	CurrentWeekStart  string `json:"current_week_start"` // "2024-05-13"
	NextWeekStart     string `json:"next_week_start"`
	CurrentWeekOpen   bool   `json:"current_week_open"`
	NextWeekOpen      bool   `json:"next_week_open"`
	CurrentWeekCutoff string `json:"current_week_cutoff"` // RFC 3339, UTC
	NextWeekRelease   string `json:"next_week_release"`
	NextWeekCutoff    string `json:"next_week_cutoff"`
	ServerTimeUTC     string `json:"server_time_utc"`
}

// FromUseCaseResponse конвертирует ответ use case в DTO
func FromUseCaseResponse(resp *getBookingStatus.Response) BookingStatusResponse {
	return BookingStatusResponse{
		CurrentWeekStart:  resp.CurrentWeekStart.String(),
		NextWeekStart:     resp.NextWeekStart.String(),
		CurrentWeekOpen:   resp.CurrentWeekOpen,
		NextWeekOpen:      resp.NextWeekOpen,
		CurrentWeekCutoff: resp.CurrentWeekCutoff.UTC().Format(time.RFC3339),
		NextWeekRelease:   resp.NextWeekRelease.UTC().Format(time.RFC3339),
		NextWeekCutoff:    resp.NextWeekCutoff.UTC().Format(time.RFC3339),
		ServerTimeUTC:     resp.ServerTime.UTC().Format(time.RFC3339),
	}
}
