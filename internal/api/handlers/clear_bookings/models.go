package clear_bookings

import "github.com/itvlab/lab-scheduler/internal/service/bookings/models"

// ClearBookingsRequest тело запроса. Secret проверяется middleware.AdminAuth.
type ClearBookingsRequest struct {
	Secret    string  `json:"secret,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	RoomID    *int64  `json:"room_id,omitempty"`
	Period    *string `json:"period,omitempty"`
}

// ClearBookingsResponse количество удаленных бронирований
type ClearBookingsResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

// ToServiceRequest конвертирует DTO в запрос сервиса
func (r *ClearBookingsRequest) ToServiceRequest() *models.ClearBookingsRequest {
	return &models.ClearBookingsRequest{
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		RoomID:    r.RoomID,
		Period:    r.Period,
	}
}
