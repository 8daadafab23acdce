package clear_bookings

import (
	"context"

	"github.com/itvlab/lab-scheduler/internal/service/bookings/models"
)

type BookingService interface {
	Clear(ctx context.Context, req *models.ClearBookingsRequest) (int64, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
