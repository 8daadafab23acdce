package get_booking_status

import (
	"context"

	getBookingStatus "github.com/itvlab/lab-scheduler/internal/usecase/get_booking_status"
)

type GetBookingStatusUseCase interface {
	Execute(ctx context.Context) (*getBookingStatus.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
