package create_bookings

import (
	"context"

	createBookings "github.com/itvlab/lab-scheduler/internal/usecase/create_bookings"
)

type CreateBookingsUseCase interface {
	Execute(ctx context.Context, req *createBookings.Request) (*createBookings.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
