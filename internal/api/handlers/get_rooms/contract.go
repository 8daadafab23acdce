package get_rooms

import (
	"context"

	"github.com/itvlab/lab-scheduler/internal/service/rooms"
)

type RoomService interface {
	List(ctx context.Context) ([]rooms.RoomResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
