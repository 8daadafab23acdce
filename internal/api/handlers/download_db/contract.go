package download_db

import (
	"context"

	"github.com/itvlab/lab-scheduler/internal/service/bookings/models"
)

type ExportService interface {
	Export(ctx context.Context) (*models.Export, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
