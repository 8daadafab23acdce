package generate_pdf

import (
	"context"
	"io"
	"time"

	"github.com/itvlab/lab-scheduler/internal/domain"
	"github.com/itvlab/lab-scheduler/pkg/types"
)

type ScheduleService interface {
	WeekSchedule(ctx context.Context, date types.Date) (*domain.WeekSchedule, error)
}

type Renderer interface {
	Render(w io.Writer, week *domain.WeekSchedule) error
}

type TimeProvider interface {
	Now() time.Time
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time { return time.Now().UTC() }
