package bookingwindow

import (
	"time"

	"github.com/itvlab/lab-scheduler/pkg/types"
)

// Status состояние окна бронирования в момент ServerTime
type Status struct {
	CurrentWeekStart  types.Date
	NextWeekStart     types.Date
	CurrentWeekOpen   bool
	NextWeekOpen      bool
	CurrentWeekCutoff time.Time
	NextWeekRelease   time.Time
	NextWeekCutoff    time.Time
	ServerTime        time.Time
}

// Status вычисляет границы недель, моменты открытия и закрытия и флаги доступности
func (c *Calculator) Status(now time.Time) Status {
	now = now.UTC()
	currentStart := WeekStart(types.DateOf(now))
	nextStart := currentStart.AddDays(7)

	currentCutoff := c.Cutoff(currentStart)
	nextRelease := c.Release(currentStart)
	nextCutoff := c.Cutoff(nextStart)

	return Status{
		CurrentWeekStart:  currentStart,
		NextWeekStart:     nextStart,
		CurrentWeekOpen:   now.Before(currentCutoff),
		NextWeekOpen:      !now.Before(nextRelease) && now.Before(nextCutoff),
		CurrentWeekCutoff: currentCutoff,
		NextWeekRelease:   nextRelease,
		NextWeekCutoff:    nextCutoff,
		ServerTime:        now,
	}
}
