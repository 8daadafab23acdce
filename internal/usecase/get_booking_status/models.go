package get_booking_status

import (
	"time"

	"github.com/itvlab/lab-scheduler/pkg/types"
)

// Response состояние окна бронирования на момент запроса
type Response struct {
	CurrentWeekStart  types.Date // Понедельник текущей недели
	NextWeekStart     types.Date // Понедельник следующей недели
	CurrentWeekOpen   bool
	NextWeekOpen      bool
	CurrentWeekCutoff time.Time // Закрытие текущей недели (UTC)
	NextWeekRelease   time.Time // Открытие следующей недели (UTC)
	NextWeekCutoff    time.Time // Закрытие следующей недели (UTC)
	ServerTime        time.Time
}
