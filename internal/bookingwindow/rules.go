package bookingwindow

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidRules возвращается при некорректной конфигурации окна бронирования
	ErrInvalidRules = errors.New("bookingwindow: invalid rules")
)

const (
	day            = 24 * time.Hour
	maxLocalOffset = 14 * time.Hour
)

// Rules неизменяемые правила окна бронирования.
// Время задается как смещение от полуночи UTC соответствующего дня недели.
type Rules struct {
	CutoffWeekday  time.Weekday  // День закрытия текущей недели
	CutoffTime     time.Duration // Время закрытия (UTC)
	ReleaseWeekday time.Weekday  // День открытия следующей недели
	ReleaseTime    time.Duration // Время открытия (UTC)
	LocalOffset    time.Duration // Смещение локального времени лаборатории, только для сообщений
	AllowPastDates bool          // Разрешать ли прошедшие будние дни
}

// DefaultRules среда 21:00 UTC (18:00 UTC-3) закрытие, пятница 02:59 UTC (четверг 23:59 UTC-3) открытие
func DefaultRules() Rules {
	return Rules{
		CutoffWeekday:  time.Wednesday,
		CutoffTime:     21 * time.Hour,
		ReleaseWeekday: time.Friday,
		ReleaseTime:    2*time.Hour + 59*time.Minute,
		LocalOffset:    -3 * time.Hour,
		AllowPastDates: false,
	}
}

// Validate проверяет правила
func (r Rules) Validate() error {
	if r.CutoffTime < 0 || r.CutoffTime >= day {
		return fmt.Errorf("%w: cutoff time %s out of range", ErrInvalidRules, r.CutoffTime)
	}
	if r.ReleaseTime < 0 || r.ReleaseTime >= day {
		return fmt.Errorf("%w: release time %s out of range", ErrInvalidRules, r.ReleaseTime)
	}
	if r.CutoffWeekday < time.Sunday || r.CutoffWeekday > time.Saturday {
		return fmt.Errorf("%w: cutoff weekday %d", ErrInvalidRules, r.CutoffWeekday)
	}
	if r.ReleaseWeekday < time.Sunday || r.ReleaseWeekday > time.Saturday {
		return fmt.Errorf("%w: release weekday %d", ErrInvalidRules, r.ReleaseWeekday)
	}
	if r.LocalOffset < -maxLocalOffset || r.LocalOffset > maxLocalOffset {
		return fmt.Errorf("%w: local offset %s out of range", ErrInvalidRules, r.LocalOffset)
	}
	return nil
}

var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// ParseWeekday разбирает английское название дня недели без учета регистра
func ParseWeekday(s string) (time.Weekday, error) {
	wd, ok := weekdays[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidRules, s)
	}
	return wd, nil
}

// ParseClock разбирает время суток HH:MM
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid time %q, expected HH:MM", ErrInvalidRules, s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
