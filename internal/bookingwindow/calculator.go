package bookingwindow

import (
	"fmt"
	"time"

	"github.com/itvlab/lab-scheduler/pkg/types"
)

// Reason код результата проверки окна
type Reason string

const (
	ReasonOK          Reason = "ok"
	ReasonWeekend     Reason = "weekend"
	ReasonPastDate    Reason = "past_date"
	ReasonClosed      Reason = "closed"
	ReasonNotReleased Reason = "not_released"
	ReasonOutOfRange  Reason = "out_of_range"
)

const (
	msgOK         = "OK"
	msgWeekend    = "Agendamentos não são permitidos aos finais de semana."
	msgPastDate   = "Não é possível agendar datas passadas."
	msgOutOfRange = "Só é possível agendar para a semana atual ou a próxima."
)

// Decision результат проверки даты
type Decision struct {
	Allowed bool
	Code    Reason
	Message string // Текст для пользователя (pt-BR)
}

// Calculator вычисляет, можно ли бронировать дату в момент now.
// Не хранит состояния, безопасен для конкурентного использования.
type Calculator struct {
	rules Rules
	local *time.Location
}

// NewCalculator создает калькулятор окна бронирования
func NewCalculator(rules Rules) *Calculator {
	return &Calculator{
		rules: rules,
		local: time.FixedZone("local", int(rules.LocalOffset.Seconds())),
	}
}

// Rules возвращает правила калькулятора
func (c *Calculator) Rules() Rules {
	return c.rules
}

// WeekStart понедельник недели, содержащей d. Воскресенье относится к неделе, начавшейся в предыдущий понедельник.
func WeekStart(d types.Date) types.Date {
	return d.AddDays(-((int(d.Weekday()) + 6) % 7))
}

// Cutoff момент закрытия недели, начинающейся в weekStart
func (c *Calculator) Cutoff(weekStart types.Date) time.Time {
	return weekStart.AddDays(daysFromMonday(c.rules.CutoffWeekday)).At(c.rules.CutoffTime)
}

// Release момент, когда открывается неделя, следующая за weekStart
func (c *Calculator) Release(weekStart types.Date) time.Time {
	return weekStart.AddDays(daysFromMonday(c.rules.ReleaseWeekday)).At(c.rules.ReleaseTime)
}

// IsBookingAllowed сообщает, можно ли бронировать candidate в момент now, и причину отказа
func (c *Calculator) IsBookingAllowed(candidate types.Date, now time.Time) (bool, string) {
	d := c.Check(candidate, now)
	return d.Allowed, d.Message
}

// Check проверяет дату и возвращает код и текст результата
func (c *Calculator) Check(candidate types.Date, now time.Time) Decision {
	if candidate.IsWeekend() {
		return deny(ReasonWeekend, msgWeekend)
	}

	today := types.DateOf(now)
	if candidate.Before(today) {
		if c.rules.AllowPastDates {
			return allow()
		}
		return deny(ReasonPastDate, msgPastDate)
	}

	currentStart := WeekStart(today)
	nextStart := currentStart.AddDays(7)
	now = now.UTC()

	switch {
	case inWorkWeek(candidate, currentStart):
		cutoff := c.Cutoff(currentStart)
		if now.Before(cutoff) {
			return allow()
		}
		return deny(ReasonClosed, c.closedMessage(currentStart, cutoff))

	case inWorkWeek(candidate, nextStart):
		release := c.Release(currentStart)
		if now.Before(release) {
			return deny(ReasonNotReleased, c.notReleasedMessage(nextStart, release))
		}
		cutoff := c.Cutoff(nextStart)
		if !now.Before(cutoff) {
			return deny(ReasonClosed, c.closedMessage(nextStart, cutoff))
		}
		return allow()
	}

	return deny(ReasonOutOfRange, msgOutOfRange)
}

func (c *Calculator) closedMessage(weekStart types.Date, cutoff time.Time) string {
	return fmt.Sprintf("O prazo de agendamento para a semana de %s encerrou em %s.",
		weekStart.Format("02/01/2006"), c.formatLocal(cutoff))
}

func (c *Calculator) notReleasedMessage(weekStart types.Date, release time.Time) string {
	return fmt.Sprintf("O agendamento para a semana de %s ainda não foi liberado. Abertura em %s.",
		weekStart.Format("02/01/2006"), c.formatLocal(release))
}

// formatLocal "quarta-feira 15/05/2024 às 18:00 (horário local)"
func (c *Calculator) formatLocal(t time.Time) string {
	lt := t.In(c.local)
	return fmt.Sprintf("%s %s às %s (horário local)",
		weekdayNames[lt.Weekday()], lt.Format("02/01/2006"), lt.Format("15:04"))
}

var weekdayNames = [...]string{
	time.Sunday:    "domingo",
	time.Monday:    "segunda-feira",
	time.Tuesday:   "terça-feira",
	time.Wednesday: "quarta-feira",
	time.Thursday:  "quinta-feira",
	time.Friday:    "sexta-feira",
	time.Saturday:  "sábado",
}

func daysFromMonday(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// inWorkWeek дата попадает в понедельник-пятницу недели weekStart
func inWorkWeek(d, weekStart types.Date) bool {
	return !d.Before(weekStart) && !d.After(weekStart.AddDays(4))
}

func allow() Decision {
	return Decision{Allowed: true, Code: ReasonOK, Message: msgOK}
}

func deny(code Reason, msg string) Decision {
	return Decision{Allowed: false, Code: code, Message: msg}
}
