// Package notifier рассылает подтверждения бронирований по всем включенным каналам.
package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/itvlab/lab-scheduler/internal/domain"
)

// ErrNoSinks возвращается, когда ни один канал уведомлений не настроен
var ErrNoSinks = errors.New("notifier: no notification sinks configured")

// Sink канал уведомлений
type Sink interface {
	Name() string
	NotifyBookingConfirmed(ctx context.Context, c domain.Confirmation) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// FanOut вызывает все каналы по очереди.
// Уведомление считается отправленным, только если все каналы отработали без ошибок.
type FanOut struct {
	sinks []Sink
	log   Logger
}

// NewFanOut создает FanOut, nil каналы пропускаются
func NewFanOut(log Logger, sinks ...Sink) *FanOut {
	f := &FanOut{log: log}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

// Len количество каналов
func (f *FanOut) Len() int {
	return len(f.sinks)
}

// NotifyBookingConfirmed отправляет подтверждение во все каналы и объединяет ошибки
func (f *FanOut) NotifyBookingConfirmed(ctx context.Context, c domain.Confirmation) error {
	if len(f.sinks) == 0 {
		return ErrNoSinks
	}

	var errs []error
	for _, s := range f.sinks {
		if err := s.NotifyBookingConfirmed(ctx, c); err != nil {
			f.log.Warn("Notifier: sink %s failed for %s: %v", s.Name(), c.UserEmail, err)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}
