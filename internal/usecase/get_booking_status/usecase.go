package get_booking_status

import (
	"context"
)

// UseCase use case получения состояния окна бронирования
type UseCase struct {
	window       WindowStatus
	timeProvider TimeProvider
	logger       Logger
}

// Option настраивает use case
type Option func(uc *UseCase)

// WithTimeProvider подменяет источник текущего времени
func WithTimeProvider(tp TimeProvider) Option {
	return func(uc *UseCase) {
		uc.timeProvider = tp
	}
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(window WindowStatus, logger Logger, opts ...Option) *UseCase {
	uc := &UseCase{
		window:       window,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute возвращает границы текущей и следующей недели и флаги открытости
func (uc *UseCase) Execute(_ context.Context) (*Response, error) {
	now := uc.timeProvider.Now().UTC()
	st := uc.window.Status(now)

	uc.logger.Info("GetBookingStatus: now=%s, current_open=%t, next_open=%t",
		now.Format("2006-01-02T15:04:05Z"), st.CurrentWeekOpen, st.NextWeekOpen)

	return &Response{
		CurrentWeekStart:  st.CurrentWeekStart,
		NextWeekStart:     st.NextWeekStart,
		CurrentWeekOpen:   st.CurrentWeekOpen,
		NextWeekOpen:      st.NextWeekOpen,
		CurrentWeekCutoff: st.CurrentWeekCutoff,
		NextWeekRelease:   st.NextWeekRelease,
		NextWeekCutoff:    st.NextWeekCutoff,
		ServerTime:        st.ServerTime,
	}, nil
}
