package create_bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/itvlab/lab-scheduler/internal/domain"
	bookingRepo "github.com/itvlab/lab-scheduler/internal/infra/storage/booking"
)

const msgNotificationFailed = "Agendamento confirmado, mas não foi possível enviar a confirmação por e-mail. Confira seus horários na agenda."

// UseCase use case пакетного создания бронирований
type UseCase struct {
	bookingRepo  BookingRepository
	roomRepo     RoomRepository
	window       WindowChecker
	notifier     Notifier
	txManager    TransactionManager
	metrics      Metrics
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
func NewUseCase(
	bookingRepo BookingRepository,
	roomRepo RoomRepository,
	window WindowChecker,
	notifier Notifier,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		bookingRepo:  bookingRepo,
		roomRepo:     roomRepo,
		window:       window,
		notifier:     notifier,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute проверяет и создает все слоты запроса одной сериализуемой транзакцией.
// Любой отказ означает, что ни один слот не записан.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	uc.metrics.BookingOutcome(outcome(err))
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBookings: user=%q, slots=%d", req.UserName, len(req.Slots))

	// 1. Структурная проверка
	in, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBookings: validation failed: %v", err)
		return nil, err
	}

	// 2. Окно бронирования для каждого слота
	now := uc.timeProvider.Now()
	for _, s := range in.slots {
		if d := uc.window.Check(s.Date, now); !d.Allowed {
			uc.logger.Warn("CreateBookings: date %s rejected by window (%s)", s.Date, d.Code)
			return nil, reject(ErrWindowClosed, "%s", d.Message)
		}
	}

	var (
		confirmed []domain.ConfirmedSlot
		rooms     map[int64]*domain.Room
	)

	// 3. Проверки по хранилищу и запись в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		confirmed = nil

		// 3.1. Комнаты существуют
		var err error
		rooms, err = uc.roomRepo.GetByIDs(txCtx, roomIDs(in.slots))
		if err != nil {
			uc.logger.Error("CreateBookings: failed to get rooms: %v", err)
			return fmt.Errorf("%w: failed to get rooms: %v", ErrPersistence, err)
		}
		if err := checkRooms(in.slots, rooms); err != nil {
			uc.logger.Warn("CreateBookings: %v", err)
			return err
		}

		// 3.2. Бронирования пользователя на запрошенные даты (FOR UPDATE в PostgreSQL)
		existing, err := uc.bookingRepo.GetByUserAndDates(txCtx, domain.UserDayFilter{
			UserName: in.userName,
			Dates:    in.dates,
		})
		if err != nil {
			uc.logger.Error("CreateBookings: failed to get user bookings: %v", err)
			return fmt.Errorf("%w: failed to get user bookings: %v", ErrPersistence, err)
		}

		// 3.3. Дневной лимит
		if err := checkQuota(in, existing); err != nil {
			uc.logger.Warn("CreateBookings: user=%q %v", in.userName, err)
			return err
		}

		// 3.4. Правило комнат Geral
		if err := checkGeneralRooms(in, existing, rooms); err != nil {
			uc.logger.Warn("CreateBookings: user=%q %v", in.userName, err)
			return err
		}

		// 3.5. Слоты свободны
		taken, err := uc.bookingRepo.GetBySlots(txCtx, in.slots)
		if err != nil {
			uc.logger.Error("CreateBookings: failed to get slot bookings: %v", err)
			return fmt.Errorf("%w: failed to get slot bookings: %v", ErrPersistence, err)
		}
		if err := checkSlotsFree(in.slots, taken, rooms); err != nil {
			uc.logger.Warn("CreateBookings: %v", err)
			return err
		}

		// 3.6. Запись всех слотов
		createdAt := now.UTC()
		for _, s := range in.slots {
			room := rooms[s.RoomID]
			created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
				UserName:        in.userName,
				UserEmail:       in.userEmail,
				CoordinatorName: in.coordinator,
				RoomID:          s.RoomID,
				BookingDate:     s.Date,
				Period:          s.Period,
				CreatedAt:       createdAt,
			})
			if err != nil {
				if errors.Is(err, bookingRepo.ErrSlotConflict) {
					uc.logger.Warn("CreateBookings: slot room=%d date=%s period=%s taken concurrently", s.RoomID, s.Date, s.Period)
					return reject(ErrSlotTaken, "A sala %s já está reservada em %s (%s).",
						room.Name, s.Date.Format(domain.DisplayDateFormat), s.Period)
				}
				uc.logger.Error("CreateBookings: failed to create booking: %v", err)
				return fmt.Errorf("%w: failed to create booking: %v", ErrPersistence, err)
			}

			confirmed = append(confirmed, domain.ConfirmedSlot{
				BookingID: created.ID,
				RoomID:    room.ID,
				RoomName:  room.Name,
				Date:      s.Date,
				Period:    s.Period,
			})
		}

		return nil
	})

	if err != nil {
		var ve *ValidationError
		if !errors.As(err, &ve) && !errors.Is(err, ErrPersistence) {
			// Ошибки begin/commit транзакции
			uc.logger.Error("CreateBookings: transaction failed: %v", err)
			err = fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		return nil, err
	}

	uc.logger.Info("CreateBookings: user=%q committed %d bookings", in.userName, len(confirmed))
	for _, s := range in.slots {
		uc.metrics.SlotBooked(string(rooms[s.RoomID].Category))
	}

	resp := &Response{Bookings: make([]BookedSlot, 0, len(confirmed))}
	for _, c := range confirmed {
		resp.Bookings = append(resp.Bookings, BookedSlot{
			ID:       c.BookingID,
			RoomID:   c.RoomID,
			RoomName: c.RoomName,
			Date:     c.Date,
			Period:   c.Period,
		})
	}

	// 4. Уведомление после фиксации, ошибка не откатывает бронирования
	err = uc.notifier.NotifyBookingConfirmed(ctx, domain.Confirmation{
		UserName:        in.userName,
		UserEmail:       in.userEmail,
		CoordinatorName: in.coordinator,
		Slots:           confirmed,
	})
	if err != nil {
		uc.logger.Warn("CreateBookings: notification for %s failed: %v", in.userEmail, err)
		resp.Warning = msgNotificationFailed
	} else {
		resp.NotificationSent = true
	}

	return resp, nil
}

func roomIDs(slots []domain.Slot) []int64 {
	seen := make(map[int64]struct{}, len(slots))
	ids := make([]int64, 0, len(slots))
	for _, s := range slots {
		if _, ok := seen[s.RoomID]; ok {
			continue
		}
		seen[s.RoomID] = struct{}{}
		ids = append(ids, s.RoomID)
	}
	return ids
}
