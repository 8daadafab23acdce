package bookings

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/itvlab/lab-scheduler/internal/bookingwindow"
	"github.com/itvlab/lab-scheduler/internal/domain"
	"github.com/itvlab/lab-scheduler/internal/service/bookings/models"
	"github.com/itvlab/lab-scheduler/pkg/types"
)

const (
	exportFileSQLite = "lab_scheduler.db"
	exportFileJSON   = "lab_scheduler.json"
)

// Service сервис чтения и администрирования бронирований
type Service struct {
	bookingRepo  BookingRepository
	roomRepo     RoomRepository
	snapshotter  Snapshotter
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// Option настраивает сервис
type Option func(s *Service)

// WithTimeProvider подменяет источник текущего времени
func WithTimeProvider(tp TimeProvider) Option {
	return func(s *Service) {
		s.timeProvider = tp
	}
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time { return time.Now().UTC() }

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	roomRepo RoomRepository,
	snapshotter Snapshotter,
	txManager TransactionManager,
	logger Logger,
	opts ...Option,
) *Service {
	s := &Service{
		bookingRepo:  bookingRepo,
		roomRepo:     roomRepo,
		snapshotter:  snapshotter,
		txManager:    txManager,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListBookings возвращает бронирования рабочих дней в периоде [start, end].
// Обе даты обязательны, период не длиннее domain.MaxListRangeDays дней.
func (s *Service) ListBookings(ctx context.Context, req *models.ListBookingsRequest) ([]models.BookingResponse, error) {
	s.logger.Info("ListBookings: period=%s to %s", req.StartDate, req.EndDate)

	if strings.TrimSpace(req.StartDate) == "" || strings.TrimSpace(req.EndDate) == "" {
		return nil, fmt.Errorf("%w: start_date and end_date are required", ErrInvalidInput)
	}
	start, err := types.ParseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date: %v", ErrInvalidDate, err)
	}
	end, err := types.ParseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: end_date: %v", ErrInvalidDate, err)
	}
	if start.After(end) {
		return nil, ErrInvalidTimeRange
	}
	if start.DaysUntil(end) > domain.MaxListRangeDays {
		return nil, ErrRangeTooLong
	}

	bookings, err := s.bookingRepo.List(ctx, domain.BookingsFilter{StartDate: start, EndDate: end})
	if err != nil {
		s.logger.Error("ListBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBookings - repository error: %v", ErrInternal, err)
	}

	// Бронирования на выходные не показываются
	weekdays := bookings[:0]
	for _, b := range bookings {
		if !b.BookingDate.IsWeekend() {
			weekdays = append(weekdays, b)
		}
	}

	s.logger.Info("ListBookings: fetched %d bookings", len(weekdays))
	return models.FromDomainBookingList(weekdays), nil
}

// WeekSchedule возвращает расписание рабочей недели, содержащей date
func (s *Service) WeekSchedule(ctx context.Context, date types.Date) (*domain.WeekSchedule, error) {
	start := bookingwindow.WeekStart(date)
	week := &domain.WeekSchedule{
		Start:    start,
		Days:     make([]types.Date, 0, domain.WorkDaysPerWeek),
		Bookings: make(map[domain.Slot]*domain.Booking),
	}
	for i := 0; i < domain.WorkDaysPerWeek; i++ {
		week.Days = append(week.Days, start.AddDays(i))
	}

	// Комнаты и бронирования читаются одним снимком
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		rooms, err := s.roomRepo.List(txCtx)
		if err != nil {
			return fmt.Errorf("list rooms: %v", err)
		}
		bookings, err := s.bookingRepo.List(txCtx, domain.BookingsFilter{StartDate: start, EndDate: week.End()})
		if err != nil {
			return fmt.Errorf("list bookings: %v", err)
		}

		week.Rooms = rooms
		for _, b := range bookings {
			week.Bookings[b.Slot()] = b
		}
		return nil
	})
	if err != nil {
		s.logger.Error("WeekSchedule: week=%s failed: %v", start, err)
		return nil, fmt.Errorf("%w: WeekSchedule - %v", ErrInternal, err)
	}

	s.logger.Info("WeekSchedule: week=%s, rooms=%d, bookings=%d", start, len(week.Rooms), len(week.Bookings))
	return week, nil
}

// Clear удаляет бронирования по фильтру и возвращает их количество.
// Пустой фильтр удаляет все бронирования.
func (s *Service) Clear(ctx context.Context, req *models.ClearBookingsRequest) (int64, error) {
	filter, err := toClearFilter(req)
	if err != nil {
		s.logger.Warn("Clear: invalid filter: %v", err)
		return 0, err
	}

	var deleted int64
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		deleted, err = s.bookingRepo.Delete(txCtx, filter)
		return err
	})
	if err != nil {
		s.logger.Error("Clear: repository error: %v", err)
		return 0, fmt.Errorf("%w: Clear - repository error: %v", ErrInternal, err)
	}

	if filter.IsEmpty() {
		s.logger.Warn("Clear: all bookings deleted (%d)", deleted)
	} else {
		s.logger.Info("Clear: deleted %d bookings", deleted)
	}
	return deleted, nil
}

// Export возвращает копию базы: файл SQLite или JSON-выгрузку для PostgreSQL
func (s *Service) Export(ctx context.Context) (*models.Export, error) {
	if s.snapshotter.SupportsFile() {
		return s.exportFile(ctx)
	}
	return s.exportJSON(ctx)
}

func (s *Service) exportFile(ctx context.Context) (*models.Export, error) {
	dir, err := os.MkdirTemp("", "lab-export-")
	if err != nil {
		return nil, fmt.Errorf("%w: Export - create temp dir: %v", ErrInternal, err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, exportFileSQLite)
	if err := s.snapshotter.WriteFile(ctx, path); err != nil {
		s.logger.Error("Export: snapshot failed: %v", err)
		return nil, fmt.Errorf("%w: Export - snapshot: %v", ErrInternal, err)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: Export - read snapshot: %v", ErrInternal, err)
	}

	s.logger.Info("Export: database snapshot %d bytes", len(body))
	return &models.Export{
		FileName:    exportFileSQLite,
		ContentType: "application/octet-stream",
		Body:        body,
	}, nil
}

func (s *Service) exportJSON(ctx context.Context) (*models.Export, error) {
	dump := models.Dump{GeneratedAt: s.timeProvider.Now().UTC().Format(time.RFC3339)}

	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		rooms, err := s.roomRepo.List(txCtx)
		if err != nil {
			return fmt.Errorf("list rooms: %v", err)
		}
		bookings, err := s.bookingRepo.List(txCtx, domain.BookingsFilter{})
		if err != nil {
			return fmt.Errorf("list bookings: %v", err)
		}
		dump.Rooms = models.FromDomainRooms(rooms)
		dump.Bookings = models.FromDomainBookingDumpList(bookings)
		return nil
	})
	if err != nil {
		s.logger.Error("Export: dump failed: %v", err)
		return nil, fmt.Errorf("%w: Export - %v", ErrInternal, err)
	}

	body, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: Export - encode dump: %v", ErrInternal, err)
	}

	s.logger.Info("Export: JSON dump with %d rooms and %d bookings", len(dump.Rooms), len(dump.Bookings))
	return &models.Export{
		FileName:    exportFileJSON,
		ContentType: "application/json",
		Body:        body,
	}, nil
}

func toClearFilter(req *models.ClearBookingsRequest) (domain.ClearFilter, error) {
	var filter domain.ClearFilter

	if req.StartDate != nil && *req.StartDate != "" {
		d, err := types.ParseDate(*req.StartDate)
		if err != nil {
			return filter, fmt.Errorf("%w: start_date: %v", ErrInvalidDate, err)
		}
		filter.StartDate = &d
	}
	if req.EndDate != nil && *req.EndDate != "" {
		d, err := types.ParseDate(*req.EndDate)
		if err != nil {
			return filter, fmt.Errorf("%w: end_date: %v", ErrInvalidDate, err)
		}
		filter.EndDate = &d
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return filter, ErrInvalidTimeRange
	}
	if req.RoomID != nil {
		if *req.RoomID <= 0 {
			return filter, fmt.Errorf("%w: room_id must be positive", ErrInvalidInput)
		}
		filter.RoomID = req.RoomID
	}
	if req.Period != nil && *req.Period != "" {
		p := domain.Period(*req.Period)
		if !p.IsValid() {
			return filter, fmt.Errorf("%w: unknown period %q", ErrInvalidInput, *req.Period)
		}
		filter.Period = &p
	}

	return filter, nil
}
