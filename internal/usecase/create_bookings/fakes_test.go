package create_bookings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/itvlab/lab-scheduler/internal/domain"
	bookingRepo "github.com/itvlab/lab-scheduler/internal/infra/storage/booking"
	"github.com/itvlab/lab-scheduler/pkg/types"
)

// fakeStore хранилище комнат и бронирований в памяти
type fakeStore struct {
	mu       sync.Mutex
	rooms    map[int64]*domain.Room
	bookings []*domain.Booking
	nextID   int64

	createCalls  int
	failCreateAt int // номер вызова Create, который завершится createErr
	createErr    error
	readErr      error
}

func newFakeStore() *fakeStore {
	s := &fakeStore{rooms: make(map[int64]*domain.Room)}
	for i, name := range domain.DefaultRoomNames {
		id := int64(i + 1)
		s.rooms[id] = &domain.Room{ID: id, Name: name, Category: domain.CategoryForName(name)}
	}
	return s
}

func (s *fakeStore) seed(user string, roomID int64, date string, period domain.Period) {
	s.nextID++
	s.bookings = append(s.bookings, &domain.Booking{
		ID:          s.nextID,
		UserName:    user,
		UserEmail:   user + "@lab.br",
		RoomID:      roomID,
		BookingDate: types.MustParseDate(date),
		Period:      period,
	})
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

func (s *fakeStore) withRoom(b *domain.Booking) *domain.Booking {
	cp := *b
	if r, ok := s.rooms[b.RoomID]; ok {
		cp.RoomName = r.Name
		cp.RoomCategory = r.Category
	}
	return &cp
}

func (s *fakeStore) GetByIDs(_ context.Context, ids []int64) (map[int64]*domain.Room, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	out := make(map[int64]*domain.Room)
	for _, id := range ids {
		if r, ok := s.rooms[id]; ok {
			out[id] = r
		}
	}
	return out, nil
}

func (s *fakeStore) GetByUserAndDates(_ context.Context, filter domain.UserDayFilter) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dates := make(map[types.Date]bool)
	for _, d := range filter.Dates {
		dates[d] = true
	}
	out := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if b.UserName == filter.UserName && dates[b.BookingDate] {
			out = append(out, s.withRoom(b))
		}
	}
	return out, nil
}

func (s *fakeStore) GetBySlots(_ context.Context, slots []domain.Slot) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := make(map[domain.Slot]bool)
	for _, sl := range slots {
		want[sl] = true
	}
	out := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if want[b.Slot()] {
			out = append(out, s.withRoom(b))
		}
	}
	return out, nil
}

func (s *fakeStore) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.createCalls++
	if s.failCreateAt == s.createCalls {
		return nil, s.createErr
	}
	for _, existing := range s.bookings {
		if existing.Slot() == b.Slot() {
			return nil, fmt.Errorf("%w: unique violation", bookingRepo.ErrSlotConflict)
		}
	}
	s.nextID++
	cp := *b
	cp.ID = s.nextID
	s.bookings = append(s.bookings, &cp)
	return &cp, nil
}

// fakeTxManager откатывает изменения fakeStore при ошибке
type fakeTxManager struct {
	store *fakeStore
	calls int
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	m.store.mu.Lock()
	snapshot := append([]*domain.Booking(nil), m.store.bookings...)
	m.store.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.store.mu.Lock()
		m.store.bookings = snapshot
		m.store.mu.Unlock()
		return err
	}
	return nil
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyBookingConfirmed(ctx context.Context, c domain.Confirmation) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type fakeMetrics struct {
	outcomes []string
	slots    map[string]int
}

func (m *fakeMetrics) BookingOutcome(outcome string) {
	m.outcomes = append(m.outcomes, outcome)
}

func (m *fakeMetrics) SlotBooked(category string) {
	if m.slots == nil {
		m.slots = make(map[string]int)
	}
	m.slots[category]++
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
