package create_bookings

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/itvlab/lab-scheduler/internal/bookingwindow"
	"github.com/itvlab/lab-scheduler/internal/domain"
	"github.com/itvlab/lab-scheduler/pkg/ptr"
)

// Понедельник 13.05.2024 09:00 UTC, текущая неделя открыта до среды 21:00
var monday = time.Date(2024, time.May, 13, 9, 0, 0, 0, time.UTC)

const (
	geral1     int64 = 1
	geral2     int64 = 2
	geral3     int64 = 3
	citometria int64 = 6
	salaClara  int64 = 7
	geologia   int64 = 8
)

type fixture struct {
	uc       *UseCase
	store    *fakeStore
	tx       *fakeTxManager
	notifier *mockNotifier
	metrics  *fakeMetrics
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	store := newFakeStore()
	tx := &fakeTxManager{store: store}
	notifier := &mockNotifier{}
	m := &fakeMetrics{}

	uc := NewUseCase(
		store,
		store,
		bookingwindow.NewCalculator(bookingwindow.DefaultRules()),
		notifier,
		tx,
		m,
		nopLogger{},
		WithTimeProvider(fixedClock{now: now}),
	)
	return &fixture{uc: uc, store: store, tx: tx, notifier: notifier, metrics: m}
}

func (f *fixture) notifySucceeds() {
	f.notifier.On("NotifyBookingConfirmed", mock.Anything, mock.Anything).Return(nil)
}

func request(user string, slots ...SlotRequest) *Request {
	return &Request{
		UserName:  user,
		UserEmail: strings.ToLower(strings.TrimSpace(user)) + "@lab.br",
		Slots:     slots,
	}
}

func slot(roomID int64, date string, period domain.Period) SlotRequest {
	return SlotRequest{RoomID: roomID, Date: date, Period: string(period)}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t, monday)
	f.notifier.On("NotifyBookingConfirmed", mock.Anything, mock.MatchedBy(func(c domain.Confirmation) bool {
		return c.UserName == "Ana" &&
			c.UserEmail == "ana@lab.br" &&
			c.CoordinatorName != nil && *c.CoordinatorName == "Prof. Silva" &&
			len(c.Slots) == 2 &&
			c.Slots[0].RoomName == "Geral 1" &&
			c.Slots[1].RoomName == "Citometria - Bancada"
	})).Return(nil).Once()

	req := request("Ana",
		slot(geral1, "2024-05-14", domain.PeriodMorning),
		slot(citometria, "2024-05-14", domain.PeriodAfternoon),
	)
	req.CoordinatorName = ptr.Ptr("  Prof. Silva ")

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.Bookings, 2)
	assert.True(t, resp.NotificationSent)
	assert.Empty(t, resp.Warning)
	assert.Equal(t, "Geral 1", resp.Bookings[0].RoomName)
	assert.Equal(t, "2024-05-14", resp.Bookings[0].Date.String())
	assert.Equal(t, domain.PeriodAfternoon, resp.Bookings[1].Period)
	assert.NotZero(t, resp.Bookings[0].ID)

	assert.Equal(t, 2, f.store.count())
	assert.Equal(t, monday, f.store.bookings[0].CreatedAt)
	assert.Equal(t, []string{"committed"}, f.metrics.outcomes)
	assert.Equal(t, map[string]int{"general": 1, "specialized": 1}, f.metrics.slots)
	f.notifier.AssertExpectations(t)
}

func TestExecute_InvalidInput(t *testing.T) {
	valid := slot(geral1, "2024-05-14", domain.PeriodMorning)
	tooMany := make([]SlotRequest, domain.MaxSlotsPerRequest+1)
	for i := range tooMany {
		tooMany[i] = valid
	}

	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{"no slots", func(r *Request) { r.Slots = nil }},
		{"too many slots", func(r *Request) { r.Slots = tooMany }},
		{"blank name", func(r *Request) { r.UserName = "   " }},
		{"long name", func(r *Request) { r.UserName = strings.Repeat("a", domain.MaxNameLength+1) }},
		{"email without at", func(r *Request) { r.UserEmail = "ana.lab.br" }},
		{"email without dot after at", func(r *Request) { r.UserEmail = "ana.silva@lab" }},
		{"email with empty local part", func(r *Request) { r.UserEmail = "@lab.br" }},
		{"email ending with dot", func(r *Request) { r.UserEmail = "ana@lab." }},
		{"long coordinator", func(r *Request) { r.CoordinatorName = ptr.Ptr(strings.Repeat("c", domain.MaxNameLength+1)) }},
		{"room id zero", func(r *Request) { r.Slots[0].RoomID = 0 }},
		{"bad date", func(r *Request) { r.Slots[0].Date = "14/05/2024" }},
		{"bad period", func(r *Request) { r.Slots[0].Period = "Noite" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, monday)
			req := request("Ana", valid)
			tt.mutate(req)

			resp, err := f.uc.Execute(context.Background(), req)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.NotEmpty(t, UserMessage(err))
			assert.Zero(t, f.tx.calls)
			assert.Equal(t, []string{"invalid_input"}, f.metrics.outcomes)
			f.notifier.AssertNotCalled(t, "NotifyBookingConfirmed", mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_UserNameTrimmed(t *testing.T) {
	f := newFixture(t, monday)
	f.notifySucceeds()
	f.store.seed("Ana", citometria, "2024-05-14", domain.PeriodMorning)
	f.store.seed("Ana", salaClara, "2024-05-14", domain.PeriodMorning)
	f.store.seed("Ana", geologia, "2024-05-14", domain.PeriodAfternoon)

	_, err := f.uc.Execute(context.Background(), request("  Ana  ", slot(geral1, "2024-05-14", domain.PeriodAfternoon)))
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestExecute_WindowClosed(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		date    string
		message string
	}{
		{"weekend", monday, "2024-05-18", "finais de semana"},
		{"next week before release", monday, "2024-05-20", "ainda não foi liberado"},
		{"current week after cutoff", time.Date(2024, time.May, 15, 22, 0, 0, 0, time.UTC), "2024-05-16", "encerrou"},
		{"past date", monday, "2024-05-10", "datas passadas"},
		{"too far ahead", monday, "2024-06-03", "semana atual ou a próxima"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.now)
			_, err := f.uc.Execute(context.Background(), request("Ana",
				slot(citometria, "2024-05-16", domain.PeriodMorning),
				slot(geral1, tt.date, domain.PeriodMorning),
			))
			assert.ErrorIs(t, err, ErrWindowClosed)
			assert.Contains(t, UserMessage(err), tt.message)
			assert.Zero(t, f.store.count())
		})
	}
}

func TestExecute_RoomNotFound(t *testing.T) {
	f := newFixture(t, monday)

	_, err := f.uc.Execute(context.Background(), request("Ana",
		slot(geral1, "2024-05-14", domain.PeriodMorning),
		slot(99, "2024-05-14", domain.PeriodAfternoon),
	))
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.Contains(t, UserMessage(err), "99")
	assert.Zero(t, f.store.count())
}

func TestExecute_QuotaBoundary(t *testing.T) {
	f := newFixture(t, monday)
	f.notifySucceeds()
	f.store.seed("Ana", citometria, "2024-05-15", domain.PeriodMorning)
	f.store.seed("Ana", salaClara, "2024-05-15", domain.PeriodMorning)

	// Третье бронирование на дату допустимо
	_, err := f.uc.Execute(context.Background(), request("Ana", slot(geologia, "2024-05-15", domain.PeriodAfternoon)))
	require.NoError(t, err)

	// Четвертое нет
	_, err = f.uc.Execute(context.Background(), request("Ana", slot(citometria, "2024-05-15", domain.PeriodAfternoon)))
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Contains(t, UserMessage(err), "15/05/2024")
	assert.Equal(t, 3, f.store.count())

	// Другая дата не затронута
	_, err = f.uc.Execute(context.Background(), request("Ana", slot(citometria, "2024-05-16", domain.PeriodAfternoon)))
	assert.NoError(t, err)
}

func TestExecute_QuotaWithinBatch(t *testing.T) {
	f := newFixture(t, monday)

	_, err := f.uc.Execute(context.Background(), request("Ana",
		slot(citometria, "2024-05-15", domain.PeriodMorning),
		slot(salaClara, "2024-05-15", domain.PeriodMorning),
		slot(geologia, "2024-05-15", domain.PeriodMorning),
		slot(citometria, "2024-05-15", domain.PeriodAfternoon),
	))
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Zero(t, f.store.count())
	assert.Equal(t, []string{"quota_exceeded"}, f.metrics.outcomes)
}

func TestExecute_GeneralRooms(t *testing.T) {
	type seeded struct {
		room   int64
		period domain.Period
	}
	tests := []struct {
		name    string
		seed    []seeded
		slots   []SlotRequest
		wantErr error
	}{
		{
			name: "two general rooms in one period of the request",
			slots: []SlotRequest{
				slot(geral1, "2024-05-15", domain.PeriodMorning),
				slot(geral2, "2024-05-15", domain.PeriodMorning),
			},
			wantErr: ErrCategoryConflict,
		},
		{
			name:    "different general room already held in the period",
			seed:    []seeded{{geral1, domain.PeriodMorning}},
			slots:   []SlotRequest{slot(geral2, "2024-05-15", domain.PeriodMorning)},
			wantErr: ErrCategoryConflict,
		},
		{
			name:    "third distinct general room on the date",
			seed:    []seeded{{geral1, domain.PeriodMorning}, {geral2, domain.PeriodAfternoon}},
			slots:   []SlotRequest{slot(geral3, "2024-05-15", domain.PeriodMorning)},
			wantErr: ErrCategoryConflict,
		},
		{
			name: "two general rooms in two periods",
			slots: []SlotRequest{
				slot(geral1, "2024-05-15", domain.PeriodMorning),
				slot(geral2, "2024-05-15", domain.PeriodAfternoon),
			},
		},
		{
			name: "same general room in both periods",
			seed: []seeded{{geral1, domain.PeriodMorning}},
			slots: []SlotRequest{
				slot(geral1, "2024-05-15", domain.PeriodAfternoon),
			},
		},
		{
			name: "general room alongside specialized room in the same period",
			seed: []seeded{{citometria, domain.PeriodMorning}},
			slots: []SlotRequest{
				slot(geral1, "2024-05-15", domain.PeriodMorning),
			},
		},
		{
			name: "same general room held again in the same period",
			seed: []seeded{{geral1, domain.PeriodMorning}},
			slots: []SlotRequest{
				slot(geral1, "2024-05-15", domain.PeriodMorning),
			},
			wantErr: ErrSlotTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, monday)
			f.notifySucceeds()
			for _, s := range tt.seed {
				f.store.seed("Ana", s.room, "2024-05-15", s.period)
			}
			// Бронирования других пользователей не учитываются
			f.store.seed("Bia", geral3, "2024-05-15", domain.PeriodAfternoon)

			_, err := f.uc.Execute(context.Background(), request("Ana", tt.slots...))
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, len(tt.seed)+1+len(tt.slots), f.store.count())
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, len(tt.seed)+1, f.store.count())
		})
	}
}

func TestExecute_SlotTaken(t *testing.T) {
	f := newFixture(t, monday)
	f.store.seed("Bia", citometria, "2024-05-14", domain.PeriodMorning)

	_, err := f.uc.Execute(context.Background(), request("Ana", slot(citometria, "2024-05-14", domain.PeriodMorning)))
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Contains(t, UserMessage(err), "Citometria - Bancada")
	assert.Equal(t, 1, f.store.count())
}

func TestExecute_DuplicateWithinBatch(t *testing.T) {
	f := newFixture(t, monday)

	_, err := f.uc.Execute(context.Background(), request("Ana",
		slot(citometria, "2024-05-14", domain.PeriodMorning),
		slot(citometria, "2024-05-14", domain.PeriodMorning),
	))
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Contains(t, UserMessage(err), "mais de uma vez")
	assert.Zero(t, f.store.count())
}

func TestExecute_Atomicity(t *testing.T) {
	batch := request("Ana",
		slot(citometria, "2024-05-14", domain.PeriodMorning),
		slot(salaClara, "2024-05-14", domain.PeriodMorning),
		slot(geologia, "2024-05-14", domain.PeriodMorning),
	)

	t.Run("third slot violates quota", func(t *testing.T) {
		f := newFixture(t, monday)
		f.store.seed("Ana", geral1, "2024-05-14", domain.PeriodAfternoon)

		_, err := f.uc.Execute(context.Background(), batch)
		assert.ErrorIs(t, err, ErrQuotaExceeded)
		assert.Equal(t, 1, f.store.count())
	})

	t.Run("third insert fails", func(t *testing.T) {
		f := newFixture(t, monday)
		f.store.failCreateAt = 3
		f.store.createErr = errors.New("disk I/O error")

		_, err := f.uc.Execute(context.Background(), batch)
		assert.ErrorIs(t, err, ErrPersistence)
		assert.Equal(t, msgPersistence, UserMessage(err))
		assert.Zero(t, f.store.count())
		assert.Equal(t, []string{"persistence_failure"}, f.metrics.outcomes)
		f.notifier.AssertNotCalled(t, "NotifyBookingConfirmed", mock.Anything, mock.Anything)
	})

	t.Run("third slot taken concurrently", func(t *testing.T) {
		f := newFixture(t, monday)
		f.store.failCreateAt = 3
		f.store.createErr = errConflict()

		_, err := f.uc.Execute(context.Background(), batch)
		assert.ErrorIs(t, err, ErrSlotTaken)
		assert.Zero(t, f.store.count())
	})
}

func TestExecute_ReadFailure(t *testing.T) {
	f := newFixture(t, monday)
	f.store.readErr = errors.New("connection reset")

	_, err := f.uc.Execute(context.Background(), request("Ana", slot(citometria, "2024-05-14", domain.PeriodMorning)))
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestExecute_NotificationFailureIsSoft(t *testing.T) {
	f := newFixture(t, monday)
	f.notifier.On("NotifyBookingConfirmed", mock.Anything, mock.Anything).Return(errors.New("smtp: connection refused"))

	resp, err := f.uc.Execute(context.Background(), request("Ana", slot(citometria, "2024-05-14", domain.PeriodMorning)))
	require.NoError(t, err)
	assert.False(t, resp.NotificationSent)
	assert.Equal(t, msgNotificationFailed, resp.Warning)
	assert.Len(t, resp.Bookings, 1)
	assert.Equal(t, 1, f.store.count())
}

func TestExecute_ResubmissionRejected(t *testing.T) {
	f := newFixture(t, monday)
	f.notifySucceeds()
	req := request("Ana", slot(citometria, "2024-05-14", domain.PeriodMorning))

	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, 1, f.store.count())
}
