package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itvlab/lab-scheduler/internal/domain"
	"github.com/itvlab/lab-scheduler/internal/infra/storage/booking"
	"github.com/itvlab/lab-scheduler/internal/infra/storage/room"
	"github.com/itvlab/lab-scheduler/internal/infra/storage/storagetest"
	"github.com/itvlab/lab-scheduler/pkg/ptr"
	"github.com/itvlab/lab-scheduler/pkg/types"
)

func setup(t *testing.T) (*storagetest.DB, *booking.Repository) {
	t.Helper()
	db := storagetest.NewSQLite(t)
	rooms := room.NewRepository(db, db.Dialect)
	for _, name := range []string{"Geral 1", "Geral 2", "Cultivo A1"} {
		_, err := rooms.CreateIfMissing(context.Background(), name, domain.CategoryForName(name))
		require.NoError(t, err)
	}
	return db, booking.NewRepository(db, db.Dialect)
}

func newBooking(user string, roomID int64, date string, period domain.Period) *domain.Booking {
	return &domain.Booking{
		UserName:    user,
		UserEmail:   user + "@lab.br",
		RoomID:      roomID,
		BookingDate: types.MustParseDate(date),
		Period:      period,
		CreatedAt:   time.Date(2024, time.May, 13, 10, 0, 0, 0, time.UTC),
	}
}

func TestRepository_CreateAndList(t *testing.T) {
	_, repo := setup(t)
	ctx := context.Background()

	b := newBooking("ana", 1, "2024-05-15", domain.PeriodMorning)
	b.CoordinatorName = ptr.Ptr("Prof. Silva")
	created, err := repo.Create(ctx, b)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = repo.Create(ctx, newBooking("bia", 3, "2024-05-14", domain.PeriodAfternoon))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newBooking("bia", 1, "2024-05-15", domain.PeriodAfternoon))
	require.NoError(t, err)

	list, err := repo.List(ctx, domain.BookingsFilter{
		StartDate: types.MustParseDate("2024-05-13"),
		EndDate:   types.MustParseDate("2024-05-17"),
	})
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, "2024-05-14", list[0].BookingDate.String())
	assert.Equal(t, "Cultivo A1", list[0].RoomName)
	assert.Equal(t, domain.CategorySpecialized, list[0].RoomCategory)
	assert.Nil(t, list[0].CoordinatorName)

	assert.Equal(t, domain.PeriodMorning, list[1].Period)
	assert.Equal(t, domain.PeriodAfternoon, list[2].Period)
	require.NotNil(t, list[1].CoordinatorName)
	assert.Equal(t, "Prof. Silva", *list[1].CoordinatorName)
	assert.Equal(t, domain.CategoryGeneral, list[1].RoomCategory)
	assert.True(t, list[1].CreatedAt.Equal(time.Date(2024, time.May, 13, 10, 0, 0, 0, time.UTC)))
}

func TestRepository_Create_SlotConflict(t *testing.T) {
	_, repo := setup(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, newBooking("ana", 1, "2024-05-15", domain.PeriodMorning))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newBooking("bia", 1, "2024-05-15", domain.PeriodMorning))
	assert.ErrorIs(t, err, booking.ErrSlotConflict)
}

func TestRepository_CreateRollsBackInTransaction(t *testing.T) {
	db, repo := setup(t)
	ctx := context.Background()

	err := db.TxManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if _, err := repo.Create(txCtx, newBooking("ana", 1, "2024-05-15", domain.PeriodMorning)); err != nil {
			return err
		}
		_, err := repo.Create(txCtx, newBooking("ana", 1, "2024-05-15", domain.PeriodMorning))
		return err
	})
	assert.ErrorIs(t, err, booking.ErrSlotConflict)

	list, err := repo.List(ctx, domain.BookingsFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRepository_GetByUserAndDates(t *testing.T) {
	_, repo := setup(t)
	ctx := context.Background()

	for _, b := range []*domain.Booking{
		newBooking("ana", 1, "2024-05-15", domain.PeriodMorning),
		newBooking("ana", 2, "2024-05-15", domain.PeriodAfternoon),
		newBooking("ana", 1, "2024-05-16", domain.PeriodMorning),
		newBooking("bia", 3, "2024-05-15", domain.PeriodMorning),
	} {
		_, err := repo.Create(ctx, b)
		require.NoError(t, err)
	}

	got, err := repo.GetByUserAndDates(ctx, domain.UserDayFilter{
		UserName: "ana",
		Dates:    []types.Date{types.MustParseDate("2024-05-15")},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, b := range got {
		assert.Equal(t, "ana", b.UserName)
		assert.Equal(t, "2024-05-15", b.BookingDate.String())
	}

	got, err = repo.GetByUserAndDates(ctx, domain.UserDayFilter{UserName: "ana"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRepository_GetBySlots(t *testing.T) {
	_, repo := setup(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, newBooking("ana", 1, "2024-05-15", domain.PeriodMorning))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newBooking("bia", 2, "2024-05-15", domain.PeriodMorning))
	require.NoError(t, err)

	got, err := repo.GetBySlots(ctx, []domain.Slot{
		{RoomID: 1, Date: types.MustParseDate("2024-05-15"), Period: domain.PeriodMorning},
		{RoomID: 1, Date: types.MustParseDate("2024-05-15"), Period: domain.PeriodAfternoon},
		{RoomID: 3, Date: types.MustParseDate("2024-05-15"), Period: domain.PeriodMorning},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ana", got[0].UserName)
}

func TestRepository_Delete(t *testing.T) {
	_, repo := setup(t)
	ctx := context.Background()

	for _, b := range []*domain.Booking{
		newBooking("ana", 1, "2024-05-13", domain.PeriodMorning),
		newBooking("ana", 1, "2024-05-14", domain.PeriodAfternoon),
		newBooking("bia", 2, "2024-05-14", domain.PeriodMorning),
		newBooking("bia", 2, "2024-05-20", domain.PeriodMorning),
	} {
		_, err := repo.Create(ctx, b)
		require.NoError(t, err)
	}

	deleted, err := repo.Delete(ctx, domain.ClearFilter{
		StartDate: ptr.Ptr(types.MustParseDate("2024-05-14")),
		EndDate:   ptr.Ptr(types.MustParseDate("2024-05-17")),
		RoomID:    ptr.Ptr(int64(2)),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	deleted, err = repo.Delete(ctx, domain.ClearFilter{Period: ptr.Ptr(domain.PeriodAfternoon)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	deleted, err = repo.Delete(ctx, domain.ClearFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}
