package repository_test

import (
	"context"
	"testing"
	"time"

	"escaperoom/internal/database/dbtest"
	"escaperoom/internal/domain"
	"escaperoom/internal/pkg/apperr"
	"escaperoom/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBooking(f *dbtest.Fixture, at time.Time) *domain.Booking {
	return &domain.Booking{
		RoomID:          f.Room.ID,
		UserID:          f.Customer.ID,
		ScheduledAt:     at,
		Players:         4,
		Status:          domain.BookingPending,
		CreatedByUserID: f.Customer.ID,
		CreatedByRole:   domain.RoleUser,
	}
}

func TestBookingRepository_ActiveSlotIsUnique(t *testing.T) {
	f := dbtest.Seed(t)
	ctx := context.Background()
	repo := f.Store.Bookings()
	at := time.Date(2026, 10, 20, 14, 0, 0, 0, time.UTC)

	first := newBooking(f, at)
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, newBooking(f, at))
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	// a cancelled booking releases the slot
	_, err = repo.UpdateStatus(ctx, first.ID, domain.BookingPending, domain.BookingCancelled, time.Now())
	require.NoError(t, err)
	assert.NoError(t, repo.Create(ctx, newBooking(f, at)))
}

func TestBookingRepository_ExistsActiveAndRange(t *testing.T) {
	f := dbtest.Seed(t)
	ctx := context.Background()
	repo := f.Store.Bookings()
	loc := time.FixedZone("CEST", 2*3600)
	at := time.Date(2026, 10, 20, 14, 0, 0, 0, loc)

	require.NoError(t, repo.Create(ctx, newBooking(f, at)))

	ok, err := repo.ExistsActive(ctx, f.Room.ID, at)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsActive(ctx, f.Room.ID, at.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, ok)

	day := time.Date(2026, 10, 20, 0, 0, 0, 0, loc)
	times, err := repo.ActiveTimesBetween(ctx, f.Room.ID, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, times, 1)
	assert.True(t, times[0].Equal(at))
}

func TestBookingRepository_UpdateStatusIsCompareAndSet(t *testing.T) {
	f := dbtest.Seed(t)
	ctx := context.Background()
	repo := f.Store.Bookings()

	b := newBooking(f, time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, b))

	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	got, err := repo.UpdateStatus(ctx, b.ID, domain.BookingPending, domain.BookingConfirmed, now)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, got.Status)
	require.NotNil(t, got.ConfirmedAt)
	assert.True(t, got.ConfirmedAt.Equal(now))

	_, err = repo.UpdateStatus(ctx, b.ID, domain.BookingPending, domain.BookingCancelled, now)
	assert.ErrorIs(t, err, repository.ErrStaleStatus)
}

func TestBookingRepository_SoftDeleteHides(t *testing.T) {
	f := dbtest.Seed(t)
	ctx := context.Background()
	repo := f.Store.Bookings()
	at := time.Date(2026, 10, 21, 10, 0, 0, 0, time.UTC)

	b := newBooking(f, at)
	require.NoError(t, repo.Create(ctx, b))
	require.NoError(t, repo.SoftDelete(ctx, b.ID, time.Now()))

	_, err := repo.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, repo.SoftDelete(ctx, b.ID, time.Now()), apperr.ErrNotFound)

	ok, err := repo.ExistsActive(ctx, f.Room.ID, at)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBookingRepository_ListForOwner(t *testing.T) {
	f := dbtest.Seed(t)
	ctx := context.Background()
	repo := f.Store.Bookings()

	require.NoError(t, repo.Create(ctx, newBooking(f, time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC))))
	require.NoError(t, repo.Create(ctx, newBooking(f, time.Date(2026, 10, 20, 14, 0, 0, 0, time.UTC))))

	mine, err := repo.ListForOwner(ctx, repository.BookingFilter{OwnerID: f.Owner.ID})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	others, err := repo.ListForOwner(ctx, repository.BookingFilter{OwnerID: f.OtherOwner.ID})
	require.NoError(t, err)
	assert.Empty(t, others)

	confirmed, err := repo.ListForOwner(ctx, repository.BookingFilter{Status: domain.BookingConfirmed})
	require.NoError(t, err)
	assert.Empty(t, confirmed)
}

func TestReviewRepository_OneLiveReviewPerBooking(t *testing.T) {
	f := dbtest.Seed(t)
	ctx := context.Background()
	reviews := f.Store.Reviews()

	b := newBooking(f, time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, f.Store.Bookings().Create(ctx, b))

	rv := &domain.Review{UserID: f.Customer.ID, RoomID: f.Room.ID, BookingID: b.ID, Rating: 5}
	require.NoError(t, reviews.Create(ctx, rv))

	err := reviews.Create(ctx, &domain.Review{UserID: f.Customer.ID, RoomID: f.Room.ID, BookingID: b.ID, Rating: 3})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	require.NoError(t, reviews.SoftDelete(ctx, rv.ID, time.Now()))
	assert.NoError(t, reviews.Create(ctx, &domain.Review{UserID: f.Customer.ID, RoomID: f.Room.ID, BookingID: b.ID, Rating: 4}))

	ratings, err := reviews.ActiveRatings(ctx, f.Room.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, ratings)
}

func TestLocalRepository_OwnerOfRoom(t *testing.T) {
	f := dbtest.Seed(t)
	ctx := context.Background()

	owner, err := f.Store.Locals().OwnerOfRoom(ctx, f.Room.ID)
	require.NoError(t, err)
	assert.Equal(t, f.Owner.ID, owner)

	_, err = f.Store.Locals().OwnerOfRoom(ctx, 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStore_TransactionRollsBack(t *testing.T) {
	f := dbtest.Seed(t)
	ctx := context.Background()

	err := f.Store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Rooms().UpdateRating(ctx, f.Room.ID, 4.5, 2); err != nil {
			return err
		}
		return apperr.ErrConflict
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	room, err := f.Store.Rooms().GetByID(ctx, f.Room.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, room.RatingAvg)
	assert.Equal(t, 0, room.RatingCount)
}
