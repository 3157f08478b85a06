package review

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"escaperoom/internal/database/dbtest"
	"escaperoom/internal/domain"
	"escaperoom/internal/events"
	"escaperoom/internal/pkg/apperr"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capture struct {
	got []events.Event
}

func (c *capture) Publish(_ context.Context, ev events.Event) error {
	c.got = append(c.got, ev)
	return nil
}

type env struct {
	f   *dbtest.Fixture
	svc *Service
	pub *capture
}

func newEnv(t *testing.T) *env {
	t.Helper()
	f := dbtest.Seed(t)
	pub := &capture{}
	return &env{f: f, svc: NewService(f.Store, pub, zerolog.Nop()), pub: pub}
}

var firstSlot = time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)

// booking stores a booking for u in status, n weeks after firstSlot.
func (e *env) booking(t *testing.T, u *domain.User, n int, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	ctx := context.Background()
	repo := e.f.Store.Bookings()

	b := &domain.Booking{
		RoomID:          e.f.Room.ID,
		UserID:          u.ID,
		ScheduledAt:     firstSlot.AddDate(0, 0, 7*n),
		Players:         4,
		Status:          domain.BookingPending,
		CreatedByUserID: u.ID,
		CreatedByRole:   u.Role,
	}
	require.NoError(t, repo.Create(ctx, b))

	from := domain.BookingPending
	steps := map[domain.BookingStatus][]domain.BookingStatus{
		domain.BookingPending:   nil,
		domain.BookingConfirmed: {domain.BookingConfirmed},
		domain.BookingCompleted: {domain.BookingConfirmed, domain.BookingCompleted},
	}[status]
	for _, to := range steps {
		var err error
		b, err = repo.UpdateStatus(ctx, b.ID, from, to, time.Now())
		require.NoError(t, err)
		from = to
	}
	return b
}

func (e *env) roomRating(t *testing.T) (float64, int) {
	t.Helper()
	room, err := e.f.Store.Rooms().GetByID(context.Background(), e.f.Room.ID)
	require.NoError(t, err)
	return room.RatingAvg, room.RatingCount
}

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }

func TestCreate_OnlyAfterCompletion_OncePerBooking(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	customer := dbtest.Requester(e.f.Customer)
	b := e.booking(t, e.f.Customer, 0, domain.BookingConfirmed)

	in := CreateReviewRequest{BookingID: b.ID, Rating: 5, Comment: strptr("  Great puzzles ")}

	_, err := e.svc.Create(ctx, customer, in)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = e.f.Store.Bookings().UpdateStatus(ctx, b.ID, domain.BookingConfirmed, domain.BookingCompleted, time.Now())
	require.NoError(t, err)

	rv, err := e.svc.Create(ctx, customer, in)
	require.NoError(t, err)
	assert.Equal(t, "Great puzzles", rv.Comment)
	assert.Equal(t, e.f.Room.ID, rv.RoomID)

	_, err = e.svc.Create(ctx, customer, in)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	avg, count := e.roomRating(t)
	assert.Equal(t, 5.0, avg)
	assert.Equal(t, 1, count)

	require.Len(t, e.pub.got, 1)
	assert.Equal(t, events.ReviewChanged, e.pub.got[0].Type)
	assert.Equal(t, 5.0, *e.pub.got[0].RatingAvg)
}

func TestCreate_Rejections(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	b := e.booking(t, e.f.Customer, 0, domain.BookingCompleted)
	tooLong := strings.Repeat("z", domain.MaxReviewCommentLen+1)

	tests := []struct {
		name string
		who  *domain.User
		in   CreateReviewRequest
		want error
	}{
		{"rating below range", e.f.Customer, CreateReviewRequest{BookingID: b.ID, Rating: 0}, apperr.ErrInvalidInput},
		{"rating above range", e.f.Customer, CreateReviewRequest{BookingID: b.ID, Rating: 6}, apperr.ErrInvalidInput},
		{"comment too long", e.f.Customer, CreateReviewRequest{BookingID: b.ID, Rating: 4, Comment: &tooLong}, apperr.ErrInvalidInput},
		{"unknown booking", e.f.Customer, CreateReviewRequest{BookingID: 9999, Rating: 4}, apperr.ErrNotFound},
		{"someone else's booking", e.f.Customer2, CreateReviewRequest{BookingID: b.ID, Rating: 4}, apperr.ErrForbidden},
		{"admin is not the customer", e.f.Admin, CreateReviewRequest{BookingID: b.ID, Rating: 4}, apperr.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.Create(ctx, dbtest.Requester(tt.who), tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	avg, count := e.roomRating(t)
	assert.Zero(t, avg)
	assert.Zero(t, count)
	assert.Empty(t, e.pub.got)
}

func TestRatingAggregate_FollowsCreateUpdateDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	var reviews []*domain.Review
	for i, score := range []int{5, 4, 3} {
		u := e.f.Customer
		if i == 1 {
			u = e.f.Customer2
		}
		b := e.booking(t, u, i, domain.BookingCompleted)
		rv, err := e.svc.Create(ctx, dbtest.Requester(u), CreateReviewRequest{BookingID: b.ID, Rating: score})
		require.NoError(t, err)
		reviews = append(reviews, rv)
	}

	avg, count := e.roomRating(t)
	assert.Equal(t, 4.0, avg)
	assert.Equal(t, 3, count)

	_, err := e.svc.Delete(ctx, dbtest.Requester(e.f.Customer), reviews[2].ID)
	require.NoError(t, err)
	avg, count = e.roomRating(t)
	assert.Equal(t, 4.5, avg)
	assert.Equal(t, 2, count)

	// 5 and 2 average to 3.5
	_, err = e.svc.Update(ctx, dbtest.Requester(e.f.Customer2), reviews[1].ID, UpdateReviewRequest{Rating: intptr(2)})
	require.NoError(t, err)
	avg, count = e.roomRating(t)
	assert.Equal(t, 3.5, avg)
	assert.Equal(t, 2, count)

	_, err = e.svc.Delete(ctx, dbtest.Requester(e.f.Admin), reviews[0].ID)
	require.NoError(t, err)
	_, err = e.svc.Delete(ctx, dbtest.Requester(e.f.Customer2), reviews[1].ID)
	require.NoError(t, err)

	avg, count = e.roomRating(t)
	assert.Zero(t, avg)
	assert.Zero(t, count)
}

func TestUpdate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	customer := dbtest.Requester(e.f.Customer)
	b := e.booking(t, e.f.Customer, 0, domain.BookingCompleted)
	rv, err := e.svc.Create(ctx, customer, CreateReviewRequest{BookingID: b.ID, Rating: 4, Comment: strptr("fun")})
	require.NoError(t, err)

	_, err = e.svc.Update(ctx, customer, rv.ID, UpdateReviewRequest{})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = e.svc.Update(ctx, customer, rv.ID, UpdateReviewRequest{Rating: intptr(9)})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = e.svc.Update(ctx, dbtest.Requester(e.f.Customer2), rv.ID, UpdateReviewRequest{Rating: intptr(1)})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = e.svc.Update(ctx, dbtest.Requester(e.f.Owner), rv.ID, UpdateReviewRequest{Rating: intptr(1)})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	got, err := e.svc.Update(ctx, customer, rv.ID, UpdateReviewRequest{Comment: Some(" even better ")})
	require.NoError(t, err)
	assert.Equal(t, 4, got.Rating)
	assert.Equal(t, "even better", got.Comment)

	got, err = e.svc.Update(ctx, dbtest.Requester(e.f.Admin), rv.ID, UpdateReviewRequest{Comment: Null()})
	require.NoError(t, err)
	assert.Empty(t, got.Comment)

	_, err = e.svc.Update(ctx, customer, 9999, UpdateReviewRequest{Rating: intptr(3)})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDelete_AllowsReviewingAgain(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	customer := dbtest.Requester(e.f.Customer)
	b := e.booking(t, e.f.Customer, 0, domain.BookingCompleted)

	rv, err := e.svc.Create(ctx, customer, CreateReviewRequest{BookingID: b.ID, Rating: 2})
	require.NoError(t, err)

	_, err = e.svc.Delete(ctx, dbtest.Requester(e.f.Customer2), rv.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	deleted, err := e.svc.Delete(ctx, customer, rv.ID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)

	_, err = e.svc.Delete(ctx, customer, rv.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = e.svc.Create(ctx, customer, CreateReviewRequest{BookingID: b.ID, Rating: 4})
	require.NoError(t, err)

	mine, err := e.svc.ListMine(ctx, customer, ListParams{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 4, mine[0].Rating)

	byRoom, err := e.svc.ListByRoom(ctx, e.f.Room.ID, ListParams{})
	require.NoError(t, err)
	assert.Len(t, byRoom, 1)
}

func TestUpdateReviewRequest_CommentPresence(t *testing.T) {
	var absent, null, set UpdateReviewRequest
	require.NoError(t, json.Unmarshal([]byte(`{"rating":3}`), &absent))
	require.NoError(t, json.Unmarshal([]byte(`{"comment":null}`), &null))
	require.NoError(t, json.Unmarshal([]byte(`{"comment":"ok"}`), &set))

	assert.False(t, absent.Comment.Set)
	assert.True(t, null.Comment.Set)
	assert.Nil(t, null.Comment.Value)
	assert.True(t, set.Comment.Set)
	assert.Equal(t, "ok", *set.Comment.Value)

	var bad UpdateReviewRequest
	assert.Error(t, json.Unmarshal([]byte(`{"comment":5}`), &bad))
}
