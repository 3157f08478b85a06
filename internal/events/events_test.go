package events

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	got []Event
	err error
}

func (r *recorder) Publish(_ context.Context, ev Event) error {
	r.got = append(r.got, ev)
	return r.err
}

func TestMulti_DeliversToAllAndJoinsErrors(t *testing.T) {
	ok := &recorder{}
	failing := &recorder{err: errors.New("broker down")}

	err := Multi{ok, nil, failing}.Publish(context.Background(), New(BookingCreated, 3))

	assert.ErrorContains(t, err, "broker down")
	require.Len(t, ok.got, 1)
	require.Len(t, failing.got, 1)
	assert.Equal(t, int64(3), ok.got[0].RoomID)
	assert.NotEmpty(t, ok.got[0].ID)
}

func TestHub_PushesToRoomSubscribers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	r := gin.New()
	NewHandler(hub, nil, zerolog.Nop()).RegisterRoutes(&r.RouterGroup)

	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/rooms/5"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers(5) == 1 }, time.Second, 10*time.Millisecond)

	ev := New(BookingConfirmed, 5)
	ev.BookingID = 42
	require.NoError(t, hub.Publish(context.Background(), ev))
	require.NoError(t, hub.Publish(context.Background(), New(BookingConfirmed, 6)))

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var got Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, BookingConfirmed, got.Type)
	assert.Equal(t, int64(42), got.BookingID)
}

func TestHub_StalledSubscriberDoesNotBlockPublish(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	defer hub.Close()
	r := gin.New()
	NewHandler(hub, nil, zerolog.Nop()).RegisterRoutes(&r.RouterGroup)

	srv := httptest.NewServer(r)
	defer srv.Close()
	base := "ws" + strings.TrimPrefix(srv.URL, "http")

	// never reads
	stalled, _, err := websocket.DefaultDialer.Dial(base+"/ws/rooms/5", nil)
	require.NoError(t, err)
	defer stalled.Close()

	live, _, err := websocket.DefaultDialer.Dial(base+"/ws/rooms/6", nil)
	require.NoError(t, err)
	defer live.Close()

	require.Eventually(t, func() bool {
		return hub.Subscribers(5) == 1 && hub.Subscribers(6) == 1
	}, time.Second, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 20000; i++ {
			ev := New(BookingCreated, 5)
			ev.BookingID = int64(i)
			_ = hub.Publish(context.Background(), ev)
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publishing to a stalled subscriber blocked")
	}

	ev := New(BookingCancelled, 6)
	ev.BookingID = 7
	require.NoError(t, hub.Publish(context.Background(), ev))

	_ = live.SetReadDeadline(time.Now().Add(time.Second))
	var got Event
	require.NoError(t, live.ReadJSON(&got))
	assert.Equal(t, int64(7), got.BookingID)
}
