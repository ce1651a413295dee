package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
)

// pair returns the server side and client side of a live websocket connection.
func pair(t *testing.T) (*websocket.Conn, *websocket.Conn) {
	t.Helper()

	serverSide := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		serverSide <- c
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case s := <-serverSide:
		return s, client
	case <-time.After(2 * time.Second):
		t.Fatal("server side never connected")
		return nil, nil
	}
}

func readText(t *testing.T, c *websocket.Conn) string {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := c.ReadMessage()
	require.NoError(t, err)
	return string(msg)
}

func TestConnDeliversInOrder(t *testing.T) {
	server, client := pair(t)
	c := NewConn(server, DefaultConfig())
	defer c.Close()

	assert.Equal(t, StateConnecting, c.State())
	require.NoError(t, c.Send([]byte("initial")))
	assert.True(t, c.Activate())
	assert.Equal(t, StateActive, c.State())

	for i := 0; i < 20; i++ {
		require.NoError(t, c.Send([]byte(strconv.Itoa(i))))
	}

	assert.Equal(t, "initial", readText(t, client))
	for i := 0; i < 20; i++ {
		assert.Equal(t, strconv.Itoa(i), readText(t, client))
	}
}

func TestConnSendJSON(t *testing.T) {
	server, client := pair(t)
	c := NewConn(server, DefaultConfig())
	defer c.Close()

	require.NoError(t, c.SendJSON(map[string]string{"type": "initial_data"}))
	assert.JSONEq(t, `{"type":"initial_data"}`, readText(t, client))
}

func TestConnDropsOldestThenCloses(t *testing.T) {
	server, _ := pair(t)
	c := newConn(server, Config{SendQueueSize: 2, MaxOverflows: 3}, false)

	var hookCalls atomic.Int32
	closed := make(chan struct{})
	c.OnClose(func() {
		hookCalls.Add(1)
		close(closed)
	})

	require.NoError(t, c.Send([]byte("a")))
	require.NoError(t, c.Send([]byte("b")))

	// first two overflows drop the oldest and keep the newest
	require.NoError(t, c.Send([]byte("c")))
	require.NoError(t, c.Send([]byte("d")))
	assert.Equal(t, "c", string(<-c.send))
	assert.Equal(t, "d", string(<-c.send))

	require.NoError(t, c.Send([]byte("e")))
	require.NoError(t, c.Send([]byte("f")))
	require.NoError(t, c.Send([]byte("g")))
	require.NoError(t, c.Send([]byte("h")))
	err := c.Send([]byte("i"))
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.ErrorIs(t, err, types.ErrDelivery)

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("overflowing connection was not closed")
	}
	assert.ErrorIs(t, c.Send([]byte("j")), ErrConnClosed)
	assert.Equal(t, int32(1), hookCalls.Load())
}

func TestConnOverflowCounterResets(t *testing.T) {
	server, _ := pair(t)
	c := newConn(server, Config{SendQueueSize: 1, MaxOverflows: 2}, false)
	defer c.Close()

	require.NoError(t, c.Send([]byte("a")))
	require.NoError(t, c.Send([]byte("b"))) // overflow 1
	<-c.send
	require.NoError(t, c.Send([]byte("c"))) // room again, counter resets
	require.NoError(t, c.Send([]byte("d"))) // overflow 1
	assert.NotEqual(t, StateClosing, c.State())
}

func TestConnCloseIsIdempotent(t *testing.T) {
	server, client := pair(t)
	c := NewConn(server, DefaultConfig())

	var calls atomic.Int32
	c.OnClose(func() { calls.Add(1) })

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Close()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, StateClosed, c.State())
	assert.False(t, c.Activate())
	assert.ErrorIs(t, c.Send([]byte("x")), ErrConnClosed)

	// late hook still runs
	c.OnClose(func() { calls.Add(1) })
	assert.Equal(t, int32(2), calls.Load())

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := client.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}

func TestConnListen(t *testing.T) {
	server, client := pair(t)
	c := NewConn(server, DefaultConfig())

	received := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- c.Listen(context.Background(), func(_ context.Context, msg []byte) {
			received <- string(msg)
		})
	}()

	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte(`{"type":"get_buses"}`)))
	select {
	case msg := <-received:
		assert.Equal(t, `{"type":"get_buses"}`, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("handler not called")
	}

	require.NoError(t, client.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("listen did not return on peer close")
	}
	assert.Equal(t, StateClosed, c.State())
}

func TestConnListenStopsOnContext(t *testing.T) {
	server, _ := pair(t)
	c := NewConn(server, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.Listen(ctx, func(context.Context, []byte) {})
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("listen did not stop on cancel")
	}
	assert.Equal(t, StateClosed, c.State())
}

func TestConnMissedPongsClose(t *testing.T) {
	// the client never reads, so pings are never answered
	server, _ := pair(t)

	c := NewConn(server, Config{PongWait: 150 * time.Millisecond, PingPeriod: 50 * time.Millisecond})

	done := make(chan error, 1)
	go func() {
		done <- c.Listen(context.Background(), func(context.Context, []byte) {})
	}()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("dead peer was not reaped")
	}
	assert.Equal(t, StateClosed, c.State())
}

func TestConnHoldDeliversReleasedMessageFirst(t *testing.T) {
	server, client := pair(t)
	c := NewConn(server, DefaultConfig())
	defer c.Close()

	c.Hold()
	require.NoError(t, c.Send([]byte("update-1")))
	require.NoError(t, c.Send([]byte("update-2")))
	require.NoError(t, c.Release([]byte("snapshot")))
	require.NoError(t, c.Send([]byte("update-3")))

	assert.Equal(t, "snapshot", readText(t, client))
	assert.Equal(t, "update-1", readText(t, client))
	assert.Equal(t, "update-2", readText(t, client))
	assert.Equal(t, "update-3", readText(t, client))
}

func TestConnReleaseWithoutFirstFlushesBuffer(t *testing.T) {
	server, client := pair(t)
	c := NewConn(server, DefaultConfig())
	defer c.Close()

	c.Hold()
	require.NoError(t, c.Send([]byte("held")))
	require.NoError(t, c.Release(nil))

	assert.Equal(t, "held", readText(t, client))
}

func TestConnHoldBufferIsBounded(t *testing.T) {
	server, _ := pair(t)
	c := newConn(server, Config{SendQueueSize: 2, MaxOverflows: 3}, false)
	defer c.Close()

	c.Hold()
	for _, m := range []string{"a", "b", "c"} {
		require.NoError(t, c.Send([]byte(m)))
	}
	require.NoError(t, c.Release(nil))

	assert.Equal(t, "b", string(<-c.send))
	assert.Equal(t, "c", string(<-c.send))
}
