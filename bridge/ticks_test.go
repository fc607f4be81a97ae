package bridge

import (
	"context"
	"encoding/json"
	"match-handler/game"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTickServer publishes every packet written to the returned channel to all subscribers.
func newTickServer(t *testing.T) (string, chan<- game.Packet) {
	t.Helper()
	packets := make(chan game.Packet, 8)
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ticks" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for packet := range packets {
			data, _ := json.Marshal(packet)
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}))
	t.Cleanup(func() {
		close(packets)
		server.Close()
	})

	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ticks", packets
}

func packetWithFrame(frame int) game.Packet {
	return game.Packet{NumCars: 2, GameInfo: game.GameInfo{FrameNum: frame}}
}

func TestTickStream_ReturnsEachFrameOncePerWitness(t *testing.T) {
	url, packets := newTickServer(t)
	stream := NewTickStream(url)
	defer stream.Close()
	ctx := context.Background()

	// Subscribe before the first tick is published.
	empty, err := stream.Fresh(ctx, 10*time.Millisecond, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.NumCars)

	packets <- packetWithFrame(10)
	first, err := stream.Fresh(ctx, 2*time.Second, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, first.GameInfo.FrameNum)

	// No newer frame: the same packet comes back after the timeout.
	start := time.Now()
	again, err := stream.Fresh(ctx, 50*time.Millisecond, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, again.GameInfo.FrameNum)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	// A different witness has not seen it yet.
	other, err := stream.Fresh(ctx, 10*time.Millisecond, 2)
	require.NoError(t, err)
	assert.Equal(t, 10, other.GameInfo.FrameNum)

	packets <- packetWithFrame(11)
	next, err := stream.Fresh(ctx, 2*time.Second, 1)
	require.NoError(t, err)
	assert.Equal(t, 11, next.GameInfo.FrameNum)
}

func TestTickStream_CancelledContext(t *testing.T) {
	url, _ := newTickServer(t)
	stream := NewTickStream(url)
	defer stream.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := stream.Fresh(ctx, time.Second, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTickStream_ClosedStreamRejectsReads(t *testing.T) {
	url, _ := newTickServer(t)
	stream := NewTickStream(url)
	require.NoError(t, stream.Close())

	_, err := stream.Fresh(context.Background(), time.Second, 1)
	assert.ErrorIs(t, err, ErrTickStreamClosed)
}

func TestTickStream_DialFailure(t *testing.T) {
	stream := NewTickStream("ws://127.0.0.1:1/ticks")
	defer stream.Close()

	_, err := stream.Fresh(context.Background(), time.Second, 1)
	assert.Error(t, err)
}
