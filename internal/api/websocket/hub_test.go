package websocket

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	return &Server{
		hub:    NewHub(nil),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestHubBroadcastReachesClient(t *testing.T) {
	srv := newTestServer()
	go srv.hub.Run()

	ts := httptest.NewServer(http.HandlerFunc(srv.handleLiveGames))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/games/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Wait for registration before broadcasting.
	require.Eventually(t, func() bool {
		return srv.hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	srv.BroadcastLiveUpdate([]byte(`{"game_id":7,"status":"in_progress"}`))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), `"game_id":7`)
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	srv := newTestServer()
	go srv.hub.Run()

	ts := httptest.NewServer(http.HandlerFunc(srv.handleLiveGames))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return srv.hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		return srv.hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)
}

// countingHandler counts emitted log records.
type countingHandler struct {
	slog.Handler
	n *atomic.Int64
}

func (h countingHandler) Handle(ctx context.Context, r slog.Record) error {
	h.n.Add(1)
	return h.Handler.Handle(ctx, r)
}

func TestStreamConsumerWaitsBetweenFailedReads(t *testing.T) {
	var warns atomic.Int64
	srv := newTestServer()
	srv.logger = slog.New(countingHandler{
		Handler: slog.NewTextHandler(io.Discard, nil),
		n:       &warns,
	})
	srv.sports = []string{"football_nfl"}
	// Nothing listens on this address, so every XRead fails immediately.
	srv.redis = redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer srv.redis.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.consumeStreams(ctx)
		close(done)
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop after cancellation")
	}

	// Without a retry delay 200ms of refused connections produces
	// hundreds of warnings.
	assert.LessOrEqual(t, warns.Load(), int64(2))
}
