package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/restocktime/nfl-ncaa-analytics/internal/metrics"
)

// Delay between retries when the stream read fails outright.
const streamRetryDelay = 2 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browser dashboards connect from arbitrary origins.
		return true
	},
}

// Server pushes live game updates to browser clients. Updates arrive on
// the Redis streams the ingestion side publishes to.
type Server struct {
	port   string
	server *http.Server
	hub    *Hub
	redis  *redis.Client
	sports []string
	logger *slog.Logger
}

// NewServer creates a new WebSocket server consuming the given sports'
// live streams.
func NewServer(redisClient *redis.Client, sports []string, recorder *metrics.Recorder, logger *slog.Logger) *Server {
	return &Server{
		hub:    NewHub(recorder),
		redis:  redisClient,
		sports: sports,
		logger: logger.With("component", "websocket"),
	}
}

// Start runs the hub, the stream consumer, and the HTTP listener. It
// blocks until the listener stops.
func (s *Server) Start(ctx context.Context, port string) error {
	s.port = port

	go s.hub.Run()
	if s.redis != nil {
		go s.consumeStreams(ctx)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/games/live", s.handleLiveGames)
	mux.HandleFunc("/ws/health", s.handleHealth)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}

	s.logger.Info("websocket server listening", "port", port)
	return s.server.ListenAndServe()
}

// consumeStreams tails the live game streams and fans entries out to
// connected clients. New entries only; history is the REST API's job.
func (s *Server) consumeStreams(ctx context.Context) {
	streams := make([]string, 0, len(s.sports)*2)
	for _, sport := range s.sports {
		streams = append(streams, fmt.Sprintf("games.live.%s", sport))
	}
	cursors := make([]string, len(streams))
	for i := range cursors {
		cursors[i] = "$"
	}

	for {
		if ctx.Err() != nil {
			return
		}

		res, err := s.redis.XRead(ctx, &redis.XReadArgs{
			Streams: append(append([]string{}, streams...), cursors...),
			Block:   0,
		}).Result()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn("stream read failed", "error", err)
			// A dead Redis connection fails instantly even with
			// Block: 0, so pause before retrying.
			select {
			case <-ctx.Done():
				return
			case <-time.After(streamRetryDelay):
			}
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				if data, ok := msg.Values["data"].(string); ok {
					s.hub.Broadcast([]byte(data))
				}
				// Resume after the last delivered entry.
				for j, name := range streams {
					if name == stream.Stream {
						cursors[j] = msg.ID
					}
				}
			}
		}
	}
}

// handleLiveGames upgrades the connection and registers the client.
func (s *Server) handleLiveGames(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("failed to upgrade connection", "error", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// handleHealth returns WebSocket server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "healthy", "clients": %d}`, s.hub.ClientCount())
}

// BroadcastLiveUpdate sends a live game update to all connected clients
func (s *Server) BroadcastLiveUpdate(data []byte) {
	s.hub.Broadcast(data)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
