package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/restocktime/nfl-ncaa-analytics/internal/backfill"
	"github.com/restocktime/nfl-ncaa-analytics/internal/ingest/sleeper"
	"github.com/restocktime/nfl-ncaa-analytics/internal/injury"
	"github.com/restocktime/nfl-ncaa-analytics/internal/metrics"
	"github.com/restocktime/nfl-ncaa-analytics/internal/roster"
	"github.com/restocktime/nfl-ncaa-analytics/internal/service"
	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
)

// Deps bundles everything the REST surface serves from.
type Deps struct {
	DB            *store.Database
	GameService   *service.GameService
	PlayerService *service.PlayerService
	PicksService  *service.PicksService
	Goldmine      *service.GoldmineService
	InjuryService *injury.Service
	RosterService *roster.Service
	Sleeper       *sleeper.Client
	Backfill      *backfill.Service
	Recorder      *metrics.Recorder
	Logger        *slog.Logger
}

// Server represents the REST API server
type Server struct {
	port   string
	server *http.Server
}

// NewServer creates a new REST API server
func NewServer(port string, deps Deps) *Server {
	handler := NewHandler(deps)
	backfillHandler := NewBackfillHandler(deps.Backfill)

	router := mux.NewRouter()

	router.Use(RecoveryMiddleware(deps.Logger))
	router.Use(LoggingMiddleware(deps.Logger))

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	if deps.Recorder != nil {
		router.Handle("/metrics", deps.Recorder.Handler()).Methods("GET")
	}

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Games
	api.HandleFunc("/games/live", handler.GetLiveGames).Methods("GET")
	api.HandleFunc("/games/today", handler.GetTodaysGames).Methods("GET")
	api.HandleFunc("/games/upcoming", handler.GetUpcomingGames).Methods("GET")
	api.HandleFunc("/games", handler.GetGamesByDate).Methods("GET")
	api.HandleFunc("/games/{gameID:[0-9]+}", handler.GetGame).Methods("GET")

	// Teams
	api.HandleFunc("/teams", handler.GetTeams).Methods("GET")
	api.HandleFunc("/teams/{teamAbbr}/roster", handler.GetTeamRoster).Methods("GET")
	api.HandleFunc("/teams/{teamAbbr}/injuries", handler.GetTeamInjuries).Methods("GET")

	// Players
	api.HandleFunc("/players/search", handler.SearchPlayers).Methods("GET")
	api.HandleFunc("/players/{playerID:[0-9]+}", handler.GetPlayer).Methods("GET")

	// Injuries
	api.HandleFunc("/injuries", handler.GetInjuries).Methods("GET")

	// Picks and goldmine props
	api.HandleFunc("/picks", handler.GetPicks).Methods("GET")
	api.HandleFunc("/picks/generate", handler.GeneratePicks).Methods("POST")
	api.HandleFunc("/goldmine", handler.GetGoldmine).Methods("GET")

	// Fantasy rosters
	api.HandleFunc("/roster/{userID}", handler.GetUserRoster).Methods("GET")
	api.HandleFunc("/roster/{userID}", handler.SaveUserRoster).Methods("PUT")
	api.HandleFunc("/roster/{userID}", handler.DeleteUserRoster).Methods("DELETE")
	api.HandleFunc("/roster/import/sleeper", handler.ImportSleeperRoster).Methods("POST")

	// Sleeper passthrough
	api.HandleFunc("/sleeper/trending", handler.GetTrendingPlayers).Methods("GET")

	// Backfill operations
	api.HandleFunc("/backfill", backfillHandler.HandleBackfillRequest).Methods("POST")
	api.HandleFunc("/backfill/status", backfillHandler.HandleBackfillStatus).Methods("GET")
	api.HandleFunc("/backfill/{jobID}", backfillHandler.HandleBackfillJob).Methods("GET")

	return &Server{
		port: port,
		server: &http.Server{
			Addr: fmt.Sprintf(":%s", port),
			// CORS wraps the router so preflight OPTIONS requests short
			// circuit before method matching rejects them.
			Handler:      CORSMiddleware(router),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
