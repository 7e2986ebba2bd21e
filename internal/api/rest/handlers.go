package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/restocktime/nfl-ncaa-analytics/internal/roster"
	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
	"github.com/restocktime/nfl-ncaa-analytics/internal/store/repository"
)

// liveSnapshotMaxAge bounds how stale an in-memory scoreboard snapshot
// may be before handlers fall back to the database.
const liveSnapshotMaxAge = 45 * time.Second

// Handler contains dependencies for HTTP handlers
type Handler struct {
	deps Deps
}

// NewHandler creates a new handler
func NewHandler(deps Deps) *Handler {
	return &Handler{deps: deps}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if h.deps.DB != nil {
		if err := h.deps.DB.HealthCheck(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	respondJSON(w, code, map[string]string{
		"status":  status,
		"service": "iby-nfl-analytics",
		"version": "1.0.0",
	})
}

// GetLiveGames returns all currently live games
func (h *Handler) GetLiveGames(w http.ResponseWriter, r *http.Request) {
	sport := sportFromRequest(r)

	games, source, err := h.deps.GameService.GetLiveGames(r.Context(), sport, liveSnapshotMaxAge)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch live games", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"games":  games,
		"count":  len(games),
		"source": source,
	})
}

// GetTodaysGames returns all games for today (live, scheduled, final)
func (h *Handler) GetTodaysGames(w http.ResponseWriter, r *http.Request) {
	sport := sportFromRequest(r)

	games, source, err := h.deps.GameService.GetTodaysGames(r.Context(), sport, liveSnapshotMaxAge)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch today's games", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"games":  games,
		"count":  len(games),
		"source": source,
	})
}

// GetUpcomingGames returns upcoming scheduled games
func (h *Handler) GetUpcomingGames(w http.ResponseWriter, r *http.Request) {
	sport := sportFromRequest(r)
	limit := queryInt(r, "limit", 10, 100)

	games, err := h.deps.GameService.GetUpcomingGames(r.Context(), sport, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch upcoming games", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"games": games,
		"count": len(games),
	})
}

// GetGamesByDate returns all games on a specific date
func (h *Handler) GetGamesByDate(w http.ResponseWriter, r *http.Request) {
	sport := sportFromRequest(r)

	date, err := queryDate(r, "date")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	games, err := h.deps.GameService.GetGamesByDate(r.Context(), sport, date)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch games", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"games": games,
		"count": len(games),
	})
}

// GetGame returns a specific game by ID
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.Atoi(mux.Vars(r)["gameID"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid game ID", err)
		return
	}

	game, err := h.deps.GameService.GetGame(r.Context(), gameID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Game not found", err)
		return
	}

	respondJSON(w, http.StatusOK, game)
}

// GetTeams returns all teams for a sport
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	sport := sportFromRequest(r)

	teamRepo := repository.NewTeamRepository(h.deps.DB)
	teams, err := teamRepo.GetAll(r.Context(), sport)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch teams", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"teams": teams})
}

// GetTeamRoster returns a team's current roster grouped by position
func (h *Handler) GetTeamRoster(w http.ResponseWriter, r *http.Request) {
	sport := sportFromRequest(r)
	teamAbbr := mux.Vars(r)["teamAbbr"]

	teamRoster, err := h.deps.PlayerService.GetTeamRoster(r.Context(), sport, teamAbbr)
	if err != nil {
		respondError(w, http.StatusNotFound, "Team roster not found", err)
		return
	}

	respondJSON(w, http.StatusOK, teamRoster)
}

// GetTeamInjuries returns the injury report filtered to one team
func (h *Handler) GetTeamInjuries(w http.ResponseWriter, r *http.Request) {
	sport := sportFromRequest(r)
	teamAbbr := mux.Vars(r)["teamAbbr"]

	records, err := h.deps.InjuryService.GetByTeam(r.Context(), sport, teamAbbr)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch injuries", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"injuries": records,
		"count":    len(records),
	})
}

// SearchPlayers searches for players by name
func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	sport := sportFromRequest(r)

	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "Missing query parameter 'q'", nil)
		return
	}
	limit := queryInt(r, "limit", 20, 50)

	players, err := h.deps.PlayerService.SearchPlayers(r.Context(), sport, query, limit)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to search players", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"players": players})
}

// GetPlayer returns a player by ID
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := strconv.Atoi(mux.Vars(r)["playerID"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid player ID", err)
		return
	}

	player, err := h.deps.PlayerService.GetPlayer(r.Context(), playerID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Player not found", err)
		return
	}

	respondJSON(w, http.StatusOK, player)
}

// GetInjuries returns the current league-wide injury report
func (h *Handler) GetInjuries(w http.ResponseWriter, r *http.Request) {
	sport := sportFromRequest(r)

	records, err := h.deps.InjuryService.GetCurrent(r.Context(), sport)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch injuries", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"injuries": records,
		"count":    len(records),
	})
}

// GetPicks returns stored picks for a date, best confidence first
func (h *Handler) GetPicks(w http.ResponseWriter, r *http.Request) {
	sport := sportFromRequest(r)

	date, err := queryDate(r, "date")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	stored, err := h.deps.PicksService.GetPicks(r.Context(), sport, date)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch picks", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"picks": stored,
		"count": len(stored),
		"date":  date.Format("2006-01-02"),
	})
}

// GeneratePicks grades the slate for a date on demand
func (h *Handler) GeneratePicks(w http.ResponseWriter, r *http.Request) {
	sport := sportFromRequest(r)

	date, err := queryDate(r, "date")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	generated, err := h.deps.PicksService.GeneratePicksForDate(r.Context(), sport, date)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate picks", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"picks": generated,
		"count": len(generated),
		"date":  date.Format("2006-01-02"),
	})
}

// GetGoldmine returns tackle props whose edge clears the threshold
func (h *Handler) GetGoldmine(w http.ResponseWriter, r *http.Request) {
	sport := sportFromRequest(r)

	date, err := queryDate(r, "date")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	props, err := h.deps.Goldmine.ScanDate(r.Context(), sport, date)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to scan props", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"props": props,
		"count": len(props),
		"date":  date.Format("2006-01-02"),
	})
}

// GetUserRoster returns a saved fantasy roster
func (h *Handler) GetUserRoster(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	userRoster, err := h.deps.RosterService.Get(r.Context(), userID)
	if err == roster.ErrNotFound {
		respondError(w, http.StatusNotFound, "Roster not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch roster", err)
		return
	}

	respondJSON(w, http.StatusOK, userRoster)
}

// SaveUserRoster stores a fantasy roster for a user
func (h *Handler) SaveUserRoster(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	var userRoster roster.UserRoster
	if err := json.NewDecoder(r.Body).Decode(&userRoster); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid roster body", err)
		return
	}

	if err := h.deps.RosterService.Save(r.Context(), userID, &userRoster); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save roster", err)
		return
	}

	respondJSON(w, http.StatusOK, userRoster)
}

// DeleteUserRoster removes a saved fantasy roster
func (h *Handler) DeleteUserRoster(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	if err := h.deps.RosterService.Delete(r.Context(), userID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete roster", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type sleeperImportRequest struct {
	Username string `json:"username"`
	Season   string `json:"season"`
}

// ImportSleeperRoster pulls a user's roster from their Sleeper league
func (h *Handler) ImportSleeperRoster(w http.ResponseWriter, r *http.Request) {
	var req sleeperImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Username == "" {
		respondError(w, http.StatusBadRequest, "Missing username", nil)
		return
	}
	if req.Season == "" {
		req.Season = strconv.Itoa(time.Now().Year())
	}

	imported, err := h.deps.RosterService.ImportFromSleeper(r.Context(), req.Username, req.Season)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to import roster from Sleeper", err)
		return
	}

	respondJSON(w, http.StatusOK, imported)
}

// GetTrendingPlayers proxies Sleeper's trending adds list
func (h *Handler) GetTrendingPlayers(w http.ResponseWriter, r *http.Request) {
	lookback := queryInt(r, "lookback_hours", 24, 168)
	limit := queryInt(r, "limit", 25, 100)

	trending, err := h.deps.Sleeper.GetTrendingAdds(r.Context(), lookback, limit)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to fetch trending players", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"trending": trending,
		"count":    len(trending),
	})
}

// sportFromRequest resolves the sport query parameter, defaulting to NFL.
func sportFromRequest(r *http.Request) string {
	switch strings.ToLower(r.URL.Query().Get("sport")) {
	case "ncaa", "ncaaf", "college", store.SportNCAA:
		return store.SportNCAA
	default:
		return store.SportNFL
	}
}

// queryDate parses a YYYY-MM-DD query parameter, defaulting to today.
func queryDate(r *http.Request, key string) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", raw)
}

func queryInt(r *http.Request, key string, fallback, max int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 || v > max {
		return fallback
	}
	return v
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}
