package espn

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
	"github.com/restocktime/nfl-ncaa-analytics/internal/store/repository"
)

// Ingester handles the ingestion of ESPN data into the database.
type Ingester struct {
	client     *Client
	db         *store.Database
	gameRepo   *repository.GameRepository
	teamRepo   *repository.TeamRepository
	playerRepo *repository.PlayerRepository
	injuryRepo *repository.InjuryRepository

	mu         sync.Mutex
	teamLookup map[string]teamLookup // sport -> lookup
}

type teamLookup struct {
	byESPN map[string]int
	byAbbr map[string]int
}

// NewIngester creates a new ESPN data ingester using the default API base.
func NewIngester(db *store.Database) *Ingester {
	return NewIngesterWithBaseURL(db, "")
}

// NewIngesterWithBaseURL creates an ingester overriding the ESPN base URL.
func NewIngesterWithBaseURL(db *store.Database, baseURL string) *Ingester {
	var client *Client
	if strings.TrimSpace(baseURL) != "" {
		client = New(baseURL)
	} else {
		client = NewClient()
	}

	return &Ingester{
		client:     client,
		db:         db,
		gameRepo:   repository.NewGameRepository(db),
		teamRepo:   repository.NewTeamRepository(db),
		playerRepo: repository.NewPlayerRepository(db),
		injuryRepo: repository.NewInjuryRepository(db),
		teamLookup: make(map[string]teamLookup),
	}
}

// SportPath maps a store sport identifier to its ESPN API path.
func SportPath(sport string) string {
	if sport == store.SportNCAA {
		return FootballNCAA
	}
	return FootballNFL
}

// IngestTodaysGames fetches and stores games for the current day.
// Uses Eastern Time since NFL games are scheduled in US timezones.
func (i *Ingester) IngestTodaysGames(ctx context.Context, sport string, seasonID int) ([]*store.Game, error) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		slog.Warn("failed to load America/New_York timezone, using UTC", "error", err)
		loc = time.UTC
	}
	return i.IngestGamesByDate(ctx, sport, seasonID, time.Now().In(loc))
}

// IngestGamesByDate fetches and stores games for a specific date.
func (i *Ingester) IngestGamesByDate(ctx context.Context, sport string, seasonID int, date time.Time) ([]*store.Game, error) {
	scoreboard, err := i.client.FetchScoreboard(ctx, SportPath(sport), date)
	if err != nil {
		return nil, fmt.Errorf("fetch scoreboard: %w", err)
	}
	return i.ingestScoreboard(ctx, sport, seasonID, scoreboard, "espn")
}

// IngestCurrentScoreboard fetches ESPN's "today" slate without a date filter.
func (i *Ingester) IngestCurrentScoreboard(ctx context.Context, sport string, seasonID int) ([]*store.Game, error) {
	scoreboard, err := i.client.FetchScoreboard(ctx, SportPath(sport), time.Time{})
	if err != nil {
		return nil, fmt.Errorf("fetch scoreboard: %w", err)
	}
	return i.ingestScoreboard(ctx, sport, seasonID, scoreboard, "espn")
}

// IngestGameByID resolves one event's date from its summary, ingests the
// day's slate, and returns the stored game.
func (i *Ingester) IngestGameByID(ctx context.Context, sport string, seasonID int, externalID string) (*store.Game, error) {
	summary, err := i.client.FetchGameSummary(ctx, SportPath(sport), externalID)
	if err != nil {
		return nil, fmt.Errorf("fetch game summary: %w", err)
	}

	date, err := summaryGameDate(summary)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", externalID, err)
	}

	if _, err := i.IngestGamesByDate(ctx, sport, seasonID, date); err != nil {
		return nil, err
	}

	return i.gameRepo.GetByExternalID(ctx, sport, externalID)
}

// summaryGameDate digs the event date out of a summary payload.
func summaryGameDate(summary map[string]interface{}) (time.Time, error) {
	header, ok := summary["header"].(map[string]interface{})
	if !ok {
		return time.Time{}, fmt.Errorf("summary missing header")
	}
	comps, ok := header["competitions"].([]interface{})
	if !ok || len(comps) == 0 {
		return time.Time{}, fmt.Errorf("summary missing competitions")
	}
	comp, ok := comps[0].(map[string]interface{})
	if !ok {
		return time.Time{}, fmt.Errorf("summary competition malformed")
	}
	raw, ok := comp["date"].(string)
	if !ok {
		return time.Time{}, fmt.Errorf("summary missing date")
	}

	var t Time
	if err := t.UnmarshalJSON([]byte(`"` + raw + `"`)); err != nil {
		return time.Time{}, fmt.Errorf("parsing summary date %q: %w", raw, err)
	}
	return t.Time, nil
}

// IngestFallbackSlate persists the canned demo slate. Called when every
// fetch attempt has failed so the API still has something to serve.
func (i *Ingester) IngestFallbackSlate(ctx context.Context, sport string, seasonID int) ([]*store.Game, error) {
	return i.ingestScoreboard(ctx, sport, seasonID, FallbackScoreboard(time.Now()), SourceFallback)
}

func (i *Ingester) ingestScoreboard(ctx context.Context, sport string, seasonID int, scoreboard *Scoreboard, source string) ([]*store.Game, error) {
	if err := i.ensureTeamLookup(ctx, sport); err != nil {
		return nil, err
	}

	parsed := ParseScoreboard(scoreboard)

	var ingested []*store.Game
	for _, pg := range parsed {
		homeID, awayID, err := i.resolveTeams(ctx, sport, pg)
		if err != nil {
			slog.Warn("skipping game, team resolution failed", "event", pg.ExternalID, "error", err)
			continue
		}

		game := pg.ToStoreGame(sport, seasonID, homeID, awayID, source)
		if err := i.gameRepo.Upsert(ctx, game); err != nil {
			slog.Error("upserting game failed", "event", pg.ExternalID, "error", err)
			continue
		}
		ingested = append(ingested, game)
	}

	slog.Info("scoreboard ingested", "sport", sport, "games", len(ingested), "source", source)
	return ingested, nil
}

// IngestTeams refreshes the team table from the ESPN team list.
func (i *Ingester) IngestTeams(ctx context.Context, sport string) (int, error) {
	resp, err := i.client.FetchTeams(ctx, SportPath(sport))
	if err != nil {
		return 0, fmt.Errorf("fetch teams: %w", err)
	}

	count := 0
	for _, s := range resp.Sports {
		for _, league := range s.Leagues {
			for _, entry := range league.Teams {
				team := teamFromESPN(sport, entry.Team)
				if err := i.teamRepo.Upsert(ctx, team); err != nil {
					slog.Error("upserting team failed", "team", entry.Team.Abbreviation, "error", err)
					continue
				}
				count++
			}
		}
	}

	// Lookup caches are stale after a team refresh.
	i.mu.Lock()
	delete(i.teamLookup, sport)
	i.mu.Unlock()

	return count, nil
}

// IngestRoster fetches a team's roster and persists players, roster
// membership, and any injury entries attached to athletes.
func (i *Ingester) IngestRoster(ctx context.Context, sport string, teamID int, seasonID int) (int, error) {
	team, err := i.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return 0, err
	}

	resp, err := i.client.FetchRoster(ctx, SportPath(sport), team.ExternalID)
	if err != nil {
		return 0, fmt.Errorf("fetch roster: %w", err)
	}

	count := 0
	reportDate := time.Now().Truncate(24 * time.Hour)
	for _, group := range resp.Athletes {
		for _, athlete := range group.Items {
			player := playerFromESPN(sport, athlete)
			if err := i.playerRepo.Upsert(ctx, player); err != nil {
				slog.Error("upserting player failed", "player", athlete.FullName, "error", err)
				continue
			}
			if err := i.playerRepo.SetRosterMembership(ctx, teamID, player.PlayerID, seasonID); err != nil {
				slog.Error("setting roster membership failed", "player", athlete.FullName, "error", err)
			}
			count++

			for _, inj := range athlete.Injuries {
				rec := &store.InjuryRecord{
					Sport:      sport,
					PlayerName: athlete.FullName,
					TeamAbbr:   team.Abbreviation,
					Status:     inj.Status,
					ReportDate: reportDate,
					Source:     "espn",
				}
				if pos := athlete.Position.Abbreviation; pos != "" {
					rec.Position = sql.NullString{String: pos, Valid: true}
				}
				if detail := inj.Details.Type; detail != "" {
					rec.Detail = sql.NullString{String: detail, Valid: true}
				}
				if err := i.injuryRepo.Upsert(ctx, rec); err != nil {
					slog.Error("upserting injury failed", "player", athlete.FullName, "error", err)
				}
			}
		}
	}

	return count, nil
}

// ensureTeamLookup lazily builds the external-ID and abbreviation maps.
func (i *Ingester) ensureTeamLookup(ctx context.Context, sport string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if _, ok := i.teamLookup[sport]; ok {
		return nil
	}

	teams, err := i.teamRepo.GetAll(ctx, sport)
	if err != nil {
		return fmt.Errorf("loading teams: %w", err)
	}

	lookup := teamLookup{
		byESPN: make(map[string]int, len(teams)),
		byAbbr: make(map[string]int, len(teams)),
	}
	for _, team := range teams {
		lookup.byESPN[team.ExternalID] = team.TeamID
		lookup.byAbbr[strings.ToUpper(team.Abbreviation)] = team.TeamID
	}
	i.teamLookup[sport] = lookup
	return nil
}

func (i *Ingester) resolveTeams(ctx context.Context, sport string, pg ParsedGame) (int, int, error) {
	i.mu.Lock()
	lookup := i.teamLookup[sport]
	i.mu.Unlock()

	homeID, ok := lookup.byESPN[pg.HomeExternalID]
	if !ok {
		homeID, ok = lookup.byAbbr[strings.ToUpper(pg.HomeAbbr)]
	}
	if !ok {
		// College slates routinely surface teams we have not seen yet.
		homeID2, err := i.registerUnknownTeam(ctx, sport, pg.HomeExternalID, pg.HomeAbbr)
		if err != nil {
			return 0, 0, fmt.Errorf("unknown home team %s: %w", pg.HomeAbbr, err)
		}
		homeID = homeID2
	}

	awayID, ok := lookup.byESPN[pg.AwayExternalID]
	if !ok {
		awayID, ok = lookup.byAbbr[strings.ToUpper(pg.AwayAbbr)]
	}
	if !ok {
		awayID2, err := i.registerUnknownTeam(ctx, sport, pg.AwayExternalID, pg.AwayAbbr)
		if err != nil {
			return 0, 0, fmt.Errorf("unknown away team %s: %w", pg.AwayAbbr, err)
		}
		awayID = awayID2
	}

	return homeID, awayID, nil
}

func (i *Ingester) registerUnknownTeam(ctx context.Context, sport, externalID, abbr string) (int, error) {
	if externalID == "" || abbr == "" {
		return 0, fmt.Errorf("missing team identifiers")
	}

	team := &store.Team{
		Sport:        sport,
		ExternalID:   externalID,
		Abbreviation: abbr,
		FullName:     abbr,
		ShortName:    abbr,
		IsActive:     true,
	}
	if err := i.teamRepo.Upsert(ctx, team); err != nil {
		return 0, err
	}

	i.mu.Lock()
	if lookup, ok := i.teamLookup[sport]; ok {
		lookup.byESPN[externalID] = team.TeamID
		lookup.byAbbr[strings.ToUpper(abbr)] = team.TeamID
	}
	i.mu.Unlock()

	return team.TeamID, nil
}

func teamFromESPN(sport string, t Team) *store.Team {
	team := &store.Team{
		Sport:        sport,
		ExternalID:   t.ID,
		Abbreviation: t.Abbreviation,
		FullName:     t.DisplayName,
		ShortName:    t.ShortDisplayName,
		IsActive:     true,
	}
	if team.ShortName == "" {
		team.ShortName = t.Name
	}
	if t.Logo != "" {
		team.LogoURL = sql.NullString{String: t.Logo, Valid: true}
	}
	if t.Color != "" {
		team.Colors = sql.NullString{String: t.Color, Valid: true}
	}
	return team
}

func playerFromESPN(sport string, a Athlete) *store.Player {
	player := &store.Player{
		Sport:    sport,
		LastName: a.LastName,
		FullName: a.FullName,
	}
	if player.FullName == "" {
		player.FullName = a.DisplayName
	}
	if player.LastName == "" {
		player.LastName = player.FullName
	}
	if a.ID != "" {
		player.ExternalID = sql.NullString{String: a.ID, Valid: true}
	}
	if a.FirstName != "" {
		player.FirstName = sql.NullString{String: a.FirstName, Valid: true}
	}
	if pos := a.Position.Abbreviation; pos != "" {
		player.Position = sql.NullString{String: pos, Valid: true}
	}
	if a.Jersey != "" {
		player.JerseyNumber = sql.NullString{String: a.Jersey, Valid: true}
	}
	if a.DisplayHeight != "" {
		player.Height = sql.NullString{String: a.DisplayHeight, Valid: true}
	}
	if a.Weight > 0 {
		player.Weight = sql.NullInt32{Int32: int32(a.Weight), Valid: true}
	}
	if a.Experience.Years > 0 {
		player.Experience = sql.NullInt32{Int32: int32(a.Experience.Years), Valid: true}
	}
	if a.College.Name != "" {
		player.College = sql.NullString{String: a.College.Name, Valid: true}
	}
	if a.Status.Name != "" {
		player.Status = sql.NullString{String: a.Status.Name, Valid: true}
	}
	if a.Headshot.Href != "" {
		player.HeadshotURL = sql.NullString{String: a.Headshot.Href, Valid: true}
	}
	return player
}
