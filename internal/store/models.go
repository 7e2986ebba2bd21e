package store

import (
	"database/sql"
	"time"
)

// Sport identifiers used across the schema.
const (
	SportNFL  = "football_nfl"
	SportNCAA = "football_ncaa"
)

// Game status values. Anything upstream we don't recognize maps to scheduled.
const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusHalftime   = "halftime"
	StatusFinal      = "final"
	StatusPostponed  = "postponed"
)

// Season represents an NFL or college football season
type Season struct {
	SeasonID    int            `json:"season_id" db:"season_id"`
	Sport       string         `json:"sport" db:"sport"`
	SeasonYear  string         `json:"season_year" db:"season_year"`
	SeasonType  string         `json:"season_type" db:"season_type"`
	StartDate   time.Time      `json:"start_date" db:"start_date"`
	EndDate     time.Time      `json:"end_date" db:"end_date"`
	CurrentWeek sql.NullInt32  `json:"current_week,omitempty" db:"current_week"`
	IsActive    bool           `json:"is_active" db:"is_active"`
	Metadata    sql.NullString `json:"metadata,omitempty" db:"metadata"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// Team represents an NFL franchise or college program
type Team struct {
	TeamID       int            `json:"team_id" db:"team_id"`
	Sport        string         `json:"sport" db:"sport"`
	ExternalID   string         `json:"external_id" db:"external_id"`
	Abbreviation string         `json:"abbreviation" db:"abbreviation"`
	FullName     string         `json:"full_name" db:"full_name"`
	ShortName    string         `json:"short_name" db:"short_name"`
	Conference   sql.NullString `json:"conference,omitempty" db:"conference"`
	Division     sql.NullString `json:"division,omitempty" db:"division"`
	VenueName    sql.NullString `json:"venue_name,omitempty" db:"venue_name"`
	LogoURL      sql.NullString `json:"logo_url,omitempty" db:"logo_url"`
	Colors       sql.NullString `json:"colors,omitempty" db:"colors"`
	Metadata     sql.NullString `json:"metadata,omitempty" db:"metadata"`
	IsActive     bool           `json:"is_active" db:"is_active"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// Player represents a football player
type Player struct {
	PlayerID     int            `json:"player_id" db:"player_id"`
	Sport        string         `json:"sport" db:"sport"`
	ExternalID   sql.NullString `json:"external_id,omitempty" db:"external_id"`
	FirstName    sql.NullString `json:"first_name,omitempty" db:"first_name"`
	LastName     string         `json:"last_name" db:"last_name"`
	FullName     string         `json:"full_name" db:"full_name"`
	Position     sql.NullString `json:"position,omitempty" db:"position"`
	JerseyNumber sql.NullString `json:"jersey_number,omitempty" db:"jersey_number"`
	Height       sql.NullString `json:"height,omitempty" db:"height"`
	Weight       sql.NullInt32  `json:"weight,omitempty" db:"weight"`
	Experience   sql.NullInt32  `json:"experience,omitempty" db:"experience"`
	College      sql.NullString `json:"college,omitempty" db:"college"`
	DraftYear    sql.NullInt32  `json:"draft_year,omitempty" db:"draft_year"`
	DraftRound   sql.NullInt32  `json:"draft_round,omitempty" db:"draft_round"`
	DraftPick    sql.NullInt32  `json:"draft_pick,omitempty" db:"draft_pick"`
	HeadshotURL  sql.NullString `json:"headshot_url,omitempty" db:"headshot_url"`
	Status       sql.NullString `json:"status,omitempty" db:"status"`
	Metadata     sql.NullString `json:"metadata,omitempty" db:"metadata"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`

	// Not in database - populated from roster queries for API responses
	CurrentTeamID int `json:"current_team_id,omitempty" db:"-"`
}

// Game represents an NFL or college football game
type Game struct {
	GameID     int             `json:"game_id" db:"game_id"`
	Sport      string          `json:"sport" db:"sport"`
	SeasonID   int             `json:"season_id" db:"season_id"`
	Week       sql.NullInt32   `json:"week,omitempty" db:"week"`
	ExternalID string          `json:"external_id" db:"external_id"`
	GameDate   time.Time       `json:"game_date" db:"game_date"`
	GameTime   sql.NullTime    `json:"game_time,omitempty" db:"game_time"`
	HomeTeamID int             `json:"home_team_id" db:"home_team_id"`
	AwayTeamID int             `json:"away_team_id" db:"away_team_id"`
	HomeScore  sql.NullInt32   `json:"home_score,omitempty" db:"home_score"`
	AwayScore  sql.NullInt32   `json:"away_score,omitempty" db:"away_score"`
	Status     string          `json:"status" db:"status"`
	Period     sql.NullInt32   `json:"period,omitempty" db:"period"`
	Clock      sql.NullString  `json:"clock,omitempty" db:"clock"`
	Venue      sql.NullString  `json:"venue,omitempty" db:"venue"`
	Network    sql.NullString  `json:"network,omitempty" db:"network"`
	Spread     sql.NullFloat64 `json:"spread,omitempty" db:"spread"`
	OverUnder  sql.NullFloat64 `json:"over_under,omitempty" db:"over_under"`
	OddsDetail sql.NullString  `json:"odds_detail,omitempty" db:"odds_detail"`
	Source     string          `json:"source" db:"source"`
	Metadata   sql.NullString  `json:"metadata,omitempty" db:"metadata"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// InjuryRecord represents a player's injury report entry
type InjuryRecord struct {
	InjuryID   int            `json:"injury_id" db:"injury_id"`
	Sport      string         `json:"sport" db:"sport"`
	PlayerName string         `json:"player_name" db:"player_name"`
	TeamAbbr   string         `json:"team_abbr" db:"team_abbr"`
	Position   sql.NullString `json:"position,omitempty" db:"position"`
	Status     string         `json:"status" db:"status"`
	Detail     sql.NullString `json:"detail,omitempty" db:"detail"`
	ReportDate time.Time      `json:"report_date" db:"report_date"`
	Source     string         `json:"source" db:"source"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}

// PowerRanking represents a scraped team ranking snapshot
type PowerRanking struct {
	RankingID  int            `json:"ranking_id" db:"ranking_id"`
	Sport      string         `json:"sport" db:"sport"`
	TeamAbbr   string         `json:"team_abbr" db:"team_abbr"`
	Rank       int            `json:"rank" db:"rank"`
	Trend      sql.NullString `json:"trend,omitempty" db:"trend"`
	Source     string         `json:"source" db:"source"`
	CapturedAt time.Time      `json:"captured_at" db:"captured_at"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

// Pick represents a generated game pick with its confidence score
type Pick struct {
	PickID      string          `json:"pick_id" db:"pick_id"`
	Sport       string          `json:"sport" db:"sport"`
	GameID      int             `json:"game_id" db:"game_id"`
	Market      string          `json:"market" db:"market"`
	Selection   string          `json:"selection" db:"selection"`
	Line        sql.NullFloat64 `json:"line,omitempty" db:"line"`
	Confidence  float64         `json:"confidence" db:"confidence"`
	Tier        string          `json:"tier" db:"tier"`
	Rationale   sql.NullString  `json:"rationale,omitempty" db:"rationale"`
	GeneratedOn time.Time       `json:"generated_on" db:"generated_on"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
