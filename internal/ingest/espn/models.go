package espn

import (
	"strings"
	"time"
)

// Sport paths on the ESPN site API.
const (
	FootballNFL  = "football/nfl"
	FootballNCAA = "football/college-football"
)

// Time wraps time.Time to handle the shorter "YYYY-MM-DDThh:mmZ"
// strings some ESPN endpoints return alongside full RFC3339.
type Time struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}

	var parseErr error
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04Z07:00",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		parseErr = err
	}
	return parseErr
}

// Scoreboard is the response from the scoreboard endpoint
type Scoreboard struct {
	Events []Event `json:"events"`
	Week   Week    `json:"week"`
	Season struct {
		Year int `json:"year"`
		Type int `json:"type"`
	} `json:"season"`
	Day struct {
		Date string `json:"date"`
	} `json:"day"`
}

// Event is one game on the scoreboard
type Event struct {
	ID           string        `json:"id"`
	Date         Time          `json:"date"`
	Name         string        `json:"name"`
	ShortName    string        `json:"shortName"`
	Week         Week          `json:"week"`
	Competitions []Competition `json:"competitions"`
	Status       Status        `json:"status"`
}

// Week carries the scoreboard week number
type Week struct {
	Number int `json:"number"`
}

// Competition is the played instance of an event
type Competition struct {
	ID          string       `json:"id"`
	Date        Time         `json:"date"`
	Venue       Venue        `json:"venue"`
	Competitors []Competitor `json:"competitors"`
	Odds        []Odds       `json:"odds"`
	Broadcasts  []Broadcast  `json:"broadcasts"`
	Status      Status       `json:"status"`
}

// Venue is where a competition is played
type Venue struct {
	FullName string `json:"fullName"`
	Address  struct {
		City  string `json:"city"`
		State string `json:"state"`
	} `json:"address"`
}

// Broadcast names the network carrying a game
type Broadcast struct {
	Market string   `json:"market"`
	Names  []string `json:"names"`
}

// Competitor is one side of a competition
type Competitor struct {
	ID       string `json:"id"`
	HomeAway string `json:"homeAway"`
	Score    string `json:"score"`
	Team     Team   `json:"team"`
	Records  []struct {
		Name    string `json:"name"`
		Summary string `json:"summary"`
	} `json:"records"`
	CuratedRank struct {
		Current int `json:"current"`
	} `json:"curatedRank"`
}

// Team descriptor embedded in scoreboard and roster responses
type Team struct {
	ID               string `json:"id"`
	Location         string `json:"location"`
	Name             string `json:"name"`
	Abbreviation     string `json:"abbreviation"`
	DisplayName      string `json:"displayName"`
	ShortDisplayName string `json:"shortDisplayName"`
	Color            string `json:"color"`
	AlternateColor   string `json:"alternateColor"`
	ConferenceID     string `json:"conferenceId"`
	Logo             string `json:"logo"`
}

// Odds carries the betting line attached to a competition
type Odds struct {
	Provider struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Priority int    `json:"priority"`
	} `json:"provider"`
	Details   string  `json:"details"`
	OverUnder float64 `json:"overUnder"`
	Spread    float64 `json:"spread"`
}

// Status carries game clock and state
type Status struct {
	Clock        float64    `json:"clock"`
	DisplayClock string     `json:"displayClock"`
	Period       int        `json:"period"`
	Type         StatusType `json:"type"`
}

// StatusType identifies the game state
type StatusType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	State       string `json:"state"`
	Completed   bool   `json:"completed"`
	Description string `json:"description"`
}

// TeamsResponse is the response from the teams list endpoint
type TeamsResponse struct {
	Sports []struct {
		Leagues []struct {
			Teams []struct {
				Team Team `json:"team"`
			} `json:"teams"`
		} `json:"leagues"`
	} `json:"sports"`
}

// RosterResponse is the response from the team roster endpoint
type RosterResponse struct {
	Team     Team `json:"team"`
	Athletes []struct {
		Position struct {
			Abbreviation string `json:"abbreviation"`
		} `json:"position"`
		Items []Athlete `json:"items"`
	} `json:"athletes"`
}

// Athlete is a rostered player
type Athlete struct {
	ID            string  `json:"id"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	FullName      string  `json:"fullName"`
	DisplayName   string  `json:"displayName"`
	Jersey        string  `json:"jersey"`
	Height        float64 `json:"height"`
	DisplayHeight string  `json:"displayHeight"`
	Weight        float64 `json:"weight"`
	Experience    struct {
		Years int `json:"years"`
	} `json:"experience"`
	College struct {
		Name string `json:"name"`
	} `json:"college"`
	Position struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"position"`
	Status struct {
		Name string `json:"name"`
	} `json:"status"`
	Headshot struct {
		Href string `json:"href"`
	} `json:"headshot"`
	Injuries []AthleteInjury `json:"injuries"`
}

// AthleteInjury is an injury entry attached to a rostered player
type AthleteInjury struct {
	Status  string `json:"status"`
	Date    Time   `json:"date"`
	Details struct {
		Type     string `json:"type"`
		Location string `json:"location"`
		Detail   string `json:"detail"`
	} `json:"details"`
}
