package mlb

import "github.com/goccy/go-json"

// TeamRef is the short team object embedded in person and game payloads.
type TeamRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Position is a player's primary position.
type Position struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Abbreviation string `json:"abbreviation"`
}

// Person is the subset of /people fields the service reads. Raw keeps the
// complete upstream object.
type Person struct {
	ID              int             `json:"id"`
	FullName        string          `json:"fullName"`
	PrimaryNumber   string          `json:"primaryNumber,omitempty"`
	CurrentTeam     *TeamRef        `json:"currentTeam,omitempty"`
	PrimaryPosition *Position       `json:"primaryPosition,omitempty"`
	Stats           []StatGroup     `json:"stats,omitempty"`
	Raw             json.RawMessage `json:"-"`
}

// StatGroup is one entry of a hydrated person's stats array.
type StatGroup struct {
	Group struct {
		DisplayName string `json:"displayName"`
	} `json:"group"`
	Type struct {
		DisplayName string `json:"displayName"`
	} `json:"type"`
	Splits []StatSplit `json:"splits"`
}

// StatSplit is a single season or career line.
type StatSplit struct {
	Season   string          `json:"season,omitempty"`
	Stat     json.RawMessage `json:"stat,omitempty"`
	Team     json.RawMessage `json:"team,omitempty"`
	League   json.RawMessage `json:"league,omitempty"`
	Position json.RawMessage `json:"position,omitempty"`
}

// RosterEntry is one row of a team roster.
type RosterEntry struct {
	Person struct {
		ID       int    `json:"id"`
		FullName string `json:"fullName"`
	} `json:"person"`
}

// Team is the /teams/{id} object.
type Team struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Boxscore carries team names and run totals for a game.
type Boxscore struct {
	Teams struct {
		Home BoxscoreTeam `json:"home"`
		Away BoxscoreTeam `json:"away"`
	} `json:"teams"`
}

// BoxscoreTeam is one side of a boxscore.
type BoxscoreTeam struct {
	Team      TeamRef `json:"team"`
	TeamStats struct {
		Batting struct {
			Runs *int `json:"runs"`
		} `json:"batting"`
	} `json:"teamStats"`
}

// Linescore is the game state at the time of the request.
type Linescore struct {
	CurrentInning *int   `json:"currentInning"`
	InningState   string `json:"inningState"`
	Outs          *int   `json:"outs"`
	Balls         *int   `json:"balls"`
	Strikes       *int   `json:"strikes"`
	Offense       struct {
		First  json.RawMessage `json:"first,omitempty"`
		Second json.RawMessage `json:"second,omitempty"`
		Third  json.RawMessage `json:"third,omitempty"`
	} `json:"offense"`
}

// Occupied returns the occupied bases in order, e.g. ["first", "third"].
func (l *Linescore) Occupied() []string {
	var bases []string
	if present(l.Offense.First) {
		bases = append(bases, "first")
	}
	if present(l.Offense.Second) {
		bases = append(bases, "second")
	}
	if present(l.Offense.Third) {
		bases = append(bases, "third")
	}
	return bases
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null" && string(raw) != "{}"
}
