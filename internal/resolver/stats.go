package resolver

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/albapepper/homerlab/internal/config"
	"github.com/albapepper/homerlab/internal/provider/mlb"
)

// StatGroups are the groups collected into a career record, in display order.
var StatGroups = []string{"hitting", "pitching", "fielding"}

// CareerStats is the player_stats record.
type CareerStats struct {
	PlayerID string               `json:"player_id"`
	Name     string               `json:"name"`
	Team     string               `json:"team"`
	Position string               `json:"position"`
	Career   map[string]*StatLine `json:"career"`
}

// StatLine is one group's career totals plus its season-by-season splits.
type StatLine struct {
	Stat     json.RawMessage `json:"stat,omitempty"`
	Team     json.RawMessage `json:"team,omitempty"`
	League   json.RawMessage `json:"league,omitempty"`
	Position json.RawMessage `json:"position,omitempty"`
	Seasons  []mlb.StatSplit `json:"seasons,omitempty"`
}

// CareerStats returns career and year-by-year stats, cached for StatsTTL.
// A favorite's team and position take precedence over the API's.
func (r *Resolver) CareerStats(ctx context.Context, playerID string) (*CareerStats, error) {
	playerID = strings.TrimSpace(playerID)
	if !validPlayerID(playerID) {
		return nil, fmt.Errorf("player %q: %w", playerID, ErrNotFound)
	}

	cs, err := resolve(ctx, r, config.PlayerStatsCollection, playerID, within[CareerStats](StatsTTL),
		func(ctx context.Context) (*CareerStats, error) {
			person, err := observe(r, "mlb", "person_stats", func() (*mlb.Person, error) {
				return r.stats.PersonStats(ctx, playerID)
			})
			if err != nil {
				return nil, classify("stats "+playerID, err)
			}
			return groupStats(playerID, person), nil
		})
	if err != nil {
		return nil, err
	}

	if fav, err := r.favorite(ctx, playerID); err == nil {
		cs.Team, cs.Position = fav.Team, fav.Position
	}
	return cs, nil
}

func groupStats(playerID string, p *mlb.Person) *CareerStats {
	cs := &CareerStats{
		PlayerID: playerID,
		Name:     p.FullName,
		Team:     NotAvailable,
		Position: positionName(p),
		Career:   make(map[string]*StatLine, len(StatGroups)),
	}
	if p.ID != 0 {
		cs.PlayerID = strconv.Itoa(p.ID)
	}
	if p.CurrentTeam != nil && p.CurrentTeam.Name != "" {
		cs.Team = p.CurrentTeam.Name
	}
	for _, g := range StatGroups {
		cs.Career[g] = &StatLine{}
	}

	for _, sg := range p.Stats {
		line, ok := cs.Career[strings.ToLower(sg.Group.DisplayName)]
		if !ok {
			continue
		}
		switch sg.Type.DisplayName {
		case "career":
			if len(sg.Splits) > 0 {
				first := sg.Splits[0]
				line.Stat, line.Team, line.League, line.Position = first.Stat, first.Team, first.League, first.Position
			}
		case "yearByYear":
			line.Seasons = append(line.Seasons, sg.Splits...)
		}
	}
	return cs
}
