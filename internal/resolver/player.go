package resolver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/albapepper/homerlab/internal/config"
	"github.com/albapepper/homerlab/internal/provider/mlb"
)

// NotAvailable is the placeholder for unknown team, position and number.
const NotAvailable = "N/A"

// TeamIDs are the MLB franchise ids scanned when looking for a player's roster.
var TeamIDs = func() []int {
	ids := make([]int, 0, 29)
	for id := 108; id <= 121; id++ {
		ids = append(ids, id)
	}
	for id := 133; id <= 147; id++ {
		ids = append(ids, id)
	}
	return ids
}()

// Player is the player_cache record.
type Player struct {
	ID            string          `json:"id"`
	FullName      string          `json:"fullName"`
	Team          string          `json:"team"`
	Position      string          `json:"position"`
	PrimaryNumber *string         `json:"primaryNumber"`
	Raw           json.RawMessage `json:"raw,omitempty"`
}

// Roster is the roster_cache record.
type Roster struct {
	PlayerID string `json:"player_id"`
	Season   int    `json:"season"`
	TeamName string `json:"team_name"`
	TeamID   int    `json:"team_id"`
}

// validPlayerID rejects ids known to never resolve.
func validPlayerID(id string) bool {
	return id != "" && id != "1"
}

// ResolvePlayer returns the player's cached profile, fetching it from the
// Stats API when absent or older than PlayerTTL.
func (r *Resolver) ResolvePlayer(ctx context.Context, playerID string) (*Player, error) {
	playerID = strings.TrimSpace(playerID)
	if !validPlayerID(playerID) {
		return nil, fmt.Errorf("player %q: %w", playerID, ErrNotFound)
	}
	return resolve(ctx, r, config.PlayerCacheCollection, playerID, within[Player](PlayerTTL),
		func(ctx context.Context) (*Player, error) {
			return r.fetchPlayer(ctx, playerID)
		})
}

func (r *Resolver) fetchPlayer(ctx context.Context, playerID string) (*Player, error) {
	person, err := observe(r, "mlb", "person", func() (*mlb.Person, error) {
		return r.stats.Person(ctx, playerID, 0)
	})
	if err != nil {
		return nil, classify("player "+playerID, err)
	}

	p := &Player{
		ID:            strconv.Itoa(person.ID),
		FullName:      person.FullName,
		Team:          r.teamFor(ctx, playerID, person),
		Position:      positionName(person),
		PrimaryNumber: optional(person.PrimaryNumber),
		Raw:           person.Raw,
	}
	if person.ID == 0 {
		p.ID = playerID
	}
	return p, nil
}

// teamFor walks the team fallback chain: the favorite record, then the
// roster lookup, then the person payload's currentTeam.
func (r *Resolver) teamFor(ctx context.Context, playerID string, person *mlb.Person) string {
	if fav, err := r.favorite(ctx, playerID); err == nil && fav.Team != "" && fav.Team != NotAvailable {
		return fav.Team
	}
	team, err := r.rosterTeam(ctx, playerID, person)
	if err != nil {
		r.logger.Warn("Roster lookup failed, using person payload", "player_id", playerID, "error", err)
		return currentTeam(person)
	}
	return team
}

// rosterTeam is the roster step of the chain followed by currentTeam. Only
// upstream failures are returned; a player on no roster is not an error.
func (r *Resolver) rosterTeam(ctx context.Context, playerID string, person *mlb.Person) (string, error) {
	roster, err := r.ResolveRoster(ctx, playerID, r.season)
	switch {
	case err == nil:
		return roster.TeamName, nil
	case errors.Is(err, ErrNotFound):
		return currentTeam(person), nil
	default:
		return "", err
	}
}

func currentTeam(person *mlb.Person) string {
	if person.CurrentTeam != nil && person.CurrentTeam.Name != "" {
		return person.CurrentTeam.Name
	}
	return NotAvailable
}

// ResolveRoster finds the team a player belongs to in season. The person
// endpoint scoped to the season is tried first, then every team roster in
// TeamIDs order. Hits and complete misses are cached for RosterTTL; a miss
// yields ErrNotFound. A scan that hit upstream errors without finding the
// player returns ErrUpstream and caches nothing.
func (r *Resolver) ResolveRoster(ctx context.Context, playerID string, season int) (*Roster, error) {
	key := fmt.Sprintf("%s_%d", playerID, season)
	roster, err := resolve(ctx, r, config.RosterCacheCollection, key, within[Roster](RosterTTL),
		func(ctx context.Context) (*Roster, error) {
			return r.fetchRoster(ctx, playerID, season)
		})
	if err != nil {
		return nil, err
	}
	if roster.TeamName == NotAvailable {
		return nil, fmt.Errorf("roster for player %s in %d: %w", playerID, season, ErrNotFound)
	}
	return roster, nil
}

func (r *Resolver) fetchRoster(ctx context.Context, playerID string, season int) (*Roster, error) {
	person, err := observe(r, "mlb", "person", func() (*mlb.Person, error) {
		return r.stats.Person(ctx, playerID, season)
	})
	if err == nil && person.CurrentTeam != nil && person.CurrentTeam.Name != "" {
		return &Roster{PlayerID: playerID, Season: season,
			TeamName: person.CurrentTeam.Name, TeamID: person.CurrentTeam.ID}, nil
	}

	var scanErr error
	for _, teamID := range TeamIDs {
		if ctx.Err() != nil {
			return nil, classify("roster scan", ctx.Err())
		}
		entries, err := observe(r, "mlb", "team_roster", func() ([]mlb.RosterEntry, error) {
			return r.stats.TeamRoster(ctx, teamID, season)
		})
		if err != nil {
			r.logger.Debug("Roster fetch failed", "team_id", teamID, "season", season, "error", err)
			if !errors.Is(err, mlb.ErrNotFound) {
				scanErr = err
			}
			continue
		}
		if !onRoster(entries, playerID) {
			continue
		}
		team, err := observe(r, "mlb", "team", func() (*mlb.Team, error) {
			return r.stats.Team(ctx, teamID)
		})
		if err != nil {
			r.logger.Debug("Team fetch failed", "team_id", teamID, "error", err)
			scanErr = err
			continue
		}
		return &Roster{PlayerID: playerID, Season: season, TeamName: team.Name, TeamID: teamID}, nil
	}
	if scanErr != nil {
		return nil, classify(fmt.Sprintf("roster scan for player %s in %d", playerID, season), scanErr)
	}
	return &Roster{PlayerID: playerID, Season: season, TeamName: NotAvailable}, nil
}

func onRoster(entries []mlb.RosterEntry, playerID string) bool {
	for _, e := range entries {
		if strconv.Itoa(e.Person.ID) == playerID {
			return true
		}
	}
	return false
}

func positionName(p *mlb.Person) string {
	if p.PrimaryPosition != nil && p.PrimaryPosition.Name != "" {
		return p.PrimaryPosition.Name
	}
	return NotAvailable
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
