package resolver

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/albapepper/homerlab/internal/dataset"
	"github.com/albapepper/homerlab/internal/provider/mlb"
)

// StatsSource is the MLB Stats API surface the resolver reads.
type StatsSource interface {
	Person(ctx context.Context, id string, season int) (*mlb.Person, error)
	PersonStats(ctx context.Context, id string) (*mlb.Person, error)
	Players(ctx context.Context, season int) ([]mlb.Person, error)
	TeamRoster(ctx context.Context, teamID, season int) ([]mlb.RosterEntry, error)
	Team(ctx context.Context, teamID int) (*mlb.Team, error)
	Boxscore(ctx context.Context, gameID string) (*mlb.Boxscore, error)
	Linescore(ctx context.Context, gameID string) (*mlb.Linescore, error)
}

// Generator turns a prompt into prose.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Dataset hands out the current home-run snapshot.
type Dataset interface {
	Snapshot() *dataset.Snapshot
	Reload(ctx context.Context) (*dataset.Snapshot, error)
}
