package resolver

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/albapepper/homerlab/internal/config"
	"github.com/albapepper/homerlab/internal/dataset"
	"github.com/albapepper/homerlab/internal/provider"
	"github.com/albapepper/homerlab/internal/provider/mlb"
)

// AnalysisErrorText replaces the model's prose when generation fails.
const AnalysisErrorText = "Error analyzing video"

// Game context placeholders.
const (
	unknownTeam  = "Unknown Team"
	unknownBases = "unknown"
	basesEmpty   = "bases empty"
)

// Analysis is the analysis_cache record.
type Analysis struct {
	PlayerID   string          `json:"player_id"`
	VideoIndex int             `json:"video_index"`
	Title      string          `json:"title"`
	Text       string          `json:"text"`
	Metrics    AnalysisMetrics `json:"metrics"`
	Failed     bool            `json:"failed"`
}

// AnalysisMetrics are the flight metrics the analysis was written for.
type AnalysisMetrics struct {
	ExitVelocity      float64 `json:"exit_velocity"`
	EstimatedDistance float64 `json:"estimated_distance"`
	LaunchAngle       float64 `json:"launch_angle"`
}

// Point is one line of analysis prose, split into "label: content" when the
// line has a colon.
type Point struct {
	Label   string `json:"label,omitempty"`
	Content string `json:"content"`
}

// Points splits the prose into display lines with markdown emphasis removed.
func (a *Analysis) Points() []Point {
	var points []Point
	for _, line := range strings.Split(a.Text, "\n") {
		line = strings.TrimSpace(strings.NewReplacer("*", "", "#", "").Replace(line))
		if line == "" {
			continue
		}
		if label, content, ok := strings.Cut(line, ":"); ok && strings.TrimSpace(label) != "" {
			points = append(points, Point{Label: strings.TrimSpace(label), Content: strings.TrimSpace(content)})
			continue
		}
		points = append(points, Point{Content: line})
	}
	return points
}

// GameContext is the game situation fed into the prompt.
type GameContext struct {
	GameID     string `json:"game_id"`
	HomeTeam   string `json:"home_team"`
	AwayTeam   string `json:"away_team"`
	HomeScore  string `json:"home_score"`
	AwayScore  string `json:"away_score"`
	Inning     string `json:"inning"`
	InningHalf string `json:"inning_half"`
	Outs       string `json:"outs"`
	Count      string `json:"count"`
	Bases      string `json:"bases"`
}

// Analysis returns the AI analysis for the index-th home run of a player.
// Successful analyses never expire while the video title is unchanged;
// failure placeholders are regenerated after FailedAnalysisTTL.
func (r *Resolver) Analysis(ctx context.Context, playerID string, index int) (*Analysis, error) {
	player, err := r.ResolvePlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	row, _, err := r.homeRunAt(ctx, player.FullName, index)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s_%d", player.ID, index)
	fresh := func(a *Analysis, age time.Duration) bool {
		if a.Title != row.Title {
			return false
		}
		return !a.Failed || age < FailedAnalysisTTL
	}
	return resolve(ctx, r, config.AnalysisCacheCollection, key, fresh,
		func(ctx context.Context) (*Analysis, error) {
			return r.analyze(ctx, player, row, index), nil
		})
}

// analyze never fails: a generation error yields the placeholder record.
func (r *Resolver) analyze(ctx context.Context, player *Player, row dataset.Row, index int) *Analysis {
	a := &Analysis{
		PlayerID:   player.ID,
		VideoIndex: index,
		Title:      row.Title,
	}

	game := r.gameContext(ctx, row.VideoURL)
	text, err := observe(r, "gemini", "generate", func() (string, error) {
		return r.ai.Generate(ctx, BuildPrompt(player.FullName, row, game))
	})
	if err != nil {
		r.logger.Warn("Analysis generation failed",
			"player_id", player.ID, "index", index, "error", err)
		a.Text = AnalysisErrorText
		a.Failed = true
		return a
	}

	a.Text = text
	a.Metrics = AnalysisMetrics{
		ExitVelocity:      provider.MetricOrZero(row.ExitVelocity),
		EstimatedDistance: provider.MetricOrZero(row.HitDistance),
		LaunchAngle:       provider.MetricOrZero(row.LaunchAngle),
	}
	return a
}

// GameID extracts the game id from a highlight URL: the token before the
// first "-" in the last path segment.
func GameID(videoURL string) string {
	p := videoURL
	if u, err := url.Parse(videoURL); err == nil && u.Path != "" {
		p = u.Path
	}
	last := path.Base(strings.TrimRight(p, "/"))
	if last == "." || last == "/" {
		return ""
	}
	id, _, _ := strings.Cut(last, "-")
	return id
}

// gameContext fetches the boxscore and linescore. Each failure degrades its
// fields to placeholders.
func (r *Resolver) gameContext(ctx context.Context, videoURL string) GameContext {
	gc := GameContext{
		GameID:     GameID(videoURL),
		HomeTeam:   unknownTeam,
		AwayTeam:   unknownTeam,
		HomeScore:  NotAvailable,
		AwayScore:  NotAvailable,
		Inning:     NotAvailable,
		InningHalf: NotAvailable,
		Outs:       NotAvailable,
		Count:      NotAvailable,
		Bases:      unknownBases,
	}
	if gc.GameID == "" {
		return gc
	}

	box, err := observe(r, "mlb", "boxscore", func() (*mlb.Boxscore, error) {
		return r.stats.Boxscore(ctx, gc.GameID)
	})
	if err != nil {
		r.logger.Debug("Boxscore unavailable", "game_id", gc.GameID, "error", err)
	} else {
		gc.HomeTeam = orDefault(box.Teams.Home.Team.Name, "Home Team")
		gc.AwayTeam = orDefault(box.Teams.Away.Team.Name, "Away Team")
		gc.HomeScore = intOrNA(box.Teams.Home.TeamStats.Batting.Runs)
		gc.AwayScore = intOrNA(box.Teams.Away.TeamStats.Batting.Runs)
	}

	line, err := observe(r, "mlb", "linescore", func() (*mlb.Linescore, error) {
		return r.stats.Linescore(ctx, gc.GameID)
	})
	if err != nil {
		r.logger.Debug("Linescore unavailable", "game_id", gc.GameID, "error", err)
		return gc
	}
	gc.Inning = intOrNA(line.CurrentInning)
	gc.InningHalf = "bottom"
	if strings.EqualFold(line.InningState, "top") {
		gc.InningHalf = "top"
	}
	gc.Outs = intOrNA(line.Outs)
	if line.Balls != nil && line.Strikes != nil {
		gc.Count = fmt.Sprintf("%d-%d", *line.Balls, *line.Strikes)
	}
	gc.Bases = basesEmpty
	if occupied := line.Occupied(); len(occupied) > 0 {
		gc.Bases = strings.Join(occupied, ", ")
	}
	return gc
}

const promptTemplate = `You are an expert baseball analyst, analyzing this home run.

Home Run Details:
Batter: %s
Exit Velocity: %s mph
Hit Distance: %s feet
Launch Angle: %s°
Description: %s

Game Situation:
%s (%s) at %s (%s)
Inning: %s of the %s
Outs: %s
Count: %s
Runners on: %s

Please analyze:
The technical aspects of the home run (exit velocity, launch angle, distance)
How these metrics compare to MLB averages (typical HR: 95-105 mph exit velo, 25-35° launch angle)
How the game situation adds to the moment

Format each point as "Label: explanation" on its own line.`

// BuildPrompt renders the analysis prompt for one home run.
func BuildPrompt(batter string, row dataset.Row, gc GameContext) string {
	return fmt.Sprintf(promptTemplate,
		batter,
		provider.DisplayMetric(row.ExitVelocity),
		provider.DisplayMetric(row.HitDistance),
		provider.DisplayMetric(row.LaunchAngle),
		orDefault(row.Title, NotAvailable),
		gc.AwayTeam, gc.AwayScore, gc.HomeTeam, gc.HomeScore,
		gc.InningHalf, gc.Inning,
		gc.Outs,
		gc.Count,
		gc.Bases,
	)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func intOrNA(n *int) string {
	if n == nil {
		return NotAvailable
	}
	return strconv.Itoa(*n)
}
