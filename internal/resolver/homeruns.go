package resolver

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/albapepper/homerlab/internal/config"
	"github.com/albapepper/homerlab/internal/dataset"
	"github.com/albapepper/homerlab/internal/provider"
)

// hrNumberPatterns are tried in order against the lower-cased title.
var hrNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`homers?\s*\((\d+)\)`),
	regexp.MustCompile(`\((\d+)\)\s*on a`),
	regexp.MustCompile(`home run (?:no\.|number|#)\s*(\d+)`),
	regexp.MustCompile(`(\d+)(?:th|st|nd|rd)\s+home run`),
}

// HomeRun is the video_cache record for one (player, index) pair.
type HomeRun struct {
	Index        int      `json:"index"`
	Title        string   `json:"title"`
	VideoURL     string   `json:"video_url"`
	ExitVelocity *float64 `json:"exit_velocity"`
	HitDistance  *float64 `json:"hit_distance"`
	LaunchAngle  *float64 `json:"launch_angle"`
	HRNumber     *string  `json:"hr_number"`
	SeasonYear   string   `json:"season_year"`
	IsInsidePark bool     `json:"is_inside_park"`
}

// VideoView is one home run together with its player and the length of the
// player's sequence.
type VideoView struct {
	Player  *Player  `json:"player"`
	HomeRun *HomeRun `json:"home_run"`
	Total   int      `json:"total"`
}

// HomeRuns returns the player's home runs from the current snapshot in
// dataset order. Recomputed on every call.
func (r *Resolver) HomeRuns(_ context.Context, playerName string) []dataset.Row {
	return r.data.Snapshot().MatchPlayer(playerName)
}

// Video resolves the index-th home run of a player. An index past the end
// triggers one dataset reload, at most once per ReloadCooldown, before
// giving up with ErrNotFound.
func (r *Resolver) Video(ctx context.Context, playerID string, index int) (*VideoView, error) {
	player, err := r.ResolvePlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	row, total, err := r.homeRunAt(ctx, player.FullName, index)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s_%d", player.ID, index)
	sameTitle := func(v *HomeRun, _ time.Duration) bool { return v.Title == row.Title }
	hr, err := resolve(ctx, r, config.VideoCacheCollection, key, sameTitle,
		func(context.Context) (*HomeRun, error) {
			return r.deriveHomeRun(row, index), nil
		})
	if err != nil {
		return nil, err
	}
	return &VideoView{Player: player, HomeRun: hr, Total: total}, nil
}

// homeRunAt returns the row at index and the sequence length.
func (r *Resolver) homeRunAt(ctx context.Context, playerName string, index int) (dataset.Row, int, error) {
	if index < 0 {
		return dataset.Row{}, 0, fmt.Errorf("video index %d: %w", index, ErrNotFound)
	}
	rows := r.HomeRuns(ctx, playerName)
	if index >= len(rows) && r.reloadDataset(ctx) {
		rows = r.HomeRuns(ctx, playerName)
	}
	if index >= len(rows) {
		return dataset.Row{}, len(rows), fmt.Errorf("video %d of %q (have %d): %w",
			index, playerName, len(rows), ErrNotFound)
	}
	return rows[index], len(rows), nil
}

// reloadDataset reloads the home-run sources unless a reload was attempted
// within ReloadCooldown. Callers arriving during a reload wait for it and
// then read the new snapshot. Reports whether the snapshot may have changed.
func (r *Resolver) reloadDataset(ctx context.Context) bool {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	now := r.now()
	if !r.lastReload.IsZero() && now.Sub(r.lastReload) < ReloadCooldown {
		return true
	}
	r.lastReload = now
	if _, err := r.data.Reload(ctx); err != nil {
		r.logger.Warn("Dataset reload failed", "error", err)
		return false
	}
	return true
}

// deriveHomeRun computes the persisted derived fields for a row.
func (r *Resolver) deriveHomeRun(row dataset.Row, index int) *HomeRun {
	return &HomeRun{
		Index:        index,
		Title:        row.Title,
		VideoURL:     row.VideoURL,
		ExitVelocity: metric(row.ExitVelocity),
		HitDistance:  metric(row.HitDistance),
		LaunchAngle:  metric(row.LaunchAngle),
		HRNumber:     HRNumber(row.Title),
		SeasonYear:   r.data.Snapshot().SeasonYear(row.Title),
		IsInsidePark: IsInsidePark(row.Title),
	}
}

// HRNumber extracts the season home-run count from a highlight title, or
// nil when no known phrasing is present.
func HRNumber(title string) *string {
	lower := strings.ToLower(title)
	for _, re := range hrNumberPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			return &m[1]
		}
	}
	return nil
}

// IsInsidePark reports whether the title describes an inside-the-park homer.
func IsInsidePark(title string) bool {
	return strings.Contains(strings.ToLower(title), "inside-the-park")
}

func metric(raw string) *float64 {
	f, ok := provider.ExtractMetric(raw)
	if !ok {
		return nil
	}
	return &f
}
