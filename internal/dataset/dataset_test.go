package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/homerlab/internal/config"
)

const csv2016 = `play_id,title,ExitVelocity,HitDistance,LaunchAngle,video
a1,"Mike Trout homers (20) on a fly ball to center field.",108.1,431,27,https://clips.example.com/413650-trout.mp4
a2,"Bryce Harper homers (12) on a line drive to right field.",104.4,402,22,https://clips.example.com/413651-harper.mp4
a3,"Mike Trout hits an inside-the-park home run (21).",99.0,nan,19,https://clips.example.com/413652-trout.mp4
`

const csv2024 = `title,ExitVelocity,HitDistance,LaunchAngle,video
"Aaron Judge homers (58) on a fly ball to left field.",112.0,455,31,https://clips.example.com/746102-judge.mp4
"Mike Trout homers (10) on a fly ball to left field.",105.5,410,29,https://clips.example.com/746103-trout.mp4
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serveCSV(t *testing.T, files map[string]string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestProvider(t *testing.T) (*Provider, *atomic.Int32) {
	srv, hits := serveCSV(t, map[string]string{"/2016.csv": csv2016, "/2024.csv": csv2024})
	sources := []config.DatasetSource{
		{Label: "2016", URL: srv.URL + "/2016.csv"},
		{Label: "2024", URL: srv.URL + "/2024.csv"},
	}
	return New(sources, 5*time.Second, quietLogger()), hits
}

func TestProvider_EmptyBeforeLoad(t *testing.T) {
	p, _ := newTestProvider(t)
	snap := p.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, 0, snap.Len())
	assert.True(t, snap.LoadedAt().IsZero())
}

func TestProvider_LoadConcatenatesInSourceOrder(t *testing.T) {
	p, _ := newTestProvider(t)

	snap, err := p.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, snap.Len())

	rows := snap.Rows()
	assert.Equal(t, "Mike Trout homers (20) on a fly ball to center field.", rows[0].Title)
	assert.Equal(t, "108.1", rows[0].ExitVelocity)
	assert.Equal(t, "https://clips.example.com/413650-trout.mp4", rows[0].VideoURL)
	assert.Equal(t, "2016", rows[0].Source)
	assert.Equal(t, "2024", rows[4].Source)
	assert.Equal(t, []SourceSummary{
		{Label: "2016", URL: snap.Sources()[0].URL, Rows: 3},
		{Label: "2024", URL: snap.Sources()[1].URL, Rows: 2},
	}, snap.Sources())
	assert.Same(t, snap, p.Snapshot())
}

func TestProvider_FailedLoadKeepsPreviousSnapshot(t *testing.T) {
	srv, _ := serveCSV(t, map[string]string{"/2016.csv": csv2016})
	p := New([]config.DatasetSource{
		{Label: "2016", URL: srv.URL + "/2016.csv"},
	}, 5*time.Second, quietLogger())
	first, err := p.Load(context.Background())
	require.NoError(t, err)

	p.sources = append(p.sources, config.DatasetSource{Label: "2099", URL: srv.URL + "/missing.csv"})
	_, err = p.Load(context.Background())
	assert.Error(t, err)
	assert.Same(t, first, p.Snapshot())
}

func TestProvider_ReloadSwapsSnapshot(t *testing.T) {
	p, hits := newTestProvider(t)
	first, err := p.Load(context.Background())
	require.NoError(t, err)

	second, err := p.Reload(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, int32(4), hits.Load())

	// The old snapshot is still readable.
	assert.Equal(t, 5, first.Len())
}

func TestProvider_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2016.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv2016), 0o600))

	p := New([]config.DatasetSource{{Label: "2016", URL: "file://" + path}}, time.Second, quietLogger())
	snap, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Len())
}

func TestParseCSV_LeadingByteOrderMark(t *testing.T) {
	rows, err := parseCSV(strings.NewReader("\ufeff"+csv2024), "2024")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Aaron Judge homers (58) on a fly ball to left field.", rows[0].Title)
	assert.Equal(t, "112.0", rows[0].ExitVelocity)
	assert.Equal(t, "2024", rows[0].Source)
}

func TestParseCSV_MissingTitleColumn(t *testing.T) {
	_, err := parseCSV(strings.NewReader("video,ExitVelocity\nx,1\n"), "2016")
	assert.ErrorIs(t, err, errNoTitleColumn)
}

func TestSnapshot_SeasonYear(t *testing.T) {
	p, _ := newTestProvider(t)
	snap, err := p.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2016", snap.SeasonYear("Bryce Harper homers (12) on a line drive to right field."))
	assert.Equal(t, "2024", snap.SeasonYear("Aaron Judge homers (58) on a fly ball to left field."))
	assert.Equal(t, config.DefaultSeasonYear, snap.SeasonYear("Nobody homers (1)."))
}

func TestSnapshot_MatchPlayer(t *testing.T) {
	p, _ := newTestProvider(t)
	snap, err := p.Load(context.Background())
	require.NoError(t, err)

	rows := snap.MatchPlayer("  Mike TROUT ")
	require.Len(t, rows, 3)
	assert.Contains(t, rows[0].Title, "(20)")
	assert.Contains(t, rows[1].Title, "inside-the-park")
	assert.Contains(t, rows[2].Title, "(10)")

	assert.Empty(t, snap.MatchPlayer("Shohei Ohtani"))
	assert.Empty(t, snap.MatchPlayer(""))
}

func TestSnapshot_MatchPlayerFallsBackToTokens(t *testing.T) {
	snap := build(
		[]config.DatasetSource{{Label: "2017", URL: "x"}},
		[][]Row{{
			{Title: "Grand slam! Judge, Aaron crushes one to left"},
			{Title: "Aaron Hicks homers (4)"},
		}},
	)
	rows := snap.MatchPlayer("Aaron Judge")
	require.Len(t, rows, 1)
	assert.Equal(t, "Grand slam! Judge, Aaron crushes one to left", rows[0].Title)
}

func TestSnapshot_MatchPlayerIdempotentAcrossReloads(t *testing.T) {
	p, _ := newTestProvider(t)
	first, err := p.Load(context.Background())
	require.NoError(t, err)
	second, err := p.Reload(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.MatchPlayer("Mike Trout"), second.MatchPlayer("Mike Trout"))
}
