package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/homerlab/internal/config"
	"github.com/albapepper/homerlab/internal/docstore"
)

const judgeCSV = `title,ExitVelocity,HitDistance,LaunchAngle,video
"Aaron Judge homers (58) on a fly ball to left field.",112.0,455,31,https://clips.example.com/746102-judge.mp4
`

func testConfig(t *testing.T, source string) *config.Config {
	t.Helper()
	return &config.Config{
		StoreBackend:   "memory",
		L1CacheMB:      1,
		L1CacheTTL:     time.Minute,
		MLBBaseURL:     "http://127.0.0.1:1",
		MLBTimeout:     time.Second,
		MLBRPM:         60,
		CurrentSeason:  2025,
		DatasetSources: []config.DatasetSource{{Label: "2024", URL: source}},
		DatasetTimeout: time.Second,
	}
}

func TestNew_MemoryBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2024.csv")
	require.NoError(t, os.WriteFile(path, []byte(judgeCSV), 0o600))

	a, err := New(context.Background(), testConfig(t, path),
		Options{LoadDataset: true, Metrics: true}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Pool)
	assert.IsType(t, &docstore.Tiered{}, a.Store)
	assert.False(t, a.Gemini.Configured())
	assert.Equal(t, 1, a.Dataset.Snapshot().Len())
	require.NotNil(t, a.Resolver)
	assert.Len(t, a.Resolver.HomeRuns(context.Background(), "Aaron Judge"), 1)
}

func TestNew_DatasetFailureIsNotFatal(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "missing.csv"))
	cfg.L1CacheMB = 0

	a, err := New(context.Background(), cfg, Options{LoadDataset: true},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &docstore.Memory{}, a.Store)
	assert.Zero(t, a.Dataset.Snapshot().Len())
}
