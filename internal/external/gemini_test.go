package external

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiService_NotConfigured(t *testing.T) {
	s, err := NewGeminiService(context.Background(), GeminiConfig{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	assert.False(t, s.Configured())
	_, err = s.Generate(context.Background(), "analyze this")
	assert.ErrorIs(t, err, ErrNotConfigured)

	status := s.Status()
	assert.Equal(t, false, status["configured"])
	assert.Equal(t, geminiDefaultModel, status["model"])
	assert.Equal(t, "closed", status["circuit"])
}
