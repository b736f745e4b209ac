// Package external provides clients for third-party APIs (generative text).
package external

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"
)

// ---------------------------------------------------------------------------
// Constants
// ---------------------------------------------------------------------------

const (
	geminiDefaultModel   = "gemini-2.0-flash"
	geminiDefaultTimeout = 45 * time.Second
	geminiTemperature    = 0.7
	geminiTopP           = 0.8
	geminiTopK           = 40
	geminiMaxTokens      = 2048
)

// ErrNotConfigured is returned by Generate when no API key was provided.
var ErrNotConfigured = errors.New("gemini: API key not configured")

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("gemini: empty response")

// ---------------------------------------------------------------------------
// GeminiService: prompt in, prose out
// ---------------------------------------------------------------------------

// GeminiConfig configures the text model client.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// GeminiService sends prompts to a Gemini text model. The output has no
// guaranteed format and is not deterministic.
type GeminiService struct {
	models  *genai.Models
	model   string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[string]
	logger  *slog.Logger
}

// NewGeminiService creates the client. An empty API key yields a service
// whose Generate always returns ErrNotConfigured.
func NewGeminiService(ctx context.Context, cfg GeminiConfig, logger *slog.Logger) (*GeminiService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "gemini")

	s := &GeminiService{
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
	if s.model == "" {
		s.model = geminiDefaultModel
	}
	if s.timeout <= 0 {
		s.timeout = geminiDefaultTimeout
	}
	s.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: 1,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				"circuit", name, "from", from.String(), "to", to.String())
		},
	})

	if cfg.APIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, analyses will use the error placeholder")
		return s, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	s.models = client.Models
	return s, nil
}

// Configured reports whether an API key was provided.
func (s *GeminiService) Configured() bool { return s.models != nil }

// Status returns service configuration status.
func (s *GeminiService) Status() map[string]interface{} {
	return map[string]interface{}{
		"configured": s.Configured(),
		"model":      s.model,
		"circuit":    s.breaker.State().String(),
	}
}

// Generate submits prompt and returns the model's text.
func (s *GeminiService) Generate(ctx context.Context, prompt string) (string, error) {
	if !s.Configured() {
		return "", ErrNotConfigured
	}

	return s.breaker.Execute(func() (string, error) {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		start := time.Now()
		resp, err := s.models.GenerateContent(ctx, s.model, genai.Text(prompt), &genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](geminiTemperature),
			TopP:            genai.Ptr[float32](geminiTopP),
			TopK:            genai.Ptr[float32](geminiTopK),
			MaxOutputTokens: geminiMaxTokens,
		})
		if err != nil {
			return "", fmt.Errorf("generate content: %w", err)
		}

		text := strings.TrimSpace(resp.Text())
		if text == "" {
			return "", ErrEmptyResponse
		}
		s.logger.Debug("Gemini response", "model", s.model, "chars", len(text),
			"duration", time.Since(start).Round(time.Millisecond))
		return text, nil
	})
}
