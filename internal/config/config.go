// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/homerctl.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Dataset registry: the home-run CSV sources in season priority order
// --------------------------------------------------------------------------

// DatasetSource is one CSV file of historical home runs. Label is the season
// year reported for rows found in this file.
type DatasetSource struct {
	Label string
	URL   string
}

// DefaultDatasetSources are checked in this order when deriving a season year.
var DefaultDatasetSources = []DatasetSource{
	{Label: "2016", URL: "https://storage.googleapis.com/gcp-mlb-hackathon-2025/datasets/2016-mlb-homeruns.csv"},
	{Label: "2017", URL: "https://storage.googleapis.com/gcp-mlb-hackathon-2025/datasets/2017-mlb-homeruns.csv"},
	{Label: "2024", URL: "https://storage.googleapis.com/gcp-mlb-hackathon-2025/datasets/2024-mlb-homeruns.csv"},
	{Label: "2024", URL: "https://storage.googleapis.com/gcp-mlb-hackathon-2025/datasets/2024-postseason-mlb-homeruns.csv"},
}

// DefaultSeasonYear is reported when a title is not found in any source.
const DefaultSeasonYear = "2024"

// --------------------------------------------------------------------------
// Collection names: single source of truth for document store keys
// --------------------------------------------------------------------------

const (
	PlayerCacheCollection   = "player_cache"
	RosterCacheCollection   = "roster_cache"
	VideoCacheCollection    = "video_cache"
	AnalysisCacheCollection = "analysis_cache"
	PlayerStatsCollection   = "player_stats"
	FavoritesCollection     = "favorite_players"
)

// --------------------------------------------------------------------------
// Config struct: populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Document store
	StoreBackend   string // postgres, memory
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// L1 tier in front of the document store
	L1CacheMB  int
	L1CacheTTL time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	LogLevel    slog.Level

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Response cache and metrics
	ResponseCacheEnabled bool
	MetricsEnabled       bool

	// MLB Stats API
	MLBBaseURL    string
	MLBTimeout    time.Duration
	MLBRPM        int
	CurrentSeason int

	// Gemini
	GeminiAPIKey  string
	GeminiModel   string
	GeminiTimeout time.Duration

	// Home-run dataset
	DatasetSources []DatasetSource
	DatasetTimeout time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	backend := strings.ToLower(envOr("STORE_BACKEND", "postgres"))
	if backend != "postgres" && backend != "memory" {
		return nil, fmt.Errorf("STORE_BACKEND must be 'postgres' or 'memory', got %q", backend)
	}

	dbURL := envOr("DATABASE_URL", "")
	if backend == "postgres" && dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set when STORE_BACKEND=postgres")
	}

	sources, err := envSources("DATASET_URLS", DefaultDatasetSources)
	if err != nil {
		return nil, err
	}

	return &Config{
		StoreBackend:   backend,
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		L1CacheMB:  envInt("L1_CACHE_MB", 32),
		L1CacheTTL: envDuration("L1_CACHE_TTL", 5*time.Minute),

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		LogLevel:    envLevel("LOG_LEVEL", slog.LevelInfo),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		ResponseCacheEnabled: envBool("RESPONSE_CACHE_ENABLED", true),
		MetricsEnabled:       envBool("METRICS_ENABLED", true),

		MLBBaseURL:    strings.TrimRight(envOr("MLB_API_BASE_URL", "https://statsapi.mlb.com/api/v1"), "/"),
		MLBTimeout:    envDuration("MLB_API_TIMEOUT", 10*time.Second),
		MLBRPM:        envInt("MLB_API_RPM", 600),
		CurrentSeason: envInt("CURRENT_SEASON", 2025),

		GeminiAPIKey:  envOr("GEMINI_API_KEY", ""),
		GeminiModel:   envOr("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiTimeout: envDuration("GEMINI_TIMEOUT", 45*time.Second),

		DatasetSources: sources,
		DatasetTimeout: envDuration("DATASET_TIMEOUT", 60*time.Second),
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			return lvl
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// envSources parses "label=url,label=url". Order is preserved because it is
// the season-year lookup priority.
func envSources(key string, fallback []DatasetSource) ([]DatasetSource, error) {
	items := envList(key, nil)
	if items == nil {
		return fallback, nil
	}
	sources := make([]DatasetSource, 0, len(items))
	for _, item := range items {
		label, url, ok := strings.Cut(item, "=")
		if !ok || strings.TrimSpace(label) == "" || strings.TrimSpace(url) == "" {
			return nil, fmt.Errorf("%s: entry %q must be label=url", key, item)
		}
		sources = append(sources, DatasetSource{Label: strings.TrimSpace(label), URL: strings.TrimSpace(url)})
	}
	return sources, nil
}
