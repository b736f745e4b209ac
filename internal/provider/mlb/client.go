// Package mlb provides the HTTP client for the public MLB Stats API.
//
// The API needs no authentication. Requests are rate limited with a token
// bucket and guarded by a circuit breaker; there are no retries.
package mlb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// ErrNotFound is returned when the API answers 404 or an empty result.
var ErrNotFound = errors.New("mlb: not found")

// StatusError is a non-200, non-404 response.
type StatusError struct {
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("MLB %s returned %d: %s", e.Path, e.Status, e.Body)
}

// Config controls the client.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
}

// Client is the shared HTTP client for all Stats API endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *slog.Logger
}

// NewClient creates a Stats API client with rate limiting.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "mlb")

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 600
	}
	burst := max(rpm/60, 1)

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		limiter:    rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst),
		logger:     logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "mlb-stats-api",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A 404 is an answer, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				"circuit", name, "from", from.String(), "to", to.String())
		},
	})
	return c
}

// Person fetches /people/{id}. A positive season scopes currentTeam to it.
func (c *Client) Person(ctx context.Context, id string, season int) (*Person, error) {
	params := url.Values{}
	if season > 0 {
		params.Set("season", strconv.Itoa(season))
	}
	return c.person(ctx, id, params)
}

// PersonStats fetches /people/{id} hydrated with career and year-by-year
// hitting, pitching and fielding stats.
func (c *Client) PersonStats(ctx context.Context, id string) (*Person, error) {
	params := url.Values{}
	params.Set("hydrate", "stats(group=[hitting,pitching,fielding],type=[career,yearByYear])")
	return c.person(ctx, id, params)
}

func (c *Client) person(ctx context.Context, id string, params url.Values) (*Person, error) {
	var resp struct {
		People []json.RawMessage `json:"people"`
	}
	if err := c.getJSON(ctx, "/people/"+url.PathEscape(id), params, &resp); err != nil {
		return nil, err
	}
	if len(resp.People) == 0 {
		return nil, ErrNotFound
	}
	return decodePerson(resp.People[0])
}

// Players fetches the league player list (/sports/1/players).
func (c *Client) Players(ctx context.Context, season int) ([]Person, error) {
	params := url.Values{}
	if season > 0 {
		params.Set("season", strconv.Itoa(season))
	}
	var resp struct {
		People []json.RawMessage `json:"people"`
	}
	if err := c.getJSON(ctx, "/sports/1/players", params, &resp); err != nil {
		return nil, err
	}
	people := make([]Person, 0, len(resp.People))
	for _, raw := range resp.People {
		p, err := decodePerson(raw)
		if err != nil {
			return nil, err
		}
		people = append(people, *p)
	}
	return people, nil
}

// TeamRoster fetches /teams/{id}/roster for a season.
func (c *Client) TeamRoster(ctx context.Context, teamID, season int) ([]RosterEntry, error) {
	params := url.Values{}
	params.Set("season", strconv.Itoa(season))
	var resp struct {
		Roster []RosterEntry `json:"roster"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/teams/%d/roster", teamID), params, &resp); err != nil {
		return nil, err
	}
	return resp.Roster, nil
}

// Team fetches /teams/{id}.
func (c *Client) Team(ctx context.Context, teamID int) (*Team, error) {
	var resp struct {
		Teams []Team `json:"teams"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/teams/%d", teamID), nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Teams) == 0 {
		return nil, ErrNotFound
	}
	return &resp.Teams[0], nil
}

// Boxscore fetches /game/{id}/boxscore.
func (c *Client) Boxscore(ctx context.Context, gameID string) (*Boxscore, error) {
	var b Boxscore
	if err := c.getJSON(ctx, "/game/"+url.PathEscape(gameID)+"/boxscore", nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Linescore fetches /game/{id}/linescore.
func (c *Client) Linescore(ctx context.Context, gameID string) (*Linescore, error) {
	var l Linescore
	if err := c.getJSON(ctx, "/game/"+url.PathEscape(gameID)+"/linescore", nil, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// BreakerState reports the circuit breaker state; /health/cache includes it.
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

func decodePerson(raw json.RawMessage) (*Person, error) {
	var p Person
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode person: %w", err)
	}
	p.Raw = append(json.RawMessage(nil), raw...)
	return &p, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.get(ctx, path, params)
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// get performs a rate-limited GET request to a Stats API endpoint.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	c.logger.Debug("MLB request", "path", path, "status", resp.StatusCode,
		"duration", time.Since(start).Round(time.Millisecond))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, &StatusError{Path: path, Status: resp.StatusCode, Body: truncate(body, 200)}
	}
	return body, nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
