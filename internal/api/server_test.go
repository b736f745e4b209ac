package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/albapepper/homerlab/internal/api/handler"
	"github.com/albapepper/homerlab/internal/cache"
	"github.com/albapepper/homerlab/internal/config"
	"github.com/albapepper/homerlab/internal/dataset"
	"github.com/albapepper/homerlab/internal/docstore"
	"github.com/albapepper/homerlab/internal/metrics"
	"github.com/albapepper/homerlab/internal/provider/mlb"
	"github.com/albapepper/homerlab/internal/resolver"
	"github.com/albapepper/homerlab/internal/resolver/mocks"
)

type RouterTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	stats *mocks.MockStatsSource
	ai    *mocks.MockGenerator
	data  *mocks.MockDataset

	store    *docstore.Memory
	cache    *cache.Cache
	recorder metrics.Recorder
	cfg      *config.Config
	server   *httptest.Server
}

func (s *RouterTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.stats = mocks.NewMockStatsSource(s.ctrl)
	s.ai = mocks.NewMockGenerator(s.ctrl)
	s.data = mocks.NewMockDataset(s.ctrl)

	snap := dataset.NewSnapshot(
		[]config.DatasetSource{{Label: "2024", URL: "mem://2024"}},
		[][]dataset.Row{{
			{Title: "Aaron Judge homers (3) on a fly ball", VideoURL: "https://clips.example/746102-a.mp4", ExitVelocity: "110", HitDistance: "420", LaunchAngle: "28"},
		}},
	)
	s.data.EXPECT().Snapshot().Return(snap).AnyTimes()

	s.store = docstore.NewMemory()
	s.cache = cache.New(true)
	s.recorder = metrics.New(true)
	s.cfg = &config.Config{
		StoreBackend:     "memory",
		CORSAllowOrigins: []string{"*"},
		CurrentSeason:    2025,
	}
	s.server = s.newServer(s.cfg)
}

func (s *RouterTestSuite) newServer(cfg *config.Config) *httptest.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	res := resolver.New(s.store, s.stats, s.ai, s.data, s.recorder, logger, resolver.Options{CurrentSeason: 2025})
	h := handler.New(handler.Deps{
		Resolver: res,
		Store:    s.store,
		Dataset:  s.data,
		MLB:      mlb.NewClient(mlb.Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, logger),
		Cache:    s.cache,
		Config:   cfg,
		Logger:   logger,
	})
	srv := httptest.NewServer(NewRouter(h, s.recorder, cfg))
	s.T().Cleanup(srv.Close)
	return srv
}

func (s *RouterTestSuite) TearDownTest() {
	s.cache.Close()
	s.ctrl.Finish()
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) do(method, path, body string, header ...string) (*http.Response, []byte) {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.server.URL+path, rd)
	s.Require().NoError(err)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, data
}

func (s *RouterTestSuite) errorCode(body []byte) string {
	var e struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	s.Require().NoError(json.Unmarshal(body, &e))
	return e.Error.Code
}

func (s *RouterTestSuite) seedFavorite(id string, votes int64) {
	body, err := json.Marshal(resolver.Favorite{ID: id, Name: "Aaron Judge", Team: "New York Yankees", Votes: votes})
	s.Require().NoError(err)
	_, err = s.store.Put(context.Background(), config.FavoritesCollection, id, body)
	s.Require().NoError(err)
}

func judge() *mlb.Person {
	return &mlb.Person{
		ID:              592450,
		FullName:        "Aaron Judge",
		PrimaryNumber:   "99",
		CurrentTeam:     &mlb.TeamRef{ID: 147, Name: "New York Yankees"},
		PrimaryPosition: &mlb.Position{Name: "Outfielder"},
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func (s *RouterTestSuite) TestHealthEndpoints() {
	resp, body := s.do(http.MethodGet, "/health", "")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(string(body), `"healthy"`)
	s.NotEmpty(resp.Header.Get("X-Process-Time"))

	resp, body = s.do(http.MethodGet, "/health/dataset", "")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(string(body), `"rows":1`)

	resp, _ = s.do(http.MethodGet, "/health/db", "")
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, body = s.do(http.MethodGet, "/health/cache", "")
	s.Equal(http.StatusOK, resp.StatusCode)
	var cacheHealth struct {
		MLB struct {
			Circuit string `json:"circuit"`
		} `json:"mlb"`
	}
	s.Require().NoError(json.Unmarshal(body, &cacheHealth))
	s.Equal("closed", cacheHealth.MLB.Circuit)
}

func (s *RouterTestSuite) TestGetPlayer_CachedWithETag() {
	s.stats.EXPECT().Person(gomock.Any(), "592450", 0).Return(judge(), nil).Times(1)
	s.stats.EXPECT().Person(gomock.Any(), "592450", 2025).Return(judge(), nil).Times(1)

	resp, body := s.do(http.MethodGet, "/api/v1/players/592450", "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal("MISS", resp.Header.Get("X-Cache"))
	var p resolver.Player
	s.Require().NoError(json.Unmarshal(body, &p))
	s.Equal("New York Yankees", p.Team)

	etag := resp.Header.Get("ETag")
	s.Require().NotEmpty(etag)
	resp, _ = s.do(http.MethodGet, "/api/v1/players/592450", "", "If-None-Match", etag)
	s.Equal(http.StatusNotModified, resp.StatusCode)

	resp, _ = s.do(http.MethodGet, "/api/v1/players/592450", "")
	s.Equal("HIT", resp.Header.Get("X-Cache"))
}

func (s *RouterTestSuite) TestGetPlayer_ErrorMapping() {
	resp, body := s.do(http.MethodGet, "/api/v1/players/1", "")
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal("NOT_FOUND", s.errorCode(body))

	s.stats.EXPECT().Person(gomock.Any(), "777", 0).Return(nil, &mlb.StatusError{Path: "/people/777", Status: 500})
	resp, body = s.do(http.MethodGet, "/api/v1/players/777", "")
	s.Equal(http.StatusBadGateway, resp.StatusCode)
	s.Equal("UPSTREAM_ERROR", s.errorCode(body))

	// Errors are not response-cached.
	s.stats.EXPECT().Person(gomock.Any(), "777", 0).Return(nil, mlb.ErrNotFound)
	resp, _ = s.do(http.MethodGet, "/api/v1/players/777", "")
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *RouterTestSuite) TestSearch() {
	resp, body := s.do(http.MethodGet, "/api/v1/players/search", "")
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("MISSING_NAME", s.errorCode(body))

	s.stats.EXPECT().Players(gomock.Any(), 0).Return([]mlb.Person{*judge()}, nil)
	resp, body = s.do(http.MethodGet, "/api/v1/players/search?name=aaron%20judge", "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.JSONEq(`{"id":592450,"full_name":"Aaron Judge","score":100}`, string(body))
}

func (s *RouterTestSuite) TestFavorites_VoteInvalidatesLeaderboard() {
	s.seedFavorite("592450", 5)

	resp, body := s.do(http.MethodGet, "/api/v1/favorites", "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Contains(string(body), `"votes":5`)

	resp, body = s.do(http.MethodPost, "/api/v1/favorites/592450/vote", "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.JSONEq(`{"player_id":"592450","votes":6}`, string(body))

	resp, body = s.do(http.MethodGet, "/api/v1/favorites", "")
	s.Equal("MISS", resp.Header.Get("X-Cache"))
	s.Contains(string(body), `"votes":6`)

	resp, body = s.do(http.MethodPost, "/api/v1/favorites/424242/vote", "")
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal("NOT_FOUND", s.errorCode(body))
}

func (s *RouterTestSuite) TestAddFavorite() {
	resp, body := s.do(http.MethodPost, "/api/v1/favorites", "not json")
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("INVALID_BODY", s.errorCode(body))

	resp, body = s.do(http.MethodPost, "/api/v1/favorites", `{"player_name":"  "}`)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("MISSING_PLAYER_NAME", s.errorCode(body))

	s.stats.EXPECT().Players(gomock.Any(), 0).Return([]mlb.Person{*judge()}, nil).Times(2)
	s.stats.EXPECT().Person(gomock.Any(), "592450", 2025).Return(judge(), nil)

	resp, body = s.do(http.MethodPost, "/api/v1/favorites", `{"player_name":"Aaron Judge"}`, "Content-Type", "application/json")
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.Contains(string(body), `"votes":0`)

	resp, _ = s.do(http.MethodPost, "/api/v1/favorites", `{"player_name":"Aaron Judge"}`, "Content-Type", "application/json")
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *RouterTestSuite) TestVideosAndAnalysis() {
	s.stats.EXPECT().Person(gomock.Any(), "592450", 0).Return(judge(), nil)
	s.stats.EXPECT().Person(gomock.Any(), "592450", 2025).Return(judge(), nil)
	s.stats.EXPECT().Boxscore(gomock.Any(), "746102").Return(nil, mlb.ErrNotFound)
	s.stats.EXPECT().Linescore(gomock.Any(), "746102").Return(nil, mlb.ErrNotFound)
	s.ai.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("Exit Velocity: 110 mph is elite", nil)

	resp, body := s.do(http.MethodGet, "/api/v1/players/592450/videos", "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var list handler.VideoList
	s.Require().NoError(json.Unmarshal(body, &list))
	s.Equal(1, list.Total)
	s.Equal("https://clips.example/746102-a.mp4", list.Videos[0].VideoURL)

	resp, body = s.do(http.MethodGet, "/api/v1/players/592450/videos/0", "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Contains(string(body), `"hr_number":"3"`)

	resp, body = s.do(http.MethodGet, "/api/v1/players/592450/videos/0/analysis", "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Contains(string(body), `"points":[{"label":"Exit Velocity","content":"110 mph is elite"}]`)

	resp, body = s.do(http.MethodGet, "/api/v1/players/592450/videos/x", "")
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("INVALID_INDEX", s.errorCode(body))
}

func (s *RouterTestSuite) TestMetricsEndpoint() {
	s.do(http.MethodGet, "/health", "")

	resp, body := s.do(http.MethodGet, "/metrics", "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Contains(string(body), "homerlab_http_requests_total")
	s.Contains(string(body), `route="/health`)
}

func (s *RouterTestSuite) TestRateLimit() {
	cfg := *s.cfg
	cfg.RateLimitEnabled = true
	cfg.RateLimitRequests = 2
	cfg.RateLimitWindow = time.Hour
	s.server = s.newServer(&cfg)

	resp, _ := s.do(http.MethodGet, "/health", "")
	s.Equal(http.StatusOK, resp.StatusCode)
	resp, body := s.do(http.MethodGet, "/health", "")
	s.Equal(http.StatusTooManyRequests, resp.StatusCode)
	s.Equal("RATE_LIMITED", s.errorCode(body))
	s.Equal("60", resp.Header.Get("Retry-After"))
}
