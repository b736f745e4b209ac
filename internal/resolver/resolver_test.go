package resolver

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/albapepper/homerlab/internal/config"
	"github.com/albapepper/homerlab/internal/dataset"
	"github.com/albapepper/homerlab/internal/docstore"
	"github.com/albapepper/homerlab/internal/provider/mlb"
	"github.com/albapepper/homerlab/internal/resolver/mocks"
)

const (
	judgeID = "592450"
	season  = 2025
)

var testSources = []config.DatasetSource{
	{Label: "2017", URL: "mem://2017"},
	{Label: "2024", URL: "mem://2024"},
}

var judgeRows2017 = []dataset.Row{
	{Title: "Aaron Judge homers (52) on a fly ball to left field", VideoURL: "https://clips.example/530456-a.mp4",
		ExitVelocity: "111.3", HitDistance: "436", LaunchAngle: "27", Source: "2017"},
}

var judgeRows2024 = []dataset.Row{
	{Title: "Aaron Judge hits home run (3) on a line drive", VideoURL: "https://clips.example/746102-b.mp4",
		ExitVelocity: "104.2", HitDistance: "nan", LaunchAngle: "24", Source: "2024"},
	{Title: "Mike Trout homers (10) on a fly ball", VideoURL: "https://clips.example/746103-c.mp4",
		ExitVelocity: "101", HitDistance: "401", LaunchAngle: "30", Source: "2024"},
}

type ResolverTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	stats *mocks.MockStatsSource
	ai    *mocks.MockGenerator
	data  *mocks.MockDataset

	store    *docstore.Memory
	snapshot *dataset.Snapshot
	now      time.Time
	resolver *Resolver
	ctx      context.Context
}

func (s *ResolverTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.stats = mocks.NewMockStatsSource(s.ctrl)
	s.ai = mocks.NewMockGenerator(s.ctrl)
	s.data = mocks.NewMockDataset(s.ctrl)
	s.ctx = context.Background()

	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return s.now }
	s.store = docstore.NewMemory().WithClock(clock)

	s.snapshot = dataset.NewSnapshot(testSources, [][]dataset.Row{judgeRows2017, judgeRows2024})
	s.data.EXPECT().Snapshot().DoAndReturn(func() *dataset.Snapshot { return s.snapshot }).AnyTimes()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.resolver = New(s.store, s.stats, s.ai, s.data, nil, logger, Options{CurrentSeason: season, Now: clock})
}

func (s *ResolverTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestResolverTestSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}

func judge() *mlb.Person {
	return &mlb.Person{
		ID:              592450,
		FullName:        "Aaron Judge",
		PrimaryNumber:   "99",
		CurrentTeam:     &mlb.TeamRef{ID: 147, Name: "New York Yankees"},
		PrimaryPosition: &mlb.Position{Name: "Outfielder"},
		Raw:             json.RawMessage(`{"id":592450}`),
	}
}

func (s *ResolverTestSuite) putJSON(collection, key string, v any) {
	body, err := json.Marshal(v)
	s.Require().NoError(err)
	_, err = s.store.Put(s.ctx, collection, key, body)
	s.Require().NoError(err)
}

// seedPlayer caches Judge's profile so tests below the player layer make no
// player calls.
func (s *ResolverTestSuite) seedPlayer() {
	s.putJSON(config.PlayerCacheCollection, judgeID, Player{ID: judgeID, FullName: "Aaron Judge", Team: "New York Yankees", Position: "Outfielder"})
}

// ---------------------------------------------------------------------------
// Player resolution
// ---------------------------------------------------------------------------

func (s *ResolverTestSuite) TestResolvePlayer_SecondCallWithinTTLIsCached() {
	s.stats.EXPECT().Person(gomock.Any(), judgeID, 0).Return(judge(), nil).Times(1)
	s.stats.EXPECT().Person(gomock.Any(), judgeID, season).Return(judge(), nil).Times(1)

	first, err := s.resolver.ResolvePlayer(s.ctx, judgeID)
	s.Require().NoError(err)
	s.Equal("Aaron Judge", first.FullName)
	s.Equal("New York Yankees", first.Team)
	s.Equal("Outfielder", first.Position)
	s.Require().NotNil(first.PrimaryNumber)
	s.Equal("99", *first.PrimaryNumber)

	s.now = s.now.Add(23 * time.Hour)
	second, err := s.resolver.ResolvePlayer(s.ctx, judgeID)
	s.Require().NoError(err)
	s.Equal(first.FullName, second.FullName)
	s.Equal(first.Team, second.Team)
}

func (s *ResolverTestSuite) TestResolvePlayer_RefetchesAfterTTL() {
	s.stats.EXPECT().Person(gomock.Any(), judgeID, 0).Return(judge(), nil).Times(2)
	s.stats.EXPECT().Person(gomock.Any(), judgeID, season).Return(judge(), nil).Times(2)

	_, err := s.resolver.ResolvePlayer(s.ctx, judgeID)
	s.Require().NoError(err)

	s.now = s.now.Add(25 * time.Hour)
	_, err = s.resolver.ResolvePlayer(s.ctx, judgeID)
	s.Require().NoError(err)
}

func (s *ResolverTestSuite) TestResolvePlayer_InvalidIDsMakeNoCalls() {
	for _, id := range []string{"", "1", "  "} {
		_, err := s.resolver.ResolvePlayer(s.ctx, id)
		s.ErrorIs(err, ErrNotFound, "id %q", id)
	}
	n, _ := s.store.Count(s.ctx, config.PlayerCacheCollection)
	s.Zero(n)
}

func (s *ResolverTestSuite) TestResolvePlayer_NotFoundIsNotCached() {
	s.stats.EXPECT().Person(gomock.Any(), "999", 0).Return(nil, mlb.ErrNotFound).Times(2)

	for i := 0; i < 2; i++ {
		_, err := s.resolver.ResolvePlayer(s.ctx, "999")
		s.ErrorIs(err, ErrNotFound)
	}
}

func (s *ResolverTestSuite) TestResolvePlayer_UpstreamFailurePropagates() {
	s.stats.EXPECT().Person(gomock.Any(), judgeID, 0).Return(nil, &mlb.StatusError{Path: "/people", Status: 503})

	_, err := s.resolver.ResolvePlayer(s.ctx, judgeID)
	s.ErrorIs(err, ErrUpstream)
	var se *mlb.StatusError
	s.True(errors.As(err, &se))
}

func (s *ResolverTestSuite) TestResolvePlayer_FavoriteTeamWins() {
	s.putJSON(config.FavoritesCollection, judgeID, Favorite{ID: judgeID, Name: "Aaron Judge", Team: "Favorite Team"})
	s.stats.EXPECT().Person(gomock.Any(), judgeID, 0).Return(judge(), nil)

	p, err := s.resolver.ResolvePlayer(s.ctx, judgeID)
	s.Require().NoError(err)
	s.Equal("Favorite Team", p.Team)
}

func (s *ResolverTestSuite) TestResolvePlayer_RosterScanThenCurrentTeamThenNA() {
	noTeam := judge()
	noTeam.CurrentTeam = nil
	noTeam.PrimaryPosition = nil

	s.stats.EXPECT().Person(gomock.Any(), judgeID, 0).Return(noTeam, nil)
	s.stats.EXPECT().Person(gomock.Any(), judgeID, season).Return(noTeam, nil)
	s.stats.EXPECT().TeamRoster(gomock.Any(), gomock.Any(), season).Return(nil, nil).Times(len(TeamIDs))

	p, err := s.resolver.ResolvePlayer(s.ctx, judgeID)
	s.Require().NoError(err)
	s.Equal(NotAvailable, p.Team)
	s.Equal(NotAvailable, p.Position)
}

func (s *ResolverTestSuite) TestResolveRoster_ScansRostersAndCaches() {
	noTeam := judge()
	noTeam.CurrentTeam = nil
	onYankees := []mlb.RosterEntry{{}}
	onYankees[0].Person.ID = 592450

	s.stats.EXPECT().Person(gomock.Any(), judgeID, season).Return(noTeam, nil).Times(1)
	s.stats.EXPECT().TeamRoster(gomock.Any(), gomock.Any(), season).DoAndReturn(
		func(_ context.Context, teamID, _ int) ([]mlb.RosterEntry, error) {
			switch teamID {
			case 110:
				return nil, errors.New("timeout")
			case 147:
				return onYankees, nil
			}
			return nil, nil
		}).Times(len(TeamIDs))
	s.stats.EXPECT().Team(gomock.Any(), 147).Return(&mlb.Team{ID: 147, Name: "New York Yankees"}, nil).Times(1)

	r, err := s.resolver.ResolveRoster(s.ctx, judgeID, season)
	s.Require().NoError(err)
	s.Equal("New York Yankees", r.TeamName)
	s.Equal(147, r.TeamID)

	s.now = s.now.Add(11 * time.Hour)
	again, err := s.resolver.ResolveRoster(s.ctx, judgeID, season)
	s.Require().NoError(err)
	s.Equal(*r, *again)
}

// ---------------------------------------------------------------------------
// Cache failures
// ---------------------------------------------------------------------------

type failingStore struct {
	*docstore.Memory
	failGet, failPut bool
}

func (f *failingStore) Get(ctx context.Context, c, k string) (*docstore.Document, error) {
	if f.failGet {
		return nil, errors.New("store offline")
	}
	return f.Memory.Get(ctx, c, k)
}

func (f *failingStore) Put(ctx context.Context, c, k string, b []byte) (time.Time, error) {
	if f.failPut {
		return time.Time{}, errors.New("store read-only")
	}
	return f.Memory.Put(ctx, c, k, b)
}

func (s *ResolverTestSuite) TestWriteFailureStillReturnsValue() {
	store := &failingStore{Memory: s.store, failPut: true}
	s.resolver.store = store
	s.stats.EXPECT().Person(gomock.Any(), judgeID, 0).Return(judge(), nil).Times(2)
	s.stats.EXPECT().Person(gomock.Any(), judgeID, season).Return(judge(), nil).Times(2)

	for i := 0; i < 2; i++ {
		p, err := s.resolver.ResolvePlayer(s.ctx, judgeID)
		s.Require().NoError(err)
		s.Equal("Aaron Judge", p.FullName)
	}
}

func (s *ResolverTestSuite) TestReadFailureIsAMiss() {
	s.seedPlayer()
	s.resolver.store = &failingStore{Memory: s.store, failGet: true}
	s.stats.EXPECT().Person(gomock.Any(), judgeID, 0).Return(judge(), nil)
	s.stats.EXPECT().Person(gomock.Any(), judgeID, season).Return(judge(), nil)

	p, err := s.resolver.ResolvePlayer(s.ctx, judgeID)
	s.Require().NoError(err)
	s.Equal("Aaron Judge", p.FullName)
}

// ---------------------------------------------------------------------------
// Search
// ---------------------------------------------------------------------------

func (s *ResolverTestSuite) TestSearchPlayers_SuffixAndThreshold() {
	s.stats.EXPECT().Players(gomock.Any(), 0).Return([]mlb.Person{
		{ID: 1, FullName: "Jon Smyth"},
		{ID: 2, FullName: "John Smith"},
		{ID: 3, FullName: "Zack Wheeler"},
	}, nil)

	m, err := s.resolver.SearchPlayers(s.ctx, "John Smith Jr")
	s.Require().NoError(err)
	s.Equal(2, m.Person.ID)
	s.GreaterOrEqual(m.Score, 70)
}

func (s *ResolverTestSuite) TestSearchPlayers_StripsCandidateSuffix() {
	s.stats.EXPECT().Players(gomock.Any(), 0).Return([]mlb.Person{
		{ID: 7, FullName: "Vladimir Guerrero Jr."},
	}, nil)

	m, err := s.resolver.SearchPlayers(s.ctx, "vladimir guerrero")
	s.Require().NoError(err)
	s.Equal(100, m.Score)
}

func (s *ResolverTestSuite) TestSearchPlayers_TiesGoToFirst() {
	s.stats.EXPECT().Players(gomock.Any(), 0).Return([]mlb.Person{
		{ID: 10, FullName: "Will Smith"},
		{ID: 11, FullName: "Will Smith"},
	}, nil)

	m, err := s.resolver.SearchPlayers(s.ctx, "Will Smith")
	s.Require().NoError(err)
	s.Equal(10, m.Person.ID)
}

func (s *ResolverTestSuite) TestSearchPlayers_NoMatch() {
	s.stats.EXPECT().Players(gomock.Any(), 0).Return([]mlb.Person{{ID: 1, FullName: "Shohei Ohtani"}}, nil)

	_, err := s.resolver.SearchPlayers(s.ctx, "Babe Ruth")
	s.ErrorIs(err, ErrNotFound)

	_, err = s.resolver.SearchPlayers(s.ctx, "   ")
	s.ErrorIs(err, ErrInvalidArgument)
}

// ---------------------------------------------------------------------------
// Videos
// ---------------------------------------------------------------------------

func (s *ResolverTestSuite) TestVideo_DerivesAndCaches() {
	s.seedPlayer()

	v, err := s.resolver.Video(s.ctx, judgeID, 1)
	s.Require().NoError(err)
	s.Equal(2, v.Total)
	hr := v.HomeRun
	s.Equal("Aaron Judge hits home run (3) on a line drive", hr.Title)
	s.Require().NotNil(hr.HRNumber)
	s.Equal("3", *hr.HRNumber)
	s.Equal("2024", hr.SeasonYear)
	s.False(hr.IsInsidePark)
	s.Require().NotNil(hr.ExitVelocity)
	s.Equal(104.2, *hr.ExitVelocity)
	s.Nil(hr.HitDistance)

	// Derived fields come from the cache on later hits.
	s.putJSON(config.VideoCacheCollection, judgeID+"_1", HomeRun{Index: 1, Title: hr.Title, SeasonYear: "cached"})
	again, err := s.resolver.Video(s.ctx, judgeID, 1)
	s.Require().NoError(err)
	s.Equal("cached", again.HomeRun.SeasonYear)
}

func (s *ResolverTestSuite) TestVideo_StaleTitleIsRederived() {
	s.seedPlayer()
	s.putJSON(config.VideoCacheCollection, judgeID+"_0", HomeRun{Index: 0, Title: "someone else's homer", SeasonYear: "1999"})

	v, err := s.resolver.Video(s.ctx, judgeID, 0)
	s.Require().NoError(err)
	s.Equal(judgeRows2017[0].Title, v.HomeRun.Title)
	s.Equal("2017", v.HomeRun.SeasonYear)
}

func (s *ResolverTestSuite) TestVideo_PastEndReloadsOnceThenNotFound() {
	s.seedPlayer()
	s.data.EXPECT().Reload(gomock.Any()).Return(s.snapshot, nil).Times(1)

	_, err := s.resolver.Video(s.ctx, judgeID, 5)
	s.ErrorIs(err, ErrNotFound)
}

func (s *ResolverTestSuite) TestVideo_PastEndReloadsAtMostOncePerCooldown() {
	s.seedPlayer()
	s.data.EXPECT().Reload(gomock.Any()).Return(nil, errors.New("source down")).Times(1)

	for i := 0; i < 3; i++ {
		_, err := s.resolver.Video(s.ctx, judgeID, 7)
		s.ErrorIs(err, ErrNotFound)
	}

	s.now = s.now.Add(ReloadCooldown)
	s.seedPlayer()
	s.data.EXPECT().Reload(gomock.Any()).Return(s.snapshot, nil).Times(1)
	_, err := s.resolver.Video(s.ctx, judgeID, 7)
	s.ErrorIs(err, ErrNotFound)
}

func (s *ResolverTestSuite) TestVideo_PastEndFindsRowsAfterReload() {
	s.seedPlayer()
	extra := dataset.Row{Title: "Aaron Judge homers (4) on a fly ball", VideoURL: "https://clips.example/746200-d.mp4"}
	reloaded := dataset.NewSnapshot(testSources, [][]dataset.Row{judgeRows2017, append(append([]dataset.Row{}, judgeRows2024...), extra)})
	s.data.EXPECT().Reload(gomock.Any()).DoAndReturn(func(context.Context) (*dataset.Snapshot, error) {
		s.snapshot = reloaded
		return reloaded, nil
	})

	v, err := s.resolver.Video(s.ctx, judgeID, 2)
	s.Require().NoError(err)
	s.Equal(extra.Title, v.HomeRun.Title)
	s.Equal(3, v.Total)
}

func (s *ResolverTestSuite) TestVideo_FailedReloadStillNotFound() {
	s.seedPlayer()
	s.data.EXPECT().Reload(gomock.Any()).Return(nil, errors.New("gcs down"))

	_, err := s.resolver.Video(s.ctx, judgeID, 9)
	s.ErrorIs(err, ErrNotFound)
}

func (s *ResolverTestSuite) TestHomeRuns_StableAcrossReload() {
	before := s.resolver.HomeRuns(s.ctx, "Aaron Judge")
	s.snapshot = dataset.NewSnapshot(testSources, [][]dataset.Row{judgeRows2017, judgeRows2024})
	after := s.resolver.HomeRuns(s.ctx, "Aaron Judge")
	s.Equal(before, after)
	s.Len(after, 2)
}

// ---------------------------------------------------------------------------
// Analysis
// ---------------------------------------------------------------------------

func (s *ResolverTestSuite) expectGame(gameID string) {
	runs, inning, outs, balls, strikes := 5, 7, 2, 3, 1
	box := &mlb.Boxscore{}
	box.Teams.Home.Team.Name = "New York Yankees"
	box.Teams.Home.TeamStats.Batting.Runs = &runs
	box.Teams.Away.Team.Name = "Boston Red Sox"
	line := &mlb.Linescore{CurrentInning: &inning, InningState: "Bottom", Outs: &outs, Balls: &balls, Strikes: &strikes}
	line.Offense.First = json.RawMessage(`{"id":1}`)

	s.stats.EXPECT().Boxscore(gomock.Any(), gameID).Return(box, nil)
	s.stats.EXPECT().Linescore(gomock.Any(), gameID).Return(line, nil)
}

func (s *ResolverTestSuite) TestAnalysis_GeneratesWithGameContextAndCaches() {
	s.seedPlayer()
	s.expectGame("746102")
	s.ai.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, prompt string) (string, error) {
		s.Contains(prompt, "Batter: Aaron Judge")
		s.Contains(prompt, "Exit Velocity: 104.2 mph")
		s.Contains(prompt, "Hit Distance: N/A feet")
		s.Contains(prompt, "Boston Red Sox (N/A) at New York Yankees (5)")
		s.Contains(prompt, "Inning: bottom of the 7")
		s.Contains(prompt, "Count: 3-1")
		s.Contains(prompt, "Runners on: first")
		return "**Exit Velocity:** elite\nLaunch Angle: ideal", nil
	}).Times(1)

	a, err := s.resolver.Analysis(s.ctx, judgeID, 1)
	s.Require().NoError(err)
	s.False(a.Failed)
	s.Equal(104.2, a.Metrics.ExitVelocity)
	s.Zero(a.Metrics.EstimatedDistance)
	s.Equal(24.0, a.Metrics.LaunchAngle)
	s.Equal([]Point{{Label: "Exit Velocity", Content: "elite"}, {Label: "Launch Angle", Content: "ideal"}}, a.Points())

	s.now = s.now.Add(365 * 24 * time.Hour)
	s.seedPlayer()
	again, err := s.resolver.Analysis(s.ctx, judgeID, 1)
	s.Require().NoError(err)
	s.Equal(a.Text, again.Text)
}

func (s *ResolverTestSuite) TestAnalysis_FailureIsPlaceholderRetriedLater() {
	s.seedPlayer()
	s.stats.EXPECT().Boxscore(gomock.Any(), "530456").Return(nil, errors.New("down")).Times(2)
	s.stats.EXPECT().Linescore(gomock.Any(), "530456").Return(nil, errors.New("down")).Times(2)
	gomock.InOrder(
		s.ai.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, prompt string) (string, error) {
			s.Contains(prompt, "Unknown Team (N/A) at Unknown Team (N/A)")
			s.Contains(prompt, "Runners on: unknown")
			return "", errors.New("quota exceeded")
		}),
		s.ai.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("Exit Velocity: strong", nil),
	)

	a, err := s.resolver.Analysis(s.ctx, judgeID, 0)
	s.Require().NoError(err)
	s.True(a.Failed)
	s.Equal(AnalysisErrorText, a.Text)
	s.Equal(AnalysisMetrics{}, a.Metrics)

	s.now = s.now.Add(5 * time.Minute)
	cached, err := s.resolver.Analysis(s.ctx, judgeID, 0)
	s.Require().NoError(err)
	s.True(cached.Failed)

	s.now = s.now.Add(FailedAnalysisTTL)
	fresh, err := s.resolver.Analysis(s.ctx, judgeID, 0)
	s.Require().NoError(err)
	s.False(fresh.Failed)
	s.Equal("Exit Velocity: strong", fresh.Text)
}

func (s *ResolverTestSuite) TestAnalysis_ConcurrentMissesBothSucceed() {
	s.seedPlayer()
	s.stats.EXPECT().Boxscore(gomock.Any(), gomock.Any()).Return(nil, mlb.ErrNotFound).AnyTimes()
	s.stats.EXPECT().Linescore(gomock.Any(), gomock.Any()).Return(nil, mlb.ErrNotFound).AnyTimes()

	var entered sync.WaitGroup
	entered.Add(2)
	var calls atomic.Int32
	s.ai.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, string) (string, error) {
		n := calls.Add(1)
		entered.Done()
		entered.Wait()
		if n == 1 {
			return "analysis A", nil
		}
		return "analysis B", nil
	}).Times(2)

	var wg sync.WaitGroup
	results := make([]*Analysis, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = s.resolver.Analysis(s.ctx, judgeID, 1)
		}()
	}
	wg.Wait()

	s.Require().NoError(errs[0])
	s.Require().NoError(errs[1])
	s.NotEqual(results[0].Text, results[1].Text)
	doc, err := s.store.Get(s.ctx, config.AnalysisCacheCollection, judgeID+"_1")
	s.Require().NoError(err)
	var stored Analysis
	s.Require().NoError(json.Unmarshal(doc.Body, &stored))
	s.Contains([]string{"analysis A", "analysis B"}, stored.Text)
}

// ---------------------------------------------------------------------------
// Favorites and votes
// ---------------------------------------------------------------------------

func (s *ResolverTestSuite) TestVote_IncrementsAndRejectsUnknown() {
	s.putJSON(config.FavoritesCollection, judgeID, Favorite{ID: judgeID, Name: "Aaron Judge", Votes: 5})

	n, err := s.resolver.Vote(s.ctx, judgeID)
	s.Require().NoError(err)
	s.Equal(int64(6), n)

	_, err = s.resolver.Vote(s.ctx, "424242")
	s.ErrorIs(err, ErrNotFound)
}

func (s *ResolverTestSuite) TestFavorites_SortedByVotesThenName() {
	s.putJSON(config.FavoritesCollection, "1", Favorite{ID: "1", Name: "Zed", Votes: 3})
	s.putJSON(config.FavoritesCollection, "2", Favorite{ID: "2", Name: "Amy", Votes: 3})
	s.putJSON(config.FavoritesCollection, "3", Favorite{ID: "3", Name: "Bob", Votes: 9})
	_, err := s.store.Put(s.ctx, config.FavoritesCollection, "4", []byte(`{"name":"NoID","votes":1}`))
	s.Require().NoError(err)

	favs, err := s.resolver.Favorites(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(favs, 4)
	s.Equal([]string{"Bob", "Amy", "Zed", "NoID"}, []string{favs[0].Name, favs[1].Name, favs[2].Name, favs[3].Name})
	s.Equal("4", favs[3].ID)
}

func (s *ResolverTestSuite) TestAddFavorite_CreatesOnceWithZeroVotes() {
	s.stats.EXPECT().Players(gomock.Any(), 0).Return([]mlb.Person{*judge()}, nil).Times(2)
	s.stats.EXPECT().Person(gomock.Any(), judgeID, season).Return(judge(), nil).Times(1)

	fav, created, err := s.resolver.AddFavorite(s.ctx, "aaron judge")
	s.Require().NoError(err)
	s.True(created)
	s.Equal(Favorite{ID: judgeID, Name: "Aaron Judge", Team: "New York Yankees", Position: "Outfielder", PrimaryNumber: "99"}, *fav)

	_, err = s.resolver.Vote(s.ctx, judgeID)
	s.Require().NoError(err)

	again, created, err := s.resolver.AddFavorite(s.ctx, "Aaron Judge")
	s.Require().NoError(err)
	s.False(created)
	s.Equal(int64(1), again.Votes)
}

func (s *ResolverTestSuite) TestRefreshFavorite_KeepsVotes() {
	s.putJSON(config.FavoritesCollection, judgeID, Favorite{ID: judgeID, Name: "Aaron Judge", Team: "Old Team", Votes: 12})
	s.seedPlayer()
	traded := judge()
	traded.CurrentTeam = &mlb.TeamRef{ID: 111, Name: "Boston Red Sox"}
	s.stats.EXPECT().Person(gomock.Any(), judgeID, 0).Return(traded, nil)
	s.stats.EXPECT().Person(gomock.Any(), judgeID, season).Return(traded, nil)

	fav, err := s.resolver.RefreshFavorite(s.ctx, judgeID)
	s.Require().NoError(err)
	s.Equal("Boston Red Sox", fav.Team)
	s.Equal(int64(12), fav.Votes)

	_, err = s.store.Get(s.ctx, config.PlayerCacheCollection, judgeID)
	s.ErrorIs(err, docstore.ErrNotFound)

	_, err = s.resolver.RefreshFavorite(s.ctx, "777")
	s.ErrorIs(err, ErrNotFound)
}

// ---------------------------------------------------------------------------
// Career stats and maintenance
// ---------------------------------------------------------------------------

func (s *ResolverTestSuite) TestCareerStats_GroupsAndCaches() {
	p := judge()
	p.Stats = []mlb.StatGroup{
		{Splits: []mlb.StatSplit{{Stat: json.RawMessage(`{"homeRuns":315}`)}}},
		{Splits: []mlb.StatSplit{{Season: "2023"}, {Season: "2024"}}},
		{Splits: []mlb.StatSplit{{Stat: json.RawMessage(`{"assists":40}`)}}},
	}
	p.Stats[0].Group.DisplayName, p.Stats[0].Type.DisplayName = "hitting", "career"
	p.Stats[1].Group.DisplayName, p.Stats[1].Type.DisplayName = "hitting", "yearByYear"
	p.Stats[2].Group.DisplayName, p.Stats[2].Type.DisplayName = "fielding", "career"
	s.stats.EXPECT().PersonStats(gomock.Any(), judgeID).Return(p, nil).Times(1)

	cs, err := s.resolver.CareerStats(s.ctx, judgeID)
	s.Require().NoError(err)
	s.JSONEq(`{"homeRuns":315}`, string(cs.Career["hitting"].Stat))
	s.Len(cs.Career["hitting"].Seasons, 2)
	s.JSONEq(`{"assists":40}`, string(cs.Career["fielding"].Stat))
	s.Empty(cs.Career["pitching"].Stat)
	s.Equal("New York Yankees", cs.Team)

	s.putJSON(config.FavoritesCollection, judgeID, Favorite{ID: judgeID, Team: "Fav Team", Position: "Designated Hitter"})
	s.now = s.now.Add(5 * time.Hour)
	cached, err := s.resolver.CareerStats(s.ctx, judgeID)
	s.Require().NoError(err)
	s.Equal("Fav Team", cached.Team)
	s.Equal("Designated Hitter", cached.Position)
}

func (s *ResolverTestSuite) TestPurgeFailedAnalyses() {
	s.putJSON(config.AnalysisCacheCollection, "a_0", Analysis{Failed: true})
	s.putJSON(config.AnalysisCacheCollection, "a_1", Analysis{Text: "fine"})
	s.now = s.now.Add(FailedAnalysisTTL + time.Minute)
	s.putJSON(config.AnalysisCacheCollection, "a_2", Analysis{Failed: true})

	n, err := s.resolver.PurgeFailedAnalyses(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, n)

	left, _ := s.store.Count(s.ctx, config.AnalysisCacheCollection)
	s.Equal(2, left)
}
