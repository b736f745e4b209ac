package resolver

import (
	"context"
	"errors"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/albapepper/homerlab/internal/config"
	"github.com/albapepper/homerlab/internal/provider/mlb"
)

func (s *ResolverTestSuite) TestRefreshFavorite_UpstreamFailureKeepsTeam() {
	s.putJSON(config.FavoritesCollection, judgeID, Favorite{ID: judgeID, Name: "Aaron Judge", Team: "New York Yankees", Votes: 3})
	noTeam := judge()
	noTeam.CurrentTeam = nil

	s.stats.EXPECT().Person(gomock.Any(), judgeID, 0).Return(noTeam, nil)
	s.stats.EXPECT().Person(gomock.Any(), judgeID, season).Return(nil, errors.New("503 service unavailable"))
	s.stats.EXPECT().TeamRoster(gomock.Any(), gomock.Any(), season).
		Return(nil, errors.New("connection reset")).Times(len(TeamIDs))

	_, err := s.resolver.RefreshFavorite(s.ctx, judgeID)
	s.ErrorIs(err, ErrUpstream)

	fav, err := s.resolver.favorite(s.ctx, judgeID)
	s.Require().NoError(err)
	s.Equal("New York Yankees", fav.Team)
	s.Equal(int64(3), fav.Votes)

	_, err = s.store.Get(s.ctx, config.RosterCacheCollection, judgeID+"_2025")
	s.Error(err, "a failed scan must not be cached")
}

func (s *ResolverTestSuite) TestRefreshFavorite_NoRosterFallsBackToCurrentTeam() {
	s.putJSON(config.FavoritesCollection, judgeID, Favorite{ID: judgeID, Name: "Aaron Judge", Team: "Old Team", Votes: 7})
	seasonal := judge()
	seasonal.CurrentTeam = nil

	s.stats.EXPECT().Person(gomock.Any(), judgeID, 0).Return(judge(), nil)
	s.stats.EXPECT().Person(gomock.Any(), judgeID, season).Return(seasonal, nil)
	s.stats.EXPECT().TeamRoster(gomock.Any(), gomock.Any(), season).Return(nil, nil).Times(len(TeamIDs))

	fav, err := s.resolver.RefreshFavorite(s.ctx, judgeID)
	s.Require().NoError(err)
	s.Equal("New York Yankees", fav.Team)
	s.Equal(int64(7), fav.Votes)
}

func (s *ResolverTestSuite) TestResolveRoster_CompleteMissIsCached() {
	noTeam := judge()
	noTeam.CurrentTeam = nil
	s.stats.EXPECT().Person(gomock.Any(), judgeID, season).Return(noTeam, nil).Times(1)
	s.stats.EXPECT().TeamRoster(gomock.Any(), gomock.Any(), season).Return(nil, nil).Times(len(TeamIDs))

	_, err := s.resolver.ResolveRoster(s.ctx, judgeID, season)
	s.ErrorIs(err, ErrNotFound)

	s.now = s.now.Add(time.Hour)
	_, err = s.resolver.ResolveRoster(s.ctx, judgeID, season)
	s.ErrorIs(err, ErrNotFound)
}

func (s *ResolverTestSuite) TestResolveRoster_ScanErrorsAreUpstream() {
	noTeam := judge()
	noTeam.CurrentTeam = nil
	s.stats.EXPECT().Person(gomock.Any(), judgeID, season).Return(noTeam, nil).Times(2)
	s.stats.EXPECT().TeamRoster(gomock.Any(), gomock.Any(), season).DoAndReturn(
		func(_ context.Context, teamID, _ int) ([]mlb.RosterEntry, error) {
			if teamID == 121 {
				return nil, errors.New("timeout")
			}
			return nil, nil
		}).Times(2 * len(TeamIDs))

	_, err := s.resolver.ResolveRoster(s.ctx, judgeID, season)
	s.ErrorIs(err, ErrUpstream)

	_, err = s.resolver.ResolveRoster(s.ctx, judgeID, season)
	s.ErrorIs(err, ErrUpstream)
}
