package seed

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/albapepper/homerlab/internal/resolver"
)

// FavoriteStore is the subset of the resolver the seeders drive.
type FavoriteStore interface {
	AddFavorite(ctx context.Context, name string) (*resolver.Favorite, bool, error)
	Favorites(ctx context.Context) ([]resolver.Favorite, error)
	RefreshFavorite(ctx context.Context, playerID string) (*resolver.Favorite, error)
}

// SeedFavorites adds each name as a favorite with up to workers concurrent
// lookups. Blank names are skipped. Failures are collected, not returned.
func SeedFavorites(ctx context.Context, fs FavoriteStore, names []string, workers int, logger *slog.Logger) Result {
	var (
		mu     sync.Mutex
		result Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		g.Go(func() error {
			fav, created, err := fs.AddFavorite(gctx, name)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.AddErrorf("add %q: %v", name, err)
			case created:
				result.Added++
				logger.Info("Favorite seeded", "name", fav.Name, "player_id", fav.ID, "team", fav.Team)
			default:
				result.Existing++
			}
			return nil
		})
	}
	_ = g.Wait()
	return result
}

// RefreshFavorites re-resolves team, position and number for every favorite.
// Votes are left alone.
func RefreshFavorites(ctx context.Context, fs FavoriteStore, logger *slog.Logger) Result {
	var result Result

	favs, err := fs.Favorites(ctx)
	if err != nil {
		result.AddErrorf("list favorites: %v", err)
		return result
	}
	for i, f := range favs {
		if ctx.Err() != nil {
			result.AddErrorf("refresh aborted: %v", ctx.Err())
			break
		}
		if _, err := fs.RefreshFavorite(ctx, f.ID); err != nil {
			result.AddErrorf("refresh %s (%s): %v", f.ID, f.Name, err)
			continue
		}
		result.Refreshed++
		if (i+1)%25 == 0 {
			logger.Info("Favorite refresh progress", "processed", i+1, "total", len(favs))
		}
	}
	return result
}

// SyncFavorites seeds names, then refreshes every favorite so records added
// earlier pick up trades. The returned Result covers both passes.
func SyncFavorites(ctx context.Context, fs FavoriteStore, names []string, workers int, logger *slog.Logger) Result {
	result := SeedFavorites(ctx, fs, names, workers, logger)
	result.Add(RefreshFavorites(ctx, fs, logger))
	return result
}
