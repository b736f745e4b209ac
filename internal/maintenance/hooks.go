package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/albapepper/homerlab/internal/resolver"
)

// Warmer is the subset of the resolver used to pre-populate caches.
type Warmer interface {
	Favorites(ctx context.Context) ([]resolver.Favorite, error)
	ResolvePlayer(ctx context.Context, playerID string) (*resolver.Player, error)
}

// WarmFavorites resolves every favorite's player profile so the first page
// views after a seed or deploy are cache hits. Individual failures are
// logged and skipped; the returned count is the number warmed.
// Call this after seeding favorites or at API start.
func WarmFavorites(ctx context.Context, w Warmer, logger *slog.Logger) (int, error) {
	start := time.Now()
	favs, err := w.Favorites(ctx)
	if err != nil {
		return 0, fmt.Errorf("list favorites: %w", err)
	}

	warmed := 0
	for _, f := range favs {
		if ctx.Err() != nil {
			return warmed, ctx.Err()
		}
		if _, err := w.ResolvePlayer(ctx, f.ID); err != nil {
			logger.Warn("Failed to warm favorite", "player_id", f.ID, "name", f.Name, "error", err)
			continue
		}
		warmed++
	}
	logger.Info("Warmed favorite profiles",
		"warmed", warmed, "total", len(favs),
		"duration", time.Since(start).Round(time.Millisecond))
	return warmed, nil
}
