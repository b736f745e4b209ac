// Package listener provides a Postgres LISTEN/NOTIFY consumer that keeps the
// response cache coherent across API instances. It holds a dedicated pgx
// connection (not from the pool) listening on the `favorite_changed` channel.
//
// A trigger on the documents table fires pg_notify with the player id
// whenever a favorite_players document is inserted, voted on, refreshed or
// deleted. Each event drops the cached leaderboard and that player's cached
// responses.
package listener

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/albapepper/homerlab/internal/cache"
)

const (
	// Channel is the NOTIFY channel written by the favorite_changed trigger.
	Channel          = "favorite_changed"
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// Invalidator drops cached responses. *cache.Cache implements it.
type Invalidator interface {
	Delete(key string)
	DeletePlayer(playerID string) int
}

// Start opens a dedicated connection and listens on the favorite_changed
// channel. It reconnects automatically on connection loss. Blocks until ctx
// is cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, inv Invalidator, logger *slog.Logger) {
	logger = logger.With("component", "listener")
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, inv, logger, func() { backoff = reconnectBackoff })
		if ctx.Err() != nil {
			logger.Info("Favorites listener stopped (context cancelled)")
			return
		}

		logger.Error("Favorites listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, inv Invalidator, logger *slog.Logger, connected func()) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+Channel); err != nil {
		return fmt.Errorf("LISTEN %s: %w", Channel, err)
	}
	logger.Info("Favorites listener connected", "channel", Channel)
	connected()

	// Anything that changed while disconnected was missed.
	Invalidate(inv, "")

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		n := Invalidate(inv, notification.Payload)
		logger.Debug("Favorite change received",
			"player_id", notification.Payload, "invalidated", n)
	}
}

// Invalidate drops the leaderboard and, when playerID is set, every cached
// response for that player. Returns the number of player entries removed.
func Invalidate(inv Invalidator, playerID string) int {
	inv.Delete(cache.KeyFavorites)
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return 0
	}
	return inv.DeletePlayer(playerID)
}
