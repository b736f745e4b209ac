package resolver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/albapepper/homerlab/internal/config"
	"github.com/albapepper/homerlab/internal/docstore"
	"github.com/albapepper/homerlab/internal/provider/mlb"
)

// votesField is owned by Vote; everything else only creates it at zero.
const votesField = "votes"

// Favorite is the favorite_players record.
type Favorite struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Team          string `json:"team"`
	Position      string `json:"position"`
	PrimaryNumber string `json:"primaryNumber"`
	Votes         int64  `json:"votes"`
}

// favoriteProfile is the subset of Favorite that RefreshFavorite may patch.
type favoriteProfile struct {
	Name          string `json:"name"`
	Team          string `json:"team"`
	Position      string `json:"position"`
	PrimaryNumber string `json:"primaryNumber"`
}

// Favorites lists every favorite, most votes first, then by name.
func (r *Resolver) Favorites(ctx context.Context) ([]Favorite, error) {
	docs, err := r.store.List(ctx, config.FavoritesCollection)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	favs := make([]Favorite, 0, len(docs))
	for _, d := range docs {
		var f Favorite
		if err := json.Unmarshal(d.Body, &f); err != nil {
			r.logger.Warn("Skipping undecodable favorite", "key", d.Key, "error", err)
			continue
		}
		if f.ID == "" {
			f.ID = d.Key
		}
		favs = append(favs, f)
	}
	sort.SliceStable(favs, func(i, j int) bool {
		if favs[i].Votes != favs[j].Votes {
			return favs[i].Votes > favs[j].Votes
		}
		return favs[i].Name < favs[j].Name
	})
	return favs, nil
}

// Vote adds one vote to a favorite and returns the new total.
func (r *Resolver) Vote(ctx context.Context, playerID string) (int64, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return 0, fmt.Errorf("vote: %w", ErrNotFound)
	}
	n, err := r.store.Increment(ctx, config.FavoritesCollection, playerID, votesField, 1)
	if errors.Is(err, docstore.ErrNotFound) {
		return 0, fmt.Errorf("favorite %s: %w", playerID, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("vote %s: %w", playerID, err)
	}
	return n, nil
}

// AddFavorite searches for name and creates its favorite record with zero
// votes. An existing record is returned untouched with created=false.
func (r *Resolver) AddFavorite(ctx context.Context, name string) (fav *Favorite, created bool, err error) {
	match, err := r.SearchPlayers(ctx, name)
	if err != nil {
		return nil, false, err
	}
	id := strconv.Itoa(match.Person.ID)

	if existing, err := r.favorite(ctx, id); err == nil {
		return existing, false, nil
	}

	fav = &Favorite{ID: id, Name: match.Person.FullName, Votes: 0}
	p, err := r.profileFor(ctx, id, &match.Person)
	if err != nil {
		r.logger.Warn("Roster lookup failed, adding favorite with person team", "player_id", id, "error", err)
	}
	fav.Team, fav.Position, fav.PrimaryNumber = p.Team, p.Position, p.PrimaryNumber

	body, err := json.Marshal(fav)
	if err != nil {
		return nil, false, fmt.Errorf("encode favorite %s: %w", id, err)
	}
	created, err = r.store.Create(ctx, config.FavoritesCollection, id, body)
	if err != nil {
		return nil, false, fmt.Errorf("create favorite %s: %w", id, err)
	}
	if !created {
		// Lost a race with another writer; theirs stands.
		existing, err := r.favorite(ctx, id)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	r.logger.Info("Favorite added", "player_id", id, "name", fav.Name, "team", fav.Team)
	return fav, true, nil
}

// RefreshFavorite re-resolves a favorite's profile fields. Votes are never
// part of the patch. An upstream failure leaves the record untouched.
func (r *Resolver) RefreshFavorite(ctx context.Context, playerID string) (*Favorite, error) {
	if _, err := r.favorite(ctx, playerID); err != nil {
		return nil, err
	}
	person, err := observe(r, "mlb", "person", func() (*mlb.Person, error) {
		return r.stats.Person(ctx, playerID, 0)
	})
	if err != nil {
		return nil, classify("player "+playerID, err)
	}

	// Drop cached roster and profile so the new team is picked up.
	r.invalidate(ctx, config.RosterCacheCollection, fmt.Sprintf("%s_%d", playerID, r.season))
	p, err := r.profileFor(ctx, playerID, person)
	if err != nil {
		return nil, fmt.Errorf("refresh favorite %s: %w", playerID, err)
	}

	patch, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode favorite %s: %w", playerID, err)
	}
	if err := r.store.Update(ctx, config.FavoritesCollection, playerID, patch); err != nil {
		return nil, classify("refresh favorite "+playerID, err)
	}
	r.invalidate(ctx, config.PlayerCacheCollection, playerID)
	return r.favorite(ctx, playerID)
}

// profileFor builds the profile fields from person and the roster lookup.
// On an upstream roster failure the returned profile carries the person's
// currentTeam and the error is returned alongside it.
func (r *Resolver) profileFor(ctx context.Context, playerID string, person *mlb.Person) (favoriteProfile, error) {
	p := favoriteProfile{
		Name:          person.FullName,
		Team:          currentTeam(person),
		Position:      positionName(person),
		PrimaryNumber: orDefault(person.PrimaryNumber, NotAvailable),
	}
	team, err := r.rosterTeam(ctx, playerID, person)
	if err != nil {
		return p, err
	}
	p.Team = team
	return p, nil
}

// favorite reads a favorite record directly; favorites never expire.
func (r *Resolver) favorite(ctx context.Context, playerID string) (*Favorite, error) {
	doc, err := r.store.Get(ctx, config.FavoritesCollection, playerID)
	if err != nil {
		return nil, classify("favorite "+playerID, err)
	}
	var f Favorite
	if err := json.Unmarshal(doc.Body, &f); err != nil {
		return nil, fmt.Errorf("decode favorite %s: %w", playerID, err)
	}
	if f.ID == "" {
		f.ID = playerID
	}
	return &f, nil
}
