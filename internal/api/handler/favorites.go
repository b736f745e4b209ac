package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/albapepper/homerlab/internal/api/respond"
	"github.com/albapepper/homerlab/internal/cache"
)

// AddFavoriteRequest is the body of POST /favorites.
type AddFavoriteRequest struct {
	PlayerName string `json:"player_name"`
}

// ListFavorites returns the favorites leaderboard.
// Served from the response cache; the favorites listener invalidates it.
// @Summary List favorite players
// @Description Returns every favorite player, most votes first.
// @Tags favorites
// @Produce json
// @Success 200 {array} resolver.Favorite
// @Success 304 "Not modified"
// @Router /api/v1/favorites [get]
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, cache.KeyFavorites, cache.TTLFavorites, func() (any, error) {
		return h.resolver.Favorites(r.Context())
	})
}

// AddFavorite looks up a player by name and adds them to the favorites.
// @Summary Add a favorite player
// @Description Fuzzy-matches player_name against the league player list and creates a favorite with zero votes. An existing favorite is returned with 200.
// @Tags favorites
// @Accept json
// @Produce json
// @Param body body AddFavoriteRequest true "Player to add"
// @Success 201 {object} resolver.Favorite
// @Success 200 {object} resolver.Favorite
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /api/v1/favorites [post]
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var req AddFavoriteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be JSON", err.Error())
		return
	}
	if strings.TrimSpace(req.PlayerName) == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_PLAYER_NAME", "player_name is required")
		return
	}

	fav, created, err := h.resolver.AddFavorite(r.Context(), req.PlayerName)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
		h.cache.Delete(cache.KeyFavorites)
	}
	respond.WriteJSONObject(w, status, fav)
}

// Vote adds one vote to a favorite player.
// @Summary Vote for a favorite player
// @Description Atomically increments the favorite's vote count and returns the new total.
// @Tags favorites
// @Produce json
// @Param playerID path string true "MLB person id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/favorites/{playerID}/vote [post]
func (h *Handler) Vote(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")
	votes, err := h.resolver.Vote(r.Context(), playerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.cache.Delete(cache.KeyFavorites)
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"player_id": playerID,
		"votes":     votes,
	})
}
