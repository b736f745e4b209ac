package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/homerlab/internal/api/respond"
	"github.com/albapepper/homerlab/internal/cache"
	"github.com/albapepper/homerlab/internal/resolver"
)

// SearchResult is the best fuzzy match for a name query.
type SearchResult struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name"`
	Score    int    `json:"score"`
}

// VideoSummary is one entry of a player's home-run list.
type VideoSummary struct {
	Index    int    `json:"index"`
	Title    string `json:"title"`
	VideoURL string `json:"video_url"`
}

// VideoList is a player's home runs in dataset order.
type VideoList struct {
	Player *resolver.Player `json:"player"`
	Total  int              `json:"total"`
	Videos []VideoSummary   `json:"videos"`
}

// AnalysisResponse is an analysis record with its prose split for display.
type AnalysisResponse struct {
	*resolver.Analysis
	Points []resolver.Point `json:"points"`
}

// SearchPlayers finds the closest league player to a name.
// @Summary Search players by name
// @Description Fuzzy-matches the name against the league player list. Matches must score above 70.
// @Tags players
// @Produce json
// @Param name query string true "Player name"
// @Success 200 {object} SearchResult
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /api/v1/players/search [get]
func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_NAME", "name query parameter is required")
		return
	}
	m, err := h.resolver.SearchPlayers(r.Context(), name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, SearchResult{
		ID:       m.Person.ID,
		FullName: m.Person.FullName,
		Score:    m.Score,
	})
}

// GetPlayer returns a player's profile.
// @Summary Get player
// @Description Returns name, team, position and number. Cached for 24h in the document store.
// @Tags players
// @Produce json
// @Param playerID path string true "MLB person id"
// @Success 200 {object} resolver.Player
// @Failure 404 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /api/v1/players/{playerID} [get]
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")
	h.cached(w, r, cache.PlayerKey(playerID), cache.TTLPlayer, func() (any, error) {
		return h.resolver.ResolvePlayer(r.Context(), playerID)
	})
}

// GetPlayerStats returns career and year-by-year stats.
// @Summary Get career stats
// @Description Returns hitting, pitching and fielding career totals with season splits.
// @Tags players
// @Produce json
// @Param playerID path string true "MLB person id"
// @Success 200 {object} resolver.CareerStats
// @Failure 404 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /api/v1/players/{playerID}/stats [get]
func (h *Handler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")
	h.cached(w, r, cache.PlayerKey(playerID, "stats"), cache.TTLPlayer, func() (any, error) {
		return h.resolver.CareerStats(r.Context(), playerID)
	})
}

// ListVideos returns the player's home runs.
// @Summary List home-run videos
// @Description Returns the player's home runs from the loaded datasets in dataset order.
// @Tags videos
// @Produce json
// @Param playerID path string true "MLB person id"
// @Success 200 {object} VideoList
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/players/{playerID}/videos [get]
func (h *Handler) ListVideos(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")
	h.cached(w, r, cache.PlayerKey(playerID, "videos"), cache.TTLVideos, func() (any, error) {
		player, err := h.resolver.ResolvePlayer(r.Context(), playerID)
		if err != nil {
			return nil, err
		}
		rows := h.resolver.HomeRuns(r.Context(), player.FullName)
		list := &VideoList{Player: player, Total: len(rows), Videos: make([]VideoSummary, len(rows))}
		for i, row := range rows {
			list.Videos[i] = VideoSummary{Index: i, Title: row.Title, VideoURL: row.VideoURL}
		}
		return list, nil
	})
}

// GetVideo returns one home run with its derived fields.
// @Summary Get home-run video
// @Description Returns the index-th home run with hr_number, season_year and is_inside_park.
// @Tags videos
// @Produce json
// @Param playerID path string true "MLB person id"
// @Param index path int true "Zero-based position in the player's list"
// @Success 200 {object} resolver.VideoView
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/players/{playerID}/videos/{index} [get]
func (h *Handler) GetVideo(w http.ResponseWriter, r *http.Request) {
	index, ok := videoIndex(w, r)
	if !ok {
		return
	}
	v, err := h.resolver.Video(r.Context(), chi.URLParam(r, "playerID"), index)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, v)
}

// GetAnalysis returns the AI analysis of one home run.
// @Summary Get home-run analysis
// @Description Returns the generated analysis split into label/content points. A failed generation returns failed=true and is retried after 15 minutes.
// @Tags videos
// @Produce json
// @Param playerID path string true "MLB person id"
// @Param index path int true "Zero-based position in the player's list"
// @Success 200 {object} AnalysisResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /api/v1/players/{playerID}/videos/{index}/analysis [get]
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	index, ok := videoIndex(w, r)
	if !ok {
		return
	}
	a, err := h.resolver.Analysis(r.Context(), chi.URLParam(r, "playerID"), index)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, AnalysisResponse{Analysis: a, Points: a.Points()})
}

func videoIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_INDEX", "index must be a non-negative integer")
		return 0, false
	}
	return index, true
}
