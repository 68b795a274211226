package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/auth"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/services"
	"github.com/desertthunder/setlist/internal/shared"
)

// SearchAPI is the slice of the provider facade used for single searches.
type SearchAPI interface {
	SearchTracks(ctx context.Context, token, track, artist string, limit int) ([]models.Track, error)
}

// Setlister is the engine contract the playlist handler depends on.
type Setlister interface {
	SearchAll(ctx context.Context, token string, queries []models.TrackQuery) (*models.SearchResult, error)
	CreateSetlist(ctx context.Context, token string, draft models.PlaylistDraft) (*models.Playlist, error)
}

// PlaylistHandler serves track search and playlist assembly endpoints. Every
// operation obtains its access token through the lifecycle manager first.
type PlaylistHandler struct {
	manager *auth.Manager
	api     SearchAPI
	engine  Setlister
	logger  *log.Logger
}

// NewPlaylistHandler creates a PlaylistHandler.
func NewPlaylistHandler(manager *auth.Manager, api SearchAPI, engine Setlister, logger *log.Logger) *PlaylistHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PlaylistHandler{
		manager: manager,
		api:     api,
		engine:  engine,
		logger:  logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *PlaylistHandler) Routes() []string {
	return []string{
		"GET /playlist/search",
		"POST /playlist/search/multiple",
		"POST /playlist/{$}",
	}
}

func (h *PlaylistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/playlist/search":
		h.search(w, r)
	case "/playlist/search/multiple":
		h.searchMultiple(w, r)
	case "/playlist/":
		h.create(w, r)
	default:
		http.NotFound(w, r)
	}
}

// search returns up to five best-match tracks for a track name and optional
// artist.
func (h *PlaylistHandler) search(w http.ResponseWriter, r *http.Request) {
	track := r.URL.Query().Get("track")
	artist := r.URL.Query().Get("artist")

	if track == "" {
		respondError(w, h.logger, fmt.Errorf("%w: track query parameter is required", shared.ErrInvalidInput))
		return
	}

	token, err := h.manager.AccessToken(w, r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	tracks, err := h.api.SearchTracks(r.Context(), token, track, artist, services.SearchLimitMax)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, tracks)
}

// searchMultiple resolves an ordered list of queries concurrently and
// partitions the results into found and not-found.
func (h *PlaylistHandler) searchMultiple(w http.ResponseWriter, r *http.Request) {
	var queries []models.TrackQuery
	if err := json.NewDecoder(r.Body).Decode(&queries); err != nil {
		respondError(w, h.logger, fmt.Errorf("%w: malformed request body: %v", shared.ErrInvalidInput, err))
		return
	}

	token, err := h.manager.AccessToken(w, r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	result, err := h.engine.SearchAll(r.Context(), token, queries)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

type createPlaylistRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Public      *bool    `json:"public"`
	TrackURIs   []string `json:"track_uris"`
}

// create assembles a new playlist under the authenticated user's account.
func (h *PlaylistHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, fmt.Errorf("%w: malformed request body: %v", shared.ErrInvalidInput, err))
		return
	}

	if req.Name == "" {
		respondError(w, h.logger, fmt.Errorf("%w: playlist name must not be empty", shared.ErrInvalidInput))
		return
	}

	public := true
	if req.Public != nil {
		public = *req.Public
	}

	token, err := h.manager.AccessToken(w, r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	draft := models.PlaylistDraft{
		Name:        req.Name,
		Description: req.Description,
		Public:      public,
		TrackURIs:   req.TrackURIs,
	}

	playlist, err := h.engine.CreateSetlist(r.Context(), token, draft)
	if err != nil {
		// A non-nil playlist means a partial result: the shell exists and some
		// chunks were applied before the failure.
		if playlist != nil {
			h.logger.Error("partial playlist assembly", "id", playlist.ID, "added", playlist.TrackCount, "error", err)
		}
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, playlist)
}
