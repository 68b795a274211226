// package tasks implements search and playlist assembly operations on top of
// the provider facade.
//
// The core abstraction is SetlistEngine, which orchestrates batch track
// searches and two-step playlist creation using dependencies injected at
// construction.
package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
	"golang.org/x/time/rate"
)

// SpotifyClient defines the provider operations the engine depends on.
// This abstraction allows for easier testing and decoupling from the concrete
// facade implementation.
type SpotifyClient interface {
	CurrentUser(ctx context.Context, token string) (*models.UserProfile, error)
	SearchTracks(ctx context.Context, token, track, artist string, limit int) ([]models.Track, error)
	CreatePlaylist(ctx context.Context, token, userID string, draft models.PlaylistDraft) (*models.Playlist, error)
	AddTracks(ctx context.Context, token, playlistID string, uris []string) (int, error)
	Playlist(ctx context.Context, token, playlistID string) (*models.Playlist, error)
}

// TrackCacher is an optional read-through cache consulted before each
// provider search. A nil cacher disables caching.
type TrackCacher interface {
	Get(track, artist string) (*models.Track, error)
	Put(track, artist string, t models.Track) error
}

// PlaylistRecorder records created playlists. A nil recorder disables the log.
type PlaylistRecorder interface {
	Record(p models.Playlist) error
}

// SetlistEngineOpts contains configuration options for creating a [SetlistEngine].
type SetlistEngineOpts struct {
	NumWorkers int              // Concurrent search workers (default: 5, max: 10)
	RateLimit  float64          // Provider searches per second (default: 5)
	Cache      TrackCacher      // Optional search cache
	Recorder   PlaylistRecorder // Optional created-playlist log
	Logger     *log.Logger
}

// SetlistEngine orchestrates batch searches and playlist assembly.
type SetlistEngine struct {
	api      SpotifyClient
	cache    TrackCacher
	recorder PlaylistRecorder
	workers  int
	limiter  *rate.Limiter
	logger   *log.Logger
}

// NewSetlistEngine creates a SetlistEngine over the given provider client.
func NewSetlistEngine(api SpotifyClient, opts SetlistEngineOpts) *SetlistEngine {
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &SetlistEngine{
		api:      api,
		cache:    opts.Cache,
		recorder: opts.Recorder,
		workers:  opts.NumWorkers,
		limiter:  rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		logger:   opts.Logger,
	}
}

// CreateSetlist performs the two-step playlist creation: create the playlist
// shell under the authenticated user's account, then add tracks in chunked
// batches in input order.
//
// Chunked adds are best-effort overall: when a chunk fails, earlier chunks are
// not rolled back and the returned playlist carries the count of tracks that
// made it in, alongside the error describing the partial result.
func (e *SetlistEngine) CreateSetlist(ctx context.Context, token string, draft models.PlaylistDraft) (*models.Playlist, error) {
	if draft.Name == "" {
		return nil, fmt.Errorf("%w: playlist name must not be empty", shared.ErrInvalidInput)
	}

	user, err := e.api.CurrentUser(ctx, token)
	if err != nil {
		return nil, err
	}

	created, err := e.api.CreatePlaylist(ctx, token, user.ID, draft)
	if err != nil {
		return nil, err
	}

	e.logger.Info("playlist created", "id", created.ID, "name", created.Name)

	if len(draft.TrackURIs) > 0 {
		added, err := e.api.AddTracks(ctx, token, created.ID, draft.TrackURIs)
		if err != nil {
			created.TrackCount = added
			return created, fmt.Errorf("playlist %s created but only %d of %d tracks added: %w",
				created.ID, added, len(draft.TrackURIs), err)
		}
		created.TrackCount = added
	}

	// Re-fetch so track_count reflects the provider's final playlist size.
	if final, err := e.api.Playlist(ctx, token, created.ID); err == nil {
		created = final
	} else {
		e.logger.Warn("failed to fetch created playlist", "id", created.ID, "error", err)
	}

	if e.recorder != nil {
		if err := e.recorder.Record(*created); err != nil {
			e.logger.Warn("failed to record playlist", "id", created.ID, "error", err)
		}
	}

	return created, nil
}
