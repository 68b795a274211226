// Spotify Web API facade
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

const (
	spotifyBaseURL = "https://api.spotify.com/v1"

	// DefaultTimeout bounds every outbound provider call.
	DefaultTimeout = 10 * time.Second

	// AddTracksChunkSize is the provider-imposed cap on items per add-call.
	AddTracksChunkSize = 100

	// SearchLimitMax is the most matches a single search returns.
	SearchLimitMax = 5
)

// UpstreamError carries the provider's reported status and message for
// failures that are neither auth rejections nor transport errors.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("spotify API error: status %d: %s", e.Status, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return shared.ErrUpstream
}

// SpotifyAPI wraps outbound calls to the Spotify Web API. Every method takes
// the access token supplied by the token lifecycle manager; the facade itself
// holds no credential state.
type SpotifyAPI struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// SpotifyAPIOpts contains configuration options for creating a [SpotifyAPI].
type SpotifyAPIOpts struct {
	BaseURL    string       // Defaults to the public Spotify Web API
	HTTPClient *http.Client // Defaults to a client with [DefaultTimeout]
	Logger     *log.Logger
}

// NewSpotifyAPI creates a facade over the Spotify Web API.
func NewSpotifyAPI(opts SpotifyAPIOpts) *SpotifyAPI {
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &SpotifyAPI{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
	}
}

type spotifyArtist struct {
	Name string `json:"name"`
}

type spotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []spotifyArtist `json:"artists"`
	URI     string          `json:"uri"`
}

type searchResponse struct {
	Tracks struct {
		Items []spotifyTrack `json:"items"`
	} `json:"tracks"`
}

type spotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type spotifyPlaylist struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
	Tracks struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

type spotifyErrorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// doRequest performs an authenticated HTTP request to the Spotify API and
// translates failures into the service error taxonomy: a provider 401 means
// the token was rejected despite passing the local expiry check, any other
// non-2xx status becomes an [UpstreamError], and transport failures become
// [shared.ErrUpstreamUnavailable].
func (s *SpotifyAPI) doRequest(ctx context.Context, token, method, endpoint string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: provider rejected access token", shared.ErrUnauthenticated)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := http.StatusText(resp.StatusCode)
		var errBody spotifyErrorBody
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil && errBody.Error.Message != "" {
			message = errBody.Error.Message
		}
		return &UpstreamError{Status: resp.StatusCode, Message: message}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// CurrentUser retrieves the authenticated user's profile.
func (s *SpotifyAPI) CurrentUser(ctx context.Context, token string) (*models.UserProfile, error) {
	var user spotifyUser
	if err := s.doRequest(ctx, token, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}

	return &models.UserProfile{ID: user.ID, DisplayName: user.DisplayName}, nil
}

// SearchTracks searches for up to limit best-match tracks by name and
// optional artist.
func (s *SpotifyAPI) SearchTracks(ctx context.Context, token, track, artist string, limit int) ([]models.Track, error) {
	if track == "" {
		return nil, fmt.Errorf("%w: track name must not be empty", shared.ErrInvalidInput)
	}
	if limit <= 0 || limit > SearchLimitMax {
		limit = SearchLimitMax
	}

	query := "track:" + track
	if artist != "" {
		query += " artist:" + artist
	}
	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=%d", url.QueryEscape(query), limit)

	var response searchResponse
	if err := s.doRequest(ctx, token, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(response.Tracks.Items))
	for _, item := range response.Tracks.Items {
		t := models.Track{ID: item.ID, Name: item.Name, URI: item.URI}
		if len(item.Artists) > 0 {
			t.Artist = item.Artists[0].Name
		}
		tracks = append(tracks, t)
	}

	return tracks, nil
}

// CreatePlaylist creates an empty playlist shell under the given user's
// account and returns it with a zero track count.
func (s *SpotifyAPI) CreatePlaylist(ctx context.Context, token, userID string, draft models.PlaylistDraft) (*models.Playlist, error) {
	body := map[string]any{
		"name":        draft.Name,
		"public":      draft.Public,
		"description": draft.Description,
	}

	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))

	var created spotifyPlaylist
	if err := s.doRequest(ctx, token, http.MethodPost, endpoint, body, &created); err != nil {
		return nil, err
	}

	return &models.Playlist{
		ID:         created.ID,
		Name:       created.Name,
		URL:        created.ExternalURLs.Spotify,
		TrackCount: created.Tracks.Total,
	}, nil
}

// AddTracks adds the given URIs to a playlist in input order, chunked into
// batches of at most [AddTracksChunkSize]. Each chunk is a separate provider
// call; a failed chunk stops the loop but already-applied chunks are not
// rolled back. Returns the number of tracks added before any failure.
func (s *SpotifyAPI) AddTracks(ctx context.Context, token, playlistID string, uris []string) (int, error) {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))

	added := 0
	for start := 0; start < len(uris); start += AddTracksChunkSize {
		end := start + AddTracksChunkSize
		if end > len(uris) {
			end = len(uris)
		}
		chunk := uris[start:end]

		body := map[string]any{"uris": chunk}
		if err := s.doRequest(ctx, token, http.MethodPost, endpoint, body, nil); err != nil {
			return added, fmt.Errorf("failed to add tracks %d-%d: %w", start, end-1, err)
		}

		added += len(chunk)
	}

	return added, nil
}

// Playlist retrieves a playlist by ID, used to report the provider's final
// track count after assembly.
func (s *SpotifyAPI) Playlist(ctx context.Context, token, playlistID string) (*models.Playlist, error) {
	endpoint := fmt.Sprintf("/playlists/%s", url.PathEscape(playlistID))

	var playlist spotifyPlaylist
	if err := s.doRequest(ctx, token, http.MethodGet, endpoint, nil, &playlist); err != nil {
		return nil, err
	}

	return &models.Playlist{
		ID:         playlist.ID,
		Name:       playlist.Name,
		URL:        playlist.ExternalURLs.Spotify,
		TrackCount: playlist.Tracks.Total,
	}, nil
}
