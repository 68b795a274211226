// package testing contains shared testing utilities
package testing

import (
	"context"
	"net/http"
	"sync"

	"github.com/desertthunder/setlist/internal/models"
)

// MockSpotifyClient is a configurable test double for the provider client
// used by the setlist engine. It counts calls so tests can assert exactly how
// many provider lookups an operation performed.
type MockSpotifyClient struct {
	mu sync.Mutex

	SearchCalls   int
	SearchResults map[string][]models.Track // keyed by track name
	SearchErr     error

	User    *models.UserProfile
	UserErr error

	Created   *models.Playlist
	CreateErr error

	AddedURIs []string
	AddErr    error

	Final       *models.Playlist
	PlaylistErr error
}

func (m *MockSpotifyClient) CurrentUser(ctx context.Context, token string) (*models.UserProfile, error) {
	if m.UserErr != nil {
		return nil, m.UserErr
	}
	if m.User != nil {
		return m.User, nil
	}
	return &models.UserProfile{ID: "user", DisplayName: "Mock User"}, nil
}

func (m *MockSpotifyClient) SearchTracks(ctx context.Context, token, track, artist string, limit int) ([]models.Track, error) {
	m.mu.Lock()
	m.SearchCalls++
	m.mu.Unlock()

	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.SearchResults[track], nil
}

func (m *MockSpotifyClient) CreatePlaylist(ctx context.Context, token, userID string, draft models.PlaylistDraft) (*models.Playlist, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	if m.Created != nil {
		return m.Created, nil
	}
	return &models.Playlist{ID: "pl1", Name: draft.Name}, nil
}

func (m *MockSpotifyClient) AddTracks(ctx context.Context, token, playlistID string, uris []string) (int, error) {
	m.mu.Lock()
	m.AddedURIs = append(m.AddedURIs, uris...)
	m.mu.Unlock()

	if m.AddErr != nil {
		return 0, m.AddErr
	}
	return len(uris), nil
}

func (m *MockSpotifyClient) Playlist(ctx context.Context, token, playlistID string) (*models.Playlist, error) {
	if m.PlaylistErr != nil {
		return nil, m.PlaylistErr
	}
	if m.Final != nil {
		return m.Final, nil
	}
	return &models.Playlist{ID: playlistID, TrackCount: len(m.AddedURIs)}, nil
}

// Searches returns the number of provider search calls made so far.
func (m *MockSpotifyClient) Searches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SearchCalls
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// MemoryCache is an in-memory TrackCacher double.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]models.Track
	Hits    int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[string]models.Track{}}
}

func (c *MemoryCache) key(track, artist string) string {
	return track + "|" + artist
}

func (c *MemoryCache) Get(track, artist string) (*models.Track, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.entries[c.key(track, artist)]; ok {
		c.Hits++
		return &t, nil
	}
	return nil, nil
}

func (c *MemoryCache) Put(track, artist string, t models.Track) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[c.key(track, artist)] = t
	return nil
}
