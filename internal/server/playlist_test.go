package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/setlist/internal/auth"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

type stubSearchAPI struct {
	tracks []models.Track
	err    error

	gotTrack, gotArtist string
	gotLimit            int
}

func (s *stubSearchAPI) SearchTracks(ctx context.Context, token, track, artist string, limit int) ([]models.Track, error) {
	s.gotTrack, s.gotArtist, s.gotLimit = track, artist, limit
	if s.err != nil {
		return nil, s.err
	}
	return s.tracks, nil
}

type stubSetlister struct {
	result *models.SearchResult
	list   *models.Playlist
	err    error

	gotQueries []models.TrackQuery
	gotDraft   models.PlaylistDraft
}

func (s *stubSetlister) SearchAll(ctx context.Context, token string, queries []models.TrackQuery) (*models.SearchResult, error) {
	s.gotQueries = queries
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubSetlister) CreateSetlist(ctx context.Context, token string, draft models.PlaylistDraft) (*models.Playlist, error) {
	s.gotDraft = draft
	return s.list, s.err
}

func newPlaylistHandler(api SearchAPI, engine Setlister) *PlaylistHandler {
	manager := auth.NewManager(auth.CookieCodec{}, &stubExchanger{}, shared.NewLogger(nil))
	return NewPlaylistHandler(manager, api, engine, shared.NewLogger(nil))
}

func TestPlaylistHandlerSearch(t *testing.T) {
	t.Run("Returns Matches", func(t *testing.T) {
		api := &stubSearchAPI{tracks: []models.Track{
			{ID: "t1", Name: "Karma Police", Artist: "Radiohead", URI: "spotify:track:t1"},
		}}
		handler := newPlaylistHandler(api, &stubSetlister{})

		req := httptest.NewRequest(http.MethodGet, "/playlist/search?track=Karma+Police&artist=Radiohead", nil)
		validCookies(req)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if api.gotTrack != "Karma Police" || api.gotArtist != "Radiohead" {
			t.Errorf("unexpected search args %q/%q", api.gotTrack, api.gotArtist)
		}

		var tracks []models.Track
		if err := json.NewDecoder(rec.Body).Decode(&tracks); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if len(tracks) != 1 || tracks[0].ID != "t1" {
			t.Errorf("unexpected tracks: %+v", tracks)
		}
	})

	t.Run("Missing Track Parameter Is 400", func(t *testing.T) {
		handler := newPlaylistHandler(&stubSearchAPI{}, &stubSetlister{})

		req := httptest.NewRequest(http.MethodGet, "/playlist/search?artist=Radiohead", nil)
		validCookies(req)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("No Credential Is 401", func(t *testing.T) {
		handler := newPlaylistHandler(&stubSearchAPI{}, &stubSetlister{})

		req := httptest.NewRequest(http.MethodGet, "/playlist/search?track=x", nil)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("Provider Outage Is 503", func(t *testing.T) {
		api := &stubSearchAPI{err: fmt.Errorf("%w: connection refused", shared.ErrUpstreamUnavailable)}
		handler := newPlaylistHandler(api, &stubSetlister{})

		req := httptest.NewRequest(http.MethodGet, "/playlist/search?track=x", nil)
		validCookies(req)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", rec.Code)
		}
	})
}

func TestPlaylistHandlerSearchMultiple(t *testing.T) {
	t.Run("Partitions Results", func(t *testing.T) {
		engine := &stubSetlister{result: &models.SearchResult{
			FoundTracks:    []models.Track{{ID: "t1", Name: "Karma Police"}},
			NotFoundTracks: []models.TrackQuery{{Track: "Nonexistent"}},
		}}
		handler := newPlaylistHandler(&stubSearchAPI{}, engine)

		body := `[{"track":"Karma Police","artist":"Radiohead"},{"track":"Nonexistent"}]`
		req := httptest.NewRequest(http.MethodPost, "/playlist/search/multiple", strings.NewReader(body))
		validCookies(req)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(engine.gotQueries) != 2 {
			t.Errorf("expected 2 queries forwarded, got %d", len(engine.gotQueries))
		}

		var result models.SearchResult
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if len(result.FoundTracks) != 1 || len(result.NotFoundTracks) != 1 {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("Malformed Body Is 400", func(t *testing.T) {
		handler := newPlaylistHandler(&stubSearchAPI{}, &stubSetlister{})

		req := httptest.NewRequest(http.MethodPost, "/playlist/search/multiple", strings.NewReader("{not json"))
		validCookies(req)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("Batch Failure Propagates Status", func(t *testing.T) {
		engine := &stubSetlister{err: fmt.Errorf("%w: connection refused", shared.ErrUpstreamUnavailable)}
		handler := newPlaylistHandler(&stubSearchAPI{}, engine)

		req := httptest.NewRequest(http.MethodPost, "/playlist/search/multiple", strings.NewReader("[]"))
		validCookies(req)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", rec.Code)
		}
	})
}

func TestPlaylistHandlerCreate(t *testing.T) {
	t.Run("Creates Playlist", func(t *testing.T) {
		engine := &stubSetlister{list: &models.Playlist{
			ID:         "pl1",
			Name:       "Setlist",
			URL:        "https://open.spotify.com/playlist/pl1",
			TrackCount: 2,
		}}
		handler := newPlaylistHandler(&stubSearchAPI{}, engine)

		body := `{"name":"Setlist","track_uris":["spotify:track:t1","spotify:track:t2"]}`
		req := httptest.NewRequest(http.MethodPost, "/playlist/", strings.NewReader(body))
		validCookies(req)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !engine.gotDraft.Public {
			t.Error("expected public to default to true")
		}
		if len(engine.gotDraft.TrackURIs) != 2 {
			t.Errorf("unexpected draft URIs: %+v", engine.gotDraft.TrackURIs)
		}

		var playlist models.Playlist
		if err := json.NewDecoder(rec.Body).Decode(&playlist); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if playlist.ID != "pl1" || playlist.TrackCount != 2 {
			t.Errorf("unexpected playlist: %+v", playlist)
		}
	})

	t.Run("Explicit Private Honored", func(t *testing.T) {
		engine := &stubSetlister{list: &models.Playlist{ID: "pl1"}}
		handler := newPlaylistHandler(&stubSearchAPI{}, engine)

		req := httptest.NewRequest(http.MethodPost, "/playlist/", strings.NewReader(`{"name":"Setlist","public":false}`))
		validCookies(req)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		if engine.gotDraft.Public {
			t.Error("expected public false to be forwarded")
		}
	})

	t.Run("Empty Name Is 400", func(t *testing.T) {
		handler := newPlaylistHandler(&stubSearchAPI{}, &stubSetlister{})

		req := httptest.NewRequest(http.MethodPost, "/playlist/", strings.NewReader(`{"name":""}`))
		validCookies(req)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("Malformed Body Is 400", func(t *testing.T) {
		handler := newPlaylistHandler(&stubSearchAPI{}, &stubSetlister{})

		req := httptest.NewRequest(http.MethodPost, "/playlist/", strings.NewReader("{"))
		validCookies(req)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("Partial Assembly Surfaces Provider Status", func(t *testing.T) {
		engine := &stubSetlister{
			list: &models.Playlist{ID: "pl1", TrackCount: 100},
			err:  fmt.Errorf("playlist pl1 created but only 100 of 150 tracks added: %w", shared.ErrUpstream),
		}
		handler := newPlaylistHandler(&stubSearchAPI{}, engine)

		req := httptest.NewRequest(http.MethodPost, "/playlist/", strings.NewReader(`{"name":"Setlist"}`))
		validCookies(req)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", rec.Code)
		}
	})
}
