package tasks_test

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/tasks"
	mock "github.com/desertthunder/setlist/internal/testing"
)

type recordingLog struct {
	playlists []models.Playlist
	err       error
}

func (r *recordingLog) Record(p models.Playlist) error {
	if r.err != nil {
		return r.err
	}
	r.playlists = append(r.playlists, p)
	return nil
}

func TestCreateSetlist(t *testing.T) {
	ctx := context.Background()

	draft := models.PlaylistDraft{
		Name:      "Radiohead Setlist",
		Public:    true,
		TrackURIs: []string{"spotify:track:t1", "spotify:track:t2"},
	}

	t.Run("Creates Shell Then Adds Tracks", func(t *testing.T) {
		client := &mock.MockSpotifyClient{
			Final: &models.Playlist{
				ID:         "pl1",
				Name:       "Radiohead Setlist",
				URL:        "https://open.spotify.com/playlist/pl1",
				TrackCount: 2,
			},
		}
		engine := tasks.NewSetlistEngine(client, tasks.SetlistEngineOpts{})

		playlist, err := engine.CreateSetlist(ctx, "tok", draft)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlist.ID != "pl1" {
			t.Errorf("unexpected playlist ID %q", playlist.ID)
		}
		if playlist.TrackCount != 2 {
			t.Errorf("expected final track count 2, got %d", playlist.TrackCount)
		}
		if len(client.AddedURIs) != 2 || client.AddedURIs[0] != "spotify:track:t1" {
			t.Errorf("tracks not added in order: %+v", client.AddedURIs)
		}
	})

	t.Run("Empty Name Rejected", func(t *testing.T) {
		client := &mock.MockSpotifyClient{}
		engine := tasks.NewSetlistEngine(client, tasks.SetlistEngineOpts{})

		_, err := engine.CreateSetlist(ctx, "tok", models.PlaylistDraft{})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("No Tracks Creates Empty Playlist", func(t *testing.T) {
		client := &mock.MockSpotifyClient{
			Final: &models.Playlist{ID: "pl1", Name: "Empty", TrackCount: 0},
		}
		engine := tasks.NewSetlistEngine(client, tasks.SetlistEngineOpts{})

		playlist, err := engine.CreateSetlist(ctx, "tok", models.PlaylistDraft{Name: "Empty"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlist.TrackCount != 0 {
			t.Errorf("expected empty playlist, got %d tracks", playlist.TrackCount)
		}
		if len(client.AddedURIs) != 0 {
			t.Errorf("expected no add calls, got %+v", client.AddedURIs)
		}
	})

	t.Run("Profile Failure Aborts", func(t *testing.T) {
		client := &mock.MockSpotifyClient{UserErr: shared.ErrUnauthenticated}
		engine := tasks.NewSetlistEngine(client, tasks.SetlistEngineOpts{})

		_, err := engine.CreateSetlist(ctx, "tok", draft)
		if !errors.Is(err, shared.ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("Create Failure Aborts Before Adds", func(t *testing.T) {
		client := &mock.MockSpotifyClient{CreateErr: shared.ErrUpstream}
		engine := tasks.NewSetlistEngine(client, tasks.SetlistEngineOpts{})

		_, err := engine.CreateSetlist(ctx, "tok", draft)
		if !errors.Is(err, shared.ErrUpstream) {
			t.Fatalf("expected ErrUpstream, got %v", err)
		}
		if len(client.AddedURIs) != 0 {
			t.Errorf("expected no add calls after create failure, got %+v", client.AddedURIs)
		}
	})

	t.Run("Partial Add Reports Created Playlist With Error", func(t *testing.T) {
		client := &mock.MockSpotifyClient{AddErr: shared.ErrUpstream}
		engine := tasks.NewSetlistEngine(client, tasks.SetlistEngineOpts{})

		playlist, err := engine.CreateSetlist(ctx, "tok", draft)
		if err == nil {
			t.Fatal("expected an error for the partial result")
		}
		if !errors.Is(err, shared.ErrUpstream) {
			t.Fatalf("expected ErrUpstream in chain, got %v", err)
		}
		if playlist == nil {
			t.Fatal("expected the created playlist alongside the error")
		}
		if playlist.ID != "pl1" {
			t.Errorf("unexpected playlist ID %q", playlist.ID)
		}
	})

	t.Run("Records Created Playlist", func(t *testing.T) {
		recorder := &recordingLog{}
		client := &mock.MockSpotifyClient{
			Final: &models.Playlist{ID: "pl1", Name: "Radiohead Setlist", TrackCount: 2},
		}
		engine := tasks.NewSetlistEngine(client, tasks.SetlistEngineOpts{Recorder: recorder})

		if _, err := engine.CreateSetlist(ctx, "tok", draft); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(recorder.playlists) != 1 || recorder.playlists[0].ID != "pl1" {
			t.Errorf("expected playlist recorded, got %+v", recorder.playlists)
		}
	})

	t.Run("Recorder Failure Does Not Fail Creation", func(t *testing.T) {
		recorder := &recordingLog{err: errors.New("disk full")}
		client := &mock.MockSpotifyClient{
			Final: &models.Playlist{ID: "pl1", Name: "Radiohead Setlist", TrackCount: 2},
		}
		engine := tasks.NewSetlistEngine(client, tasks.SetlistEngineOpts{Recorder: recorder})

		playlist, err := engine.CreateSetlist(ctx, "tok", draft)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlist == nil {
			t.Fatal("expected the created playlist")
		}
	})

	t.Run("Refetch Failure Keeps Local Count", func(t *testing.T) {
		client := &mock.MockSpotifyClient{PlaylistErr: shared.ErrUpstreamUnavailable}
		engine := tasks.NewSetlistEngine(client, tasks.SetlistEngineOpts{})

		playlist, err := engine.CreateSetlist(ctx, "tok", draft)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlist.TrackCount != 2 {
			t.Errorf("expected local add count kept, got %d", playlist.TrackCount)
		}
	})
}
