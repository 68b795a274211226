package repositories

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestSearchCache(t *testing.T) {
	t.Run("Miss Returns Nil", func(t *testing.T) {
		cache := NewSearchCache(setupDB(t))

		track, err := cache.Get("Karma Police", "Radiohead")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if track != nil {
			t.Errorf("expected nil on miss, got %+v", track)
		}
	})

	t.Run("Put Then Get", func(t *testing.T) {
		cache := NewSearchCache(setupDB(t))

		want := models.Track{ID: "t1", Name: "Karma Police", Artist: "Radiohead", URI: "spotify:track:t1"}
		if err := cache.Put("Karma Police", "Radiohead", want); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := cache.Get("Karma Police", "Radiohead")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got == nil || *got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("Key Is Case And Whitespace Insensitive", func(t *testing.T) {
		cache := NewSearchCache(setupDB(t))

		want := models.Track{ID: "t1", Name: "Karma Police", Artist: "Radiohead", URI: "spotify:track:t1"}
		if err := cache.Put("Karma Police", "Radiohead", want); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := cache.Get("  karma   POLICE ", "radiohead")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got == nil || got.ID != "t1" {
			t.Errorf("expected hit on normalized key, got %+v", got)
		}
	})

	t.Run("Replaces Prior Entry", func(t *testing.T) {
		cache := NewSearchCache(setupDB(t))

		if err := cache.Put("Reckoner", "Radiohead", models.Track{ID: "old", Name: "Reckoner", Artist: "Radiohead", URI: "u1"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := cache.Put("Reckoner", "Radiohead", models.Track{ID: "new", Name: "Reckoner", Artist: "Radiohead", URI: "u2"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := cache.Get("Reckoner", "Radiohead")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got == nil || got.ID != "new" {
			t.Errorf("expected replaced entry, got %+v", got)
		}
	})

	t.Run("Distinct Artists Distinct Entries", func(t *testing.T) {
		cache := NewSearchCache(setupDB(t))

		if err := cache.Put("Hurt", "Nine Inch Nails", models.Track{ID: "nin", Name: "Hurt", Artist: "Nine Inch Nails", URI: "u1"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := cache.Put("Hurt", "Johnny Cash", models.Track{ID: "cash", Name: "Hurt", Artist: "Johnny Cash", URI: "u2"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := cache.Get("Hurt", "Johnny Cash")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got == nil || got.ID != "cash" {
			t.Errorf("expected artist-scoped entry, got %+v", got)
		}
	})
}

func TestPlaylistLog(t *testing.T) {
	t.Run("Record Then Recent", func(t *testing.T) {
		log := NewPlaylistLog(setupDB(t))

		for i := 0; i < 3; i++ {
			err := log.Record(models.Playlist{
				ID:         fmt.Sprintf("pl%d", i),
				Name:       fmt.Sprintf("Setlist %d", i),
				URL:        fmt.Sprintf("https://open.spotify.com/playlist/pl%d", i),
				TrackCount: i * 10,
			})
			if err != nil {
				t.Fatalf("failed to record playlist %d: %v", i, err)
			}
		}

		playlists, err := log.Recent(10)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(playlists) != 3 {
			t.Fatalf("expected 3 playlists, got %d", len(playlists))
		}
		if playlists[0].ID != "pl2" || playlists[2].ID != "pl0" {
			t.Errorf("expected newest first, got %+v", playlists)
		}
	})

	t.Run("Limit Applied", func(t *testing.T) {
		log := NewPlaylistLog(setupDB(t))

		for i := 0; i < 5; i++ {
			if err := log.Record(models.Playlist{ID: fmt.Sprintf("pl%d", i), Name: "x", URL: "u", TrackCount: 0}); err != nil {
				t.Fatalf("failed to record playlist: %v", err)
			}
		}

		playlists, err := log.Recent(2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(playlists) != 2 {
			t.Errorf("expected 2 playlists, got %d", len(playlists))
		}
	})

	t.Run("Empty Log", func(t *testing.T) {
		log := NewPlaylistLog(setupDB(t))

		playlists, err := log.Recent(0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(playlists) != 0 {
			t.Errorf("expected empty listing, got %+v", playlists)
		}
	})
}

func TestMigrationsIdempotent(t *testing.T) {
	db := setupDB(t)

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("re-running migrations should be a no-op, got %v", err)
	}
}
