package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/setlist/internal/models"
)

// PlaylistLog records playlists this server created, for auditing and the
// setup command's recent listing.
type PlaylistLog struct {
	db *sql.DB
}

// NewPlaylistLog creates a PlaylistLog backed by the given database.
func NewPlaylistLog(db *sql.DB) *PlaylistLog {
	return &PlaylistLog{db: db}
}

// Record appends a created playlist to the log.
func (l *PlaylistLog) Record(p models.Playlist) error {
	_, err := l.db.Exec(
		"INSERT INTO created_playlists (playlist_id, name, url, track_count) VALUES (?, ?, ?, ?)",
		p.ID, p.Name, p.URL, p.TrackCount,
	)
	if err != nil {
		return fmt.Errorf("failed to record playlist: %w", err)
	}
	return nil
}

// Recent returns up to limit most recently created playlists, newest first.
func (l *PlaylistLog) Recent(limit int) ([]models.Playlist, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := l.db.Query(
		"SELECT playlist_id, name, url, track_count FROM created_playlists ORDER BY created_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []models.Playlist
	for rows.Next() {
		var p models.Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.URL, &p.TrackCount); err != nil {
			return nil, fmt.Errorf("failed to scan playlist row: %w", err)
		}
		playlists = append(playlists, p)
	}

	return playlists, rows.Err()
}
