package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

// SearchCache is a read-through cache of resolved track searches keyed by the
// normalized query. A hit lets the batch search skip a provider call for a
// query some earlier request already resolved.
type SearchCache struct {
	db *sql.DB
}

// NewSearchCache creates a SearchCache backed by the given database.
func NewSearchCache(db *sql.DB) *SearchCache {
	return &SearchCache{db: db}
}

// Get returns the cached best match for a query, or nil when the query has
// not been resolved before.
func (c *SearchCache) Get(track, artist string) (*models.Track, error) {
	key := shared.NormalizeQueryKey(track, artist)

	var t models.Track
	err := c.db.QueryRow(
		"SELECT track_id, name, artist, uri FROM search_cache WHERE query_key = ?", key,
	).Scan(&t.ID, &t.Name, &t.Artist, &t.URI)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read search cache: %w", err)
	}

	return &t, nil
}

// Put stores the best match for a query. Re-resolving the same query
// overwrites the prior entry; duplicate inserts are not an error.
func (c *SearchCache) Put(track, artist string, t models.Track) error {
	key := shared.NormalizeQueryKey(track, artist)

	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO search_cache (query_key, track_id, name, artist, uri) VALUES (?, ?, ?, ?, ?)",
		key, t.ID, t.Name, t.Artist, t.URI,
	)
	if err != nil {
		return fmt.Errorf("failed to cache track: %w", err)
	}

	return nil
}
