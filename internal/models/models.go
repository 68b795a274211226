// package models defines the data model for the setlist web service
package models

// Track represents a provider track surfaced to the frontend.
type Track struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Artist string `json:"artist"`
	URI    string `json:"uri"`
}

// TrackQuery is a single entry in a batch search request.
// Artist is optional; an empty Track name short-circuits to not-found.
type TrackQuery struct {
	Track  string `json:"track"`
	Artist string `json:"artist,omitempty"`
}

// SearchResult partitions a batch search into found tracks and the queries
// that produced no match. Found tracks preserve the input order of their
// originating queries; not-found entries echo the original query unmodified.
type SearchResult struct {
	FoundTracks    []Track      `json:"found_tracks"`
	NotFoundTracks []TrackQuery `json:"not_found_tracks"`
}

// PlaylistDraft describes a playlist to be created under the authenticated
// user's account.
type PlaylistDraft struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Public      bool     `json:"public"`
	TrackURIs   []string `json:"track_uris"`
}

// Playlist represents a created playlist as reported back to the frontend.
type Playlist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	TrackCount int    `json:"track_count"`
}

// UserProfile represents the authenticated provider user.
type UserProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
