package models

import (
	"fmt"
	"time"
)

// Release type groups returned by the artist albums endpoint.
const (
	ReleaseTypeAlbum  = "album"
	ReleaseTypeSingle = "single"
)

// Precision values for release dates.
const (
	PrecisionYear  = "year"
	PrecisionMonth = "month"
	PrecisionDay   = "day"
)

// Artist represents a followed Spotify artist.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Release represents an album or single by a followed artist.
type Release struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ArtistID    string `json:"artist_id"`
	ArtistName  string `json:"artist_name"`
	Type        string `json:"type"`         // album or single
	ReleaseDate string `json:"release_date"` // as reported by the API
	Precision   string `json:"release_date_precision"`
	TotalTracks int    `json:"total_tracks"`
}

// ReleaseTime parses the release date according to its precision.
func (r Release) ReleaseTime() (time.Time, error) {
	layout := "2006-01-02"
	switch r.Precision {
	case PrecisionYear:
		layout = "2006"
	case PrecisionMonth:
		layout = "2006-01"
	}

	t, err := time.Parse(layout, r.ReleaseDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable release date %q: %w", r.ReleaseDate, err)
	}
	return t, nil
}

// Recent reports whether the release falls inside the recency window ending at now.
//
// Releases without day precision never qualify: a "2024" or "2024-03" date
// cannot satisfy a day-granular window.
func (r Release) Recent(now time.Time, days int) bool {
	if r.Precision != "" && r.Precision != PrecisionDay {
		return false
	}

	released, err := time.Parse("2006-01-02", r.ReleaseDate)
	if err != nil {
		return false
	}

	threshold := now.AddDate(0, 0, -days)
	return !released.Before(threshold)
}

// Track represents a song on a qualifying release.
type Track struct {
	ID          string `json:"id"`
	URI         string `json:"uri"`
	Name        string `json:"name"`
	ArtistName  string `json:"artist_name"`
	AlbumID     string `json:"album_id"`
	AlbumName   string `json:"album_name"`
	ReleaseDate string `json:"release_date"`
	URL         string `json:"url,omitempty"`
}

// Playlist represents a created Spotify playlist.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Public      bool   `json:"public"`
	URL         string `json:"url,omitempty"`
	TrackCount  int    `json:"track_count"`
}
