package models

import (
	"fmt"
	"time"
)

// SeenRelease records a release that was already collected into a playlist,
// keyed by the Spotify release ID so repeat scans can skip it.
type SeenRelease struct {
	ID          string    // local uuid
	ReleaseID   string    // Spotify album/single ID
	ArtistID    string
	ArtistName  string
	AlbumName   string
	ReleaseDate string
	ReleaseType string
	CreatedAt   time.Time
}

// Validate checks the record before persistence.
func (s SeenRelease) Validate() error {
	if s.ReleaseID == "" {
		return fmt.Errorf("seen release requires a release ID")
	}
	if s.ArtistID == "" {
		return fmt.Errorf("seen release requires an artist ID")
	}
	return nil
}

// NewSeenRelease builds a SeenRelease from a scanned [Release].
func NewSeenRelease(r Release) SeenRelease {
	return SeenRelease{
		ReleaseID:   r.ID,
		ArtistID:    r.ArtistID,
		ArtistName:  r.ArtistName,
		AlbumName:   r.Name,
		ReleaseDate: r.ReleaseDate,
		ReleaseType: r.Type,
		CreatedAt:   time.Now(),
	}
}

// RunRecord captures one radar invocation.
type RunRecord struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	WindowDays   int
	ArtistCount  int
	ReleaseCount int
	TrackCount   int
	PlaylistID   string
	PlaylistName string
	PlaylistURL  string
}

// Validate checks the record before persistence.
func (r RunRecord) Validate() error {
	if r.WindowDays <= 0 {
		return fmt.Errorf("run record requires a positive window")
	}
	if r.FinishedAt.Before(r.StartedAt) {
		return fmt.Errorf("run record finished before it started")
	}
	return nil
}
