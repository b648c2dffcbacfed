package radar

import (
	"fmt"

	"radar/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchArtists Phase = iota
	FetchAlbums
	CollectTracks
	CreatePlaylist
	AddTracks
)

func (p Phase) String() string {
	switch p {
	case FetchArtists:
		return "fetch_artists"
	case FetchAlbums:
		return "fetch_albums"
	case CollectTracks:
		return "collect_tracks"
	case CreatePlaylist:
		return "create_playlist"
	case AddTracks:
		return "add_tracks"
	default:
		return ""
	}
}

func fetchArtistsUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchArtists,
		Step:    1,
		Total:   1,
		Message: "Fetching followed artists...",
	}
}

func artistsFetchedUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchArtists,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d followed artists", count),
	}
}

func checkingArtistUpdate(step, total int, name string, found int) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] %s · no new releases", step, total, name)
	if found > 0 {
		msg = fmt.Sprintf("[%d/%d] %s ✓ %d new release(s)", step, total, name, found)
	}
	return ProgressUpdate{
		Phase:   FetchAlbums,
		Step:    step,
		Total:   total,
		Message: msg,
	}
}

func collectTracksUpdate(step, total int, release models.Release) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CollectTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Collecting tracks: %s - %s", step, total, release.ArtistName, release.Name),
	}
}

func createPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q...", name),
	}
}

func playlistCreatedUpdate(pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}

func addTracksUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Adding tracks (batch %d/%d)...", step, total),
	}
}
