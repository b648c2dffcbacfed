// package radar implements the release scan and playlist assembly pipeline.
//
// The core abstraction is [Engine], which walks followed artists, filters
// their releases against a recency window, collects the matching track
// listings, and assembles a playlist. Operations emit progress updates via
// channels for non-blocking status reporting to CLI/UI layers.
package radar

import (
	"context"
	"fmt"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/time/rate"

	"radar/internal/models"
	"radar/internal/services"
	"radar/internal/shared"
)

// addTracksBatchSize is the Spotify API limit for a single playlist insert.
const addTracksBatchSize = 100

// SeenStore persists releases already collected on previous runs.
// Implemented by repositories.SeenRepository.
type SeenStore interface {
	Exists(releaseID string) (bool, error)
	Record(seen models.SeenRelease) error
}

// ScanOpts configures a release scan.
type ScanOpts struct {
	Days      int       // Recency window in days (default 7)
	Market    string    // Market for the artist albums endpoint
	Workers   int       // Concurrent track collection workers (default 4, cap 10)
	RateLimit float64   // Requests per second (default 5)
	SkipSeen  bool      // Skip releases recorded in the seen store
	Now       time.Time // Window anchor; zero means time.Now()
}

// BuildOpts configures playlist assembly.
type BuildOpts struct {
	Name        string // Playlist name (default "<prefix> YYYY-MM-DD")
	Description string
	Public      bool
}

// ScanResult contains everything a scan found.
type ScanResult struct {
	StartedAt   time.Time        `json:"started_at"`
	FinishedAt  time.Time        `json:"finished_at"`
	WindowDays  int              `json:"window_days"`
	ArtistCount int              `json:"artist_count"`
	Releases    []models.Release `json:"releases"`
	Tracks      []models.Track   `json:"tracks"`
	SkippedSeen int              `json:"skipped_seen,omitempty"`
}

// BuildResult contains the created playlist and the URIs that went into it.
type BuildResult struct {
	Playlist *models.Playlist
	URIs     []string
	Dropped  int // duplicate URIs removed before insertion
}

// Engine runs the scan and build pipeline against a Spotify service.
type Engine struct {
	spotify services.Service
	seen    SeenStore
}

// NewEngine creates an Engine. The seen store may be nil, disabling
// cross-run release deduplication.
func NewEngine(spotify services.Service, seen SeenStore) *Engine {
	return &Engine{spotify: spotify, seen: seen}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Scan fetches followed artists, filters their releases to the recency
// window, and collects the track listings of every qualifying release.
//
// Artist album fetches are paced by a client-side token bucket; track
// collection fans out over a bounded worker pool sharing the same limiter.
func (e *Engine) Scan(ctx context.Context, progress chan<- ProgressUpdate, opts ScanOpts) (*ScanResult, error) {
	if e.spotify == nil {
		return nil, fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.Days <= 0 {
		opts.Days = 7
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Workers > 10 {
		opts.Workers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	result := &ScanResult{
		StartedAt:  opts.Now,
		WindowDays: opts.Days,
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	e.sendProgress(progress, fetchArtistsUpdate())
	artists, err := e.spotify.FollowedArtists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch followed artists: %w", err)
	}
	result.ArtistCount = len(artists)
	e.sendProgress(progress, artistsFetchedUpdate(len(artists)))

	var releases []models.Release
	for i, artist := range artists {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		albums, err := e.spotify.ArtistAlbums(ctx, artist.ID, opts.Market)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch albums for %q: %w", artist.Name, err)
		}

		found := 0
		for _, album := range albums {
			if !album.Recent(opts.Now, opts.Days) {
				continue
			}
			if album.ArtistName == "" {
				album.ArtistName = artist.Name
			}

			if opts.SkipSeen && e.seen != nil {
				if exists, err := e.seen.Exists(album.ID); err == nil && exists {
					result.SkippedSeen++
					continue
				}
			}

			releases = append(releases, album)
			found++
		}

		e.sendProgress(progress, checkingArtistUpdate(i+1, len(artists), artist.Name, found))
	}

	result.Releases = releases

	tracks, err := e.collectTracks(ctx, progress, limiter, releases, opts.Workers)
	if err != nil {
		return nil, err
	}
	result.Tracks = tracks
	result.FinishedAt = time.Now()

	return result, nil
}

// collectTracks fetches track listings for every release over a worker pool,
// reassembling results in release order so output stays deterministic.
func (e *Engine) collectTracks(
	ctx context.Context,
	progress chan<- ProgressUpdate,
	limiter *rate.Limiter,
	releases []models.Release,
	workers int,
) ([]models.Track, error) {
	if len(releases) == 0 {
		return nil, nil
	}

	type job struct {
		index   int
		release models.Release
	}
	type outcome struct {
		index  int
		tracks []models.Track
		err    error
	}

	jobs := make(chan job, len(releases))
	outcomes := make(chan outcome, len(releases))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := limiter.Wait(ctx); err != nil {
					outcomes <- outcome{index: j.index, err: err}
					continue
				}
				tracks, err := e.spotify.AlbumTracks(ctx, j.release)
				outcomes <- outcome{index: j.index, tracks: tracks, err: err}
			}
		}()
	}

	for i, release := range releases {
		e.sendProgress(progress, collectTracksUpdate(i+1, len(releases), release))
		jobs <- job{index: i, release: release}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	collected := make([][]models.Track, len(releases))
	for out := range outcomes {
		if out.err != nil {
			return nil, fmt.Errorf("failed to collect tracks for %q: %w", releases[out.index].Name, out.err)
		}
		collected[out.index] = out.tracks
	}

	var tracks []models.Track
	for _, batch := range collected {
		tracks = append(tracks, batch...)
	}

	return tracks, nil
}

// Build creates a playlist and fills it with the scan's tracks.
//
// Track URIs are deduplicated (first occurrence wins) before insertion, and
// inserts go out in batches of at most 100 URIs. On success, the scanned
// releases are recorded in the seen store; recording failures are ignored so
// they never undo a created playlist.
func (e *Engine) Build(ctx context.Context, progress chan<- ProgressUpdate, scan *ScanResult, opts BuildOpts) (*BuildResult, error) {
	if e.spotify == nil {
		return nil, fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}
	if scan == nil || len(scan.Tracks) == 0 {
		return nil, shared.ErrNoReleases
	}

	if opts.Name == "" {
		opts.Name = fmt.Sprintf("New Releases %s", time.Now().Format("2006-01-02"))
	}
	if opts.Description == "" {
		opts.Description = fmt.Sprintf(
			"New releases from followed artists in the past %d days. Generated on %s",
			scan.WindowDays, time.Now().Format("2006-01-02"),
		)
	}

	uris, dropped := DedupURIs(scan.Tracks)
	if len(uris) == 0 {
		return nil, shared.ErrNoReleases
	}

	user, err := e.spotify.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current user: %w", err)
	}

	e.sendProgress(progress, createPlaylistUpdate(opts.Name))
	playlist, err := e.spotify.CreatePlaylist(ctx, user.ID, opts.Name, opts.Description, opts.Public)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	batches := (len(uris) + addTracksBatchSize - 1) / addTracksBatchSize
	for i := 0; i < len(uris); i += addTracksBatchSize {
		end := i + addTracksBatchSize
		if end > len(uris) {
			end = len(uris)
		}

		e.sendProgress(progress, addTracksUpdate(i/addTracksBatchSize+1, batches))
		if err := e.spotify.AddTracks(ctx, playlist.ID, uris[i:end]); err != nil {
			return nil, fmt.Errorf("failed to add tracks to playlist: %w", err)
		}
	}

	playlist.TrackCount = len(uris)
	e.sendProgress(progress, playlistCreatedUpdate(playlist))

	// Recorded silently so a storage hiccup never fails a finished build.
	if e.seen != nil {
		for _, release := range scan.Releases {
			_ = e.seen.Record(models.NewSeenRelease(release))
		}
	}

	return &BuildResult{Playlist: playlist, URIs: uris, Dropped: dropped}, nil
}

// DedupURIs returns the track URIs with duplicates removed, preserving the
// order of first occurrence, along with the number dropped. Tracks without a
// URI are skipped.
func DedupURIs(tracks []models.Track) ([]string, int) {
	seen := mapset.NewThreadUnsafeSet[string]()
	uris := make([]string, 0, len(tracks))
	dropped := 0

	for _, track := range tracks {
		if track.URI == "" {
			continue
		}
		if seen.Add(track.URI) {
			uris = append(uris, track.URI)
		} else {
			dropped++
		}
	}

	return uris, dropped
}
