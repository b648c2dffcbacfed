package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"radar/internal/models"
	"radar/internal/radar"
	"radar/internal/shared"
)

// scanOptsFromFlags resolves scan options from flags, falling back to config defaults.
func (r *Runner) scanOptsFromFlags(cmd *cli.Command) radar.ScanOpts {
	opts := radar.ScanOpts{
		Days:      cmd.Int("days"),
		Market:    cmd.String("market"),
		SkipSeen:  cmd.Bool("skip-seen"),
		Workers:   r.config.Radar.Workers,
		RateLimit: r.config.Radar.RateLimit,
	}

	if opts.Days <= 0 {
		opts.Days = r.config.Radar.Days
	}
	if opts.Market == "" {
		opts.Market = r.config.Radar.Market
	}

	return opts
}

// drainProgress prints engine progress updates until the channel closes.
func (r *Runner) drainProgress(progressCh <-chan radar.ProgressUpdate) {
	for update := range progressCh {
		switch update.Phase {
		case radar.FetchArtists:
			r.writePlain("📥 %s\n", update.Message)
		case radar.FetchAlbums:
			r.writePlain("   %s\n", update.Message)
		case radar.CollectTracks:
			if update.Step == 1 {
				r.writePlain("\n🎵 Collecting track listings...\n")
			}
		case radar.CreatePlaylist, radar.AddTracks:
			r.writePlain("📝 %s\n", update.Message)
		}
	}
}

// Scan lists recent releases from followed artists without touching any playlist.
func (r *Runner) Scan(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	save := cmd.Bool("save")

	r.loadConfig(configPath)
	opts := r.scanOptsFromFlags(cmd)

	if err := r.ensureAuthenticated(ctx, configPath); err != nil {
		return err
	}

	if opts.SkipSeen {
		if err := r.ensureStore(); err != nil {
			return fmt.Errorf("failed to open seen-release store: %w", err)
		}
	}

	r.logger.Info("scanning for recent releases", "days", opts.Days, "market", opts.Market)

	result, err := r.runScan(ctx, configPath, opts, !useJSON)
	if err != nil {
		return err
	}

	if save {
		saveFile := fmt.Sprintf("radar_scan_%s.json", time.Now().Format("2006-01-02"))
		data, err := shared.MarshalJSON(result, true)
		if err != nil {
			return fmt.Errorf("failed to marshal scan result: %w", err)
		}
		if err := os.WriteFile(saveFile, data, 0644); err != nil {
			r.logger.Warn("failed to save scan result", "error", err)
		} else {
			r.logger.Info("scan result saved", "file", saveFile)
		}
	}

	if useJSON {
		return r.writeJSON(result, pretty)
	}

	r.printScanReport(result)
	return nil
}

// Run scans for recent releases and creates a playlist from them.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	name := cmd.String("name")
	public := cmd.Bool("public")
	yes := cmd.Bool("yes")

	r.loadConfig(configPath)
	opts := r.scanOptsFromFlags(cmd)

	if err := r.ensureAuthenticated(ctx, configPath); err != nil {
		return err
	}

	// The seen store doubles as run history, so the run command always opens it.
	if err := r.ensureStore(); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	r.logger.Info("starting radar run", "days", opts.Days, "market", opts.Market)
	r.writePlain("Scanning followed artists for releases from the past %d days...\n\n", opts.Days)

	scan, err := r.runScan(ctx, configPath, opts, true)
	if err != nil {
		return err
	}

	if len(scan.Tracks) == 0 {
		return shared.ErrNoReleases
	}

	r.printScanReport(scan)

	if !yes && !r.confirm(fmt.Sprintf("Create playlist with %d tracks?", len(scan.Tracks))) {
		r.writePlainln("Aborted.")
		return nil
	}

	if name == "" {
		prefix := r.config.Radar.PlaylistPrefix
		if prefix == "" {
			prefix = "New Releases"
		}
		name = fmt.Sprintf("%s %s", prefix, time.Now().Format("2006-01-02"))
	}

	buildOpts := radar.BuildOpts{Name: name, Public: public}

	progressCh := make(chan radar.ProgressUpdate, 50)
	go r.drainProgress(progressCh)

	build, err := r.engine().Build(ctx, progressCh, scan, buildOpts)
	close(progressCh)
	if err != nil {
		return err
	}

	record := &models.RunRecord{
		StartedAt:    scan.StartedAt,
		FinishedAt:   time.Now(),
		WindowDays:   scan.WindowDays,
		ArtistCount:  scan.ArtistCount,
		ReleaseCount: len(scan.Releases),
		TrackCount:   len(build.URIs),
		PlaylistID:   build.Playlist.ID,
		PlaylistName: build.Playlist.Name,
		PlaylistURL:  build.Playlist.URL,
	}
	if err := r.runs.Create(record); err != nil {
		r.logger.Warn("failed to record run", "error", err)
	}

	r.writePlain("\n═══════════════════════════════════════\n")
	r.writePlain("Playlist created!\n")
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("Name: %s\n", build.Playlist.Name)
	r.writePlain("Tracks: %d\n", build.Playlist.TrackCount)
	if build.Dropped > 0 {
		r.writePlain("Duplicates removed: %d\n", build.Dropped)
	}
	if build.Playlist.URL != "" {
		r.writePlain("URL: %s\n", build.Playlist.URL)
	}

	return nil
}

// runScan executes the scan with progress output, retrying once after reauthorization.
func (r *Runner) runScan(ctx context.Context, configPath string, opts radar.ScanOpts, showProgress bool) (*radar.ScanResult, error) {
	engine := r.engine()

	scanOnce := func() (*radar.ScanResult, error) {
		var progressCh chan radar.ProgressUpdate
		if showProgress {
			progressCh = make(chan radar.ProgressUpdate, 50)
			go r.drainProgress(progressCh)
		}

		result, err := engine.Scan(ctx, progressCh, opts)
		if progressCh != nil {
			close(progressCh)
		}
		return result, err
	}

	result, err := scanOnce()
	if err != nil {
		if reauthed, authErr := r.handleAuthError(ctx, err, configPath); reauthed {
			if authErr != nil {
				return nil, authErr
			}
			if result, err = scanOnce(); err != nil {
				return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
			}
		} else {
			return nil, err
		}
	}

	return result, nil
}

// printScanReport writes the release listing for a finished scan.
func (r *Runner) printScanReport(result *radar.ScanResult) {
	if len(result.Releases) == 0 {
		r.writePlainln("No new releases found.")
		return
	}

	tracksByRelease := map[string][]models.Track{}
	for _, track := range result.Tracks {
		tracksByRelease[track.AlbumID] = append(tracksByRelease[track.AlbumID], track)
	}

	r.writePlain("\nFound %d release(s) from %d followed artist(s):\n\n", len(result.Releases), result.ArtistCount)
	for i, release := range result.Releases {
		r.writePlain("%d. %s - %s\n", i+1, release.ArtistName, release.Name)
		r.writePlain("   %s, released %s, %d track(s)\n", release.Type, release.ReleaseDate, release.TotalTracks)
		for _, track := range tracksByRelease[release.ID] {
			r.writePlain("   · %s\n", track.Name)
		}
	}
	r.writePlain("\nTotal tracks: %d\n", len(result.Tracks))
	if result.SkippedSeen > 0 {
		r.writePlain("Skipped (already collected): %d\n", result.SkippedSeen)
	}
}

// confirm prompts on stdin and returns true on a "y"/"yes" answer.
func (r *Runner) confirm(question string) bool {
	r.writePlain("\n%s [y/N] ", question)

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
