package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"radar/internal/models"
	"radar/internal/shared"
)

// HistoryList lists recorded runs, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	r.loadConfig(configPath)
	if err := r.ensureStore(); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	runs, err := r.runs.List(limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if useJSON {
		return r.writeJSON(runs, pretty)
	}

	if len(runs) == 0 {
		r.writePlainln("No runs recorded yet.")
		return nil
	}

	r.writePlain("Found %d run(s):\n\n", len(runs))
	for i, run := range runs {
		r.writePlain("%d. %s\n", i+1, run.StartedAt.Format("2006-01-02 15:04"))
		r.writePlain("   ID: %s\n", run.ID)
		r.writePlain("   Window: %d days\n", run.WindowDays)
		r.writePlain("   Artists: %d, Releases: %d, Tracks: %d\n", run.ArtistCount, run.ReleaseCount, run.TrackCount)
		if run.PlaylistName != "" {
			r.writePlain("   Playlist: %s\n", run.PlaylistName)
		}
		r.writePlain("\n")
	}

	return nil
}

// HistoryShow shows a single recorded run by ID.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	runID := cmd.StringArg("id")

	if runID == "" {
		return fmt.Errorf("%w: run ID argument is required", shared.ErrMissingArgument)
	}

	r.loadConfig(configPath)
	if err := r.ensureStore(); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	run, err := r.runs.Get(runID)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(run, pretty)
	}

	r.printRun(run)
	return nil
}

func (r *Runner) printRun(run *models.RunRecord) {
	r.writePlain("Run %s\n", run.ID)
	r.writePlain("Started: %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	r.writePlain("Finished: %s\n", run.FinishedAt.Format("2006-01-02 15:04:05"))
	r.writePlain("Window: %d days\n", run.WindowDays)
	r.writePlain("Artists scanned: %d\n", run.ArtistCount)
	r.writePlain("Releases found: %d\n", run.ReleaseCount)
	r.writePlain("Tracks added: %d\n", run.TrackCount)
	if run.PlaylistName != "" {
		r.writePlain("Playlist: %s\n", run.PlaylistName)
	}
	if run.PlaylistURL != "" {
		r.writePlain("URL: %s\n", run.PlaylistURL)
	}
}
