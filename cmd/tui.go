package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"radar/internal/radar"
	"radar/internal/shared"
	"radar/internal/ui"
)

// TUI launches the interactive terminal UI for reviewing releases before the playlist is created.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	public := cmd.Bool("public")

	r.loadConfig(configPath)
	scanOpts := r.scanOptsFromFlags(cmd)

	if err := r.ensureAuthenticated(ctx, configPath); err != nil {
		return err
	}

	if scanOpts.SkipSeen {
		if err := r.ensureStore(); err != nil {
			return fmt.Errorf("failed to open seen-release store: %w", err)
		}
	}

	prefix := r.config.Radar.PlaylistPrefix
	if prefix == "" {
		prefix = "New Releases"
	}
	buildOpts := radar.BuildOpts{
		Name:   fmt.Sprintf("%s %s", prefix, time.Now().Format("2006-01-02")),
		Public: public,
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/radar-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.engine(), scanOpts, buildOpts)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
