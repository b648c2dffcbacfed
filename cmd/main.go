package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"radar/internal/services"
	"radar/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	var spotifyService services.OAuthService

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map()); err == nil {
			spotifyService = svc
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Spotify: spotifyService,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "radar",
		Usage:    "Build a playlist of new releases from the artists you follow on Spotify",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNoReleases) {
			logger.Warn("no new releases in the window")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
