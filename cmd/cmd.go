// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// register assembles the command tree.
func (r *Runner) register() []*cli.Command {
	return []*cli.Command{
		authCommand(r),
		scanCommand(r),
		runCommand(r),
		historyCommand(r),
		setupCommand(r),
		tuiCommand(r),
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// authCommand performs the OAuth2 authorization flow
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "auth",
		Usage:  "Authenticate with Spotify using OAuth2",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Auth,
	}
}

// scanCommand lists recent releases without creating a playlist
func scanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "List recent releases from followed artists",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "days",
				Aliases: []string{"d"},
				Usage:   "Recency window in days",
			},
			&cli.StringFlag{
				Name:  "market",
				Usage: "Market code for release availability (e.g. US)",
			},
			&cli.BoolFlag{
				Name:  "skip-seen",
				Usage: "Skip releases collected on previous runs",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Save scan results locally",
			},
		},
		Action: r.Scan,
	}
}

// runCommand scans and creates the playlist in one shot
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Scan for recent releases and create a playlist",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "days",
				Aliases: []string{"d"},
				Usage:   "Recency window in days",
			},
			&cli.StringFlag{
				Name:  "market",
				Usage: "Market code for release availability (e.g. US)",
			},
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Playlist name (default \"New Releases YYYY-MM-DD\")",
			},
			&cli.BoolFlag{
				Name:  "public",
				Usage: "Make the playlist public",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip the confirmation prompt",
			},
			&cli.BoolFlag{
				Name:  "skip-seen",
				Usage: "Skip releases collected on previous runs",
			},
		},
		Action: r.Run,
	}
}

// historyCommand inspects past runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect previous playlist runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded runs, newest first",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show one recorded run",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.HistoryShow,
			},
		},
	}
}

// setupCommand initializes local state
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and local database",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Create a config.toml from the template",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
		},
	}
}

// tuiCommand launches the interactive UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Review releases interactively before creating the playlist",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "days",
				Aliases: []string{"d"},
				Usage:   "Recency window in days",
			},
			&cli.StringFlag{
				Name:  "market",
				Usage: "Market code for release availability (e.g. US)",
			},
			&cli.BoolFlag{
				Name:  "public",
				Usage: "Make the playlist public",
			},
			&cli.BoolFlag{
				Name:  "skip-seen",
				Usage: "Skip releases collected on previous runs",
			},
		},
		Action: r.TUI,
	}
}
