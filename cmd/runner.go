package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"radar/internal/radar"
	"radar/internal/repositories"
	"radar/internal/services"
	"radar/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	spotify services.OAuthService
	logger  *log.Logger
	output  io.Writer

	db   *sql.DB
	seen *repositories.SeenRepository
	runs *repositories.RunRepository
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Spotify services.OAuthService
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		spotify: opts.Spotify,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

// SetLogger swaps the runner's logger (used when the TUI redirects logs to a file).
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// loadConfig resolves the effective config for a command: the path's file
// when it exists, otherwise whatever the runner was constructed with.
func (r *Runner) loadConfig(configPath string) *shared.Config {
	if _, err := os.Stat(configPath); err == nil {
		if config, err := shared.LoadConfig(configPath); err == nil {
			r.config = config
			return config
		} else {
			r.logger.Warnf("failed to load config, using defaults %v", err)
		}
	}

	if r.config == nil {
		r.config = shared.DefaultConfig()
	}
	return r.config
}

// ensureService builds the Spotify service from configured credentials if the
// runner does not already hold one.
func (r *Runner) ensureService() (services.OAuthService, error) {
	if r.spotify != nil {
		return r.spotify, nil
	}

	creds := r.config.Credentials.Spotify
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}

	svc, err := services.NewSpotifyService(creds.Map())
	if err != nil {
		return nil, fmt.Errorf("failed to create Spotify service: %w", err)
	}

	r.spotify = svc
	return svc, nil
}

// ensureAuthenticated installs the persisted token on the service and wires
// the refresh callback so renewed tokens land back in config.toml.
func (r *Runner) ensureAuthenticated(ctx context.Context, configPath string) error {
	svc, err := r.ensureService()
	if err != nil {
		return err
	}

	token := r.config.Credentials.Spotify.Token()
	if token == nil {
		return fmt.Errorf("%w: run 'radar auth' first", shared.ErrNotAuthenticated)
	}

	if concrete, ok := svc.(*services.SpotifyService); ok {
		concrete.SetTokenRefreshCallback(func(refreshed *oauth2.Token) {
			if err := r.config.Credentials.Spotify.Update(refreshed); err != nil {
				r.logger.Warnf("failed to stage refreshed token %v", err)
				return
			}
			if err := shared.SaveConfig(configPath, r.config); err != nil {
				r.logger.Warnf("failed to persist refreshed token %v", err)
			}
		})
	}

	return svc.Authenticate(ctx, token)
}

// ensureStore opens the SQLite database and repositories, running migrations as needed.
func (r *Runner) ensureStore() error {
	if r.db != nil {
		return nil
	}

	dbConf := r.config.Database
	if dbConf.Path == "" {
		dbConf.Path = "radar.db"
	}

	db, err := shared.NewDatabase(dbConf.Path)
	if err != nil {
		return err
	}
	shared.ConfigureDatabase(db, dbConf.MaxOpenConns, dbConf.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.db = db
	r.seen = repositories.NewSeenRepository(db)
	r.runs = repositories.NewRunRepository(db)
	return nil
}

// engine builds a radar engine over the current service and seen store.
func (r *Runner) engine() *radar.Engine {
	var store radar.SeenStore
	if r.seen != nil {
		store = r.seen
	}
	return radar.NewEngine(r.spotify, store)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
