package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"radar/internal/models"
	"radar/internal/radar"
	"radar/internal/shared"
	tu "radar/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("loadConfig", func(t *testing.T) {
		t.Run("loads existing file", func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "config.toml")
			content := `[radar]
days = 21
`
			if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})
			config := runner.loadConfig(configPath)

			if config.Radar.Days != 21 {
				t.Errorf("expected 21 day window from file, got %d", config.Radar.Days)
			}
		})

		t.Run("falls back to held config for missing file", func(t *testing.T) {
			held := shared.DefaultConfig()
			held.Radar.Days = 3

			runner := NewRunner(RunnerOpts{Config: held, Output: &bytes.Buffer{}})
			config := runner.loadConfig(filepath.Join(t.TempDir(), "missing.toml"))

			if config.Radar.Days != 3 {
				t.Errorf("expected held config, got %d day window", config.Radar.Days)
			}
		})
	})

	t.Run("ensureService", func(t *testing.T) {
		t.Run("fails without credentials", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			if _, err := runner.ensureService(); err == nil {
				t.Error("expected error without credentials")
			}
		})

		t.Run("builds service from configured credentials", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Credentials.Spotify.ClientID = "id"
			config.Credentials.Spotify.ClientSecret = "secret"

			runner := NewRunner(RunnerOpts{Config: config, Output: &bytes.Buffer{}})

			svc, err := runner.ensureService()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if svc == nil {
				t.Fatal("expected service")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes compact JSON", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got := output.String()
			if !strings.Contains(got, `"key":"value"`) {
				t.Errorf("unexpected output: %s", got)
			}
			if !strings.HasSuffix(got, "\n") {
				t.Error("expected trailing newline")
			}
		})

		t.Run("writes pretty JSON", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !strings.Contains(output.String(), "  \"key\"") {
				t.Errorf("expected indented output, got %s", output.String())
			}
		})

		t.Run("propagates write failures", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writeJSON(map[string]string{}, false); err == nil {
				t.Error("expected error from failing writer")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("found %d releases\n", 3); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.String() != "found 3 releases\n" {
			t.Errorf("unexpected output: %q", output.String())
		}
	})

	t.Run("printScanReport", func(t *testing.T) {
		t.Run("empty scan", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			runner.printScanReport(&radar.ScanResult{})

			if !strings.Contains(output.String(), "No new releases") {
				t.Errorf("unexpected output: %s", output.String())
			}
		})

		t.Run("lists releases and totals", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			runner.printScanReport(&radar.ScanResult{
				StartedAt:   time.Now(),
				ArtistCount: 12,
				Releases: []models.Release{
					{ID: "rel1", Name: "Midnight Sessions", ArtistName: "The Night Owls", Type: models.ReleaseTypeAlbum, ReleaseDate: "2025-06-12", TotalTracks: 2},
				},
				Tracks:      []models.Track{{ID: "t1"}, {ID: "t2"}},
				SkippedSeen: 1,
			})

			got := output.String()
			if !strings.Contains(got, "The Night Owls - Midnight Sessions") {
				t.Errorf("expected release line, got %s", got)
			}
			if !strings.Contains(got, "Total tracks: 2") {
				t.Errorf("expected track total, got %s", got)
			}
			if !strings.Contains(got, "Skipped (already collected): 1") {
				t.Errorf("expected skipped count, got %s", got)
			}
		})
	})

	t.Run("ensureStore", func(t *testing.T) {
		tmpDir := t.TempDir()
		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(tmpDir, "radar.db")

		runner := NewRunner(RunnerOpts{Config: config, Output: &bytes.Buffer{}})

		if err := runner.ensureStore(); err != nil {
			t.Fatalf("failed to open store: %v", err)
		}
		defer runner.db.Close()

		if runner.seen == nil || runner.runs == nil {
			t.Error("expected repositories to be initialized")
		}

		// Second call reuses the open handle.
		db := runner.db
		if err := runner.ensureStore(); err != nil {
			t.Fatalf("unexpected error on second call: %v", err)
		}
		if runner.db != db {
			t.Error("expected database handle to be reused")
		}
	})
}
