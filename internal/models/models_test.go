package models

import (
	"testing"
	"time"
)

func TestRelease(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("ReleaseTime", func(t *testing.T) {
		t.Run("day precision", func(t *testing.T) {
			r := Release{ReleaseDate: "2025-06-10", Precision: PrecisionDay}
			parsed, err := r.ReleaseTime()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if parsed.Year() != 2025 || parsed.Month() != time.June || parsed.Day() != 10 {
				t.Errorf("unexpected time: %v", parsed)
			}
		})

		t.Run("month precision", func(t *testing.T) {
			r := Release{ReleaseDate: "2025-06", Precision: PrecisionMonth}
			parsed, err := r.ReleaseTime()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if parsed.Month() != time.June {
				t.Errorf("unexpected month: %v", parsed.Month())
			}
		})

		t.Run("year precision", func(t *testing.T) {
			r := Release{ReleaseDate: "2025", Precision: PrecisionYear}
			parsed, err := r.ReleaseTime()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if parsed.Year() != 2025 {
				t.Errorf("unexpected year: %v", parsed.Year())
			}
		})

		t.Run("garbage date returns error", func(t *testing.T) {
			r := Release{ReleaseDate: "not-a-date", Precision: PrecisionDay}
			if _, err := r.ReleaseTime(); err == nil {
				t.Error("expected error for unparseable date")
			}
		})
	})

	t.Run("Recent", func(t *testing.T) {
		t.Run("inside window", func(t *testing.T) {
			r := Release{ReleaseDate: "2025-06-12", Precision: PrecisionDay}
			if !r.Recent(now, 7) {
				t.Error("expected release 3 days back to be recent")
			}
		})

		t.Run("window boundary is inclusive", func(t *testing.T) {
			r := Release{ReleaseDate: "2025-06-08", Precision: PrecisionDay}
			if !r.Recent(now, 7) {
				t.Error("expected release exactly 7 days back to be recent")
			}
		})

		t.Run("outside window", func(t *testing.T) {
			r := Release{ReleaseDate: "2025-06-01", Precision: PrecisionDay}
			if r.Recent(now, 7) {
				t.Error("expected release 14 days back to not be recent")
			}
		})

		t.Run("month precision never qualifies", func(t *testing.T) {
			r := Release{ReleaseDate: "2025-06", Precision: PrecisionMonth}
			if r.Recent(now, 7) {
				t.Error("expected month-precision date to not be recent")
			}
		})

		t.Run("year precision never qualifies", func(t *testing.T) {
			r := Release{ReleaseDate: "2025", Precision: PrecisionYear}
			if r.Recent(now, 365) {
				t.Error("expected year-precision date to not be recent")
			}
		})

		t.Run("missing precision falls back to date format", func(t *testing.T) {
			r := Release{ReleaseDate: "2025-06-12"}
			if !r.Recent(now, 7) {
				t.Error("expected day-formatted date without precision to be recent")
			}
		})

		t.Run("unparseable date never qualifies", func(t *testing.T) {
			r := Release{ReleaseDate: "soon", Precision: PrecisionDay}
			if r.Recent(now, 7) {
				t.Error("expected unparseable date to not be recent")
			}
		})
	})
}

func TestSeenRelease(t *testing.T) {
	t.Run("NewSeenRelease copies release fields", func(t *testing.T) {
		release := Release{
			ID:          "rel1",
			Name:        "Midnight Sessions",
			ArtistID:    "art1",
			ArtistName:  "The Night Owls",
			Type:        ReleaseTypeAlbum,
			ReleaseDate: "2025-06-12",
		}

		seen := NewSeenRelease(release)
		if seen.ReleaseID != "rel1" {
			t.Errorf("expected release ID rel1, got %s", seen.ReleaseID)
		}
		if seen.AlbumName != "Midnight Sessions" {
			t.Errorf("expected album name to be copied, got %s", seen.AlbumName)
		}
		if seen.CreatedAt.IsZero() {
			t.Error("expected created at to be set")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		t.Run("requires release ID", func(t *testing.T) {
			seen := SeenRelease{ArtistID: "art1"}
			if err := seen.Validate(); err == nil {
				t.Error("expected error for missing release ID")
			}
		})

		t.Run("requires artist ID", func(t *testing.T) {
			seen := SeenRelease{ReleaseID: "rel1"}
			if err := seen.Validate(); err == nil {
				t.Error("expected error for missing artist ID")
			}
		})

		t.Run("accepts complete record", func(t *testing.T) {
			seen := SeenRelease{ReleaseID: "rel1", ArtistID: "art1"}
			if err := seen.Validate(); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	})
}

func TestRunRecord(t *testing.T) {
	started := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("requires positive window", func(t *testing.T) {
		record := RunRecord{StartedAt: started, FinishedAt: started.Add(time.Minute)}
		if err := record.Validate(); err == nil {
			t.Error("expected error for zero window")
		}
	})

	t.Run("rejects finish before start", func(t *testing.T) {
		record := RunRecord{WindowDays: 7, StartedAt: started, FinishedAt: started.Add(-time.Minute)}
		if err := record.Validate(); err == nil {
			t.Error("expected error for finish before start")
		}
	})

	t.Run("accepts complete record", func(t *testing.T) {
		record := RunRecord{WindowDays: 7, StartedAt: started, FinishedAt: started.Add(time.Minute)}
		if err := record.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
