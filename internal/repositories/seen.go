package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"radar/internal/models"
	"radar/internal/shared"
)

// SeenRepository persists releases that were already added to a playlist.
//
// Implements radar.SeenStore. Duplicate releases are silently ignored
// (UNIQUE constraint on release_id).
type SeenRepository struct {
	db *sql.DB
}

// NewSeenRepository creates a new SeenRepository with the given database connection
func NewSeenRepository(db *sql.DB) *SeenRepository {
	return &SeenRepository{db: db}
}

// Record inserts a seen release. Returns nil when the release was recorded
// on an earlier run (deduplication); only actual failures surface as errors.
func (r *SeenRepository) Record(seen models.SeenRelease) error {
	if err := seen.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if seen.ID == "" {
		seen.ID = shared.GenerateID()
	}

	query := `
		INSERT INTO seen_releases (id, release_id, artist_id, artist_name, album_name, release_date, release_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		seen.ID,
		seen.ReleaseID,
		seen.ArtistID,
		seen.ArtistName,
		seen.AlbumName,
		seen.ReleaseDate,
		seen.ReleaseType,
		seen.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to record seen release: %w", err)
	}

	return nil
}

// Exists reports whether a release ID has been recorded.
func (r *SeenRepository) Exists(releaseID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow("SELECT EXISTS(SELECT 1 FROM seen_releases WHERE release_id = ?)", releaseID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check seen release: %w", err)
	}
	return exists, nil
}

// ListByArtist retrieves the seen releases for one artist, newest first.
func (r *SeenRepository) ListByArtist(artistID string) ([]models.SeenRelease, error) {
	query := `
		SELECT id, release_id, artist_id, artist_name, album_name, release_date, release_type, created_at
		FROM seen_releases
		WHERE artist_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, artistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seen releases: %w", err)
	}
	defer rows.Close()

	return scanSeenRows(rows)
}

// Count returns the number of recorded releases.
func (r *SeenRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM seen_releases").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count seen releases: %w", err)
	}
	return count, nil
}

func scanSeenRows(rows *sql.Rows) ([]models.SeenRelease, error) {
	var seen []models.SeenRelease
	for rows.Next() {
		var s models.SeenRelease
		if err := rows.Scan(
			&s.ID,
			&s.ReleaseID,
			&s.ArtistID,
			&s.ArtistName,
			&s.AlbumName,
			&s.ReleaseDate,
			&s.ReleaseType,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan seen release: %w", err)
		}
		seen = append(seen, s)
	}
	return seen, rows.Err()
}
