package repositories

import (
	"database/sql"
	"fmt"

	"radar/internal/models"
	"radar/internal/shared"
)

// RunRepository persists one record per radar invocation.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new [models.RunRecord] with a generated ID.
func (r *RunRepository) Create(record *models.RunRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if record.ID == "" {
		record.ID = shared.GenerateID()
	}

	query := `
		INSERT INTO runs (id, started_at, finished_at, window_days, artist_count, release_count, track_count, playlist_id, playlist_name, playlist_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		record.ID,
		record.StartedAt,
		record.FinishedAt,
		record.WindowDays,
		record.ArtistCount,
		record.ReleaseCount,
		record.TrackCount,
		record.PlaylistID,
		record.PlaylistName,
		record.PlaylistURL,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID.
func (r *RunRepository) Get(id string) (*models.RunRecord, error) {
	query := `
		SELECT id, started_at, finished_at, window_days, artist_count, release_count, track_count, playlist_id, playlist_name, playlist_url
		FROM runs
		WHERE id = ?
	`

	record, err := scanRun(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	return record, err
}

// List retrieves runs, newest first, capped at limit (0 means no cap).
func (r *RunRepository) List(limit int) ([]models.RunRecord, error) {
	query := `
		SELECT id, started_at, finished_at, window_days, artist_count, release_count, track_count, playlist_id, playlist_name, playlist_url
		FROM runs
		ORDER BY started_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []models.RunRecord
	for rows.Next() {
		var rec models.RunRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.StartedAt,
			&rec.FinishedAt,
			&rec.WindowDays,
			&rec.ArtistCount,
			&rec.ReleaseCount,
			&rec.TrackCount,
			&rec.PlaylistID,
			&rec.PlaylistName,
			&rec.PlaylistURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func scanRun(row *sql.Row) (*models.RunRecord, error) {
	var rec models.RunRecord
	err := row.Scan(
		&rec.ID,
		&rec.StartedAt,
		&rec.FinishedAt,
		&rec.WindowDays,
		&rec.ArtistCount,
		&rec.ReleaseCount,
		&rec.TrackCount,
		&rec.PlaylistID,
		&rec.PlaylistName,
		&rec.PlaylistURL,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
