// Package runstore provides SQLite-backed run history. Every pipeline
// run is recorded so `sad-cli history` can show what was rendered, with
// which settings, and where the video ended up.
package runstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/t2ne/sad-cli/internal/pipeline"
	_ "modernc.org/sqlite"
)

// Store persists run records
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating database dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun inserts a new run record
func (s *Store) SaveRun(r *pipeline.RunRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (id, mode, text, image_path, audio_path, preprocess, size, batch_size, enhancer, status, video_path, error_message, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID,
		r.Mode,
		r.Text,
		r.ImagePath,
		r.AudioPath,
		r.Preprocess,
		r.Size,
		r.BatchSize,
		r.Enhancer,
		r.Status,
		r.VideoPath,
		r.ErrorMessage,
		r.StartedAt,
	)
	return err
}

// FinishRun records the terminal status of a run
func (s *Store) FinishRun(id, status, videoPath, errMsg string) error {
	_, err := s.db.Exec(`
		UPDATE runs SET status = ?, video_path = ?, error_message = ?, finished_at = ?
		WHERE id = ?
	`, status, videoPath, errMsg, time.Now(), id)
	return err
}

// ListRecent returns the most recently started runs, newest first
func (s *Store) ListRecent(limit int) ([]*pipeline.RunRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, mode, text, image_path, audio_path, preprocess, size, batch_size, enhancer, status, video_path, error_message, started_at, finished_at
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*pipeline.RunRecord
	for rows.Next() {
		r := &pipeline.RunRecord{}
		var finished sql.NullTime
		err := rows.Scan(
			&r.ID,
			&r.Mode,
			&r.Text,
			&r.ImagePath,
			&r.AudioPath,
			&r.Preprocess,
			&r.Size,
			&r.BatchSize,
			&r.Enhancer,
			&r.Status,
			&r.VideoPath,
			&r.ErrorMessage,
			&r.StartedAt,
			&finished,
		)
		if err != nil {
			return nil, err
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun retrieves one run by ID
func (s *Store) GetRun(id string) (*pipeline.RunRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, mode, text, image_path, audio_path, preprocess, size, batch_size, enhancer, status, video_path, error_message, started_at, finished_at
		FROM runs WHERE id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("run not found: %s", id)
	}

	r := &pipeline.RunRecord{}
	var finished sql.NullTime
	err = rows.Scan(
		&r.ID,
		&r.Mode,
		&r.Text,
		&r.ImagePath,
		&r.AudioPath,
		&r.Preprocess,
		&r.Size,
		&r.BatchSize,
		&r.Enhancer,
		&r.Status,
		&r.VideoPath,
		&r.ErrorMessage,
		&r.StartedAt,
		&finished,
	)
	if err != nil {
		return nil, err
	}
	if finished.Valid {
		t := finished.Time
		r.FinishedAt = &t
	}
	return r, nil
}
