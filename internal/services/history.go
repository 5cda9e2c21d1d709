package services

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const HistoryFileName = "history.db"

// RunRecord is one completed scan in the history ledger.
type RunRecord struct {
	ID             int64
	RootPath       string
	StartedAt      time.Time
	Duration       time.Duration
	TotalScore     int
	TotalLines     int
	FilesProcessed int
	SnapshotPath   string
}

// HistoryStore keeps the run ledger in a SQLite database.
type HistoryStore struct {
	db *sql.DB
}

// OpenHistoryStore opens/creates the database at dbPath.
func OpenHistoryStore(dbPath string) (*HistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	store := &HistoryStore{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *HistoryStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS w8_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		root_path TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		total_score INTEGER NOT NULL,
		total_lines INTEGER NOT NULL,
		files_processed INTEGER NOT NULL,
		snapshot_path TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_w8_runs_started ON w8_runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the underlying database handle.
func (s *HistoryStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *HistoryStore) Record(run RunRecord) (int64, error) {
	if run.RootPath == "" {
		return 0, errors.New("run root path required")
	}
	res, err := s.db.Exec(`
	INSERT INTO w8_runs (
		root_path, started_at, duration_ms, total_score, total_lines,
		files_processed, snapshot_path
	) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.RootPath,
		run.StartedAt.UnixNano(),
		run.Duration.Milliseconds(),
		run.TotalScore,
		run.TotalLines,
		run.FilesProcessed,
		run.SnapshotPath,
	)
	if err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit runs, newest first.
func (s *HistoryStore) Recent(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`
	SELECT id, root_path, started_at, duration_ms, total_score, total_lines,
		files_processed, snapshot_path
	FROM w8_runs
	ORDER BY started_at DESC, id DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var (
			run        RunRecord
			startedAt  int64
			durationMs int64
			snapshot   sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.RootPath, &startedAt, &durationMs,
			&run.TotalScore, &run.TotalLines, &run.FilesProcessed, &snapshot); err != nil {
			return nil, err
		}
		run.StartedAt = time.Unix(0, startedAt)
		run.Duration = time.Duration(durationMs) * time.Millisecond
		run.SnapshotPath = snapshot.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
