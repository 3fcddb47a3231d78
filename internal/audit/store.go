package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"fwbids/internal/convert"
)

// Store manages audit persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Run is one recorded curation invocation.
type Run struct {
	ID         string
	Project    string
	Heuristic  string
	DryRun     bool
	Status     string
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Action is one recorded per-file organization action.
type Action struct {
	RunID         string
	Key           string
	AcquisitionID string
	FileName      string
	Destination   string
	Applied       bool
}

// Open initializes or connects to the audit database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("audit db path must not be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure audit directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) applyMigrations(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
            id TEXT PRIMARY KEY,
            project TEXT NOT NULL,
            heuristic TEXT NOT NULL,
            dry_run INTEGER NOT NULL,
            status TEXT NOT NULL,
            error TEXT NOT NULL DEFAULT '',
            started_at TEXT NOT NULL,
            finished_at TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE TABLE IF NOT EXISTS actions (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            run_id TEXT NOT NULL REFERENCES runs(id),
            destination_key TEXT NOT NULL,
            acquisition_id TEXT NOT NULL,
            file_name TEXT NOT NULL,
            destination TEXT NOT NULL,
            applied INTEGER NOT NULL,
            created_at TEXT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_actions_run ON actions(run_id)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply audit schema: %w", err)
		}
	}
	return nil
}

// BeginRun records the start of a curation run.
func (s *Store) BeginRun(ctx context.Context, id, project, heuristicRef string, dryRun bool) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, project, heuristic, dry_run, status, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, project, heuristicRef, boolToInt(dryRun), "running", now,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordActions stores the actions performed for one destination key.
func (s *Store) RecordActions(ctx context.Context, runID, key string, actions []convert.Action, applied bool) error {
	if len(actions) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin actions tx: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, action := range actions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO actions (run_id, destination_key, acquisition_id, file_name, destination, applied, created_at)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, key, action.AcquisitionID, action.FileName, action.Destination, boolToInt(applied), now,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert action: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit actions: %w", err)
	}
	return nil
}

// FinishRun marks a run completed or failed.
func (s *Store) FinishRun(ctx context.Context, runID string, runErr error) error {
	status := "completed"
	message := ""
	if runErr != nil {
		status = "failed"
		message = runErr.Error()
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, error = ?, finished_at = ? WHERE id = ?`,
		status, message, now, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// GetRun fetches one run by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, project, heuristic, dry_run, status, error, started_at, finished_at FROM runs WHERE id = ?`, runID)

	var run Run
	var dryRun int
	var started, finished string
	if err := row.Scan(&run.ID, &run.Project, &run.Heuristic, &dryRun, &run.Status, &run.Error, &started, &finished); err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.DryRun = dryRun != 0
	run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
	if finished != "" {
		run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
	}
	return &run, nil
}

// RunActions returns the recorded actions of a run in insertion order.
func (s *Store) RunActions(ctx context.Context, runID string) ([]Action, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, destination_key, acquisition_id, file_name, destination, applied
         FROM actions WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	var actions []Action
	for rows.Next() {
		var action Action
		var applied int
		if err := rows.Scan(&action.RunID, &action.Key, &action.AcquisitionID, &action.FileName, &action.Destination, &applied); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		action.Applied = applied != 0
		actions = append(actions, action)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}
	return actions, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
