package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun persists a run and its per-file stats in one transaction.
// A missing run ID is filled in and the final ID is returned.
func (s *Store) SaveRun(run Run, files []FileStat) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.ProjectKey == "" {
		run.ProjectKey = "default"
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}

	err := s.withRetry("save run", func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
INSERT INTO runs (
  id, project_key, ts_utc, duration_ms, file_count, module_count,
  class_count, property_count, method_count, warning_count
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			run.ProjectKey,
			run.Timestamp.UTC().Format(time.RFC3339Nano),
			run.Duration.Milliseconds(),
			run.FileCount,
			run.ModuleCount,
			run.ClassCount,
			run.PropertyCount,
			run.MethodCount,
			run.WarningCount,
		)
		if err != nil {
			_ = tx.Rollback()
			return err
		}

		for _, f := range files {
			_, err := tx.Exec(`
INSERT INTO run_files (
  run_id, path, language, class_count, property_count, method_count, warning_count
) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				run.ID, f.Path, f.Language, f.ClassCount, f.PropertyCount, f.MethodCount, f.WarningCount,
			)
			if err != nil {
				_ = tx.Rollback()
				return err
			}
		}

		return tx.Commit()
	})
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

// LoadRuns returns runs for a project ordered oldest first, optionally
// limited to runs at or after since.
func (s *Store) LoadRuns(projectKey string, since time.Time) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if projectKey == "" {
		projectKey = "default"
	}

	query := `
SELECT id, project_key, ts_utc, duration_ms, file_count, module_count,
  class_count, property_count, method_count, warning_count
FROM runs
WHERE project_key = ?`
	args := []any{projectKey}
	if !since.IsZero() {
		query += " AND ts_utc >= ?"
		args = append(args, since.UTC().Format(time.RFC3339Nano))
	}
	query += " ORDER BY ts_utc ASC, id ASC"

	var rows *sql.Rows
	err := s.withRetry("load runs", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var (
			tsRaw      string
			durationMS int64
			run        Run
		)
		if err := rows.Scan(
			&run.ID,
			&run.ProjectKey,
			&tsRaw,
			&durationMS,
			&run.FileCount,
			&run.ModuleCount,
			&run.ClassCount,
			&run.PropertyCount,
			&run.MethodCount,
			&run.WarningCount,
		); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}

		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", tsRaw, err)
		}
		run.Timestamp = ts.UTC()
		run.Duration = time.Duration(durationMS) * time.Millisecond

		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}

	return runs, nil
}

// LoadFileStats returns the per-file stats recorded for a run.
func (s *Store) LoadFileStats(runID string) ([]FileStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows *sql.Rows
	err := s.withRetry("load file stats", func() error {
		var qErr error
		rows, qErr = s.db.Query(`
SELECT run_id, path, language, class_count, property_count, method_count, warning_count
FROM run_files
WHERE run_id = ?
ORDER BY path ASC`, runID)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]FileStat, 0)
	for rows.Next() {
		var f FileStat
		if err := rows.Scan(
			&f.RunID, &f.Path, &f.Language,
			&f.ClassCount, &f.PropertyCount, &f.MethodCount, &f.WarningCount,
		); err != nil {
			return nil, fmt.Errorf("scan file stat row: %w", err)
		}
		stats = append(stats, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file stat rows: %w", err)
	}

	return stats, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}
