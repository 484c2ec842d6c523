// Package catalog keeps a SQLite history of extraction runs.
package catalog

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tsawler/pdfextract/model"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Status is the outcome of a run
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Run is one extraction of one file
type Run struct {
	ID         string
	SourcePath string
	OutputDir  string
	Strategy   string
	StartedAt  time.Time
	FinishedAt time.Time
	Statistics model.Statistics
	Warnings   int
	Status     Status
	Error      string
}

// FileName returns the base name of the source file
func (r Run) FileName() string {
	return filepath.Base(r.SourcePath)
}

// Duration returns how long the run took
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Catalog is the run history database
type Catalog struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path and applies pending
// migrations. The parent directory is created if needed.
func Open(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	c := &Catalog{db: db, path: path}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return c, nil
}

// Close closes the database
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Path returns the database file path
func (c *Catalog) Path() string {
	return c.path
}

func (c *Catalog) migrate() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := c.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= current {
			continue
		}

		content, err := fs.ReadFile(migrations, "migrations/"+name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		tx, err := c.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// Record stores a run, assigning an ID when it has none
func (c *Catalog) Record(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Status == "" {
		return errors.New("run status is required")
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO runs (id, source_path, file_name, output_dir, strategy, started_at, finished_at,
			text_blocks, titles, images, tables, warnings, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.SourcePath, run.FileName(), run.OutputDir, run.Strategy,
		run.StartedAt.UnixNano(), run.FinishedAt.UnixNano(),
		run.Statistics.TextBlocks, run.Statistics.Titles, run.Statistics.Images, run.Statistics.Tables,
		run.Warnings, string(run.Status), run.Error,
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

const selectRuns = `
	SELECT id, source_path, output_dir, strategy, started_at, finished_at,
		text_blocks, titles, images, tables, warnings, status, error
	FROM runs`

// Recent returns up to limit runs, newest first
func (c *Catalog) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := c.db.QueryContext(ctx, selectRuns+" ORDER BY started_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	return scanRuns(rows)
}

// ByFile returns every run of files with the given base name, newest first
func (c *Catalog) ByFile(ctx context.Context, name string) ([]Run, error) {
	rows, err := c.db.QueryContext(ctx, selectRuns+" WHERE file_name = ? ORDER BY started_at DESC", filepath.Base(name))
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                 Run
			status            string
			started, finished int64
		)
		err := rows.Scan(&r.ID, &r.SourcePath, &r.OutputDir, &r.Strategy, &started, &finished,
			&r.Statistics.TextBlocks, &r.Statistics.Titles, &r.Statistics.Images, &r.Statistics.Tables,
			&r.Warnings, &status, &r.Error)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Status = Status(status)
		r.StartedAt = time.Unix(0, started)
		r.FinishedAt = time.Unix(0, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
