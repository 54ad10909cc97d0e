package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/LeCongThuong/facescape/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/LeCongThuong/facescape/internal/core/domain"
	"github.com/LeCongThuong/facescape/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.RunStore = (*Store)(nil)

// Store is a SQLite-based run ledger.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.headgen/data/runs.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".headgen", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "runs.db")

	// Pragmas in the DSN apply to every pooled connection. WAL lets workers
	// record concurrently.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Runs ====================

const runColumns = `id, model_path, output_path, material_dir, manifest_path, start_idx, end_idx,
	seed, workers, expression_mode, layout, started_at, ended_at, succeeded, failed, skipped`

// SaveRun creates or updates a run.
func (s *Store) SaveRun(ctx context.Context, run domain.Run) error {
	var endedAt any
	if run.EndedAt != nil {
		endedAt = formatTime(*run.EndedAt)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			ended_at = excluded.ended_at,
			succeeded = excluded.succeeded,
			failed = excluded.failed,
			skipped = excluded.skipped
	`, run.ID, run.ModelPath, run.OutputPath, run.MaterialDir, nullString(run.ManifestPath),
		run.StartIdx, run.EndIdx, strconv.FormatUint(run.Seed, 10), run.Workers,
		run.ExpressionMode.String(), run.Layout.String(), formatTime(run.StartedAt), endedAt,
		run.Succeeded, run.Failed, run.Skipped)

	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns the most recent runs first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+` FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// ==================== Identities ====================

// RecordIdentity stores the outcome of one identity.
func (s *Store) RecordIdentity(ctx context.Context, result domain.IdentityResult) error {
	files := result.Files
	if files == nil {
		files = []string{}
	}
	filesJSON, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("marshalling files: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO identities (run_id, idx, status, material_path, displacement_path, files, error, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, idx) DO UPDATE SET
			status = excluded.status,
			material_path = excluded.material_path,
			displacement_path = excluded.displacement_path,
			files = excluded.files,
			error = excluded.error,
			duration_ms = excluded.duration_ms
	`, result.RunID, result.Index, string(result.Status),
		nullString(result.MaterialPath), nullString(result.DisplacementPath),
		string(filesJSON), nullString(result.Error), result.Duration.Milliseconds())

	if err != nil {
		return fmt.Errorf("recording identity: %w", err)
	}
	return nil
}

// ListIdentities returns the identities of a run ordered by index.
func (s *Store) ListIdentities(ctx context.Context, runID string) ([]domain.IdentityResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, idx, status, material_path, displacement_path, files, error, duration_ms
		FROM identities
		WHERE run_id = ?
		ORDER BY idx
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying identities: %w", err)
	}
	defer rows.Close()

	var results []domain.IdentityResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		var res domain.IdentityResult
		var status, filesJSON string
		var materialPath, displacementPath, errMsg sql.NullString
		var durationMS int64
		if err := rows.Scan(&res.RunID, &res.Index, &status, &materialPath, &displacementPath,
			&filesJSON, &errMsg, &durationMS); err != nil {
			return nil, fmt.Errorf("scanning identity: %w", err)
		}
		if err := json.Unmarshal([]byte(filesJSON), &res.Files); err != nil {
			return nil, fmt.Errorf("unmarshaling files: %w", err)
		}
		res.Status = domain.IdentityStatus(status)
		res.MaterialPath = materialPath.String
		res.DisplacementPath = displacementPath.String
		res.Error = errMsg.String
		res.Duration = time.Duration(durationMS) * time.Millisecond
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating identities: %w", err)
	}
	return results, nil
}

// ==================== Helper Functions ====================

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*domain.Run, error) {
	var run domain.Run
	var manifestPath, endedAt sql.NullString
	var seed, mode, layout, startedAt string

	err := row.Scan(&run.ID, &run.ModelPath, &run.OutputPath, &run.MaterialDir, &manifestPath,
		&run.StartIdx, &run.EndIdx, &seed, &run.Workers, &mode, &layout, &startedAt, &endedAt,
		&run.Succeeded, &run.Failed, &run.Skipped)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	if run.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return nil, fmt.Errorf("parsing seed: %w", err)
	}
	run.ManifestPath = manifestPath.String
	run.ExpressionMode = domain.ExpressionMode(mode)
	run.Layout = domain.TextureLayout(layout)
	run.StartedAt = parseTime(startedAt)
	if endedAt.Valid && endedAt.String != "" {
		t := parseTime(endedAt.String)
		run.EndedAt = &t
	}
	return &run, nil
}

// timeLayout keeps a fixed-width fraction so stored text sorts chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTime stores timestamps as sortable UTC text.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime returns zero time on parse error.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
