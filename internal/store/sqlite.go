// Package store persists match runs and their results to SQLite so a run
// can be inspected after the fact. It is an output sink like the file
// writers; the matching core never touches it.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/company-match/internal/model"
)

// SQLiteStore writes runs and results using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS match_runs (
	id          TEXT PRIMARY KEY,
	options     TEXT NOT NULL,
	queries     INTEGER NOT NULL,
	matches     INTEGER NOT NULL,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS match_results (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL REFERENCES match_runs(id),
	query_name    TEXT NOT NULL,
	query_phone   TEXT,
	ref_source    TEXT NOT NULL,
	ref_name      TEXT NOT NULL,
	ref_phone     TEXT,
	score         REAL NOT NULL,
	kind          TEXT NOT NULL,
	phone_matched INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_match_results_run_id ON match_results(run_id);
CREATE INDEX IF NOT EXISTS idx_match_results_query ON match_results(query_name);
`

// Migrate creates the schema if it does not exist yet.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Run describes one persisted matching run.
type Run struct {
	ID         string
	Options    map[string]any
	Queries    int
	StartedAt  time.Time
	FinishedAt time.Time
}

// SaveRun persists a run and its results in one transaction and returns
// the run id (generated when empty).
func (s *SQLiteStore) SaveRun(ctx context.Context, run Run, results []model.MatchResult) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	optJSON, err := json.Marshal(run.Options)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: marshal options")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO match_runs (id, options, queries, matches, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, string(optJSON), run.Queries, len(results), run.StartedAt.UTC(), run.FinishedAt.UTC())
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert run")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO match_results
		 (run_id, query_name, query_phone, ref_source, ref_name, ref_phone, score, kind, phone_matched)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: prepare results insert")
	}
	defer stmt.Close() //nolint:errcheck

	for _, r := range results {
		_, err := stmt.ExecContext(ctx,
			run.ID, r.QueryName, r.QueryPhone,
			string(r.RefSource), r.RefName, r.RefPhone,
			r.Score, r.Kind.String(), boolToInt(r.PhoneMatched))
		if err != nil {
			return "", eris.Wrap(err, "sqlite: insert result")
		}
	}

	if err := tx.Commit(); err != nil {
		return "", eris.Wrap(err, "sqlite: commit")
	}
	return run.ID, nil
}

// ResultsByRun loads the stored results of one run in insertion order.
func (s *SQLiteStore) ResultsByRun(ctx context.Context, runID string) ([]model.MatchResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT query_name, query_phone, ref_source, ref_name, ref_phone, score, kind, phone_matched
		 FROM match_results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query results")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.MatchResult
	for rows.Next() {
		var (
			r            model.MatchResult
			kind         string
			phoneMatched int
			source       string
		)
		if err := rows.Scan(&r.QueryName, &r.QueryPhone, &source, &r.RefName, &r.RefPhone, &r.Score, &kind, &phoneMatched); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan result")
		}
		r.RefSource = model.Source(source)
		r.Kind = kindFromLabel(kind)
		r.PhoneMatched = phoneMatched != 0
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate results")
}

func kindFromLabel(label string) model.MatchKind {
	switch label {
	case "EXACT":
		return model.MatchExact
	case "NORMALIZED":
		return model.MatchNormalized
	case "PHONE":
		return model.MatchPhone
	default:
		return model.MatchSimilarity
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
