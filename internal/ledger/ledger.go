// Package ledger records filter runs in a SQLite database so that past
// outputs can be traced back to their input, options and digests.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arafalov/uncorpora/core/errors"
	"github.com/arafalov/uncorpora/core/pipeline"
	"github.com/arafalov/uncorpora/core/sqlite"
	"github.com/arafalov/uncorpora/internal/digest"
)

// Status is the outcome of a run.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Settings are the filter options a run used.
type Settings struct {
	Langs     []string `json:"langs"`
	NoVote    bool     `json:"novote"`
	Plaintext bool     `json:"plaintext"`
	Sessions  []string `json:"sessions,omitempty"`
}

// Run is one invocation of the filter.
type Run struct {
	ID         string            `json:"id"`
	Input      string            `json:"input"`
	Output     string            `json:"output"`
	Settings   Settings          `json:"settings"`
	Stats      pipeline.Stats    `json:"stats"`
	Digest     digest.HashResult `json:"digest"`
	Bytes      int64             `json:"bytes"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Status     Status            `json:"status"`
	Error      string            `json:"error,omitempty"`
}

// Duration returns how long the run took.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	input       TEXT NOT NULL,
	output      TEXT NOT NULL,
	langs       TEXT NOT NULL,
	novote      INTEGER NOT NULL,
	plaintext   INTEGER NOT NULL,
	sessions    TEXT NOT NULL,
	units       INTEGER NOT NULL,
	dropped     INTEGER NOT NULL,
	variants    INTEGER NOT NULL,
	footnotes   INTEGER NOT NULL,
	markers     INTEGER NOT NULL,
	events_in   INTEGER NOT NULL,
	events_out  INTEGER NOT NULL,
	sha256      TEXT NOT NULL,
	blake3      TEXT NOT NULL,
	bytes_out   INTEGER NOT NULL,
	started_at  INTEGER NOT NULL,
	finished_at INTEGER NOT NULL,
	status      TEXT NOT NULL,
	error       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_started_at ON runs (started_at);
`

const columns = `id, input, output, langs, novote, plaintext, sessions,
	units, dropped, variants, footnotes, markers, events_in, events_out,
	sha256, blake3, bytes_out, started_at, finished_at, status, error`

// Ledger is a handle on a run database.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the run database at path.
func Open(ctx context.Context, path string) (*Ledger, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, errors.NewIO("open ledger", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.NewIO("create ledger schema", path, err)
	}
	return &Ledger{db: db}, nil
}

// OpenReadOnly opens an existing run database without write access.
func OpenReadOnly(path string) (*Ledger, error) {
	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, errors.NewIO("open ledger", path, err)
	}
	return &Ledger{db: db}, nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// NewID returns a fresh run ID.
func NewID() string {
	return uuid.New().String()
}

// Record stores run. An empty ID is filled in; the ID used is returned.
func (l *Ledger) Record(ctx context.Context, run *Run) (string, error) {
	if run.ID == "" {
		run.ID = NewID()
	}
	if run.Status == "" {
		run.Status = StatusOK
	}

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Input, run.Output,
		joinCodes(run.Settings.Langs), run.Settings.NoVote, run.Settings.Plaintext, joinCodes(run.Settings.Sessions),
		run.Stats.Units, run.Stats.Dropped, run.Stats.Variants, run.Stats.Footnotes, run.Stats.Markers,
		run.Stats.EventsIn, run.Stats.EventsOut,
		run.Digest.SHA256, run.Digest.BLAKE3, run.Bytes,
		run.StartedAt.UnixNano(), run.FinishedAt.UnixNano(),
		string(run.Status), run.Error,
	)
	if err != nil {
		return "", fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return run.ID, nil
}

// List returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (l *Ledger) List(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT `+columns+` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns the run whose ID is id or starts with it. A prefix shared by
// several runs is rejected.
func (l *Ledger) Get(ctx context.Context, id string) (*Run, error) {
	if id == "" {
		return nil, errors.NewValidation("id", "run ID must not be empty")
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT `+columns+` FROM runs WHERE substr(id, 1, ?) = ? LIMIT 2`, len(id), id)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	defer rows.Close()

	var found []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(found) {
	case 0:
		return nil, errors.NewNotFound("run", id)
	case 1:
		return found[0], nil
	default:
		return nil, errors.NewValidation("id", fmt.Sprintf("prefix %q matches more than one run", id))
	}
}

func scanRun(rows *sql.Rows) (*Run, error) {
	var (
		run               Run
		langs, sessions   string
		status            string
		started, finished int64
	)
	err := rows.Scan(
		&run.ID, &run.Input, &run.Output,
		&langs, &run.Settings.NoVote, &run.Settings.Plaintext, &sessions,
		&run.Stats.Units, &run.Stats.Dropped, &run.Stats.Variants, &run.Stats.Footnotes, &run.Stats.Markers,
		&run.Stats.EventsIn, &run.Stats.EventsOut,
		&run.Digest.SHA256, &run.Digest.BLAKE3, &run.Bytes,
		&started, &finished,
		&status, &run.Error,
	)
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.Settings.Langs = splitCodes(langs)
	run.Settings.Sessions = splitCodes(sessions)
	run.StartedAt = time.Unix(0, started).UTC()
	run.FinishedAt = time.Unix(0, finished).UTC()
	run.Status = Status(status)
	return &run, nil
}

func joinCodes(codes []string) string {
	return strings.Join(codes, ",")
}

func splitCodes(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
