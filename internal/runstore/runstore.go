// Package runstore persists refinement runs to SQLite so past plans can be
// listed, inspected, and exported after the process exits.
package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/mapforge/mapforge/internal/trajectory"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id                  TEXT PRIMARY KEY,
	created_at          TIMESTAMP NOT NULL,
	prompt              TEXT NOT NULL,
	actor_model         TEXT NOT NULL,
	critic_model        TEXT NOT NULL,
	termination         TEXT NOT NULL,
	approved            INTEGER NOT NULL,
	trajectory_json     TEXT,
	total_input_tokens  INTEGER NOT NULL,
	total_output_tokens INTEGER NOT NULL,
	elapsed_ms          INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS iterations (
	run_id        TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seq           INTEGER NOT NULL,
	iteration     INTEGER NOT NULL,
	role          TEXT NOT NULL,
	valid         INTEGER NOT NULL,
	verdict       TEXT,
	warning       TEXT,
	error         TEXT,
	attempts      INTEGER NOT NULL,
	input_tokens  INTEGER NOT NULL,
	output_tokens INTEGER NOT NULL,
	duration_ms   INTEGER NOT NULL,
	output_digest TEXT,
	PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
`

// Run is one persisted refinement run.
type Run struct {
	ID          string
	CreatedAt   time.Time
	ActorModel  string
	CriticModel string
	Result      *trajectory.RefinementResult
}

// Summary is the listing view of a run, without the iteration log.
type Summary struct {
	ID          string
	CreatedAt   time.Time
	Prompt      string
	ActorModel  string
	CriticModel string
	Termination trajectory.TerminationReason
	Approved    bool
	TotalTokens int64
	Elapsed     time.Duration
}

// Store wraps the SQLite database holding run history.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the run database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Save persists a completed run and returns its assigned ID.
func (s *Store) Save(ctx context.Context, actorModel, criticModel string, res *trajectory.RefinementResult) (string, error) {
	id := uuid.NewString()

	var trajJSON sql.NullString
	if res.Trajectory != nil {
		data, err := json.Marshal(res.Trajectory)
		if err != nil {
			return "", fmt.Errorf("marshaling trajectory: %w", err)
		}
		trajJSON = sql.NullString{String: string(data), Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, prompt, actor_model, critic_model,
			termination, approved, trajectory_json,
			total_input_tokens, total_output_tokens, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC(), res.Prompt, actorModel, criticModel,
		string(res.Termination), res.Approved, trajJSON,
		res.TotalInputTokens, res.TotalOutputTokens, res.Elapsed.Milliseconds())
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	for seq, rec := range res.Iterations {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO iterations (run_id, seq, iteration, role, valid, verdict,
				warning, error, attempts, input_tokens, output_tokens,
				duration_ms, output_digest)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, seq, rec.Iteration, string(rec.Role), rec.Valid, string(rec.Verdict),
			rec.Warning, rec.Error, rec.Attempts, rec.InputTokens, rec.OutputTokens,
			rec.Duration.Milliseconds(), rec.OutputDigest)
		if err != nil {
			return "", fmt.Errorf("inserting iteration %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// Get loads one run with its full iteration log.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	run := &Run{ID: id, Result: &trajectory.RefinementResult{}}

	var (
		termination string
		trajJSON    sql.NullString
		elapsedMS   int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT created_at, prompt, actor_model, critic_model, termination,
			approved, trajectory_json, total_input_tokens, total_output_tokens, elapsed_ms
		FROM runs WHERE id = ?`, id).Scan(
		&run.CreatedAt, &run.Result.Prompt, &run.ActorModel, &run.CriticModel,
		&termination, &run.Result.Approved, &trajJSON,
		&run.Result.TotalInputTokens, &run.Result.TotalOutputTokens, &elapsedMS)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run: %w", err)
	}
	run.Result.Termination = trajectory.TerminationReason(termination)
	run.Result.Elapsed = time.Duration(elapsedMS) * time.Millisecond

	if trajJSON.Valid {
		var t trajectory.Trajectory
		if err := json.Unmarshal([]byte(trajJSON.String), &t); err != nil {
			return nil, fmt.Errorf("unmarshaling trajectory: %w", err)
		}
		run.Result.Trajectory = &t
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT iteration, role, valid, verdict, warning, error, attempts,
			input_tokens, output_tokens, duration_ms, output_digest
		FROM iterations WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("loading iterations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec        trajectory.IterationRecord
			role       string
			verdict    string
			durationMS int64
		)
		if err := rows.Scan(&rec.Iteration, &role, &rec.Valid, &verdict,
			&rec.Warning, &rec.Error, &rec.Attempts,
			&rec.InputTokens, &rec.OutputTokens, &durationMS, &rec.OutputDigest); err != nil {
			return nil, fmt.Errorf("scanning iteration: %w", err)
		}
		rec.Role = trajectory.Role(role)
		rec.Verdict = trajectory.Verdict(verdict)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		run.Result.Iterations = append(run.Result.Iterations, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return run, nil
}

// List returns run summaries, newest first, up to limit (0 = no limit).
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	q := `
		SELECT id, created_at, prompt, actor_model, critic_model, termination,
			approved, total_input_tokens + total_output_tokens, elapsed_ms
		FROM runs ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum         Summary
			termination string
			elapsedMS   int64
		)
		if err := rows.Scan(&sum.ID, &sum.CreatedAt, &sum.Prompt, &sum.ActorModel,
			&sum.CriticModel, &termination, &sum.Approved, &sum.TotalTokens, &elapsedMS); err != nil {
			return nil, fmt.Errorf("scanning run summary: %w", err)
		}
		sum.Termination = trajectory.TerminationReason(termination)
		sum.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}

// Delete removes a run and its iterations.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}
