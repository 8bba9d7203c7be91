// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/typedesk/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

var (
	// ErrNotFound is returned when a result does not exist.
	ErrNotFound = errors.New("result not found")
	// ErrDuplicate is returned when a result with the same text id is stored.
	ErrDuplicate = errors.New("result already stored")
)

const (
	// DefaultLimit is the page size used when a filter does not set one.
	DefaultLimit = 20

	// Fixed-width UTC timestamps keep text ordering chronological.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// Store wraps SQLite access for practice results.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.pragmas(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on setup failure.
			_ = cerr
		}
		return nil, err
	}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) pragmas() error {
	for _, p := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}
	return nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY,
			text_id TEXT NOT NULL UNIQUE,
			subject_id TEXT NOT NULL,
			subject_label TEXT NOT NULL,
			text_content TEXT NOT NULL,
			typed_content TEXT NOT NULL,
			duration INTEGER NOT NULL,
			wpm INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			error_count INTEGER NOT NULL,
			wrong_words INTEGER NOT NULL,
			missing_words INTEGER NOT NULL,
			extra_words INTEGER NOT NULL,
			marks REAL NOT NULL,
			total_marks INTEGER NOT NULL,
			finish_trigger TEXT NOT NULL,
			completed_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS result_word_diffs (
			result_id INTEGER NOT NULL REFERENCES results(id) ON DELETE CASCADE,
			idx INTEGER NOT NULL,
			expected TEXT NOT NULL,
			typed TEXT NOT NULL,
			status TEXT NOT NULL,
			PRIMARY KEY (result_id, idx)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_completed_at ON results(completed_at);`,
		`CREATE INDEX IF NOT EXISTS idx_results_subject ON results(subject_id);`,
		`CREATE INDEX IF NOT EXISTS idx_result_word_diffs_expected ON result_word_diffs(expected);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}

// InsertResult stores a finalized result and its word diffs.
func (s *Store) InsertResult(ctx context.Context, r model.Result) (id int64, err error) {
	completedAt := r.FinishedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	var existing int64
	switch qerr := tx.QueryRowContext(ctx, `SELECT id FROM results WHERE text_id = ?`, r.TextID).Scan(&existing); {
	case qerr == nil:
		err = ErrDuplicate
		return 0, err
	case !errors.Is(qerr, sql.ErrNoRows):
		err = fmt.Errorf("failed to check result: %w", qerr)
		return 0, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO results (text_id, subject_id, subject_label, text_content, typed_content, duration, wpm, accuracy,
			error_count, wrong_words, missing_words, extra_words, marks, total_marks, finish_trigger, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.TextID,
		r.SubjectID,
		r.SubjectLabel,
		r.TextContent,
		r.TypedContent,
		r.Duration,
		r.WPM,
		r.Accuracy,
		r.ErrorCount,
		r.WrongWords,
		r.MissingWords,
		r.ExtraWords,
		r.Marks,
		r.TotalMarks,
		string(r.Trigger),
		completedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert result: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(r.ErrorDetails) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO result_word_diffs (result_id, idx, expected, typed, status) VALUES (?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, d := range r.ErrorDetails {
			if _, err = stmt.ExecContext(ctx, id, d.Index, d.Expected, d.Typed, string(d.Status)); err != nil {
				return 0, fmt.Errorf("failed to insert word diff: %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

const recordColumns = `id, text_id, subject_id, subject_label, text_content, typed_content, duration, wpm, accuracy,
	error_count, wrong_words, missing_words, extra_words, marks, total_marks, finish_trigger, completed_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (model.Record, error) {
	var rec model.Record
	var trigger, completedAt string
	if err := row.Scan(&rec.ID, &rec.TextID, &rec.SubjectID, &rec.SubjectLabel, &rec.TextContent, &rec.TypedContent,
		&rec.Duration, &rec.WPM, &rec.Accuracy, &rec.ErrorCount, &rec.WrongWords, &rec.MissingWords, &rec.ExtraWords,
		&rec.Marks, &rec.TotalMarks, &trigger, &completedAt); err != nil {
		return model.Record{}, err
	}
	parsed, err := time.Parse(timeLayout, completedAt)
	if err != nil {
		return model.Record{}, err
	}
	rec.Trigger = model.Trigger(trigger)
	rec.CompletedAt = parsed
	rec.FinishedAt = parsed
	rec.ErrorDetails = []model.WordDiff{}
	return rec, nil
}

// GetResult returns a stored result by its text id, including word diffs.
func (s *Store) GetResult(ctx context.Context, textID string) (model.Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM results WHERE text_id = ?`, textID)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Record{}, ErrNotFound
	}
	if err != nil {
		return model.Record{}, fmt.Errorf("failed to load result: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, expected, typed, status FROM result_word_diffs WHERE result_id = ? ORDER BY idx ASC`, rec.ID)
	if err != nil {
		return model.Record{}, fmt.Errorf("failed to load word diffs: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for rows.Next() {
		var d model.WordDiff
		var status string
		if err := rows.Scan(&d.Index, &d.Expected, &d.Typed, &status); err != nil {
			return model.Record{}, err
		}
		d.Status = model.WordStatus(status)
		rec.ErrorDetails = append(rec.ErrorDetails, d)
	}
	if err := rows.Err(); err != nil {
		return model.Record{}, err
	}
	return rec, nil
}

func filterClauses(f model.HistoryFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if f.SubjectID != "" {
		clauses = append(clauses, "subject_id = ?")
		args = append(args, f.SubjectID)
	}
	if f.Since != nil {
		clauses = append(clauses, "completed_at >= ?")
		args = append(args, f.Since.UTC().Format(timeLayout))
	}
	return strings.Join(clauses, " AND "), args
}

// ListResults returns results newest first. Page is 1-based; a zero limit uses
// DefaultLimit and a negative limit returns every match. Word diffs are not
// loaded.
func (s *Store) ListResults(ctx context.Context, f model.HistoryFilter) ([]model.Record, error) {
	where, args := filterClauses(f)
	limit := f.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	query := fmt.Sprintf(`SELECT %s FROM results WHERE %s ORDER BY completed_at DESC, id DESC`, recordColumns, where)
	if limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, (page-1)*limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	records := []model.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// CountResults returns the number of results matching the filter.
func (s *Store) CountResults(ctx context.Context, f model.HistoryFilter) (int, error) {
	where, args := filterClauses(f)
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results WHERE `+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}
	return n, nil
}

// Summary aggregates results, optionally for one subject.
func (s *Store) Summary(ctx context.Context, subjectID string) (model.Summary, error) {
	where, args := filterClauses(model.HistoryFilter{SubjectID: subjectID})
	query := `SELECT COUNT(*), COALESCE(AVG(wpm), 0), COALESCE(MAX(wpm), 0), COALESCE(AVG(accuracy), 0),
		COALESCE(AVG(error_count), 0), COALESCE(AVG(marks), 0), COALESCE(SUM(duration), 0)
		FROM results WHERE ` + where
	var sum model.Summary
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&sum.TotalSessions, &sum.AvgWPM, &sum.BestWPM, &sum.AvgAccuracy, &sum.AvgErrors, &sum.AvgMarks, &sum.TotalSeconds,
	); err != nil {
		return model.Summary{}, fmt.Errorf("failed to summarize results: %w", err)
	}
	sum.TotalHours = float64(sum.TotalSeconds) / 3600
	return sum, nil
}

// MissedWords aggregates wrong and missing words over the most recent results.
// Words are ordered by total misses, then alphabetically.
func (s *Store) MissedWords(ctx context.Context, window int, subjectID string, limit int) ([]model.WordMiss, error) {
	if window <= 0 || limit <= 0 {
		return nil, nil
	}
	query := `WITH recent AS (
		SELECT id FROM results
		WHERE (? = '' OR subject_id = ?)
		ORDER BY completed_at DESC, id DESC
		LIMIT ?
	)
	SELECT d.expected,
		SUM(CASE WHEN d.status = 'wrong' THEN 1 ELSE 0 END) AS wrong,
		SUM(CASE WHEN d.status = 'missing' THEN 1 ELSE 0 END) AS missing
	FROM result_word_diffs d
	JOIN recent r ON r.id = d.result_id
	WHERE d.status IN ('wrong', 'missing')
	GROUP BY d.expected
	ORDER BY (wrong + missing) DESC, d.expected ASC
	LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, subjectID, subjectID, window, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate missed words: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.WordMiss
	for rows.Next() {
		var m model.WordMiss
		if err := rows.Scan(&m.Word, &m.Wrong, &m.Missing); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
