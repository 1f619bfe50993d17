package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Run is one pipeline run.
type Run struct {
	RunID          int64
	StartedAt      time.Time
	FinishedAt     sql.NullTime
	InputPath      string
	OutputPath     string
	URLCount       int
	OKCount        int
	TooShortCount  int
	FailedCount    int
	DuplicateCount int
	TopKeywords    []string
}

// RunStats are the totals written when a run finishes.
type RunStats struct {
	URLCount       int
	OKCount        int
	TooShortCount  int
	FailedCount    int
	DuplicateCount int
	TopKeywords    []string
}

// InsertURL inserts a URL, returning the url_id.
// If the URL already exists, returns the existing url_id.
func (db *DB) InsertURL(rawURL string) (int64, error) {
	return insertURL(db.DB, rawURL)
}

type queryExecer interface {
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

func insertURL(q queryExecer, rawURL string) (int64, error) {
	var existingID int64
	err := q.QueryRow("SELECT url_id FROM urls WHERE original_url = ?", rawURL).Scan(&existingID)
	if err == nil {
		return existingID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to check existing URL: %w", err)
	}

	// Unparseable URLs are still stored; they fail at fetch time.
	domain := ""
	if parsed, err := url.Parse(rawURL); err == nil {
		domain = parsed.Hostname()
	}

	result, err := q.Exec(`INSERT INTO urls (original_url, domain) VALUES (?, ?)`, rawURL, domain)
	if err != nil {
		return 0, fmt.Errorf("failed to insert URL: %w", err)
	}

	urlID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get URL ID: %w", err)
	}
	return urlID, nil
}

// CreateRun starts a run and returns its id.
func (db *DB) CreateRun(inputPath, outputPath string, startedAt time.Time) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO runs (started_at, input_path, output_path)
		VALUES (?, ?, ?)
	`, startedAt.UTC(), inputPath, NewNullString(outputPath))
	if err != nil {
		return 0, fmt.Errorf("failed to create run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return runID, nil
}

// FinishRun records the run totals and its end time.
func (db *DB) FinishRun(runID int64, stats RunStats, finishedAt time.Time) error {
	keywords, err := json.Marshal(stats.TopKeywords)
	if err != nil {
		return fmt.Errorf("failed to encode top keywords: %w", err)
	}

	result, err := db.Exec(`
		UPDATE runs
		SET finished_at = ?, url_count = ?, ok_count = ?, too_short_count = ?,
		    failed_count = ?, duplicate_count = ?, top_keywords = ?
		WHERE run_id = ?
	`, finishedAt.UTC(), stats.URLCount, stats.OKCount, stats.TooShortCount,
		stats.FailedCount, stats.DuplicateCount, string(keywords), runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("run %d not found", runID)
	}
	return nil
}

const runColumns = `run_id, started_at, finished_at, input_path, output_path, url_count,
	ok_count, too_short_count, failed_count, duplicate_count, top_keywords`

func scanRun(scan func(dest ...any) error) (Run, error) {
	var (
		r        Run
		output   sql.NullString
		keywords sql.NullString
	)
	if err := scan(&r.RunID, &r.StartedAt, &r.FinishedAt, &r.InputPath, &output, &r.URLCount,
		&r.OKCount, &r.TooShortCount, &r.FailedCount, &r.DuplicateCount, &keywords); err != nil {
		return Run{}, err
	}
	r.OutputPath = output.String
	if keywords.Valid && keywords.String != "" {
		_ = json.Unmarshal([]byte(keywords.String), &r.TopKeywords)
	}
	return r, nil
}

// GetRun returns one run by id.
func (db *DB) GetRun(runID int64) (*Run, error) {
	row := db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	r, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &r, nil
}

// ListRuns returns runs, most recent first. limit <= 0 means all.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, run_id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// NewNullString creates a sql.NullString from a string value.
func NewNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
