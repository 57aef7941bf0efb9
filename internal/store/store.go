// Package store provides the SQLite search log for shopper.
//
// Only search outcomes are recorded (query, filters, result count, latency).
// Results themselves are never cached and chat is never persisted.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Outcome classifies how a search ended.
type Outcome string

const (
	OutcomeOK        Outcome = "ok"
	OutcomeEmpty     Outcome = "empty"
	OutcomeBackend   Outcome = "backend_error"
	OutcomeTransport Outcome = "transport_error"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Search is one row of the search log.
type Search struct {
	ID        int64
	RequestID string
	Query     string
	MinPrice  *float64
	MaxPrice  *float64
	Notes     string
	Outcome   Outcome
	Results   int
	Source    string
	TopTitle  string
	Err       string
	Duration  time.Duration
	At        time.Time
}

// Summary aggregates the search log.
type Summary struct {
	Total       int
	Empty       int
	Failed      int
	AvgDuration time.Duration
	Last        time.Time
	TopQueries  []QueryCount
}

// QueryCount is a query and how often it was issued.
type QueryCount struct {
	Query string
	Count int
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist. WAL mode for file-based DBs only.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// shared cache so every pooled connection sees the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS searches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		request_id TEXT,
		query TEXT NOT NULL,
		min_price REAL,
		max_price REAL,
		notes TEXT,
		outcome TEXT NOT NULL,
		result_count INTEGER NOT NULL DEFAULT 0,
		source TEXT,
		top_title TEXT,
		error TEXT,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_searches_created ON searches(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_searches_query ON searches(query);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// RecordSearch appends one search outcome. At defaults to now.
func (s *Store) RecordSearch(ctx context.Context, e Search) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	if e.Outcome == "" {
		e.Outcome = OutcomeOK
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO searches (request_id, query, min_price, max_price, notes, outcome,
			result_count, source, top_title, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RequestID, e.Query, nullFloat(e.MinPrice), nullFloat(e.MaxPrice), e.Notes, string(e.Outcome),
		e.Results, e.Source, e.TopTitle, e.Err, e.Duration.Milliseconds(), e.At.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert search: %w", err)
	}
	return nil
}

// RecentSearches returns up to limit searches, newest first.
func (s *Store) RecentSearches(ctx context.Context, limit int) ([]Search, error) {
	if limit <= 0 {
		limit = 20
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, COALESCE(request_id, ''), query, min_price, max_price, COALESCE(notes, ''),
			outcome, result_count, COALESCE(source, ''), COALESCE(top_title, ''),
			COALESCE(error, ''), duration_ms, created_at
		FROM searches
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query searches: %w", err)
	}
	defer rows.Close()

	var out []Search
	for rows.Next() {
		var (
			e          Search
			minP, maxP sql.NullFloat64
			outcome    string
			durMs, at  int64
		)
		if err := rows.Scan(&e.ID, &e.RequestID, &e.Query, &minP, &maxP, &e.Notes,
			&outcome, &e.Results, &e.Source, &e.TopTitle, &e.Err, &durMs, &at); err != nil {
			return nil, fmt.Errorf("scan search: %w", err)
		}
		if minP.Valid {
			v := minP.Float64
			e.MinPrice = &v
		}
		if maxP.Valid {
			v := maxP.Float64
			e.MaxPrice = &v
		}
		e.Outcome = Outcome(outcome)
		e.Duration = time.Duration(durMs) * time.Millisecond
		e.At = time.UnixMilli(at)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Summarize aggregates the whole log. topN bounds TopQueries.
func (s *Store) Summarize(ctx context.Context, topN int) (Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		sum   Summary
		avgMs sql.NullFloat64
		last  sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN outcome IN (?, ?) THEN 1 ELSE 0 END), 0),
			AVG(duration_ms),
			MAX(created_at)
		FROM searches`,
		string(OutcomeEmpty), string(OutcomeBackend), string(OutcomeTransport),
	).Scan(&sum.Total, &sum.Empty, &sum.Failed, &avgMs, &last)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize searches: %w", err)
	}
	if avgMs.Valid {
		sum.AvgDuration = time.Duration(avgMs.Float64 * float64(time.Millisecond))
	}
	if last.Valid {
		sum.Last = time.UnixMilli(last.Int64)
	}

	if topN <= 0 {
		return sum, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT query, COUNT(*) AS n
		FROM searches
		GROUP BY query
		ORDER BY n DESC, MAX(created_at) DESC
		LIMIT ?`, topN)
	if err != nil {
		return Summary{}, fmt.Errorf("query top searches: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var qc QueryCount
		if err := rows.Scan(&qc.Query, &qc.Count); err != nil {
			return Summary{}, fmt.Errorf("scan top search: %w", err)
		}
		sum.TopQueries = append(sum.TopQueries, qc)
	}
	return sum, rows.Err()
}

// Prune deletes searches older than the cutoff, returning rows removed.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UnixMilli()

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM searches WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune searches: %w", err)
	}
	return res.RowsAffected()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
