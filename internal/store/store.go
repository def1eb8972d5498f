// Package store handles SQLite persistence of analysis and mood history.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/onkardamal/Aura/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout keeps stored timestamps lexically sortable.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for history data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
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

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			source TEXT NOT NULL,
			text_length INTEGER NOT NULL,
			sentiment_label TEXT NOT NULL,
			sentiment_score INTEGER NOT NULL,
			intent TEXT NOT NULL,
			suggestions TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS analysis_categories (
			analysis_id INTEGER NOT NULL,
			category TEXT NOT NULL,
			PRIMARY KEY (analysis_id, category)
		);`,
		`CREATE TABLE IF NOT EXISTS mood_events (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			at TEXT NOT NULL,
			mood TEXT NOT NULL,
			mode TEXT NOT NULL,
			speed_estimate INTEGER NOT NULL,
			error_rate REAL NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_mood_events_at ON mood_events(at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertAnalysis stores an analysis and its categories.
func (s *Store) InsertAnalysis(ctx context.Context, rec model.AnalysisRecord) (id int64, err error) {
	suggestions, err := json.Marshal(nonNil(rec.Result.Suggestions))
	if err != nil {
		return 0, fmt.Errorf("failed to encode suggestions: %w", err)
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

	res, err := tx.ExecContext(ctx,
		`INSERT INTO analyses (session_id, created_at, source, text_length, sentiment_label, sentiment_score, intent, suggestions)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID,
		rec.CreatedAt.UTC().Format(timeLayout),
		rec.Source,
		rec.TextLength,
		string(rec.Result.Sentiment.Label),
		rec.Result.Sentiment.Score,
		string(rec.Result.Intent),
		string(suggestions),
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(rec.Result.Categories) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT OR IGNORE INTO analysis_categories (analysis_id, category) VALUES (?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, c := range rec.Result.Categories {
			if _, err = stmt.ExecContext(ctx, id, string(c)); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListAnalyses returns analyses matching filter, oldest first.
func (s *Store) ListAnalyses(ctx context.Context, filter model.HistoryFilter) ([]model.AnalysisRecord, error) {
	where, args := filterClauses(filter, "created_at")
	query := fmt.Sprintf(`SELECT id, session_id, created_at, source, text_length, sentiment_label, sentiment_score, intent, suggestions
		FROM (
			SELECT * FROM analyses
			WHERE %s
			ORDER BY created_at DESC, id DESC
			%s
		)
		ORDER BY created_at ASC, id ASC`, where, limitClause(filter.Last))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.AnalysisRecord
	for rows.Next() {
		var rec model.AnalysisRecord
		var createdAt, label, intent, suggestions string
		if err := rows.Scan(&rec.ID, &rec.SessionID, &createdAt, &rec.Source, &rec.TextLength,
			&label, &rec.Result.Sentiment.Score, &intent, &suggestions); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, err
		}
		rec.CreatedAt = parsed
		rec.Result.Sentiment.Label = model.SentimentLabel(label)
		rec.Result.Intent = model.Intent(intent)
		if err := json.Unmarshal([]byte(suggestions), &rec.Result.Suggestions); err != nil {
			return nil, fmt.Errorf("failed to decode suggestions for analysis %d: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachCategories(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) attachCategories(ctx context.Context, records []model.AnalysisRecord) error {
	if len(records) == 0 {
		return nil
	}
	placeholders := make([]string, len(records))
	args := make([]any, len(records))
	index := make(map[int64]int, len(records))
	for i, rec := range records {
		placeholders[i] = "?"
		args[i] = rec.ID
		index[rec.ID] = i
	}
	query := fmt.Sprintf(`SELECT analysis_id, category FROM analysis_categories
		WHERE analysis_id IN (%s)
		ORDER BY analysis_id, rowid`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for rows.Next() {
		var id int64
		var category string
		if err := rows.Scan(&id, &category); err != nil {
			return err
		}
		i := index[id]
		records[i].Result.Categories = append(records[i].Result.Categories, model.Category(category))
	}
	return rows.Err()
}

// CategoryCounts tallies categories over the most recent window analyses, highest count first.
func (s *Store) CategoryCounts(ctx context.Context, window int) ([]model.CategoryCount, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent AS (
		SELECT id FROM analyses
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	)
	SELECT ac.category, COUNT(*) AS n
	FROM analysis_categories ac
	JOIN recent r ON r.id = ac.analysis_id
	GROUP BY ac.category
	ORDER BY n DESC, ac.category ASC`
	rows, err := s.db.QueryContext(ctx, query, window)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.CategoryCount
	for rows.Next() {
		var cc model.CategoryCount
		var category string
		if err := rows.Scan(&category, &cc.Count); err != nil {
			return nil, err
		}
		cc.Category = model.Category(category)
		result = append(result, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// InsertMood stores a typing mood change.
func (s *Store) InsertMood(ctx context.Context, rec model.MoodRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO mood_events (session_id, at, mood, mode, speed_estimate, error_rate)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.SessionID,
		rec.At.UTC().Format(timeLayout),
		string(rec.Mood),
		string(rec.Mode),
		rec.SpeedEstimate,
		rec.ErrorRate,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListMoods returns mood changes matching filter, oldest first.
func (s *Store) ListMoods(ctx context.Context, filter model.HistoryFilter) ([]model.MoodRecord, error) {
	where, args := filterClauses(filter, "at")
	query := fmt.Sprintf(`SELECT id, session_id, at, mood, mode, speed_estimate, error_rate
		FROM (
			SELECT * FROM mood_events
			WHERE %s
			ORDER BY at DESC, id DESC
			%s
		)
		ORDER BY at ASC, id ASC`, where, limitClause(filter.Last))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.MoodRecord
	for rows.Next() {
		var rec model.MoodRecord
		var at, mood, mode string
		if err := rows.Scan(&rec.ID, &rec.SessionID, &at, &mood, &mode, &rec.SpeedEstimate, &rec.ErrorRate); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, at)
		if err != nil {
			return nil, err
		}
		rec.At = parsed
		rec.Mood = model.MoodLabel(mood)
		rec.Mode = model.Mode(mode)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func filterClauses(filter model.HistoryFilter, timeColumn string) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.SessionID != "" {
		clauses = append(clauses, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if filter.Since != nil {
		clauses = append(clauses, timeColumn+" >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}
	return strings.Join(clauses, " AND "), args
}

func limitClause(last int) string {
	if last <= 0 {
		return ""
	}
	return fmt.Sprintf("LIMIT %d", last)
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
