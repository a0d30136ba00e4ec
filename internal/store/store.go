// Package store handles SQLite persistence of results and account preferences.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/maxtype/internal/model"
	"github.com/verte-zerg/maxtype/internal/prefs"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when an account has no stored preferences.
var ErrNotFound = errors.New("not found")

// Store wraps SQLite access for results and account data.
type Store struct {
	db  *sql.DB
	now func() time.Time
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
	store := &Store{db: db, now: time.Now}
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
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			language TEXT NOT NULL,
			keyboard_layout TEXT NOT NULL,
			test_duration TEXT NOT NULL,
			text_type TEXT NOT NULL,
			wpm REAL NOT NULL,
			net_wpm REAL NOT NULL,
			accuracy REAL NOT NULL,
			consistency REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS account_preferences (
			user_id TEXT PRIMARY KEY,
			preferences TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_user ON results(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_results_config ON results(language, test_duration, text_type);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertResult stores a result for user and returns its ID.
// A record without an ID gets a new UUID; CreatedAt is stored verbatim.
func (s *Store) InsertResult(ctx context.Context, user string, rec model.ResultRecord) (string, error) {
	ids, err := s.InsertResults(ctx, user, []model.ResultRecord{rec})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// InsertResults stores several results in one transaction.
func (s *Store) InsertResults(ctx context.Context, user string, recs []model.ResultRecord) (ids []string, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (id, user_id, created_at, language, keyboard_layout, test_duration, text_type, wpm, net_wpm, accuracy, consistency)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()

	ids = make([]string, 0, len(recs))
	for _, rec := range recs {
		id := rec.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err = stmt.ExecContext(ctx,
			id,
			user,
			rec.CreatedAt,
			string(rec.Config.Language),
			string(rec.Config.KeyboardLayout),
			string(rec.Config.TestDuration),
			string(rec.Config.TextType),
			rec.Metrics.WPM,
			rec.Metrics.NetWPM,
			rec.Metrics.Accuracy,
			rec.Metrics.Consistency,
		); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

// ListResults returns the results of user matching filter, in insertion order.
func (s *Store) ListResults(ctx context.Context, user string, filter model.ConfigFilter) ([]model.ResultRecord, error) {
	clauses := []string{"user_id = ?"}
	args := []any{user}
	if filter.Language != "" {
		clauses = append(clauses, "language = ?")
		args = append(args, string(filter.Language))
	}
	if filter.TestDuration != "" {
		clauses = append(clauses, "test_duration = ?")
		args = append(args, string(filter.TestDuration))
	}
	if filter.TextType != "" {
		clauses = append(clauses, "text_type = ?")
		args = append(args, string(filter.TextType))
	}
	if filter.KeyboardLayout != "" {
		clauses = append(clauses, "keyboard_layout = ?")
		args = append(args, string(filter.KeyboardLayout))
	}
	query := fmt.Sprintf(`SELECT id, created_at, language, keyboard_layout, test_duration, text_type, wpm, net_wpm, accuracy, consistency
		FROM results
		WHERE %s
		ORDER BY rowid ASC`, strings.Join(clauses, " AND "))
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

	var result []model.ResultRecord
	for rows.Next() {
		var rec model.ResultRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.CreatedAt,
			&rec.Config.Language,
			&rec.Config.KeyboardLayout,
			&rec.Config.TestDuration,
			&rec.Config.TextType,
			&rec.Metrics.WPM,
			&rec.Metrics.NetWPM,
			&rec.Metrics.Accuracy,
			&rec.Metrics.Consistency,
		); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetPreferences returns the durable preferences of user, or ErrNotFound.
func (s *Store) GetPreferences(ctx context.Context, user string) (model.Preferences, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT preferences FROM account_preferences WHERE user_id = ?`, user).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Preferences{}, ErrNotFound
	}
	if err != nil {
		return model.Preferences{}, err
	}
	p, err := prefs.DecodeSnapshot(raw)
	if err != nil {
		return model.Preferences{}, fmt.Errorf("failed to decode preferences of %q: %w", user, err)
	}
	return p, nil
}

// CommitPreferences validates and upserts the preferences of user and
// returns the stored value.
func (s *Store) CommitPreferences(ctx context.Context, user string, p model.Preferences) (model.Preferences, error) {
	if err := prefs.Validate(p); err != nil {
		return model.Preferences{}, err
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return model.Preferences{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO account_preferences (user_id, preferences, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET preferences = excluded.preferences, updated_at = excluded.updated_at`,
		user, string(raw), s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return model.Preferences{}, err
	}
	return s.GetPreferences(ctx, user)
}
