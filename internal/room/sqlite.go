package room

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

	_ "modernc.org/sqlite"
)

const defaultSQLitePath = "leastcount_local.db"

// SQLiteStore persists rooms in a single-file database. Suited to a
// single-process host; the single open connection plus WAL keeps writers
// from tripping over each other.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStoreFromEnv() (*SQLiteStore, error) {
	path := strings.TrimSpace(os.Getenv("ROOM_SQLITE_PATH"))
	if path == "" {
		path = defaultSQLitePath
	}
	return NewSQLiteStore(path)
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteRoomSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Create(ctx context.Context, r *Room) error {
	members, err := json.Marshal(r.Members)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO rooms (
    code, host_id, status, max_seats, members, game_state, created_at_ms, updated_at_ms
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, r.Code, r.HostID, string(r.Status), r.MaxSeats, string(members), nullableJSON(r.GameState), r.CreatedAtMs, r.UpdatedAtMs)
	if err != nil && isSQLiteUniqueViolation(err) {
		return ErrCodeTaken
	}
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, code string) (*Room, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT code, host_id, status, max_seats, members, game_state, created_at_ms, updated_at_ms
FROM rooms
WHERE code = ?
`, code)
	return scanRoom(row)
}

func (s *SQLiteStore) Update(ctx context.Context, r *Room) error {
	members, err := json.Marshal(r.Members)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
UPDATE rooms
SET host_id = ?,
    status = ?,
    max_seats = ?,
    members = ?,
    game_state = ?,
    updated_at_ms = ?
WHERE code = ?
`, r.HostID, string(r.Status), r.MaxSeats, string(members), nullableJSON(r.GameState), r.UpdatedAtMs, r.Code)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, code string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rooms WHERE code = ?`, code)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (*Room, error) {
	var (
		r       Room
		status  string
		members string
		state   sql.NullString
	)
	err := row.Scan(&r.Code, &r.HostID, &status, &r.MaxSeats, &members, &state, &r.CreatedAtMs, &r.UpdatedAtMs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r.Status = Status(status)
	if err := json.Unmarshal([]byte(members), &r.Members); err != nil {
		return nil, fmt.Errorf("room %s: corrupt members column: %w", r.Code, err)
	}
	if state.Valid && state.String != "" {
		r.GameState = json.RawMessage(state.String)
	}
	return &r, nil
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func ensureSQLiteRoomSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS rooms (
    code TEXT PRIMARY KEY,
    host_id TEXT NOT NULL,
    status TEXT NOT NULL,
    max_seats INTEGER NOT NULL,
    members TEXT NOT NULL,
    game_state TEXT,
    created_at_ms INTEGER NOT NULL,
    updated_at_ms INTEGER NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_rooms_status ON rooms(status, updated_at_ms DESC)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func isSQLiteUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
