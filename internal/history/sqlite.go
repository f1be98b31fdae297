package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/UParthsarathi/3Poker-exp/game"
)

const defaultHistoryDBName = "leastcount_history.db"

// SQLiteService is the ledger backend. History is local to the host
// process, so sqlite covers both deployments.
type SQLiteService struct {
	db *sql.DB
}

func NewSQLiteServiceFromEnv() (*SQLiteService, error) {
	path := strings.TrimSpace(os.Getenv("HISTORY_DB_PATH"))
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "leastcount", defaultHistoryDBName)
	}
	return NewSQLiteService(path)
}

func NewSQLiteService(dbPath string) (*SQLiteService, error) {
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
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS round_results (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    room_code TEXT NOT NULL,
    round INTEGER NOT NULL,
    wildcard_rank INTEGER NOT NULL,
    seat INTEGER NOT NULL,
    name TEXT NOT NULL,
    caller INTEGER NOT NULL,
    round_score INTEGER NOT NULL,
    total_score INTEGER NOT NULL,
    recorded_at_ms INTEGER NOT NULL
)`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_round_results ON round_results(room_code, round, seat)`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteService{db: db}, nil
}

func (s *SQLiteService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRound appends one row per seat. Re-recording the same round is a
// no-op thanks to the unique index, so replayed pushes stay harmless.
func (s *SQLiteService) RecordRound(ctx context.Context, code string, st *game.State) error {
	rows := resultsFromState(code, st, time.Now().UTC().UnixMilli())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range rows {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO round_results (
    room_code, round, wildcard_rank, seat, name, caller, round_score, total_score, recorded_at_ms
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(room_code, round, seat) DO NOTHING
`, r.RoomCode, r.Round, r.WildcardRank, r.Seat, r.Name, boolToInt(r.Caller), r.RoundScore, r.TotalScore, r.RecordedAtMs); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListRounds returns a room's results ordered by round then seat.
func (s *SQLiteService) ListRounds(ctx context.Context, code string) ([]RoundResult, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT room_code, round, wildcard_rank, seat, name, caller, round_score, total_score, recorded_at_ms
FROM round_results
WHERE room_code = ?
ORDER BY round ASC, seat ASC
`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RoundResult
	for rows.Next() {
		var (
			r      RoundResult
			caller int
		)
		if err := rows.Scan(&r.RoomCode, &r.Round, &r.WildcardRank, &r.Seat, &r.Name,
			&caller, &r.RoundScore, &r.TotalScore, &r.RecordedAtMs); err != nil {
			return nil, err
		}
		r.Caller = caller != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ Service = (*SQLiteService)(nil)
