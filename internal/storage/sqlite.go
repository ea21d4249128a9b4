// Package storage provides SQLite-based persistence for the board state and
// the gift log. Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/gift-board/internal/board"
	"github.com/vovakirdan/gift-board/internal/live"
)

// DefaultBoardID names the snapshot row used when no board id is given.
const DefaultBoardID = "default"

// Store manages the SQLite database connection.
type Store struct {
	db      *sql.DB
	boardID string
}

// GiftEvent is one gift as received from the stream.
type GiftEvent struct {
	ID        int64
	User      string // Viewer name as sent by the stream
	Player    string // Normalized player name the gift was credited to
	GiftName  string
	Count     int
	Coins     int // Total coin value
	CreatedAt time.Time
}

// Gifter aggregates the gifts credited to one player name.
type Gifter struct {
	Player   string
	Gifts    int
	Coins    int64
	LastGift time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, boardID: DefaultBoardID}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS board_snapshots (
			board_id TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS gift_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			board_id TEXT NOT NULL,
			user_name TEXT NOT NULL,
			player TEXT NOT NULL,
			gift_name TEXT NOT NULL DEFAULT '',
			count INTEGER NOT NULL,
			coins INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_gift_events_player ON gift_events(board_id, player);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ForBoard returns a store that shares the connection but reads and writes
// the given board id.
func (s *Store) ForBoard(id string) *Store {
	return &Store{db: s.db, boardID: id}
}

// SaveSnapshot implements board.Persister. It replaces the stored board state.
func (s *Store) SaveSnapshot(snap board.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("storage: cannot encode snapshot: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO board_snapshots (board_id, data, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(board_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		s.boardID, data,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the stored board state, or nil if none was saved yet.
func (s *Store) LoadSnapshot() (*board.Snapshot, error) {
	var data []byte
	err := s.db.QueryRow(
		"SELECT data FROM board_snapshots WHERE board_id = ?",
		s.boardID,
	).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query snapshot: %w", err)
	}

	var snap board.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("storage: cannot decode snapshot: %w", err)
	}
	return &snap, nil
}

// DeleteSnapshot removes the stored board state.
func (s *Store) DeleteSnapshot() error {
	_, err := s.db.Exec("DELETE FROM board_snapshots WHERE board_id = ?", s.boardID)
	if err != nil {
		return fmt.Errorf("storage: cannot delete snapshot: %w", err)
	}
	return nil
}

// LogGift appends a gift to the audit log.
// Returns the ID of the inserted record.
func (s *Store) LogGift(e GiftEvent) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO gift_events (board_id, user_name, player, gift_name, count, coins)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.boardID, e.User, e.Player, e.GiftName, e.Count, e.Coins,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot log gift: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecordGift logs a gift applied by the coordinator.
func (s *Store) RecordGift(rec live.GiftRecord) error {
	_, err := s.LogGift(GiftEvent{
		User:     rec.User,
		Player:   rec.Player,
		GiftName: rec.GiftName,
		Count:    rec.Count,
		Coins:    rec.Coins,
	})
	return err
}

// RecentGifts returns the latest gifts, newest first.
func (s *Store) RecentGifts(limit int) ([]GiftEvent, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, user_name, player, gift_name, count, coins, created_at
		 FROM gift_events
		 WHERE board_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		s.boardID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query gifts: %w", err)
	}
	defer rows.Close()

	var events []GiftEvent
	for rows.Next() {
		var e GiftEvent
		var createdAt any
		if err := rows.Scan(&e.ID, &e.User, &e.Player, &e.GiftName, &e.Count, &e.Coins, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return events, nil
}

// TopGifters returns the players with the most coins gifted, highest first.
func (s *Store) TopGifters(limit int) ([]Gifter, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT player, SUM(count), SUM(coins), MAX(created_at)
		 FROM gift_events
		 WHERE board_id = ?
		 GROUP BY player
		 ORDER BY SUM(coins) DESC, player ASC
		 LIMIT ?`,
		s.boardID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query gifters: %w", err)
	}
	defer rows.Close()

	var gifters []Gifter
	for rows.Next() {
		var g Gifter
		var lastGift any
		if err := rows.Scan(&g.Player, &g.Gifts, &g.Coins, &lastGift); err != nil {
			return nil, fmt.Errorf("storage: cannot scan gifter row: %w", err)
		}
		g.LastGift = parseTime(lastGift)
		gifters = append(gifters, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return gifters, nil
}

// ClearGifts deletes the gift log of the board.
func (s *Store) ClearGifts() error {
	_, err := s.db.Exec("DELETE FROM gift_events WHERE board_id = ?", s.boardID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear gifts: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and the SQLite text datetime format.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// Ensure Store implements Persister and GiftRecorder
var (
	_ board.Persister   = (*Store)(nil)
	_ live.GiftRecorder = (*Store)(nil)
)
