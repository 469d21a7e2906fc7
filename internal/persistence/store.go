// Package persistence provides SQLite-backed storage for simulation
// sessions: one row per tick, the delta that produced it, and periodic
// full-world snapshots for load and replay.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/geosim/internal/config"
)

// ErrNotFound is returned when a session, snapshot, or tick does not
// exist in the store.
var ErrNotFound = errors.New("persistence: not found")

// Store wraps a SQLite connection for session storage.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		name TEXT NOT NULL,
		seed INTEGER NOT NULL,
		config_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ticks (
		session_id TEXT NOT NULL,
		tick_number INTEGER NOT NULL,
		timestamp INTEGER NOT NULL,
		PRIMARY KEY (session_id, tick_number),
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);

	CREATE TABLE IF NOT EXISTS deltas (
		session_id TEXT NOT NULL,
		tick_number INTEGER NOT NULL,
		delta_json TEXT NOT NULL,
		PRIMARY KEY (session_id, tick_number)
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		session_id TEXT NOT NULL,
		tick_number INTEGER NOT NULL,
		world_json TEXT NOT NULL,
		PRIMARY KEY (session_id, tick_number)
	);

	CREATE INDEX IF NOT EXISTS idx_deltas_session ON deltas(session_id, tick_number);
	CREATE INDEX IF NOT EXISTS idx_snapshots_session ON snapshots(session_id, tick_number);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Session is one stored simulation run.
type Session struct {
	ID         string `db:"id" json:"id"`
	CreatedAt  int64  `db:"created_at" json:"created_at"`
	Name       string `db:"name" json:"name"`
	Seed       int64  `db:"seed" json:"seed"`
	ConfigJSON string `db:"config_json" json:"-"`
}

// Config deserializes the rule set the session was created with.
func (m Session) Config() (*config.Config, error) {
	cfg := config.Defaults()
	if err := json.Unmarshal([]byte(m.ConfigJSON), cfg); err != nil {
		return nil, fmt.Errorf("decode session config: %w", err)
	}
	return cfg, nil
}

// CreateSession inserts a new session row and returns its id.
func (s *Store) CreateSession(name string, seed int64, cfg *config.Config) (string, error) {
	id := uuid.NewString()
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}

	_, err = s.conn.Exec(
		"INSERT INTO sessions (id, created_at, name, seed, config_json) VALUES (?, ?, ?, ?, ?)",
		id, time.Now().Unix(), name, seed, string(cfgJSON),
	)
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	return id, nil
}

// GetSession loads one session row.
func (s *Store) GetSession(id string) (Session, error) {
	var m Session
	err := s.conn.Get(&m, "SELECT * FROM sessions WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	return m, nil
}

// ListSessions returns all sessions, newest first.
func (s *Store) ListSessions() ([]Session, error) {
	var out []Session
	err := s.conn.Select(&out, "SELECT * FROM sessions ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}

// SaveStep records one advanced tick: the tick row, its delta, and
// optionally a snapshot, all in a single transaction. A nil snapshot
// means this tick is not on a snapshot boundary.
func (s *Store) SaveStep(sessionID string, tick int64, deltaJSON, snapshotJSON []byte) error {
	tx, err := s.conn.Beginx()
	if err != nil {
		return fmt.Errorf("begin save step: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO ticks (session_id, tick_number, timestamp) VALUES (?, ?, ?)",
		sessionID, tick, time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("insert tick %d: %w", tick, err)
	}

	if deltaJSON != nil {
		if _, err := tx.Exec(
			"INSERT INTO deltas (session_id, tick_number, delta_json) VALUES (?, ?, ?)",
			sessionID, tick, string(deltaJSON),
		); err != nil {
			return fmt.Errorf("insert delta %d: %w", tick, err)
		}
	}

	if snapshotJSON != nil {
		if _, err := tx.Exec(
			"INSERT INTO snapshots (session_id, tick_number, world_json) VALUES (?, ?, ?)",
			sessionID, tick, string(snapshotJSON),
		); err != nil {
			return fmt.Errorf("insert snapshot %d: %w", tick, err)
		}
	}

	return tx.Commit()
}

// GetSnapshot returns the serialized world at exactly the given tick.
func (s *Store) GetSnapshot(sessionID string, tick int64) ([]byte, error) {
	var worldJSON string
	err := s.conn.Get(&worldJSON,
		"SELECT world_json FROM snapshots WHERE session_id = ? AND tick_number = ?",
		sessionID, tick,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s@%d: %w", sessionID, tick, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return []byte(worldJSON), nil
}

// GetSnapshotAtOrBefore returns the most recent snapshot with
// tick_number <= tick, the replay starting point for load-at-tick.
func (s *Store) GetSnapshotAtOrBefore(sessionID string, tick int64) (int64, []byte, error) {
	var row struct {
		Tick      int64  `db:"tick_number"`
		WorldJSON string `db:"world_json"`
	}
	err := s.conn.Get(&row,
		`SELECT tick_number, world_json FROM snapshots
		 WHERE session_id = ? AND tick_number <= ?
		 ORDER BY tick_number DESC LIMIT 1`,
		sessionID, tick,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil, fmt.Errorf("no snapshot at or before tick %d: %w", tick, ErrNotFound)
	}
	if err != nil {
		return 0, nil, fmt.Errorf("load snapshot: %w", err)
	}
	return row.Tick, []byte(row.WorldJSON), nil
}

// TickDelta is one stored delta row.
type TickDelta struct {
	Tick      int64  `db:"tick_number" json:"tick"`
	DeltaJSON string `db:"delta_json" json:"delta"`
}

// GetDeltas returns the deltas for ticks in [lo, hi], ordered by tick.
func (s *Store) GetDeltas(sessionID string, lo, hi int64) ([]TickDelta, error) {
	var out []TickDelta
	err := s.conn.Select(&out,
		`SELECT tick_number, delta_json FROM deltas
		 WHERE session_id = ? AND tick_number >= ? AND tick_number <= ?
		 ORDER BY tick_number`,
		sessionID, lo, hi,
	)
	if err != nil {
		return nil, fmt.Errorf("load deltas: %w", err)
	}
	return out, nil
}

// GetLatestTick returns the highest tick written for a session, 0 if
// only the initial snapshot exists.
func (s *Store) GetLatestTick(sessionID string) (int64, error) {
	var tick sql.NullInt64
	err := s.conn.Get(&tick, "SELECT MAX(tick_number) FROM ticks WHERE session_id = ?", sessionID)
	if err != nil {
		return 0, fmt.Errorf("latest tick: %w", err)
	}
	if !tick.Valid {
		return 0, nil
	}
	return tick.Int64, nil
}

// GetTickRange returns the lowest and highest tick written.
func (s *Store) GetTickRange(sessionID string) (int64, int64, error) {
	var row struct {
		Lo sql.NullInt64 `db:"lo"`
		Hi sql.NullInt64 `db:"hi"`
	}
	err := s.conn.Get(&row,
		"SELECT MIN(tick_number) AS lo, MAX(tick_number) AS hi FROM ticks WHERE session_id = ?",
		sessionID,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("tick range: %w", err)
	}
	return row.Lo.Int64, row.Hi.Int64, nil
}

// Event is one narrative message extracted from a stored delta.
type Event struct {
	Tick    int64  `json:"tick"`
	Message string `json:"message"`
}

// GetRecentEvents returns up to limit of the most recent events of a
// session in chronological order, read back out of the delta rows.
func (s *Store) GetRecentEvents(sessionID string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.conn.Queryx(
		`SELECT tick_number, delta_json FROM deltas
		 WHERE session_id = ? ORDER BY tick_number DESC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("load recent deltas: %w", err)
	}
	defer rows.Close()

	// Walk newest first until enough events are gathered, then reverse
	// back into chronological order.
	var newestFirst []Event
	for rows.Next() && len(newestFirst) < limit {
		var row TickDelta
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("scan delta row: %w", err)
		}
		var d struct {
			Events []string `json:"events"`
		}
		if err := json.Unmarshal([]byte(row.DeltaJSON), &d); err != nil {
			return nil, fmt.Errorf("decode delta at tick %d: %w", row.Tick, err)
		}
		// Keep in-tick order when prepending a tick's events.
		for i := len(d.Events) - 1; i >= 0; i-- {
			newestFirst = append(newestFirst, Event{Tick: row.Tick, Message: d.Events[i]})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deltas: %w", err)
	}

	if len(newestFirst) > limit {
		newestFirst = newestFirst[:limit]
	}
	events := make([]Event, 0, len(newestFirst))
	for i := len(newestFirst) - 1; i >= 0; i-- {
		events = append(events, newestFirst[i])
	}
	return events, nil
}

// TickSnapshot is one stored snapshot row.
type TickSnapshot struct {
	Tick      int64  `db:"tick_number" json:"tick"`
	WorldJSON string `db:"world_json" json:"world"`
}

// GetSampledSnapshots returns at most maxPoints snapshots uniformly
// spread over the session's history, for charting.
func (s *Store) GetSampledSnapshots(sessionID string, maxPoints int) ([]TickSnapshot, error) {
	var all []TickSnapshot
	err := s.conn.Select(&all,
		"SELECT tick_number, world_json FROM snapshots WHERE session_id = ? ORDER BY tick_number",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}
	if maxPoints <= 0 || len(all) <= maxPoints {
		return all, nil
	}

	// Uniform subsample, always keeping the first and last points.
	out := make([]TickSnapshot, 0, maxPoints)
	step := float64(len(all)-1) / float64(maxPoints-1)
	for i := 0; i < maxPoints; i++ {
		out = append(out, all[int(float64(i)*step+0.5)])
	}
	return out, nil
}
