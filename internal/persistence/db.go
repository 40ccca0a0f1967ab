// Package persistence archives contests in SQLite: the roster after every
// step, each round's log as a compressed blob, and the driver's metadata.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"github.com/talgya/tribute-arena/internal/agents"
	"github.com/talgya/tribute-arena/internal/engine"
)

// DB wraps a SQLite connection for contest storage.
type DB struct {
	conn *sqlx.DB
	enc  *zstd.Encoder
	dec  *zstd.Decoder
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("zstd reader: %w", err)
	}

	db := &DB{conn: conn, enc: enc, dec: dec}
	if err := db.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.dec.Close()
	db.enc.Close()
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tributes (
		id TEXT PRIMARY KEY,
		slot INTEGER NOT NULL,
		name TEXT NOT NULL,
		district INTEGER NOT NULL,
		alive INTEGER NOT NULL,
		kill_count INTEGER NOT NULL,
		data_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rounds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		phase TEXT NOT NULL,
		day INTEGER NOT NULL,
		deaths INTEGER NOT NULL,
		entries INTEGER NOT NULL,
		logs_zstd BLOB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS game_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tributes_alive ON tributes(alive);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRoster writes every tribute (full replace).
func (db *DB) SaveRoster(roster agents.Roster) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM tributes"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO tributes
		(id, slot, name, district, alive, kill_count, data_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range roster {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encode tribute %s: %w", t.ID, err)
		}
		alive := 0
		if t.Alive() {
			alive = 1
		}
		if _, err := stmt.Exec(t.ID, i, t.Name, t.District, alive, t.KillCount, string(data)); err != nil {
			return fmt.Errorf("insert tribute %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// LoadRoster reads the roster back in its original order.
func (db *DB) LoadRoster() (agents.Roster, error) {
	var rows []string
	if err := db.conn.Select(&rows, "SELECT data_json FROM tributes ORDER BY slot"); err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	roster := make(agents.Roster, 0, len(rows))
	for _, raw := range rows {
		var t agents.Tribute
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			return nil, fmt.Errorf("decode tribute: %w", err)
		}
		roster = append(roster, &t)
	}
	return roster, nil
}

// SaveRound appends one round's log.
func (db *DB) SaveRound(round engine.RoundHistory) error {
	raw, err := json.Marshal(round.Logs)
	if err != nil {
		return fmt.Errorf("encode round: %w", err)
	}
	_, err = db.conn.Exec(
		"INSERT INTO rounds (phase, day, deaths, entries, logs_zstd) VALUES (?, ?, ?, ?, ?)",
		round.Phase, round.Day, round.Deaths(), len(round.Logs), db.enc.EncodeAll(raw, nil),
	)
	if err != nil {
		return fmt.Errorf("insert round %s day %d: %w", round.Phase, round.Day, err)
	}
	return nil
}

type roundRow struct {
	Phase string `db:"phase"`
	Day   int    `db:"day"`
	Logs  []byte `db:"logs_zstd"`
}

// Rounds returns every archived round in order.
func (db *DB) Rounds() ([]engine.RoundHistory, error) {
	var rows []roundRow
	if err := db.conn.Select(&rows, "SELECT phase, day, logs_zstd FROM rounds ORDER BY id"); err != nil {
		return nil, fmt.Errorf("load rounds: %w", err)
	}
	out := make([]engine.RoundHistory, 0, len(rows))
	for _, r := range rows {
		raw, err := db.dec.DecodeAll(r.Logs, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress %s day %d: %w", r.Phase, r.Day, err)
		}
		round := engine.RoundHistory{Phase: r.Phase, Day: r.Day}
		if err := json.Unmarshal(raw, &round.Logs); err != nil {
			return nil, fmt.Errorf("decode %s day %d: %w", r.Phase, r.Day, err)
		}
		out = append(out, round)
	}
	return out, nil
}

// DeathTally is the number of deaths archived per day.
type DeathTally struct {
	Day    int `db:"day" json:"day"`
	Deaths int `db:"deaths" json:"deaths"`
}

// DeathsByDay sums deaths per day without decompressing any logs.
func (db *DB) DeathsByDay() ([]DeathTally, error) {
	var out []DeathTally
	err := db.conn.Select(&out, "SELECT day, SUM(deaths) AS deaths FROM rounds GROUP BY day ORDER BY day")
	return out, err
}

// SaveMeta stores the given metadata pairs.
func (db *DB) SaveMeta(meta map[string]string) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for k, v := range meta {
		if _, err := tx.Exec("INSERT OR REPLACE INTO game_meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("save meta %s: %w", k, err)
		}
	}
	return tx.Commit()
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM game_meta WHERE key = ?", key)
	return value, err
}

// Meta returns every metadata pair.
func (db *DB) Meta() (map[string]string, error) {
	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	if err := db.conn.Select(&rows, "SELECT key, value FROM game_meta"); err != nil {
		return nil, err
	}
	meta := make(map[string]string, len(rows))
	for _, r := range rows {
		meta[r.Key] = r.Value
	}
	return meta, nil
}

// HasGame reports whether a contest has been archived.
func (db *DB) HasGame() bool {
	_, err := db.GetMeta(engine.MetaStage)
	return err == nil
}

// LoadGame reads back everything needed to resume a contest.
func (db *DB) LoadGame() (engine.Saved, error) {
	var saved engine.Saved
	if _, err := db.GetMeta(engine.MetaStage); errors.Is(err, sql.ErrNoRows) {
		return saved, fmt.Errorf("no archived contest")
	}

	var err error
	if saved.Roster, err = db.LoadRoster(); err != nil {
		return saved, err
	}
	if saved.Rounds, err = db.Rounds(); err != nil {
		return saved, err
	}
	if saved.Meta, err = db.Meta(); err != nil {
		return saved, fmt.Errorf("load meta: %w", err)
	}
	slog.Info("archive loaded", "tributes", len(saved.Roster), "rounds", len(saved.Rounds))
	return saved, nil
}

// Reset wipes the archive for a new contest.
func (db *DB) Reset() error {
	_, err := db.conn.Exec("DELETE FROM tributes; DELETE FROM rounds; DELETE FROM game_meta;")
	return err
}
