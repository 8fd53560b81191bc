// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package snapshot persists captured API descriptions in SQLite so that
// API surfaces can be compared across Neovim versions.
package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tim-harding/nvim-sys/internal/apiinfo"
)

const dbFile = "snapshots.db"

// Store manages the snapshot SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the snapshot database at dir/snapshots.db,
// creating the schema if it does not exist.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			captured_at TEXT NOT NULL,
			api_level INTEGER NOT NULL,
			api_compatible INTEGER NOT NULL,
			major INTEGER NOT NULL,
			minor INTEGER NOT NULL,
			patch INTEGER NOT NULL,
			prerelease INTEGER NOT NULL,
			payload BLOB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS functions (
			snapshot_id INTEGER NOT NULL REFERENCES snapshots(id),
			name TEXT NOT NULL,
			since INTEGER NOT NULL,
			deprecated_since INTEGER,
			method INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_functions_snapshot_id ON functions(snapshot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_functions_name ON functions(name)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Info summarizes one stored snapshot.
type Info struct {
	ID         int64
	CapturedAt time.Time
	Version    apiinfo.Version
	Functions  int
}

// Save records the typed API description together with its raw MessagePack
// payload and returns the new snapshot ID.
func (s *Store) Save(ctx context.Context, root *apiinfo.Root, payload []byte) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	v := root.Version
	res, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots
			(captured_at, api_level, api_compatible, major, minor, patch, prerelease, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		v.APILevel, v.APICompatible, v.Major, v.Minor, v.Patch, v.Prerelease,
		payload,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting snapshot: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading snapshot id: %w", err)
	}

	for _, fn := range root.Functions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO functions (snapshot_id, name, since, deprecated_since, method)
			 VALUES (?, ?, ?, ?, ?)`,
			id, fn.Name, fn.Since, fn.DeprecatedSince, fn.Method,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting function %s: %w", fn.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing snapshot: %w", err)
	}
	return id, nil
}

// List returns all snapshots, oldest first.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.captured_at, s.api_level, s.api_compatible,
		        s.major, s.minor, s.patch, s.prerelease,
		        (SELECT COUNT(*) FROM functions f WHERE f.snapshot_id = s.id)
		 FROM snapshots s
		 ORDER BY s.id`)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var info Info
		var capturedAt string
		err := rows.Scan(&info.ID, &capturedAt,
			&info.Version.APILevel, &info.Version.APICompatible,
			&info.Version.Major, &info.Version.Minor, &info.Version.Patch,
			&info.Version.Prerelease, &info.Functions)
		if err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		info.CapturedAt, err = time.Parse(time.RFC3339, capturedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing captured_at for snapshot %d: %w", info.ID, err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Payload returns the raw MessagePack payload of a snapshot.
func (s *Store) Payload(ctx context.Context, id int64) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("snapshot %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying snapshot %d: %w", id, err)
	}
	return payload, nil
}
