// Package snapshot keeps a SQLite copy of the last successfully fetched
// content collections. The spreadsheet backend is a free-tier Apps Script
// deployment that disappears behind quota errors from time to time; the
// snapshot lets the site keep serving the last known content instead of
// empty sections while it is away.
package snapshot

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sdn3bangkuang/sekolahku/internal/apperr"
	"github.com/sdn3bangkuang/sekolahku/internal/checksum"
	"github.com/sdn3bangkuang/sekolahku/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS collections (
	name       TEXT PRIMARY KEY,
	payload    TEXT NOT NULL DEFAULT '[]',
	checksum   TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// DB wraps a sql.DB holding the content snapshot.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the snapshot database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("snapshot: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("snapshot: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("snapshot: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Save stores the collections, one row per collection, inside a single
// transaction. Rows whose payload checksum has not changed are left
// untouched so the updated_at column reflects real content changes.
func (db *DB) Save(c *models.Collections) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("snapshot: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	for name, v := range map[string]any{
		"news":     c.News,
		"gallery":  c.Gallery,
		"teachers": c.Teachers,
	} {
		payload, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("snapshot: encode %s: %w", name, err)
		}
		cs := checksum.Sum(payload)
		_, err = tx.Exec(`
			INSERT INTO collections (name, payload, checksum, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				payload    = excluded.payload,
				checksum   = excluded.checksum,
				updated_at = excluded.updated_at
			WHERE collections.checksum <> excluded.checksum
		`, name, string(payload), cs, time.Now())
		if err != nil {
			return fmt.Errorf("snapshot: upsert %s: %w", name, err)
		}
	}

	return tx.Commit()
}

// Load returns the stored collections. It returns apperr.ErrNotFound when
// nothing has ever been saved.
func (db *DB) Load() (*models.Collections, error) {
	rows, err := db.conn.Query(`SELECT name, payload FROM collections`)
	if err != nil {
		return nil, fmt.Errorf("snapshot: load: %w", err)
	}
	defer rows.Close()

	out := &models.Collections{}
	found := false
	for rows.Next() {
		var name, payload string
		if err := rows.Scan(&name, &payload); err != nil {
			return nil, err
		}
		found = true
		switch name {
		case "news":
			err = json.Unmarshal([]byte(payload), &out.News)
		case "gallery":
			err = json.Unmarshal([]byte(payload), &out.Gallery)
		case "teachers":
			err = json.Unmarshal([]byte(payload), &out.Teachers)
		}
		if err != nil {
			return nil, fmt.Errorf("snapshot: decode %s: %w", name, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.ErrNotFound
	}
	return out, nil
}
