// Package store implements the persisted catalog of §4.7: a SQLite
// schema mirroring the object graph, full-text and flag side tables,
// and the insert pipeline that populates them from parse results.
//
// Grounded on codenerd's internal/store/local_core.go (connection
// setup: busy_timeout/journal_mode/synchronous PRAGMAs,
// SetMaxOpenConns(1) to serialize writes against a single SQLite
// file) and internal/store/migrations.go (tableExists/columnExists
// migration-guard style), using the mattn/go-sqlite3 driver exactly
// as the teacher does. Schema content is grounded on original_source's
// sqlite_lib/src/db/migrations/sql_001_initial.rs.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Store wraps a SQLite connection pool configured for single-writer
// access, matching the teacher's local_core.go connection policy.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// Options controls database initialization. Open reads only
// ResetDatabase; OverwriteRaws is not consulted here, since InsertRaws
// takes its overwrite policy as an argument.
type Options struct {
	ResetDatabase bool
	OverwriteRaws bool
}

// Open opens (creating if necessary) the SQLite database at path,
// applies PRAGMA tuning, and runs migrations. Passing ":memory:"
// yields an ephemeral in-process database, the teacher's own test
// idiom.
func Open(path string, opts Options, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying %q: %w", p, err)
		}
	}

	s := &Store{db: db, log: log}

	if opts.ResetDatabase {
		if err := s.dropAll(); err != nil {
			db.Close()
			return nil, fmt.Errorf("resetting database: %w", err)
		}
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return s, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying *sql.DB for callers (e.g. internal/search)
// that need to run ad-hoc read queries against the same connection.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) dropAll() error {
	rows, err := s.db.Query(`SELECT name FROM sqlite_master WHERE type IN ('table','view')`)
	if err != nil {
		return err
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return err
		}
		names = append(names, name)
	}
	rows.Close()
	for _, name := range names {
		if _, err := s.db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, name)); err != nil {
			return err
		}
	}
	return nil
}

func tableExists(db *sql.DB, name string) (bool, error) {
	var count int
	err := db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type='table' AND name = ?`, name).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
