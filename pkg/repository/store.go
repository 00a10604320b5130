package repository

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

//go:embed schema.sql
var schemaFS embed.FS

// schemaVersion is stored in PRAGMA user_version once the schema is applied
const schemaVersion = 1

const defaultDSN = "file:eldercare.db?cache=shared&mode=rwc&_txlock=immediate"

// memorySeq names in-memory databases so every Open gets its own
var memorySeq atomic.Int64

// Config represents database configuration
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Store owns the settings database and the repositories built on it
type Store struct {
	Setting *SettingRepository
	DB      *sqlx.DB

	pin *sql.Conn // keeps an in-memory database alive between pooled connections
}

// Open connects to sqlite, tunes the connection and makes sure the schema is current
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		cfg.DSN = defaultDSN
	}
	memory := inMemory(cfg.DSN)
	if cfg.DSN == ":memory:" {
		// plain :memory: gives each pooled connection a private empty database
		cfg.DSN = fmt.Sprintf("file:eldercare-mem-%d?mode=memory&cache=shared", memorySeq.Add(1))
	}
	if memory && cfg.MaxOpenConns == 1 {
		cfg.MaxOpenConns = 2 // one connection is held by the pin
	}

	db, err := sqlx.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	store := &Store{Setting: NewSettingRepository(db), DB: db}
	if memory {
		// shared-cache memory databases vanish when the last connection closes
		if store.pin, err = db.Conn(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pin memory database: %w", err)
		}
	}

	if err := tune(ctx, db, memory); err != nil {
		_ = store.Close()
		return nil, err
	}
	if err := migrate(ctx, db); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.pin != nil {
		_ = s.pin.Close()
	}
	return s.DB.Close()
}

func inMemory(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}

// tune applies connection pragmas, WAL is skipped for in-memory databases
func tune(ctx context.Context, db *sqlx.DB, memory bool) error {
	pragmas := []string{"PRAGMA synchronous = NORMAL", "PRAGMA busy_timeout = 5000"}
	if !memory {
		pragmas = append([]string{"PRAGMA journal_mode = WAL"}, pragmas...)
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

// migrate creates the schema and stamps its version, refusing databases written by a newer release
func migrate(ctx context.Context, db *sqlx.DB) error {
	var version int
	if err := db.GetContext(ctx, &version, "PRAGMA user_version"); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("schema version %d is newer than supported %d", version, schemaVersion)
	}

	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	return nil
}
