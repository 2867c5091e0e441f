package db

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/tgienger/ytl/internal/models"
)

//go:embed schema.sql
var schema string

// busyTimeout is how long SQLite waits on a locked database, in milliseconds
const busyTimeout = 5000

// DB wraps the database connection
type DB struct {
	*sql.DB
	now func() time.Time
}

// dsn builds a file: URI so that '?', '#' and '%' in path stay part of the
// file name instead of starting the query string or fragment.
func dsn(path string) string {
	u := url.URL{Path: path}
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=%d", u.EscapedPath(), busyTimeout)
}

// Option configures a DB at open time
type Option func(*DB)

// WithClock replaces time.Now for creation timestamps and deadline windows
func WithClock(now func() time.Time) Option {
	return func(db *DB) {
		db.now = now
	}
}

// Open creates the database file if needed, connects and initializes the schema
func Open(path string, opts ...Option) (*DB, error) {
	if path == "" {
		return nil, errors.New("open database: path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("open database: create directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One connection keeps every read behind the latest committed write.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Initialize schema
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("open database: apply schema: %w", err)
	}

	db := &DB{DB: conn, now: time.Now}
	for _, opt := range opts {
		opt(db)
	}
	return db, nil
}

// Close releases the connection. Calling it more than once is harmless.
func (db *DB) Close() error {
	if db == nil || db.DB == nil {
		return nil
	}
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// GetSetting retrieves a setting value by key
func (db *DB) GetSetting(key string) (string, error) {
	var value string
	err := db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", storageErr("get setting", err)
	}
	return value, nil
}

// SetSetting sets a setting value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return storageErr("set setting", err)
	}
	return nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", models.ErrStorage, op, err)
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", models.ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundErr(kind string, id int64) error {
	return fmt.Errorf("%w: %s %d", models.ErrNotFound, kind, id)
}

// nullable maps blank text to SQL NULL
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
