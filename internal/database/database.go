package database

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// New opens a Postgres pool through the pgx stdlib driver.
func New(connStr string) (*sql.DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// OpenSQLite opens a file-backed SQLite database with foreign keys enforced.
// A single connection serializes writers.
func OpenSQLite(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("opening sqlite database: path is required")
	}

	dsn := filepath.Clean(path) +
		"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}

	db.SetMaxOpenConns(1)

	return db, nil
}

// Open connects with the driver matching d and applies pending migrations.
func Open(d Dialect, dsn string) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch d {
	case Postgres:
		db, err = New(dsn)
	case SQLite:
		db, err = OpenSQLite(dsn)
	default:
		return nil, fmt.Errorf("opening database: unsupported dialect %q", d)
	}

	if err != nil {
		return nil, err
	}

	if err := Migrate(db, d); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
