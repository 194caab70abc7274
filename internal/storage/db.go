package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL driver and placeholder style.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// MemoryDSN opens a private in-memory SQLite database.
const MemoryDSN = ":memory:"

// sqliteTimeLayout is fixed width so stored timestamps sort as text.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DB is a migrated database handle shared by all repositories.
type DB struct {
	*sql.DB
	dialect Dialect
	sb      sq.StatementBuilderType
	now     func() time.Time
}

// Open connects to dsn, verifies the connection and applies pending migrations.
func Open(ctx context.Context, dialect Dialect, dsn string) (*DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch dialect {
	case SQLite:
		db, err = openSQLite(dsn)
	case Postgres:
		db, err = sql.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db, dialect, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return newDB(db, dialect), nil
}

func newDB(db *sql.DB, dialect Dialect) *DB {
	var format sq.PlaceholderFormat = sq.Question
	if dialect == Postgres {
		format = sq.Dollar
	}
	return &DB{
		DB:      db,
		dialect: dialect,
		sb:      sq.StatementBuilder.PlaceholderFormat(format),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func openSQLite(path string) (*sql.DB, error) {
	memory := path == MemoryDSN || path == ""
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	dsn := path
	if memory {
		dsn = MemoryDSN
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	dsn += sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if memory {
		// every new connection would get its own empty database
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	}
	return db, nil
}

// Dialect returns the dialect the handle was opened with.
func (db *DB) Dialect() Dialect { return db.dialect }

// Ready reports whether the database answers.
func (db *DB) Ready(ctx context.Context) error {
	return db.PingContext(ctx)
}

// timeArg converts t to the representation stored by the dialect.
func (db *DB) timeArg(t time.Time) any {
	t = t.UTC()
	if db.dialect == SQLite {
		return t.Format(sqliteTimeLayout)
	}
	return t
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
